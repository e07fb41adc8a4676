package main

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/skillcheck/skillcheck/pkg/presenter"
	"github.com/skillcheck/skillcheck/pkg/skill"
)

var describeCmd = &cobra.Command{
	Use:   "describe [skill]",
	Short: "Show a skill's definition and parameter schema",
	Long: `Without arguments, lists every registered skill. With a skill name, prints
its metadata, triggers, red flags and the JSON Schema of its parameters.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		registry, err := buildRegistry()
		if err != nil {
			return err
		}

		if len(args) == 0 {
			for _, s := range registry.ListAll() {
				presenter.Info(fmt.Sprintf("%-30s %s", s.ID(), s.Metadata.Description))
			}
			return nil
		}

		s, err := registry.Get(args[0], "")
		if err != nil {
			return err
		}

		presenter.Section(s.ID())
		presenter.Info(s.Metadata.Description)
		if s.Metadata.Author != "" {
			presenter.Info("author: " + s.Metadata.Author)
		}
		if len(s.Metadata.Tags) > 0 {
			presenter.Info("tags: " + strings.Join(s.Metadata.Tags, ", "))
		}

		if len(s.Triggers) > 0 {
			presenter.Section("Triggers")
			for _, t := range s.Triggers {
				presenter.Info(fmt.Sprintf("  %s %q (priority %d)", t.Condition, t.Pattern, t.Priority))
			}
		}

		if len(s.RedFlags) > 0 {
			presenter.Section("Red Flags")
			for _, flag := range s.RedFlags {
				presenter.Info("  - " + flag)
			}
		}

		presenter.Section("Parameter Schema")
		schema := skill.ParameterSchema(s)
		data, err := json.MarshalIndent(schema, "", "  ")
		if err != nil {
			return err
		}
		fmt.Println(string(data))
		return nil
	},
}
