package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/skillcheck/skillcheck/pkg/examples"
	"github.com/skillcheck/skillcheck/pkg/integration"
	"github.com/skillcheck/skillcheck/pkg/presenter"
	"github.com/skillcheck/skillcheck/pkg/runner"
)

var demoCmd = &cobra.Command{
	Use:   "demo",
	Short: "Run the built-in example skills through every fast tier",
	RunE: func(cmd *cobra.Command, args []string) error {
		registry, err := examples.NewRegistry()
		if err != nil {
			return err
		}

		presenter.Section("Registered Skills")
		for _, s := range registry.ListAll() {
			presenter.Info(fmt.Sprintf("  %s: %s", s.ID(), s.Metadata.Description))
		}

		cases := []integration.TestCase{
			{
				Name:      "code_review_clean",
				SkillName: "code-review",
				Params: map[string]any{
					"code":     "func hello() {}",
					"language": "go",
				},
				ExpectedOutputType: "map",
				ShouldSucceed:      true,
			},
			{
				Name:      "test_generator_testify",
				SkillName: "test-generator",
				Params: map[string]any{
					"function_name":  "add",
					"function_code":  "func add(a, b int) int { return a + b }",
					"test_framework": "testify",
				},
				ShouldSucceed: true,
			},
			{
				Name:      "refactor_rejects_unknown_type",
				SkillName: "refactor",
				Params: map[string]any{
					"code":          "func calc() {}",
					"refactor_type": "rewrite_from_scratch",
				},
				ShouldSucceed: false,
			},
		}

		r := runner.NewRunner(registry)
		report, err := r.RunAll(cmd.Context(), runner.Options{
			IntegrationCases: cases,
			RunUnit:          true,
			RunIntegration:   true,
			ParameterProbes:  true,
		})
		if err != nil {
			return err
		}

		presentReport(report)
		return runner.Gate(report)
	},
}
