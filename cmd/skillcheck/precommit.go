package main

import (
	"github.com/spf13/cobra"

	"github.com/skillcheck/skillcheck/pkg/runner"
)

var precommitCmd = &cobra.Command{
	Use:   "precommit",
	Short: "Run the fast tiers as a commit gate",
	Long: `Runs unit checks, integration cases and parameter probes with regression
detection, skipping the slow e2e workflows. Intended for git pre-commit
hooks: a nonzero exit blocks the commit.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		registry, err := buildRegistry()
		if err != nil {
			return err
		}

		fixturePath, _ := cmd.Flags().GetString("fixtures")
		fixtures, err := loadFixtures(fixturePath)
		if err != nil {
			return err
		}

		r := runner.NewRunner(registry, runner.WithBaseline(baselinePath()))
		pipeline := runner.NewPipeline(r, runner.Fixtures{
			Triggers:    fixtures.Triggers,
			Integration: fixtures.Integration,
		}, "")

		report, err := pipeline.RunPreCommit(cmd.Context())
		if err != nil {
			return err
		}
		presentReport(report)
		return runner.Gate(report)
	},
}

func init() {
	precommitCmd.Flags().String("fixtures", "", "YAML file with trigger and integration cases")
}
