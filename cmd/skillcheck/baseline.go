package main

import (
	"encoding/json"
	"fmt"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/skillcheck/skillcheck/pkg/presenter"
	"github.com/skillcheck/skillcheck/pkg/regression"
	"github.com/skillcheck/skillcheck/pkg/runner"
)

var baselineCmd = &cobra.Command{
	Use:   "baseline",
	Short: "Inspect or refresh the regression baseline",
}

var baselineShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the stored baseline metrics",
	RunE: func(cmd *cobra.Command, args []string) error {
		detector := regression.NewDetector(baselinePath())
		metrics, err := detector.LoadBaseline()
		if err != nil {
			return err
		}
		if metrics == nil {
			return errors.Errorf("no baseline at %s", baselinePath())
		}

		data, err := json.MarshalIndent(metrics, "", "  ")
		if err != nil {
			return err
		}
		fmt.Println(string(data))
		return nil
	},
}

var baselineAcceptCmd = &cobra.Command{
	Use:   "accept",
	Short: "Run the fast tiers and store the result as the new baseline",
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

		r := runner.NewRunner(registry)
		report, err := r.RunAll(cmd.Context(), runner.Options{
			TriggerFixtures:  fixtures.Triggers,
			IntegrationCases: fixtures.Integration,
			RunUnit:          true,
			RunIntegration:   true,
			ParameterProbes:  true,
		})
		if err != nil {
			return err
		}
		presentReport(report)

		if report.Verdict != runner.VerdictPassed {
			return errors.New("refusing to accept a failing run as the baseline")
		}

		detector := regression.NewDetector(baselinePath())
		if err := detector.SaveBaseline(report.Metrics); err != nil {
			return err
		}
		presenter.Success("baseline updated: " + baselinePath())
		return nil
	},
}

func init() {
	baselineAcceptCmd.Flags().String("fixtures", "", "YAML file with trigger and integration cases")
	baselineCmd.AddCommand(baselineShowCmd)
	baselineCmd.AddCommand(baselineAcceptCmd)
}
