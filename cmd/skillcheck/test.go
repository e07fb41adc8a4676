package main

import (
	"github.com/spf13/cobra"

	"github.com/skillcheck/skillcheck/pkg/history"
	"github.com/skillcheck/skillcheck/pkg/runner"
)

var testCmd = &cobra.Command{
	Use:   "test",
	Short: "Run the test tiers over the configured skills",
	Long: `Runs unit definition checks for every skill, the integration and e2e
cases from the fixture file, and optionally compares the run against the
stored baseline. Exits nonzero when anything fails.`,
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

		skipUnit, _ := cmd.Flags().GetBool("skip-unit")
		skipIntegration, _ := cmd.Flags().GetBool("skip-integration")
		skipE2E, _ := cmd.Flags().GetBool("skip-e2e")
		probes, _ := cmd.Flags().GetBool("probes")
		detect, _ := cmd.Flags().GetBool("detect-regression")
		exportPath, _ := cmd.Flags().GetString("export")
		historyPath, _ := cmd.Flags().GetString("history-db")

		opts := []runner.Option{runner.WithBaseline(baselinePath())}
		if historyPath != "" {
			store, err := history.Open(cmd.Context(), historyPath)
			if err != nil {
				return err
			}
			defer store.Close()
			opts = append(opts, runner.WithHistory(store))
		}

		e2eCases, err := fixtures.e2eCases()
		if err != nil {
			return err
		}

		r := runner.NewRunner(registry, opts...)
		report, err := r.RunAll(cmd.Context(), runner.Options{
			TriggerFixtures:  fixtures.Triggers,
			IntegrationCases: fixtures.Integration,
			E2ECases:         e2eCases,
			RunUnit:          !skipUnit,
			RunIntegration:   !skipIntegration,
			RunE2E:           !skipE2E && len(fixtures.E2E) > 0,
			ParameterProbes:  probes,
			DetectRegression: detect,
		})
		if err != nil {
			return err
		}

		presentReport(report)

		if exportPath != "" {
			if err := runner.ExportReport(report, exportPath); err != nil {
				return err
			}
		}

		return runner.Gate(report)
	},
}

func init() {
	testCmd.Flags().String("fixtures", "", "YAML file with trigger, integration and e2e cases")
	testCmd.Flags().Bool("skip-unit", false, "Skip the unit tier")
	testCmd.Flags().Bool("skip-integration", false, "Skip the integration tier")
	testCmd.Flags().Bool("skip-e2e", false, "Skip the e2e tier")
	testCmd.Flags().Bool("probes", true, "Run parameter fault-injection probes")
	testCmd.Flags().Bool("detect-regression", false, "Compare the run against the stored baseline")
	testCmd.Flags().String("export", "", "Write the full report to this JSON file")
	testCmd.Flags().String("history-db", "", "Record the run in this SQLite history database")
}
