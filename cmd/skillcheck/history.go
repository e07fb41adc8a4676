package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/skillcheck/skillcheck/pkg/history"
	"github.com/skillcheck/skillcheck/pkg/presenter"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show recent runs from the history database",
	RunE: func(cmd *cobra.Command, args []string) error {
		dbPath, _ := cmd.Flags().GetString("history-db")
		limit, _ := cmd.Flags().GetInt("limit")

		store, err := history.Open(cmd.Context(), dbPath)
		if err != nil {
			return err
		}
		defer store.Close()

		runs, err := store.RecentRuns(cmd.Context(), limit)
		if err != nil {
			return err
		}
		if len(runs) == 0 {
			presenter.Info("no recorded runs")
			return nil
		}

		presenter.Section("Recent Runs")
		for _, run := range runs {
			presenter.Info(fmt.Sprintf("%s  %.8s  %4d tests  %8s  %s",
				run.StartedAt.Format("2006-01-02 15:04:05"),
				run.ID, run.TotalTests, run.PassRate, run.Verdict))
		}
		return nil
	},
}

func init() {
	historyCmd.Flags().String("history-db", ".skillcheck/history.db", "Path to the SQLite history database")
	historyCmd.Flags().Int("limit", 20, "Maximum number of runs to show")
}
