package main

import (
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/fsnotify/fsnotify"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/skillcheck/skillcheck/pkg/logger"
	"github.com/skillcheck/skillcheck/pkg/presenter"
	"github.com/skillcheck/skillcheck/pkg/runner"
	"github.com/skillcheck/skillcheck/pkg/skill"
)

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Rerun tests when a SKILL.md definition changes",
	Long: `Watches the configured skill directories and reruns the fast tiers for a
skill whenever its SKILL.md file is written. Runs until interrupted.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		dirs := viper.GetStringSlice("skill_dirs")
		if len(dirs) == 0 {
			return errors.New("watch requires --skill-dirs")
		}

		fixturePath, _ := cmd.Flags().GetString("fixtures")
		fixtures, err := loadFixtures(fixturePath)
		if err != nil {
			return err
		}

		watcher, err := fsnotify.NewWatcher()
		if err != nil {
			return errors.Wrap(err, "failed to create watcher")
		}
		defer watcher.Close()

		for _, dir := range dirs {
			entries, err := os.ReadDir(dir)
			if err != nil {
				return errors.Wrapf(err, "failed to read skill directory %s", dir)
			}
			if err := watcher.Add(dir); err != nil {
				return errors.Wrapf(err, "failed to watch %s", dir)
			}
			for _, entry := range entries {
				if entry.IsDir() {
					if err := watcher.Add(filepath.Join(dir, entry.Name())); err != nil {
						return errors.Wrapf(err, "failed to watch %s", entry.Name())
					}
				}
			}
		}

		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)

		ctx := cmd.Context()
		log := logger.G(ctx)
		presenter.Info("watching " + strings.Join(dirs, ", "))

		for {
			select {
			case event, ok := <-watcher.Events:
				if !ok {
					return nil
				}
				if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
					continue
				}
				if filepath.Base(event.Name) != "SKILL.md" {
					continue
				}

				changed, err := skill.LoadFile(event.Name)
				if err != nil {
					log.WithError(err).WithField("file", event.Name).Warn("skipping unparseable skill")
					continue
				}

				registry, err := buildRegistry()
				if err != nil {
					return err
				}
				pipeline := runner.NewPipeline(
					runner.NewRunner(registry, runner.WithBaseline(baselinePath())),
					runner.Fixtures{
						Triggers:    fixtures.Triggers,
						Integration: fixtures.Integration,
					}, "")

				presenter.Section("skill changed: " + changed.Metadata.Name)
				report, err := pipeline.RunOnSkillChange(ctx, changed.Metadata.Name)
				if err != nil {
					presenter.Error(err, "rerun failed")
					continue
				}
				presentReport(report)

			case err, ok := <-watcher.Errors:
				if !ok {
					return nil
				}
				log.WithError(err).Warn("watch error")

			case <-sigCh:
				presenter.Info("stopping watch")
				return nil

			case <-ctx.Done():
				return ctx.Err()
			}
		}
	},
}

func init() {
	watchCmd.Flags().String("fixtures", "", "YAML file with trigger and integration cases")
}
