package main

import (
	"context"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/skillcheck/skillcheck/pkg/examples"
	"github.com/skillcheck/skillcheck/pkg/logger"
	"github.com/skillcheck/skillcheck/pkg/presenter"
	"github.com/skillcheck/skillcheck/pkg/skill"
	"github.com/skillcheck/skillcheck/pkg/telemetry"
)

func init() {
	// Environment variables
	viper.SetEnvPrefix("SKILLCHECK")
	viper.AutomaticEnv()

	// Config file support
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath("$HOME/.skillcheck")
	viper.AddConfigPath(".")

	// Load config file if it exists (ignore errors if it doesn't)
	_ = viper.ReadInConfig()
}

var tracerShutdown func(context.Context) error

var rootCmd = &cobra.Command{
	Use:   "skillcheck",
	Short: "Test engine for declarative skills",
	Long: `Skillcheck validates skill definitions, exercises their implementations
against expected outputs, runs full workflows in isolated workspaces, and
compares run metrics against a stored baseline to catch regressions.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if err := logger.SetLogLevel(viper.GetString("log_level")); err != nil {
			return err
		}
		logger.SetLogFormat(viper.GetString("log_format"))
		presenter.SetQuiet(viper.GetBool("quiet"))

		shutdown, err := telemetry.InitTracer(cmd.Context(), telemetry.Config{
			Enabled:        viper.GetBool("tracing.enabled"),
			ServiceName:    "skillcheck",
			ServiceVersion: version,
			SamplerType:    viper.GetString("tracing.sampler"),
			SamplerRatio:   viper.GetFloat64("tracing.ratio"),
		})
		if err != nil {
			return err
		}
		tracerShutdown = shutdown
		return nil
	},
	Run: func(cmd *cobra.Command, args []string) {
		cmd.Help()
		os.Exit(1)
	},
}

// buildRegistry assembles the working registry: the built-in example skills
// (unless disabled) plus every SKILL.md definition found under the
// configured skill directories.
func buildRegistry() (*skill.Registry, error) {
	var registry *skill.Registry
	var err error

	if viper.GetBool("examples") {
		registry, err = examples.NewRegistry()
		if err != nil {
			return nil, err
		}
	} else {
		registry = skill.NewRegistry()
	}

	dirs := viper.GetStringSlice("skill_dirs")
	if len(dirs) > 0 {
		loaded, err := skill.NewLoader(skill.WithDirs(dirs...)).Load()
		if err != nil {
			return nil, err
		}
		for _, s := range loaded {
			if err := registry.Register(s); err != nil {
				presenter.Warning("skipping invalid skill " + s.ID() + ": " + err.Error())
			}
		}
	}
	return registry, nil
}

func baselinePath() string {
	return viper.GetString("baseline")
}

func main() {
	rootCmd.PersistentFlags().String("log-level", "info", "Log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().String("log-format", "fmt", "Log format (fmt or json)")
	rootCmd.PersistentFlags().Bool("quiet", false, "Only show failures and the summary")
	rootCmd.PersistentFlags().String("baseline", ".skillcheck/baseline.json", "Path to the regression baseline file")
	rootCmd.PersistentFlags().StringSlice("skill-dirs", nil, "Directories to scan for SKILL.md definitions")
	rootCmd.PersistentFlags().Bool("examples", true, "Include the built-in example skills")

	viper.BindPFlag("log_level", rootCmd.PersistentFlags().Lookup("log-level"))
	viper.BindPFlag("log_format", rootCmd.PersistentFlags().Lookup("log-format"))
	viper.BindPFlag("quiet", rootCmd.PersistentFlags().Lookup("quiet"))
	viper.BindPFlag("baseline", rootCmd.PersistentFlags().Lookup("baseline"))
	viper.BindPFlag("skill_dirs", rootCmd.PersistentFlags().Lookup("skill-dirs"))
	viper.BindPFlag("examples", rootCmd.PersistentFlags().Lookup("examples"))

	rootCmd.AddCommand(testCmd)
	rootCmd.AddCommand(precommitCmd)
	rootCmd.AddCommand(watchCmd)
	rootCmd.AddCommand(baselineCmd)
	rootCmd.AddCommand(describeCmd)
	rootCmd.AddCommand(demoCmd)
	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(versionCmd)

	err := rootCmd.Execute()
	if tracerShutdown != nil {
		tracerShutdown(context.Background())
	}
	if err != nil {
		presenter.Error(err, "")
		os.Exit(1)
	}
}
