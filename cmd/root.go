package cmd

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/chriserin/stepmatch/internal/config"
	"github.com/chriserin/stepmatch/internal/logging"
)

var (
	logFormatFlag string
	logLevelFlag  string
)

var rootCmd = &cobra.Command{
	Use:          "stepmatch",
	Short:        "stepmatch — resolve Gherkin steps to step definition bindings",
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// A broken config is reported by the command that needs it.
		cfg, _ := config.Load(".")
		format, level := cfg.Log.Format, cfg.Log.Level
		if logFormatFlag != "" {
			format = logFormatFlag
		}
		if logLevelFlag != "" {
			level = logLevelFlag
		}
		return logging.Initialize(cmd.ErrOrStderr(), format, level)
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&logFormatFlag, "log-format", "", "log format: tint, text, json")
	rootCmd.PersistentFlags().StringVar(&logLevelFlag, "log-level", "", "log level: debug, info, warn, error")
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
