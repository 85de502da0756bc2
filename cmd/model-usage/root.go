package main

import (
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"model-usage/internal/config"
)

var (
	// Global state set during PersistentPreRunE
	cfg        *config.Config
	configPath string
	logger     = slog.New(slog.DiscardHandler)

	// Persistent flags
	cfgFile string
	verbose int
	quiet   bool
)

var rootCmd = &cobra.Command{
	Use:   "model-usage",
	Short: "Infer database table usage from ORM model calls",
	Long: `model-usage - static ORM usage inference

model-usage walks a Go code base, finds every read and write it performs on
registered ORM entities and reports one usage record per table. The records
drive least-privilege GRANT statements for the application's database user.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if cmd.Name() == "help" || cmd.Name() == "completion" {
			return nil
		}

		logger = newLogger(cmd.ErrOrStderr())

		var err error

		cfg, configPath, err = config.LoadConfig(cfgFile)
		if err != nil {
			return ConfigError("loading configuration", err)
		}

		if configPath != "" {
			logger.Debug("configuration loaded", slog.String("path", configPath))
		}

		return nil
	},
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: auto-discover model-usage.yaml)")
	rootCmd.PersistentFlags().CountVarP(&verbose, "verbose", "v", "increase verbosity (can be repeated)")
	rootCmd.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false, "suppress non-error output")

	rootCmd.AddCommand(analyzeCmd)
	rootCmd.AddCommand(grantsCmd)
	rootCmd.AddCommand(discoverCmd)
	rootCmd.AddCommand(mergeCmd)
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		ExitWithError(err)
	}
}

func newLogger(w io.Writer) *slog.Logger {
	level := slog.LevelWarn

	switch {
	case quiet:
		level = slog.LevelError
	case verbose == 1:
		level = slog.LevelInfo
	case verbose > 1:
		level = slog.LevelDebug
	}

	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

// resolveString returns the first non-empty string from the provided values.
// Used to implement precedence: flag > config > default.
func resolveString(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}

	return ""
}

// resolveBool returns the flag value when the flag was set on the command
// line, and the configured value otherwise.
func resolveBool(cmd *cobra.Command, flag string, flagValue, configured bool) bool {
	if cmd.Flags().Changed(flag) {
		return flagValue
	}

	return configured
}

// openOutput returns stdout for "" and "-", otherwise a created file.
func openOutput(cmd *cobra.Command, path string) (io.Writer, func() error, error) {
	if path == "" || path == "-" {
		return cmd.OutOrStdout(), func() error { return nil }, nil
	}

	f, err := os.Create(path)
	if err != nil {
		return nil, nil, err
	}

	return f, f.Close, nil
}
