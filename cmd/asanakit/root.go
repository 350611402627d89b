package main

import (
	"os"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var rootCmd = &cobra.Command{
	Use:   "asanakit",
	Short: "Read-only Asana client",
	Long: `A read-only command line client for the Asana REST API.

The token is taken from --token, ASANA_TOKEN, a .env file in the current
directory, or ~/.asanakit/config.toml. An asanakit.toml found in the
current directory or above sets the default workspace and project.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		l, err := newLogger(verbose)
		if err != nil {
			return err
		}
		logger = l
		return nil
	},
	SilenceUsage: true,
}

// Global flags
var (
	jsonOutput  bool
	verbose     bool
	tokenFlag   string
	baseURLFlag string
	timeoutFlag time.Duration
)

var logger = zap.NewNop()

func init() {
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "Output as JSON")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Log requests to stderr")
	rootCmd.PersistentFlags().StringVar(&tokenFlag, "token", "", "Asana personal access token")
	rootCmd.PersistentFlags().StringVar(&baseURLFlag, "base-url", "", "API base URL")
	rootCmd.PersistentFlags().DurationVar(&timeoutFlag, "timeout", 0, "HTTP timeout (default 30s)")
}

// newLogger returns a development logger when verbose is set and a
// warn-level production logger otherwise. Both write to stderr.
func newLogger(verbose bool) (*zap.Logger, error) {
	if verbose {
		cfg := zap.NewDevelopmentConfig()
		cfg.OutputPaths = []string{"stderr"}
		return cfg.Build()
	}

	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(zapcore.WarnLevel)
	cfg.OutputPaths = []string{"stderr"}
	return cfg.Build()
}

// Execute runs the root command
func Execute() {
	err := rootCmd.Execute()
	logger.Sync()
	if err != nil {
		os.Exit(ExitGeneralError)
	}
}
