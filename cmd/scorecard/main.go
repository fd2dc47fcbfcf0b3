// Package main implements the scorecard CLI: offline report generation,
// sample sheets, and submission to a running server.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/okian/scorecard/internal/config"
	"github.com/okian/scorecard/pkg/logger"
)

var (
	verbose bool
	cfg     *config.Config
)

var rootCmd = &cobra.Command{
	Use:           "scorecard",
	Short:         "Turn interview scorecards into hiring decisions and cohort health",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
		_ = godotenv.Load()
		if err := logger.Init(logger.WithWriter(cmd.ErrOrStderr())); err != nil {
			return fmt.Errorf("init logging: %w", err)
		}
		loaded, err := config.Load(cmd.Context())
		if err != nil {
			return err
		}
		cfg = loaded
		level := cfg.LogLevel
		if verbose {
			level = "debug"
		}
		return logger.SetLevelString(level)
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")
}

func main() {
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}
