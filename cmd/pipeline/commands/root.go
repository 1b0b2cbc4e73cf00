package commands

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"go-etl-pipeline/internal/config"
	"go-etl-pipeline/internal/logging"
)

var (
	configPath string
	verbose    bool

	cfg    config.Config
	logger *zap.Logger
)

var rootCmd = &cobra.Command{
	Use:   "pipeline",
	Short: "pipeline fetches posts into a CSV, runs SQL practice queries and schedules daily DAGs.",
	Long: `pipeline bundles three small data tools:

  fetch   GET the posts API, keep one user's posts, add title_length, save a CSV
  sql     run CTE and window-function queries against an in-memory SQLite table
  dag     run the daily tutorial DAGs on a cron schedule
  serve   expose pipeline runs over HTTP
  runs    list recorded runs`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = config.Load(configPath, nil)
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
		if verbose {
			cfg.Verbose = true
		}

		logger, err = logging.New(cfg.Verbose)
		if err != nil {
			return err
		}
		logger.Debug("config loaded", zap.String("path", configPath), zap.Any("config", cfg))
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "pipeline.json5", "Config file (JSON5); <name>.local.json5 overrides it.")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging.")
}

func ExecuteContext(ctx context.Context) {
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
