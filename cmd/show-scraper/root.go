package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"show-scraper/internal/config"
	"show-scraper/internal/logging"
)

// commandContext is shared by all subcommands.
type commandContext struct {
	settings config.Settings
	log      *zap.Logger
}

func newCommandContext() *commandContext {
	return &commandContext{
		settings: config.SettingsFromEnv(os.Getenv),
		log:      zap.NewNop(),
	}
}

// loadConfig reads config.yml and narrows it to the selected shows.
func (c *commandContext) loadConfig() (*config.Config, error) {
	cfg, err := config.Load(c.settings.ConfigPath)
	if err != nil {
		return nil, err
	}
	if err := cfg.Restrict(c.settings.Shows); err != nil {
		return nil, err
	}
	return cfg, nil
}

func newRootCommand() *cobra.Command {
	ctx := newCommandContext()

	rootCmd := &cobra.Command{
		Use:           "show-scraper",
		Short:         "Scrape podcast episodes, sponsors and people into Hugo content",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			logger, err := logging.New(ctx.settings.LogLevel)
			if err != nil {
				return fmt.Errorf("invalid log level: %w", err)
			}
			ctx.log = logger
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			_ = ctx.log.Sync()
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	s := &ctx.settings
	rootCmd.PersistentFlags().StringVarP(&s.ConfigPath, "config", "c", s.ConfigPath, "Path to config.yml (CONFIG_FILE)")
	rootCmd.PersistentFlags().StringVar(&s.LogLevel, "log-level", s.LogLevel, "Log level: debug, info, warn, error or 10-40 (LOG_LVL)")
	rootCmd.PersistentFlags().StringVar(&s.DataDir, "data-dir", s.DataDir, "Root of the Hugo tree (DATA_DIR)")
	rootCmd.PersistentFlags().StringVar(&s.GCSBucket, "gcs-bucket", s.GCSBucket, "Write the tree to this Cloud Storage bucket instead of the data dir (GCS_BUCKET)")
	rootCmd.PersistentFlags().StringVar(&s.GCSPrefix, "gcs-prefix", s.GCSPrefix, "Object prefix inside the bucket (GCS_PREFIX)")

	rootCmd.AddCommand(newRunCommand(ctx))
	rootCmd.AddCommand(newConfigCommand(ctx))
	rootCmd.AddCommand(newTitleCommand())
	rootCmd.AddCommand(newIndexCommand(ctx))

	return rootCmd
}
