package cmd

import (
	"fmt"
	"os"

	"asset-resynch/core/config"
	"asset-resynch/core/logger"

	"github.com/mitchellh/go-homedir"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	envDir    string
	debugFlag bool
)

// RootCmd represents the base command when called without any subcommands
var RootCmd = &cobra.Command{
	Use:   "asset-resynch",
	Short: "Resynchronize AEM asset replication between author and publish",
	Long: `asset-resynch compares the asset tree of an AEM author instance with its publish
instance and activates or deactivates assets so that publish mirrors what author marks as live.
Runs are dry by default.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func Execute() {
	if err := RootCmd.Execute(); err != nil {
		// Use the application's standard logger for error reporting
		// We use "debug" level configuration to get ISO8601 timestamps (DevConfig) instead of Epoch (ProdConfig)
		cfg := &logger.Config{
			Level:  "debug",
			Format: "console",
		}

		l, logErr := logger.New(cfg)
		if logErr == nil {
			l.Error("command failed", zap.Error(err))
			_ = l.Sync()
		} else {
			// Absolute fallback if logger creation fails (rare)
			fmt.Println(err)
		}
		os.Exit(1)
	}
}

func init() {
	RootCmd.PersistentFlags().StringVar(&envDir, "env-dir", ".", "Directory holding .env and config.yaml")
	RootCmd.PersistentFlags().BoolVar(&debugFlag, "debug", false, "Enable debug logging")
}

// loadConfig reads the configuration from --env-dir and applies --debug.
func loadConfig() (*config.Config, error) {
	dir, err := homedir.Expand(envDir)
	if err != nil {
		return nil, fmt.Errorf("failed to expand env dir: %w", err)
	}
	cfg, err := config.LoadConfig(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	if debugFlag {
		cfg.Log.Level = "debug"
	}
	return cfg, nil
}
