package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/pm-toolserver/internal/config"
)

var cfg *config.Config

var rootCmd = &cobra.Command{
	Use:   "pm-toolserver",
	Short: "Quality and confidence tools for product-management analyses",
	Long:  "Validates analysis requests, scores the data quality and confidence of competitive and market sizing results, and serves these tools over MCP or HTTP.",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		c, err := config.Load()
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		cfg = c

		// MCP over stdio owns stdout.
		if cmd.Name() == serveCmd.Name() && effectiveTransport() == config.TransportStdio {
			cfg.Log.Stderr = true
		}

		if err := config.InitLogger(cfg.Log); err != nil {
			return fmt.Errorf("init logger: %w", err)
		}

		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = zap.L().Sync()
	},
	SilenceUsage: true,
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
