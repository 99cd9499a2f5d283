package main

import (
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/pm-toolserver/internal/config"
	"github.com/sells-group/pm-toolserver/internal/httpapi"
	"github.com/sells-group/pm-toolserver/internal/mcpserver"
)

var (
	serveTransport string
	servePort      int
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the tools over MCP stdio or HTTP",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		cfg.Server.Transport = effectiveTransport()
		if servePort != 0 {
			cfg.Server.Port = servePort
		}
		if err := cfg.Validate("serve"); err != nil {
			return err
		}

		reg := newRegistry(cfg)
		zap.L().Info("serve: starting",
			zap.String("transport", cfg.Server.Transport),
			zap.Int("tools", len(reg.Tools())),
			zap.Bool("steering", cfg.Steering.Enabled),
		)

		if cfg.Server.Transport == config.TransportHTTP {
			return httpapi.ListenAndServe(ctx, cfg.Server.Port, httpapi.NewRouter(reg, httpapi.Options{
				Version:        version,
				RateLimitRPS:   cfg.Server.RateLimitRPS,
				RateLimitBurst: cfg.Server.RateLimitBurst,
				AllowedOrigins: cfg.Server.AllowedOrigins,
			}))
		}
		return mcpserver.ServeStdio(ctx, mcpserver.New(reg, version))
	},
}

// effectiveTransport is the --transport flag when set, else the configured one.
func effectiveTransport() string {
	if serveTransport != "" {
		return serveTransport
	}
	if cfg != nil && cfg.Server.Transport != "" {
		return cfg.Server.Transport
	}
	return config.TransportStdio
}

func init() {
	serveCmd.Flags().StringVar(&serveTransport, "transport", "", "transport: stdio or http (default from config)")
	serveCmd.Flags().IntVar(&servePort, "port", 0, "http port (default from config)")
	rootCmd.AddCommand(serveCmd)
}
