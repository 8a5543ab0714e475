package main

import (
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
)

func serveCmd(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API server",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig(*configPath)
			if err != nil {
				return err
			}

			slog.Info("Server configuration loaded",
				"port", cfg.Server.Port,
				"log_level", cfg.Server.LogLevel,
				"database_driver", cfg.Database.Driver,
				"cache_enabled", cfg.Cache.RedisURL != "",
				"categorization_strategy", cfg.Categorization.Strategy)

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			app, err := newApplication(ctx, cfg, slog.Default())
			if err != nil {
				return fmt.Errorf("failed to initialize application: %w", err)
			}

			return app.startHTTPServer(ctx, app.setupRouter())
		},
	}
}
