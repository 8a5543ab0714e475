package main

import (
	"fmt"
	"log/slog"
	"slices"
	"strings"

	"github.com/google/uuid"
	"github.com/phrazzld/smart-todo-api/internal/platform/postgres"
	"github.com/spf13/cobra"
)

func migrateCmd(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate [" + strings.Join(postgres.MigrateCommands(), "|") + "]",
		Short: "Run database migrations against the configured PostgreSQL database",
		Long: `Run the embedded goose migrations against database.url.

Only the postgres driver uses migrations; the sqlite driver creates its
schema on startup. Without an argument the command runs "up".`,
		Args:      cobra.MaximumNArgs(1),
		ValidArgs: postgres.MigrateCommands(),
		RunE: func(cmd *cobra.Command, args []string) error {
			command := postgres.MigrateUp
			if len(args) == 1 {
				command = args[0]
			}
			if !slices.Contains(postgres.MigrateCommands(), command) {
				return fmt.Errorf("unknown migration command %q (want one of %s)",
					command, strings.Join(postgres.MigrateCommands(), ", "))
			}

			cfg, err := loadConfig(*configPath)
			if err != nil {
				return err
			}
			if cfg.Database.Driver != "postgres" {
				return fmt.Errorf("migrations require the postgres driver, configured driver is %q", cfg.Database.Driver)
			}

			migrationLogger := slog.Default().With(
				"correlation_id", uuid.NewString(),
				"component", "migrations",
			)

			ctx := cmd.Context()
			pool, err := postgres.NewPool(ctx, cfg.Database)
			if err != nil {
				return fmt.Errorf("failed to connect to database: %w", err)
			}
			defer pool.Close()

			db := postgres.OpenDB(pool)
			defer func() {
				if err := db.Close(); err != nil {
					migrationLogger.Error("failed to close database handle", "error", err)
				}
			}()

			return postgres.Migrate(ctx, db, command, migrationLogger)
		},
	}
}
