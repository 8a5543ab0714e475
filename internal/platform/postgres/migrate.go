package postgres

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"log/slog"

	"github.com/pressly/goose/v3"
)

//go:embed migrations/*.sql
var embedMigrations embed.FS

const (
	// MigrationsDir is the directory inside the embedded filesystem holding the SQL files.
	MigrationsDir = "migrations"

	// MigrationTableName is the name of the table used by goose to track migrations.
	MigrationTableName = "schema_migrations"
)

// Migration commands accepted by Migrate.
const (
	MigrateUp      = "up"
	MigrateDown    = "down"
	MigrateStatus  = "status"
	MigrateVersion = "version"
	MigrateReset   = "reset"
)

// MigrateCommands lists the commands Migrate understands.
func MigrateCommands() []string {
	return []string{MigrateUp, MigrateDown, MigrateStatus, MigrateVersion, MigrateReset}
}

// slogGooseLogger routes goose output through slog.
type slogGooseLogger struct {
	logger *slog.Logger
}

// Printf implements goose.Logger.
func (l *slogGooseLogger) Printf(format string, v ...any) {
	l.logger.Info(fmt.Sprintf(format, v...))
}

// Fatalf implements goose.Logger. It logs at error level and leaves
// process exit to the caller.
func (l *slogGooseLogger) Fatalf(format string, v ...any) {
	l.logger.Error(fmt.Sprintf(format, v...))
}

// Migrate runs a goose command against db using the embedded migrations.
func Migrate(ctx context.Context, db *sql.DB, command string, logger *slog.Logger) error {
	if logger == nil {
		logger = slog.Default()
	}
	logger = logger.With(slog.String("component", "migrations"), slog.String("command", command))

	goose.SetBaseFS(embedMigrations)
	goose.SetLogger(&slogGooseLogger{logger: logger})
	goose.SetTableName(MigrationTableName)
	if err := goose.SetDialect("postgres"); err != nil {
		return fmt.Errorf("failed to set goose dialect: %w", err)
	}

	var err error
	switch command {
	case MigrateUp:
		err = goose.UpContext(ctx, db, MigrationsDir)
	case MigrateDown:
		err = goose.DownContext(ctx, db, MigrationsDir)
	case MigrateStatus:
		err = goose.StatusContext(ctx, db, MigrationsDir)
	case MigrateVersion:
		err = goose.VersionContext(ctx, db, MigrationsDir)
	case MigrateReset:
		err = goose.ResetContext(ctx, db, MigrationsDir)
	default:
		return fmt.Errorf("unknown migration command: %q", command)
	}
	if err != nil {
		logger.Error("migration failed", slog.String("error", err.Error()))
		return fmt.Errorf("migration %s failed: %w", command, err)
	}

	logger.Info("migration command finished")
	return nil
}
