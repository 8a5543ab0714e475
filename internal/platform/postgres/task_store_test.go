package postgres

import (
	"bytes"
	"context"
	"log/slog"
	"testing"

	"github.com/google/uuid"
	"github.com/phrazzld/smart-todo-api/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewPostgresTaskStore_NilDBPanics(t *testing.T) {
	t.Parallel()
	assert.Panics(t, func() { NewPostgresTaskStore(nil, nil) })
}

func TestBuildUpdateQuery(t *testing.T) {
	t.Parallel()

	id := uuid.New()
	desc := "bring snacks"
	minutes := 30

	tests := []struct {
		name      string
		update    domain.TaskUpdate
		wantQuery string
		wantArgs  []any
	}{
		{
			name:      "title only",
			update:    domain.TaskUpdate{Title: domain.Some("Plan party")},
			wantQuery: "UPDATE tasks SET title = $1, updated_at = NOW() WHERE id = $2 RETURNING " + taskColumns,
			wantArgs:  []any{"Plan party", id},
		},
		{
			name: "every field",
			update: domain.TaskUpdate{
				Title:         domain.Some("Plan party"),
				Description:   domain.Some(&desc),
				Category:      domain.Some(domain.CategoryPersonal),
				EstimatedTime: domain.Some(&minutes),
			},
			wantQuery: "UPDATE tasks SET title = $1, description = $2, category = $3, estimated_time = $4, " +
				"updated_at = NOW() WHERE id = $5 RETURNING " + taskColumns,
			wantArgs: []any{"Plan party", &desc, "personal", &minutes, id},
		},
		{
			name:      "explicit null description",
			update:    domain.TaskUpdate{Description: domain.Some[*string](nil)},
			wantQuery: "UPDATE tasks SET description = $1, updated_at = NOW() WHERE id = $2 RETURNING " + taskColumns,
			wantArgs:  []any{(*string)(nil), id},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			query, args := buildUpdateQuery(id, tt.update)
			assert.Equal(t, tt.wantQuery, query)
			assert.Equal(t, tt.wantArgs, args)
		})
	}
}

func TestMigrate_UnknownCommand(t *testing.T) {
	err := Migrate(context.Background(), nil, "sideways", slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil)))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown migration command")
}

func TestEmbeddedMigrations(t *testing.T) {
	t.Parallel()

	entries, err := embedMigrations.ReadDir(MigrationsDir)
	require.NoError(t, err)

	names := make([]string, 0, len(entries))
	for _, e := range entries {
		names = append(names, e.Name())
	}
	assert.Equal(t, []string{"00001_create_tasks.sql", "00002_add_task_constraints.sql"}, names)
}

func TestSlogGooseLogger(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	l := &slogGooseLogger{logger: slog.New(slog.NewTextHandler(&buf, nil))}

	l.Printf("applied %d migrations", 2)
	l.Fatalf("failed at version %d", 3)

	out := buf.String()
	assert.Contains(t, out, "level=INFO")
	assert.Contains(t, out, "applied 2 migrations")
	assert.Contains(t, out, "level=ERROR")
	assert.Contains(t, out, "failed at version 3")
}

func TestMigrateCommands(t *testing.T) {
	t.Parallel()
	assert.ElementsMatch(t, []string{"up", "down", "status", "version", "reset"}, MigrateCommands())
}
