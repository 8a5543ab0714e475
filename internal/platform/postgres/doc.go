// Package postgres provides the PostgreSQL implementation of store.TaskStore.
// It handles the connection pool, the embedded schema migrations and the
// mapping between domain tasks and rows of the tasks table.
package postgres
