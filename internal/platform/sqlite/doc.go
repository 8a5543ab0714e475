// Package sqlite provides a store.TaskStore backed by a SQLite file through
// gorm. It suits local development and single-node deployments where running
// PostgreSQL is not worth it; the schema is created with AutoMigrate.
package sqlite
