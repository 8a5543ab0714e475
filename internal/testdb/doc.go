// Package testdb provides utilities for tests that need a real PostgreSQL
// database. Tests using it run only when DATABASE_URL is set, and each test
// works inside a transaction that is rolled back when it finishes.
package testdb
