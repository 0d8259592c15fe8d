package db

import "database/sql"

// SchemaSQL is the schema created by migration 1.
//
// Tests use this schema via GetSchemaSQL() instead of hardcoding CREATE
// TABLE statements, so repository code referencing a missing column fails
// fast. Schema changes go in a new migration in migrations.go, applied on
// top of this one; this text stays as released.
const SchemaSQL = `
-- Generic JSON key-value store (one row per storage key)
CREATE TABLE IF NOT EXISTS kv_store (
	key TEXT PRIMARY KEY,
	value TEXT NOT NULL,
	updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
);

-- Write-ahead journal of pending saves
CREATE TABLE IF NOT EXISTS write_journal (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	storage_key TEXT NOT NULL,
	payload TEXT NOT NULL,
	session_id TEXT NOT NULL DEFAULT '',
	created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
	applied_at DATETIME
);

CREATE INDEX IF NOT EXISTS idx_write_journal_pending ON write_journal(applied_at, id);
`

// InitSchema brings a database up to the current schema version.
// A fresh database gets SchemaSQL through the first migration.
func InitSchema(database *sql.DB) error {
	return RunMigrations(database)
}

// GetSchemaSQL returns the schema for tests.
func GetSchemaSQL() string {
	return SchemaSQL
}
