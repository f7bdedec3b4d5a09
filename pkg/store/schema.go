package store

import (
	"database/sql"
	"fmt"
)

// SchemaVersion is the current database schema version. Stores created
// with a different version are refused rather than migrated.
const SchemaVersion = 1

var schemaStatements = []string{
	`CREATE TABLE IF NOT EXISTS schema_version (
		version INTEGER NOT NULL
	)`,

	`CREATE TABLE IF NOT EXISTS blobs (
		id TEXT PRIMARY KEY,
		size INTEGER NOT NULL
	)`,

	`CREATE TABLE IF NOT EXISTS signatures (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		pattern TEXT NOT NULL,
		structural_id TEXT NOT NULL
	)`,

	`CREATE TABLE IF NOT EXISTS matches (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		structural_id TEXT NOT NULL UNIQUE,
		finding_id TEXT NOT NULL,
		blob_id TEXT NOT NULL REFERENCES blobs(id),
		signature_id TEXT NOT NULL,
		signature_name TEXT NOT NULL DEFAULT '',
		offset_start INTEGER NOT NULL,
		offset_end INTEGER NOT NULL,
		anchor INTEGER NOT NULL,
		excerpt_before BLOB,
		excerpt_matching BLOB,
		excerpt_after BLOB
	)`,

	`CREATE TABLE IF NOT EXISTS findings (
		id TEXT PRIMARY KEY,
		signature_id TEXT NOT NULL,
		matched BLOB
	)`,

	`CREATE TABLE IF NOT EXISTS provenance (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		blob_id TEXT NOT NULL REFERENCES blobs(id),
		kind TEXT NOT NULL,
		path TEXT NOT NULL DEFAULT '',
		container_path TEXT NOT NULL DEFAULT '',
		codec TEXT NOT NULL DEFAULT '',
		member_path TEXT NOT NULL DEFAULT '',
		depth INTEGER NOT NULL DEFAULT 0,
		stream_name TEXT NOT NULL DEFAULT '',
		UNIQUE(blob_id, kind, path, container_path, codec, member_path, depth, stream_name)
	)`,

	`CREATE INDEX IF NOT EXISTS idx_matches_blob_id ON matches(blob_id)`,
	`CREATE INDEX IF NOT EXISTS idx_matches_finding_id ON matches(finding_id)`,
	`CREATE INDEX IF NOT EXISTS idx_provenance_blob_id ON provenance(blob_id)`,
}

// CreateSchema initializes the database schema, recording the schema
// version on first use and verifying it on subsequent opens.
func CreateSchema(db *sql.DB) error {
	for _, stmt := range schemaStatements {
		if _, err := db.Exec(stmt); err != nil {
			return fmt.Errorf("executing schema statement: %w", err)
		}
	}
	return checkSchemaVersion(db)
}

func checkSchemaVersion(db *sql.DB) error {
	var version int
	err := db.QueryRow(`SELECT version FROM schema_version`).Scan(&version)
	if err == sql.ErrNoRows {
		if _, err := db.Exec(`INSERT INTO schema_version (version) VALUES (?)`, SchemaVersion); err != nil {
			return fmt.Errorf("recording schema version: %w", err)
		}
		return nil
	}
	if err != nil {
		return fmt.Errorf("reading schema version: %w", err)
	}
	if version != SchemaVersion {
		return fmt.Errorf("unsupported schema version %d (expected %d)", version, SchemaVersion)
	}
	return nil
}
