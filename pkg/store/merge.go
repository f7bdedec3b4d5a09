package store

import (
	"database/sql"
	"fmt"
	"strings"
)

// MergeConfig configures a database merge.
type MergeConfig struct {
	// SourcePaths are the databases to merge from.
	SourcePaths []string
	// DestPath is the destination database, created if missing.
	DestPath string
}

// MergeStats reports how many new records each table gained.
type MergeStats struct {
	BlobsMerged      int
	SignaturesMerged int
	MatchesMerged    int
	FindingsMerged   int
	ProvenanceMerged int
	SourcesProcessed int
}

// mergeTables lists the copied tables with their columns. Row identity
// comes from each table's primary key or uniqueness constraint, so
// INSERT OR IGNORE gives cross-database deduplication for free.
var mergeTables = []struct {
	name    string
	columns []string
}{
	{"blobs", []string{"id", "size"}},
	{"signatures", []string{"id", "name", "pattern", "structural_id"}},
	{"matches", []string{
		"structural_id", "finding_id", "blob_id", "signature_id", "signature_name",
		"offset_start", "offset_end", "anchor",
		"excerpt_before", "excerpt_matching", "excerpt_after",
	}},
	{"findings", []string{"id", "signature_id", "matched"}},
	{"provenance", []string{
		"blob_id", "kind", "path", "container_path", "codec",
		"member_path", "depth", "stream_name",
	}},
}

// Merge combines several scan databases into one. Records already
// present in the destination are left untouched.
func Merge(cfg MergeConfig) (*MergeStats, error) {
	if len(cfg.SourcePaths) == 0 {
		return nil, fmt.Errorf("no source databases specified")
	}
	if cfg.DestPath == "" {
		return nil, fmt.Errorf("destination path is required")
	}

	destDB, err := sql.Open("sqlite", cfg.DestPath)
	if err != nil {
		return nil, fmt.Errorf("opening destination database: %w", err)
	}
	defer destDB.Close()

	if err := CreateSchema(destDB); err != nil {
		return nil, fmt.Errorf("initializing destination schema: %w", err)
	}

	stats := &MergeStats{}
	for _, sourcePath := range cfg.SourcePaths {
		if err := mergeFrom(destDB, sourcePath, stats); err != nil {
			return stats, fmt.Errorf("merging from %s: %w", sourcePath, err)
		}
		stats.SourcesProcessed++
	}

	return stats, nil
}

func mergeFrom(destDB *sql.DB, sourcePath string, stats *MergeStats) error {
	sourceDB, err := sql.Open("sqlite", sourcePath)
	if err != nil {
		return fmt.Errorf("opening source database: %w", err)
	}
	defer sourceDB.Close()

	tx, err := destDB.Begin()
	if err != nil {
		return fmt.Errorf("starting transaction: %w", err)
	}
	defer tx.Rollback()

	for _, table := range mergeTables {
		count, err := copyTable(tx, sourceDB, table.name, table.columns)
		if err != nil {
			return fmt.Errorf("copying %s: %w", table.name, err)
		}

		switch table.name {
		case "blobs":
			stats.BlobsMerged += count
		case "signatures":
			stats.SignaturesMerged += count
		case "matches":
			stats.MatchesMerged += count
		case "findings":
			stats.FindingsMerged += count
		case "provenance":
			stats.ProvenanceMerged += count
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}
	return nil
}

// copyTable copies every row of one table into the destination,
// returning how many rows were actually new.
func copyTable(tx *sql.Tx, sourceDB *sql.DB, table string, columns []string) (int, error) {
	colList := strings.Join(columns, ", ")

	rows, err := sourceDB.Query("SELECT " + colList + " FROM " + table)
	if err != nil {
		return 0, err
	}
	defer rows.Close()

	placeholders := strings.TrimSuffix(strings.Repeat("?, ", len(columns)), ", ")
	stmt, err := tx.Prepare("INSERT OR IGNORE INTO " + table + " (" + colList + ") VALUES (" + placeholders + ")")
	if err != nil {
		return 0, err
	}
	defer stmt.Close()

	count := 0
	values := make([]any, len(columns))
	dests := make([]any, len(columns))
	for i := range values {
		dests[i] = &values[i]
	}

	for rows.Next() {
		if err := rows.Scan(dests...); err != nil {
			return count, err
		}
		result, err := stmt.Exec(values...)
		if err != nil {
			return count, err
		}
		if affected, _ := result.RowsAffected(); affected > 0 {
			count++
		}
	}
	return count, rows.Err()
}
