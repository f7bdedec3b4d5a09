// Package store provides persistence for scan results. Two
// implementations are available: an in-memory store for one-shot scans
// and a SQLite-backed store for incremental scanning, where blobs that
// were already scanned with the same signatures can be skipped on the
// next run.
package store

import (
	"fmt"

	"github.com/sigil-dev/sigil/pkg/types"
)

// Store persists blobs, matches, findings, and provenance records.
// All Add methods are idempotent: inserting the same record twice
// leaves a single copy.
type Store interface {
	// AddBlob records a scanned blob.
	AddBlob(id types.BlobID, size int64) error

	// AddSignature records a signature used during a scan, so a later
	// run can tell whether a stored blob was already checked against it.
	AddSignature(sig *types.Signature) error

	// AddMatch records a match. Matches are deduplicated by their
	// structural ID.
	AddMatch(match *types.Match) error

	// AddFinding records a finding. Findings are deduplicated by ID.
	AddFinding(finding *types.Finding) error

	// AddProvenance records where a blob came from.
	AddProvenance(blobID types.BlobID, prov types.Provenance) error

	// GetMatches returns all stored matches for a blob.
	GetMatches(blobID types.BlobID) ([]*types.Match, error)

	// GetAllMatches returns every stored match.
	GetAllMatches() ([]*types.Match, error)

	// GetFindings returns all stored findings.
	GetFindings() ([]*types.Finding, error)

	// GetProvenance returns all provenance records for a blob.
	GetProvenance(blobID types.BlobID) ([]types.Provenance, error)

	// BlobExists reports whether a blob has already been stored.
	BlobExists(blobID types.BlobID) (bool, error)

	// FindingExists reports whether a finding ID has already been stored.
	FindingExists(findingID string) (bool, error)

	// Close releases any resources held by the store.
	Close() error
}

// Config holds store configuration.
type Config struct {
	// Path is the location of the store. Use ":memory:" for a
	// non-persistent in-memory store.
	Path string
}

// New creates a store from the given configuration.
func New(cfg Config) (Store, error) {
	if cfg.Path == "" {
		return nil, fmt.Errorf("store path is required (use \":memory:\" for an in-memory store)")
	}
	if cfg.Path == ":memory:" {
		return NewMemory(), nil
	}
	return NewSQLite(cfg.Path)
}
