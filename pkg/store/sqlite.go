package store

import (
	"database/sql"
	"fmt"

	"github.com/sigil-dev/sigil/pkg/types"

	_ "modernc.org/sqlite"
)

// SQLiteStore implements Store on a SQLite database. The driver is pure
// Go, so the store builds without cgo on every platform.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLite opens (or creates) a SQLite-backed store at path.
func NewSQLite(path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening database %s: %w", path, err)
	}

	if err := CreateSchema(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("initializing schema: %w", err)
	}

	return &SQLiteStore{db: db}, nil
}

// AddBlob records a scanned blob.
func (s *SQLiteStore) AddBlob(id types.BlobID, size int64) error {
	_, err := s.db.Exec(`
		INSERT OR IGNORE INTO blobs (id, size) VALUES (?, ?)
	`, id.Hex(), size)
	if err != nil {
		return fmt.Errorf("inserting blob %s: %w", id.Short(), err)
	}
	return nil
}

// AddSignature records a signature used during a scan.
func (s *SQLiteStore) AddSignature(sig *types.Signature) error {
	_, err := s.db.Exec(`
		INSERT OR IGNORE INTO signatures (id, name, pattern, structural_id)
		VALUES (?, ?, ?, ?)
	`, sig.ID, sig.Name, sig.Pattern, sig.StructuralID)
	if err != nil {
		return fmt.Errorf("inserting signature %s: %w", sig.ID, err)
	}
	return nil
}

// AddMatch records a match, deduplicated by structural ID.
func (s *SQLiteStore) AddMatch(m *types.Match) error {
	_, err := s.db.Exec(`
		INSERT OR IGNORE INTO matches (
			structural_id, finding_id, blob_id, signature_id, signature_name,
			offset_start, offset_end, anchor,
			excerpt_before, excerpt_matching, excerpt_after
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`,
		m.StructuralID, m.FindingID, m.BlobID.Hex(), m.SignatureID, m.SignatureName,
		m.Location.Offset.Start, m.Location.Offset.End, m.Location.Anchor,
		m.Excerpt.Before, m.Excerpt.Matching, m.Excerpt.After,
	)
	if err != nil {
		return fmt.Errorf("inserting match %s: %w", m.StructuralID, err)
	}
	return nil
}

// AddFinding records a finding, deduplicated by ID.
func (s *SQLiteStore) AddFinding(f *types.Finding) error {
	_, err := s.db.Exec(`
		INSERT OR IGNORE INTO findings (id, signature_id, matched)
		VALUES (?, ?, ?)
	`, f.ID, f.SignatureID, f.Matched)
	if err != nil {
		return fmt.Errorf("inserting finding %s: %w", f.ID, err)
	}
	return nil
}

// AddProvenance associates a provenance record with a blob. The concrete
// type determines which columns are populated; unused columns stay at
// their zero defaults so the table's uniqueness constraint can
// deduplicate repeated records.
func (s *SQLiteStore) AddProvenance(blobID types.BlobID, prov types.Provenance) error {
	var path, containerPath, codec, memberPath, streamName string
	var depth int

	switch p := prov.(type) {
	case types.FileProvenance:
		path = p.FilePath
	case types.PayloadProvenance:
		containerPath = p.ContainerPath
		codec = p.Codec
		memberPath = p.MemberPath
		depth = p.Depth
	case types.StreamProvenance:
		streamName = p.Name
	default:
		return fmt.Errorf("unsupported provenance type %T", prov)
	}

	_, err := s.db.Exec(`
		INSERT OR IGNORE INTO provenance (
			blob_id, kind, path, container_path, codec, member_path, depth, stream_name
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`, blobID.Hex(), prov.Kind(), path, containerPath, codec, memberPath, depth, streamName)
	if err != nil {
		return fmt.Errorf("inserting provenance for blob %s: %w", blobID.Short(), err)
	}
	return nil
}

const matchColumns = `
	blob_id, signature_id, signature_name, structural_id, finding_id,
	offset_start, offset_end, anchor,
	excerpt_before, excerpt_matching, excerpt_after
`

// GetMatches returns all stored matches for a blob in insertion order.
func (s *SQLiteStore) GetMatches(blobID types.BlobID) ([]*types.Match, error) {
	rows, err := s.db.Query(`
		SELECT `+matchColumns+` FROM matches WHERE blob_id = ? ORDER BY id
	`, blobID.Hex())
	if err != nil {
		return nil, fmt.Errorf("querying matches for blob %s: %w", blobID.Short(), err)
	}
	defer rows.Close()

	return scanMatchRows(rows)
}

// GetAllMatches returns every stored match in insertion order.
func (s *SQLiteStore) GetAllMatches() ([]*types.Match, error) {
	rows, err := s.db.Query(`SELECT ` + matchColumns + ` FROM matches ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("querying matches: %w", err)
	}
	defer rows.Close()

	return scanMatchRows(rows)
}

func scanMatchRows(rows *sql.Rows) ([]*types.Match, error) {
	matches := []*types.Match{}
	for rows.Next() {
		var m types.Match
		err := rows.Scan(
			&m.BlobID, &m.SignatureID, &m.SignatureName, &m.StructuralID, &m.FindingID,
			&m.Location.Offset.Start, &m.Location.Offset.End, &m.Location.Anchor,
			&m.Excerpt.Before, &m.Excerpt.Matching, &m.Excerpt.After,
		)
		if err != nil {
			return nil, fmt.Errorf("scanning match row: %w", err)
		}
		matches = append(matches, &m)
	}
	return matches, rows.Err()
}

// GetFindings returns all stored findings.
func (s *SQLiteStore) GetFindings() ([]*types.Finding, error) {
	rows, err := s.db.Query(`SELECT id, signature_id, matched FROM findings`)
	if err != nil {
		return nil, fmt.Errorf("querying findings: %w", err)
	}
	defer rows.Close()

	findings := []*types.Finding{}
	for rows.Next() {
		var f types.Finding
		if err := rows.Scan(&f.ID, &f.SignatureID, &f.Matched); err != nil {
			return nil, fmt.Errorf("scanning finding row: %w", err)
		}
		findings = append(findings, &f)
	}
	return findings, rows.Err()
}

// GetProvenance returns all provenance records for a blob, rehydrated
// into their concrete types.
func (s *SQLiteStore) GetProvenance(blobID types.BlobID) ([]types.Provenance, error) {
	rows, err := s.db.Query(`
		SELECT kind, path, container_path, codec, member_path, depth, stream_name
		FROM provenance WHERE blob_id = ? ORDER BY id
	`, blobID.Hex())
	if err != nil {
		return nil, fmt.Errorf("querying provenance for blob %s: %w", blobID.Short(), err)
	}
	defer rows.Close()

	provs := []types.Provenance{}
	for rows.Next() {
		var kind, path, containerPath, codec, memberPath, streamName string
		var depth int
		err := rows.Scan(&kind, &path, &containerPath, &codec, &memberPath, &depth, &streamName)
		if err != nil {
			return nil, fmt.Errorf("scanning provenance row: %w", err)
		}

		switch kind {
		case "file":
			provs = append(provs, types.FileProvenance{FilePath: path})
		case "payload":
			provs = append(provs, types.PayloadProvenance{
				ContainerPath: containerPath,
				Codec:         codec,
				MemberPath:    memberPath,
				Depth:         depth,
			})
		case "stream":
			provs = append(provs, types.StreamProvenance{Name: streamName})
		default:
			return nil, fmt.Errorf("unknown provenance kind %q", kind)
		}
	}
	return provs, rows.Err()
}

// BlobExists reports whether a blob has already been stored.
func (s *SQLiteStore) BlobExists(id types.BlobID) (bool, error) {
	var count int
	err := s.db.QueryRow(`SELECT COUNT(*) FROM blobs WHERE id = ?`, id.Hex()).Scan(&count)
	if err != nil {
		return false, fmt.Errorf("checking blob %s: %w", id.Short(), err)
	}
	return count > 0, nil
}

// FindingExists reports whether a finding ID has already been stored.
func (s *SQLiteStore) FindingExists(findingID string) (bool, error) {
	var count int
	err := s.db.QueryRow(`SELECT COUNT(*) FROM findings WHERE id = ?`, findingID).Scan(&count)
	if err != nil {
		return false, fmt.Errorf("checking finding %s: %w", findingID, err)
	}
	return count > 0, nil
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
