package explore

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/sigil-dev/sigil/pkg/store"
	"github.com/sigil-dev/sigil/pkg/types"
)

// exploreData holds everything the TUI shows: one row per finding, each
// carrying its matches with provenance and excerpt bytes.
type exploreData struct {
	store    store.Store
	findings []*findingRow
}

// findingRow is the view model for one finding.
type findingRow struct {
	FindingID     string
	SignatureID   string
	SignatureName string
	Matched       []byte
	MatchCount    int
	Matches       []*matchRow
}

// matchRow is the view model for one match inside a finding.
type matchRow struct {
	StructuralID string
	BlobID       types.BlobID
	Location     types.Location
	Excerpt      types.Excerpt
	Paths        []string // provenance paths, container-first
}

// loadData opens a scan database and builds the view models. The path
// can be a .db file or a directory holding sigil.db.
func loadData(storePath string) (*exploreData, error) {
	info, err := os.Stat(storePath)
	if err != nil {
		return nil, fmt.Errorf("database not found: %s", storePath)
	}
	if info.IsDir() {
		storePath = filepath.Join(storePath, "sigil.db")
	}

	s, err := store.New(store.Config{Path: storePath})
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	data, err := buildData(s)
	if err != nil {
		s.Close()
		return nil, err
	}
	return data, nil
}

// buildData assembles view models from an open store. Findings come from
// the store; match rows join against the full match list by finding ID.
func buildData(s store.Store) (*exploreData, error) {
	findings, err := s.GetFindings()
	if err != nil {
		return nil, fmt.Errorf("retrieving findings: %w", err)
	}

	matches, err := s.GetAllMatches()
	if err != nil {
		return nil, fmt.Errorf("retrieving matches: %w", err)
	}

	byFinding := make(map[string][]*types.Match)
	names := make(map[string]string)
	for _, m := range matches {
		byFinding[m.FindingID] = append(byFinding[m.FindingID], m)
		if m.SignatureName != "" {
			names[m.SignatureID] = m.SignatureName
		}
	}

	rows := make([]*findingRow, 0, len(findings))
	for _, f := range findings {
		row := &findingRow{
			FindingID:   f.ID,
			SignatureID: f.SignatureID,
			Matched:     f.Matched,
		}
		row.SignatureName = names[f.SignatureID]
		if row.SignatureName == "" {
			row.SignatureName = f.SignatureID
		}

		for _, m := range byFinding[f.ID] {
			row.Matches = append(row.Matches, buildMatchRow(m, s))
		}
		sort.Slice(row.Matches, func(i, j int) bool {
			a, b := row.Matches[i], row.Matches[j]
			if a.BlobID != b.BlobID {
				return a.BlobID.Hex() < b.BlobID.Hex()
			}
			return a.Location.Offset.Start < b.Location.Offset.Start
		})
		row.MatchCount = len(row.Matches)
		rows = append(rows, row)
	}

	sort.Slice(rows, func(i, j int) bool {
		if rows[i].SignatureName != rows[j].SignatureName {
			return rows[i].SignatureName < rows[j].SignatureName
		}
		return rows[i].FindingID < rows[j].FindingID
	})

	return &exploreData{store: s, findings: rows}, nil
}

func buildMatchRow(m *types.Match, s store.Store) *matchRow {
	mr := &matchRow{
		StructuralID: m.StructuralID,
		BlobID:       m.BlobID,
		Location:     m.Location,
		Excerpt:      m.Excerpt,
	}
	if s != nil {
		if provs, err := s.GetProvenance(m.BlobID); err == nil {
			for _, p := range provs {
				mr.Paths = append(mr.Paths, p.Path())
			}
		}
	}
	return mr
}

func (d *exploreData) close() error {
	if d.store != nil {
		return d.store.Close()
	}
	return nil
}
