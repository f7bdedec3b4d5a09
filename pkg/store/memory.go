package store

import (
	"sync"

	"github.com/sigil-dev/sigil/pkg/types"
)

type blobRecord struct {
	id   types.BlobID
	size int64
}

// MemoryStore implements Store using in-memory maps. It is safe for
// concurrent use and needs no teardown, which makes it the natural
// backend for one-shot scans and tests.
type MemoryStore struct {
	mu         sync.RWMutex
	blobs      map[string]blobRecord         // keyed by BlobID.Hex()
	signatures map[string]*types.Signature   // keyed by signature ID
	matches    []*types.Match                // insertion order
	matchSeen  map[string]bool               // match structural IDs
	findings   map[string]*types.Finding     // keyed by finding ID
	provenance map[string][]types.Provenance // keyed by BlobID.Hex()
}

// NewMemory creates an empty in-memory store.
func NewMemory() *MemoryStore {
	return &MemoryStore{
		blobs:      make(map[string]blobRecord),
		signatures: make(map[string]*types.Signature),
		matchSeen:  make(map[string]bool),
		findings:   make(map[string]*types.Finding),
		provenance: make(map[string][]types.Provenance),
	}
}

// AddBlob records a scanned blob.
func (m *MemoryStore) AddBlob(id types.BlobID, size int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	key := id.Hex()
	if _, exists := m.blobs[key]; exists {
		return nil
	}

	m.blobs[key] = blobRecord{id: id, size: size}
	return nil
}

// AddSignature records a signature used during a scan.
func (m *MemoryStore) AddSignature(sig *types.Signature) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.signatures[sig.ID]; exists {
		return nil
	}

	m.signatures[sig.ID] = sig
	return nil
}

// AddMatch records a match, deduplicated by structural ID.
func (m *MemoryStore) AddMatch(match *types.Match) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.matchSeen[match.StructuralID] {
		return nil
	}

	m.matchSeen[match.StructuralID] = true
	m.matches = append(m.matches, match)
	return nil
}

// AddFinding records a finding, deduplicated by ID.
func (m *MemoryStore) AddFinding(f *types.Finding) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.findings[f.ID]; exists {
		return nil
	}

	m.findings[f.ID] = f
	return nil
}

// AddProvenance associates a provenance record with a blob.
func (m *MemoryStore) AddProvenance(blobID types.BlobID, prov types.Provenance) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	key := blobID.Hex()
	for _, p := range m.provenance[key] {
		// Provenance implementations are plain comparable structs, so
		// interface equality is an exact record comparison.
		if p == prov {
			return nil
		}
	}

	m.provenance[key] = append(m.provenance[key], prov)
	return nil
}

// GetMatches returns matches for a blob in insertion order.
func (m *MemoryStore) GetMatches(blobID types.BlobID) ([]*types.Match, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	result := []*types.Match{}
	for _, match := range m.matches {
		if match.BlobID == blobID {
			result = append(result, match)
		}
	}
	return result, nil
}

// GetAllMatches returns every stored match in insertion order.
func (m *MemoryStore) GetAllMatches() ([]*types.Match, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	result := make([]*types.Match, len(m.matches))
	copy(result, m.matches)
	return result, nil
}

// GetFindings returns all stored findings.
func (m *MemoryStore) GetFindings() ([]*types.Finding, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	result := make([]*types.Finding, 0, len(m.findings))
	for _, finding := range m.findings {
		result = append(result, finding)
	}
	return result, nil
}

// GetProvenance returns all provenance records for a blob.
func (m *MemoryStore) GetProvenance(blobID types.BlobID) ([]types.Provenance, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	provs := m.provenance[blobID.Hex()]
	result := make([]types.Provenance, len(provs))
	copy(result, provs)
	return result, nil
}

// BlobExists reports whether a blob has already been stored.
func (m *MemoryStore) BlobExists(id types.BlobID) (bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	_, exists := m.blobs[id.Hex()]
	return exists, nil
}

// FindingExists reports whether a finding ID has already been stored.
func (m *MemoryStore) FindingExists(findingID string) (bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	_, exists := m.findings[findingID]
	return exists, nil
}

// Close is a no-op for the in-memory store.
func (m *MemoryStore) Close() error {
	return nil
}
