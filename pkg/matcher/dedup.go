package matcher

import "github.com/sigil-dev/sigil/pkg/types"

// DedupeMode controls how matches are deduplicated.
type DedupeMode int

const (
	// DedupeByLocation deduplicates by exact location (signature + blob
	// + window span). The same bytes at different offsets count as
	// separate matches.
	DedupeByLocation DedupeMode = iota

	// DedupeByContent deduplicates by matched content (signature +
	// matched bytes). The same window content appearing anywhere counts
	// once.
	DedupeByContent
)

// Deduplicator removes duplicate matches based on configurable criteria.
type Deduplicator struct {
	seen map[string]bool
	mode DedupeMode
}

// NewDeduplicator creates a new deduplicator with location-based
// deduplication.
func NewDeduplicator() *Deduplicator {
	return &Deduplicator{
		seen: make(map[string]bool),
		mode: DedupeByLocation,
	}
}

// NewContentDeduplicator creates a deduplicator that deduplicates by
// matched content.
func NewContentDeduplicator() *Deduplicator {
	return &Deduplicator{
		seen: make(map[string]bool),
		mode: DedupeByContent,
	}
}

// SetMode changes the deduplication mode.
func (d *Deduplicator) SetMode(mode DedupeMode) {
	d.mode = mode
}

// IsDuplicate returns true if match was already seen.
func (d *Deduplicator) IsDuplicate(m *types.Match) bool {
	return d.seen[d.key(m)]
}

// Add marks a match as seen.
func (d *Deduplicator) Add(m *types.Match) {
	d.seen[d.key(m)] = true
}

// Reset clears the deduplicator for reuse.
func (d *Deduplicator) Reset() {
	clear(d.seen)
}

// key picks the ID matching the mode. Both IDs are computed when the
// match is built, so keying is a map lookup, not a hash.
func (d *Deduplicator) key(m *types.Match) string {
	if d.mode == DedupeByContent {
		return m.FindingID
	}
	return m.StructuralID
}
