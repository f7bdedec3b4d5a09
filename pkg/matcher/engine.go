package matcher

import (
	"fmt"

	"github.com/sigil-dev/sigil/pkg/pattern"
	"github.com/sigil-dev/sigil/pkg/prefilter"
	"github.com/sigil-dev/sigil/pkg/types"
)

// Engine runs compiled signatures over content with the windowed byte
// scanner, pruning candidates through the prefilter first.
//
// Thread Safety: Engine is safe for concurrent Match calls. Compiled
// patterns and the prefilter are read-only after construction and
// deduplication state lives on the call stack.
type Engine struct {
	sigs         []*types.Signature
	patterns     map[string]*pattern.Pattern // signature ID -> compiled pattern
	prefilter    *prefilter.Prefilter        // nil when disabled
	step         int
	excerptBytes int
	maxPerSig    int
}

// NewEngine creates an engine from config. All signature patterns are
// compiled up front so malformed signatures surface before any content
// is scanned.
func NewEngine(cfg Config) (*Engine, error) {
	if len(cfg.Signatures) == 0 {
		return nil, fmt.Errorf("no signatures provided")
	}

	step := cfg.Step
	if step < 1 {
		step = 1
	}

	e := &Engine{
		sigs:         cfg.Signatures,
		patterns:     make(map[string]*pattern.Pattern, len(cfg.Signatures)),
		step:         step,
		excerptBytes: cfg.ExcerptBytes,
		maxPerSig:    cfg.MaxMatchesPerSignature,
	}

	for _, sig := range cfg.Signatures {
		p, err := sig.Compile()
		if err != nil {
			return nil, fmt.Errorf("failed to compile pattern %q for signature %s: %w", sig.Pattern, sig.ID, err)
		}
		e.patterns[sig.ID] = p
	}

	if !cfg.DisablePrefilter {
		e.prefilter = prefilter.New(cfg.Signatures)
	}

	return e, nil
}

// Match scans content against all loaded signatures.
func (e *Engine) Match(content []byte) ([]*types.Match, error) {
	return e.MatchWithBlobID(content, types.ComputeBlobID(content))
}

// MatchWithBlobID scans content with a known BlobID. Candidates pass the
// prefilter first; each surviving signature is confirmed by its own
// windowed scan.
func (e *Engine) MatchWithBlobID(content []byte, blobID types.BlobID) ([]*types.Match, error) {
	candidates := e.sigs
	if e.prefilter != nil {
		candidates = e.prefilter.Filter(content)
	}

	var matches []*types.Match
	dedup := NewDeduplicator()

	for _, sig := range candidates {
		p := e.patterns[sig.ID]
		if p == nil {
			continue
		}

		anchors, err := p.FindAllStep(content, e.step, e.maxPerSig)
		if err != nil {
			return nil, fmt.Errorf("scanning signature %s: %w", sig.ID, err)
		}

		for _, anchor := range anchors {
			m := e.buildMatch(blobID, sig, p, content, anchor)
			if dedup.IsDuplicate(m) {
				continue
			}
			dedup.Add(m)
			matches = append(matches, m)
		}
	}

	return matches, nil
}

// Close releases resources (no-op for the windowed engine).
func (e *Engine) Close() error {
	return nil
}

// buildMatch constructs a types.Match for a window. The anchor is the
// cursor-adjusted offset the scan reported; the window start is the
// anchor minus the pattern's cursor offset.
func (e *Engine) buildMatch(blobID types.BlobID, sig *types.Signature, p *pattern.Pattern, content []byte, anchor int) *types.Match {
	start := anchor - p.CursorOffset()
	end := start + p.Size()

	var before, after []byte
	if e.excerptBytes > 0 {
		before, after = ExtractExcerpt(content, start, end, e.excerptBytes)
	}

	// Copy the window so the match does not pin the scanned buffer.
	matched := append([]byte{}, content[start:end]...)

	m := &types.Match{
		BlobID:        blobID,
		SignatureID:   sig.ID,
		SignatureName: sig.Name,
		Location: types.Location{
			Offset: types.OffsetSpan{
				Start: int64(start),
				End:   int64(end),
			},
			Anchor: int64(anchor),
		},
		Excerpt: types.Excerpt{
			Before:   before,
			Matching: matched,
			After:    after,
		},
	}

	m.StructuralID = m.ComputeStructuralID(sig.StructuralID)
	m.FindingID = types.ComputeFindingID(sig.StructuralID, matched)

	return m
}
