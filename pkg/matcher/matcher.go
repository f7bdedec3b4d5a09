package matcher

import "github.com/sigil-dev/sigil/pkg/types"

// Matcher scans content for signature matches.
type Matcher interface {
	// Match scans content against all loaded signatures.
	// Returns matches with window spans and anchor offsets.
	Match(content []byte) ([]*types.Match, error)

	// MatchWithBlobID scans content with a known BlobID.
	MatchWithBlobID(content []byte, blobID types.BlobID) ([]*types.Match, error)

	// Close releases resources.
	Close() error
}

// Config for matcher initialization.
type Config struct {
	// Signatures to compile and load into the matcher
	Signatures []*types.Signature

	// Step is the scan stride: candidate windows start at multiples of
	// it. Values below 1 mean 1. Strides above 1 trade completeness for
	// speed.
	Step int

	// ExcerptBytes is how many context bytes to capture on each side of
	// a match (0 = no context)
	ExcerptBytes int

	// MaxMatchesPerSignature limits matches returned per signature per
	// blob (0 = unlimited)
	MaxMatchesPerSignature int

	// DisablePrefilter turns off Aho-Corasick candidate pruning
	DisablePrefilter bool
}

// New creates a new Matcher with the given config.
func New(cfg Config) (Matcher, error) {
	return NewEngine(cfg)
}
