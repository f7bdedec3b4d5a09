// Package sigil provides binary signature scanning: locating known byte
// sequences, with wildcard and bit-masked positions, inside arbitrary
// binary blobs.
//
// # Basic Usage
//
// Create a scanner with the builtin signature catalog and scan content:
//
//	scanner, err := sigil.NewScanner()
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer scanner.Close()
//
//	matches, err := scanner.ScanFile("/bin/ls")
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	for _, match := range matches {
//	    fmt.Printf("%s at offset 0x%X\n", match.SignatureName, match.Location.Anchor)
//	}
//
// # One-shot pattern search
//
// For a single ad-hoc pattern there is no need to build a Scanner:
//
//	off, err := sigil.Find(data, "E8 ^ ? ? ? ?")
//	if off != sigil.NotFound {
//	    fmt.Printf("call operand at 0x%X\n", off)
//	}
//
// The pattern language and matching semantics live in pkg/pattern;
// signature catalogs in pkg/signature.
package sigil

import (
	"fmt"
	"os"
	"sync"

	"github.com/sigil-dev/sigil/pkg/matcher"
	"github.com/sigil-dev/sigil/pkg/pattern"
	"github.com/sigil-dev/sigil/pkg/signature"
	"github.com/sigil-dev/sigil/pkg/types"
)

// Re-export commonly used types for convenience.
// Users can import just "github.com/sigil-dev/sigil" without subpackages.
type (
	// Match is a single signature hit inside one blob.
	Match = types.Match

	// Signature is a named byte signature with metadata.
	Signature = types.Signature

	// SignatureSet groups signatures together.
	SignatureSet = types.SignatureSet

	// Finding groups matches of one signature over identical bytes.
	Finding = types.Finding

	// BlobID identifies scanned content by git-style SHA-1.
	BlobID = types.BlobID

	// Location pins a match inside a blob.
	Location = types.Location

	// Excerpt carries the raw bytes around a match.
	Excerpt = types.Excerpt

	// Pattern is a compiled signature, reusable across scans.
	Pattern = pattern.Pattern

	// Token is the smallest unit of a signature.
	Token = pattern.Token
)

// NotFound is returned by Find when no window of the data matches.
const NotFound = pattern.NotFound

// Scanner scans binary content against a signature catalog.
type Scanner struct {
	matcher matcher.Matcher
	config  *scannerConfig
	mu      sync.RWMutex
}

// scannerConfig holds scanner configuration.
type scannerConfig struct {
	signatures       []*types.Signature
	step             int
	excerptBytes     int
	maxPerSignature  int
	disablePrefilter bool
}

// Option configures a Scanner.
type Option func(*scannerConfig)

// WithSignatures uses a custom signature catalog instead of the builtin
// one.
func WithSignatures(sigs []*Signature) Option {
	return func(c *scannerConfig) {
		c.signatures = sigs
	}
}

// WithStep sets the scan stride. Candidate windows start at multiples of
// step; values above 1 trade completeness for speed. Default is 1, which
// is exhaustive.
func WithStep(step int) Option {
	return func(c *scannerConfig) {
		c.step = step
	}
}

// WithExcerptBytes sets how many context bytes to capture on each side
// of a match. Default is 16.
func WithExcerptBytes(n int) Option {
	return func(c *scannerConfig) {
		c.excerptBytes = n
	}
}

// WithMaxMatchesPerSignature limits how many matches one signature may
// report per blob. Default is unlimited.
func WithMaxMatchesPerSignature(n int) Option {
	return func(c *scannerConfig) {
		c.maxPerSignature = n
	}
}

// WithoutPrefilter disables Aho-Corasick candidate pruning, forcing a
// full scan per signature. Mostly useful for debugging the prefilter.
func WithoutPrefilter() Option {
	return func(c *scannerConfig) {
		c.disablePrefilter = true
	}
}

// NewScanner creates a Scanner.
//
// By default the scanner uses the builtin signature catalog, an
// exhaustive stride of 1, and 16 bytes of excerpt context.
func NewScanner(opts ...Option) (*Scanner, error) {
	config := &scannerConfig{
		step:         1,
		excerptBytes: 16,
	}

	for _, opt := range opts {
		opt(config)
	}

	if config.signatures == nil {
		sigs, err := LoadBuiltinSignatures()
		if err != nil {
			return nil, fmt.Errorf("loading builtin signatures: %w", err)
		}
		config.signatures = sigs
	}

	m, err := matcher.New(matcher.Config{
		Signatures:             config.signatures,
		Step:                   config.step,
		ExcerptBytes:           config.excerptBytes,
		MaxMatchesPerSignature: config.maxPerSignature,
		DisablePrefilter:       config.disablePrefilter,
	})
	if err != nil {
		return nil, fmt.Errorf("creating matcher: %w", err)
	}

	return &Scanner{
		matcher: m,
		config:  config,
	}, nil
}

// ScanBytes scans raw bytes and returns all matches.
func (s *Scanner) ScanBytes(content []byte) ([]*Match, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.matcher.Match(content)
}

// ScanString scans the raw bytes of a string. Binary signatures do not
// care about text encoding; this is ScanBytes without the conversion at
// every call site.
func (s *Scanner) ScanString(content string) ([]*Match, error) {
	return s.ScanBytes([]byte(content))
}

// ScanFile reads and scans a file.
func (s *Scanner) ScanFile(path string) ([]*Match, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading file: %w", err)
	}
	return s.ScanBytes(content)
}

// Close releases scanner resources. Always call Close when done.
func (s *Scanner) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.matcher != nil {
		return s.matcher.Close()
	}
	return nil
}

// SignatureCount returns the number of signatures loaded.
func (s *Scanner) SignatureCount() int {
	return len(s.config.signatures)
}

// Signatures returns a copy of the loaded signature catalog.
func (s *Scanner) Signatures() []*Signature {
	sigs := make([]*Signature, len(s.config.signatures))
	copy(sigs, s.config.signatures)
	return sigs
}

// Find locates patternText in data and returns the first cursor-adjusted
// offset, or NotFound. It compiles the pattern on every call; compile
// once with pattern.Parse when scanning repeatedly.
func Find(data []byte, patternText string) (int, error) {
	p, err := pattern.Parse(patternText)
	if err != nil {
		return NotFound, err
	}
	return p.Find(data), nil
}

// FindAll locates every occurrence of patternText in data, in ascending
// offset order.
func FindAll(data []byte, patternText string) ([]int, error) {
	p, err := pattern.Parse(patternText)
	if err != nil {
		return nil, err
	}
	return p.FindAll(data, 0), nil
}

// LoadBuiltinSignatures loads the embedded signature catalog.
func LoadBuiltinSignatures() ([]*Signature, error) {
	return signature.NewLoader().LoadBuiltin()
}

// LoadSignaturesFromFile loads signatures from a YAML file.
func LoadSignaturesFromFile(path string) ([]*Signature, error) {
	return signature.NewLoader().LoadSignatureFile(path)
}
