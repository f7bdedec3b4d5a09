package types

import (
	"crypto/sha1"
	"encoding/hex"

	"github.com/sigil-dev/sigil/pkg/pattern"
)

// Signature is a named byte signature with metadata.
type Signature struct {
	ID               string   // e.g., "magic.png"
	Name             string   // human-readable name
	Pattern          string   // signature text, e.g. "89 50 4E 47 0D 0A 1A 0A"
	StructuralID     string   // SHA-1 of the canonical pattern text (computed)
	Description      string   // optional
	Examples         []string // hex-encoded buffers the signature must match
	NegativeExamples []string // hex-encoded buffers the signature must not match
	References       []string // documentation URLs
	Categories       []string // classification tags, e.g. "magic", "code"
}

// Compile parses the signature's pattern text into an executable
// pattern.
func (s *Signature) Compile() (*pattern.Pattern, error) {
	return pattern.Parse(s.Pattern)
}

// ComputeStructuralID computes SHA-1 of the canonical pattern text, so
// signatures differing only in hex case or spacing share an identity.
// Malformed pattern text hashes as written.
func (s *Signature) ComputeStructuralID() string {
	text := s.Pattern
	if p, err := pattern.Parse(text); err == nil {
		text = p.String()
	}

	h := sha1.New()
	h.Write([]byte(text))
	return hex.EncodeToString(h.Sum(nil))
}

// SignatureSet groups signatures together.
type SignatureSet struct {
	ID           string
	Name         string
	Description  string
	SignatureIDs []string
}
