package signature

import (
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/sigil-dev/sigil/pkg/pattern"
	"github.com/sigil-dev/sigil/pkg/types"
)

// ValidateSignature checks signature consistency and required fields.
// The pattern text must compile and cover at least one byte, hex-encoded
// examples must match it, and negative examples must not.
func ValidateSignature(s *types.Signature) error {
	if s == nil {
		return fmt.Errorf("signature is nil")
	}

	if s.ID == "" {
		return fmt.Errorf("signature ID is required")
	}
	if s.Name == "" {
		return fmt.Errorf("signature name is required")
	}
	if s.Pattern == "" {
		return fmt.Errorf("signature pattern is required")
	}

	p, err := s.Compile()
	if err != nil {
		return fmt.Errorf("invalid pattern for signature %s: %w", s.ID, err)
	}
	if p.Size() == 0 {
		return fmt.Errorf("signature %s matches zero bytes", s.ID)
	}

	for i, example := range s.Examples {
		data, err := decodeExample(example)
		if err != nil {
			return fmt.Errorf("signature %s example %d: %w", s.ID, i, err)
		}
		if p.Find(data) == pattern.NotFound {
			return fmt.Errorf("signature %s does not match example %d", s.ID, i)
		}
	}

	for i, example := range s.NegativeExamples {
		data, err := decodeExample(example)
		if err != nil {
			return fmt.Errorf("signature %s negative example %d: %w", s.ID, i, err)
		}
		if p.Find(data) != pattern.NotFound {
			return fmt.Errorf("signature %s matches negative example %d", s.ID, i)
		}
	}

	expectedID := s.ComputeStructuralID()
	if s.StructuralID != "" && s.StructuralID != expectedID {
		return fmt.Errorf("signature %s has inconsistent StructuralID: got %s, expected %s",
			s.ID, s.StructuralID, expectedID)
	}

	return nil
}

// decodeExample decodes a hex-encoded example buffer. Whitespace inside
// the hex is cosmetic.
func decodeExample(example string) ([]byte, error) {
	cleaned := strings.Map(func(r rune) rune {
		switch r {
		case ' ', '\t', '\n', '\r':
			return -1
		}
		return r
	}, example)

	data, err := hex.DecodeString(cleaned)
	if err != nil {
		return nil, fmt.Errorf("example is not valid hex: %w", err)
	}
	return data, nil
}

// ValidateSignatureSet checks set consistency and required fields.
// knownIDs is a map of valid signature IDs for reference checking.
func ValidateSignatureSet(set *types.SignatureSet, knownIDs map[string]bool) error {
	if set == nil {
		return fmt.Errorf("signature set is nil")
	}

	if set.ID == "" {
		return fmt.Errorf("signature set ID is required")
	}
	if set.Name == "" {
		return fmt.Errorf("signature set name is required")
	}
	if len(set.SignatureIDs) == 0 {
		return fmt.Errorf("signature set %s must reference at least one signature", set.ID)
	}

	if knownIDs != nil {
		for _, sigID := range set.SignatureIDs {
			if !knownIDs[sigID] {
				return fmt.Errorf("signature set %s references unknown signature ID: %s", set.ID, sigID)
			}
		}
	}

	seen := make(map[string]bool)
	for _, sigID := range set.SignatureIDs {
		if seen[sigID] {
			return fmt.Errorf("signature set %s contains duplicate signature ID: %s", set.ID, sigID)
		}
		seen[sigID] = true
	}

	return nil
}
