package types

import (
	"crypto/sha1"
	"encoding/hex"
)

// Finding groups matches of one signature over identical matched bytes,
// so the same magic appearing in a thousand blobs reads as one finding
// with a thousand locations.
type Finding struct {
	ID          string // SHA-1(sig_structural_id + '\0' + matched bytes)
	SignatureID string
	Matched     []byte   // the bytes the signature covered
	Matches     []*Match // matches belonging to this finding
}

// ComputeFindingID computes the content-based finding ID.
// Format: SHA-1(sig_structural_id + '\0' + matched bytes)
func ComputeFindingID(sigStructuralID string, matched []byte) string {
	h := sha1.New()

	h.Write([]byte(sigStructuralID))
	h.Write([]byte{0}) // null byte separator
	h.Write(matched)

	return hex.EncodeToString(h.Sum(nil))
}

// GroupMatches folds matches into findings keyed by FindingID. Finding
// order follows first appearance; matches keep their scan order inside
// each finding.
func GroupMatches(matches []*Match) []*Finding {
	byID := make(map[string]*Finding)
	var findings []*Finding

	for _, m := range matches {
		f, ok := byID[m.FindingID]
		if !ok {
			f = &Finding{
				ID:          m.FindingID,
				SignatureID: m.SignatureID,
				Matched:     m.Excerpt.Matching,
			}
			byID[m.FindingID] = f
			findings = append(findings, f)
		}
		f.Matches = append(f.Matches, m)
	}

	return findings
}
