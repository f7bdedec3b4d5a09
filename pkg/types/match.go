package types

import (
	"crypto/sha1"
	"encoding/hex"
	"fmt"
)

// Match is a single signature hit inside one blob.
type Match struct {
	BlobID        BlobID
	StructuralID  string // SHA-1(sig_structural_id + '\0' + blob_id + '\0' + start + '\0' + end)
	FindingID     string // SHA-1(sig_structural_id + '\0' + matched bytes) — content-based dedup ID
	SignatureID   string // e.g., "magic.png"
	SignatureName string // e.g., "PNG image header"
	Location      Location
	Excerpt       Excerpt
}

// ComputeStructuralID computes the position-based unique ID.
// Format: SHA-1(sig_structural_id + '\0' + blob_id + '\0' + start + '\0' + end)
func (m *Match) ComputeStructuralID(sigStructuralID string) string {
	h := sha1.New()

	h.Write([]byte(sigStructuralID))
	h.Write([]byte{0}) // null byte separator

	h.Write(m.BlobID[:])
	h.Write([]byte{0})

	fmt.Fprintf(h, "%d", m.Location.Offset.Start)
	h.Write([]byte{0})

	fmt.Fprintf(h, "%d", m.Location.Offset.End)

	return hex.EncodeToString(h.Sum(nil))
}
