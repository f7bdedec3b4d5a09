package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSignature_ComputeStructuralID(t *testing.T) {
	sig := Signature{
		ID:      "magic.png",
		Name:    "PNG image header",
		Pattern: "89 50 4E 47 0D 0A 1A 0A",
	}

	id := sig.ComputeStructuralID()
	assert.Len(t, id, 40)
	assert.Equal(t, id, sig.ComputeStructuralID())
}

func TestSignature_StructuralIDCanonicalizes(t *testing.T) {
	// Hex case and spacing do not change identity; the pattern does.
	spaced := Signature{Pattern: "89 50 4e 47"}
	packed := Signature{Pattern: "89504E47"}
	other := Signature{Pattern: "89 50 4E 48"}

	assert.Equal(t, spaced.ComputeStructuralID(), packed.ComputeStructuralID())
	assert.NotEqual(t, spaced.ComputeStructuralID(), other.ComputeStructuralID())
}

func TestSignature_StructuralIDDistinguishesMeaning(t *testing.T) {
	// Wildcards, masks and cursors all shape identity.
	wildcard := Signature{Pattern: "E8 ? ? ? ?"}
	masked := Signature{Pattern: "E8 0F&F0 ? ? ?"}
	cursor := Signature{Pattern: "E8 ^ ? ? ? ?"}

	assert.NotEqual(t, wildcard.ComputeStructuralID(), masked.ComputeStructuralID())
	assert.NotEqual(t, wildcard.ComputeStructuralID(), cursor.ComputeStructuralID())
	assert.NotEqual(t, masked.ComputeStructuralID(), cursor.ComputeStructuralID())
}

func TestSignature_StructuralIDMalformedFallsBack(t *testing.T) {
	// Unparseable pattern text still yields a stable hash.
	sig := Signature{Pattern: "not a signature"}

	id := sig.ComputeStructuralID()
	assert.Len(t, id, 40)
	assert.Equal(t, id, sig.ComputeStructuralID())
}

func TestSignatureSet(t *testing.T) {
	set := SignatureSet{
		ID:           "default",
		Name:         "Builtin signatures",
		SignatureIDs: []string{"magic.png", "magic.gzip"},
	}

	assert.Len(t, set.SignatureIDs, 2)
}
