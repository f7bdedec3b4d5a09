package signature

import (
	"testing"

	"github.com/sigil-dev/sigil/pkg/pattern"
	"github.com/sigil-dev/sigil/pkg/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuiltin_AllSignaturesValid(t *testing.T) {
	loader := NewLoader()
	sigs, err := loader.LoadBuiltin()
	require.NoError(t, err)
	require.NotEmpty(t, sigs)

	for _, sig := range sigs {
		t.Run(sig.ID, func(t *testing.T) {
			assert.NoError(t, ValidateSignature(sig))
		})
	}
}

func TestBuiltin_UniqueIDs(t *testing.T) {
	loader := NewLoader()
	sigs, err := loader.LoadBuiltin()
	require.NoError(t, err)

	seen := make(map[string]bool)
	for _, sig := range sigs {
		assert.False(t, seen[sig.ID], "duplicate signature ID %s", sig.ID)
		seen[sig.ID] = true
	}
}

func TestBuiltin_SetsResolve(t *testing.T) {
	loader := NewLoader()

	sigs, err := loader.LoadBuiltin()
	require.NoError(t, err)

	knownIDs := make(map[string]bool)
	for _, sig := range sigs {
		knownIDs[sig.ID] = true
	}

	sets, err := loader.LoadBuiltinSets()
	require.NoError(t, err)
	require.NotEmpty(t, sets)

	for _, set := range sets {
		t.Run(set.ID, func(t *testing.T) {
			assert.NoError(t, ValidateSignatureSet(set, knownIDs))
		})
	}
}

func TestBuiltin_DefaultSetCoversEverySignature(t *testing.T) {
	loader := NewLoader()

	sigs, err := loader.LoadBuiltin()
	require.NoError(t, err)

	sets, err := loader.LoadBuiltinSets()
	require.NoError(t, err)

	var defaultSet *types.SignatureSet
	for _, set := range sets {
		if set.ID == "default" {
			defaultSet = set
			break
		}
	}
	require.NotNil(t, defaultSet, "default signature set must exist")

	inDefault := make(map[string]bool)
	for _, id := range defaultSet.SignatureIDs {
		inDefault[id] = true
	}

	for _, sig := range sigs {
		assert.True(t, inDefault[sig.ID], "signature %s missing from default set", sig.ID)
	}
	assert.Len(t, defaultSet.SignatureIDs, len(sigs))
}

// TestBuiltin_WellKnownMagics spot-checks a few signatures against real
// header bytes.
func TestBuiltin_WellKnownMagics(t *testing.T) {
	loader := NewLoader()
	sigs, err := loader.LoadBuiltin()
	require.NoError(t, err)

	byID := make(map[string]string)
	for _, sig := range sigs {
		byID[sig.ID] = sig.Pattern
	}

	tests := []struct {
		sigID  string
		data   []byte
		offset int
	}{
		{
			sigID:  "magic.png",
			data:   []byte{0x89, 0x50, 0x4E, 0x47, 0x0D, 0x0A, 0x1A, 0x0A, 0x00, 0x00},
			offset: 0,
		},
		{
			sigID:  "magic.elf",
			data:   []byte{0x7F, 'E', 'L', 'F', 0x02, 0x01, 0x01, 0x00},
			offset: 0,
		},
		{
			sigID:  "archive.zip",
			data:   []byte{'P', 'K', 0x03, 0x04, 0x14, 0x00},
			offset: 0,
		},
		{
			sigID:  "archive.gzip",
			data:   []byte{0x00, 0x00, 0x1F, 0x8B, 0x08, 0x00},
			offset: 2,
		},
		{
			// Cursor lands on the call operand, one byte past the opcode.
			sigID:  "code.x86.call",
			data:   []byte{0x90, 0xE8, 0x10, 0x20, 0x30, 0x40},
			offset: 2,
		},
	}

	for _, tt := range tests {
		t.Run(tt.sigID, func(t *testing.T) {
			text, ok := byID[tt.sigID]
			require.True(t, ok, "signature %s not found in builtin catalog", tt.sigID)

			p, err := pattern.Parse(text)
			require.NoError(t, err)
			assert.Equal(t, tt.offset, p.Find(tt.data))
		})
	}
}
