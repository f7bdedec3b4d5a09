package explore

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sigil-dev/sigil/pkg/store"
	"github.com/sigil-dev/sigil/pkg/types"
)

func seedStore(t *testing.T) store.Store {
	t.Helper()
	s := store.NewMemory()

	content := []byte{0x89, 0x50, 0x4E, 0x47}
	blobID := types.ComputeBlobID(content)
	require.NoError(t, s.AddBlob(blobID, int64(len(content))))
	require.NoError(t, s.AddProvenance(blobID, types.FileProvenance{FilePath: "/tmp/a.png"}))

	m := &types.Match{
		BlobID:        blobID,
		SignatureID:   "magic.png",
		SignatureName: "PNG image header",
		Location: types.Location{
			Offset: types.OffsetSpan{Start: 0, End: 4},
			Anchor: 0,
		},
		Excerpt: types.Excerpt{Matching: content},
	}
	m.StructuralID = m.ComputeStructuralID("sig-structural")
	m.FindingID = types.ComputeFindingID("sig-structural", content)
	require.NoError(t, s.AddMatch(m))

	require.NoError(t, s.AddFinding(&types.Finding{
		ID:          m.FindingID,
		SignatureID: "magic.png",
		Matched:     content,
	}))

	return s
}

func TestBuildData(t *testing.T) {
	s := seedStore(t)
	defer s.Close()

	data, err := buildData(s)
	require.NoError(t, err)
	require.Len(t, data.findings, 1)

	row := data.findings[0]
	assert.Equal(t, "magic.png", row.SignatureID)
	assert.Equal(t, "PNG image header", row.SignatureName)
	assert.Equal(t, 1, row.MatchCount)
	require.Len(t, row.Matches, 1)

	mr := row.Matches[0]
	assert.Equal(t, []string{"/tmp/a.png"}, mr.Paths)
	assert.Equal(t, int64(0), mr.Location.Offset.Start)
	assert.Equal(t, int64(4), mr.Location.Offset.End)
}

func TestBuildData_NameFallsBackToID(t *testing.T) {
	s := store.NewMemory()
	defer s.Close()

	// A finding with no surviving match rows still renders, named by ID.
	require.NoError(t, s.AddFinding(&types.Finding{
		ID:          "orphan",
		SignatureID: "code.prologue",
		Matched:     []byte{0x55},
	}))

	data, err := buildData(s)
	require.NoError(t, err)
	require.Len(t, data.findings, 1)
	assert.Equal(t, "code.prologue", data.findings[0].SignatureName)
	assert.Equal(t, 0, data.findings[0].MatchCount)
}

func TestLoadData_MissingPath(t *testing.T) {
	_, err := loadData("/nonexistent/sigil.db")
	assert.Error(t, err)
}
