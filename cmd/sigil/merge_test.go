package main

import (
	"bytes"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sigil-dev/sigil/pkg/store"
	"github.com/sigil-dev/sigil/pkg/types"
)

func seedSource(t *testing.T, dir, name, content string) string {
	t.Helper()

	path := filepath.Join(dir, name)
	s, err := store.New(store.Config{Path: path})
	require.NoError(t, err)
	defer s.Close()

	data := []byte(content)
	blobID := types.ComputeBlobID(data)
	require.NoError(t, s.AddBlob(blobID, int64(len(data))))

	m := &types.Match{
		BlobID:        blobID,
		SignatureID:   "test.sig",
		SignatureName: "Test signature",
		Location:      types.Location{Offset: types.OffsetSpan{Start: 0, End: int64(len(data))}},
		Excerpt:       types.Excerpt{Matching: data},
	}
	m.StructuralID = m.ComputeStructuralID("sig-structural")
	m.FindingID = types.ComputeFindingID("sig-structural", data)
	require.NoError(t, s.AddMatch(m))

	return path
}

func TestRunMerge(t *testing.T) {
	dir := t.TempDir()
	src1 := seedSource(t, dir, "a.db", "blob one")
	src2 := seedSource(t, dir, "b.db", "blob two")
	mergeOutput = filepath.Join(dir, "merged.db")

	var buf bytes.Buffer
	cmd := &cobra.Command{}
	cmd.SetOut(&buf)

	err := runMerge(cmd, []string{src1, src2})
	require.NoError(t, err)

	output := buf.String()
	assert.Contains(t, output, "Sources processed: 2")
	assert.Contains(t, output, "Blobs merged: 2")
	assert.Contains(t, output, "Matches merged: 2")

	merged, err := store.New(store.Config{Path: mergeOutput})
	require.NoError(t, err)
	defer merged.Close()

	matches, err := merged.GetAllMatches()
	require.NoError(t, err)
	assert.Len(t, matches, 2)
}

func TestRunMerge_MissingSource(t *testing.T) {
	dir := t.TempDir()
	src := seedSource(t, dir, "only.db", "data")
	mergeOutput = filepath.Join(dir, "merged.db")

	cmd := &cobra.Command{}
	cmd.SetOut(&bytes.Buffer{})

	err := runMerge(cmd, []string{src, filepath.Join(dir, "missing.db")})
	assert.Error(t, err)
}
