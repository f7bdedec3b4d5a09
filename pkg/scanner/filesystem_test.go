package scanner

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/sigil-dev/sigil/pkg/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, root, rel string, content []byte) {
	t.Helper()

	path := filepath.Join(root, rel)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, content, 0o644))
}

// collectFiles enumerates root and returns content keyed by slash-form
// path relative to root.
func collectFiles(t *testing.T, config SourceConfig) map[string][]byte {
	t.Helper()

	e := NewFilesystemEnumerator(config)

	var mu sync.Mutex
	got := map[string][]byte{}
	err := e.Enumerate(context.Background(), func(content []byte, blobID types.BlobID, prov types.Provenance) error {
		assert.Equal(t, types.ComputeBlobID(content), blobID)
		assert.Equal(t, "file", prov.Kind())

		rel, err := filepath.Rel(config.Root, prov.Path())
		require.NoError(t, err)

		mu.Lock()
		defer mu.Unlock()
		got[filepath.ToSlash(rel)] = content
		return nil
	})
	require.NoError(t, err)

	return got
}

func TestFilesystemEnumerator_Basic(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "a.bin", []byte{0x89, 0x50, 0x4E, 0x47})
	writeFile(t, root, "sub/b.bin", []byte{0x7F, 0x45, 0x4C, 0x46})

	got := collectFiles(t, SourceConfig{Root: root})

	require.Len(t, got, 2)
	assert.Equal(t, []byte{0x89, 0x50, 0x4E, 0x47}, got["a.bin"])
	assert.Equal(t, []byte{0x7F, 0x45, 0x4C, 0x46}, got["sub/b.bin"])
}

func TestFilesystemEnumerator_SkipsHidden(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "visible.bin", []byte("visible"))
	writeFile(t, root, ".hidden.bin", []byte("hidden file"))
	writeFile(t, root, ".git/objects/blob", []byte("hidden dir"))

	got := collectFiles(t, SourceConfig{Root: root})
	require.Len(t, got, 1)
	assert.Contains(t, got, "visible.bin")

	got = collectFiles(t, SourceConfig{Root: root, IncludeHidden: true})
	assert.Len(t, got, 3)
}

func TestFilesystemEnumerator_HiddenRoot(t *testing.T) {
	// The root itself being a dotdir must not disable the whole scan.
	root := filepath.Join(t.TempDir(), ".cache")
	writeFile(t, root, "data.bin", []byte("cached"))

	got := collectFiles(t, SourceConfig{Root: root})
	require.Len(t, got, 1)
	assert.Contains(t, got, "data.bin")
}

func TestFilesystemEnumerator_MaxFileSize(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "small.bin", make([]byte, 10))
	writeFile(t, root, "large.bin", make([]byte, 100))

	got := collectFiles(t, SourceConfig{Root: root, MaxFileSize: 50})

	require.Len(t, got, 1)
	assert.Contains(t, got, "small.bin")
}

func TestFilesystemEnumerator_GitIgnore(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, ".gitignore", []byte("*.log\nbuild/\n"))
	writeFile(t, root, "keep.bin", []byte("keep"))
	writeFile(t, root, "skip.log", []byte("skip"))
	writeFile(t, root, "build/out.bin", []byte("artifact"))

	got := collectFiles(t, SourceConfig{Root: root})

	require.Len(t, got, 1)
	assert.Contains(t, got, "keep.bin")
}

func TestFilesystemEnumerator_Symlinks(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "target.bin", []byte("target content"))
	require.NoError(t, os.Symlink(filepath.Join(root, "target.bin"), filepath.Join(root, "link.bin")))

	got := collectFiles(t, SourceConfig{Root: root})
	require.Len(t, got, 1)
	assert.Contains(t, got, "target.bin")

	got = collectFiles(t, SourceConfig{Root: root, FollowSymlinks: true})
	require.Len(t, got, 2)
	assert.Equal(t, []byte("target content"), got["link.bin"])
}

func TestFilesystemEnumerator_CallbackError(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "a.bin", []byte("content"))

	boom := errors.New("boom")
	e := NewFilesystemEnumerator(SourceConfig{Root: root})
	err := e.Enumerate(context.Background(), func([]byte, types.BlobID, types.Provenance) error {
		return boom
	})

	assert.ErrorIs(t, err, boom)
}

func TestFilesystemEnumerator_ContextCancelled(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "a.bin", []byte("content"))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	e := NewFilesystemEnumerator(SourceConfig{Root: root})
	err := e.Enumerate(ctx, func([]byte, types.BlobID, types.Provenance) error {
		return nil
	})

	assert.ErrorIs(t, err, context.Canceled)
}

func TestIsHidden(t *testing.T) {
	tests := []struct {
		name string
		want bool
	}{
		{".git", true},
		{".hidden", true},
		{"visible", false},
		{".", false},
		{"..", false},
	}

	for _, tt := range tests {
		if got := isHidden(tt.name); got != tt.want {
			t.Errorf("isHidden(%q) = %v, want %v", tt.name, got, tt.want)
		}
	}
}
