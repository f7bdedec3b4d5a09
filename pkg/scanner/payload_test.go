package scanner

import (
	"archive/zip"
	"bytes"
	"testing"

	"github.com/golang/snappy"
	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
	"github.com/pierrec/lz4/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ulikunitz/xz"
)

func gzipBytes(t *testing.T, data []byte) []byte {
	t.Helper()

	var buf bytes.Buffer
	w := gzip.NewWriter(&buf)
	_, err := w.Write(data)
	require.NoError(t, err)
	require.NoError(t, w.Close())
	return buf.Bytes()
}

func zstdBytes(t *testing.T, data []byte) []byte {
	t.Helper()

	var buf bytes.Buffer
	w, err := zstd.NewWriter(&buf)
	require.NoError(t, err)
	_, err = w.Write(data)
	require.NoError(t, err)
	require.NoError(t, w.Close())
	return buf.Bytes()
}

func xzBytes(t *testing.T, data []byte) []byte {
	t.Helper()

	var buf bytes.Buffer
	w, err := xz.NewWriter(&buf)
	require.NoError(t, err)
	_, err = w.Write(data)
	require.NoError(t, err)
	require.NoError(t, w.Close())
	return buf.Bytes()
}

func lz4Bytes(t *testing.T, data []byte) []byte {
	t.Helper()

	var buf bytes.Buffer
	w := lz4.NewWriter(&buf)
	_, err := w.Write(data)
	require.NoError(t, err)
	require.NoError(t, w.Close())
	return buf.Bytes()
}

func snappyBytes(t *testing.T, data []byte) []byte {
	t.Helper()

	var buf bytes.Buffer
	w := snappy.NewBufferedWriter(&buf)
	_, err := w.Write(data)
	require.NoError(t, err)
	require.NoError(t, w.Close())
	return buf.Bytes()
}

func zipBytes(t *testing.T, members map[string][]byte) []byte {
	t.Helper()

	var buf bytes.Buffer
	w := zip.NewWriter(&buf)
	for name, data := range members {
		f, err := w.Create(name)
		require.NoError(t, err)
		_, err = f.Write(data)
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())
	return buf.Bytes()
}

func TestExtract_Streams(t *testing.T) {
	inner := []byte("nested payload data with some length to it")

	tests := []struct {
		codec    string
		compress func(*testing.T, []byte) []byte
	}{
		{"gzip", gzipBytes},
		{"zstd", zstdBytes},
		{"xz", xzBytes},
		{"lz4", lz4Bytes},
		{"snappy", snappyBytes},
	}

	x := NewExtractor(0)
	for _, tt := range tests {
		t.Run(tt.codec, func(t *testing.T) {
			payloads := x.Extract(tt.compress(t, inner))

			require.Len(t, payloads, 1)
			assert.Equal(t, tt.codec, payloads[0].Codec)
			assert.Empty(t, payloads[0].Member)
			assert.Equal(t, inner, payloads[0].Content)
		})
	}
}

func TestExtract_Zip(t *testing.T) {
	content := zipBytes(t, map[string][]byte{
		"firmware/boot.img": []byte("boot image bytes"),
		"firmware/root.img": []byte("root image bytes"),
	})

	x := NewExtractor(0)
	payloads := x.Extract(content)

	require.Len(t, payloads, 2)

	byMember := map[string][]byte{}
	for _, p := range payloads {
		assert.Equal(t, "zip", p.Codec)
		byMember[p.Member] = p.Content
	}
	assert.Equal(t, []byte("boot image bytes"), byMember["firmware/boot.img"])
	assert.Equal(t, []byte("root image bytes"), byMember["firmware/root.img"])
}

func TestExtract_NotContainer(t *testing.T) {
	x := NewExtractor(0)

	assert.Nil(t, x.Extract([]byte("just some ordinary bytes")))
	assert.Nil(t, x.Extract(nil))
	assert.Nil(t, x.Extract([]byte{0x1F}))
}

func TestExtract_FalseMagic(t *testing.T) {
	x := NewExtractor(0)

	// Gzip magic followed by an invalid header (reserved flag bits set).
	bogusGzip := append([]byte{0x1F, 0x8B, 0x08}, bytes.Repeat([]byte{0xFF}, 16)...)
	assert.Nil(t, x.Extract(bogusGzip))

	// 7z magic on garbage.
	bogus7z := append([]byte{0x37, 0x7A, 0xBC, 0xAF, 0x27, 0x1C}, make([]byte, 32)...)
	assert.Nil(t, x.Extract(bogus7z))

	// bzip2 magic on garbage.
	bogusBzip2 := append([]byte("BZh9"), make([]byte, 32)...)
	assert.Nil(t, x.Extract(bogusBzip2))
}

func TestExtract_DecompressLimit(t *testing.T) {
	inner := bytes.Repeat([]byte{0xAB}, 1000)

	x := NewExtractor(16)
	payloads := x.Extract(gzipBytes(t, inner))

	require.Len(t, payloads, 1)
	assert.Equal(t, inner[:16], payloads[0].Content)
}

func TestExtract_EmptyStream(t *testing.T) {
	x := NewExtractor(0)

	// A valid container holding zero bytes yields nothing to scan.
	assert.Nil(t, x.Extract(gzipBytes(t, nil)))
}

func TestDetect(t *testing.T) {
	x := NewExtractor(0)

	codec, ok := x.Detect(gzipBytes(t, []byte("data")))
	require.True(t, ok)
	assert.Equal(t, "gzip", codec)

	codec, ok = x.Detect(zipBytes(t, map[string][]byte{"a": []byte("data")}))
	require.True(t, ok)
	assert.Equal(t, "zip", codec)

	_, ok = x.Detect([]byte("plain content"))
	assert.False(t, ok)
}
