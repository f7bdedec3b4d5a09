package scanner

import (
	"archive/zip"
	"bytes"
	"compress/bzip2"
	"io"

	"github.com/bodgit/sevenzip"
	"github.com/golang/snappy"
	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
	"github.com/pierrec/lz4/v4"
	"github.com/ulikunitz/xz"

	"github.com/sigil-dev/sigil/pkg/pattern"
)

// Payload is a blob recovered from inside another blob: a decompressed
// stream or an archive member.
type Payload struct {
	Content []byte
	Codec   string // e.g., "gzip", "zip"
	Member  string // member path inside an archive, empty for bare streams
}

const (
	// DefaultDecompressLimit caps how many bytes one payload may expand
	// to. Compressed data lies about its size, so the cap is what stands
	// between a scan and a decompression bomb.
	DefaultDecompressLimit = 64 << 20 // 64 MiB

	// DefaultMaxPayloadDepth caps container nesting during recursion.
	DefaultMaxPayloadDepth = 4
)

// Extractor recovers payloads from container blobs. Containers are
// recognized by their leading magic bytes using the same pattern engine
// that drives scanning, so the codec list and the builtin archive
// signatures describe the same formats.
type Extractor struct {
	limit int64
}

// NewExtractor creates an extractor with the given decompression limit
// per payload (0 uses DefaultDecompressLimit).
func NewExtractor(limit int64) *Extractor {
	if limit <= 0 {
		limit = DefaultDecompressLimit
	}
	return &Extractor{limit: limit}
}

type payloadCodec struct {
	name    string
	magic   *pattern.Pattern
	extract func(x *Extractor, content []byte) ([]Payload, error)
}

var payloadCodecs = []payloadCodec{
	{"gzip", pattern.MustParse("1F 8B 08"), (*Extractor).extractGzip},
	{"zstd", pattern.MustParse("28 B5 2F FD"), (*Extractor).extractZstd},
	{"xz", pattern.MustParse("FD 37 7A 58 5A 00"), (*Extractor).extractXz},
	{"bzip2", pattern.MustParse("42 5A 68 30&F0"), (*Extractor).extractBzip2},
	{"lz4", pattern.MustParse("04 22 4D 18"), (*Extractor).extractLz4},
	{"snappy", pattern.MustParse("FF 06 00 00 73 4E 61 50 70 59"), (*Extractor).extractSnappy},
	{"zip", pattern.MustParse("50 4B 03 04"), (*Extractor).extractZip},
	{"7z", pattern.MustParse("37 7A BC AF 27 1C"), (*Extractor).extractSevenZip},
}

// Detect reports the container codec a blob starts with, if any.
func (x *Extractor) Detect(content []byte) (string, bool) {
	if c := detectCodec(content); c != nil {
		return c.name, true
	}
	return "", false
}

func detectCodec(content []byte) *payloadCodec {
	for i := range payloadCodecs {
		c := &payloadCodecs[i]
		if len(content) < c.magic.Size() {
			continue
		}
		if c.magic.Find(content[:c.magic.Size()]) == 0 {
			return c
		}
	}
	return nil
}

// Extract recovers the payloads of a container blob. Blobs that carry a
// container magic but fail to decode yield nothing: magic bytes occur
// in ordinary data, and a failed decode just means this was not really
// a container.
func (x *Extractor) Extract(content []byte) []Payload {
	c := detectCodec(content)
	if c == nil {
		return nil
	}

	payloads, err := c.extract(x, content)
	if err != nil || len(payloads) == 0 {
		return nil
	}

	for i := range payloads {
		payloads[i].Codec = c.name
	}
	return payloads
}

// readLimited drains a decompression stream up to the configured limit.
// Whatever arrived before a stream error is kept: truncated containers
// are routine in carved or corrupted data and their prefix is still
// worth scanning.
func (x *Extractor) readLimited(r io.Reader) ([]byte, error) {
	var buf bytes.Buffer
	_, err := io.Copy(&buf, io.LimitReader(r, x.limit))
	if err != nil && buf.Len() == 0 {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (x *Extractor) streamPayload(r io.Reader) ([]Payload, error) {
	data, err := x.readLimited(r)
	if err != nil {
		return nil, err
	}
	if len(data) == 0 {
		return nil, nil
	}
	return []Payload{{Content: data}}, nil
}

func (x *Extractor) extractGzip(content []byte) ([]Payload, error) {
	zr, err := gzip.NewReader(bytes.NewReader(content))
	if err != nil {
		return nil, err
	}
	defer zr.Close()

	return x.streamPayload(zr)
}

func (x *Extractor) extractZstd(content []byte) ([]Payload, error) {
	zr, err := zstd.NewReader(bytes.NewReader(content))
	if err != nil {
		return nil, err
	}
	defer zr.Close()

	return x.streamPayload(zr)
}

func (x *Extractor) extractXz(content []byte) ([]Payload, error) {
	xr, err := xz.NewReader(bytes.NewReader(content))
	if err != nil {
		return nil, err
	}

	return x.streamPayload(xr)
}

func (x *Extractor) extractBzip2(content []byte) ([]Payload, error) {
	return x.streamPayload(bzip2.NewReader(bytes.NewReader(content)))
}

func (x *Extractor) extractLz4(content []byte) ([]Payload, error) {
	return x.streamPayload(lz4.NewReader(bytes.NewReader(content)))
}

func (x *Extractor) extractSnappy(content []byte) ([]Payload, error) {
	return x.streamPayload(snappy.NewReader(bytes.NewReader(content)))
}

func (x *Extractor) extractZip(content []byte) ([]Payload, error) {
	zr, err := zip.NewReader(bytes.NewReader(content), int64(len(content)))
	if err != nil {
		return nil, err
	}

	var payloads []Payload
	for _, f := range zr.File {
		if f.FileInfo().IsDir() {
			continue
		}
		rc, err := f.Open()
		if err != nil {
			// Encrypted or corrupt member; the rest may still open.
			continue
		}
		data, err := x.readLimited(rc)
		rc.Close()
		if err != nil || len(data) == 0 {
			continue
		}
		payloads = append(payloads, Payload{Content: data, Member: f.Name})
	}
	return payloads, nil
}

func (x *Extractor) extractSevenZip(content []byte) ([]Payload, error) {
	zr, err := sevenzip.NewReader(bytes.NewReader(content), int64(len(content)))
	if err != nil {
		return nil, err
	}

	var payloads []Payload
	for _, f := range zr.File {
		if f.FileInfo().IsDir() {
			continue
		}
		rc, err := f.Open()
		if err != nil {
			continue
		}
		data, err := x.readLimited(rc)
		rc.Close()
		if err != nil || len(data) == 0 {
			continue
		}
		payloads = append(payloads, Payload{Content: data, Member: f.Name})
	}
	return payloads, nil
}
