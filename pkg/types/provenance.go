package types

import "fmt"

// Provenance records where a scanned blob came from.
type Provenance interface {
	Kind() string
	// Path returns a displayable origin path when one exists.
	Path() string
}

// FileProvenance marks a blob read straight from the filesystem.
type FileProvenance struct {
	FilePath string
}

// Kind returns "file".
func (f FileProvenance) Kind() string {
	return "file"
}

// Path returns the file path.
func (f FileProvenance) Path() string {
	return f.FilePath
}

// PayloadProvenance marks a blob recovered from inside another blob: a
// decompressed stream or an archive member.
type PayloadProvenance struct {
	ContainerPath string // displayable path of the enclosing blob
	Codec         string // e.g., "gzip", "zstd", "zip"
	MemberPath    string // member name inside an archive, empty for bare streams
	Depth         int    // nesting level, 1 for a payload of a top-level blob
}

// Kind returns "payload".
func (p PayloadProvenance) Kind() string {
	return "payload"
}

// Path renders the container path with the codec and member appended.
func (p PayloadProvenance) Path() string {
	if p.MemberPath == "" {
		return fmt.Sprintf("%s!%s", p.ContainerPath, p.Codec)
	}
	return fmt.Sprintf("%s!%s/%s", p.ContainerPath, p.Codec, p.MemberPath)
}

// StreamProvenance marks a blob read from a stream with no backing file,
// such as standard input or a scan request over the wire.
type StreamProvenance struct {
	Name string // e.g., "stdin" or a client-supplied label
}

// Kind returns "stream".
func (s StreamProvenance) Kind() string {
	return "stream"
}

// Path returns the stream name.
func (s StreamProvenance) Path() string {
	return s.Name
}
