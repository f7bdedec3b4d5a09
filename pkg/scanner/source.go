// Package scanner turns sources of bytes into stored scan results. An
// Enumerator discovers blobs (today: filesystem trees), Core runs each
// blob through the matching engine and persists what it finds, and the
// payload extractor recurses into compressed or archived blobs so
// nested content is scanned too.
package scanner

import (
	"context"

	"github.com/sigil-dev/sigil/pkg/types"
)

// Enumerator discovers content to scan from a source.
type Enumerator interface {
	// Enumerate yields blobs from the source. The callback receives the
	// blob content, its ID, and where it came from.
	Enumerate(ctx context.Context, callback func(content []byte, blobID types.BlobID, prov types.Provenance) error) error
}

// SourceConfig controls enumeration.
type SourceConfig struct {
	// Root is the starting path.
	Root string

	// IncludeHidden includes dotfiles and dot-directories.
	IncludeHidden bool

	// MaxFileSize skips files larger than this many bytes (0 = no limit).
	MaxFileSize int64

	// FollowSymlinks reads through symbolic links instead of skipping them.
	FollowSymlinks bool
}
