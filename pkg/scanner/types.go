package scanner

import "github.com/sigil-dev/sigil/pkg/types"

// ContentItem is one blob to scan with a display name for reports.
type ContentItem struct {
	Source  string `json:"source"`
	Content []byte `json:"content"`
}

// ScanResult holds the outcome of scanning one blob. Payloads carries
// the results for blobs recovered from inside this one.
type ScanResult struct {
	Source   string         `json:"source"`
	BlobID   types.BlobID   `json:"blob_id"`
	Skipped  bool           `json:"skipped,omitempty"`
	Matches  []*types.Match `json:"matches"`
	Payloads []*ScanResult  `json:"payloads,omitempty"`
}

// TotalMatches counts matches in this result and all nested payloads.
func (r *ScanResult) TotalMatches() int {
	total := len(r.Matches)
	for _, p := range r.Payloads {
		total += p.TotalMatches()
	}
	return total
}

// BatchScanResult aggregates results for a batch of items.
type BatchScanResult struct {
	Results []*ScanResult `json:"results"`
	Total   int           `json:"total"`
}

// DebugLogger receives diagnostic output from the scanner. The library
// is silent by default.
type DebugLogger interface {
	Log(format string, args ...interface{})
}

// NoopLogger discards all output.
type NoopLogger struct{}

func (NoopLogger) Log(format string, args ...interface{}) {}
