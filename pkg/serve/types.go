package serve

import (
	"encoding/json"

	"github.com/sigil-dev/sigil/pkg/scanner"
)

// Request is one incoming JSON-lines request. Content fields inside
// payloads are []byte, which encoding/json carries as base64, so binary
// blobs survive the text protocol untouched.
type Request struct {
	Type    string          `json:"type"` // "scan" | "scan_batch" | "find" | "ping" | "shutdown"
	ID      string          `json:"id,omitempty"`
	Payload json.RawMessage `json:"payload"`
}

// ScanPayload is the payload for "scan" requests.
type ScanPayload struct {
	Content []byte `json:"content"`
	Source  string `json:"source"`
}

// ScanBatchPayload is the payload for "scan_batch" requests.
type ScanBatchPayload struct {
	Items []scanner.ContentItem `json:"items"`
}

// FindPayload is the payload for "find" requests: locate one textual
// pattern in one buffer.
type FindPayload struct {
	Pattern string `json:"pattern"`
	Content []byte `json:"content"`
	Step    int    `json:"step,omitempty"`
}

// Response is one outgoing JSON-lines response. ID echoes the request.
type Response struct {
	ID      string          `json:"id,omitempty"`
	Success bool            `json:"success"`
	Type    string          `json:"type"` // "ready" | "scan" | "scan_batch" | "find" | "pong" | error source
	Data    json.RawMessage `json:"data,omitempty"`
	Error   string          `json:"error,omitempty"`
}

// ReadyData is the data field for the "ready" greeting.
type ReadyData struct {
	Version string `json:"version"`
}

// FindData is the data field for "find" responses.
type FindData struct {
	Offset int  `json:"offset"`
	Found  bool `json:"found"`
}
