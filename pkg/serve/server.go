// Package serve runs a streaming scan server over a JSON-lines
// protocol, one request or response per line. It exists so other
// processes can hold one warm engine (compiled signatures, prefilter)
// across many small scans instead of paying startup cost per buffer.
package serve

import (
	"bufio"
	"context"
	"encoding/json"
	"io"

	"github.com/sigil-dev/sigil/pkg/pattern"
	"github.com/sigil-dev/sigil/pkg/scanner"
	"github.com/sigil-dev/sigil/pkg/types"
)

// Version is the server protocol version.
const Version = "1.0.0"

// Server answers scan and find requests over a stream.
type Server struct {
	core    *scanner.Core
	cache   *pattern.Cache
	encoder *json.Encoder
	decoder *json.Decoder
}

// NewServer creates a server reading requests from in and writing
// responses to out. Textual patterns from "find" requests are compiled
// through a per-server cache, so clients repeating a pattern pay for
// parsing once.
func NewServer(core *scanner.Core, in io.Reader, out io.Writer) *Server {
	return &Server{
		core:    core,
		cache:   &pattern.Cache{},
		encoder: json.NewEncoder(out),
		decoder: json.NewDecoder(bufio.NewReader(in)),
	}
}

// Run serves requests until the input closes, a shutdown request
// arrives, or the context is cancelled.
func (s *Server) Run(ctx context.Context) error {
	s.sendReady()

	reqChan := make(chan Request, 1)
	errChan := make(chan error, 1)

	go func() {
		for {
			var req Request
			if err := s.decoder.Decode(&req); err != nil {
				errChan <- err
				return
			}
			select {
			case reqChan <- req:
			case <-ctx.Done():
				return
			}
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case err := <-errChan:
			// Requests decoded before EOF may still be queued; answer
			// them before exiting.
			for {
				select {
				case req := <-reqChan:
					if s.processRequest(req) {
						return nil
					}
				default:
					if err == io.EOF {
						return nil
					}
					s.sendError("", "decode", err.Error())
					return nil
				}
			}
		case req := <-reqChan:
			if s.processRequest(req) {
				return nil
			}
		}
	}
}

// processRequest handles one request and reports whether the server
// should exit.
func (s *Server) processRequest(req Request) bool {
	switch req.Type {
	case "scan":
		s.handleScan(req.ID, req.Payload)
	case "scan_batch":
		s.handleScanBatch(req.ID, req.Payload)
	case "find":
		s.handleFind(req.ID, req.Payload)
	case "ping":
		s.send(req.ID, "pong", nil)
	case "shutdown":
		return true
	default:
		s.sendError(req.ID, "unknown", "unknown request type: "+req.Type)
	}
	return false
}

func (s *Server) handleScan(id string, payload json.RawMessage) {
	var p ScanPayload
	if err := json.Unmarshal(payload, &p); err != nil {
		s.sendError(id, "scan", err.Error())
		return
	}

	source := p.Source
	if source == "" {
		source = "stream"
	}

	result, err := s.core.Scan(p.Content, types.StreamProvenance{Name: source})
	if err != nil {
		s.sendError(id, "scan", err.Error())
		return
	}

	s.send(id, "scan", result)
}

func (s *Server) handleScanBatch(id string, payload json.RawMessage) {
	var p ScanBatchPayload
	if err := json.Unmarshal(payload, &p); err != nil {
		s.sendError(id, "scan_batch", err.Error())
		return
	}

	result, err := s.core.ScanBatch(p.Items)
	if err != nil {
		s.sendError(id, "scan_batch", err.Error())
		return
	}

	s.send(id, "scan_batch", result)
}

func (s *Server) handleFind(id string, payload json.RawMessage) {
	var p FindPayload
	if err := json.Unmarshal(payload, &p); err != nil {
		s.sendError(id, "find", err.Error())
		return
	}

	pat, err := s.cache.Parse(p.Pattern)
	if err != nil {
		s.sendError(id, "find", err.Error())
		return
	}

	step := p.Step
	if step <= 0 {
		step = 1
	}

	offset, err := pat.FindStep(p.Content, step)
	if err != nil {
		s.sendError(id, "find", err.Error())
		return
	}

	s.send(id, "find", FindData{Offset: offset, Found: offset != pattern.NotFound})
}

func (s *Server) sendReady() {
	s.send("", "ready", ReadyData{Version: Version})
}

func (s *Server) send(id, respType string, v any) {
	resp := Response{ID: id, Success: true, Type: respType}
	if v != nil {
		data, err := json.Marshal(v)
		if err != nil {
			s.sendError(id, respType, err.Error())
			return
		}
		resp.Data = data
	}
	s.encoder.Encode(resp)
}

func (s *Server) sendError(id, reqType, msg string) {
	s.encoder.Encode(Response{ID: id, Success: false, Type: reqType, Error: msg})
}
