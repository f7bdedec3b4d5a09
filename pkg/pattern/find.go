package pattern

import (
	"bytes"
	"errors"
)

// NotFound is returned when no window of the data matches.
const NotFound = -1

// ErrBadStep rejects a scan stride below 1.
var ErrBadStep = errors.New("pattern: step must be at least 1")

// Find returns the offset of the first match in data, adjusted by the
// cursor offset, or NotFound. Every byte offset is tried in ascending
// order, so the lowest matching window wins. Find never allocates.
func (p *Pattern) Find(data []byte) int {
	return p.scan(data, 1)
}

// FindStep is Find with a stride: candidate windows start at offsets
// 0, step, 2*step and so on. A match at an offset the stride skips is
// not found; step trades completeness for speed.
func (p *Pattern) FindStep(data []byte, step int) (int, error) {
	if step < 1 {
		return NotFound, ErrBadStep
	}
	return p.scan(data, step), nil
}

// FindAll returns every match offset in ascending order, cursor-adjusted.
// Overlapping matches are all reported. A max below 1 removes the limit.
func (p *Pattern) FindAll(data []byte, max int) []int {
	offsets, _ := p.FindAllStep(data, 1, max)
	return offsets
}

// FindAllStep is FindAll with a stride.
func (p *Pattern) FindAllStep(data []byte, step, max int) ([]int, error) {
	if step < 1 {
		return nil, ErrBadStep
	}
	if len(p.tokens) > len(data) {
		return nil, nil
	}
	var offsets []int
	limit := len(data) - len(p.tokens)
	for i := 0; i <= limit; i += step {
		if !p.matchAt(data, i) {
			continue
		}
		offsets = append(offsets, i+p.cursor)
		if max > 0 && len(offsets) == max {
			break
		}
	}
	return offsets, nil
}

func (p *Pattern) scan(data []byte, step int) int {
	// The guard keeps the loop bound from going negative when the
	// signature is longer than the buffer.
	if len(p.tokens) > len(data) {
		return NotFound
	}
	limit := len(data) - len(p.tokens)
	for i := 0; i <= limit; i += step {
		if p.matchAt(data, i) {
			return i + p.cursor
		}
	}
	return NotFound
}

// matchAt checks the window starting at i: exact runs first, each as one
// block compare, then the masked positions. Wildcards need no check.
func (p *Pattern) matchAt(data []byte, i int) bool {
	for _, g := range p.groups {
		if !bytes.Equal(data[i+g.Offset:i+g.Offset+g.Count], p.bytes[g.Offset:g.Offset+g.Count]) {
			return false
		}
	}
	for _, j := range p.masked {
		if data[i+j]&p.masks[j] != p.bytes[j] {
			return false
		}
	}
	return true
}

// FindTokens matches a raw token sequence against data without compiling
// first, for signatures assembled at run time. The result is identical to
// CompileTokens(tokens).Find(data).
func FindTokens(data []byte, tokens []Token) int {
	return findTokens(data, tokens, 1)
}

// FindTokensStep is FindTokens with a stride.
func FindTokensStep(data []byte, tokens []Token, step int) (int, error) {
	if step < 1 {
		return NotFound, ErrBadStep
	}
	return findTokens(data, tokens, step), nil
}

func findTokens(data []byte, tokens []Token, step int) int {
	size := 0
	cursor := 0
	for _, t := range tokens {
		if t.Kind == KindCursor {
			cursor = size
			continue
		}
		size++
	}
	if size > len(data) {
		return NotFound
	}
	limit := len(data) - size
	for i := 0; i <= limit; i += step {
		if tokensMatchAt(data, i, tokens) {
			return i + cursor
		}
	}
	return NotFound
}

func tokensMatchAt(data []byte, i int, tokens []Token) bool {
	j := 0
	for _, t := range tokens {
		switch t.Kind {
		case KindCursor:
			continue
		case KindExact:
			if data[i+j] != t.Value {
				return false
			}
		case KindMasked:
			if data[i+j]&t.Mask != t.Value {
				return false
			}
		}
		// Wildcards impose no constraint.
		j++
	}
	return true
}
