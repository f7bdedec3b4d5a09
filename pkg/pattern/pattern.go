package pattern

import "strings"

// Group is a maximal run of consecutive exact tokens. A scan compares the
// whole run against the candidate window in one block operation.
type Group struct {
	Offset int // token index where the run starts
	Count  int // number of exact bytes in the run
}

// Pattern is a compiled signature. It is immutable and safe to share
// across goroutines scanning different buffers concurrently.
type Pattern struct {
	tokens    []Token // non-cursor tokens in order
	bytes     []byte  // token values, indexed by token position
	masks     []byte  // token masks, parallel to bytes
	groups    []Group
	masked    []int // token positions needing a masked compare
	cursor    int
	hasCursor bool
}

// Size returns the number of buffer bytes a match occupies. Cursor markers
// are zero-width and do not count.
func (p *Pattern) Size() int { return len(p.tokens) }

// CursorOffset returns the distance from a matched window's start to the
// offset Find reports. It is zero unless the signature declares a cursor.
func (p *Pattern) CursorOffset() int { return p.cursor }

// HasCursor reports whether the signature declared a cursor marker.
func (p *Pattern) HasCursor() bool { return p.hasCursor }

// Tokens returns a copy of the compiled token sequence, cursor excluded.
func (p *Pattern) Tokens() []Token {
	return append([]Token(nil), p.tokens...)
}

// Groups returns a copy of the exact-run partition.
func (p *Pattern) Groups() []Group {
	return append([]Group(nil), p.groups...)
}

// String renders the signature in its textual form. The result parses back
// into an equal pattern.
func (p *Pattern) String() string {
	var b strings.Builder
	b.Grow(len(p.tokens)*3 + 2)
	for i, t := range p.tokens {
		if p.hasCursor && p.cursor == i {
			if b.Len() > 0 {
				b.WriteByte(' ')
			}
			b.WriteByte('^')
		}
		if b.Len() > 0 {
			b.WriteByte(' ')
		}
		writeToken(&b, t)
	}
	if p.hasCursor && p.cursor == len(p.tokens) {
		if b.Len() > 0 {
			b.WriteByte(' ')
		}
		b.WriteByte('^')
	}
	return b.String()
}
