package matcher

import (
	"bytes"
	"testing"
)

func TestExtractExcerpt(t *testing.T) {
	content := []byte{0, 1, 2, 3, 4, 5, 6, 7, 8, 9}

	tests := []struct {
		name   string
		start  int
		end    int
		n      int
		before []byte
		after  []byte
	}{
		{
			name:   "interior window",
			start:  4,
			end:    6,
			n:      2,
			before: []byte{2, 3},
			after:  []byte{6, 7},
		},
		{
			name:   "clipped at the start",
			start:  1,
			end:    3,
			n:      4,
			before: []byte{0},
			after:  []byte{3, 4, 5, 6},
		},
		{
			name:   "clipped at the end",
			start:  7,
			end:    9,
			n:      4,
			before: []byte{3, 4, 5, 6},
			after:  []byte{9},
		},
		{
			name:  "window is the whole buffer",
			start: 0,
			end:   10,
			n:     3,
		},
		{
			name:  "zero context bytes",
			start: 4,
			end:   6,
			n:     0,
		},
		{
			name:  "negative start",
			start: -1,
			end:   3,
			n:     2,
		},
		{
			name:  "end past the buffer",
			start: 4,
			end:   11,
			n:     2,
		},
		{
			name:  "inverted window",
			start: 6,
			end:   4,
			n:     2,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			before, after := ExtractExcerpt(content, tt.start, tt.end, tt.n)
			if !bytes.Equal(before, tt.before) {
				t.Errorf("before = %v, want %v", before, tt.before)
			}
			if !bytes.Equal(after, tt.after) {
				t.Errorf("after = %v, want %v", after, tt.after)
			}
		})
	}
}

func TestExtractExcerptCopies(t *testing.T) {
	content := []byte{0, 1, 2, 3, 4, 5, 6, 7}

	before, after := ExtractExcerpt(content, 3, 5, 2)
	for i := range content {
		content[i] = 0xFF
	}

	if !bytes.Equal(before, []byte{1, 2}) {
		t.Errorf("before mutated with content: %v", before)
	}
	if !bytes.Equal(after, []byte{5, 6}) {
		t.Errorf("after mutated with content: %v", after)
	}
}
