package pattern

import "strings"

const hexUpper = "0123456789ABCDEF"

// String renders the token in signature text form.
func (t Token) String() string {
	var b strings.Builder
	writeToken(&b, t)
	return b.String()
}

// Format renders a token sequence as signature text with one space
// between tokens. Tokenize(Format(tokens)) yields the sequence back.
func Format(tokens []Token) string {
	var b strings.Builder
	b.Grow(len(tokens) * 3)
	for i, t := range tokens {
		if i > 0 {
			b.WriteByte(' ')
		}
		writeToken(&b, t)
	}
	return b.String()
}

func writeToken(b *strings.Builder, t Token) {
	switch t.Kind {
	case KindWildcard:
		b.WriteByte('?')
	case KindCursor:
		b.WriteByte('^')
	case KindMasked:
		writeHex(b, t.Value)
		b.WriteByte('&')
		writeHex(b, t.Mask)
	default:
		writeHex(b, t.Value)
	}
}

func writeHex(b *strings.Builder, v byte) {
	b.WriteByte(hexUpper[v>>4])
	b.WriteByte(hexUpper[v&0x0F])
}
