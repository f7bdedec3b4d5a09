package pattern

// Primitive is one building block of a signature. Primitives expand to
// tokens at compile time and are never retained afterwards; the factory
// functions below are the closed set of ways to obtain one.
type Primitive struct {
	tokens []Token
}

// Byte matches one exact byte.
func Byte(v byte) Primitive {
	return Primitive{tokens: []Token{ExactToken(v)}}
}

// Word matches a 16-bit value laid out little-endian.
func Word(v uint16) Primitive {
	return Primitive{tokens: []Token{
		ExactToken(byte(v)),
		ExactToken(byte(v >> 8)),
	}}
}

// Dword matches a 32-bit value laid out little-endian.
func Dword(v uint32) Primitive {
	return Primitive{tokens: []Token{
		ExactToken(byte(v)),
		ExactToken(byte(v >> 8)),
		ExactToken(byte(v >> 16)),
		ExactToken(byte(v >> 24)),
	}}
}

// Qword matches a 64-bit value laid out little-endian.
func Qword(v uint64) Primitive {
	tokens := make([]Token, 8)
	for i := range tokens {
		tokens[i] = ExactToken(byte(v >> (8 * i)))
	}
	return Primitive{tokens: tokens}
}

// String matches the raw bytes of s with no terminator.
func String(s string) Primitive {
	tokens := make([]Token, len(s))
	for i := 0; i < len(s); i++ {
		tokens[i] = ExactToken(s[i])
	}
	return Primitive{tokens: tokens}
}

// Any matches a run of n arbitrary bytes. A non-positive n expands to
// nothing.
func Any(n int) Primitive {
	if n < 0 {
		n = 0
	}
	tokens := make([]Token, n)
	for i := range tokens {
		tokens[i] = WildcardToken()
	}
	return Primitive{tokens: tokens}
}

// Masked matches one byte under a bit mask, canonicalized per NewToken.
func Masked(value, mask byte) Primitive {
	return Primitive{tokens: []Token{NewToken(value, mask)}}
}

// Cursor anchors the reported match offset at this position in the
// signature. It occupies no bytes.
func Cursor() Primitive {
	return Primitive{tokens: []Token{CursorToken()}}
}

// Repeat concatenates the expansion of prims and repeats it n times. A
// non-positive n expands to nothing.
func Repeat(n int, prims ...Primitive) Primitive {
	width := 0
	for _, p := range prims {
		width += len(p.tokens)
	}
	if n < 0 {
		n = 0
	}
	tokens := make([]Token, 0, n*width)
	for i := 0; i < n; i++ {
		for _, p := range prims {
			tokens = append(tokens, p.tokens...)
		}
	}
	return Primitive{tokens: tokens}
}
