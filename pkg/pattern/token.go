package pattern

// Kind classifies one token of a signature.
type Kind uint8

const (
	// KindExact compares the data byte for equality.
	KindExact Kind = iota
	// KindWildcard accepts any data byte.
	KindWildcard
	// KindMasked compares the data byte after AND-ing it with a bit mask.
	KindMasked
	// KindCursor is a zero-width marker that anchors the reported offset.
	// It consumes no data.
	KindCursor
)

func (k Kind) String() string {
	switch k {
	case KindExact:
		return "exact"
	case KindWildcard:
		return "wildcard"
	case KindMasked:
		return "masked"
	case KindCursor:
		return "cursor"
	}
	return "unknown"
}

// Token is the smallest unit of a signature. Build tokens with the
// constructors below; hand-built values with a Kind that disagrees with
// the Mask are not canonical and compile less predictably.
type Token struct {
	Kind  Kind
	Value byte
	Mask  byte
}

// NewToken builds a token from a value and mask, canonicalizing the two
// degenerate masks: 0x00 accepts everything and becomes a wildcard, 0xFF
// compares every bit and becomes an exact byte.
func NewToken(value, mask byte) Token {
	switch mask {
	case 0x00:
		return Token{Kind: KindWildcard}
	case 0xFF:
		return Token{Kind: KindExact, Value: value, Mask: 0xFF}
	}
	return Token{Kind: KindMasked, Value: value, Mask: mask}
}

// ExactToken matches exactly the byte v.
func ExactToken(v byte) Token {
	return Token{Kind: KindExact, Value: v, Mask: 0xFF}
}

// WildcardToken matches any byte.
func WildcardToken() Token {
	return Token{Kind: KindWildcard}
}

// MaskedToken matches bytes whose masked bits equal value. It canonicalizes
// the same way NewToken does.
func MaskedToken(value, mask byte) Token {
	return NewToken(value, mask)
}

// CursorToken anchors the reported match offset at its position.
func CursorToken() Token {
	return Token{Kind: KindCursor}
}

// Matches reports whether a single data byte satisfies the token. Cursor
// tokens consume no data and always report false; scan loops skip them
// instead of calling Matches.
func (t Token) Matches(b byte) bool {
	switch t.Kind {
	case KindExact:
		return b == t.Value
	case KindWildcard:
		return true
	case KindMasked:
		return b&t.Mask == t.Value
	}
	return false
}

// Width returns how many data bytes the token occupies: 0 for a cursor,
// 1 for everything else.
func (t Token) Width() int {
	if t.Kind == KindCursor {
		return 0
	}
	return 1
}
