package pattern

import "fmt"

// SyntaxError reports malformed signature text.
type SyntaxError struct {
	Offset int // byte offset into the input
	Msg    string
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("pattern: offset %d: %s", e.Offset, e.Msg)
}

// Parse compiles signature text into a Pattern. Errors are of type
// *SyntaxError.
func Parse(text string) (*Pattern, error) {
	tokens, err := Tokenize(text)
	if err != nil {
		return nil, err
	}
	return compile(tokens), nil
}

// MustParse is Parse for signature text known at build time; it panics on
// a syntax error.
func MustParse(text string) *Pattern {
	p, err := Parse(text)
	if err != nil {
		panic(err)
	}
	return p
}

// Tokenize converts signature text to tokens. The vocabulary is two-digit
// hex pairs ("8B"), masked pairs ("E8&F0"), "?" for a wildcard byte and
// "^" for the cursor. Hex digits are case-insensitive. Whitespace only
// separates tokens and is never required: "558BEC" and "55 8B EC"
// tokenize identically.
func Tokenize(text string) ([]Token, error) {
	tokens := make([]Token, 0, len(text)/3+1)
	for i := 0; i < len(text); {
		c := text[i]
		switch {
		case c == ' ' || c == '\t' || c == '\n' || c == '\r':
			i++
		case c == '?':
			tokens = append(tokens, WildcardToken())
			i++
		case c == '^':
			tokens = append(tokens, CursorToken())
			i++
		case isHex(c):
			tok, n, err := scanHexToken(text, i)
			if err != nil {
				return nil, err
			}
			tokens = append(tokens, tok)
			i += n
		default:
			return nil, &SyntaxError{Offset: i, Msg: fmt.Sprintf("unexpected character %q", c)}
		}
	}
	return tokens, nil
}

// scanHexToken consumes an exact byte ("8B") or, when an '&' suffix
// follows, a masked byte ("E8&F0") starting at text[start].
func scanHexToken(text string, start int) (Token, int, error) {
	if start+2 > len(text) || !isHex(text[start+1]) {
		return Token{}, 0, &SyntaxError{Offset: start, Msg: "hex byte needs two digits"}
	}
	value := hexVal(text[start])<<4 | hexVal(text[start+1])
	if start+2 >= len(text) || text[start+2] != '&' {
		return ExactToken(value), 2, nil
	}
	if start+5 > len(text) || !isHex(text[start+3]) || !isHex(text[start+4]) {
		return Token{}, 0, &SyntaxError{Offset: start + 2, Msg: "mask needs two hex digits"}
	}
	mask := hexVal(text[start+3])<<4 | hexVal(text[start+4])
	return NewToken(value, mask), 5, nil
}

func isHex(c byte) bool {
	return c >= '0' && c <= '9' || c >= 'a' && c <= 'f' || c >= 'A' && c <= 'F'
}

// hexVal assumes isHex(c) already passed.
func hexVal(c byte) byte {
	switch {
	case c <= '9':
		return c - '0'
	case c >= 'a':
		return c - 'a' + 10
	}
	return c - 'A' + 10
}
