package pattern

// Compile flattens primitives, in declaration order, into an immutable
// Pattern. It never fails: any primitive combination, including the empty
// one, yields a valid pattern.
func Compile(prims ...Primitive) *Pattern {
	n := 0
	for _, p := range prims {
		n += len(p.tokens)
	}
	raw := make([]Token, 0, n)
	for _, p := range prims {
		raw = append(raw, p.tokens...)
	}
	return compile(raw)
}

// CompileTokens builds a Pattern directly from tokens, canonicalizing
// degenerate masks the same way NewToken does. The input slice is not
// retained.
func CompileTokens(tokens []Token) *Pattern {
	return compile(tokens)
}

func compile(raw []Token) *Pattern {
	tokens := make([]Token, 0, len(raw))
	cursor := 0
	declared := false
	for _, t := range raw {
		if t.Kind == KindCursor {
			// Repeated markers are allowed; the last one wins.
			cursor = len(tokens)
			declared = true
			continue
		}
		tokens = append(tokens, canonical(t))
	}

	p := &Pattern{
		tokens:    tokens,
		bytes:     make([]byte, len(tokens)),
		masks:     make([]byte, len(tokens)),
		cursor:    cursor,
		hasCursor: declared,
	}

	// Partition into maximal exact runs. Masked and wildcard tokens break
	// a run and never join a group.
	start := -1
	for i, t := range tokens {
		p.bytes[i] = t.Value
		p.masks[i] = t.Mask
		if t.Kind == KindExact {
			if start < 0 {
				start = i
			}
			continue
		}
		if start >= 0 {
			p.groups = append(p.groups, Group{Offset: start, Count: i - start})
			start = -1
		}
		if t.Kind == KindMasked {
			p.masked = append(p.masked, i)
		}
	}
	if start >= 0 {
		p.groups = append(p.groups, Group{Offset: start, Count: len(tokens) - start})
	}
	return p
}

// canonical rewrites a token into the form the constructors produce, so
// equal inputs always compile to byte-identical patterns.
func canonical(t Token) Token {
	switch t.Kind {
	case KindExact:
		return ExactToken(t.Value)
	case KindWildcard:
		return WildcardToken()
	case KindMasked:
		return NewToken(t.Value, t.Mask)
	}
	return t
}
