package types

// OffsetSpan is the byte range [Start, End) a matched window covers.
type OffsetSpan struct {
	Start int64
	End   int64
}

// Length returns the number of bytes in the span.
func (s OffsetSpan) Length() int64 {
	return s.End - s.Start
}

// Contains reports whether off falls inside the span.
func (s OffsetSpan) Contains(off int64) bool {
	return off >= s.Start && off < s.End
}

// Location pins a match inside a blob. Offset is the window the signature
// covered; Anchor is the offset the signature reported, which a cursor
// may place anywhere from the window start up to and including its end.
type Location struct {
	Offset OffsetSpan
	Anchor int64
}
