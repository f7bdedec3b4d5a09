package matcher

// ExtractExcerpt captures up to n bytes on each side of a match window.
// Returns before, after byte slices that are independent copies (not
// sub-slices of content), so storing them will not pin the scanned
// buffer in memory. Windows at the buffer edges shrink instead of
// failing.
func ExtractExcerpt(content []byte, start, end, n int) (before, after []byte) {
	if n <= 0 {
		return nil, nil
	}
	if start < 0 || start > end || end > len(content) {
		return nil, nil
	}

	from := start - n
	if from < 0 {
		from = 0
	}
	to := end + n
	if to > len(content) {
		to = len(content)
	}

	if from < start {
		before = append([]byte{}, content[from:start]...)
	}
	if end < to {
		after = append([]byte{}, content[end:to]...)
	}

	return before, after
}
