package types

// Excerpt carries the raw bytes around a match for display.
type Excerpt struct {
	Before   []byte // bytes preceding the window
	Matching []byte // the bytes the window covered
	After    []byte // bytes following the window
}
