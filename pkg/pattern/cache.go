package pattern

import "sync"

// Cache memoizes Parse results by signature text, so hot paths that
// receive the same textual signatures repeatedly compile each one once.
// The zero value is ready to use and safe for concurrent access.
type Cache struct {
	patterns sync.Map // text -> *Pattern
}

// Parse returns the compiled form of text, compiling on first use.
// Failures are not cached.
func (c *Cache) Parse(text string) (*Pattern, error) {
	if v, ok := c.patterns.Load(text); ok {
		return v.(*Pattern), nil
	}
	p, err := Parse(text)
	if err != nil {
		return nil, err
	}
	v, _ := c.patterns.LoadOrStore(text, p)
	return v.(*Pattern), nil
}

// Len reports how many compiled patterns the cache holds.
func (c *Cache) Len() int {
	n := 0
	c.patterns.Range(func(_, _ any) bool {
		n++
		return true
	})
	return n
}
