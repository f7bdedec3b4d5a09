package types

import "fmt"

// FormatOffset renders a byte offset the way reports print them.
func FormatOffset(off int64) string {
	return fmt.Sprintf("0x%08X", off)
}

// PrintableASCII projects data onto printable ASCII, replacing everything
// else with a dot, like the right-hand column of a hex dump.
func PrintableASCII(data []byte) string {
	out := make([]byte, len(data))
	for i, b := range data {
		if b >= 0x20 && b <= 0x7E {
			out[i] = b
		} else {
			out[i] = '.'
		}
	}
	return string(out)
}
