// Package pattern compiles and matches byte signatures.
//
// A signature describes a short byte sequence to locate inside a larger
// buffer. Each position either pins an exact byte, accepts any byte, or
// compares the byte under a bit mask. A zero-width cursor marker may sit
// between positions to move the reported offset away from the window
// start, so a signature over a call instruction can report the operand
// rather than the opcode.
//
// Signatures come from two sources. Primitives compose in code:
//
//	p := pattern.Compile(pattern.Byte(0xE8), pattern.Cursor(), pattern.Any(4))
//
// and signature text parses at run time:
//
//	p, err := pattern.Parse("E8 ^ ? ? ? ?")
//
// Both yield the same immutable Pattern, which scans with Find:
//
//	off := p.Find(data) // window start plus cursor offset, or NotFound
//
// Compilation splits the signature into runs of consecutive exact bytes,
// so a scan compares each run as one block and never touches wildcard
// positions.
package pattern
