package signature

import "embed"

// builtinFS embeds the built-in signature and signature set directories:
// file format magics, code idioms, and cryptographic constants.
//
//go:embed builtin/*.yml sets/*.yml
var builtinFS embed.FS
