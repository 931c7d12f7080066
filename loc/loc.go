// Package loc has routines for tracking IR source locations.
package loc

// Loc compactly identifies a byte range in the host's original source text.
// The zero value indicates no location: the host may hand us IR nodes
// synthesized with no corresponding source (for example, an already-inlined
// call), and the passes must not assume Loc is ever populated.
type Loc [2]int

// Locer is implemented by anything with a Loc, for diagnostics.
type Locer interface {
	Loc() Loc
}
