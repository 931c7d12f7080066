package once

import (
	"sync/atomic"

	"github.com/eaburns/peaopt/ir"
)

// guardState tracks whether a global is still a plausible once-guard:
// onceGlobals[g] of §4. It starts true and may only be driven to false, so
// concurrent scanners across functions can demote it with a relaxed,
// lock-free store (§9: "Parallel scanners demote entries concurrently; use
// an atomic boolean with relaxed ordering since the only transition is
// true->false").
type guardState struct {
	ok atomic.Bool
}

func newGuardState() *guardState {
	g := &guardState{}
	g.ok.Store(true)
	return g
}

func (g *guardState) demote()       { g.ok.Store(false) }
func (g *guardState) isGuard() bool { return g.ok.Load() }

// guardSet is the "already-set" set of guard globals threaded through the
// intra-function optimizer (G) and the interprocedural driver (H).
type guardSet map[*ir.GlobalDef]bool

func (s guardSet) clone() guardSet {
	c := make(guardSet, len(s))
	for g := range s {
		c[g] = true
	}
	return c
}

func (s guardSet) union(o guardSet) {
	for g := range o {
		s[g] = true
	}
}
