package once

import (
	"github.com/eaburns/peaopt/ir"
	"github.com/eaburns/peaopt/passrun"
)

// Pass is the Once Reduction pass: component E/F (recognize) feeds the
// interprocedural fixed-point driver (H), which repeatedly runs component
// G across every function, per §4.5-§4.8.
type Pass struct {
	mod *ir.Module
	rc  *passrun.Runner
}

// New returns an Once Reduction pass ready to Run. Unlike CFP, OR has no
// fatal configuration mode (§6): any module shape is accepted, and a
// module with no once-functions simply leaves Run a no-op.
func New(mod *ir.Module, rc *passrun.Runner, _ passrun.Options) (*Pass, error) {
	return &Pass{mod: mod, rc: rc}, nil
}

// Run executes the pass: recognize once-functions and validate their
// guards (E/F), then drive the intra-function optimizer (G) to a fixed
// point (H).
func (p *Pass) Run() error {
	onceFuncs, _, err := recognize(p.mod, p.rc)
	if err != nil {
		return err
	}
	return runFixpoint(p.mod, p.rc, onceFuncs)
}
