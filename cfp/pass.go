package cfp

import (
	"fmt"

	"github.com/eaburns/peaopt/ir"
	"github.com/eaburns/peaopt/passrun"
)

// Pass is the Constant Field Propagation pass: component B (scan) feeds
// component C (hierarchy propagation) feeds component D (rewrite), per §4.
type Pass struct {
	mod *ir.Module
	rc  *passrun.Runner
	opt passrun.Options
}

// New validates mod against CFP's category-1 configuration requirement
// (§7: CFP needs a nominal, single-inheritance type system to make sense
// of "supertype" and "subtype") and returns a Pass ready to Run. The check
// happens before any mutation, so a rejected module is left untouched.
func New(mod *ir.Module, rc *passrun.Runner, opt passrun.Options) (*Pass, error) {
	if !mod.Features.NominalTypes {
		return nil, fmt.Errorf("cfp: module does not use a nominal, single-inheritance type system")
	}
	return &Pass{mod: mod, rc: rc, opt: opt}, nil
}

// Run executes the pass: scan every function (B), propagate the resulting
// lattices along the subtype hierarchy (C), then rewrite field reads (D).
func (p *Pass) Run() error {
	newInfo, setInfo, err := scan(p.mod, p.rc)
	if err != nil {
		return err
	}
	propagateHierarchy(p.mod, newInfo, setInfo)
	return rewriteAll(p.mod, p.rc, newInfo, setInfo, p.opt.ShrinkLevel)
}
