// Package once implements Once Reduction: recognizing functions guarded by
// a monotonically-rising global flag so they execute at most once, and
// eliminating redundant calls to (and guard writes by) such functions along
// dominated control-flow paths, interprocedurally, to a fixed point.
package once

import (
	"github.com/eaburns/peaopt/ir"
	"github.com/eaburns/peaopt/passrun"
)

// recognize runs components E and F across every function in mod, fanned
// out over r's fixed thread pool: E tentatively identifies once-functions
// and their guard globals; F tallies every read and write of every global
// to invalidate any guard whose monotonicity is violated elsewhere in the
// program. Returns the surviving once-function map and every global's
// guard state.
func recognize(mod *ir.Module, r *passrun.Runner) (map[*ir.FuncDef]*ir.GlobalDef, map[*ir.GlobalDef]*guardState, error) {
	guards := make(map[*ir.GlobalDef]*guardState, len(mod.Globals))
	for _, g := range mod.Globals {
		guards[g] = newGuardState()
	}

	tentative := make([]*ir.GlobalDef, len(mod.Funcs))
	funcIndex := make(map[*ir.FuncDef]int, len(mod.Funcs))
	for i, f := range mod.Funcs {
		funcIndex[f] = i
	}

	err := r.ForEachFunc(mod, func(f *ir.FuncDef) error {
		guard, prologueRead := recognizeOnceFunc(f)
		tentative[funcIndex[f]] = guard
		scanGlobalUsage(f, prologueRead, guards)
		return nil
	})
	if err != nil {
		return nil, nil, err
	}

	onceFuncs := make(map[*ir.FuncDef]*ir.GlobalDef, len(mod.Funcs))
	for i, f := range mod.Funcs {
		if g := tentative[i]; g != nil {
			onceFuncs[f] = g
		}
	}
	// §4.6 closing step: demote any function whose recorded guard did not
	// survive the monotonicity check.
	for f, g := range onceFuncs {
		if !guards[g].isGuard() {
			delete(onceFuncs, f)
		}
	}
	return onceFuncs, guards, nil
}

// recognizeOnceFunc implements §4.5: f is a once function iff it has no
// parameters and no result, and its body is a block whose first two
// elements are exactly "if (get_global G) return;" followed by
// "set_global G = C" for the same G, with C a positive integer constant.
// Returns the guard global and the prologue's GlobalGet node (so the
// caller can exempt that one read from F's residual-read check), or
// (nil, nil) if f does not match.
func recognizeOnceFunc(f *ir.FuncDef) (*ir.GlobalDef, *ir.GlobalGet) {
	if !f.IsOnceShaped() {
		return nil, nil
	}
	block, ok := f.Body.(*ir.Block)
	if !ok || len(block.List) < 2 {
		return nil, nil
	}
	guardIf, ok := block.List[0].(*ir.If)
	if !ok || guardIf.Else != nil {
		return nil, nil
	}
	cond, ok := guardIf.Cond.(*ir.GlobalGet)
	if !ok {
		return nil, nil
	}
	ret, ok := guardIf.Then.(*ir.Return)
	if !ok || ret.Value != nil {
		return nil, nil
	}
	set, ok := block.List[1].(*ir.GlobalSet)
	if !ok || set.Global != cond.Global {
		return nil, nil
	}
	if ir.IsUnreachable(set.Value.Type()) {
		return nil, nil
	}
	if !isMonotonicWrite(set) {
		return nil, nil
	}
	return cond.Global, cond
}

// isMonotonicWrite reports whether a write to a guard global is consistent
// with monotonicity: a positive integer constant (§4.6: "A write of a
// non-constant value, or of a zero constant, or of a non-integer value,
// forces onceGlobals[g] = false").
func isMonotonicWrite(e *ir.GlobalSet) bool {
	c, ok := e.Value.(*ir.Const)
	if !ok {
		return false
	}
	return c.Lit.Kind == ir.IntLit && c.Lit.Int > 0
}

// scanGlobalUsage implements the tallying half of §4.6: every write that
// violates monotonicity, and every read other than prologueRead (f's
// recognized once-prologue read, exempt by the §4.6 "subtracted once"
// rule), demotes its global's guard state. Writes whose value has
// unreachable type are skipped entirely, per §9's "global writes of
// unreachable type are skipped".
func scanGlobalUsage(f *ir.FuncDef, prologueRead *ir.GlobalGet, guards map[*ir.GlobalDef]*guardState) {
	ir.WalkFunc(f, func(e ir.Expr) {
		switch e := e.(type) {
		case *ir.GlobalGet:
			if e == prologueRead {
				return
			}
			guards[e.Global].demote()
		case *ir.GlobalSet:
			if ir.IsUnreachable(e.Value.Type()) {
				return
			}
			if !isMonotonicWrite(e) {
				guards[e.Global].demote()
			}
		}
	})
}
