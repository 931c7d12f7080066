package cfp

import (
	"github.com/eaburns/peaopt/ir"
	"github.com/eaburns/peaopt/passrun"
)

// rewriteAll runs the field-get rewriter of component D across every
// function in mod, fanned out over r's fixed thread pool. Optimizer D only
// reads the shared, post-propagation lattice maps (§5); it never mutates
// newInfo or setInfo.
func rewriteAll(mod *ir.Module, r *passrun.Runner, newInfo, setInfo fieldMap, shrinkLevel int) error {
	return r.ForEachFunc(mod, func(f *ir.FuncDef) error {
		changed := rewriteFunc(f, newInfo, setInfo, shrinkLevel)
		if changed {
			ir.Refinalize(f)
		}
		return nil
	})
}

// rewriteFunc applies §4.4 to every StructGet in f's body, in place, via
// ir.Replace (post-order, so a rewrite is final once the parent is
// visited).
func rewriteFunc(f *ir.FuncDef, newInfo, setInfo fieldMap, shrinkLevel int) (changed bool) {
	f.Body = ir.Replace(f.Body, func(e ir.Expr) ir.Expr {
		get, ok := e.(*ir.StructGet)
		if !ok {
			return nil
		}
		r := rewriteGet(get, newInfo, setInfo, shrinkLevel)
		if r != nil {
			changed = true
		}
		return r
	})
	return changed
}

// rewriteGet implements §4.4 steps 1-7 for a single StructGet. Returns nil
// when no rewrite applies.
func rewriteGet(get *ir.StructGet, newInfo, setInfo fieldMap, shrinkLevel int) ir.Expr {
	combined := combine(newInfo, setInfo, get.StructT, get.Index)

	switch {
	case combined.IsUnwritten():
		// Step 2: unreachable code - ref is never backed by an allocation
		// or write that could have populated this slot.
		return &ir.Sequence{
			A: &ir.Drop{Value: get.Ref, L: get.L},
			B: &ir.UnreachableExpr{L: get.L},
			L: get.L,
		}

	case combined.IsUnknown():
		// Step 3: no rewrite.
		return nil

	default: // Constant(S)
		values := combined.Values()
		switch len(values) {
		case 1:
			// Step 4: evaluate ref, trap if null, discard, yield v.
			return &ir.Sequence{
				A: &ir.Drop{
					Value: &ir.RefAsNonNull{Ref: get.Ref, L: get.L},
					L:     get.L,
				},
				B: &ir.Const{Lit: values[0], L: get.L},
				L: get.L,
			}
		case 2:
			if shrinkLevel > 0 {
				// §6: shrinkLevel > 0 suppresses the select rewrite.
				return nil
			}
			if isRefType(get.Type()) {
				// Step 6: equality on reference types may be undecidable.
				return nil
			}
			return &ir.Select{
				Cond: &ir.Binary{
					Op: ir.Eq,
					A:  get,
					B:  &ir.Const{Lit: values[0], L: get.L},
					L:  get.L,
				},
				A:  &ir.Const{Lit: values[0], L: get.L},
				B:  &ir.Const{Lit: values[1], L: get.L},
				L:  get.L,
			}
		default:
			// Step 7: lattices of size >= 3 are not rewritten. The cap K=2
			// lattice (cfp/lattice.go) never actually reaches this size;
			// this case exists for clarity, not because it is reachable.
			return nil
		}
	}
}

// combine returns the join of newInfo and setInfo at (t, i), the
// "new-info[T][i] ⊔ set-info[T][i]" of §4.4 step 1, without mutating
// either map.
func combine(newInfo, setInfo fieldMap, t *ir.StructType, i int) *PossibleConstants {
	c := &PossibleConstants{}
	c.Join(newInfo.at(t, i))
	c.Join(setInfo.at(t, i))
	return c
}

func isRefType(t ir.Type) bool {
	_, ok := t.(*ir.RefType)
	return ok
}
