package cfp

import "github.com/eaburns/peaopt/ir"

// propagateHierarchy lifts newInfo and setInfo along the declared subtype
// hierarchy, in place, per §4.3:
//
//   - newInfo (allocations) propagates upward only: a read typed U can
//     observe an allocation of any subtype T <: U, so U's lattice must
//     absorb every such T's lattice.
//   - setInfo (writes) propagates in both directions: a write statically
//     typed T may land on any subtype V of T, and a write statically typed
//     a supertype U of T may also land on a T, so T and U must each see
//     the other's lattice.
//
// Implemented as the worklist-of-changed-types dataflow §9 recommends,
// rather than repeatedly re-walking the whole hierarchy to a fixed point.
func propagateHierarchy(mod *ir.Module, newInfo, setInfo fieldMap) {
	propagateUpOnly(mod, newInfo)
	propagateBothWays(mod, setInfo)
}

// propagateUpOnly pushes each type's lattice into its immediate supertype
// until no supertype changes, so it ends up holding the join over every
// subtype's observations, transitively.
func propagateUpOnly(mod *ir.Module, m fieldMap) {
	worklist, onWorklist := initWorklist(mod.Types)
	for len(worklist) > 0 {
		t := worklist[len(worklist)-1]
		worklist = worklist[:len(worklist)-1]
		onWorklist[t] = false

		super := t.Super
		if super == nil {
			continue
		}
		n := min(len(t.Fields), len(super.Fields))
		changed := false
		for i := 0; i < n; i++ {
			if m.at(super, i).Join(m.at(t, i)) {
				changed = true
			}
		}
		if changed && !onWorklist[super] {
			worklist = append(worklist, super)
			onWorklist[super] = true
		}
	}
}

// propagateBothWays pushes each type's lattice both to its immediate
// supertype and to its direct subtypes, to a fixed point.
func propagateBothWays(mod *ir.Module, m fieldMap) {
	worklist, onWorklist := initWorklist(mod.Types)
	push := func(t *ir.StructType) {
		if t != nil && !onWorklist[t] {
			worklist = append(worklist, t)
			onWorklist[t] = true
		}
	}
	for len(worklist) > 0 {
		t := worklist[len(worklist)-1]
		worklist = worklist[:len(worklist)-1]
		onWorklist[t] = false

		if super := t.Super; super != nil {
			n := min(len(t.Fields), len(super.Fields))
			for i := 0; i < n; i++ {
				if m.at(t, i).Join(m.at(super, i)) {
					push(t)
				}
				if m.at(super, i).Join(m.at(t, i)) {
					push(super)
				}
			}
		}
		for _, sub := range t.DirectSubtypes() {
			n := min(len(t.Fields), len(sub.Fields))
			for i := 0; i < n; i++ {
				if m.at(sub, i).Join(m.at(t, i)) {
					push(sub)
				}
			}
		}
	}
}

func initWorklist(types []*ir.StructType) ([]*ir.StructType, map[*ir.StructType]bool) {
	worklist := append([]*ir.StructType{}, types...)
	onWorklist := make(map[*ir.StructType]bool, len(types))
	for _, t := range types {
		onWorklist[t] = true
	}
	return worklist, onWorklist
}

func min(a, b int) int {
	if a < b {
		return a
	}
	return b
}
