package once

import (
	"github.com/eaburns/peaopt/ir"
	"github.com/eaburns/peaopt/passrun"
)

// runFixpoint implements the interprocedural driver (H) of §4.8: initialize
// onceGlobalsSetInFuncs from the once-function map, then run the
// intra-function optimizer (G) across every function in parallel,
// repeatedly, until the total size of onceGlobalsSetInFuncs stops growing.
// Monotonicity bounds the iteration count by |functions|*|guards|.
func runFixpoint(mod *ir.Module, r *passrun.Runner, onceFuncs map[*ir.FuncDef]*ir.GlobalDef) error {
	if len(onceFuncs) == 0 {
		return nil
	}

	guardGlobals := make(map[*ir.GlobalDef]bool, len(onceFuncs))
	for _, g := range onceFuncs {
		guardGlobals[g] = true
	}

	setInFuncs := make(map[*ir.FuncDef]guardSet, len(mod.Funcs))
	for _, f := range mod.Funcs {
		s := guardSet{}
		if g, ok := onceFuncs[f]; ok {
			s[g] = true
		}
		setInFuncs[f] = s
	}

	prevSize := totalSize(setInFuncs)
	for {
		next := make([]guardSet, len(mod.Funcs))
		funcIndex := make(map[*ir.FuncDef]int, len(mod.Funcs))
		for i, f := range mod.Funcs {
			funcIndex[f] = i
		}

		err := r.ForEachFunc(mod, func(f *ir.FuncDef) error {
			entrySet, _ := optimizeFunc(f, onceFuncs, guardGlobals, setInFuncs)
			next[funcIndex[f]] = entrySet
			return nil
		})
		if err != nil {
			return err
		}

		newSetInFuncs := make(map[*ir.FuncDef]guardSet, len(mod.Funcs))
		for i, f := range mod.Funcs {
			newSetInFuncs[f] = next[i]
		}
		setInFuncs = newSetInFuncs

		size := totalSize(setInFuncs)
		if size <= prevSize {
			break
		}
		prevSize = size
	}
	return nil
}

func totalSize(m map[*ir.FuncDef]guardSet) int {
	n := 0
	for _, s := range m {
		n += len(s)
	}
	return n
}
