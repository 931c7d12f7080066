package once

import (
	"fmt"

	"github.com/eaburns/peaopt/ir"
)

// optimizeFunc implements the intra-function once-optimizer (G) of §4.7
// for a single function, given the surviving once-function map and the
// previous iteration's onceGlobalsSetInFuncs (read-only: this call
// contributes only to this function's own result). Returns the entry
// block's resulting guard set, per §4.7 step 5, and whether any rewrite
// happened.
func optimizeFunc(
	f *ir.FuncDef,
	onceFuncs map[*ir.FuncDef]*ir.GlobalDef,
	guardGlobals map[*ir.GlobalDef]bool,
	prevSet map[*ir.FuncDef]guardSet,
) (entrySet guardSet, changed bool) {
	cfg := ir.BuildCFG(f)
	dom := ir.BuildDominators(cfg)

	sets := make(map[*ir.BasicBlock]guardSet, len(dom.RPO))
	for _, b := range dom.RPO {
		var alreadySet guardSet
		if idom := dom.IDom(b); idom != nil {
			alreadySet = sets[idom].clone()
		} else {
			alreadySet = guardSet{} // entry block starts empty (§4.7 step 3)
		}

		for _, ep := range b.Contents {
			switch e := (*ep).(type) {
			case *ir.GlobalSet:
				if !guardGlobals[e.Global] {
					continue
				}
				if alreadySet[e.Global] {
					*ep = ir.NoOp(e.Loc())
					changed = true
				} else {
					alreadySet[e.Global] = true
				}

			case *ir.Call:
				g, isOnce := onceFuncs[e.Target]
				switch {
				case isOnce && alreadySet[g]:
					*ep = ir.NoOp(e.Loc())
					changed = true
				case isOnce:
					alreadySet[g] = true
				default:
					alreadySet.union(prevSet[e.Target])
				}

			default:
				// §7 category 2: BuildCFG records only Call and GlobalSet
				// in block contents; anything else here is a host
				// well-formedness violation, not something to skip.
				panic(fmt.Sprintf("once: impossible expression kind %T in block contents", e))
			}
		}
		sets[b] = alreadySet
	}

	if changed {
		ir.Refinalize(f)
	}
	return sets[cfg.Entry], changed
}
