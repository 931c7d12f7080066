// Package passrun provides the pass-runner context both core passes are
// invoked through: the options a host configures (§6), and the bounded,
// task-parallel per-function execution model §5 describes.
package passrun

import (
	"context"
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/eaburns/peaopt/ir"
)

// Options carries the pass-runner options a host may set. Only ShrinkLevel
// is defined by the core (§6): CFP consults it to decide whether the
// two-value select rewrite (§4.4 step 5) is worth its code-size cost.
type Options struct {
	ShrinkLevel int
}

// Runner owns the fixed thread pool §5 requires ("task-parallel
// per-function execution over a fixed thread pool supplied by the pass
// runner"). A Runner whose Workers is unset uses runtime.GOMAXPROCS(0)
// workers, read afresh on each ForEachFunc call; most callers should set
// Workers explicitly.
type Runner struct {
	Workers int
}

// ForEachFunc runs do once per function in mod.Funcs, fanned out across at
// most r.Workers goroutines at a time (runtime.GOMAXPROCS(0) if r.Workers is
// unset), and returns the first non-nil error any invocation of do returns.
// Module-level steps (the hierarchy propagator, map merges, fixed-point
// bookkeeping) must run after ForEachFunc returns, never concurrently with
// it — §5's "module-level steps... execute serially on a single thread."
func (r *Runner) ForEachFunc(mod *ir.Module, do func(*ir.FuncDef) error) error {
	g, _ := errgroup.WithContext(context.Background())
	workers := r.Workers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	g.SetLimit(workers)
	for _, f := range mod.Funcs {
		f := f
		g.Go(func() error {
			return do(f)
		})
	}
	return g.Wait()
}
