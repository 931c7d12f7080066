package passrun

// Pass is the minimal shape the pass manager needs from any whole-program
// optimization pass: a single Run call, after construction, that mutates
// the module and returns nil or the first error a per-function task
// returned. Configuration errors (§7 category 1) are returned by the
// pass's constructor, before any Run, so a rejected module is never
// mutated.
//
// Both cfp.Pass and once.Pass satisfy this; a pass manager outside this
// module is free to hold a slice of Pass and call Run on each in turn.
type Pass interface {
	Run() error
}
