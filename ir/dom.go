package ir

// Dominators is a function's dominator tree, computed over its CFG. Only
// immediate dominators are retained (§9: "the reference implementation
// performs reverse-postorder dataflow using iDoms only, which is adequate
// because the propagated fact... is already monotone along dominance").
//
// Computed with the iterative reverse-postorder algorithm of Cooper,
// Harvey & Kennedy, "A Simple, Fast Dominance Algorithm" — simpler than
// the full Lengauer-Tarjan construction in
// other_examples/adonovan-spaghetti__dom.go, and sufficient per §9's own
// recommendation.
type Dominators struct {
	RPO  []*BasicBlock // reachable blocks, entry first
	idom map[*BasicBlock]*BasicBlock
	rpoNum map[*BasicBlock]int
}

// IDom returns b's immediate dominator, or nil for the entry block or for
// a block unreachable from the entry.
func (d *Dominators) IDom(b *BasicBlock) *BasicBlock {
	return d.idom[b]
}

// Reachable reports whether b was reached from the CFG's entry block.
func (d *Dominators) Reachable(b *BasicBlock) bool {
	_, ok := d.rpoNum[b]
	return ok
}

// BuildDominators computes the dominator tree of g.
func BuildDominators(g *CFG) *Dominators {
	d := &Dominators{idom: map[*BasicBlock]*BasicBlock{}, rpoNum: map[*BasicBlock]int{}}
	d.RPO = reversePostorder(g.Entry)
	for i, b := range d.RPO {
		d.rpoNum[b] = i
	}
	if len(d.RPO) == 0 {
		return d
	}
	entry := d.RPO[0]
	d.idom[entry] = entry
	changed := true
	for changed {
		changed = false
		for _, b := range d.RPO[1:] {
			var newIdom *BasicBlock
			for _, p := range b.In() {
				if _, ok := d.idom[p]; !ok {
					continue // predecessor not yet processed this round
				}
				if newIdom == nil {
					newIdom = p
					continue
				}
				newIdom = d.intersect(newIdom, p)
			}
			if d.idom[b] != newIdom {
				d.idom[b] = newIdom
				changed = true
			}
		}
	}
	d.idom[entry] = nil // the root has no dominator
	return d
}

func (d *Dominators) intersect(a, b *BasicBlock) *BasicBlock {
	for a != b {
		for d.rpoNum[a] > d.rpoNum[b] {
			a = d.idom[a]
		}
		for d.rpoNum[b] > d.rpoNum[a] {
			b = d.idom[b]
		}
	}
	return a
}

// reversePostorder returns the blocks reachable from entry, in reverse
// postorder (entry first).
func reversePostorder(entry *BasicBlock) []*BasicBlock {
	seen := map[*BasicBlock]bool{}
	var post []*BasicBlock
	var visit func(*BasicBlock)
	visit = func(b *BasicBlock) {
		if seen[b] {
			return
		}
		seen[b] = true
		for _, o := range b.Out() {
			visit(o)
		}
		post = append(post, b)
	}
	visit(entry)
	rpo := make([]*BasicBlock, len(post))
	for i, b := range post {
		rpo[len(post)-1-i] = b
	}
	return rpo
}
