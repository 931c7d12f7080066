package ir

// BasicBlock is a node of a function's control-flow graph, built by
// BuildCFG. Contents holds pointers into the owning function's expression
// tree, one per Call or GlobalSet recorded in execution order (§4.7 step
// 1) — the once-optimizer is the only consumer of the CFG, and it rewrites
// in place by assigning through these pointers, the same
// pointer-into-the-tree idiom Children() uses elsewhere in this package.
//
// Modeled directly on the teacher's flowgraph.BasicBlock In()/Out() API
// (flowgraph/flowgraph.go), adapted from a flat SSA-instruction block to
// one whose contents are a filtered projection of a structured expression
// tree.
type BasicBlock struct {
	Num      int
	Contents []*Expr
	in       []*BasicBlock
	out      []*BasicBlock
}

func (b *BasicBlock) In() []*BasicBlock  { return append([]*BasicBlock{}, b.in...) }
func (b *BasicBlock) Out() []*BasicBlock { return append([]*BasicBlock{}, b.out...) }

func (b *BasicBlock) addEdgeTo(o *BasicBlock) {
	for _, x := range b.out {
		if x == o {
			return
		}
	}
	b.out = append(b.out, o)
	o.in = append(o.in, b)
}

// CFG is a function's control-flow graph.
type CFG struct {
	Entry  *BasicBlock
	Blocks []*BasicBlock
}

// BuildCFG linearizes f's expression-tree body into a control-flow graph.
// Only If introduces branches; Return and UnreachableExpr close off a
// block with no successor; every other composite expression is walked in
// left-to-right evaluation order so that a Call or GlobalSet nested inside
// an operand (for example, the value of a StructSet, or an argument of
// another Call) is still recorded in the block that is live when it
// executes.
func BuildCFG(f *FuncDef) *CFG {
	g := &CFG{}
	g.Entry = g.newBlock()
	g.lower(&f.Body, g.Entry)
	return g
}

func (g *CFG) newBlock() *BasicBlock {
	b := &BasicBlock{Num: len(g.Blocks)}
	g.Blocks = append(g.Blocks, b)
	return b
}

// lower processes the expression at *ep for its side effects and control
// flow starting in cur, returning the block still open afterward (nil if
// control cannot fall through, e.g. because it ends in a Return). ep
// points into the owning function's tree, so a Call or GlobalSet recorded
// into a block's Contents can be rewritten in place by the caller.
func (g *CFG) lower(ep *Expr, cur *BasicBlock) *BasicBlock {
	if cur == nil || ep == nil || *ep == nil {
		return cur
	}
	switch e := (*ep).(type) {
	case *Block:
		for i := range e.List {
			cur = g.lower(&e.List[i], cur)
			if cur == nil {
				break
			}
		}
		return cur
	case *If:
		cur = g.lower(&e.Cond, cur)
		if cur == nil {
			return nil
		}
		thenBlock, elseBlock := g.newBlock(), g.newBlock()
		cur.addEdgeTo(thenBlock)
		cur.addEdgeTo(elseBlock)
		thenEnd := g.lower(&e.Then, thenBlock)
		var elseEnd *BasicBlock
		if e.Else != nil {
			elseEnd = g.lower(&e.Else, elseBlock)
		} else {
			elseEnd = elseBlock
		}
		if thenEnd == nil && elseEnd == nil {
			return nil
		}
		join := g.newBlock()
		if thenEnd != nil {
			thenEnd.addEdgeTo(join)
		}
		if elseEnd != nil {
			elseEnd.addEdgeTo(join)
		}
		return join
	case *Return:
		if e.Value != nil {
			cur = g.lower(&e.Value, cur)
		}
		return nil
	case *UnreachableExpr:
		return nil
	case *Call:
		for i := range e.Operands {
			cur = g.lower(&e.Operands[i], cur)
			if cur == nil {
				return nil
			}
		}
		cur.Contents = append(cur.Contents, ep)
		return cur
	case *GlobalSet:
		cur = g.lower(&e.Value, cur)
		if cur == nil {
			return nil
		}
		cur.Contents = append(cur.Contents, ep)
		return cur
	default:
		for _, c := range e.Children() {
			cur = g.lower(c, cur)
			if cur == nil {
				return nil
			}
		}
		return cur
	}
}
