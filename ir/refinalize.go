package ir

// Refinalize recomputes the result type of every composite expression in
// f's body from its (already up to date) children, leaf to root. CFP's
// rewriter (§4.4) narrows the type of individual expressions it replaces;
// Refinalize propagates that narrowing outward through Block and If nodes
// whose cached result type depended on the now-replaced subexpression.
//
// Leaf-typed and intrinsically-typed nodes (StructGet, GlobalGet, Call,
// StructNew, Const, Sequence) need no work here: their Type() is fixed by
// the node's own construction and never depends on a rewritten child.
func Refinalize(f *FuncDef) {
	refinalize(f.Body)
}

func refinalize(e Expr) {
	if e == nil {
		return
	}
	for _, c := range e.Children() {
		refinalize(*c)
	}
	switch e := e.(type) {
	case *Block:
		if len(e.List) == 0 {
			e.typ = None
		} else {
			e.typ = e.List[len(e.List)-1].Type()
		}
	case *If:
		if e.Else == nil {
			e.typ = None
		} else if e.Then.Type().eq(e.Else.Type()) {
			e.typ = e.Then.Type()
		}
	case *Select:
		e.typ = e.A.Type()
	case *RefAsNonNull:
		e.typ = NonNullable(e.Ref.Type())
	case *Binary:
		if isComparison(e.Op) {
			e.typ = &IntType{Width: 32}
		} else {
			e.typ = e.A.Type()
		}
	}
}
