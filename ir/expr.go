package ir

import (
	"fmt"

	"github.com/eaburns/peaopt/loc"
)

// Expr is satisfied by every expression variant the core passes consume,
// the §6 "IR contract consumed from the host". Children returns pointers
// into the node's own fields, so a rewrite can replace a child in place by
// assigning through the returned pointer — the same substitution-in-place
// idiom the teacher's flowgraph package uses for its Instruction/Value
// graph, adapted to a tree instead of a flat instruction list.
type Expr interface {
	Type() Type
	setType(Type)
	Loc() loc.Loc
	Children() []*Expr
	String() string
}

// BinOp enumerates the binary operators Binary expressions may carry.
type BinOp int

const (
	Add BinOp = iota
	Sub
	Mul
	Div
	Eq
	Neq
	Less
	LessEq
	Greater
	GreaterEq
)

func (op BinOp) String() string {
	return [...]string{"+", "-", "*", "/", "==", "!=", "<", "<=", ">", ">="}[op]
}

// isComparison reports whether op yields a boolean-as-i32 result rather
// than a value in its operands' type, the Binaryen-style convention this
// IR follows for relational operators.
func isComparison(op BinOp) bool {
	switch op {
	case Eq, Neq, Less, LessEq, Greater, GreaterEq:
		return true
	default:
		return false
	}
}

// StructNew allocates a new instance of StructT, initializing each field
// from the corresponding Operand.
type StructNew struct {
	StructT  *StructType
	Operands []Expr
	typ      Type
	L        loc.Loc
}

func (e *StructNew) Type() Type       { return e.typ }
func (e *StructNew) setType(t Type)   { e.typ = t }
func (e *StructNew) Loc() loc.Loc     { return e.L }
func (e *StructNew) String() string   { return fmt.Sprintf("struct.new %s", e.StructT.Name) }

// NewStructNew builds an allocation of structT with the given field
// operands, non-null by construction. Its result type is never recomputed
// by Refinalize, so the host (or a test building a fixture) supplies it
// here rather than through the zero value of the unexported typ field.
func NewStructNew(structT *StructType, operands []Expr, l loc.Loc) *StructNew {
	return &StructNew{StructT: structT, Operands: operands, typ: &RefType{Struct: structT}, L: l}
}
func (e *StructNew) Children() []*Expr {
	out := make([]*Expr, len(e.Operands))
	for i := range e.Operands {
		out[i] = &e.Operands[i]
	}
	return out
}

// StructGet reads field Index of the struct statically typed StructT,
// referenced by Ref. It traps if Ref is null.
type StructGet struct {
	Ref     Expr
	StructT *StructType
	Index   int
	typ     Type
	L       loc.Loc
}

func (e *StructGet) Type() Type        { return e.typ }
func (e *StructGet) setType(t Type)    { e.typ = t }
func (e *StructGet) Loc() loc.Loc      { return e.L }
func (e *StructGet) String() string    { return fmt.Sprintf("struct.get %s[%d]", e.StructT.Name, e.Index) }
func (e *StructGet) Children() []*Expr { return []*Expr{&e.Ref} }

// NewStructGet builds a field-read of field index off structT, with its
// result type taken from the field's declared type.
func NewStructGet(ref Expr, structT *StructType, index int, l loc.Loc) *StructGet {
	return &StructGet{Ref: ref, StructT: structT, Index: index, typ: structT.Fields[index].Type, L: l}
}

// StructSet writes Value into field Index of the struct referenced by Ref.
// It traps if Ref is null. Its result type is None.
type StructSet struct {
	Ref     Expr
	Value   Expr
	StructT *StructType
	Index   int
	L       loc.Loc
}

func (e *StructSet) Type() Type     { return None }
func (e *StructSet) setType(Type)   {}
func (e *StructSet) Loc() loc.Loc   { return e.L }
func (e *StructSet) String() string { return fmt.Sprintf("struct.set %s[%d]", e.StructT.Name, e.Index) }
func (e *StructSet) Children() []*Expr {
	return []*Expr{&e.Ref, &e.Value}
}

// GlobalGet reads a module-level global.
type GlobalGet struct {
	Global *GlobalDef
	typ    Type
	L      loc.Loc
}

func (e *GlobalGet) Type() Type        { return e.typ }
func (e *GlobalGet) setType(t Type)    { e.typ = t }
func (e *GlobalGet) Loc() loc.Loc      { return e.L }
func (e *GlobalGet) String() string    { return fmt.Sprintf("global.get %s", e.Global.Name) }
func (e *GlobalGet) Children() []*Expr { return nil }

// NewGlobalGet builds a read of g, with its result type taken from g's
// declared type.
func NewGlobalGet(g *GlobalDef, l loc.Loc) *GlobalGet {
	return &GlobalGet{Global: g, typ: g.Type, L: l}
}

// GlobalSet writes Value into a module-level global. Its result type is
// None.
type GlobalSet struct {
	Global *GlobalDef
	Value  Expr
	L      loc.Loc
}

func (e *GlobalSet) Type() Type        { return None }
func (e *GlobalSet) setType(Type)      {}
func (e *GlobalSet) Loc() loc.Loc      { return e.L }
func (e *GlobalSet) String() string    { return fmt.Sprintf("global.set %s", e.Global.Name) }
func (e *GlobalSet) Children() []*Expr { return []*Expr{&e.Value} }

// Call invokes Target with Operands. Only direct calls are modeled: the
// once-reduction pass needs to know statically which function is called,
// and CFP never inspects calls at all.
type Call struct {
	Target   *FuncDef
	Operands []Expr
	typ      Type
	L        loc.Loc
}

func (e *Call) Type() Type     { return e.typ }
func (e *Call) setType(t Type) { e.typ = t }
func (e *Call) Loc() loc.Loc   { return e.L }
func (e *Call) String() string { return fmt.Sprintf("call %s", e.Target.Name) }
func (e *Call) Children() []*Expr {
	out := make([]*Expr, len(e.Operands))
	for i := range e.Operands {
		out[i] = &e.Operands[i]
	}
	return out
}

// NewCall builds a direct call to target, with its result type taken from
// target's declared result (None if target has no result).
func NewCall(target *FuncDef, operands []Expr, l loc.Loc) *Call {
	resultType := target.Result
	if resultType == nil {
		resultType = None
	}
	return &Call{Target: target, Operands: operands, typ: resultType, L: l}
}

// If evaluates Cond, then Then if Cond is non-zero, else Else. Else may be
// nil, in which case the If has no value (its result type is None) and is
// used only for control flow, matching the §4.5 "if (get_global G) return;"
// prologue shape.
type If struct {
	Cond Expr
	Then Expr
	Else Expr
	typ  Type
	L    loc.Loc
}

func (e *If) Type() Type     { return e.typ }
func (e *If) setType(t Type) { e.typ = t }
func (e *If) Loc() loc.Loc   { return e.L }
func (e *If) String() string { return "if" }
func (e *If) Children() []*Expr {
	out := []*Expr{&e.Cond, &e.Then}
	if e.Else != nil {
		out = append(out, &e.Else)
	}
	return out
}

// Return exits the enclosing function, optionally yielding Value. Value is
// nil for functions with no result. Its type is always Unreachable: nothing
// after a Return in the same block can be reached.
type Return struct {
	Value Expr
	L     loc.Loc
}

func (e *Return) Type() Type     { return Unreachable }
func (e *Return) setType(Type)   {}
func (e *Return) Loc() loc.Loc   { return e.L }
func (e *Return) String() string { return "return" }
func (e *Return) Children() []*Expr {
	if e.Value == nil {
		return nil
	}
	return []*Expr{&e.Value}
}

// Block sequences a list of expressions; its value (and type) is that of
// the last element, or None if the list is empty.
type Block struct {
	List []Expr
	typ  Type
	L    loc.Loc
}

func (e *Block) Type() Type     { return e.typ }
func (e *Block) setType(t Type) { e.typ = t }
func (e *Block) Loc() loc.Loc   { return e.L }
func (e *Block) String() string { return "block" }
func (e *Block) Children() []*Expr {
	out := make([]*Expr, len(e.List))
	for i := range e.List {
		out[i] = &e.List[i]
	}
	return out
}

// NoOp returns an empty block: a canonical no-op expression of type None,
// used by optimizers that need to erase a redundant call or write in place
// without removing the slot it occupies in a parent's operand list.
func NoOp(l loc.Loc) Expr { return &Block{typ: None, L: l} }

// Const yields a literal value.
type Const struct {
	Lit Literal
	L   loc.Loc
}

func (e *Const) Type() Type        { return e.Lit.Type }
func (e *Const) setType(Type)      {}
func (e *Const) Loc() loc.Loc      { return e.L }
func (e *Const) String() string    { return e.Lit.String() }
func (e *Const) Children() []*Expr { return nil }

// RefAsNonNull asserts that Ref is non-null, trapping otherwise, and yields
// Ref with its nullability stripped.
type RefAsNonNull struct {
	Ref Expr
	typ Type
	L   loc.Loc
}

func (e *RefAsNonNull) Type() Type        { return e.typ }
func (e *RefAsNonNull) setType(t Type)    { e.typ = t }
func (e *RefAsNonNull) Loc() loc.Loc      { return e.L }
func (e *RefAsNonNull) String() string    { return "ref.as_non_null" }
func (e *RefAsNonNull) Children() []*Expr { return []*Expr{&e.Ref} }

// Drop evaluates Value for its side effects and discards the result. Its
// type is None.
type Drop struct {
	Value Expr
	L     loc.Loc
}

func (e *Drop) Type() Type        { return None }
func (e *Drop) setType(Type)      {}
func (e *Drop) Loc() loc.Loc      { return e.L }
func (e *Drop) String() string    { return "drop" }
func (e *Drop) Children() []*Expr { return []*Expr{&e.Value} }

// Select yields A if Cond is non-zero, else B. Both A and B are always
// evaluated; Select is not a branch. Used by CFP's two-value rewrite
// (§4.4 step 5).
type Select struct {
	Cond Expr
	A    Expr
	B    Expr
	typ  Type
	L    loc.Loc
}

func (e *Select) Type() Type        { return e.typ }
func (e *Select) setType(t Type)    { e.typ = t }
func (e *Select) Loc() loc.Loc      { return e.L }
func (e *Select) String() string    { return "select" }
func (e *Select) Children() []*Expr { return []*Expr{&e.Cond, &e.A, &e.B} }

// Binary applies Op to A and B.
type Binary struct {
	Op  BinOp
	A   Expr
	B   Expr
	typ Type
	L   loc.Loc
}

func (e *Binary) Type() Type        { return e.typ }
func (e *Binary) setType(t Type)    { e.typ = t }
func (e *Binary) Loc() loc.Loc      { return e.L }
func (e *Binary) String() string    { return e.Op.String() }
func (e *Binary) Children() []*Expr { return []*Expr{&e.A, &e.B} }

// UnreachableExpr unconditionally traps. (Named to avoid colliding with the
// UnreachableType sentinel.)
type UnreachableExpr struct {
	L loc.Loc
}

func (e *UnreachableExpr) Type() Type        { return Unreachable }
func (e *UnreachableExpr) setType(Type)      {}
func (e *UnreachableExpr) Loc() loc.Loc      { return e.L }
func (e *UnreachableExpr) String() string    { return "unreachable" }
func (e *UnreachableExpr) Children() []*Expr { return nil }

// Sequence evaluates A for its side effects, then yields B. It is the
// building block CFP's rewriter (§4.4) uses to chain "evaluate the
// original ref, then yield a replacement value" without reusing Block
// (which would require building a result-type-carrying list for a pair).
type Sequence struct {
	A, B Expr
	L    loc.Loc
}

func (e *Sequence) Type() Type        { return e.B.Type() }
func (e *Sequence) setType(Type)      {}
func (e *Sequence) Loc() loc.Loc      { return e.L }
func (e *Sequence) String() string    { return "seq" }
func (e *Sequence) Children() []*Expr { return []*Expr{&e.A, &e.B} }
