package ir

import "fmt"

// A Type is a value type carried by an expression, a field, a global, or a
// function parameter or result.
type Type interface {
	String() string
	eq(Type) bool
	isRef() bool
}

// IntType is a fixed-width integer type.
type IntType struct {
	Width    int
	Unsigned bool
}

func (t *IntType) String() string {
	sign := "i"
	if t.Unsigned {
		sign = "u"
	}
	return fmt.Sprintf("%s%d", sign, t.Width)
}

func (t *IntType) eq(o Type) bool {
	u, ok := o.(*IntType)
	return ok && *u == *t
}

func (*IntType) isRef() bool { return false }

// FloatType is a fixed-width floating-point type.
type FloatType struct {
	Width int
}

func (t *FloatType) String() string { return fmt.Sprintf("f%d", t.Width) }

func (t *FloatType) eq(o Type) bool {
	u, ok := o.(*FloatType)
	return ok && *u == *t
}

func (*FloatType) isRef() bool { return false }

// FuncType is the signature of a function reference.
type FuncType struct {
	Params  []Type
	Results []Type
}

func (t *FuncType) String() string { return "func" }

func (t *FuncType) eq(o Type) bool {
	u, ok := o.(*FuncType)
	if !ok || len(t.Params) != len(u.Params) || len(t.Results) != len(u.Results) {
		return false
	}
	for i := range t.Params {
		if !t.Params[i].eq(u.Params[i]) {
			return false
		}
	}
	for i := range t.Results {
		if !t.Results[i].eq(u.Results[i]) {
			return false
		}
	}
	return true
}

func (*FuncType) isRef() bool { return false }

// RefType is a nullable or non-nullable reference to a heap type: either a
// struct type or a function signature. HeapType returns whichever of Struct
// or Func is set, matching the §6 ".heapType accessor on reference types".
type RefType struct {
	Struct   *StructType
	Func     *FuncType
	Nullable bool
}

// HeapType returns the referenced heap type (a *StructType or a *FuncType).
func (t *RefType) HeapType() interface{} {
	if t.Struct != nil {
		return t.Struct
	}
	return t.Func
}

func (t *RefType) String() string {
	n := "ref"
	if t.Nullable {
		n = "refnull"
	}
	if t.Struct != nil {
		return fmt.Sprintf("%s %s", n, t.Struct.Name)
	}
	return fmt.Sprintf("%s func", n)
}

func (t *RefType) eq(o Type) bool {
	u, ok := o.(*RefType)
	if !ok || t.Nullable != u.Nullable {
		return false
	}
	if t.Struct != nil || u.Struct != nil {
		return t.Struct == u.Struct
	}
	if t.Func == nil || u.Func == nil {
		return t.Func == u.Func
	}
	return t.Func.eq(u.Func)
}

func (*RefType) isRef() bool { return true }

// NonNullable returns t with nullability stripped, if t is a reference
// type; otherwise it returns t unchanged. Used to compute a RefAsNonNull
// expression's result type from its operand's type.
func NonNullable(t Type) Type {
	r, ok := t.(*RefType)
	if !ok || !r.Nullable {
		return t
	}
	nr := *r
	nr.Nullable = false
	return &nr
}

// NoneType is the void type: the result type of statements with no value.
type NoneType struct{}

func (*NoneType) String() string   { return "none" }
func (*NoneType) eq(o Type) bool   { _, ok := o.(*NoneType); return ok }
func (*NoneType) isRef() bool      { return false }

// UnreachableType is the sentinel §6 calls ".unreachable": the result type
// of an expression that provably never produces a value, such as a trap or
// anything that follows one in the same block.
type UnreachableType struct{}

func (*UnreachableType) String() string { return "unreachable" }
func (*UnreachableType) eq(o Type) bool { _, ok := o.(*UnreachableType); return ok }
func (*UnreachableType) isRef() bool    { return false }

// Unreachable is the single shared instance of UnreachableType, for
// pointer-identity checks where convenient.
var Unreachable Type = &UnreachableType{}

// None is the single shared instance of NoneType.
var None Type = &NoneType{}

// IsUnreachable reports whether t is the unreachable sentinel.
func IsUnreachable(t Type) bool {
	_, ok := t.(*UnreachableType)
	return ok
}

// FieldDef describes one field slot of a StructType.
type FieldDef struct {
	Num  int
	Name string
	Type Type
}

// StructType is a nominally declared aggregate type with a fixed, ordered
// list of field slots and a declared single-inheritance supertype. The
// subtype relation preserves prefix layout: Fields[:len(Super.Fields)] must
// equal Super.Fields, field for field, whenever Super is non-nil.
type StructType struct {
	Name   string
	Super  *StructType
	Fields []*FieldDef

	// subs is populated once by BuildHierarchy and is the direct (not
	// transitive) subtype list.
	subs []*StructType
}

func (t *StructType) String() string { return t.Name }

func (t *StructType) eq(o Type) bool { return t == o }
func (*StructType) isRef() bool      { return true }

// DirectSubtypes returns the types that directly declare t as their Super.
// Valid only after BuildHierarchy has run on the owning Module.
func (t *StructType) DirectSubtypes() []*StructType {
	return append([]*StructType{}, t.subs...)
}

// IsSubtype reports whether t is u or a (possibly transitive) subtype of u.
func (t *StructType) IsSubtype(u *StructType) bool {
	for s := t; s != nil; s = s.Super {
		if s == u {
			return true
		}
	}
	return false
}

// Literal is an immutable, structurally-comparable constant value: an
// integer, a float, a reference to a function, or null.
type Literal struct {
	Kind    LiteralKind
	Int     int64
	Float   float64
	FuncRef *FuncDef
	Type    Type
}

// LiteralKind discriminates the tagged union Literal represents.
type LiteralKind int

const (
	IntLit LiteralKind = iota
	FloatLit
	FuncLit
	NullLit
)

// Eq reports structural equality of two literals.
func (l Literal) Eq(o Literal) bool {
	if l.Kind != o.Kind {
		return false
	}
	switch l.Kind {
	case IntLit:
		return l.Int == o.Int
	case FloatLit:
		return l.Float == o.Float
	case FuncLit:
		return l.FuncRef == o.FuncRef
	case NullLit:
		return true
	default:
		panic("impossible literal kind")
	}
}

func (l Literal) String() string {
	switch l.Kind {
	case IntLit:
		return fmt.Sprintf("%d", l.Int)
	case FloatLit:
		return fmt.Sprintf("%g", l.Float)
	case FuncLit:
		return fmt.Sprintf("&%s", l.FuncRef.Name)
	case NullLit:
		return "null"
	default:
		panic("impossible literal kind")
	}
}

// MakeZero returns the default/implicit literal value of t, the §6
// "makeZero(type)" literal constructor.
func MakeZero(t Type) Literal {
	switch t := t.(type) {
	case *IntType:
		return Literal{Kind: IntLit, Type: t}
	case *FloatType:
		return Literal{Kind: FloatLit, Type: t}
	case *RefType:
		return Literal{Kind: NullLit, Type: t}
	default:
		panic(fmt.Sprintf("impossible: no zero value for %s", t))
	}
}
