package ir

import "github.com/eaburns/peaopt/loc"

// Features records assumptions the core passes make about a Module's type
// system. CFP's §7 category-1 configuration check consults NominalTypes.
type Features struct {
	// NominalTypes is true when the module's subtype relation is the
	// declared, single-inheritance, closed-world relation §3 assumes.
	// A host with structural or equirecursive subtyping must report
	// false here; CFP refuses to run against such a module.
	NominalTypes bool
}

// Module is the whole program the core passes analyze and rewrite.
type Module struct {
	Types   []*StructType
	Globals []*GlobalDef
	Funcs   []*FuncDef

	Features Features
}

// GlobalDef is a mutable module-level variable.
type GlobalDef struct {
	Name string
	Type Type
	L    loc.Loc
}

// ParmDef describes one formal parameter of a function.
type ParmDef struct {
	Name string
	Type Type
}

// FuncDef is a function: its signature and its body, a single expression
// (typically a *Block).
type FuncDef struct {
	Name   string
	Parms  []*ParmDef
	Result Type
	Body   Expr
	L      loc.Loc
}

// IsOnceShaped reports whether f has the signature §4.5 requires of a once
// function: no parameters, no result.
func (f *FuncDef) IsOnceShaped() bool {
	return len(f.Parms) == 0 && (f.Result == nil || f.Result.eq(None))
}
