package cfp

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"

	"github.com/eaburns/peaopt/ir"
	"github.com/eaburns/peaopt/loc"
	"github.com/eaburns/peaopt/passrun"
)

// exprDiffOpts lets cmp.Diff walk ir.Expr trees: the node kinds whose
// result type is cached rather than recomputed (the intrinsically-typed
// four built by ir/expr.go's constructors, plus the composite kinds Refinalize
// backfills) carry a private typ field cmp otherwise panics on.
var exprDiffOpts = []cmp.Option{
	cmpopts.IgnoreUnexported(
		ir.StructType{},
		ir.StructNew{}, ir.StructGet{}, ir.GlobalGet{}, ir.Call{},
		ir.If{}, ir.Block{}, ir.RefAsNonNull{}, ir.Select{}, ir.Binary{},
	),
}

func TestNewRejectsNonNominalModule(t *testing.T) {
	mod := &ir.Module{Features: ir.Features{NominalTypes: false}}
	if _, err := New(mod, &passrun.Runner{}, passrun.Options{}); err == nil {
		t.Errorf("New accepted a module without nominal types")
	}
}

// TestPassRunEndToEnd builds one allocation site (constant field) and one
// StructGet of that field, and checks the whole A-B-C-D pipeline rewrites
// the read to a Sequence yielding the constant.
func TestPassRunEndToEnd(t *testing.T) {
	i32 := &ir.IntType{Width: 32}
	pt := &ir.StructType{Name: "Point", Fields: []*ir.FieldDef{
		{Num: 0, Name: "x", Type: i32},
	}}
	mod := &ir.Module{
		Types:    []*ir.StructType{pt},
		Features: ir.Features{NominalTypes: true},
	}
	if err := ir.BuildHierarchy(mod); err != nil {
		t.Fatalf("BuildHierarchy: %v", err)
	}

	allocRef := &ir.Const{Lit: ir.Literal{Kind: ir.NullLit, Type: &ir.RefType{Struct: pt, Nullable: true}}}
	allocator := &ir.FuncDef{Name: "makePoint", Body: ir.NewStructNew(pt, []ir.Expr{
		&ir.Const{Lit: ir.Literal{Kind: ir.IntLit, Int: 7, Type: i32}},
	}, loc.Loc{})}
	reader := &ir.FuncDef{Name: "readX", Body: ir.NewStructGet(allocRef, pt, 0, loc.Loc{})}
	mod.Funcs = []*ir.FuncDef{allocator, reader}

	pass, err := New(mod, &passrun.Runner{Workers: 2}, passrun.Options{})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if err := pass.Run(); err != nil {
		t.Fatalf("Run: %v", err)
	}

	seq, ok := reader.Body.(*ir.Sequence)
	if !ok {
		t.Fatalf("reader.Body = %T after Run, want *ir.Sequence (constant field rewrite)", reader.Body)
	}
	c, ok := seq.B.(*ir.Const)
	if !ok || c.Lit.Int != 7 {
		t.Errorf("reader.Body's rewritten value = %v, want Const{7}", seq.B)
	}
}

// TestPassRunIsIdempotent checks §8's "running either pass twice on an
// already-optimized module produces no further changes": once a read has
// been rewritten to its constant, a second Run over the same module must
// leave every function's body exactly as the first Run left it.
func TestPassRunIsIdempotent(t *testing.T) {
	i32 := &ir.IntType{Width: 32}
	pt := &ir.StructType{Name: "Point", Fields: []*ir.FieldDef{
		{Num: 0, Name: "x", Type: i32},
	}}
	mod := &ir.Module{
		Types:    []*ir.StructType{pt},
		Features: ir.Features{NominalTypes: true},
	}
	if err := ir.BuildHierarchy(mod); err != nil {
		t.Fatalf("BuildHierarchy: %v", err)
	}

	allocRef := &ir.Const{Lit: ir.Literal{Kind: ir.NullLit, Type: &ir.RefType{Struct: pt, Nullable: true}}}
	allocator := &ir.FuncDef{Name: "makePoint", Body: ir.NewStructNew(pt, []ir.Expr{
		&ir.Const{Lit: ir.Literal{Kind: ir.IntLit, Int: 7, Type: i32}},
	}, loc.Loc{})}
	reader := &ir.FuncDef{Name: "readX", Body: ir.NewStructGet(allocRef, pt, 0, loc.Loc{})}
	mod.Funcs = []*ir.FuncDef{allocator, reader}

	runOnce := func() {
		pass, err := New(mod, &passrun.Runner{Workers: 2}, passrun.Options{})
		if err != nil {
			t.Fatalf("New: %v", err)
		}
		if err := pass.Run(); err != nil {
			t.Fatalf("Run: %v", err)
		}
	}

	runOnce()
	allocatorAfterFirst := allocator.Body
	readerAfterFirst := reader.Body

	runOnce()
	if diff := cmp.Diff(allocatorAfterFirst, allocator.Body, exprDiffOpts...); diff != "" {
		t.Errorf("a second Run changed the allocator's body (-first +second):\n%s", diff)
	}
	if diff := cmp.Diff(readerAfterFirst, reader.Body, exprDiffOpts...); diff != "" {
		t.Errorf("a second Run changed the reader's body (-first +second):\n%s", diff)
	}
}
