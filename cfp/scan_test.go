package cfp

import (
	"testing"

	"github.com/eaburns/peaopt/ir"
	"github.com/eaburns/peaopt/loc"
	"github.com/eaburns/peaopt/passrun"
)

func makePointType() *ir.StructType {
	i32 := &ir.IntType{Width: 32}
	return &ir.StructType{Name: "Point", Fields: []*ir.FieldDef{
		{Num: 0, Name: "x", Type: i32},
		{Num: 1, Name: "y", Type: i32},
	}}
}

func TestScanFuncRecordsAllocationOperands(t *testing.T) {
	pt := makePointType()
	i32 := &ir.IntType{Width: 32}
	f := &ir.FuncDef{Name: "f", Body: ir.NewStructNew(pt, []ir.Expr{
		&ir.Const{Lit: ir.Literal{Kind: ir.IntLit, Int: 1, Type: i32}},
		&ir.Const{Lit: ir.Literal{Kind: ir.IntLit, Int: 2, Type: i32}},
	}, loc.Loc{})}

	newInfo, setInfo := scanFunc(f)
	if vals := newInfo.at(pt, 0).Values(); len(vals) != 1 || !vals[0].Eq(i32Lit(1)) {
		t.Errorf("newInfo field 0 = %v, want [1]", vals)
	}
	if vals := newInfo.at(pt, 1).Values(); len(vals) != 1 || !vals[0].Eq(i32Lit(2)) {
		t.Errorf("newInfo field 1 = %v, want [2]", vals)
	}
	if len(setInfo) != 0 {
		t.Errorf("scanFunc recorded a write from an allocation-only body: %v", setInfo)
	}
}

func TestScanFuncRecordsFieldWrites(t *testing.T) {
	pt := makePointType()
	i32 := &ir.IntType{Width: 32}
	ref := &ir.Const{Lit: ir.Literal{Kind: ir.NullLit, Type: &ir.RefType{Struct: pt, Nullable: true}}}
	f := &ir.FuncDef{Name: "f", Body: &ir.StructSet{
		Ref: ref, StructT: pt, Index: 0,
		Value: &ir.Const{Lit: ir.Literal{Kind: ir.IntLit, Int: 9, Type: i32}},
	}}

	_, setInfo := scanFunc(f)
	if vals := setInfo.at(pt, 0).Values(); len(vals) != 1 || !vals[0].Eq(i32Lit(9)) {
		t.Errorf("setInfo field 0 = %v, want [9]", vals)
	}
}

func TestScanFuncTreatsNonConstantWriteAsUnknown(t *testing.T) {
	pt := makePointType()
	i32 := &ir.IntType{Width: 32}
	ref := &ir.Const{Lit: ir.Literal{Kind: ir.NullLit, Type: &ir.RefType{Struct: pt, Nullable: true}}}
	g := &ir.GlobalDef{Name: "g", Type: i32}
	f := &ir.FuncDef{Name: "f", Body: &ir.StructSet{
		Ref: ref, StructT: pt, Index: 0,
		Value: ir.NewGlobalGet(g, loc.Loc{}),
	}}

	_, setInfo := scanFunc(f)
	if !setInfo.at(pt, 0).IsUnknown() {
		t.Errorf("a write of a non-constant value was not recorded as unknown: %v", setInfo.at(pt, 0))
	}
}

func TestScanFuncSkipsCopyWrites(t *testing.T) {
	pt := makePointType()
	ref := &ir.Const{Lit: ir.Literal{Kind: ir.NullLit, Type: &ir.RefType{Struct: pt, Nullable: true}}}
	f := &ir.FuncDef{Name: "f", Body: &ir.StructSet{
		Ref: ref, StructT: pt, Index: 0,
		Value: ir.NewStructGet(ref, pt, 0, loc.Loc{}),
	}}

	_, setInfo := scanFunc(f)
	if !setInfo.at(pt, 0).IsUnwritten() {
		t.Errorf("a noteCopy write was recorded as information: %v", setInfo.at(pt, 0))
	}
}

func TestScanFuncSkipsUnreachableWrites(t *testing.T) {
	pt := makePointType()
	ref := &ir.Const{Lit: ir.Literal{Kind: ir.NullLit, Type: &ir.RefType{Struct: pt, Nullable: true}}}
	f := &ir.FuncDef{Name: "f", Body: &ir.StructSet{
		Ref: ref, StructT: pt, Index: 0,
		Value: &ir.UnreachableExpr{},
	}}

	_, setInfo := scanFunc(f)
	if !setInfo.at(pt, 0).IsUnwritten() {
		t.Errorf("a write with unreachable value type was recorded as information: %v", setInfo.at(pt, 0))
	}
}

func TestScanMergesAcrossFunctions(t *testing.T) {
	pt := makePointType()
	i32 := &ir.IntType{Width: 32}
	f1 := &ir.FuncDef{Name: "f1", Body: ir.NewStructNew(pt, []ir.Expr{
		&ir.Const{Lit: ir.Literal{Kind: ir.IntLit, Int: 1, Type: i32}},
		&ir.Const{Lit: ir.Literal{Kind: ir.IntLit, Type: i32}},
	}, loc.Loc{})}
	f2 := &ir.FuncDef{Name: "f2", Body: ir.NewStructNew(pt, []ir.Expr{
		&ir.Const{Lit: ir.Literal{Kind: ir.IntLit, Int: 2, Type: i32}},
		&ir.Const{Lit: ir.Literal{Kind: ir.IntLit, Type: i32}},
	}, loc.Loc{})}
	mod := &ir.Module{Types: []*ir.StructType{pt}, Funcs: []*ir.FuncDef{f1, f2}}
	r := &passrun.Runner{Workers: 2}

	newInfo, _, err := scan(mod, r)
	if err != nil {
		t.Fatalf("scan: %v", err)
	}
	if vals := newInfo.at(pt, 0).Values(); len(vals) != 2 {
		t.Errorf("newInfo field 0 = %v, want two distinct values merged across functions", vals)
	}
}
