package cfp

import (
	"testing"

	"github.com/eaburns/peaopt/ir"
)

// base <- mid <- leaf, each adding one more i32 field.
func makeChainHierarchy(t *testing.T) (*ir.Module, *ir.StructType, *ir.StructType, *ir.StructType) {
	i32 := &ir.IntType{Width: 32}
	base := &ir.StructType{Name: "Base", Fields: []*ir.FieldDef{{Num: 0, Name: "a", Type: i32}}}
	mid := &ir.StructType{Name: "Mid", Super: base, Fields: []*ir.FieldDef{
		{Num: 0, Name: "a", Type: i32}, {Num: 1, Name: "b", Type: i32},
	}}
	leaf := &ir.StructType{Name: "Leaf", Super: mid, Fields: []*ir.FieldDef{
		{Num: 0, Name: "a", Type: i32}, {Num: 1, Name: "b", Type: i32}, {Num: 2, Name: "c", Type: i32},
	}}
	mod := &ir.Module{Types: []*ir.StructType{base, mid, leaf}}
	if err := ir.BuildHierarchy(mod); err != nil {
		t.Fatalf("BuildHierarchy: %v", err)
	}
	return mod, base, mid, leaf
}

func TestPropagateUpOnlyLiftsTransitively(t *testing.T) {
	mod, base, mid, leaf := makeChainHierarchy(t)
	m := newFieldMap(mod.Types)
	m.at(leaf, 0).NoteLiteral(i32Lit(42))

	propagateUpOnly(mod, m)

	if vals := m.at(mid, 0).Values(); len(vals) != 1 || !vals[0].Eq(i32Lit(42)) {
		t.Errorf("mid field 0 = %v, want [42] lifted from leaf", vals)
	}
	if vals := m.at(base, 0).Values(); len(vals) != 1 || !vals[0].Eq(i32Lit(42)) {
		t.Errorf("base field 0 = %v, want [42] lifted transitively from leaf", vals)
	}
}

func TestPropagateUpOnlyDoesNotDescend(t *testing.T) {
	mod, base, _, leaf := makeChainHierarchy(t)
	m := newFieldMap(mod.Types)
	m.at(base, 0).NoteLiteral(i32Lit(7))

	propagateUpOnly(mod, m)

	if !m.at(leaf, 0).IsUnwritten() {
		t.Errorf("propagateUpOnly leaked base's observation down to leaf: %v", m.at(leaf, 0))
	}
}

func TestPropagateBothWaysSpreadsDownAndUp(t *testing.T) {
	mod, base, mid, leaf := makeChainHierarchy(t)
	m := newFieldMap(mod.Types)
	m.at(mid, 0).NoteLiteral(i32Lit(5))

	propagateBothWays(mod, m)

	if vals := m.at(base, 0).Values(); len(vals) != 1 || !vals[0].Eq(i32Lit(5)) {
		t.Errorf("base field 0 = %v, want [5] propagated up from mid", vals)
	}
	if vals := m.at(leaf, 0).Values(); len(vals) != 1 || !vals[0].Eq(i32Lit(5)) {
		t.Errorf("leaf field 0 = %v, want [5] propagated down from mid", vals)
	}
}

func TestPropagateHierarchyNewInfoOnlyGoesUp(t *testing.T) {
	mod, base, _, leaf := makeChainHierarchy(t)
	newInfo := newFieldMap(mod.Types)
	setInfo := newFieldMap(mod.Types)
	newInfo.at(leaf, 0).NoteLiteral(i32Lit(1))

	propagateHierarchy(mod, newInfo, setInfo)

	if vals := newInfo.at(base, 0).Values(); len(vals) != 1 {
		t.Errorf("newInfo did not lift leaf's allocation to base: %v", vals)
	}
}
