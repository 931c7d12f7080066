package ir

import "testing"

func TestMakeZero(t *testing.T) {
	tests := []struct {
		name string
		typ  Type
		want Literal
	}{
		{"int", &IntType{Width: 32}, Literal{Kind: IntLit, Type: &IntType{Width: 32}}},
		{"float", &FloatType{Width: 64}, Literal{Kind: FloatLit, Type: &FloatType{Width: 64}}},
		{"ref", &RefType{Nullable: true}, Literal{Kind: NullLit, Type: &RefType{Nullable: true}}},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			got := MakeZero(test.typ)
			if !got.Eq(test.want) {
				t.Errorf("MakeZero(%s) = %s, want %s", test.typ, got, test.want)
			}
		})
	}
}

func TestMakeZeroPanicsOnFuncType(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Errorf("MakeZero(FuncType) did not panic")
		}
	}()
	MakeZero(&FuncType{})
}

func TestLiteralEq(t *testing.T) {
	a := Literal{Kind: IntLit, Int: 42}
	b := Literal{Kind: IntLit, Int: 42}
	c := Literal{Kind: IntLit, Int: 7}
	if !a.Eq(b) {
		t.Errorf("%s != %s, want equal", a, b)
	}
	if a.Eq(c) {
		t.Errorf("%s == %s, want unequal", a, c)
	}
	if a.Eq(Literal{Kind: FloatLit, Float: 42}) {
		t.Errorf("int literal equal to float literal of the same magnitude")
	}
}

func TestStructTypeIsSubtype(t *testing.T) {
	base := &StructType{Name: "Base"}
	mid := &StructType{Name: "Mid", Super: base}
	leaf := &StructType{Name: "Leaf", Super: mid}

	for _, test := range []struct {
		t, u *StructType
		want bool
	}{
		{leaf, base, true},
		{leaf, mid, true},
		{leaf, leaf, true},
		{base, leaf, false},
		{mid, leaf, false},
	} {
		if got := test.t.IsSubtype(test.u); got != test.want {
			t.Errorf("%s.IsSubtype(%s) = %v, want %v", test.t, test.u, got, test.want)
		}
	}
}

func TestNonNullable(t *testing.T) {
	s := &StructType{Name: "T"}
	nullable := &RefType{Struct: s, Nullable: true}
	got := NonNullable(nullable)
	r, ok := got.(*RefType)
	if !ok || r.Nullable {
		t.Errorf("NonNullable(%s) = %s, want a non-nullable ref", nullable, got)
	}
	// Non-reference types pass through unchanged.
	i := &IntType{Width: 32}
	if NonNullable(i) != Type(i) {
		t.Errorf("NonNullable(%s) = %s, want unchanged", i, NonNullable(i))
	}
}
