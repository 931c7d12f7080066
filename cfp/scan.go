package cfp

import (
	"github.com/eaburns/peaopt/ir"
	"github.com/eaburns/peaopt/passrun"
)

// scan runs the per-function field-write scanner of component B across
// every function in mod, fanned out over r's fixed thread pool. Each
// function gets its own scratch newInfo/setInfo fieldMap (§5: "no entry of
// that [per-function] map is written by more than one task"); the results
// are folded into module-level maps by the caller after ForEachFunc
// returns, a serial step per §5.
func scan(mod *ir.Module, r *passrun.Runner) (newInfo, setInfo fieldMap, err error) {
	scratch := make([]struct{ new_, set fieldMap }, len(mod.Funcs))
	funcIndex := make(map[*ir.FuncDef]int, len(mod.Funcs))
	for i, f := range mod.Funcs {
		funcIndex[f] = i
	}
	err = r.ForEachFunc(mod, func(f *ir.FuncDef) error {
		i := funcIndex[f]
		new_, set := scanFunc(f)
		scratch[i].new_, scratch[i].set = new_, set
		return nil
	})
	if err != nil {
		return nil, nil, err
	}
	newInfo = newFieldMap(mod.Types)
	setInfo = newFieldMap(mod.Types)
	for _, s := range scratch {
		s.new_.mergeInto(newInfo)
		s.set.mergeInto(setInfo)
	}
	return newInfo, setInfo, nil
}

// scanFunc walks f's body once, recording allocation operands into a
// scratch newInfo map and field writes into a scratch setInfo map, per
// §4.2.
func scanFunc(f *ir.FuncDef) (newInfo, setInfo fieldMap) {
	newInfo, setInfo = fieldMap{}, fieldMap{}
	ir.WalkFunc(f, func(e ir.Expr) {
		switch e := e.(type) {
		case *ir.StructNew:
			for i, op := range e.Operands {
				noteOperand(newInfo.at(e.StructT, i), e.StructT.Fields[i].Type, op)
			}
		case *ir.StructSet:
			if isCopy(e) {
				return
			}
			noteOperand(setInfo.at(e.StructT, e.Index), e.StructT.Fields[e.Index].Type, e.Value)
		}
	})
	return newInfo, setInfo
}

// noteOperand records the literal value of a constant expression, an
// unknown observation for anything else, and, for a constant equal to the
// field type's zero value, the default via NoteDefault (§4.2: "using
// noteDefault when the operand is the default/implicit value"). Operands
// whose type is unreachable are not recorded at all.
func noteOperand(pc *PossibleConstants, fieldType ir.Type, e ir.Expr) {
	if ir.IsUnreachable(e.Type()) {
		// §9: "Field-writes whose value expression has unreachable type
		// must not be noted."
		return
	}
	if c, ok := e.(*ir.Const); ok {
		if c.Lit.Eq(ir.MakeZero(fieldType)) {
			pc.NoteDefault(fieldType)
		} else {
			pc.NoteLiteral(c.Lit)
		}
		return
	}
	pc.NoteUnknown()
}

// isCopy recognizes the §4.1 "noteCopy" pattern: a field is set from a
// load of the same (type, field) off the same base reference, so the
// write contributes no information beyond what the read's own analysis
// already accounts for (per the justification in §4.1 and in
// original_source's ConstantFieldPropagation.cpp, noteCopy's comment).
func isCopy(set *ir.StructSet) bool {
	get, ok := set.Value.(*ir.StructGet)
	if !ok {
		return false
	}
	return get.StructT == set.StructT && get.Index == set.Index && get.Ref == set.Ref
}
