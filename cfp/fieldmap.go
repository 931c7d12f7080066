package cfp

import "github.com/eaburns/peaopt/ir"

// fieldMap is the per-type field map of §3: a mapping from struct type to
// a vector of lattice values, one per field slot. CFP maintains two of
// these, newInfo (allocations) and setInfo (field writes), both at
// function-scratch granularity during scanning and at module granularity
// after the fold in §4.2's closing paragraph.
type fieldMap map[*ir.StructType][]*PossibleConstants

func newFieldMap(types []*ir.StructType) fieldMap {
	m := make(fieldMap, len(types))
	for _, t := range types {
		vals := make([]*PossibleConstants, len(t.Fields))
		for i := range vals {
			vals[i] = &PossibleConstants{}
		}
		m[t] = vals
	}
	return m
}

// at returns the lattice slot for (t, index), allocating t's row on first
// use. Safe to call only from a single goroutine's own scratch map, or
// (after scanning) from module-level code holding no concurrent writers.
func (m fieldMap) at(t *ir.StructType, index int) *PossibleConstants {
	row, ok := m[t]
	if !ok {
		row = make([]*PossibleConstants, len(t.Fields))
		for i := range row {
			row[i] = &PossibleConstants{}
		}
		m[t] = row
	}
	return row[index]
}

// mergeInto folds m pointwise into dst by Join, per type and field index.
func (m fieldMap) mergeInto(dst fieldMap) {
	for t, row := range m {
		dstRow, ok := dst[t]
		if !ok {
			dstRow = make([]*PossibleConstants, len(row))
			for i := range dstRow {
				dstRow[i] = &PossibleConstants{}
			}
			dst[t] = dstRow
		}
		for i, pc := range row {
			dstRow[i].Join(pc)
		}
	}
}
