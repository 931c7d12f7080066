// Package cfp implements Constant Field Propagation: inferring, for every
// field of every aggregate type, the set of constant values it can hold
// across the whole program, and rewriting field reads whose result is
// provably constant.
package cfp

import "github.com/eaburns/peaopt/ir"

// cap_ is K from §3: the maximum number of distinct literal values a
// PossibleConstants may track before collapsing to Unknown. The reference
// implementation uses 2; so do we.
const cap_ = 2

// state discriminates the three lattice states of §3.
type state int

const (
	unwritten state = iota // ⊥: never observed
	constant               // Constant(S), 1 <= |S| <= cap_
	unknown                // ⊤
)

// PossibleConstants is the abstract value lattice of component A: the set
// of constant values a field slot (or, during scanning, a single
// allocation/write site) can hold. Grounded on the tagged Join/Meet
// lattice shape of other_examples/gnoverse-tlin__lattice.go, adapted from
// a fixed 5-state zero-ness lattice to a 3-state, K-bounded constant-set
// lattice.
type PossibleConstants struct {
	st     state
	values []ir.Literal // len <= cap_, only meaningful when st == constant
}

// IsConstant reports whether the receiver is in the Constant(S) state.
func (p *PossibleConstants) IsConstant() bool { return p.st == constant }

// IsUnwritten reports whether the receiver is in the ⊥ state.
func (p *PossibleConstants) IsUnwritten() bool { return p.st == unwritten }

// IsUnknown reports whether the receiver is in the ⊤ state.
func (p *PossibleConstants) IsUnknown() bool { return p.st == unknown }

// Values returns the constant set S. Valid only when IsConstant is true.
func (p *PossibleConstants) Values() []ir.Literal {
	if p.st != constant {
		panic("cfp: Values called on a non-constant PossibleConstants")
	}
	return append([]ir.Literal{}, p.values...)
}

// NoteLiteral incorporates the observation of literal l.
func (p *PossibleConstants) NoteLiteral(l ir.Literal) {
	switch p.st {
	case unknown:
		return
	case unwritten:
		p.st = constant
		p.values = []ir.Literal{l}
		return
	case constant:
		for _, v := range p.values {
			if v.Eq(l) {
				return
			}
		}
		if len(p.values) == cap_ {
			p.st = unknown
			p.values = nil
			return
		}
		p.values = append(p.values, l)
	}
}

// NoteUnknown forces the receiver to ⊤. Monotonic: never undoes a prior
// observation, only forgets it.
func (p *PossibleConstants) NoteUnknown() {
	p.st = unknown
	p.values = nil
}

// NoteDefault incorporates the default/implicit ("zero") value of
// fieldType, the §4.1 "noteDefault" operation.
func (p *PossibleConstants) NoteDefault(fieldType ir.Type) {
	p.NoteLiteral(ir.MakeZero(fieldType))
}

// Join merges other into the receiver in place and reports whether the
// receiver changed, driving the fixed-point loops of components C and H.
func (p *PossibleConstants) Join(other *PossibleConstants) (changed bool) {
	switch other.st {
	case unwritten:
		return false
	case unknown:
		if p.st != unknown {
			p.NoteUnknown()
			return true
		}
		return false
	case constant:
		before := snapshot(p)
		for _, v := range other.values {
			p.NoteLiteral(v)
		}
		return !equalSnapshot(p, before)
	default:
		panic("cfp: impossible lattice state")
	}
}

func snapshot(p *PossibleConstants) PossibleConstants {
	return PossibleConstants{st: p.st, values: append([]ir.Literal{}, p.values...)}
}

func equalSnapshot(p *PossibleConstants, before PossibleConstants) bool {
	if p.st != before.st || len(p.values) != len(before.values) {
		return false
	}
	for i := range p.values {
		if !p.values[i].Eq(before.values[i]) {
			return false
		}
	}
	return true
}
