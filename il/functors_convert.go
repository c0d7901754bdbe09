// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package il

// conversion returns the instruction converting values of kind from to
// kind to. perLane is set when the instruction converts one component at
// a time, which is the case for every conversion touching doubles.
func conversion(to, from BaseKind) (mn string, perLane, ok bool) {
	if to == KindBool || from == KindBool {
		return "mov", false, to == from
	}
	switch {
	case to == from:
		return "mov", false, true
	case to == KindFloat && from == KindInt:
		return "itof", false, true
	case to == KindFloat && from == KindUint:
		return "utof", false, true
	case to == KindInt && from == KindFloat:
		return "ftoi", false, true
	case to == KindUint && from == KindFloat:
		return "ftou", false, true
	case to.IsInteger() && from.IsInteger():
		return "mov", false, true
	case to == KindFloat && from == KindDouble:
		return "d2f", true, true
	case to == KindDouble && from == KindFloat:
		return "f2d", true, true
	case to == KindDouble && from == KindInt:
		return "itod", true, true
	case to == KindDouble && from == KindUint:
		return "utod", true, true
	case to == KindInt && from == KindDouble:
		return "dtoi", true, true
	case to == KindUint && from == KindDouble:
		return "dtou", true, true
	}
	return "", false, false
}

func registerConversions() {
	register(OpCast, func(to ValueType, a []ValueType) *Functor {
		from := a[0]
		if to.Components != from.Components {
			return nil
		}
		mn, perLane, ok := conversion(to.Kind, from.Kind)
		if !ok {
			return nil
		}
		n := int(to.Components)
		f := &Functor{Result: to, single: !perLane || n == 1}
		if perLane {
			f.emit = func(d Operand, s, _ []Operand) string {
				var out string
				for i := 0; i < n; i++ {
					out += instr(mn, d.Lane(i).Dst(), s[0].Lane(i).String())
				}
				return out
			}
		} else {
			f.emit = func(d Operand, s, _ []Operand) string {
				return instr(mn, d.Dst(), s[0].String())
			}
		}
		return f
	})

	register(OpBitcast, func(to ValueType, a []ValueType) *Functor {
		if to.Lanes() != a[0].Lanes() {
			return nil
		}
		return unaryInstr(to, "mov")
	})

	// Merging concatenates components. Lanes of hi are always written by
	// their own conversion instruction, a move when lo and hi share a
	// kind or are both integers.
	register(OpMerge, func(_ ValueType, a []ValueType) *Functor {
		lo, hi := a[0], a[1]
		res := Vector(lo.Kind, int(lo.Components)+int(hi.Components))
		if !res.Valid() {
			return nil
		}
		mn, perLane, ok := conversion(lo.Kind, hi.Kind)
		if !ok {
			return nil
		}
		nlo, nhi := int(lo.Components), int(hi.Components)
		return &Functor{
			Result: res,
			emit: func(d Operand, s, _ []Operand) string {
				dlo, dhi := d.Span(0, nlo), d.Span(nlo, nhi)
				out := instr("mov", dlo.Dst(), s[0].AlignedTo(dlo))
				if !perLane {
					return out + instr(mn, dhi.Dst(), s[1].AlignedTo(dhi))
				}
				for i := 0; i < nhi; i++ {
					out += instr(mn, dhi.Lane(i).Dst(), s[1].Lane(i).String())
				}
				return out
			},
		}
	})
}
