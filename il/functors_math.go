// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package il

func floatUnary(mn string) rule {
	return func(_ ValueType, a []ValueType) *Functor {
		if a[0].Kind != KindFloat {
			return nil
		}
		return unaryInstr(a[0], mn)
	}
}

func registerMath() {
	register(OpNeg, func(_ ValueType, a []ValueType) *Functor {
		t := a[0]
		f := &Functor{Result: t, single: true}
		switch t.Kind {
		case KindFloat:
			f.emit = func(d Operand, s, _ []Operand) string {
				return instr("mov", d.Dst(), s[0].Neg())
			}
		case KindDouble:
			f.emit = func(d Operand, s, _ []Operand) string {
				return instr("mov", d.Dst(), s[0].NegHigh())
			}
		case KindInt:
			f.emit = func(d Operand, s, _ []Operand) string {
				return instr("inegate", d.Dst(), s[0].String())
			}
		default:
			return nil
		}
		return f
	})

	register(OpAbs, floatUnary("abs"))
	register(OpSqrt, floatUnary("sqrt_vec"))
	register(OpRsqrt, floatUnary("rsq_vec"))
	register(OpFloor, floatUnary("round_neginf"))
	register(OpCeil, floatUnary("round_plusinf"))
	register(OpFract, floatUnary("frc"))

	register(OpDot, func(_ ValueType, a []ValueType) *Functor {
		if a[0] != a[1] || a[0].Kind != KindFloat {
			return nil
		}
		var mn string
		switch a[0].Components {
		case 2:
			mn = "dp2_ieee"
		case 4:
			mn = "dp4_ieee"
		default:
			return nil
		}
		return &Functor{
			Result: Float1,
			single: true,
			emit: func(d Operand, s, _ []Operand) string {
				return instr(mn, d.Dst(), s[0].String(), s[1].String())
			},
		}
	})
}
