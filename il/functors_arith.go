// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package il

// mnemonics maps a result kind to the instruction implementing an operation.
type mnemonics map[BaseKind]string

// widen combines two same-kind operand types. Equal widths keep the type;
// a scalar broadcasts to the other operand's width.
func widen(a, b ValueType) (ValueType, bool) {
	if a.Kind != b.Kind {
		return Invalid, false
	}
	switch {
	case a.Components == b.Components:
		return a, true
	case a.Components == 1:
		return b, true
	case b.Components == 1:
		return a, true
	}
	return Invalid, false
}

// simpleBinary is the rule for operations that map to one instruction per
// result kind with operands in natural order.
func simpleBinary(names mnemonics) rule {
	return func(_ ValueType, a []ValueType) *Functor {
		res, ok := widen(a[0], a[1])
		if !ok {
			return nil
		}
		mn, ok := names[res.Kind]
		if !ok {
			return nil
		}
		return &Functor{
			Result: res,
			single: true,
			splat:  true,
			emit: func(d Operand, s, _ []Operand) string {
				return instr(mn, d.Dst(), s[0].String(), s[1].String())
			},
		}
	}
}

func registerArithmetic() {
	register(OpAdd, simpleBinary(mnemonics{
		KindFloat: "add", KindDouble: "dadd", KindInt: "iadd", KindUint: "iadd",
	}))
	register(OpMul, simpleBinary(mnemonics{
		KindFloat: "mul", KindDouble: "dmul", KindInt: "imul", KindUint: "umul",
	}))
	register(OpDiv, simpleBinary(mnemonics{
		KindFloat: "div_zeroop(infinity)", KindDouble: "ddiv", KindInt: "idiv", KindUint: "udiv",
	}))
	register(OpMin, simpleBinary(mnemonics{
		KindFloat: "min", KindDouble: "dmin", KindInt: "imin", KindUint: "umin",
	}))
	register(OpMax, simpleBinary(mnemonics{
		KindFloat: "max", KindDouble: "dmax", KindInt: "imax", KindUint: "umax",
	}))

	register(OpSub, func(_ ValueType, a []ValueType) *Functor {
		res, ok := widen(a[0], a[1])
		if !ok {
			return nil
		}
		f := &Functor{Result: res, splat: true}
		switch res.Kind {
		case KindFloat:
			f.single = true
			f.emit = func(d Operand, s, _ []Operand) string {
				return instr("sub", d.Dst(), s[0].String(), s[1].String())
			}
		case KindDouble:
			f.single = true
			f.emit = func(d Operand, s, _ []Operand) string {
				return instr("dadd", d.Dst(), s[0].String(), s[1].NegHigh())
			}
		case KindInt, KindUint:
			// Integer sources take no negate modifier.
			f.Temps = 1
			f.emit = func(d Operand, s, t []Operand) string {
				return instr("inegate", t[0].Dst(), s[1].String()) +
					instr("iadd", d.Dst(), s[0].String(), t[0].String())
			}
		default:
			return nil
		}
		return f
	})

	register(OpMod, func(_ ValueType, a []ValueType) *Functor {
		res, ok := widen(a[0], a[1])
		if !ok {
			return nil
		}
		f := &Functor{Result: res, splat: true}
		switch res.Kind {
		case KindFloat:
			// a - b*floor(a/b)
			f.Temps = 1
			f.emit = func(d Operand, s, t []Operand) string {
				return instr("div_zeroop(infinity)", t[0].Dst(), s[0].String(), s[1].String()) +
					instr("round_neginf", t[0].Dst(), t[0].String()) +
					instr("mad", d.Dst(), t[0].Neg(), s[1].String(), s[0].String())
			}
		case KindInt, KindUint:
			mn := "imod"
			if res.Kind == KindUint {
				mn = "umod"
			}
			f.single = true
			f.emit = func(d Operand, s, _ []Operand) string {
				return instr(mn, d.Dst(), s[0].String(), s[1].String())
			}
		default:
			return nil
		}
		return f
	})

	madNames := mnemonics{KindFloat: "mad", KindDouble: "dmad", KindInt: "imad", KindUint: "umad"}
	register(OpMad, func(_ ValueType, a []ValueType) *Functor {
		res, ok := widen(a[0], a[1])
		if !ok {
			return nil
		}
		if res, ok = widen(res, a[2]); !ok {
			return nil
		}
		mn, ok := madNames[res.Kind]
		if !ok {
			return nil
		}
		return &Functor{
			Result: res,
			single: true,
			splat:  true,
			emit: func(d Operand, s, _ []Operand) string {
				return instr(mn, d.Dst(), s[0].String(), s[1].String(), s[2].String())
			},
		}
	})

	register(OpSelect, func(_ ValueType, a []ValueType) *Functor {
		cond := a[0]
		if cond.Kind != KindBool {
			return nil
		}
		res, ok := widen(a[1], a[2])
		if !ok || res.Kind == KindDouble {
			return nil
		}
		if cond.Components != 1 && cond.Components != res.Components {
			return nil
		}
		return &Functor{
			Result: res,
			single: true,
			splat:  true,
			emit: func(d Operand, s, _ []Operand) string {
				return instr("cmov_logical", d.Dst(), s[0].String(), s[1].String(), s[2].String())
			},
		}
	})
}
