// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package il

func registerBitwise() {
	for op, mn := range map[Opcode]string{OpAnd: "iand", OpOr: "ior", OpXor: "ixor"} {
		register(op, simpleBinary(mnemonics{KindInt: mn, KindUint: mn, KindBool: mn}))
	}

	register(OpBitNot, func(_ ValueType, a []ValueType) *Functor {
		if !a[0].Kind.IsInteger() {
			return nil
		}
		return unaryInstr(a[0], "inot")
	})
	register(OpNot, func(_ ValueType, a []ValueType) *Functor {
		if a[0].Kind != KindBool {
			return nil
		}
		return unaryInstr(a[0], "inot")
	})

	shift := func(names mnemonics) rule {
		return func(_ ValueType, a []ValueType) *Functor {
			val, amount := a[0], a[1]
			mn, ok := names[val.Kind]
			if !ok || !amount.Kind.IsInteger() {
				return nil
			}
			if amount.Components != 1 && amount.Components != val.Components {
				return nil
			}
			return &Functor{
				Result: val,
				single: true,
				splat:  true,
				emit: func(d Operand, s, _ []Operand) string {
					return instr(mn, d.Dst(), s[0].String(), s[1].String())
				},
			}
		}
	}
	register(OpShl, shift(mnemonics{KindInt: "ishl", KindUint: "ishl"}))
	register(OpShr, shift(mnemonics{KindInt: "ishr", KindUint: "ushr"}))
}

func unaryInstr(t ValueType, mn string) *Functor {
	return &Functor{
		Result: t,
		single: true,
		emit: func(d Operand, s, _ []Operand) string {
			return instr(mn, d.Dst(), s[0].String())
		},
	}
}

// compare builds a comparison rule. swap emits the operands in reverse
// order, turning lt into gt and ge into le.
func compare(names mnemonics, swap bool) rule {
	return func(_ ValueType, a []ValueType) *Functor {
		res, ok := widen(a[0], a[1])
		if !ok {
			return nil
		}
		mn, ok := names[res.Kind]
		if !ok {
			return nil
		}
		// Double comparisons produce one lane per pair; keep them scalar.
		if res.Kind == KindDouble && res.Components != 1 {
			return nil
		}
		return &Functor{
			Result: res.WithKind(KindBool),
			single: true,
			splat:  true,
			emit: func(d Operand, s, _ []Operand) string {
				if swap {
					return instr(mn, d.Dst(), s[1].String(), s[0].String())
				}
				return instr(mn, d.Dst(), s[0].String(), s[1].String())
			},
		}
	}
}

func registerCompare() {
	eq := mnemonics{KindFloat: "eq", KindDouble: "deq", KindInt: "ieq", KindUint: "ieq", KindBool: "ieq"}
	ne := mnemonics{KindFloat: "ne", KindDouble: "dne", KindInt: "ine", KindUint: "ine", KindBool: "ine"}
	lt := mnemonics{KindFloat: "lt", KindDouble: "dlt", KindInt: "ilt", KindUint: "ult"}
	ge := mnemonics{KindFloat: "ge", KindDouble: "dge", KindInt: "ige", KindUint: "uge"}

	register(OpEq, compare(eq, false))
	register(OpNe, compare(ne, false))
	register(OpLt, compare(lt, false))
	register(OpGe, compare(ge, false))
	register(OpGt, compare(lt, true))
	register(OpLe, compare(ge, true))
}
