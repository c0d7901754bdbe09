// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package il

// alignable reports whether a, b and c fit bitalign-style operations:
// the first two operands share one 32-bit integer type and the third has
// the same lane width and component count.
func alignable(a []ValueType) bool {
	return a[0] == a[1] && a[0].Kind.IsInteger() &&
		a[2].LaneWidth() == a[0].LaneWidth() && a[2].Components == a[0].Components
}

// perComponent emits mn once per component, each instruction writing a
// single lane of dst. The hardware instructions are scalar.
func perComponent(mn string) rule {
	return func(_ ValueType, a []ValueType) *Functor {
		if !alignable(a) {
			return nil
		}
		n := int(a[0].Components)
		return &Functor{
			Result: a[0],
			single: n == 1,
			emit: func(d Operand, s, _ []Operand) string {
				var out string
				for i := 0; i < n; i++ {
					out += instr(mn, d.Lane(i).Dst(), s[0].Lane(i).String(), s[1].Lane(i).String(), s[2].Lane(i).String())
				}
				return out
			},
		}
	}
}

func registerMultimedia() {
	register(OpBitAlign, perComponent("bitalign"))
	register(OpByteAlign, perComponent("bytealign"))

	register(OpBFI, func(_ ValueType, a []ValueType) *Functor {
		if !alignable(a) {
			return nil
		}
		return &Functor{
			Result: a[0],
			single: true,
			emit: func(d Operand, s, _ []Operand) string {
				return instr("bfi", d.Dst(), s[0].String(), s[1].String(), s[2].String())
			},
		}
	})

	// Field extraction is defined for uint sources and for int sources
	// with uint offset and width operands only.
	register(OpBitExtract, func(_ ValueType, a []ValueType) *Functor {
		src, off, width := a[0], a[1], a[2]
		if off != width || off.Kind != KindUint || src.Components != off.Components {
			return nil
		}
		var mn string
		switch src.Kind {
		case KindUint:
			mn = "ubit_extract"
		case KindInt:
			mn = "ibit_extract"
		default:
			return nil
		}
		return &Functor{
			Result: src,
			single: true,
			emit: func(d Operand, s, _ []Operand) string {
				return instr(mn, d.Dst(), s[0].String(), s[1].String(), s[2].String())
			},
		}
	})
}
