// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package il

import "strings"

// Operand is a resolved reference to register lanes: a register name plus
// the 32-bit lanes it reads or writes. Operands are what functors format;
// they are produced during emission and never stored in the tree.
type Operand struct {
	// Name is the register text without swizzle, e.g. "r4", "l0", "cb0[1]".
	Name string

	lanes Swizzle
	width uint8
}

// Reg returns an operand covering the lanes a value of type t occupies in
// the named register.
func Reg(name string, t ValueType) Operand {
	return Operand{Name: name, lanes: Identity(t.Lanes()), width: uint8(t.LaneWidth())}
}

// parseOperand splits "cb0[0].x" style text into a name and its lanes.
// Text without a swizzle covers the lanes of t.
func parseOperand(text string, t ValueType) (Operand, error) {
	dot := strings.LastIndexByte(text, '.')
	if dot < 0 || strings.ContainsAny(text[dot+1:], "[]") {
		return Reg(text, t), nil
	}
	s, err := ParseSwizzle(text[dot+1:])
	if err != nil {
		return Operand{}, err
	}
	if s.Len() != t.Lanes() {
		return Operand{}, errorf(ErrSwizzle, "operand %q selects %d lanes, %s needs %d", text, s.Len(), t, t.Lanes())
	}
	return Operand{Name: text[:dot], lanes: s, width: uint8(t.LaneWidth())}, nil
}

// Components returns the number of logical components the operand holds.
func (o Operand) Components() int {
	if o.width == 0 {
		return 0
	}
	return o.lanes.Len() / int(o.width)
}

// Select applies a component swizzle, expanding each component to its
// register lanes.
func (o Operand) Select(p Swizzle) Operand {
	w := int(o.width)
	out := Operand{Name: o.Name, width: o.width}
	for i := 0; i < p.Len(); i++ {
		for j := 0; j < w; j++ {
			out.lanes.sel[out.lanes.n] = o.lanes.sel[p.At(i)*w+j]
			out.lanes.n++
		}
	}
	return out
}

// Lane returns the single component i.
func (o Operand) Lane(i int) Operand {
	return o.Select(Swizzle{sel: [4]uint8{uint8(i)}, n: 1})
}

// Span returns components [from, from+n).
func (o Operand) Span(from, n int) Operand {
	s := Swizzle{n: uint8(n)}
	for i := 0; i < n; i++ {
		s.sel[i] = uint8(from + i)
	}
	return o.Select(s)
}

// Splat replicates component 0 across n components.
func (o Operand) Splat(n int) Operand {
	return o.Select(Broadcast(0, n))
}

// String returns the source-operand text, e.g. "r3", "r3.x", "r3.xxxx".
func (o Operand) String() string {
	if o.lanes.n == 4 && o.lanes.IsIdentity() {
		return o.Name
	}
	return o.Name + "." + o.lanes.String()
}

// Mask returns the set of lanes the operand covers.
func (o Operand) Mask() WriteMask {
	var m WriteMask
	for i := 0; i < o.lanes.Len(); i++ {
		m |= 1 << o.lanes.sel[i]
	}
	return m
}

// Dst returns the destination text with a write mask, e.g. "r3", "r3.xy__".
func (o Operand) Dst() string {
	m := o.Mask()
	if m == 0xF {
		return o.Name
	}
	return o.Name + "." + m.String()
}

// AlignedTo returns the source text whose lanes land on dst's lanes in
// order: lane k of o is written to lane k of dst.
func (o Operand) AlignedTo(dst Operand) string {
	if dst.lanes.IsIdentity() || (dst.lanes.Len() == 1 && o.lanes.Len() == 1) {
		return o.String()
	}
	b := []byte{laneNames[o.lanes.sel[0]], 0, 0, 0}
	b[1], b[2], b[3] = b[0], b[0], b[0]
	for k := 0; k < dst.lanes.Len() && k < o.lanes.Len(); k++ {
		b[dst.lanes.sel[k]] = laneNames[o.lanes.sel[k]]
	}
	if string(b) == laneNames {
		return o.Name
	}
	return o.Name + "." + string(b)
}

// Neg returns the source text with the IL negate modifier on every
// selected lane position.
func (o Operand) Neg() string {
	return o.String() + "_neg(xyzw)"
}

// NegHigh returns the source text with the negate modifier on the high
// lane of each double, which holds the sign bit.
func (o Operand) NegHigh() string {
	if o.lanes.Len() == 4 {
		return o.String() + "_neg(yw)"
	}
	return o.String() + "_neg(y)"
}
