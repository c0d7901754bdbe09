// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package il

import "fmt"

// BindingKind identifies the kind of memory object a kernel reads or
// writes.
type BindingKind uint8

const (
	// BindingGlobal is the global read/write buffer g[].
	BindingGlobal BindingKind = iota

	// BindingInput is a sampled 2D input resource.
	BindingInput

	// BindingConstantBuffer is a constant buffer cbN.
	BindingConstantBuffer
)

// String returns the binding kind name.
func (k BindingKind) String() string {
	switch k {
	case BindingGlobal:
		return "global"
	case BindingInput:
		return "input"
	case BindingConstantBuffer:
		return "constant"
	default:
		return fmt.Sprintf("binding(%d)", uint8(k))
	}
}

// Binding is a memory object the driver must attach before dispatch.
type Binding struct {
	Kind BindingKind
	Name string
	Slot int

	// Type is the element type of an input resource.
	Type ValueType

	// Size is the number of elements of a constant buffer.
	Size int
}

// Bindings lists the memory objects the compilation unit references: the
// global buffer first, then inputs and constant buffers by slot.
func (s *Source) Bindings() []Binding {
	var out []Binding
	if s.global {
		out = append(out, Binding{Kind: BindingGlobal, Name: "g[]"})
	}
	for _, slot := range sortedKeys(s.inputs) {
		out = append(out, Binding{Kind: BindingInput, Name: fmt.Sprintf("i%d", slot), Slot: slot, Type: s.inputs[slot]})
	}
	for _, slot := range sortedKeys(s.cbs) {
		out = append(out, Binding{Kind: BindingConstantBuffer, Name: fmt.Sprintf("cb%d", slot), Slot: slot, Size: s.cbs[slot]})
	}
	return out
}

// Input2D is a sampled two-dimensional input resource.
type Input2D struct {
	slot int
	t    ValueType
	err  *Error
}

// NewInput2D declares input slot holding elements of type t.
func NewInput2D(slot int, t ValueType) *Input2D {
	in := &Input2D{slot: slot, t: t}
	switch {
	case slot < 0:
		in.err = errorf(ErrResourceLimit, "input slot %d is negative", slot)
	case !t.Valid() || t.Kind == KindBool:
		in.err = errorf(ErrTypeMismatch, "input i%d cannot hold %s", slot, t)
	}
	return in
}

// Slot returns the resource slot.
func (in *Input2D) Slot() int { return in.slot }

// Sample reads the element at the Float1 coordinates x and y.
func (in *Input2D) Sample(x, y Expr) *Sample {
	return in.SampleAt(MergeTypes(x, y))
}

// SampleAt reads the element at a Float2 coordinate.
func (in *Input2D) SampleAt(coord Expr) *Sample {
	s := &Sample{in: in, Coord: coord}
	if t := coord.Type(); t.Valid() && t != Float2 {
		s.err = errorf(ErrTypeMismatch, "sample coordinate must be %s, got %s", Float2, t)
	}
	return s
}

// Sample is a read of an input resource.
type Sample struct {
	in    *Input2D
	Coord Expr
	err   *Error
}

func (s *Sample) Type() ValueType {
	if s.in.err != nil || s.err != nil {
		return Invalid
	}
	return s.in.t
}

func (s *Sample) emit(em *emitter) Operand {
	c := em.expr(s.Coord)
	em.src.inputs[s.in.slot] = s.in.t
	dst := em.alloc(s.in.t)
	mn := fmt.Sprintf("sample_resource(%d)_sampler(%d)", s.in.slot, s.in.slot)
	em.src.write(instr(mn, dst.Dst(), c.String()))
	return dst
}

func (s *Sample) validate(v *validator) {
	v.add(s.in.err)
	v.visit(s.Coord)
	v.add(s.err)
}

// Global is the global buffer viewed as elements of one type.
type Global struct {
	t   ValueType
	err *Error
}

// NewGlobal returns a view of the global buffer holding elements of type t.
func NewGlobal(t ValueType) *Global {
	g := &Global{t: t}
	if !t.Valid() {
		g.err = errorf(ErrTypeMismatch, "global buffer of invalid type")
	}
	return g
}

// At returns the element at a. It can be read and assigned.
func (g *Global) At(a Address) *GlobalRef {
	return &GlobalRef{g: g, addr: a}
}

// GlobalRef is one element of the global buffer.
type GlobalRef struct {
	g    *Global
	addr Address
}

func (r *GlobalRef) Type() ValueType {
	if r.g.err != nil || r.addr.err != nil {
		return Invalid
	}
	return r.g.t
}

func (r *GlobalRef) operand(em *emitter) Operand {
	em.src.global = true
	return Reg("g["+r.addr.text(em)+"]", r.g.t)
}

func (r *GlobalRef) emit(em *emitter) Operand {
	src := r.operand(em)
	dst := em.alloc(r.g.t)
	em.src.write(instr("mov", dst.Dst(), src.String()))
	return dst
}

func (r *GlobalRef) validate(v *validator) {
	v.add(r.g.err)
	r.addr.validate(v)
}

func (r *GlobalRef) validateTarget(v *validator) { r.validate(v) }

func (r *GlobalRef) store(em *emitter, e Expr) {
	val := em.expr(e)
	em.move(r.operand(em), val)
}

// ConstantBuffer is a constant buffer of size 16-byte elements bound at
// slot.
type ConstantBuffer struct {
	slot int
	size int
	err  *Error
}

// NewConstantBuffer declares constant buffer cb<slot> with size elements.
func NewConstantBuffer(slot, size int) *ConstantBuffer {
	cb := &ConstantBuffer{slot: slot, size: size}
	if slot < 0 || size <= 0 {
		cb.err = errorf(ErrResourceLimit, "constant buffer cb%d[%d] is empty or misnumbered", slot, size)
	}
	return cb
}

// Elem returns element i read as type t from its leading lanes.
func (cb *ConstantBuffer) Elem(i int, t ValueType) *Named {
	return cb.named(i, t, fmt.Sprintf("cb%d[%d]", cb.slot, i))
}

// Field returns the lanes of element i, e.g. Field(0, Float1, "y") reads
// cb0[0].y.
func (cb *ConstantBuffer) Field(i int, t ValueType, lanes string) *Named {
	return cb.named(i, t, fmt.Sprintf("cb%d[%d].%s", cb.slot, i, lanes))
}

func (cb *ConstantBuffer) named(i int, t ValueType, text string) *Named {
	n := NewNamed(t, text)
	switch {
	case cb.err != nil:
		n.err = cb.err
	case i < 0 || i >= cb.size:
		n.err = errorf(ErrAddress, "constant buffer element %d outside cb%d[%d]", i, cb.slot, cb.size)
	}
	n.declare = func(s *Source) {
		s.cbs[cb.slot] = cb.size
	}
	return n
}

// GlobalIndex is the position of the current work item in the domain.
type GlobalIndex struct {
	t   ValueType
	err *Error
}

// GlobalID returns the position of the current work item as t, a one or
// two component int, uint or float. Pixel shaders take it from the window
// coordinate, compute shaders from the absolute thread id.
func GlobalID(t ValueType) *GlobalIndex {
	id := &GlobalIndex{t: t}
	if t.Components > 2 || t.Kind == KindBool || t.Kind == KindDouble || !t.Valid() {
		id.err = errorf(ErrTypeMismatch, "global id cannot be %s", t)
	}
	return id
}

func (id *GlobalIndex) Type() ValueType {
	if id.err != nil {
		return Invalid
	}
	return id.t
}

func (id *GlobalIndex) emit(em *emitter) Operand {
	n := int(id.t.Components)
	if em.src.target == ComputeShader {
		tid := Reg("vAbsTid0", Int4).Span(0, n)
		if id.t.Kind != KindFloat {
			return tid
		}
		dst := em.alloc(id.t)
		em.src.write(instr("itof", dst.Dst(), tid.String()))
		return dst
	}
	em.src.position = true
	pos := Reg("vWinCoord0", Float4).Span(0, n)
	dst := em.alloc(Vector(KindFloat, n))
	em.src.write(instr("round_neginf", dst.Dst(), pos.String()))
	if id.t.Kind == KindFloat {
		return dst
	}
	mn, _, _ := conversion(id.t.Kind, KindFloat)
	out := em.alloc(id.t)
	em.src.write(instr(mn, out.Dst(), dst.String()))
	return out
}

func (id *GlobalIndex) validate(v *validator) { v.add(id.err) }
