// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package il

// emitter linearizes validated expression trees into the instruction
// stream of its Source. Registers are never reclaimed: every result and
// scratch register takes the next index, so numbering follows the
// depth-first, operands-first walk.
type emitter struct {
	src *Source
}

// expr emits e and returns the operand holding its value.
func (em *emitter) expr(e Expr) Operand {
	return e.emit(em)
}

// alloc takes the next register for a value of type t.
func (em *emitter) alloc(t ValueType) Operand {
	r := em.src.next
	em.src.next++
	return Reg(regName(r), t)
}

// args emits the operands of a node left to right.
func (em *emitter) args(args []Expr) []Operand {
	ops := make([]Operand, len(args))
	for i, a := range args {
		ops[i] = em.expr(a)
	}
	return ops
}

// temps allocates the scratch registers f needs. They follow the result
// register.
func (em *emitter) temps(f *Functor) []Operand {
	if f.Temps == 0 {
		return nil
	}
	tmp := make([]Operand, f.Temps)
	for i := range tmp {
		tmp[i] = em.alloc(f.Result)
	}
	return tmp
}

// call emits the operands of a node, then the node itself into a fresh
// result register.
func (em *emitter) call(f *Functor, args ...Expr) Operand {
	src := em.args(args)
	dst := em.alloc(f.Result)
	em.src.write(f.Emit(dst, src, em.temps(f)))
	return dst
}

// callInto emits a node writing its result straight into dst. Only
// single-instruction functors may be retargeted, since they read every
// source before writing.
func (em *emitter) callInto(dst Operand, f *Functor, args ...Expr) {
	src := em.args(args)
	em.src.write(f.Emit(dst, src, em.temps(f)))
}

// move copies a value into dst, broadcasting a scalar to the width of dst
// and lining lanes up with the write mask.
func (em *emitter) move(dst, val Operand) {
	if n := dst.Components(); val.Components() == 1 && n > 1 {
		val = val.Splat(n)
	}
	em.src.write(instr("mov", dst.Dst(), val.AlignedTo(dst)))
}

// retargetable returns the functor and operands of e when e is an
// operation node whose result may be written straight into a register of
// type t.
func retargetable(e Expr, t ValueType) (*Functor, []Expr, bool) {
	var f *Functor
	switch n := e.(type) {
	case *Unary:
		f = n.f
	case *Binary:
		f = n.f
	case *Ternary:
		f = n.f
	default:
		return nil, nil, false
	}
	if f == nil || !f.single || f.Result != t {
		return nil, nil, false
	}
	return f, operands(e), true
}
