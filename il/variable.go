// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package il

// Assignable is the destination of Source.Assign: a variable, a lane view
// of one, or a global buffer element.
type Assignable interface {
	// Type returns the value type the destination holds.
	Type() ValueType

	store(em *emitter, e Expr)
	validateTarget(v *validator)
}

// Variable is a register declared with Source.Var. It is both an
// expression leaf and an assignment target, and keeps its register for the
// whole compilation unit, which makes it the way to carry values across
// loop iterations.
type Variable struct {
	t   ValueType
	reg int
	op  Operand
	err *Error

	// src and gen identify the compilation unit that owns the register.
	src *Source
	gen uint64
}

// Type returns the variable's value type.
func (v *Variable) Type() ValueType {
	if v.err != nil {
		return Invalid
	}
	return v.t
}

// Register returns the register text, e.g. "r2".
func (v *Variable) Register() string { return v.op.Name }

func (v *Variable) emit(*emitter) Operand { return v.op }

func (v *Variable) validate(val *validator) {
	val.add(v.err)
	switch {
	case v.err != nil:
	case v.op.Name == "":
		val.add(errorf(ErrState, "variable %s was declared outside a compilation unit", v.t))
	case val.src != nil && (v.src != val.src || v.gen != val.src.gen):
		val.add(errorf(ErrState, "variable %s %s belongs to another compilation unit", v.t, v.op.Name))
	}
}

func (v *Variable) validateTarget(val *validator) { v.validate(val) }

func (v *Variable) store(em *emitter, e Expr) {
	if f, args, ok := retargetable(e, v.t); ok {
		em.callInto(v.op, f, args...)
		return
	}
	em.move(v.op, em.expr(e))
}

// Sel reads a component selection of the variable, e.g. v.Sel("yx").
func (v *Variable) Sel(pattern string) Expr {
	return Select(v, pattern)
}

// Lanes returns a view of the named components, e.g. "xz". Assigning to
// the view writes only those components; reading it selects them in
// ascending order.
func (v *Variable) Lanes(mask string) *LaneView {
	lv := &LaneView{v: v}
	m, err := ParseWriteMask(mask)
	if err != nil {
		lv.err = err.(*Error)
		return lv
	}
	lv.sel = m.Swizzle()
	if v.t.Valid() && lv.sel.Max() >= int(v.t.Components) {
		lv.err = errorf(ErrSwizzle, "lanes %q exceed %s", mask, v.t)
	}
	return lv
}

// LaneView is a write-masked part of a Variable.
type LaneView struct {
	v   *Variable
	sel Swizzle
	err *Error
}

// Type returns the type of the selected components.
func (lv *LaneView) Type() ValueType {
	if lv.err != nil || !lv.v.Type().Valid() {
		return Invalid
	}
	return Vector(lv.v.t.Kind, lv.sel.Len())
}

func (lv *LaneView) emit(*emitter) Operand { return lv.v.op.Select(lv.sel) }

func (lv *LaneView) validate(val *validator) {
	lv.v.validate(val)
	val.add(lv.err)
}

func (lv *LaneView) validateTarget(val *validator) { lv.validate(val) }

func (lv *LaneView) store(em *emitter, e Expr) {
	dst := lv.v.op.Select(lv.sel)
	if f, args, ok := retargetable(e, lv.Type()); ok && lv.sel.IsIdentity() {
		em.callInto(dst, f, args...)
		return
	}
	em.move(dst, em.expr(e))
}
