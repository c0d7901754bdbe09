// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package il

import "strconv"

// Address indexes a buffer. It either binds a scalar expression plus a
// constant offset, or is a constant offset alone. Offset arithmetic folds
// into the operand text and never allocates a register.
type Address struct {
	base  Expr
	off   int
	err   *Error
	bound bool
}

// Addr returns the address held by e, which must be an Int1, Uint1 or
// Float1 expression.
func Addr(e Expr) Address {
	a := Address{base: e, bound: true}
	if e == nil {
		a.err = errorf(ErrAddress, "address of nil expression")
		return a
	}
	switch t := e.Type(); t {
	case Int1, Uint1, Float1, Invalid:
	default:
		a.err = errorf(ErrAddress, "address must be a scalar int, uint or float, got %s", t)
	}
	return a
}

// Offset returns the constant address n.
func Offset(n int) Address {
	return Address{off: n}
}

// Add returns the address n elements further.
func (a Address) Add(n int) Address {
	a.off += n
	return a
}

// Sub returns the address n elements back.
func (a Address) Sub(n int) Address {
	a.off -= n
	return a
}

// Bound reports whether the address reads a register.
func (a Address) Bound() bool { return a.bound }

// Const returns the constant offset part.
func (a Address) Const() int { return a.off }

func (a Address) validate(v *validator) {
	v.add(a.err)
	if a.bound && a.err == nil {
		v.visit(a.base)
	}
}

// text emits the base expression, if any, and returns the index text,
// e.g. "r2.x+4", "r2.x-1" or "12".
func (a Address) text(em *emitter) string {
	if !a.bound {
		return strconv.Itoa(a.off)
	}
	base := em.expr(a.base).String()
	switch {
	case a.off > 0:
		return base + "+" + strconv.Itoa(a.off)
	case a.off < 0:
		return base + "-" + strconv.Itoa(-a.off)
	default:
		return base
	}
}
