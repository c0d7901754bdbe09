// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package il

// validator collects construction errors from an expression tree. When
// src is set, variables must also belong to its current compilation unit.
type validator struct {
	src  *Source
	errs ErrorList
}

func (v *validator) visit(e Expr) {
	if e == nil {
		v.errs = append(v.errs, errorf(ErrTypeMismatch, "nil expression"))
		return
	}
	e.validate(v)
}

func (v *validator) add(err *Error) {
	if err != nil {
		v.errs = append(v.errs, err)
	}
}

func (v *validator) result() error {
	if len(v.errs) == 0 {
		return nil
	}
	return v.errs
}

// Validate reports every construction error in the tree rooted at e.
// Variables are checked against their compilation unit only when the tree
// is evaluated or assigned by a Source.
func Validate(e Expr) error {
	var v validator
	v.visit(e)
	return v.result()
}

// validate is Validate with the variables of e checked against s.
func (s *Source) validate(e Expr) error {
	v := validator{src: s}
	v.visit(e)
	return v.result()
}

// validateAssign checks e and dst, then that e's value fits dst: the
// same type, or a scalar of the same kind broadcast to dst's width.
func (s *Source) validateAssign(dst Assignable, e Expr) error {
	v := validator{src: s}
	if dst == nil {
		v.add(errorf(ErrTypeMismatch, "assignment to nil target"))
		return v.result()
	}
	dst.validateTarget(&v)
	v.visit(e)
	if len(v.errs) > 0 {
		return v.result()
	}
	to, from := dst.Type(), e.Type()
	if to != from && (from.Components != 1 || from.Kind != to.Kind) {
		v.add(errorf(ErrTypeMismatch, "cannot assign %s to %s", from, to))
	}
	return v.result()
}
