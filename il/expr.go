// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package il

// Expr is an immutable expression tree node. Building an expression never
// produces instructions; a Source linearizes it when it is assigned or
// evaluated.
//
// The set of implementations is closed: nodes, leaves, swizzles, and the
// resource references declared in this package.
type Expr interface {
	// Type returns the value type of the expression, or Invalid when
	// construction failed to type-check.
	Type() ValueType

	emit(em *emitter) Operand
	validate(v *validator)
}

// node holds what every operation node shares: the resolved functor and
// the construction error, if any.
type node struct {
	f   *Functor
	err *Error
}

func (n *node) Type() ValueType {
	if n.f == nil {
		return Invalid
	}
	return n.f.Result
}

// Functor returns the resolved functor, or nil when the node is invalid.
func (n *node) Functor() *Functor { return n.f }

func resolveNode(op Opcode, args ...Expr) node {
	types := make([]ValueType, len(args))
	for i, a := range args {
		types[i] = a.Type()
		if !types[i].Valid() {
			// The operand reports its own error.
			return node{}
		}
	}
	f, err := Resolve(op, types...)
	if err != nil {
		return node{err: err.(*Error)}
	}
	return node{f: f}
}

// Unary applies a one-operand functor.
type Unary struct {
	node
	X Expr
}

// Binary applies a two-operand functor.
type Binary struct {
	node
	X, Y Expr
}

// Ternary applies a three-operand functor.
type Ternary struct {
	node
	X, Y, Z Expr
}

func newUnary(op Opcode, x Expr) *Unary {
	return &Unary{node: resolveNode(op, x), X: x}
}

func newConversion(op Opcode, to ValueType, x Expr) *Unary {
	u := &Unary{X: x}
	if !x.Type().Valid() {
		return u
	}
	f, err := ResolveConversion(op, to, x.Type())
	if err != nil {
		u.err = err.(*Error)
		return u
	}
	u.f = f
	return u
}

func newBinary(op Opcode, x, y Expr) *Binary {
	return &Binary{node: resolveNode(op, x, y), X: x, Y: y}
}

func newTernary(op Opcode, x, y, z Expr) *Ternary {
	return &Ternary{node: resolveNode(op, x, y, z), X: x, Y: y, Z: z}
}

func (u *Unary) emit(em *emitter) Operand   { return em.call(u.f, u.X) }
func (b *Binary) emit(em *emitter) Operand  { return em.call(b.f, b.X, b.Y) }
func (t *Ternary) emit(em *emitter) Operand { return em.call(t.f, t.X, t.Y, t.Z) }

func (u *Unary) validate(v *validator) {
	v.visit(u.X)
	v.add(u.err)
}

func (b *Binary) validate(v *validator) {
	v.visit(b.X)
	v.visit(b.Y)
	v.add(b.err)
}

func (t *Ternary) validate(v *validator) {
	v.visit(t.X)
	v.visit(t.Y)
	v.visit(t.Z)
	v.add(t.err)
}

// operands returns the children of an operation node, or nil for leaves.
func operands(e Expr) []Expr {
	switch n := e.(type) {
	case *Unary:
		return []Expr{n.X}
	case *Binary:
		return []Expr{n.X, n.Y}
	case *Ternary:
		return []Expr{n.X, n.Y, n.Z}
	case *Swizzled:
		return []Expr{n.X}
	}
	return nil
}

// Named is a leaf referring to register text supplied by the caller, such
// as a constant-buffer element.
type Named struct {
	t   ValueType
	op  Operand
	err *Error

	// declare records the resources the operand needs in the header.
	declare func(s *Source)
}

// NewNamed returns a leaf for text such as "cb0[0].x" holding a value of
// type t. A trailing swizzle must cover exactly the lanes of t.
func NewNamed(t ValueType, text string) *Named {
	n := &Named{t: t}
	if !t.Valid() {
		n.err = errorf(ErrTypeMismatch, "named operand %q: invalid type", text)
		return n
	}
	op, err := parseOperand(text, t)
	if err != nil {
		n.err = err.(*Error)
		return n
	}
	n.op = op
	return n
}

func (n *Named) Type() ValueType {
	if n.err != nil {
		return Invalid
	}
	return n.t
}

func (n *Named) emit(em *emitter) Operand {
	if n.declare != nil {
		n.declare(em.src)
	}
	return n.op
}

func (n *Named) validate(v *validator) { v.add(n.err) }

// Swizzled reads a component selection of another expression. Swizzling a
// swizzle folds into a single selection.
type Swizzled struct {
	X       Expr
	Pattern Swizzle
	err     *Error
}

func (s *Swizzled) Type() ValueType {
	if s.err != nil || !s.X.Type().Valid() {
		return Invalid
	}
	return Vector(s.X.Type().Kind, s.Pattern.Len())
}

func (s *Swizzled) emit(em *emitter) Operand {
	return em.expr(s.X).Select(s.Pattern)
}

func (s *Swizzled) validate(v *validator) {
	v.visit(s.X)
	v.add(s.err)
}

func newSwizzled(x Expr, p Swizzle) *Swizzled {
	if inner, ok := x.(*Swizzled); ok && inner.err == nil {
		if err := checkSwizzle(inner.Type(), p); err != nil {
			return &Swizzled{X: x, Pattern: p, err: err}
		}
		return &Swizzled{X: inner.X, Pattern: inner.Pattern.Then(p)}
	}
	return &Swizzled{X: x, Pattern: p, err: checkSwizzle(x.Type(), p)}
}

func checkSwizzle(t ValueType, p Swizzle) *Error {
	if !t.Valid() {
		return nil
	}
	if p.Max() >= int(t.Components) {
		return errorf(ErrSwizzle, "swizzle %q selects beyond %s", p, t)
	}
	if !Vector(t.Kind, p.Len()).Valid() {
		return errorf(ErrSwizzle, "swizzle %q of %s yields %d components", p, t, p.Len())
	}
	return nil
}
