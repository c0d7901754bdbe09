// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package il

import (
	"math"

	"fortio.org/safecast"
)

// Number is any Go numeric type usable as a host constant.
type Number interface {
	~int | ~int8 | ~int16 | ~int32 | ~int64 |
		~uint | ~uint8 | ~uint16 | ~uint32 | ~uint64 |
		~float32 | ~float64
}

// Literal is a constant leaf. Its bits are declared once in the program
// header with dcl_literal and read through an l register.
type Literal struct {
	t    ValueType
	bits [4]uint32
	err  *Error
}

// Const lifts a host constant to a literal of type t, replicated across
// every component.
func Const[T Number](t ValueType, k T) *Literal {
	vals := make([]T, t.Components)
	for i := range vals {
		vals[i] = k
	}
	return Vec(t, vals...)
}

// Vec builds a literal of type t from one host value per component.
func Vec[T Number](t ValueType, vals ...T) *Literal {
	l := &Literal{t: t}
	if !t.Valid() {
		l.err = errorf(ErrTypeMismatch, "literal: invalid type")
		return l
	}
	if len(vals) != int(t.Components) {
		l.err = errorf(ErrTypeMismatch, "literal %s needs %d values, got %d", t, t.Components, len(vals))
		return l
	}
	var lanes []uint32
	for _, v := range vals {
		bits, err := constBits(t.Kind, v)
		if err != nil {
			l.err = errorf(ErrConstantRange, "literal %s: %v", t, err)
			return l
		}
		lanes = append(lanes, bits...)
	}
	// Unused lanes repeat the value pattern so any swizzle reads a defined
	// value.
	for i := range l.bits {
		l.bits[i] = lanes[i%len(lanes)]
	}
	return l
}

func constBits[T Number](kind BaseKind, k T) ([]uint32, error) {
	switch kind {
	case KindFloat:
		f := float64(k)
		if math.Abs(f) > math.MaxFloat32 {
			return nil, errorf(ErrConstantRange, "%v overflows float", f)
		}
		return []uint32{math.Float32bits(float32(f))}, nil
	case KindDouble:
		b := math.Float64bits(float64(k))
		return []uint32{uint32(b), uint32(b >> 32)}, nil
	case KindInt:
		v, err := safecast.Convert[int32](k)
		if err != nil {
			return nil, err
		}
		return []uint32{uint32(v)}, nil
	case KindUint:
		v, err := safecast.Convert[uint32](k)
		if err != nil {
			return nil, err
		}
		return []uint32{v}, nil
	case KindBool:
		if k != 0 {
			return []uint32{math.MaxUint32}, nil
		}
		return []uint32{0}, nil
	}
	return nil, errorf(ErrTypeMismatch, "no literal encoding for %s", kind)
}

// Bits returns the four 32-bit lanes declared for the literal.
func (l *Literal) Bits() [4]uint32 { return l.bits }

func (l *Literal) Type() ValueType {
	if l.err != nil {
		return Invalid
	}
	return l.t
}

func (l *Literal) emit(em *emitter) Operand {
	return Reg(em.src.literal(l.bits), l.t)
}

func (l *Literal) validate(v *validator) { v.add(l.err) }
