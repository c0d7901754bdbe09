// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package il

import "fmt"

// BaseKind is the scalar kind of a GPU value.
type BaseKind uint8

const (
	KindInvalid BaseKind = iota
	KindInt
	KindUint
	KindFloat
	KindDouble
	KindBool
)

// String returns the IL-facing kind name.
func (k BaseKind) String() string {
	switch k {
	case KindInt:
		return "int"
	case KindUint:
		return "uint"
	case KindFloat:
		return "float"
	case KindDouble:
		return "double"
	case KindBool:
		return "bool"
	default:
		return "invalid"
	}
}

// IsInteger reports whether the kind is int or uint.
func (k BaseKind) IsInteger() bool {
	return k == KindInt || k == KindUint
}

// IsFloating reports whether the kind is float or double.
func (k BaseKind) IsFloating() bool {
	return k == KindFloat || k == KindDouble
}

// ValueType identifies a GPU value: a base kind and a component count.
// Values are small and compared with ==.
type ValueType struct {
	Kind       BaseKind
	Components uint8
}

// The fixed value-type catalog.
var (
	Invalid = ValueType{}

	Int1 = ValueType{KindInt, 1}
	Int2 = ValueType{KindInt, 2}
	Int4 = ValueType{KindInt, 4}

	Uint1 = ValueType{KindUint, 1}
	Uint2 = ValueType{KindUint, 2}
	Uint4 = ValueType{KindUint, 4}

	Float1 = ValueType{KindFloat, 1}
	Float2 = ValueType{KindFloat, 2}
	Float4 = ValueType{KindFloat, 4}

	// A double occupies two 32-bit lanes, so a register holds at most two.
	Double1 = ValueType{KindDouble, 1}
	Double2 = ValueType{KindDouble, 2}

	Bool1 = ValueType{KindBool, 1}
	Bool2 = ValueType{KindBool, 2}
	Bool4 = ValueType{KindBool, 4}
)

// Catalog lists every valid value type in a stable order.
func Catalog() []ValueType {
	return []ValueType{
		Int1, Int2, Int4,
		Uint1, Uint2, Uint4,
		Float1, Float2, Float4,
		Double1, Double2,
		Bool1, Bool2, Bool4,
	}
}

// Vector returns the catalog type of the given kind and width, or Invalid.
func Vector(kind BaseKind, components int) ValueType {
	t := ValueType{Kind: kind, Components: uint8(components)}
	if components < 1 || components > 4 || !t.Valid() {
		return Invalid
	}
	return t
}

// Valid reports whether t is part of the catalog.
func (t ValueType) Valid() bool {
	switch t.Components {
	case 1, 2:
		return t.Kind != KindInvalid
	case 4:
		return t.Kind != KindInvalid && t.Kind != KindDouble
	default:
		return false
	}
}

// LaneWidth is the number of 32-bit register lanes one component occupies.
func (t ValueType) LaneWidth() int {
	if t.Kind == KindDouble {
		return 2
	}
	return 1
}

// Lanes is the number of 32-bit register lanes the whole value occupies.
func (t ValueType) Lanes() int {
	return int(t.Components) * t.LaneWidth()
}

// Scalar returns the one-component type of the same kind.
func (t ValueType) Scalar() ValueType {
	return ValueType{Kind: t.Kind, Components: 1}
}

// WithKind returns the type with the same width and another kind.
func (t ValueType) WithKind(kind BaseKind) ValueType {
	return Vector(kind, int(t.Components))
}

// String returns names like "float4" or "uint1".
func (t ValueType) String() string {
	if !t.Valid() {
		return "invalid"
	}
	return fmt.Sprintf("%s%d", t.Kind, t.Components)
}
