// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package il

import (
	"errors"
	"strings"
	"testing"
)

func TestLiteral_Bits(t *testing.T) {
	tests := []struct {
		name string
		lit  *Literal
		want [4]uint32
	}{
		{"float one", Const(Float1, 1.0), [4]uint32{0x3F800000, 0x3F800000, 0x3F800000, 0x3F800000}},
		{"float from int", Const(Float4, 2), [4]uint32{0x40000000, 0x40000000, 0x40000000, 0x40000000}},
		{"float pair", Vec(Float2, 1, 2), [4]uint32{0x3F800000, 0x40000000, 0x3F800000, 0x40000000}},
		{"float vec4", Vec(Float4, 0, 1, 2, -2), [4]uint32{0, 0x3F800000, 0x40000000, 0xC0000000}},
		{"double one", Const(Double1, 1.0), [4]uint32{0, 0x3FF00000, 0, 0x3FF00000}},
		{"int minus one", Const(Int1, -1), [4]uint32{0xFFFFFFFF, 0xFFFFFFFF, 0xFFFFFFFF, 0xFFFFFFFF}},
		{"int from float", Const(Int1, 2.0), [4]uint32{2, 2, 2, 2}},
		{"int from negative float", Const(Int1, -3.0), [4]uint32{0xFFFFFFFD, 0xFFFFFFFD, 0xFFFFFFFD, 0xFFFFFFFD}},
		{"uint from float32", Vec(Uint2, float32(4), 5), [4]uint32{4, 5, 4, 5}},
		{"uint", Vec(Uint2, uint32(7), 9), [4]uint32{7, 9, 7, 9}},
		{"bool", Vec(Bool2, 1, 0), [4]uint32{0xFFFFFFFF, 0, 0xFFFFFFFF, 0}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := Validate(tt.lit); err != nil {
				t.Fatalf("Validate: %v", err)
			}
			if got := tt.lit.Bits(); got != tt.want {
				t.Errorf("Bits() = %#x, want %#x", got, tt.want)
			}
		})
	}
}

func TestLiteral_Errors(t *testing.T) {
	tests := []struct {
		name string
		lit  *Literal
		kind ErrorKind
	}{
		{"negative uint", Const(Uint1, -1), ErrConstantRange},
		{"int overflow", Const(Int1, int64(1)<<40), ErrConstantRange},
		{"float overflow", Const(Float1, 1e39), ErrConstantRange},
		{"fractional int", Const(Int1, 1.5), ErrConstantRange},
		{"negative float to uint", Const(Uint1, -2.0), ErrConstantRange},
		{"float int overflow", Const(Int1, 1e10), ErrConstantRange},
		{"too few values", Vec(Float4, 1, 2), ErrTypeMismatch},
		{"invalid type", Const(Invalid, 1), ErrTypeMismatch},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Validate(tt.lit)
			var ilErr *Error
			if !errors.As(err, &ilErr) || ilErr.Kind != tt.kind {
				t.Errorf("Validate() = %v, want %s", err, tt.kind)
			}
			if tt.lit.Type() != Invalid {
				t.Errorf("Type() = %s, want invalid", tt.lit.Type())
			}
		})
	}
}

func TestLiteral_Declarations(t *testing.T) {
	s := newBuilding(t)
	a := s.Var(Float4)

	op, err := s.Eval(Const(Float1, 3))
	if err != nil {
		t.Fatal(err)
	}
	if op.String() != "l0.x" {
		t.Errorf("literal operand = %q, want l0.x", op)
	}
	if s.Instructions() != 0 {
		t.Errorf("literal emitted %d instructions", s.Instructions())
	}

	// Equal bit patterns share one declaration; order follows first use.
	s.Assign(a, AddK(a, 2))
	s.Assign(a, MulK(a, 2.0))
	s.Assign(a, KSub(1, a))
	if s.Literals() != 3 {
		t.Errorf("Literals() = %d, want 3", s.Literals())
	}
	if err := s.End(); err != nil {
		t.Fatal(err)
	}

	wantCode := "add r0,r0,l1\nmul r0,r0,l1\nsub r0,l2,r0\nend\n"
	if got := s.Code(); got != wantCode {
		t.Errorf("Code() =\n%s\nwant\n%s", got, wantCode)
	}

	header := s.Header()
	for _, want := range []string{
		"dcl_literal l0, 0x40400000, 0x40400000, 0x40400000, 0x40400000\n",
		"dcl_literal l1, 0x40000000, 0x40000000, 0x40000000, 0x40000000\n",
		"dcl_literal l2, 0x3F800000, 0x3F800000, 0x3F800000, 0x3F800000\n",
	} {
		if !strings.Contains(header, want) {
			t.Errorf("header lacks %q:\n%s", want, header)
		}
	}
	if strings.Index(header, "l0,") > strings.Index(header, "l2,") {
		t.Error("literals are not declared in first-use order")
	}
}

func TestLift_InvalidOperand(t *testing.T) {
	s := newBuilding(t)
	a, i := s.Var(Float4), s.Var(Int4)

	// The constant takes no type of its own, so only the bad operand
	// reports an error.
	err := Validate(AddK(Add(a, i), 1))
	var list ErrorList
	if !errors.As(err, &list) || len(list) != 1 {
		t.Errorf("Validate() = %v, want one error", err)
	}
}

func TestLift_FloatConstantIntoInt(t *testing.T) {
	s := newBuilding(t)
	i := s.Var(Int1)

	s.Assign(i, AddK(i, 2.0))
	if err := s.Err(); err != nil {
		t.Fatalf("AddK(int1, 2.0): %v", err)
	}
	if got := body(t, s); got != "iadd r0.x___,r0.x,l0.x\n" {
		t.Errorf("code = %q", got)
	}

	var ilErr *Error
	if err := Validate(AddK(i, 2.5)); !errors.As(err, &ilErr) || ilErr.Kind != ErrConstantRange {
		t.Errorf("AddK(int1, 2.5) = %v, want ConstantRange", err)
	}
}
