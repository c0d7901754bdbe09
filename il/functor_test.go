// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package il

import (
	"errors"
	"strings"
	"testing"
)

// emitWith formats f with operands r1, r2, ... of its argument types, the
// result in r0 and scratch registers t0, t1, ...
func emitWith(f *Functor) string {
	src := make([]Operand, len(f.Args))
	for i, a := range f.Args {
		src[i] = Reg("r"+string(rune('1'+i)), a)
	}
	tmp := make([]Operand, f.Temps)
	for i := range tmp {
		tmp[i] = Reg("t"+string(rune('0'+i)), f.Result)
	}
	return f.Emit(Reg("r0", f.Result), src, tmp)
}

func TestResolve_Emission(t *testing.T) {
	tests := []struct {
		name string
		op   Opcode
		args []ValueType
		want string
	}{
		{"add float", OpAdd, []ValueType{Float4, Float4}, "add r0,r1,r2\n"},
		{"add int", OpAdd, []ValueType{Int4, Int4}, "iadd r0,r1,r2\n"},
		{"add double", OpAdd, []ValueType{Double2, Double2}, "dadd r0,r1,r2\n"},
		{"add broadcast", OpAdd, []ValueType{Float4, Float1}, "add r0,r1,r2.xxxx\n"},
		{"sub float", OpSub, []ValueType{Float2, Float2}, "sub r0.xy__,r1.xy,r2.xy\n"},
		{"sub double", OpSub, []ValueType{Double1, Double1}, "dadd r0.xy__,r1.xy,r2.xy_neg(y)\n"},
		{"sub int", OpSub, []ValueType{Int4, Int4}, "inegate t0,r2\niadd r0,r1,t0\n"},
		{"mul uint", OpMul, []ValueType{Uint4, Uint4}, "umul r0,r1,r2\n"},
		{"div float", OpDiv, []ValueType{Float4, Float4}, "div_zeroop(infinity) r0,r1,r2\n"},
		{"mod uint", OpMod, []ValueType{Uint1, Uint1}, "umod r0.x___,r1.x,r2.x\n"},
		{"mod float", OpMod, []ValueType{Float4, Float4},
			"div_zeroop(infinity) t0,r1,r2\nround_neginf t0,t0\nmad r0,t0_neg(xyzw),r2,r1\n"},
		{"min uint", OpMin, []ValueType{Uint4, Uint4}, "umin r0,r1,r2\n"},
		{"and bool", OpAnd, []ValueType{Bool4, Bool4}, "iand r0,r1,r2\n"},
		{"shr int", OpShr, []ValueType{Int4, Int1}, "ishr r0,r1,r2.xxxx\n"},
		{"shr uint", OpShr, []ValueType{Uint4, Uint4}, "ushr r0,r1,r2\n"},
		{"lt uint", OpLt, []ValueType{Uint4, Uint4}, "ult r0,r1,r2\n"},
		{"gt float swaps", OpGt, []ValueType{Float4, Float4}, "lt r0,r2,r1\n"},
		{"le int swaps", OpLe, []ValueType{Int4, Int4}, "ige r0,r2,r1\n"},
		{"eq double", OpEq, []ValueType{Double1, Double1}, "deq r0.x___,r1.xy,r2.xy\n"},
		{"dot4", OpDot, []ValueType{Float4, Float4}, "dp4_ieee r0.x___,r1,r2\n"},
		{"neg float", OpNeg, []ValueType{Float4}, "mov r0,r1_neg(xyzw)\n"},
		{"neg int", OpNeg, []ValueType{Int2}, "inegate r0.xy__,r1.xy\n"},
		{"not bool", OpNot, []ValueType{Bool1}, "inot r0.x___,r1.x\n"},
		{"sqrt", OpSqrt, []ValueType{Float4}, "sqrt_vec r0,r1\n"},
		{"floor", OpFloor, []ValueType{Float2}, "round_neginf r0.xy__,r1.xy\n"},
		{"mad float", OpMad, []ValueType{Float4, Float4, Float4}, "mad r0,r1,r2,r3\n"},
		{"mad double", OpMad, []ValueType{Double2, Double2, Double2}, "dmad r0,r1,r2,r3\n"},
		{"mad uint", OpMad, []ValueType{Uint4, Uint1, Uint4}, "umad r0,r1,r2.xxxx,r3\n"},
		{"cmov", OpSelect, []ValueType{Bool1, Float4, Float4}, "cmov_logical r0,r1.xxxx,r2,r3\n"},
		{"bfi", OpBFI, []ValueType{Uint4, Uint4, Uint4}, "bfi r0,r1,r2,r3\n"},
		{"ubit_extract", OpBitExtract, []ValueType{Uint4, Uint4, Uint4}, "ubit_extract r0,r1,r2,r3\n"},
		{"ibit_extract", OpBitExtract, []ValueType{Int2, Uint2, Uint2}, "ibit_extract r0.xy__,r1.xy,r2.xy,r3.xy\n"},
		{"bitalign", OpBitAlign, []ValueType{Uint2, Uint2, Uint2},
			"bitalign r0.x___,r1.x,r2.x,r3.x\nbitalign r0._y__,r1.y,r2.y,r3.y\n"},
		{"bytealign scalar", OpByteAlign, []ValueType{Uint1, Uint1, Uint1}, "bytealign r0.x___,r1.x,r2.x,r3.x\n"},
		{"bitalign int shift", OpBitAlign, []ValueType{Uint1, Uint1, Int1}, "bitalign r0.x___,r1.x,r2.x,r3.x\n"},
		{"bitalign float shift", OpBitAlign, []ValueType{Int1, Int1, Float1}, "bitalign r0.x___,r1.x,r2.x,r3.x\n"},
		{"merge", OpMerge, []ValueType{Float1, Int1}, "mov r0.x___,r1.x\nitof r0._y__,r2.x\n"},
		{"merge pairs", OpMerge, []ValueType{Float2, Float2}, "mov r0.xy__,r1.xy\nmov r0.__zw,r2.xxxy\n"},
		{"merge int uint", OpMerge, []ValueType{Int1, Uint1}, "mov r0.x___,r1.x\nmov r0._y__,r2.x\n"},
		{"merge uint int", OpMerge, []ValueType{Uint1, Int1}, "mov r0.x___,r1.x\nmov r0._y__,r2.x\n"},
		{"merge double float", OpMerge, []ValueType{Double1, Float1}, "mov r0.xy__,r1.xy\nf2d r0.__zw,r2.x\n"},
		{"merge float double", OpMerge, []ValueType{Float1, Double1}, "mov r0.x___,r1.x\nd2f r0._y__,r2.xy\n"},
		{"merge float2 doubles", OpMerge, []ValueType{Float2, Double2},
			"mov r0.xy__,r1.xy\nd2f r0.__z_,r2.xy\nd2f r0.___w,r2.zw\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f, err := Resolve(tt.op, tt.args...)
			if err != nil {
				t.Fatalf("Resolve(%s, %v): %v", tt.op, tt.args, err)
			}
			if got := emitWith(f); got != tt.want {
				t.Errorf("emission =\n%s\nwant\n%s", got, tt.want)
			}
		})
	}
}

func TestResolve_Rejects(t *testing.T) {
	tests := []struct {
		name string
		op   Opcode
		args []ValueType
	}{
		{"mixed kinds", OpAdd, []ValueType{Float4, Int4}},
		{"mixed widths", OpAdd, []ValueType{Float4, Float2}},
		{"bool arithmetic", OpMul, []ValueType{Bool4, Bool4}},
		{"float bitwise", OpAnd, []ValueType{Float4, Float4}},
		{"float shift amount", OpShl, []ValueType{Int4, Float4}},
		{"double vector compare", OpLt, []ValueType{Double2, Double2}},
		{"double mod", OpMod, []ValueType{Double1, Double1}},
		{"int sqrt", OpSqrt, []ValueType{Int4}},
		{"dot1", OpDot, []ValueType{Float1, Float1}},
		{"uint neg", OpNeg, []ValueType{Uint4}},
		{"merge too wide", OpMerge, []ValueType{Float4, Float1}},
		{"merge float3", OpMerge, []ValueType{Float2, Double1}},
		{"merge bool float", OpMerge, []ValueType{Bool1, Float1}},
		{"float mad", OpMad, []ValueType{Float4, Int4, Float4}},
		{"cmov float cond", OpSelect, []ValueType{Float1, Float4, Float4}},
		{"cmov double", OpSelect, []ValueType{Bool1, Double1, Double1}},
		{"bitextract float", OpBitExtract, []ValueType{Float4, Uint4, Uint4}},
		{"bitextract int width", OpBitExtract, []ValueType{Uint4, Int4, Int4}},
		{"bitalign float", OpBitAlign, []ValueType{Float1, Float1, Uint1}},
		{"bitalign double shift", OpBitAlign, []ValueType{Uint1, Uint1, Double1}},
		{"bitalign shift width", OpBitAlign, []ValueType{Uint2, Uint2, Uint1}},
		{"arity", OpAdd, []ValueType{Float4}},
		{"cast", OpCast, []ValueType{Float4}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f, err := Resolve(tt.op, tt.args...)
			if err == nil {
				t.Fatalf("Resolve(%s, %v) = %s, want error", tt.op, tt.args, f)
			}
			var ilErr *Error
			if !errors.As(err, &ilErr) || ilErr.Kind != ErrTypeMismatch {
				t.Errorf("error = %v, want TypeMismatch", err)
			}
		})
	}
}

func TestResolveConversion(t *testing.T) {
	tests := []struct {
		name     string
		op       Opcode
		to, from ValueType
		want     string
		single   bool
	}{
		{"itof", OpCast, Float4, Int4, "itof r0,r1\n", true},
		{"ftou", OpCast, Uint1, Float1, "ftou r0.x___,r1.x\n", true},
		{"int to uint", OpCast, Uint2, Int2, "mov r0.xy__,r1.xy\n", true},
		{"f2d", OpCast, Double2, Float2, "f2d r0.xy__,r1.x\nf2d r0.__zw,r1.y\n", false},
		{"d2f scalar", OpCast, Float1, Double1, "d2f r0.x___,r1.xy\n", true},
		{"bitcast", OpBitcast, Float4, Uint4, "mov r0,r1\n", true},
		{"bitcast double", OpBitcast, Double1, Uint2, "mov r0.xy__,r1.xy\n", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f, err := ResolveConversion(tt.op, tt.to, tt.from)
			if err != nil {
				t.Fatalf("ResolveConversion: %v", err)
			}
			if got := emitWith(f); got != tt.want {
				t.Errorf("emission = %q, want %q", got, tt.want)
			}
			if f.SingleInstruction() != tt.single {
				t.Errorf("SingleInstruction() = %v, want %v", f.SingleInstruction(), tt.single)
			}
		})
	}

	rejects := []struct {
		op       Opcode
		to, from ValueType
	}{
		{OpCast, Float4, Float2},
		{OpCast, Bool1, Float1},
		{OpCast, Float1, Bool1},
		{OpBitcast, Float4, Float2},
		{OpAdd, Float4, Float4},
	}
	for _, tt := range rejects {
		if _, err := ResolveConversion(tt.op, tt.to, tt.from); err == nil {
			t.Errorf("ResolveConversion(%s, %s, %s) succeeded, want error", tt.op, tt.to, tt.from)
		}
	}
}

// Merging operands of different kinds must convert the second operand
// explicitly: no merge of distinct kinds may be a plain move.
func TestMerge_DistinctKindsConvert(t *testing.T) {
	scalars := []ValueType{Int1, Uint1, Float1, Double1}
	for _, lo := range scalars {
		for _, hi := range scalars {
			if lo.Kind == hi.Kind {
				continue
			}
			f, err := Resolve(OpMerge, lo, hi)
			if err != nil {
				t.Errorf("merge(%s, %s): %v", lo, hi, err)
				continue
			}
			if f.SingleInstruction() {
				t.Errorf("merge(%s, %s) is a single instruction", lo, hi)
			}
			lines := strings.Split(strings.TrimSuffix(emitWith(f), "\n"), "\n")
			if len(lines) != 2 {
				t.Fatalf("merge(%s, %s) emitted %d lines, want 2", lo, hi, len(lines))
			}
			mn, _, _ := conversion(lo.Kind, hi.Kind)
			if !strings.HasPrefix(lines[1], mn+" ") || !strings.Contains(lines[1], "r2") {
				t.Errorf("merge(%s, %s) writes hi with %q, want %s from r2", lo, hi, lines[1], mn)
			}
		}
	}
}

func TestSignatures(t *testing.T) {
	for op := Opcode(0); op < opCount; op++ {
		sigs := Signatures(op)
		if len(sigs) == 0 {
			t.Errorf("%s has no signatures", op)
			continue
		}
		for _, f := range sigs {
			if f.Op != op {
				t.Errorf("%s: functor reports op %s", op, f.Op)
			}
			if !f.Result.Valid() {
				t.Errorf("%s: invalid result type", f)
			}
			if len(f.Args) != op.Arity() {
				t.Errorf("%s: %d args, want %d", f, len(f.Args), op.Arity())
			}
		}
	}
}

func TestFunctor_String(t *testing.T) {
	f, err := Resolve(OpMad, Float4, Float4, Float4)
	if err != nil {
		t.Fatal(err)
	}
	want := "mad(float4, float4, float4) float4"
	if got := f.String(); got != want {
		t.Errorf("String() = %q, want %q", got, want)
	}
	if !f.SingleInstruction() {
		t.Error("mad must be a single instruction")
	}
}

func TestOpcode_Arity(t *testing.T) {
	tests := []struct {
		op    Opcode
		arity int
	}{
		{OpNeg, 1}, {OpBitcast, 1}, {OpAdd, 2}, {OpMerge, 2},
		{OpMad, 3}, {OpBitExtract, 3},
	}
	for _, tt := range tests {
		if got := tt.op.Arity(); got != tt.arity {
			t.Errorf("%s.Arity() = %d, want %d", tt.op, got, tt.arity)
		}
	}
}
