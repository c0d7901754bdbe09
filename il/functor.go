// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package il

import (
	"fmt"
	"strings"
)

// Opcode identifies an operation of the DSL.
type Opcode uint8

const (
	OpNeg Opcode = iota
	OpBitNot
	OpNot
	OpAbs
	OpSqrt
	OpRsqrt
	OpFloor
	OpCeil
	OpFract
	OpCast
	OpBitcast

	OpAdd
	OpSub
	OpMul
	OpDiv
	OpMod
	OpMin
	OpMax
	OpAnd
	OpOr
	OpXor
	OpShl
	OpShr
	OpEq
	OpNe
	OpLt
	OpLe
	OpGt
	OpGe
	OpDot
	OpMerge

	OpMad
	OpSelect
	OpBitAlign
	OpByteAlign
	OpBFI
	OpBitExtract

	opCount
)

var opNames = [opCount]string{
	OpNeg: "neg", OpBitNot: "bitnot", OpNot: "not", OpAbs: "abs", OpSqrt: "sqrt",
	OpRsqrt: "rsqrt", OpFloor: "floor", OpCeil: "ceil", OpFract: "fract",
	OpCast: "cast", OpBitcast: "bitcast",
	OpAdd: "add", OpSub: "sub", OpMul: "mul", OpDiv: "div", OpMod: "mod",
	OpMin: "min", OpMax: "max", OpAnd: "and", OpOr: "or", OpXor: "xor",
	OpShl: "shl", OpShr: "shr", OpEq: "eq", OpNe: "ne", OpLt: "lt", OpLe: "le",
	OpGt: "gt", OpGe: "ge", OpDot: "dot", OpMerge: "merge",
	OpMad: "mad", OpSelect: "select", OpBitAlign: "bitalign",
	OpByteAlign: "bytealign", OpBFI: "bfi", OpBitExtract: "bitextract",
}

// String returns the DSL name of the operation.
func (op Opcode) String() string {
	if op < opCount {
		return opNames[op]
	}
	return fmt.Sprintf("op(%d)", uint8(op))
}

// Arity returns the number of operands the operation takes.
func (op Opcode) Arity() int {
	switch {
	case op <= OpBitcast:
		return 1
	case op <= OpMerge:
		return 2
	default:
		return 3
	}
}

// emitFunc formats the instructions of one operation. dst is the result
// register, src the resolved operands, tmp the scratch registers.
type emitFunc func(dst Operand, src, tmp []Operand) string

// Functor is a stateless operation descriptor: the operand types it
// accepts, the type it produces, the scratch registers it needs and the
// text it emits. Functors are shared through the dispatch table.
type Functor struct {
	Op     Opcode
	Args   []ValueType
	Result ValueType

	// Temps is the number of scratch registers the emission needs.
	Temps int

	// single reports that the emission is one instruction reading all of
	// its sources before writing dst, so dst may alias a source.
	single bool

	// splat broadcasts scalar operands to the result width.
	splat bool

	emit emitFunc
}

// SingleInstruction reports whether the functor emits exactly one
// instruction, so its result may be written straight into a variable.
func (f *Functor) SingleInstruction() bool {
	return f.single
}

// Emit formats the functor's instructions for resolved operands.
func (f *Functor) Emit(dst Operand, src, tmp []Operand) string {
	if f.splat {
		n := int(f.Result.Components)
		args := make([]Operand, len(src))
		for i, s := range src {
			if f.Args[i].Components == 1 && n > 1 {
				s = s.Splat(n)
			}
			args[i] = s
		}
		src = args
	}
	return f.emit(dst, src, tmp)
}

// String returns the signature, e.g. "mad(float4, float4, float4) float4".
func (f *Functor) String() string {
	return signatureString(f.Op, f.Args) + " " + f.Result.String()
}

func signatureString(op Opcode, args []ValueType) string {
	parts := make([]string, len(args))
	for i, a := range args {
		parts[i] = a.String()
	}
	return op.String() + "(" + strings.Join(parts, ", ") + ")"
}

// instr formats one IL instruction: "mnemonic dst,src0,src1\n".
func instr(mnemonic string, operands ...string) string {
	return mnemonic + " " + strings.Join(operands, ",") + "\n"
}

// signature is a dispatch-table key. to is set for conversions only.
type signature struct {
	op   Opcode
	to   ValueType
	args [3]ValueType
}

func makeSignature(op Opcode, to ValueType, args []ValueType) signature {
	sig := signature{op: op, to: to}
	copy(sig.args[:], args)
	return sig
}

// rule decides whether an operation accepts the argument types and, if so,
// builds its functor. Conversion rules receive the target type as to.
type rule func(to ValueType, args []ValueType) *Functor

var (
	rules = map[Opcode]rule{}
	table = map[signature]*Functor{}
)

// register installs the rule for op. Rules are expanded over the whole
// catalog when the package initializes.
func register(op Opcode, r rule) {
	rules[op] = r
}

func buildTable() {
	cat := Catalog()
	for op := Opcode(0); op < opCount; op++ {
		r, ok := rules[op]
		if !ok {
			continue
		}
		targets := []ValueType{Invalid}
		if op == OpCast || op == OpBitcast {
			targets = cat
		}
		for _, to := range targets {
			forEachTuple(cat, op.Arity(), func(args []ValueType) {
				if f := r(to, args); f != nil {
					f.Op = op
					f.Args = append([]ValueType(nil), args...)
					table[makeSignature(op, to, args)] = f
				}
			})
		}
	}
}

func forEachTuple(cat []ValueType, n int, fn func([]ValueType)) {
	args := make([]ValueType, n)
	var rec func(i int)
	rec = func(i int) {
		if i == n {
			fn(args)
			return
		}
		for _, t := range cat {
			args[i] = t
			rec(i + 1)
		}
	}
	rec(0)
}

// Resolve looks up the functor for op applied to args.
func Resolve(op Opcode, args ...ValueType) (*Functor, error) {
	if op == OpCast || op == OpBitcast {
		return nil, errorf(ErrTypeMismatch, "%s needs a target type, use ResolveConversion", op)
	}
	if len(args) != op.Arity() {
		return nil, errorf(ErrTypeMismatch, "%s takes %d operands, got %d", op, op.Arity(), len(args))
	}
	if f, ok := table[makeSignature(op, Invalid, args)]; ok {
		return f, nil
	}
	return nil, errorf(ErrTypeMismatch, "%s: no matching functor", signatureString(op, args))
}

// ResolveConversion looks up a cast or bitcast from one type to another.
func ResolveConversion(op Opcode, to, from ValueType) (*Functor, error) {
	if op != OpCast && op != OpBitcast {
		return nil, errorf(ErrTypeMismatch, "%s is not a conversion", op)
	}
	if f, ok := table[makeSignature(op, to, []ValueType{from})]; ok {
		return f, nil
	}
	return nil, errorf(ErrTypeMismatch, "%s %s to %s: no matching functor", op, from, to)
}

// Signatures lists every operand-type tuple op accepts.
func Signatures(op Opcode) []*Functor {
	var out []*Functor
	cat := Catalog()
	targets := []ValueType{Invalid}
	if op == OpCast || op == OpBitcast {
		targets = cat
	}
	for _, to := range targets {
		forEachTuple(cat, op.Arity(), func(args []ValueType) {
			if f, ok := table[makeSignature(op, to, args)]; ok {
				out = append(out, f)
			}
		})
	}
	return out
}

func init() {
	registerArithmetic()
	registerBitwise()
	registerCompare()
	registerMath()
	registerConversions()
	registerMultimedia()
	buildTable()
}
