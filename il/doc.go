// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

// Package il builds GPU kernels as Go expression trees and emits them as
// AMD CAL intermediate language text.
//
// Kernels are written with builder functions that return immutable
// expression nodes. Each builder resolves the operation against a dispatch
// table keyed by operation and operand types, so a tree knows its value
// type and its instructions before anything is emitted. Operand types no
// functor accepts produce an Invalid node; the error is reported by
// Validate and by the Source that receives the tree, and nothing is
// emitted for it.
//
// # Usage
//
//	src := il.NewSource(il.WithTarget(il.PixelShader))
//	src.Begin()
//	acc := src.Var(il.Float4)
//	a := il.NewInput2D(0, il.Float4).Sample(x, y)
//	src.Assign(acc, il.MadEEK(a, a, 1.0))
//	if err := src.End(); err != nil {
//	    log.Fatal(err)
//	}
//	text, _ := src.Program()
//
// # Registers
//
// Registers are allocated at emission time from a counter that only grows
// during a compilation unit. Operands are emitted before the node that
// reads them, left to right, and a node's result and scratch registers
// follow every register of its operands. Constants become l registers
// declared once per bit pattern in the program header.
//
// # Targets
//
// PixelShader programs (il_ps_2_0) take the work item position from
// vWinCoord0, ComputeShader programs (il_cs_2_0) from vAbsTid0.
package il
