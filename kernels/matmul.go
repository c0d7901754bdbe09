// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package kernels

import (
	"fmt"

	"github.com/gogpu/calil/il"
)

// MatMul builds C = A^T * B. A and B are row-major matrices stored as
// float4 images in inputs 0 and 1, C is written to the global buffer.
// cb0[0].x holds the row width of C in float4 elements and cb0[0].y the
// shared dimension.
//
// Each work item computes a TileY x TileX block of C. The loop consumes
// two rows of A and B per iteration and issues TileY*TileX/4 mads for
// each of them, all accumulating into registers that live across the
// loop.
func MatMul(src *il.Source, p Params) error {
	if p.TileX <= 0 || p.TileY <= 0 || p.TileX%4 != 0 || p.TileY%4 != 0 {
		return fmt.Errorf("matmul: tile %dx%d is not a positive multiple of 4", p.TileX, p.TileY)
	}
	bx4, by4 := p.TileX/4, p.TileY/4

	a := il.NewInput2D(0, il.Float4)
	b := il.NewInput2D(1, il.Float4)
	c := il.NewGlobal(il.Float4)
	cb := il.NewConstantBuffer(0, 1)
	xsize := cb.Field(0, il.Float1, "x")
	ysize := cb.Field(0, il.Float1, "y")

	acc := make([][]*il.Variable, p.TileY)
	for i := range acc {
		acc[i] = make([]*il.Variable, bx4)
		for j := range acc[i] {
			acc[i][j] = src.Var(il.Float4)
		}
	}
	var ta, tb [2][]*il.Variable
	for h := range ta {
		ta[h] = make([]*il.Variable, by4)
		for i := range ta[h] {
			ta[h][i] = src.Var(il.Float4)
		}
		tb[h] = make([]*il.Variable, bx4)
		for j := range tb[h] {
			tb[h][j] = src.Var(il.Float4)
		}
	}
	pos := src.Var(il.Float4)

	// pos.xy is the tile origin in float4 units, pos.z the shared index.
	src.Assign(pos.Lanes("xy"), il.Mul(il.GlobalID(il.Float2), il.Vec(il.Float2, bx4, by4)))
	src.Assign(pos.Lanes("zw"), il.Vec(il.Float2, -2, 0))
	for i := range acc {
		for j := range acc[i] {
			src.Assign(acc[i][j], il.Const(il.Float4, 0))
		}
	}

	src.WhileLoop()
	src.Assign(pos, il.Add(pos, il.Vec(il.Float4, 0, 0, 2, 0)))
	src.BreakC(il.Ge(pos.Sel("z"), ysize))

	for h := range ta {
		z := il.Expr(pos.Sel("z"))
		if h > 0 {
			z = il.AddK(pos.Sel("z"), h)
		}
		for i := range ta[h] {
			src.Assign(ta[h][i], a.Sample(offset(pos.Sel("y"), i), z))
		}
		for j := range tb[h] {
			src.Assign(tb[h][j], b.Sample(offset(pos.Sel("x"), j), z))
		}
	}

	accumulate := func(h int) {
		for i := range ta[h] {
			for j := range tb[h] {
				for k, lane := range []string{"xxxx", "yyyy", "zzzz", "wwww"} {
					r := acc[4*i+k][j]
					src.Assign(r, il.Mad(ta[h][i].Sel(lane), tb[h][j], r))
				}
			}
		}
	}
	accumulate(0)
	// Never taken. Splitting the mads keeps the driver's register count down.
	src.BreakC(il.LtK(xsize, 0))
	accumulate(1)
	src.EndLoop()

	s := src.Var(il.Uint1)
	step := src.Var(il.Uint1)
	src.Assign(s, il.Cast(il.Uint1, il.Mad(il.MulK(pos.Sel("y"), 4), xsize, pos.Sel("x"))))
	src.Assign(step, il.Cast(il.Uint1, xsize))
	for i := range acc {
		for j := range acc[i] {
			src.Assign(c.At(il.Addr(s).Add(j)), acc[i][j])
		}
		src.Assign(s, il.Add(s, step))
	}
	return src.Err()
}

func offset(e il.Expr, n int) il.Expr {
	if n == 0 {
		return e
	}
	return il.AddK(e, n)
}
