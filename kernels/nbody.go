// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package kernels

import (
	"fmt"

	"github.com/gogpu/calil/il"
)

// NBody builds one integration step of a softened n-body simulation.
// Input 0 holds body positions with the mass in w, input 1 velocities,
// both as one row of float4 texels. cb0[0] holds the body count, the
// time step and the softening term eps^2 in x, y and z. The new position
// and velocity of body i are written to g[2i] and g[2i+1].
//
// Unroll bodies are processed per loop iteration, so the body count must
// be a multiple of Unroll.
func NBody(src *il.Source, p Params) error {
	if p.Unroll < 1 {
		return fmt.Errorf("nbody: unroll %d must be at least 1", p.Unroll)
	}

	bodies := il.NewInput2D(0, il.Float4)
	velocities := il.NewInput2D(1, il.Float4)
	out := il.NewGlobal(il.Float4)
	cb := il.NewConstantBuffer(0, 1)
	count := cb.Field(0, il.Float1, "x")
	dt := cb.Field(0, il.Float1, "y")
	eps2 := cb.Field(0, il.Float1, "z")
	row := il.Const(il.Float1, 0)

	id := src.Var(il.Float1)
	self := src.Var(il.Float4)
	acc := src.Var(il.Float4)
	j := src.Var(il.Float1)
	other := src.Var(il.Float4)
	d := src.Var(il.Float4)
	inv := src.Var(il.Float1)

	src.Assign(id, il.GlobalID(il.Float1))
	src.Assign(self, bodies.Sample(id, row))
	src.Assign(acc, il.Const(il.Float4, 0))
	src.Assign(j, il.Const(il.Float1, 0))

	src.WhileLoop()
	src.BreakC(il.Ge(j, count))
	for u := 0; u < p.Unroll; u++ {
		src.Assign(other, bodies.Sample(j, row))
		src.Assign(d, il.Sub(other, self))
		src.Assign(d.Lanes("w"), il.Const(il.Float1, 0))
		// inv = (|d|^2 + eps^2)^-3/2
		src.Assign(inv, il.Rsqrt(il.Add(il.Dot(d, d), eps2)))
		src.Assign(inv, il.Mul(il.Mul(inv, inv), inv))
		src.Assign(acc, il.Mad(d, il.Mul(other.Sel("w"), inv), acc))
		src.Assign(j, il.AddK(j, 1))
	}
	src.EndLoop()

	vel := src.Var(il.Float4)
	next := src.Var(il.Float4)
	base := src.Var(il.Uint1)
	src.Assign(vel, il.Mad(acc, dt, velocities.Sample(id, row)))
	src.Assign(next, il.Mad(vel, dt, self))
	src.Assign(next.Lanes("w"), self.Sel("w"))
	src.Assign(base, il.ShlK(il.GlobalID(il.Uint1), 1))
	src.Assign(out.At(il.Addr(base)), next)
	src.Assign(out.At(il.Addr(base).Add(1)), vel)
	return src.Err()
}
