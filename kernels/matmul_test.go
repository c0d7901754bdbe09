// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package kernels

import (
	"strings"
	"testing"

	"github.com/gogpu/calil/il"
)

func TestMatMul_Program(t *testing.T) {
	k, _ := Lookup("matmul")
	text := build(t, k, il.PixelShader, DefaultParams())

	for _, want := range []string{
		"il_ps_2_0\n",
		"dcl_cb cb0[1]\n",
		"dcl_resource_id(0)_type(2d,unnorm)_fmtx(float)_fmty(float)_fmtz(float)_fmtw(float)\n",
		"dcl_resource_id(1)_type(2d,unnorm)_fmtx(float)_fmty(float)_fmtz(float)_fmtw(float)\n",
		"dcl_input_position_interp(linear_noperspective) vWinCoord0.xy__\n",
		"whileloop\n",
		"endloop\n",
		// accumulators r0-r15 are written in place from the A and B tiles
		"mad r0,r16.xxxx,r18,r0\n",
		"mad r15,r21.wwww,r23,r15\n",
	} {
		if !strings.Contains(text, want) {
			t.Errorf("program lacks %q", want)
		}
	}

	_, loop, _ := strings.Cut(text, "whileloop\n")
	loop, after, _ := strings.Cut(loop, "endloop\n")

	// An 8x8 tile holds 16 float4 accumulators, each updated four times
	// per row of A and B, two rows per iteration.
	if n := countPrefix(loop, "mad "); n != 32 {
		t.Errorf("loop has %d mads, want 32", n)
	}
	if n := countPrefix(loop, "sample_resource("); n != 8 {
		t.Errorf("loop has %d samples, want 8", n)
	}
	if n := countPrefix(loop, "break_logicalnz "); n != 2 {
		t.Errorf("loop has %d breaks, want 2", n)
	}
	if n := countPrefix(after, "mov g["); n != 16 {
		t.Errorf("%d global stores, want 16", n)
	}

	// The two halves of the mads sit on either side of the second break.
	_, second, _ := strings.Cut(loop, "break_logicalnz ")
	_, second, _ = strings.Cut(second, "break_logicalnz ")
	if n := countPrefix(second, "mad "); n != 16 {
		t.Errorf("%d mads after the second break, want 16", n)
	}
}

func TestMatMul_Tiles(t *testing.T) {
	k, _ := Lookup("matmul")
	tests := []struct {
		tx, ty int
		mads   int
	}{
		{4, 4, 8},
		{8, 4, 16},
		{4, 8, 16},
		{16, 8, 64},
	}
	for _, tt := range tests {
		text := build(t, k, il.PixelShader, Params{TileX: tt.tx, TileY: tt.ty})
		_, loop, _ := strings.Cut(text, "whileloop\n")
		loop, _, _ = strings.Cut(loop, "endloop\n")
		if n := countPrefix(loop, "mad "); n != tt.mads {
			t.Errorf("tile %dx%d: %d mads, want %d", tt.tx, tt.ty, n, tt.mads)
		}
	}
}

func TestMatMul_BadParams(t *testing.T) {
	for _, p := range []Params{
		{TileX: 6, TileY: 8},
		{TileX: 8, TileY: 0},
		{TileX: -4, TileY: 4},
	} {
		src := il.NewSource()
		if err := src.Begin(); err != nil {
			t.Fatal(err)
		}
		if err := MatMul(src, p); err == nil {
			t.Errorf("MatMul(%+v) succeeded", p)
		}
	}
}
