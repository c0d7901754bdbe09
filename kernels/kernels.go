// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

// Package kernels holds the kernels shipped with calil and a registry
// mapping kernel names to their builders.
package kernels

import (
	"fmt"
	"sort"
	"sync"

	"github.com/gogpu/calil/il"
)

// Params tunes a kernel's unrolling. Kernels ignore the fields they do
// not use.
type Params struct {
	// TileX and TileY are the output tile computed by one work item,
	// in floats. Both must be multiples of 4.
	TileX int
	TileY int

	// Unroll is the number of loop bodies emitted per iteration.
	Unroll int
}

// DefaultParams returns an 8x8 tile without unrolling.
func DefaultParams() Params {
	return Params{TileX: 8, TileY: 8, Unroll: 1}
}

// Kernel describes a buildable kernel.
type Kernel struct {
	Name        string
	Description string
	Target      il.Target

	// Build emits the kernel body into a Source in the Building state.
	Build func(src *il.Source, p Params) error
}

var (
	mu       sync.RWMutex
	registry = map[string]Kernel{}
)

// Register adds k to the registry. Registering a name twice panics.
func Register(k Kernel) {
	mu.Lock()
	defer mu.Unlock()
	if _, dup := registry[k.Name]; dup {
		panic(fmt.Sprintf("kernels: %q registered twice", k.Name))
	}
	registry[k.Name] = k
}

// Lookup returns the kernel registered under name.
func Lookup(name string) (Kernel, bool) {
	mu.RLock()
	defer mu.RUnlock()
	k, ok := registry[name]
	return k, ok
}

// All returns every registered kernel sorted by name.
func All() []Kernel {
	mu.RLock()
	defer mu.RUnlock()
	out := make([]Kernel, 0, len(registry))
	for _, k := range registry {
		out = append(out, k)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

func init() {
	Register(Kernel{
		Name:        "matmul",
		Description: "tiled A^T*B matrix multiply over float4 images",
		Target:      il.PixelShader,
		Build:       MatMul,
	})
	Register(Kernel{
		Name:        "nbody",
		Description: "one n-body integration step over a float4 body image",
		Target:      il.ComputeShader,
		Build:       NBody,
	})
}
