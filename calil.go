// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

// Package calil compiles GPU kernels written with the il package into AMD
// CAL intermediate language programs.
//
// A kernel is a Go function that emits statements into an il.Source. Compile
// runs it inside one compilation unit and returns the program text together
// with the resources the driver must bind before dispatch:
//
//	text, info, err := calil.Compile(func(src *il.Source) error {
//	    out := il.NewGlobal(il.Float4)
//	    src.Assign(out.At(il.Offset(0)), il.Const(il.Float4, 1))
//	    return nil
//	}, calil.DefaultOptions())
//	if err != nil {
//	    log.Fatal(err)
//	}
//
// Kernels shipped with the module are registered in the kernels package and
// compiled by name with CompileKernel.
package calil

import (
	"fmt"

	"fortio.org/safecast"

	"github.com/gogpu/calil/il"
	"github.com/gogpu/calil/kernels"
)

// Version is the calil release.
const Version = "0.3.0"

// Options configures kernel compilation.
type Options struct {
	// Target is the program kind (default: PixelShader).
	Target il.Target

	// Device is checked against the resources the kernel declares.
	Device il.DeviceInfo

	// ThreadGroup is the compute thread-group size. Ignored for pixel
	// shaders.
	ThreadGroup [3]int
}

// DefaultOptions returns pixel-shader options for the default device.
func DefaultOptions() Options {
	return Options{
		Target:      il.PixelShader,
		Device:      il.DefaultDevice(),
		ThreadGroup: [3]int{64, 1, 1},
	}
}

// TranslationInfo describes a compiled program.
type TranslationInfo struct {
	// Target is the program kind.
	Target il.Target

	// Bindings lists the memory objects to attach before dispatch.
	Bindings []il.Binding

	// Registers is the number of temporary registers the program uses.
	Registers uint32

	// Literals is the number of declared literal registers.
	Literals uint32

	// Instructions is the number of body instructions, excluding "end".
	Instructions uint32
}

// Compile runs kernel in a fresh compilation unit and returns the program
// text.
func Compile(kernel func(src *il.Source) error, opts Options) (string, *TranslationInfo, error) {
	if kernel == nil {
		return "", nil, il.NewError(il.ErrState, "kernel is nil")
	}
	src := il.NewSource(
		il.WithTarget(opts.Target),
		il.WithDevice(opts.Device),
		il.WithThreadGroup(opts.ThreadGroup[0], opts.ThreadGroup[1], opts.ThreadGroup[2]),
	)
	if err := src.Begin(); err != nil {
		return "", nil, fmt.Errorf("calil: %w", err)
	}
	kerr := kernel(src)
	if err := src.End(); err != nil {
		return "", nil, fmt.Errorf("calil: %w", err)
	}
	if kerr != nil {
		return "", nil, fmt.Errorf("calil: %w", kerr)
	}
	text, err := src.Program()
	if err != nil {
		return "", nil, fmt.Errorf("calil: %w", err)
	}
	info, err := translationInfo(src)
	if err != nil {
		return "", nil, fmt.Errorf("calil: %w", err)
	}
	return text, info, nil
}

// CompileKernel compiles the registered kernel name for opts.Target.
// Kernels read the work item position through il.GlobalID, so they build
// for either target; Kernel.Target is the one they are tuned for.
func CompileKernel(name string, p kernels.Params, opts Options) (string, *TranslationInfo, error) {
	k, ok := kernels.Lookup(name)
	if !ok {
		return "", nil, fmt.Errorf("calil: unknown kernel %q", name)
	}
	return Compile(func(src *il.Source) error {
		return k.Build(src, p)
	}, opts)
}

func translationInfo(src *il.Source) (*TranslationInfo, error) {
	regs, err := safecast.Conv[uint32](src.Registers())
	if err != nil {
		return nil, err
	}
	lits, err := safecast.Conv[uint32](src.Literals())
	if err != nil {
		return nil, err
	}
	instrs, err := safecast.Conv[uint32](src.Instructions())
	if err != nil {
		return nil, err
	}
	return &TranslationInfo{
		Target:       src.Target(),
		Bindings:     src.Bindings(),
		Registers:    regs,
		Literals:     lits,
		Instructions: instrs,
	}, nil
}
