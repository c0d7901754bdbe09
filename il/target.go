// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package il

import (
	"fmt"
	"strings"
)

// Target is the kind of IL program produced.
type Target uint8

const (
	// PixelShader emits il_ps_2_0 programs. Work items are pixels and the
	// global position comes from vWinCoord0.
	PixelShader Target = iota

	// ComputeShader emits il_cs_2_0 programs. The global position comes
	// from vAbsTid0.
	ComputeShader
)

// String returns the program header keyword, e.g. "il_ps_2_0".
func (t Target) String() string {
	switch t {
	case PixelShader:
		return "il_ps_2_0"
	case ComputeShader:
		return "il_cs_2_0"
	default:
		return fmt.Sprintf("il_target(%d)", uint8(t))
	}
}

// ParseTarget accepts "ps", "cs" or the full header keyword.
func ParseTarget(s string) (Target, error) {
	switch strings.ToLower(s) {
	case "ps", "il_ps_2_0", "pixel":
		return PixelShader, nil
	case "cs", "il_cs_2_0", "compute":
		return ComputeShader, nil
	default:
		return PixelShader, fmt.Errorf("invalid IL target: %q (expected: ps|cs)", s)
	}
}

// DeviceInfo describes the resource binding slots a device offers. The
// driver binding layer supplies it before kernels are built.
type DeviceInfo struct {
	// MaxInputs is the number of sampled input resources.
	MaxInputs int

	// MaxConstantBuffers is the number of constant buffers.
	MaxConstantBuffers int

	// MaxConstantBufferSize is the number of 16-byte elements per buffer.
	MaxConstantBufferSize int
}

// DefaultDevice returns the capabilities common to all supported GPUs.
func DefaultDevice() DeviceInfo {
	return DeviceInfo{
		MaxInputs:             128,
		MaxConstantBuffers:    15,
		MaxConstantBufferSize: 4096,
	}
}
