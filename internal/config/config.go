// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

// Package config loads calilc build files.
//
// A build file is TOML:
//
//	[build]
//	target = "ps"
//	out = "build"
//	jobs = 4
//	kernels = ["matmul", "nbody"]
//
//	[device]
//	max_inputs = 128
//	max_constant_buffers = 15
//	max_constant_buffer_size = 4096
//
//	[params]
//	tile_x = 8
//	tile_y = 8
//	unroll = 1
//
// Every key is optional; missing keys keep their defaults.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/gogpu/calil/il"
	"github.com/gogpu/calil/kernels"
)

// FileName is the build file looked up by FindFile.
const FileName = "calil.toml"

// Config is a resolved build configuration.
type Config struct {
	// Path is the file the configuration was read from, empty for defaults.
	Path string

	// Target overrides the target each kernel is tuned for when set.
	Target  *il.Target
	Out     string
	Jobs    int
	Kernels []string
	Device  il.DeviceInfo
	Params  kernels.Params
}

type fileConfig struct {
	Build  buildSection  `toml:"build"`
	Device deviceSection `toml:"device"`
	Params paramsSection `toml:"params"`
}

type buildSection struct {
	Target  string   `toml:"target"`
	Out     string   `toml:"out"`
	Jobs    int      `toml:"jobs"`
	Kernels []string `toml:"kernels"`
}

type deviceSection struct {
	MaxInputs             int `toml:"max_inputs"`
	MaxConstantBuffers    int `toml:"max_constant_buffers"`
	MaxConstantBufferSize int `toml:"max_constant_buffer_size"`
}

type paramsSection struct {
	TileX  int `toml:"tile_x"`
	TileY  int `toml:"tile_y"`
	Unroll int `toml:"unroll"`
}

// Default returns the configuration used without a build file: every
// registered kernel, built with the default device and parameters.
func Default() *Config {
	cfg := &Config{
		Out:    "build",
		Jobs:   runtime.GOMAXPROCS(0),
		Device: il.DefaultDevice(),
		Params: kernels.DefaultParams(),
	}
	for _, k := range kernels.All() {
		cfg.Kernels = append(cfg.Kernels, k.Name)
	}
	return cfg
}

// FindFile walks up from startDir looking for FileName.
func FindFile(startDir string) (string, bool, error) {
	if startDir == "" {
		startDir = "."
	}
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return "", false, fmt.Errorf("failed to resolve start directory: %w", err)
	}
	for {
		candidate := filepath.Join(dir, FileName)
		if _, err := os.Stat(candidate); err == nil {
			return candidate, true, nil
		} else if !errors.Is(err, os.ErrNotExist) {
			return "", false, fmt.Errorf("failed to stat %q: %w", candidate, err)
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", false, nil
		}
		dir = parent
	}
}

// Load reads path over the defaults.
func Load(path string) (*Config, error) {
	var fc fileConfig
	meta, err := toml.DecodeFile(path, &fc)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to parse TOML: %w", path, err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		return nil, fmt.Errorf("%s: unknown key %s", path, undecoded[0])
	}

	cfg := Default()
	cfg.Path = path
	if meta.IsDefined("build", "target") {
		t, err := il.ParseTarget(strings.TrimSpace(fc.Build.Target))
		if err != nil {
			return nil, fmt.Errorf("%s: [build].target: %w", path, err)
		}
		cfg.Target = &t
	}
	if meta.IsDefined("build", "out") {
		if strings.TrimSpace(fc.Build.Out) == "" {
			return nil, fmt.Errorf("%s: [build].out is empty", path)
		}
		cfg.Out = fc.Build.Out
	}
	if meta.IsDefined("build", "jobs") {
		if fc.Build.Jobs < 1 {
			return nil, fmt.Errorf("%s: [build].jobs must be at least 1", path)
		}
		cfg.Jobs = fc.Build.Jobs
	}
	if meta.IsDefined("build", "kernels") {
		for _, name := range fc.Build.Kernels {
			if _, ok := kernels.Lookup(name); !ok {
				return nil, fmt.Errorf("%s: [build].kernels: unknown kernel %q", path, name)
			}
		}
		cfg.Kernels = fc.Build.Kernels
	}

	if meta.IsDefined("device", "max_inputs") {
		cfg.Device.MaxInputs = fc.Device.MaxInputs
	}
	if meta.IsDefined("device", "max_constant_buffers") {
		cfg.Device.MaxConstantBuffers = fc.Device.MaxConstantBuffers
	}
	if meta.IsDefined("device", "max_constant_buffer_size") {
		cfg.Device.MaxConstantBufferSize = fc.Device.MaxConstantBufferSize
	}

	if meta.IsDefined("params", "tile_x") {
		cfg.Params.TileX = fc.Params.TileX
	}
	if meta.IsDefined("params", "tile_y") {
		cfg.Params.TileY = fc.Params.TileY
	}
	if meta.IsDefined("params", "unroll") {
		cfg.Params.Unroll = fc.Params.Unroll
	}
	return cfg, nil
}
