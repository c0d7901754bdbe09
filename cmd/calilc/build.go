// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/gogpu/calil"
	"github.com/gogpu/calil/internal/config"
	"github.com/gogpu/calil/internal/kcache"
	"github.com/gogpu/calil/kernels"
)

var (
	buildConfig  string
	buildCache   string
	buildNoCache bool
	buildJobs    int
)

func init() {
	buildCmd.Flags().StringVar(&buildConfig, "config", "", "build file (default: nearest "+config.FileName+")")
	buildCmd.Flags().StringVar(&buildCache, "cache", "", "cache directory (default: user cache dir)")
	buildCmd.Flags().BoolVar(&buildNoCache, "no-cache", false, "compile every kernel even when cached")
	buildCmd.Flags().IntVarP(&buildJobs, "jobs", "j", 0, "parallel compilations (default: from build file)")
}

var buildCmd = &cobra.Command{
	Use:   "build [kernel...]",
	Short: "Compile kernels into the output directory",
	RunE: func(cmd *cobra.Command, args []string) error {
		quiet, err := cmd.Flags().GetBool("quiet")
		if err != nil {
			return err
		}
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		if len(args) > 0 {
			cfg.Kernels = args
		}
		if buildJobs > 0 {
			cfg.Jobs = buildJobs
		}

		var cache *kcache.Cache
		if !buildNoCache {
			if buildCache != "" {
				cache, err = kcache.Open(buildCache)
			} else {
				cache, err = kcache.OpenDefault("calil")
			}
			if err != nil {
				return fmt.Errorf("open cache: %w", err)
			}
		}
		if err := os.MkdirAll(cfg.Out, 0o755); err != nil {
			return err
		}
		return buildAll(cmd.Context(), cfg, cache, quiet)
	},
}

func loadConfig() (*config.Config, error) {
	path := buildConfig
	if path == "" {
		found, ok, err := config.FindFile(".")
		if err != nil {
			return nil, err
		}
		if !ok {
			return config.Default(), nil
		}
		path = found
	}
	return config.Load(path)
}

// buildAll compiles the configured kernels in parallel. Each compilation
// owns its il.Source.
func buildAll(ctx context.Context, cfg *config.Config, cache *kcache.Cache, quiet bool) error {
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(max(1, min(cfg.Jobs, len(cfg.Kernels))))

	for _, name := range cfg.Kernels {
		name := name
		g.Go(func() error {
			select {
			case <-gctx.Done():
				return gctx.Err()
			default:
			}
			start := time.Now()
			hit, err := buildKernel(cfg, cache, name)
			if err != nil {
				return fmt.Errorf("%s: %w", name, err)
			}
			if !quiet {
				status := color.GreenString("built")
				if hit {
					status = color.CyanString("cached")
				}
				log.Printf("%-8s %s (%s)", status, name, time.Since(start).Round(time.Microsecond))
			}
			return nil
		})
	}
	return g.Wait()
}

func buildKernel(cfg *config.Config, cache *kcache.Cache, name string) (bool, error) {
	k, ok := kernels.Lookup(name)
	if !ok {
		return false, fmt.Errorf("unknown kernel")
	}
	opts := calil.DefaultOptions()
	opts.Target = k.Target
	if cfg.Target != nil {
		opts.Target = *cfg.Target
	}
	opts.Device = cfg.Device

	key := kcache.KeyFor(calil.Version, name, opts.Target, opts.Device, cfg.Params)
	out := filepath.Join(cfg.Out, name+".il")

	if e, hit, err := cache.Get(key); err != nil {
		log.Printf("%s %s: %v", color.YellowString("warning"), name, err)
	} else if hit {
		return true, os.WriteFile(out, []byte(e.Program), 0o644)
	}

	text, info, err := calil.CompileKernel(name, cfg.Params, opts)
	if err != nil {
		return false, err
	}
	if err := os.WriteFile(out, []byte(text), 0o644); err != nil {
		return false, err
	}
	err = cache.Put(key, &kcache.Entry{
		Kernel:       name,
		Program:      text,
		Bindings:     info.Bindings,
		Registers:    info.Registers,
		Literals:     info.Literals,
		Instructions: info.Instructions,
	})
	return false, err
}
