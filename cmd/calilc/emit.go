// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package main

import (
	"fmt"
	"log"
	"os"

	"github.com/spf13/cobra"

	"github.com/gogpu/calil"
	"github.com/gogpu/calil/il"
	"github.com/gogpu/calil/kernels"
)

var (
	emitOutput string
	emitTarget string
	emitInfo   bool
	emitParams = kernels.DefaultParams()
)

func init() {
	emitCmd.Flags().StringVarP(&emitOutput, "output", "o", "", "output file (default: stdout)")
	emitCmd.Flags().StringVar(&emitTarget, "target", "", "program kind (ps|cs, default: the kernel's own)")
	emitCmd.Flags().BoolVar(&emitInfo, "info", false, "print bindings and counts to stderr")
	emitCmd.Flags().IntVar(&emitParams.TileX, "tile-x", emitParams.TileX, "output tile width in floats")
	emitCmd.Flags().IntVar(&emitParams.TileY, "tile-y", emitParams.TileY, "output tile height in floats")
	emitCmd.Flags().IntVar(&emitParams.Unroll, "unroll", emitParams.Unroll, "loop bodies per iteration")
}

var emitCmd = &cobra.Command{
	Use:   "emit [flags] <kernel>",
	Short: "Compile one kernel and print its IL",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		k, ok := kernels.Lookup(args[0])
		if !ok {
			return fmt.Errorf("unknown kernel %q (see calilc list)", args[0])
		}
		opts := calil.DefaultOptions()
		opts.Target = k.Target
		if emitTarget != "" {
			t, err := il.ParseTarget(emitTarget)
			if err != nil {
				return err
			}
			opts.Target = t
		}

		text, info, err := calil.CompileKernel(k.Name, emitParams, opts)
		if err != nil {
			return err
		}
		if emitInfo {
			printInfo(k.Name, info)
		}
		if emitOutput == "" {
			_, err = fmt.Fprint(cmd.OutOrStdout(), text)
			return err
		}
		return os.WriteFile(emitOutput, []byte(text), 0o644)
	},
}

func printInfo(name string, info *calil.TranslationInfo) {
	log.Printf("%s: %s, %d registers, %d literals, %d instructions",
		name, info.Target, info.Registers, info.Literals, info.Instructions)
	for _, b := range info.Bindings {
		log.Printf("%s:   %-8s %s", name, b.Kind, b.Name)
	}
}
