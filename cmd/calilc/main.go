// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

// Command calilc compiles the kernels shipped with calil to CAL IL text.
//
// Usage:
//
//	calilc emit matmul                 # print one kernel
//	calilc emit -o mm.il matmul        # write it to a file
//	calilc build                       # build every kernel of calil.toml
//	calilc list                        # show registered kernels
package main

import (
	"log"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/gogpu/calil"
)

var rootCmd = &cobra.Command{
	Use:           "calilc",
	Short:         "CAL IL kernel compiler",
	Long:          `calilc builds GPU kernels written with the calil DSL into AMD CAL IL programs`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		mode, err := cmd.Flags().GetString("color")
		if err != nil {
			return err
		}
		switch mode {
		case "on":
			color.NoColor = false
		case "off":
			color.NoColor = true
		default:
			color.NoColor = !isTerminal(os.Stderr)
		}
		return nil
	},
}

func main() {
	log.SetFlags(0)
	log.SetPrefix("calilc: ")

	rootCmd.Version = calil.Version
	rootCmd.AddCommand(buildCmd)
	rootCmd.AddCommand(emitCmd)
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(versionCmd)

	rootCmd.PersistentFlags().String("color", "auto", "colorize output (auto|on|off)")
	rootCmd.PersistentFlags().Bool("quiet", false, "suppress non-essential output")

	if err := rootCmd.Execute(); err != nil {
		log.Print(color.RedString("error: ") + err.Error())
		os.Exit(1)
	}
}

func isTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}
