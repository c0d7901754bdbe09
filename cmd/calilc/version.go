// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package main

import (
	"fmt"
	"runtime"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/gogpu/calil"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show the calilc version",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "calilc %s (%s %s/%s)\n",
			color.New(color.FgGreen, color.Bold).Sprint(calil.Version),
			runtime.Version(), runtime.GOOS, runtime.GOARCH)
	},
}
