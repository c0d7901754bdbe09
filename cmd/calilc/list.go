// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/gogpu/calil/kernels"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List registered kernels",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
		name := color.New(color.FgCyan, color.Bold)
		for _, k := range kernels.All() {
			fmt.Fprintf(w, "%s\t%s\t%s\n", name.Sprint(k.Name), k.Target, k.Description)
		}
		return w.Flush()
	},
}
