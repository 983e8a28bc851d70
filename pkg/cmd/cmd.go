// Copyright 2024 PingCAP, Inc.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// See the License for the specific language governing permissions and
// limitations under the License.

package cmd

import (
	"os"

	"github.com/pingcap/nvkern/pkg/cmd/sim"
	"github.com/spf13/cobra"
)

// NewCmd creates the root command of the nvkern tooling.
func NewCmd() *cobra.Command {
	command := &cobra.Command{
		Use:           "nvkern",
		Short:         "nvkern is an interrupt-driven actor kernel",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	command.AddCommand(sim.NewSimCommand())
	return command
}

// Run runs the root command.
func Run() {
	cmd := NewCmd()
	cmd.SetOut(os.Stdout)
	cmd.SetErr(os.Stderr)
	if err := cmd.Execute(); err != nil {
		cmd.PrintErrln(err)
		os.Exit(1)
	}
}
