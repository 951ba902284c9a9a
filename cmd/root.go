/*
   Copyright 2018-2019 Banco Bilbao Vizcaya Argentaria, S.A.

   Licensed under the Apache License, Version 2.0 (the "License");
   you may not use this file except in compliance with the License.
   You may obtain a copy of the License at

       http://www.apache.org/licenses/LICENSE-2.0

   Unless required by applicable law or agreed to in writing, software
   distributed under the License is distributed on an "AS IS" BASIS,
   WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
   See the License for the specific language governing permissions and
   limitations under the License.
*/

// Package cmd implements the merkletree command line.
package cmd

import (
	"fmt"

	"github.com/octago/sflags/gen/gpflag"
	"github.com/spf13/cobra"
	v "github.com/spf13/viper"

	"github.com/bbva/merkletree/build"
)

// Root is the command run by the merkletree binary.
var Root *cobra.Command = NewRootCommand()

// NewRootCommand builds the whole command tree over a fresh
// configuration.
func NewRootCommand() *cobra.Command {
	ctx := &cmdContext{
		config: DefaultConfig(),
		viper:  v.New(),
	}

	cmd := &cobra.Command{
		Use:   "merkletree",
		Short: "Fixed-depth append-only Merkle tree",
		Long: `merkletree appends leaves to a fixed-depth Merkle tree kept in a
persistent store and produces and verifies inclusion proofs against its root.

Every flag can also be set in a YAML config file (~/.merkletree.yaml by
default) or through MERKLETREE_* environment variables, e.g.
MERKLETREE_DB_PATH. Explicit flags win over both.`,
		// SilenceUsage is set to true -> https://github.com/spf13/cobra/issues/340
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return ctx.load(cmd.Root().PersistentFlags())
		},
	}

	if err := gpflag.ParseTo(ctx.config, cmd.PersistentFlags()); err != nil {
		panic(fmt.Sprintf("Unable to parse merkletree config: %v", err))
	}

	cmd.AddCommand(
		newAddCommand(ctx),
		newRootHashCommand(ctx),
		newProofCommand(ctx),
		newVerifyCommand(ctx),
		newInfoCommand(ctx),
		newWorkloadCommand(ctx),
		newVersionCommand(),
	)

	return cmd
}

func newVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the build information",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			info := build.GetInfo()
			fmt.Fprintln(cmd.OutOrStdout(), info.Short())
			if info.Revision != "" {
				fmt.Fprintf(cmd.OutOrStdout(), "revision %s\n", info.Revision)
			}
			return nil
		},
	}
}
