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

package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/bbva/merkletree/merkle"
)

func newRootHashCommand(ctx *cmdContext) *cobra.Command {
	return &cobra.Command{
		Use:   "root",
		Short: "Print the current root of the tree",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withTree(func(tree *merkle.Tree) error {
				root, err := tree.Root()
				if err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), root)
				return nil
			})
		},
	}
}

func newInfoCommand(ctx *cmdContext) *cobra.Command {
	return &cobra.Command{
		Use:   "info",
		Short: "Print the parameters and the state of the tree",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withTree(func(tree *merkle.Tree) error {
				root, err := tree.Root()
				if err != nil {
					return err
				}
				out := cmd.OutOrStdout()
				fmt.Fprintf(out, "depth: %d\n", tree.Depth())
				fmt.Fprintf(out, "hasher: %s\n", tree.Hasher().Name())
				fmt.Fprintf(out, "storage: %s\n", ctx.config.Storage)
				fmt.Fprintf(out, "leaves: %d\n", tree.NumLeaves())
				fmt.Fprintf(out, "capacity: %d\n", tree.Capacity())
				fmt.Fprintf(out, "root: %s\n", root)
				return nil
			})
		},
	}
}
