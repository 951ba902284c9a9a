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
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/bbva/merkletree/merkle"
	"github.com/bbva/merkletree/node"
)

func newAddCommand(ctx *cmdContext) *cobra.Command {
	var file string

	cmd := &cobra.Command{
		Use:   "add [hex leaf]...",
		Short: "Append leaves to the tree in a single batch",
		Long: `Appends every leaf given as argument, followed by the ones read from
--file (one hex encoded leaf per line, - for stdin), in a single batch.
Leaves must be exactly as wide as the hasher output.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			hasher, err := ctx.hasher()
			if err != nil {
				return err
			}

			leaves, err := decodeLeaves(args, hasher.Len())
			if err != nil {
				return err
			}
			if file != "" {
				fromFile, err := readLeaves(file, hasher.Len())
				if err != nil {
					return err
				}
				leaves = append(leaves, fromFile...)
			}
			if len(leaves) == 0 {
				return fmt.Errorf("no leaves to add")
			}

			return ctx.withTree(func(tree *merkle.Tree) error {
				if err := tree.AddLeaves(leaves); err != nil {
					return err
				}
				root, err := tree.Root()
				if err != nil {
					return err
				}
				ctx.log.Infof("Added %d leaves", len(leaves))
				fmt.Fprintf(cmd.OutOrStdout(), "root: %s\nleaves: %d\n", root, tree.NumLeaves())
				return nil
			})
		},
	}

	cmd.Flags().StringVarP(&file, "file", "f", "", "File with one hex leaf per line, - for stdin")

	return cmd
}

func decodeLeaves(values []string, width int) ([]node.Node, error) {
	leaves := make([]node.Node, 0, len(values))
	for _, s := range values {
		leaf, err := node.Decode(s, width)
		if err != nil {
			return nil, fmt.Errorf("leaf %q: %w", s, err)
		}
		leaves = append(leaves, leaf)
	}
	return leaves, nil
}

func readLeaves(path string, width int) ([]node.Node, error) {
	var r io.Reader = os.Stdin
	if path != "-" {
		f, err := os.Open(path)
		if err != nil {
			return nil, err
		}
		defer f.Close()
		r = f
	}

	var lines []string
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		if line := strings.TrimSpace(scanner.Text()); line != "" {
			lines = append(lines, line)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return decodeLeaves(lines, width)
}
