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
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/bbva/merkletree/merkle"
	"github.com/bbva/merkletree/node"
)

var ErrInvalidProof = errors.New("invalid proof")

func newProofCommand(ctx *cmdContext) *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "proof <index>",
		Short: "Print the inclusion proof of the leaf at index",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			index, err := strconv.ParseUint(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("index %q: %w", args[0], err)
			}
			if format != "json" && format != "msgpack" {
				return fmt.Errorf("unknown proof format %q", format)
			}

			return ctx.withTree(func(tree *merkle.Tree) error {
				proof, err := tree.Proof(index)
				if err != nil {
					return err
				}

				var out []byte
				if format == "msgpack" {
					out, err = proof.Encode()
				} else {
					out, err = json.MarshalIndent(proof, "", "  ")
					out = append(out, '\n')
				}
				if err != nil {
					return err
				}
				_, err = cmd.OutOrStdout().Write(out)
				return err
			})
		},
	}

	cmd.Flags().StringVar(&format, "format", "json", "Output format: json or msgpack")

	return cmd
}

func newVerifyCommand(ctx *cmdContext) *cobra.Command {
	var proofPath, rootHex string

	cmd := &cobra.Command{
		Use:   "verify",
		Short: "Verify an inclusion proof",
		Long: `Verifies a proof as printed by the proof command, in json or msgpack.
The proof is checked against --root when given, or against the root it
carries otherwise. No store is opened.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			hasher, err := ctx.hasher()
			if err != nil {
				return err
			}

			var raw []byte
			if proofPath == "-" {
				raw, err = io.ReadAll(os.Stdin)
			} else {
				raw, err = os.ReadFile(proofPath)
			}
			if err != nil {
				return err
			}

			proof, err := parseProof(raw)
			if err != nil {
				return err
			}

			root := proof.Root
			if rootHex != "" {
				if root, err = node.Decode(rootHex, hasher.Len()); err != nil {
					return fmt.Errorf("root: %w", err)
				}
			}

			if !proof.VerifyRoot(hasher, root) {
				fmt.Fprintln(cmd.OutOrStdout(), "invalid")
				return fmt.Errorf("%w: leaf %s at index %d against root %s", ErrInvalidProof, proof.Leaf, proof.Index, root)
			}
			fmt.Fprintln(cmd.OutOrStdout(), "valid")
			return nil
		},
	}

	cmd.Flags().StringVarP(&proofPath, "proof", "p", "-", "Proof file, - for stdin")
	cmd.Flags().StringVar(&rootHex, "root", "", "Trusted root to verify against")

	return cmd
}

func parseProof(raw []byte) (*merkle.Proof, error) {
	var proof merkle.Proof
	jsonErr := json.Unmarshal(raw, &proof)
	if jsonErr == nil {
		return &proof, nil
	}
	decoded, err := merkle.DecodeProof(raw)
	if err != nil {
		return nil, fmt.Errorf("proof is neither json (%v) nor msgpack (%v)", jsonErr, err)
	}
	return decoded, nil
}
