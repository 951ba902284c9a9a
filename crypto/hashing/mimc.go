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

package hashing

import (
	"fmt"

	"github.com/consensys/gnark-crypto/ecc/bn254/fr"
	"github.com/consensys/gnark-crypto/ecc/bn254/fr/mimc"

	"github.com/bbva/merkletree/node"
)

// MiMCHasher compresses nodes with MiMC over the BN254 scalar field, which
// keeps inclusion proofs cheap to check inside a SNARK circuit.
//
// Leaves must be canonical field elements, big-endian and below the field
// modulus, see Validate. Compress still reduces its inputs modulo the field
// order, so it never panics on values that skipped validation.
type MiMCHasher struct{}

func NewMiMCHasher() Hasher {
	return new(MiMCHasher)
}

func (m MiMCHasher) Compress(left, right node.Node) node.Node {
	h := mimc.NewMiMC()
	_, _ = h.Write(toFieldBytes(left))
	_, _ = h.Write(toFieldBytes(right))
	return h.Sum(nil)
}

func (m MiMCHasher) EmptyLeaf() node.Node {
	return make(node.Node, fr.Bytes)
}

func (m MiMCHasher) Len() int { return fr.Bytes }

func (m MiMCHasher) Name() string { return MiMC }

// Validate rejects values that are not the canonical encoding of a field
// element. Two leaves that differ by a multiple of the modulus would
// otherwise produce the same root.
func (m MiMCHasher) Validate(n node.Node) error {
	var e fr.Element
	if err := e.SetBytesCanonical(n); err != nil {
		return fmt.Errorf("leaf is not a canonical BN254 scalar: %w", err)
	}
	return nil
}

func toFieldBytes(n node.Node) []byte {
	var e fr.Element
	e.SetBytes(n)
	b := e.Bytes()
	return b[:]
}
