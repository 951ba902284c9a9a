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

package merkle

import (
	"github.com/bbva/merkletree/crypto/hashing"
	"github.com/bbva/merkletree/node"
)

// Zeros holds, for every level, the value of a subtree whose leaves are
// all empty. Index 0 is the root level.
type Zeros []node.Node

// NewZeros computes the zero values of a tree of the given depth.
func NewZeros(hasher hashing.Hasher, depth uint16) Zeros {
	zeros := make(Zeros, int(depth)+1)
	zeros[depth] = hasher.EmptyLeaf()
	for l := int(depth) - 1; l >= 0; l-- {
		zeros[l] = hasher.Compress(zeros[l+1], zeros[l+1])
	}
	return zeros
}

// At returns the empty subtree value at level.
func (z Zeros) At(level uint16) node.Node {
	return z[level]
}
