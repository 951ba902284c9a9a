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

import "github.com/bbva/merkletree/node"

// XorHasher computes a single byte hash by xoring every input byte.
// Handy for testing hash tree implementations by hand.
type XorHasher struct{}

func NewXorHasher() Hasher {
	return new(XorHasher)
}

func (x XorHasher) Compress(left, right node.Node) node.Node {
	var result byte
	for _, elem := range [][]byte{left, right} {
		for _, b := range elem {
			result ^= b
		}
	}
	return node.Node{result}
}

func (x XorHasher) EmptyLeaf() node.Node { return node.Node{0x0} }

func (x XorHasher) Len() int { return 1 }

func (x XorHasher) Name() string { return Xor }

// SumHasher adds every input byte modulo 256. Unlike XorHasher it is not
// symmetric on equal children, so empty subtrees keep distinct values when
// the empty leaf is not zero.
type SumHasher struct {
	empty byte
}

func NewSumHasher(emptyLeaf byte) Hasher {
	return &SumHasher{empty: emptyLeaf}
}

func (s SumHasher) Compress(left, right node.Node) node.Node {
	var result byte
	for _, elem := range [][]byte{left, right} {
		for _, b := range elem {
			result += b
		}
	}
	return node.Node{result}
}

func (s SumHasher) EmptyLeaf() node.Node { return node.Node{s.empty} }

func (s SumHasher) Len() int { return 1 }

func (s SumHasher) Name() string { return Sum }
