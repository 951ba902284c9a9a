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

// Package hashing implements the compression functions used to combine
// two child nodes into their parent.
package hashing

import (
	"crypto/sha256"
	"fmt"
	"hash"

	"github.com/zeebo/blake3"
	"golang.org/x/crypto/blake2b"
	"golang.org/x/crypto/sha3"

	"github.com/bbva/merkletree/node"
)

// Hasher is the capability the tree needs from a hash function.
// Implementations must be deterministic and safe for concurrent use.
type Hasher interface {
	// Compress returns the parent node of left and right.
	Compress(left, right node.Node) node.Node
	// EmptyLeaf returns the value of a leaf slot that was never written.
	EmptyLeaf() node.Node
	// Len returns the width in bytes of the nodes this hasher produces.
	Len() int
	// Name identifies the hasher on persisted stores.
	Name() string
}

// Validator is implemented by hashers that do not accept every byte string
// of the right width as a leaf.
type Validator interface {
	Validate(n node.Node) error
}

// KeyHasher adapts any hash.Hash constructor to the Hasher interface.
// A fresh hash state is built on every call so a single KeyHasher can be
// shared between goroutines.
type KeyHasher struct {
	name    string
	size    int
	newHash func() hash.Hash
}

func NewKeyHasher(name string, newHash func() hash.Hash) *KeyHasher {
	return &KeyHasher{
		name:    name,
		size:    newHash().Size(),
		newHash: newHash,
	}
}

// NewKeccak256Hasher computes the legacy Keccak-256 digest of the
// concatenated children, as found on Ethereum.
func NewKeccak256Hasher() Hasher {
	return NewKeyHasher(Keccak256, sha3.NewLegacyKeccak256)
}

// NewSha256Hasher computes a 256 bit hash function using the SHA256
// hashing algorithm.
func NewSha256Hasher() Hasher {
	return NewKeyHasher(Sha256, sha256.New)
}

// NewBlake2bHasher computes a 256 bit hash function using the BLAKE2b
// hashing algorithm.
func NewBlake2bHasher() Hasher {
	return NewKeyHasher(Blake2b, func() hash.Hash {
		h, err := blake2b.New256(nil)
		if err != nil {
			panic(fmt.Sprintf("Error creating BLAKE2b hasher %v", err))
		}
		return h
	})
}

func NewBlake3Hasher() Hasher {
	return NewKeyHasher(Blake3, func() hash.Hash {
		return blake3.New()
	})
}

func (s *KeyHasher) Compress(left, right node.Node) node.Node {
	h := s.newHash()
	_, _ = h.Write(left)
	_, _ = h.Write(right)
	return h.Sum(nil)
}

func (s *KeyHasher) EmptyLeaf() node.Node {
	return make(node.Node, s.size)
}

func (s *KeyHasher) Len() int { return s.size }

func (s *KeyHasher) Name() string { return s.name }
