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

// Package rand builds random values for tests and workloads.
package rand

import (
	"crypto/rand"
	"encoding/binary"
	"fmt"

	"github.com/bbva/merkletree/node"
)

// Bytes returns n random bytes.
func Bytes(n int) []byte {
	b := make([]byte, n)
	if _, err := rand.Read(b); err != nil {
		panic(fmt.Sprintf("reading random bytes: %v", err))
	}
	return b
}

// Node returns a random node of the given width.
func Node(width int) node.Node {
	return Bytes(width)
}

// Nodes returns n random nodes of the given width.
func Nodes(n, width int) []node.Node {
	nodes := make([]node.Node, n)
	for i := range nodes {
		nodes[i] = Node(width)
	}
	return nodes
}

// Sequential returns the nodes encoding start..start+n-1 as big-endian
// integers padded to width bytes. Width must be at least 8.
func Sequential(start uint64, n, width int) []node.Node {
	nodes := make([]node.Node, n)
	for i := range nodes {
		v := make(node.Node, width)
		binary.BigEndian.PutUint64(v[width-8:], start+uint64(i))
		nodes[i] = v
	}
	return nodes
}
