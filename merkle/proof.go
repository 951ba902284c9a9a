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
	"fmt"

	"github.com/hashicorp/go-msgpack/codec"

	"github.com/bbva/merkletree/crypto/hashing"
	"github.com/bbva/merkletree/node"
)

// Proof shows that Leaf sits at Index of a tree whose root was Root when
// the proof was built. Siblings are ordered from the leaf level upwards.
type Proof struct {
	Index    uint64      `json:"index"`
	Leaf     node.Node   `json:"leaf"`
	Siblings []node.Node `json:"siblings"`
	Root     node.Node   `json:"root"`
}

func NewProof(index uint64, leaf node.Node, siblings []node.Node, root node.Node) *Proof {
	return &Proof{
		Index:    index,
		Leaf:     leaf,
		Siblings: siblings,
		Root:     root,
	}
}

// Depth is the depth of the tree the proof was generated on.
func (p Proof) Depth() int {
	return len(p.Siblings)
}

// Verify checks the proof against the root captured at generation time.
func (p Proof) Verify(hasher hashing.Hasher) bool {
	return Verify(hasher, p.Leaf, p.Index, p.Siblings, p.Root)
}

// VerifyRoot checks the proof against an externally trusted root.
func (p Proof) VerifyRoot(hasher hashing.Hasher, root node.Node) bool {
	return Verify(hasher, p.Leaf, p.Index, p.Siblings, root)
}

func (p Proof) String() string {
	return fmt.Sprintf("Proof(index=%d, leaf=%s, depth=%d, root=%s)", p.Index, p.Leaf, p.Depth(), p.Root)
}

var proofHandle = new(codec.MsgpackHandle)

// proofMsg is the wire form of a Proof.
type proofMsg struct {
	Index    uint64
	Leaf     []byte
	Siblings [][]byte
	Root     []byte
}

// Encode serializes the proof with msgpack.
func (p Proof) Encode() ([]byte, error) {
	msg := proofMsg{
		Index:    p.Index,
		Leaf:     p.Leaf,
		Siblings: make([][]byte, len(p.Siblings)),
		Root:     p.Root,
	}
	for i, s := range p.Siblings {
		msg.Siblings[i] = s
	}
	var buf []byte
	if err := codec.NewEncoderBytes(&buf, proofHandle).Encode(&msg); err != nil {
		return nil, fmt.Errorf("encoding proof: %w", err)
	}
	return buf, nil
}

func DecodeProof(b []byte) (*Proof, error) {
	var msg proofMsg
	if err := codec.NewDecoderBytes(b, proofHandle).Decode(&msg); err != nil {
		return nil, fmt.Errorf("decoding proof: %w", err)
	}
	siblings := make([]node.Node, len(msg.Siblings))
	for i, s := range msg.Siblings {
		siblings[i] = s
	}
	return NewProof(msg.Index, msg.Leaf, siblings, msg.Root), nil
}

// Verify recomputes the root from a leaf and its siblings and compares it
// with root. Bit d of index tells whether the running node is the left
// (0) or right (1) child at height d.
func Verify(hasher hashing.Hasher, leaf node.Node, index uint64, siblings []node.Node, root node.Node) bool {
	if len(siblings) > MaxDepth || index>>uint(len(siblings)) != 0 {
		return false
	}
	cur := leaf
	for d, sibling := range siblings {
		if (index>>uint(d))&1 == 0 {
			cur = hasher.Compress(cur, sibling)
		} else {
			cur = hasher.Compress(sibling, cur)
		}
	}
	return cur.Equal(root)
}
