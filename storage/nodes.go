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

package storage

import (
	"errors"
	"fmt"

	"github.com/vmihailenco/msgpack"

	"github.com/bbva/merkletree/node"
	"github.com/bbva/merkletree/util"
)

// FormatVersion is bumped whenever the persisted layout changes.
const FormatVersion = 1

var (
	numLeavesKey = []byte("num_leaves")
	formatKey    = []byte("format")

	// ErrCorrupted is returned when a persisted value cannot be decoded.
	ErrCorrupted = errors.New("corrupted store")
)

// NodeMutation sets the value of the node at Pos.
type NodeMutation struct {
	Pos   node.Position
	Value node.Node
}

func NewNodeMutation(pos node.Position, value node.Node) *NodeMutation {
	return &NodeMutation{pos, value}
}

// Format describes the tree a store was written for. It is persisted on
// first use so a store is never reopened with another depth or hasher.
type Format struct {
	Version uint8  `msgpack:"version"`
	Depth   uint16 `msgpack:"depth"`
	Hasher  string `msgpack:"hasher"`
	Width   int    `msgpack:"width"`
}

func (f Format) Equal(o Format) bool {
	return f == o
}

func (f Format) String() string {
	return fmt.Sprintf("v%d depth=%d hasher=%s width=%d", f.Version, f.Depth, f.Hasher, f.Width)
}

func (f Format) Encode() ([]byte, error) {
	return msgpack.Marshal(f)
}

func DecodeFormat(b []byte) (*Format, error) {
	var f Format
	if err := msgpack.Unmarshal(b, &f); err != nil {
		return nil, fmt.Errorf("%w: format: %v", ErrCorrupted, err)
	}
	return &f, nil
}

// EncodeNumLeaves returns the persisted form of the leaf counter.
func EncodeNumLeaves(n uint64) []byte {
	return util.Uint64AsBytes(n)
}

func DecodeNumLeaves(b []byte) (uint64, error) {
	if len(b) != 8 {
		return 0, fmt.Errorf("%w: leaf counter has %d bytes", ErrCorrupted, len(b))
	}
	return util.BytesAsUint64(b), nil
}

// Nodes lays the tree out over a key/value Store: nodes under NodesTable
// keyed by their position, and the leaf counter and format tag under
// MetaTable.
type Nodes struct {
	store Store
}

func NewNodes(store Store) *Nodes {
	return &Nodes{store: store}
}

// Get returns ErrKeyNotFound when the node was never written.
func (n *Nodes) Get(pos node.Position) (node.Node, error) {
	pair, err := n.store.Get(NodesTable, pos.Bytes())
	if err != nil {
		return nil, err
	}
	return pair.Value, nil
}

func (n *Nodes) Set(pos node.Position, value node.Node) error {
	return n.SetBatch([]*NodeMutation{NewNodeMutation(pos, value)})
}

func (n *Nodes) SetBatch(batch []*NodeMutation) error {
	if len(batch) == 0 {
		return nil
	}
	mutations := make([]*Mutation, 0, len(batch))
	for _, m := range batch {
		mutations = append(mutations, NewMutation(NodesTable, m.Pos.Bytes(), m.Value))
	}
	return n.store.Mutate(mutations)
}

// NumLeaves returns 0 on a store that was never written.
func (n *Nodes) NumLeaves() (uint64, error) {
	pair, err := n.store.Get(MetaTable, numLeavesKey)
	switch {
	case errors.Is(err, ErrKeyNotFound):
		return 0, nil
	case err != nil:
		return 0, err
	}
	return DecodeNumLeaves(pair.Value)
}

func (n *Nodes) SetNumLeaves(numLeaves uint64) error {
	return n.store.Mutate([]*Mutation{
		NewMutation(MetaTable, numLeavesKey, EncodeNumLeaves(numLeaves)),
	})
}

// Format returns ErrKeyNotFound when no format tag was written yet.
func (n *Nodes) Format() (*Format, error) {
	pair, err := n.store.Get(MetaTable, formatKey)
	if err != nil {
		return nil, err
	}
	return DecodeFormat(pair.Value)
}

func (n *Nodes) SetFormat(f *Format) error {
	value, err := f.Encode()
	if err != nil {
		return err
	}
	return n.store.Mutate([]*Mutation{NewMutation(MetaTable, formatKey, value)})
}

func (n *Nodes) Close() error {
	return n.store.Close()
}
