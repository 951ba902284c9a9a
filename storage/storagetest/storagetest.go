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

// Package storagetest holds the conformance suites every storage backend
// runs from its own tests.
package storagetest

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/bbva/merkletree/node"
	"github.com/bbva/merkletree/storage"
)

// OpenStoreF returns an empty store and a function releasing it.
type OpenStoreF func(t *testing.T) (storage.Store, func())

// NodeStore mirrors the capability the tree consumes.
type NodeStore interface {
	Get(pos node.Position) (node.Node, error)
	Set(pos node.Position, value node.Node) error
	SetBatch(batch []*storage.NodeMutation) error
	NumLeaves() (uint64, error)
	SetNumLeaves(n uint64) error
}

// FormatStore is implemented by node stores that persist a format tag.
type FormatStore interface {
	Format() (*storage.Format, error)
	SetFormat(f *storage.Format) error
}

// OpenNodeStoreF returns an empty node store and a function releasing it.
type OpenNodeStoreF func(t *testing.T) (NodeStore, func())

// TestStore runs the key/value conformance suite and then the node suite
// over the Nodes layout.
func TestStore(t *testing.T, open OpenStoreF) {

	t.Run("mutate and get", func(t *testing.T) {
		store, closeF := open(t)
		defer closeF()

		testCases := []struct {
			table      storage.Table
			key, value []byte
		}{
			{storage.NodesTable, []byte("Key1"), []byte("Value1")},
			{storage.NodesTable, []byte("Key2"), []byte("Value2")},
			{storage.MetaTable, []byte("Key1"), []byte("Value3")},
		}

		for i, c := range testCases {
			err := store.Mutate([]*storage.Mutation{storage.NewMutation(c.table, c.key, c.value)})
			require.NoErrorf(t, err, "Error mutating in test case %d", i)
		}

		for i, c := range testCases {
			stored, err := store.Get(c.table, c.key)
			require.NoErrorf(t, err, "Error getting key in test case %d", i)
			require.Equalf(t, c.key, stored.Key, "The stored key does not match the original in test case %d", i)
			require.Equalf(t, c.value, stored.Value, "The stored value does not match the original in test case %d", i)
		}
	})

	t.Run("get non existent key", func(t *testing.T) {
		store, closeF := open(t)
		defer closeF()

		require.NoError(t, store.Mutate([]*storage.Mutation{
			storage.NewMutation(storage.NodesTable, []byte("Key"), []byte("Value")),
		}))

		_, err := store.Get(storage.MetaTable, []byte("Key"))
		require.ErrorIs(t, err, storage.ErrKeyNotFound, "Tables must not share keys")
		_, err = store.Get(storage.NodesTable, []byte("Other"))
		require.ErrorIs(t, err, storage.ErrKeyNotFound)
	})

	t.Run("overwrite", func(t *testing.T) {
		store, closeF := open(t)
		defer closeF()

		for _, v := range []string{"first", "second"} {
			require.NoError(t, store.Mutate([]*storage.Mutation{
				storage.NewMutation(storage.NodesTable, []byte("Key"), []byte(v)),
			}))
		}
		stored, err := store.Get(storage.NodesTable, []byte("Key"))
		require.NoError(t, err)
		require.Equal(t, []byte("second"), stored.Value)
	})

	t.Run("large batch", func(t *testing.T) {
		store, closeF := open(t)
		defer closeF()

		mutations := make([]*storage.Mutation, 0, 5000)
		for i := 0; i < 5000; i++ {
			mutations = append(mutations, storage.NewMutation(
				storage.NodesTable,
				[]byte(fmt.Sprintf("key-%05d", i)),
				[]byte(fmt.Sprintf("value-%05d", i)),
			))
		}
		require.NoError(t, store.Mutate(mutations))

		for _, i := range []int{0, 2500, 4999} {
			stored, err := store.Get(storage.NodesTable, []byte(fmt.Sprintf("key-%05d", i)))
			require.NoError(t, err)
			require.Equal(t, []byte(fmt.Sprintf("value-%05d", i)), stored.Value)
		}
	})

	TestNodeStore(t, func(t *testing.T) (NodeStore, func()) {
		store, closeF := open(t)
		return storage.NewNodes(store), closeF
	})
}

// TestNodeStore runs the node capability conformance suite.
func TestNodeStore(t *testing.T, open OpenNodeStoreF) {

	t.Run("node set and get", func(t *testing.T) {
		store, closeF := open(t)
		defer closeF()

		pos := node.NewPosition(3, 5)
		_, err := store.Get(pos)
		require.ErrorIs(t, err, storage.ErrKeyNotFound)

		require.NoError(t, store.Set(pos, node.Node{0x01, 0x02}))
		value, err := store.Get(pos)
		require.NoError(t, err)
		require.Equal(t, node.Node{0x01, 0x02}, value)

		require.NoError(t, store.Set(pos, node.Node{0x03, 0x04}))
		value, err = store.Get(pos)
		require.NoError(t, err)
		require.Equal(t, node.Node{0x03, 0x04}, value)

		_, err = store.Get(node.NewPosition(5, 3))
		require.ErrorIs(t, err, storage.ErrKeyNotFound)
	})

	t.Run("node batch", func(t *testing.T) {
		store, closeF := open(t)
		defer closeF()

		batch := []*storage.NodeMutation{
			storage.NewNodeMutation(node.NewPosition(2, 0), node.Node{0x0a}),
			storage.NewNodeMutation(node.NewPosition(2, 1), node.Node{0x0b}),
			storage.NewNodeMutation(node.NewPosition(1, 0), node.Node{0x0c}),
			storage.NewNodeMutation(node.Root(), node.Node{0x0d}),
		}
		require.NoError(t, store.SetBatch(batch))
		require.NoError(t, store.SetBatch(nil))

		for i, m := range batch {
			value, err := store.Get(m.Pos)
			require.NoErrorf(t, err, "Error getting node in test case %d", i)
			require.Equalf(t, m.Value, value, "Wrong node value in test case %d", i)
		}
	})

	t.Run("num leaves", func(t *testing.T) {
		store, closeF := open(t)
		defer closeF()

		n, err := store.NumLeaves()
		require.NoError(t, err)
		require.Equal(t, uint64(0), n, "A fresh store has no leaves")

		require.NoError(t, store.SetNumLeaves(10000))
		n, err = store.NumLeaves()
		require.NoError(t, err)
		require.Equal(t, uint64(10000), n)

		require.NoError(t, store.SetNumLeaves(1<<40))
		n, err = store.NumLeaves()
		require.NoError(t, err)
		require.Equal(t, uint64(1<<40), n)
	})

	t.Run("format", func(t *testing.T) {
		store, closeF := open(t)
		defer closeF()

		fs, ok := store.(FormatStore)
		if !ok {
			t.Skip("store does not persist a format tag")
		}

		_, err := fs.Format()
		require.ErrorIs(t, err, storage.ErrKeyNotFound)

		f := &storage.Format{Version: storage.FormatVersion, Depth: 32, Hasher: "keccak256", Width: 32}
		require.NoError(t, fs.SetFormat(f))

		stored, err := fs.Format()
		require.NoError(t, err)
		require.True(t, f.Equal(*stored), "Expected %s, got %s", f, stored)
	})
}
