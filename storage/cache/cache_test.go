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

package cache

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/bbva/merkletree/crypto/hashing"
	"github.com/bbva/merkletree/merkle"
	"github.com/bbva/merkletree/node"
	"github.com/bbva/merkletree/storage"
	"github.com/bbva/merkletree/storage/bplus"
	"github.com/bbva/merkletree/testutils/rand"
)

func caches(t *testing.T) map[string]Cache {
	lruCache, err := NewLRUCache(1000)
	require.NoError(t, err)
	return map[string]Cache{
		Fast: NewFastCache(1 << 20),
		Free: NewFreeCache(1 << 20),
		LRU:  lruCache,
	}
}

func TestCaches(t *testing.T) {
	for name, c := range caches(t) {
		t.Run(name, func(t *testing.T) {
			pos := node.NewPosition(3, 5)
			_, ok := c.Get(pos)
			require.False(t, ok, "Empty cache should miss")

			c.Put(pos, node.Node{0x01, 0x02})
			value, ok := c.Get(pos)
			require.True(t, ok)
			require.Equal(t, node.Node{0x01, 0x02}, value)
			require.Equal(t, 1, c.Size())

			c.Put(pos, node.Node{0x03})
			value, ok = c.Get(pos)
			require.True(t, ok)
			require.Equal(t, node.Node{0x03}, value)
			require.Equal(t, 1, c.Size())

			_, ok = c.Get(pos.Sibling())
			require.False(t, ok, "Sibling should miss")
		})
	}
}

func TestLRUEviction(t *testing.T) {
	c, err := NewLRUCache(2)
	require.NoError(t, err)

	c.Put(node.NewPosition(1, 0), node.Node{0x0})
	c.Put(node.NewPosition(1, 1), node.Node{0x1})
	c.Put(node.NewPosition(1, 2), node.Node{0x2})

	require.Equal(t, 2, c.Size())
	_, ok := c.Get(node.NewPosition(1, 0))
	require.False(t, ok)
}

func TestNew(t *testing.T) {
	for _, name := range []string{Fast, Free, LRU} {
		c, err := New(name, 1<<20)
		require.NoError(t, err)
		require.NotNil(t, c)
	}

	c, err := New(None, 0)
	require.NoError(t, err)
	require.Nil(t, c)

	_, err = New("arc", 10)
	require.ErrorIs(t, err, ErrUnknownCache)
}

func TestStoreReadsThrough(t *testing.T) {
	kv := bplus.NewBPlusTreeStore()
	nodes := storage.NewNodes(kv)
	defer nodes.Close()

	pos := node.NewPosition(2, 1)
	require.NoError(t, nodes.Set(pos, node.Node{0xab}))

	c := NewFastCache(1 << 20)
	store := NewStore(nodes, c)

	value, err := store.Get(pos)
	require.NoError(t, err)
	require.Equal(t, node.Node{0xab}, value)
	require.Equal(t, 1, c.Size())

	// served from the cache from now on
	require.NoError(t, kv.Mutate([]*storage.Mutation{
		storage.NewMutation(storage.NodesTable, pos.Bytes(), []byte{0xcd}),
	}))
	value, err = store.Get(pos)
	require.NoError(t, err)
	require.Equal(t, node.Node{0xab}, value)

	_, err = store.Get(node.NewPosition(2, 2))
	require.ErrorIs(t, err, storage.ErrKeyNotFound)
	require.Equal(t, 1, c.Size())
}

func TestStoreWritesThrough(t *testing.T) {
	nodes := storage.NewNodes(bplus.NewBPlusTreeStore())
	defer nodes.Close()

	c := NewFreeCache(1 << 20)
	store := NewStore(nodes, c)

	batch := []*storage.NodeMutation{
		storage.NewNodeMutation(node.NewPosition(1, 0), node.Node{0x01}),
		storage.NewNodeMutation(node.NewPosition(1, 1), node.Node{0x02}),
	}
	require.NoError(t, store.SetBatch(batch))
	require.Equal(t, 2, c.Size())

	for _, m := range batch {
		value, err := nodes.Get(m.Pos)
		require.NoError(t, err)
		require.Equal(t, m.Value, value)
	}
}

type failingStore struct {
	merkle.Store
}

func (failingStore) SetBatch([]*storage.NodeMutation) error {
	return errors.New("write refused")
}

func TestStoreDoesNotCacheFailedWrites(t *testing.T) {
	nodes := storage.NewNodes(bplus.NewBPlusTreeStore())
	defer nodes.Close()

	c, err := NewLRUCache(10)
	require.NoError(t, err)
	store := NewStore(failingStore{nodes}, c)

	err = store.SetBatch([]*storage.NodeMutation{
		storage.NewNodeMutation(node.NewPosition(1, 0), node.Node{0x01}),
	})
	require.Error(t, err)
	require.Equal(t, 0, c.Size())

	_, ok := store.(merkle.FormatStore)
	require.False(t, ok, "A store without format should not expose one")
}

func TestStoreForwardsFormat(t *testing.T) {
	nodes := storage.NewNodes(bplus.NewBPlusTreeStore())
	defer nodes.Close()

	store := NewStore(nodes, NewFastCache(1<<20))
	_, ok := store.(merkle.FormatStore)
	require.True(t, ok)

	_, err := merkle.NewTree(4, hashing.NewKeccak256Hasher(), store)
	require.NoError(t, err)
	_, err = merkle.NewTree(5, hashing.NewKeccak256Hasher(), store)
	require.ErrorIs(t, err, merkle.ErrFormatMismatch)
}

func TestCachedTreeMatchesUncached(t *testing.T) {
	hasher := hashing.NewKeccak256Hasher()
	leaves := rand.Nodes(300, 32)

	plain := storage.NewNodes(bplus.NewBPlusTreeStore())
	defer plain.Close()
	reference, err := merkle.NewTree(12, hasher, plain)
	require.NoError(t, err)

	for name, c := range caches(t) {
		t.Run(name, func(t *testing.T) {
			nodes := storage.NewNodes(bplus.NewBPlusTreeStore())
			defer nodes.Close()

			tree, err := merkle.NewTree(12, hasher, NewStore(nodes, c))
			require.NoError(t, err)

			for i := 0; i < len(leaves); i += 30 {
				require.NoError(t, tree.AddLeaves(leaves[i:i+30]))
			}

			root, err := tree.Root()
			require.NoError(t, err)
			proof, err := tree.Proof(123)
			require.NoError(t, err)
			require.True(t, proof.VerifyRoot(hasher, root))
			require.Greater(t, c.Size(), 0)
		})
	}

	require.NoError(t, reference.AddLeaves(leaves))
	expected, err := reference.Root()
	require.NoError(t, err)

	nodes := storage.NewNodes(bplus.NewBPlusTreeStore())
	defer nodes.Close()
	lruCache, err := NewLRUCache(16)
	require.NoError(t, err)
	tree, err := merkle.NewTree(12, hasher, NewStore(nodes, lruCache))
	require.NoError(t, err)
	require.NoError(t, tree.AddLeaves(leaves))
	root, err := tree.Root()
	require.NoError(t, err)
	require.Equal(t, expected, root)
}

func TestCachesCopyValues(t *testing.T) {
	for name, c := range caches(t) {
		t.Run(name, func(t *testing.T) {
			pos := node.NewPosition(3, 1)
			value := node.Node{0x01, 0x02}
			c.Put(pos, value)
			value[0] = 0xff

			cached, ok := c.Get(pos)
			require.True(t, ok)
			require.Equal(t, node.Node{0x01, 0x02}, cached)

			cached[1] = 0xff
			again, ok := c.Get(pos)
			require.True(t, ok)
			require.Equal(t, node.Node{0x01, 0x02}, again)
		})
	}
}

func TestCachedTreeWithReusedBuffer(t *testing.T) {
	hasher := hashing.NewKeccak256Hasher()
	leaves := rand.Nodes(4, 32)

	plain := storage.NewNodes(bplus.NewBPlusTreeStore())
	defer plain.Close()
	reference, err := merkle.NewTree(3, hasher, plain)
	require.NoError(t, err)
	require.NoError(t, reference.AddLeaves(leaves))
	expected, err := reference.Root()
	require.NoError(t, err)

	for name, c := range caches(t) {
		t.Run(name, func(t *testing.T) {
			nodes := storage.NewNodes(bplus.NewBPlusTreeStore())
			defer nodes.Close()

			tree, err := merkle.NewTree(3, hasher, NewStore(nodes, c))
			require.NoError(t, err)

			buf := make(node.Node, 32)
			for _, leaf := range leaves {
				copy(buf, leaf)
				require.NoError(t, tree.AddLeaves([]node.Node{buf}))
			}

			root, err := tree.Root()
			require.NoError(t, err)
			require.Equal(t, expected, root)
		})
	}
}
