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

package pebble

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/bbva/merkletree/node"
	"github.com/bbva/merkletree/storage"
	"github.com/bbva/merkletree/storage/storagetest"
)

func TestPebbleStore(t *testing.T) {
	storagetest.TestStore(t, func(t *testing.T) (storage.Store, func()) {
		store, err := NewPebbleStoreOpts(&Options{Path: "pebble_store_test", InMemory: true, NoSync: true})
		require.NoError(t, err)
		return store, func() { store.Close() }
	})
}

func TestReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pebble_store_test.db")

	store, err := NewPebbleStore(path)
	require.NoError(t, err)
	nodes := storage.NewNodes(store)
	require.NoError(t, nodes.Set(node.NewPosition(2, 3), node.Node{0x0d}))
	require.NoError(t, nodes.SetNumLeaves(4))
	require.NoError(t, store.Close())

	store, err = NewPebbleStore(path)
	require.NoError(t, err)
	defer store.Close()
	nodes = storage.NewNodes(store)

	value, err := nodes.Get(node.NewPosition(2, 3))
	require.NoError(t, err)
	require.Equal(t, node.Node{0x0d}, value)

	n, err := nodes.NumLeaves()
	require.NoError(t, err)
	require.Equal(t, uint64(4), n)
}
