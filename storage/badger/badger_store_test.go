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

package badger

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/bbva/merkletree/node"
	"github.com/bbva/merkletree/storage"
	"github.com/bbva/merkletree/storage/storagetest"
)

func TestBadgerStore(t *testing.T) {
	storagetest.TestStore(t, func(t *testing.T) (storage.Store, func()) {
		return openBadgerStore(t, filepath.Join(t.TempDir(), "badger_store_test.db"))
	})
}

func TestReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "badger_store_test.db")

	store, closeF := openBadgerStore(t, path)
	nodes := storage.NewNodes(store)
	require.NoError(t, nodes.Set(node.NewPosition(4, 7), node.Node{0x0a}))
	require.NoError(t, nodes.SetNumLeaves(8))
	closeF()

	store, closeF = openBadgerStore(t, path)
	defer closeF()
	nodes = storage.NewNodes(store)

	value, err := nodes.Get(node.NewPosition(4, 7))
	require.NoError(t, err)
	require.Equal(t, node.Node{0x0a}, value)

	n, err := nodes.NumLeaves()
	require.NoError(t, err)
	require.Equal(t, uint64(8), n)
}

func TestValueLogGCStopsOnClose(t *testing.T) {
	store, err := NewBadgerStoreOpts(&Options{
		Path:                filepath.Join(t.TempDir(), "badger_store_test.db"),
		ValueLogGC:          true,
		GCInterval:          10 * time.Millisecond,
		MandatoryGCInterval: 20 * time.Millisecond,
	})
	require.NoError(t, err)

	time.Sleep(50 * time.Millisecond)
	require.NoError(t, store.Close())
}

func openBadgerStore(t *testing.T, path string) (*BadgerStore, func()) {
	store, err := NewBadgerStore(path)
	require.NoError(t, err)
	return store, func() {
		store.Close()
	}
}
