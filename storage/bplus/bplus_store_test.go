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

package bplus

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/bbva/merkletree/storage"
	"github.com/bbva/merkletree/storage/storagetest"
)

func TestBPlusTreeStore(t *testing.T) {
	storagetest.TestStore(t, func(t *testing.T) (storage.Store, func()) {
		store := NewBPlusTreeStore()
		return store, func() { store.Close() }
	})
}

func TestLen(t *testing.T) {
	store := NewBPlusTreeStore()
	defer store.Close()

	require.NoError(t, store.Mutate([]*storage.Mutation{
		storage.NewMutation(storage.NodesTable, []byte{0x01}, []byte{0x01}),
		storage.NewMutation(storage.NodesTable, []byte{0x02}, []byte{0x02}),
		storage.NewMutation(storage.MetaTable, []byte{0x01}, []byte{0x03}),
	}))

	require.Equal(t, 2, store.Len(storage.NodesTable))
	require.Equal(t, 1, store.Len(storage.MetaTable))
}

func TestMutateCopiesValues(t *testing.T) {
	store := NewBPlusTreeStore()
	defer store.Close()

	value := []byte{0x01}
	require.NoError(t, store.Mutate([]*storage.Mutation{
		storage.NewMutation(storage.NodesTable, []byte("Key"), value),
	}))
	value[0] = 0xff

	stored, err := store.Get(storage.NodesTable, []byte("Key"))
	require.NoError(t, err)
	require.Equal(t, []byte{0x01}, stored.Value)
}

func TestGetCopiesValues(t *testing.T) {
	store := NewBPlusTreeStore()
	defer store.Close()

	require.NoError(t, store.Mutate([]*storage.Mutation{
		storage.NewMutation(storage.NodesTable, []byte("Key"), []byte{0x01}),
	}))

	first, err := store.Get(storage.NodesTable, []byte("Key"))
	require.NoError(t, err)
	first.Value[0] = 0xff

	second, err := store.Get(storage.NodesTable, []byte("Key"))
	require.NoError(t, err)
	require.Equal(t, []byte{0x01}, second.Value)
}
