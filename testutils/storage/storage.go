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

// Package storage opens throwaway stores for tests.
package storage

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/bbva/merkletree/storage"
	"github.com/bbva/merkletree/storage/badger"
	"github.com/bbva/merkletree/storage/bolt"
	"github.com/bbva/merkletree/storage/bplus"
	"github.com/bbva/merkletree/storage/pebble"
	"github.com/bbva/merkletree/storage/sql"
)

func OpenBPlusTreeStore() (*storage.Nodes, func()) {
	store := bplus.NewBPlusTreeStore()
	return storage.NewNodes(store), func() {
		store.Close()
	}
}

func OpenBadgerStore(t testing.TB, path string) (*storage.Nodes, func()) {
	store, err := badger.NewBadgerStore(path)
	require.NoError(t, err)
	return storage.NewNodes(store), func() {
		store.Close()
		deleteFile(path)
	}
}

func OpenBoltStore(t testing.TB, path string) (*storage.Nodes, func()) {
	store, err := bolt.NewBoltStore(path)
	require.NoError(t, err)
	return storage.NewNodes(store), func() {
		store.Close()
		deleteFile(path)
	}
}

func OpenPebbleStore(t testing.TB, path string) (*storage.Nodes, func()) {
	store, err := pebble.NewPebbleStore(path)
	require.NoError(t, err)
	return storage.NewNodes(store), func() {
		store.Close()
		deleteFile(path)
	}
}

func OpenSQLiteStore(t testing.TB, path string) (*sql.SQLStore, func()) {
	store, err := sql.NewSQLStore("sqlite://" + path)
	require.NoError(t, err)
	return store, func() {
		store.Close()
		deleteFile(path)
	}
}

// TempPath returns a path named after name inside a fresh temp directory.
func TempPath(t testing.TB, name string) string {
	return filepath.Join(t.TempDir(), name)
}

func deleteFile(path string) {
	err := os.RemoveAll(path)
	if err != nil {
		fmt.Printf("Unable to remove db file %s", err)
	}
}
