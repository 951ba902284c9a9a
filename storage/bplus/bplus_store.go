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

// Package bplus is an in-memory storage backend over a B-tree.
package bplus

import (
	"bytes"
	"sync"

	"github.com/google/btree"

	"github.com/bbva/merkletree/storage"
)

type BPlusTreeStore struct {
	sync.RWMutex
	db *btree.BTree
}

func NewBPlusTreeStore() *BPlusTreeStore {
	return &BPlusTreeStore{db: btree.New(2)}
}

func (s *BPlusTreeStore) Mutate(mutations []*storage.Mutation) error {
	s.Lock()
	defer s.Unlock()
	for _, m := range mutations {
		value := make([]byte, len(m.Value))
		copy(value, m.Value)
		s.db.ReplaceOrInsert(KVItem{storage.PrefixedKey(m.Table, m.Key), value})
	}
	return nil
}

func (s *BPlusTreeStore) Get(table storage.Table, key []byte) (*storage.KVPair, error) {
	s.RLock()
	defer s.RUnlock()
	item := s.db.Get(KVItem{storage.PrefixedKey(table, key), nil})
	if item == nil {
		return nil, storage.ErrKeyNotFound
	}
	stored := item.(KVItem).Value
	value := make([]byte, len(stored))
	copy(value, stored)
	return &storage.KVPair{Key: key, Value: value}, nil
}

// Len returns the number of keys stored in table.
func (s *BPlusTreeStore) Len(table storage.Table) int {
	s.RLock()
	defer s.RUnlock()
	var n int
	prefix := []byte{table.Prefix()}
	s.db.AscendGreaterOrEqual(KVItem{prefix, nil}, func(i btree.Item) bool {
		if !bytes.HasPrefix(i.(KVItem).Key, prefix) {
			return false
		}
		n++
		return true
	})
	return n
}

func (s *BPlusTreeStore) Close() error {
	s.Lock()
	defer s.Unlock()
	s.db.Clear(false)
	return nil
}

type KVItem struct {
	Key, Value []byte
}

func (p KVItem) Less(b btree.Item) bool {
	return bytes.Compare(p.Key, b.(KVItem).Key) < 0
}
