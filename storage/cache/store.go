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
	"io"

	"github.com/bbva/merkletree/merkle"
	"github.com/bbva/merkletree/metrics"
	"github.com/bbva/merkletree/node"
	"github.com/bbva/merkletree/storage"
)

// Store reads nodes through a cache and writes them through to the
// underlying store. Values only reach the cache after the store accepted
// them, so a failed batch never leaves unpersisted nodes behind.
type Store struct {
	store merkle.Store
	cache Cache
}

// formatStore also forwards the format tag.
type formatStore struct {
	*Store
	formats merkle.FormatStore
}

// NewStore wraps store with c. The result implements merkle.FormatStore
// when store does.
func NewStore(store merkle.Store, c Cache) merkle.Store {
	s := &Store{store: store, cache: c}
	if fs, ok := store.(merkle.FormatStore); ok {
		return &formatStore{Store: s, formats: fs}
	}
	return s
}

func (s *Store) Get(pos node.Position) (node.Node, error) {
	if value, ok := s.cache.Get(pos); ok {
		metrics.CacheHitsTotal.Inc()
		return value, nil
	}
	metrics.CacheMissesTotal.Inc()

	value, err := s.store.Get(pos)
	if err != nil {
		return nil, err
	}
	s.cache.Put(pos, value)
	return value, nil
}

func (s *Store) Set(pos node.Position, value node.Node) error {
	if err := s.store.Set(pos, value); err != nil {
		return err
	}
	s.cache.Put(pos, value)
	return nil
}

func (s *Store) SetBatch(batch []*storage.NodeMutation) error {
	if err := s.store.SetBatch(batch); err != nil {
		return err
	}
	for _, m := range batch {
		s.cache.Put(m.Pos, m.Value)
	}
	return nil
}

func (s *Store) NumLeaves() (uint64, error) {
	return s.store.NumLeaves()
}

func (s *Store) SetNumLeaves(n uint64) error {
	return s.store.SetNumLeaves(n)
}

// Size is the number of cached nodes.
func (s *Store) Size() int {
	return s.cache.Size()
}

func (s *Store) Close() error {
	if c, ok := s.store.(io.Closer); ok {
		return c.Close()
	}
	return nil
}

func (s *formatStore) Format() (*storage.Format, error) {
	return s.formats.Format()
}

func (s *formatStore) SetFormat(f *storage.Format) error {
	return s.formats.SetFormat(f)
}
