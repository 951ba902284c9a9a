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

// Package bolt is a persistent storage backend over a single bbolt file,
// with one bucket per table.
package bolt

import (
	"time"

	b "github.com/coreos/bbolt"

	"github.com/bbva/merkletree/storage"
)

type BoltStore struct {
	db *b.DB
}

// Options contains the configuration used to open the bolt file.
type Options struct {
	// Path is the file holding the database.
	Path string

	// NoSync skips fsync after each commit. Unsafe on crashes.
	NoSync bool

	// Timeout bounds the wait for the file lock. Zero waits forever.
	Timeout time.Duration
}

func NewBoltStore(path string) (*BoltStore, error) {
	return NewBoltStoreOpts(&Options{Path: path, Timeout: time.Second})
}

func NewBoltStoreOpts(opts *Options) (*BoltStore, error) {
	db, err := b.Open(opts.Path, 0600, &b.Options{Timeout: opts.Timeout})
	if err != nil {
		return nil, err
	}
	db.NoSync = opts.NoSync

	err = db.Update(func(tx *b.Tx) error {
		for _, table := range storage.Tables() {
			if _, err := tx.CreateBucketIfNotExists(bucket(table)); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		db.Close()
		return nil, err
	}

	return &BoltStore{db: db}, nil
}

func (s *BoltStore) Mutate(mutations []*storage.Mutation) error {
	return s.db.Update(func(tx *b.Tx) error {
		for _, m := range mutations {
			if err := tx.Bucket(bucket(m.Table)).Put(m.Key, m.Value); err != nil {
				return err
			}
		}
		return nil
	})
}

func (s *BoltStore) Get(table storage.Table, key []byte) (*storage.KVPair, error) {
	var value []byte
	err := s.db.View(func(tx *b.Tx) error {
		v := tx.Bucket(bucket(table)).Get(key)
		if v == nil {
			return storage.ErrKeyNotFound
		}
		// v is only valid during the transaction
		value = make([]byte, len(v))
		copy(value, v)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &storage.KVPair{Key: key, Value: value}, nil
}

func (s *BoltStore) Close() error {
	return s.db.Close()
}

func bucket(table storage.Table) []byte {
	return []byte(table.String())
}
