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

// Package pebble is a persistent storage backend over Pebble.
package pebble

import (
	"errors"

	"github.com/cockroachdb/pebble"
	"github.com/cockroachdb/pebble/vfs"

	"github.com/bbva/merkletree/storage"
)

type PebbleStore struct {
	db        *pebble.DB
	writeOpts *pebble.WriteOptions
}

// Options contains the configuration used to open the Pebble db.
type Options struct {
	// Path is the directory holding the database.
	Path string

	// InMemory keeps every file in memory. Path is still used as the
	// directory name inside the in-memory filesystem.
	InMemory bool

	// NoSync skips fsync on commit.
	NoSync bool

	// PebbleOptions contains any specific Pebble options you might want
	// to specify.
	PebbleOptions *pebble.Options
}

func NewPebbleStore(path string) (*PebbleStore, error) {
	return NewPebbleStoreOpts(&Options{Path: path})
}

func NewPebbleStoreOpts(opts *Options) (*PebbleStore, error) {
	pOpts := &pebble.Options{}
	if opts.PebbleOptions != nil {
		pOpts = opts.PebbleOptions
	}
	if opts.InMemory {
		pOpts.FS = vfs.NewMem()
	}

	db, err := pebble.Open(opts.Path, pOpts)
	if err != nil {
		return nil, err
	}

	writeOpts := pebble.Sync
	if opts.NoSync {
		writeOpts = pebble.NoSync
	}

	return &PebbleStore{db: db, writeOpts: writeOpts}, nil
}

func (s *PebbleStore) Mutate(mutations []*storage.Mutation) error {
	batch := s.db.NewBatch()
	defer batch.Close()
	for _, m := range mutations {
		if err := batch.Set(storage.PrefixedKey(m.Table, m.Key), m.Value, nil); err != nil {
			return err
		}
	}
	return batch.Commit(s.writeOpts)
}

func (s *PebbleStore) Get(table storage.Table, key []byte) (*storage.KVPair, error) {
	v, closer, err := s.db.Get(storage.PrefixedKey(table, key))
	if errors.Is(err, pebble.ErrNotFound) {
		return nil, storage.ErrKeyNotFound
	}
	if err != nil {
		return nil, err
	}
	defer closer.Close()

	// v is only valid until closer is closed
	value := make([]byte, len(v))
	copy(value, v)
	return &storage.KVPair{Key: key, Value: value}, nil
}

func (s *PebbleStore) Close() error {
	return s.db.Close()
}
