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

// Package badger is a persistent storage backend over BadgerDB.
package badger

import (
	"sync"
	"time"

	b "github.com/dgraph-io/badger"
	bo "github.com/dgraph-io/badger/options"

	"github.com/bbva/merkletree/log"
	"github.com/bbva/merkletree/storage"
)

type BadgerStore struct {
	db     *b.DB
	log    log.Logger
	stop   chan struct{}
	closed sync.Once
	wg     sync.WaitGroup
}

// Options configures a BadgerStore.
type Options struct {
	Path string

	// BadgerOptions replaces badger.DefaultOptions as the base. Paths,
	// loading modes and value threshold are always overridden.
	BadgerOptions *b.Options

	SyncWrites bool

	// ValueLogGC starts a goroutine reclaiming value log space while the
	// store is open. It checks the log size every GCInterval (1m) and runs
	// when it grew more than GCThreshold bytes (1GB) since the last run,
	// and unconditionally every MandatoryGCInterval (10m).
	ValueLogGC          bool
	GCInterval          time.Duration
	MandatoryGCInterval time.Duration
	GCThreshold         int64

	// Logger defaults to log.L().
	Logger log.Logger
}

func NewBadgerStore(path string) (*BadgerStore, error) {
	return NewBadgerStoreOpts(&Options{Path: path})
}

func NewBadgerStoreOpts(opts *Options) (*BadgerStore, error) {

	var bOpts b.Options
	if bOpts = b.DefaultOptions; opts.BadgerOptions != nil {
		bOpts = *opts.BadgerOptions
	}

	bOpts.TableLoadingMode = bo.MemoryMap
	bOpts.ValueLogLoadingMode = bo.FileIO
	bOpts.Dir = opts.Path
	bOpts.ValueDir = opts.Path
	bOpts.SyncWrites = opts.SyncWrites
	// nodes are small, keep them in the LSM tree
	bOpts.ValueThreshold = 1 << 11

	db, err := b.Open(bOpts)
	if err != nil {
		return nil, err
	}

	logger := opts.Logger
	if logger == nil {
		logger = log.L()
	}

	store := &BadgerStore{
		db:   db,
		log:  logger.Named("badger"),
		stop: make(chan struct{}),
	}

	if opts.ValueLogGC {

		var gcInterval time.Duration
		var mandatoryGCInterval time.Duration
		var threshold int64

		if gcInterval = 1 * time.Minute; opts.GCInterval != 0 {
			gcInterval = opts.GCInterval
		}
		if mandatoryGCInterval = 10 * time.Minute; opts.MandatoryGCInterval != 0 {
			mandatoryGCInterval = opts.MandatoryGCInterval
		}
		if threshold = int64(1 << 30); opts.GCThreshold != 0 {
			threshold = opts.GCThreshold
		}

		store.wg.Add(1)
		go store.runVlogGC(gcInterval, mandatoryGCInterval, threshold)
	}

	return store, nil
}

// Mutate writes every mutation in one transaction. Batches larger than
// what a single Badger transaction can hold are split, losing atomicity
// across the split points.
func (s *BadgerStore) Mutate(mutations []*storage.Mutation) error {
	txn := s.db.NewTransaction(true)
	for _, m := range mutations {
		key := storage.PrefixedKey(m.Table, m.Key)
		err := txn.Set(key, m.Value)
		if err == b.ErrTxnTooBig {
			if err := txn.Commit(nil); err != nil {
				return err
			}
			txn = s.db.NewTransaction(true)
			err = txn.Set(key, m.Value)
		}
		if err != nil {
			txn.Discard()
			return err
		}
	}
	return txn.Commit(nil)
}

func (s *BadgerStore) Get(table storage.Table, key []byte) (*storage.KVPair, error) {
	result := new(storage.KVPair)
	result.Key = key
	err := s.db.View(func(txn *b.Txn) error {
		item, err := txn.Get(storage.PrefixedKey(table, key))
		if err != nil {
			return err
		}
		value, err := item.ValueCopy(nil)
		if err != nil {
			return err
		}
		result.Value = value
		return nil
	})
	switch err {
	case nil:
		return result, nil
	case b.ErrKeyNotFound:
		return nil, storage.ErrKeyNotFound
	default:
		return nil, err
	}
}

func (s *BadgerStore) Close() error {
	s.closed.Do(func() { close(s.stop) })
	s.wg.Wait()
	return s.db.Close()
}

func (s *BadgerStore) runVlogGC(interval, mandatoryInterval time.Duration, threshold int64) {
	defer s.wg.Done()

	vlogTicker := time.NewTicker(interval)
	defer vlogTicker.Stop()
	mandatoryVlogTicker := time.NewTicker(mandatoryInterval)
	defer mandatoryVlogTicker.Stop()

	_, lastVlogSize := s.db.Size()

	runGC := func() {
		var runs int
		// each successful run may leave more files to rewrite
		for s.db.RunValueLogGC(0.7) == nil {
			runs++
		}
		_, lastVlogSize = s.db.Size()
		s.log.Debugf("Value log GC rewrote %d files, value log size %d", runs, lastVlogSize)
	}

	for {
		select {
		case <-s.stop:
			return
		case <-vlogTicker.C:
			_, currentVlogSize := s.db.Size()
			if currentVlogSize < lastVlogSize+threshold {
				continue
			}
			runGC()
		case <-mandatoryVlogTicker.C:
			runGC()
		}
	}
}
