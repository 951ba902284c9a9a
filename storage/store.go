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

// Package storage defines the key/value layer the tree is persisted on,
// and the layout of tree nodes over it.
package storage

import (
	"errors"
)

var (
	ErrKeyNotFound = errors.New("key not found")
)

// Table groups keys of one kind. Key/value backends without namespaces
// prepend Table.Prefix() to every key.
type Table uint32

const (
	NodesTable Table = iota
	MetaTable
)

func (t Table) String() string {
	var s string
	switch t {
	case NodesTable:
		s = "nodes"
	case MetaTable:
		s = "meta"
	default:
		s = "unknown"
	}
	return s
}

func (t Table) Prefix() byte {
	var prefix byte
	switch t {
	case NodesTable:
		prefix = byte(0x0)
	case MetaTable:
		prefix = byte(0x1)
	default:
		prefix = byte(0xff)
	}
	return prefix
}

// Tables lists every table a backend must be ready to serve.
func Tables() []Table {
	return []Table{NodesTable, MetaTable}
}

// Store is a transactional key/value store.
type Store interface {
	// Mutate applies every mutation in a single write batch.
	Mutate(mutations []*Mutation) error
	// Get returns ErrKeyNotFound when the key was never written.
	Get(table Table, key []byte) (*KVPair, error)
	Close() error
}

type Mutation struct {
	Table      Table
	Key, Value []byte
}

func NewMutation(table Table, key, value []byte) *Mutation {
	return &Mutation{table, key, value}
}

type KVPair struct {
	Key, Value []byte
}

// PrefixedKey returns key with the table prefix prepended.
func PrefixedKey(table Table, key []byte) []byte {
	k := make([]byte, 0, len(key)+1)
	k = append(k, table.Prefix())
	return append(k, key...)
}
