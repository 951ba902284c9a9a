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

// Package cache keeps recently used tree nodes in memory in front of a
// node store.
package cache

import (
	"errors"
	"fmt"

	"github.com/bbva/merkletree/node"
)

// Cache holds node values indexed by their position. Put stores a copy of
// the value and Get never returns memory shared with the cache.
type Cache interface {
	Get(pos node.Position) (node.Node, bool)
	Put(pos node.Position, value node.Node)
	Size() int
}

const (
	None = "none"
	Fast = "fast"
	Free = "free"
	LRU  = "lru"
)

var ErrUnknownCache = errors.New("unknown cache")

// New builds a cache by name. size is a number of bytes for the fast and
// free caches, and a number of entries for the lru one. It returns a nil
// Cache for None.
func New(name string, size int) (Cache, error) {
	switch name {
	case None, "":
		return nil, nil
	case Fast:
		return NewFastCache(int64(size)), nil
	case Free:
		return NewFreeCache(size), nil
	case LRU:
		return NewLRUCache(size)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownCache, name)
	}
}
