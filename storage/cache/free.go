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
	"github.com/coocood/freecache"

	"github.com/bbva/merkletree/node"
)

// FreeCache bounds the memory used by the cached nodes without adding
// pointers for the garbage collector to scan.
type FreeCache struct {
	cached *freecache.Cache
}

// NewFreeCache returns a cache of size bytes. Sizes below 512KB are
// raised to it.
func NewFreeCache(size int) *FreeCache {
	return &FreeCache{cached: freecache.NewCache(size)}
}

func (c FreeCache) Get(pos node.Position) (node.Node, bool) {
	value, err := c.cached.Get(pos.Bytes())
	if err != nil {
		return nil, false
	}
	return value, true
}

// Put drops nodes larger than 1/1024 of the cache size.
func (c *FreeCache) Put(pos node.Position, value node.Node) {
	_ = c.cached.Set(pos.Bytes(), value, 0)
}

func (c FreeCache) Size() int {
	return int(c.cached.EntryCount())
}
