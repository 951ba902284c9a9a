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
	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/bbva/merkletree/node"
)

// LRUCache bounds the number of cached nodes, evicting the least recently
// used one first.
type LRUCache struct {
	cached *lru.Cache[node.Position, node.Node]
}

func NewLRUCache(size int) (*LRUCache, error) {
	cached, err := lru.New[node.Position, node.Node](size)
	if err != nil {
		return nil, err
	}
	return &LRUCache{cached: cached}, nil
}

// Get returns a copy of the cached value.
func (c LRUCache) Get(pos node.Position) (node.Node, bool) {
	value, ok := c.cached.Get(pos)
	if !ok {
		return nil, false
	}
	return append(node.Node(nil), value...), true
}

// Put keeps its own copy of value, so the caller may reuse its buffer.
func (c *LRUCache) Put(pos node.Position, value node.Node) {
	c.cached.Add(pos, append(node.Node(nil), value...))
}

func (c LRUCache) Size() int {
	return c.cached.Len()
}
