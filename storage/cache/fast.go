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
	"github.com/VictoriaMetrics/fastcache"

	"github.com/bbva/merkletree/node"
)

// FastCache bounds the memory used by the cached nodes, evicting whole
// buckets when full. Positions are stored through their 10-byte key.
type FastCache struct {
	cached *fastcache.Cache
}

func NewFastCache(maxBytes int64) *FastCache {
	return &FastCache{cached: fastcache.New(int(maxBytes))}
}

func (c FastCache) Get(pos node.Position) (node.Node, bool) {
	// nodes are never empty, so a nil result is a miss
	value := c.cached.Get(nil, pos.Bytes())
	if value == nil {
		return nil, false
	}
	return value, true
}

func (c *FastCache) Put(pos node.Position, value node.Node) {
	c.cached.Set(pos.Bytes(), value)
}

func (c FastCache) Size() int {
	var stats fastcache.Stats
	c.cached.UpdateStats(&stats)
	return int(stats.EntriesCount)
}
