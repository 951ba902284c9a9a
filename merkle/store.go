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

package merkle

import (
	"github.com/bbva/merkletree/node"
	"github.com/bbva/merkletree/storage"
)

// Store is the persistence capability the tree consumes. Nodes that were
// never written must be reported with storage.ErrKeyNotFound.
type Store interface {
	Get(pos node.Position) (node.Node, error)
	Set(pos node.Position, value node.Node) error
	// SetBatch persists every node as a single logical unit.
	SetBatch(batch []*storage.NodeMutation) error
	// NumLeaves returns 0 on a store that was never written.
	NumLeaves() (uint64, error)
	SetNumLeaves(n uint64) error
}

// FormatStore is implemented by stores able to persist the format tag of
// the tree they hold. Format returns storage.ErrKeyNotFound while unset.
type FormatStore interface {
	Store
	Format() (*storage.Format, error)
	SetFormat(f *storage.Format) error
}
