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

package node

import (
	"fmt"

	"github.com/bbva/merkletree/util"
)

// KeySize is the length of a serialized position: two bytes of level
// followed by eight bytes of index, both big-endian.
const KeySize = 10

// Position addresses a node. Level 0 is the root and the leaves live at
// the tree depth. Index counts from the left within a level.
type Position struct {
	Level uint16
	Index uint64
}

func NewPosition(level uint16, index uint64) Position {
	return Position{Level: level, Index: index}
}

// Root is the position of the root node on every tree.
func Root() Position {
	return Position{}
}

func (p Position) IsRoot() bool {
	return p.Level == 0
}

// Bytes serializes the position so that keys of one level sort by index.
func (p Position) Bytes() []byte {
	b := make([]byte, KeySize)
	copy(b[:2], util.Uint16AsBytes(p.Level))
	copy(b[2:], util.Uint64AsBytes(p.Index))
	return b
}

func (p Position) Sibling() Position {
	return Position{Level: p.Level, Index: p.Index ^ 1}
}

// Parent panics when called on the root.
func (p Position) Parent() Position {
	if p.IsRoot() {
		panic("the root has no parent")
	}
	return Position{Level: p.Level - 1, Index: p.Index >> 1}
}

func (p Position) Left() Position {
	return Position{Level: p.Level + 1, Index: p.Index << 1}
}

func (p Position) Right() Position {
	return Position{Level: p.Level + 1, Index: p.Index<<1 | 1}
}

func (p Position) String() string {
	return fmt.Sprintf("Pos(%d, %d)", p.Level, p.Index)
}
