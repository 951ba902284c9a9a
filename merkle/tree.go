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

// Package merkle implements an append-only Merkle tree of fixed depth.
//
// Every non-empty node is materialized in a Store, so inclusion proofs are
// built with exactly one read per level. Subtrees without leaves are never
// persisted: their value is taken from the zero values of the hasher.
package merkle

import (
	"errors"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/bbva/merkletree/crypto/hashing"
	"github.com/bbva/merkletree/log"
	"github.com/bbva/merkletree/metrics"
	"github.com/bbva/merkletree/node"
	"github.com/bbva/merkletree/storage"
	"github.com/bbva/merkletree/util"
)

// MaxDepth keeps the capacity representable on a uint64.
const MaxDepth = 63

type TreeOptionF func(*Tree) error

// SetLogger overrides the default named logger.
func SetLogger(l log.Logger) TreeOptionF {
	return func(t *Tree) error {
		t.log = l
		return nil
	}
}

// SkipFormatCheck does not read nor write the format tag of the store.
func SkipFormatCheck() TreeOptionF {
	return func(t *Tree) error {
		t.checkFormat = false
		return nil
	}
}

// CheckFrozen makes every batch read the stored value of each node it is
// about to rewrite and fail with ErrFrozenNode when a node whose subtree was
// already full would change. It costs one extra read per written node.
func CheckFrozen() TreeOptionF {
	return func(t *Tree) error {
		t.checkFrozen = true
		return nil
	}
}

// Tree is a fixed-depth append-only Merkle tree. Level 0 is the root and
// the leaves live at level Depth().
//
// A Tree is safe for concurrent use by one writer and many readers as long
// as it is the only writer of its store.
type Tree struct {
	lock        sync.RWMutex
	depth       uint16
	hasher      hashing.Hasher
	store       Store
	zeros       Zeros
	numLeaves   uint64
	checkFormat bool
	checkFrozen bool
	log         log.Logger
}

// NewTree opens a tree over store, which may be empty or hold a tree
// written with the same depth and hasher.
func NewTree(depth uint16, hasher hashing.Hasher, store Store, opts ...TreeOptionF) (*Tree, error) {
	if depth == 0 || depth > MaxDepth {
		return nil, fmt.Errorf("%w: %d not in [1, %d]", ErrInvalidDepth, depth, MaxDepth)
	}

	t := &Tree{
		depth:       depth,
		hasher:      hasher,
		store:       store,
		zeros:       NewZeros(hasher, depth),
		checkFormat: true,
		log:         log.L().Named("merkle"),
	}
	for _, opt := range opts {
		if err := opt(t); err != nil {
			return nil, err
		}
	}

	if t.checkFormat {
		if err := t.loadFormat(); err != nil {
			return nil, err
		}
	}
	if err := t.Reload(); err != nil {
		return nil, err
	}

	t.log.Debugf("Opened tree of depth %d with hasher %s and %d leaves", depth, hasher.Name(), t.numLeaves)
	return t, nil
}

func (t *Tree) format() storage.Format {
	return storage.Format{
		Version: storage.FormatVersion,
		Depth:   t.depth,
		Hasher:  t.hasher.Name(),
		Width:   t.hasher.Len(),
	}
}

func (t *Tree) loadFormat() error {
	fs, ok := t.store.(FormatStore)
	if !ok {
		return nil
	}
	expected := t.format()
	stored, err := fs.Format()
	switch {
	case errors.Is(err, storage.ErrKeyNotFound):
		if err := fs.SetFormat(&expected); err != nil {
			return storeFailure("writing format", err)
		}
		return nil
	case err != nil:
		return storeFailure("reading format", err)
	}
	if !expected.Equal(*stored) {
		return fmt.Errorf("%w: store holds %s, tree is %s", ErrFormatMismatch, stored, expected)
	}
	return nil
}

// Reload reads the leaf counter from the store again. Call it after a
// store failure before continuing to use the tree.
func (t *Tree) Reload() error {
	t.lock.Lock()
	defer t.lock.Unlock()

	n, err := t.store.NumLeaves()
	if err != nil {
		return storeFailure("reading leaf counter", err)
	}
	if n > t.Capacity() {
		return fmt.Errorf("%w: %d leaves on a tree of capacity %d", ErrFormatMismatch, n, t.Capacity())
	}
	t.numLeaves = n
	metrics.NumLeaves.Set(float64(n))
	return nil
}

func (t *Tree) Depth() uint16 { return t.depth }

// Capacity is the number of leaf slots, 2^Depth().
func (t *Tree) Capacity() uint64 { return util.Pow2(t.depth) }

func (t *Tree) Hasher() hashing.Hasher { return t.hasher }

func (t *Tree) Zeros() Zeros { return t.zeros }

// NumLeaves returns the number of leaves inserted so far.
func (t *Tree) NumLeaves() uint64 {
	t.lock.RLock()
	defer t.lock.RUnlock()
	return t.numLeaves
}

// AddLeaves appends values after the last inserted leaf and updates their
// ancestors. Calling it twice with the same values inserts them twice.
//
// Nodes are written in a single batch and the leaf counter only after
// the batch succeeds. On ErrStoreFailure the store may hold part of the
// batch, depending on the backend.
func (t *Tree) AddLeaves(values []node.Node) error {
	if len(values) == 0 {
		return nil
	}

	t.lock.Lock()
	defer t.lock.Unlock()

	start := time.Now()
	err := t.addLeaves(values)
	if err != nil {
		metrics.AddErrorsTotal.Inc()
		return err
	}

	metrics.AddBatchesTotal.Inc()
	metrics.AddLeavesTotal.Add(float64(len(values)))
	metrics.AddDurationSeconds.Observe(time.Since(start).Seconds())
	metrics.NumLeaves.Set(float64(t.numLeaves))
	return nil
}

func (t *Tree) addLeaves(values []node.Node) error {
	for i, v := range values {
		if len(v) != t.hasher.Len() {
			return fmt.Errorf("%w: leaf %d has %d bytes, expected %d", ErrInvalidNode, i, len(v), t.hasher.Len())
		}
	}
	if validator, ok := t.hasher.(hashing.Validator); ok {
		for i, v := range values {
			if err := validator.Validate(v); err != nil {
				return fmt.Errorf("%w: leaf %d: %w", ErrInvalidNode, i, err)
			}
		}
	}

	first := t.numLeaves
	k := uint64(len(values))
	if k > t.Capacity()-first {
		return fmt.Errorf("%w: %d leaves do not fit, %d of %d slots used", ErrCapacityExceeded, k, first, t.Capacity())
	}
	numLeaves := first + k

	t.log.Debugf("Adding %d leaves at index %d", k, first)

	batch := make([]*storage.NodeMutation, 0, 2*len(values)+int(t.depth))
	for i, v := range values {
		batch = append(batch, storage.NewNodeMutation(node.NewPosition(t.depth, first+uint64(i)), v))
	}

	// The touched nodes of a level are always contiguous, so they are
	// tracked as the index of the first one plus their values.
	touched, touchedFirst := values, first
	for level := t.depth; level > 0; level-- {
		parentFirst := touchedFirst >> 1
		parentLast := (touchedFirst + uint64(len(touched)) - 1) >> 1
		parents := make([]node.Node, 0, parentLast-parentFirst+1)

		for j := parentFirst; j <= parentLast; j++ {
			pos := node.NewPosition(level-1, j)
			left, err := t.child(pos.Left(), touched, touchedFirst, numLeaves)
			if err != nil {
				return err
			}
			right, err := t.child(pos.Right(), touched, touchedFirst, numLeaves)
			if err != nil {
				return err
			}
			parent := t.hasher.Compress(left, right)
			parents = append(parents, parent)
			batch = append(batch, storage.NewNodeMutation(pos, parent))
		}

		touched, touchedFirst = parents, parentFirst
	}

	if t.checkFrozen {
		if err := t.verifyUnfrozen(batch, first); err != nil {
			return err
		}
	}
	if err := t.store.SetBatch(batch); err != nil {
		return storeFailure("writing nodes", err)
	}
	if err := t.store.SetNumLeaves(numLeaves); err != nil {
		return storeFailure("writing leaf counter", err)
	}
	t.numLeaves = numLeaves

	t.log.Debugf("Added %d leaves, new root %s", k, touched[0])
	return nil
}

// child returns the node at pos, preferring the values computed on the
// current batch.
func (t *Tree) child(pos node.Position, touched []node.Node, touchedFirst, numLeaves uint64) (node.Node, error) {
	if pos.Index >= touchedFirst && pos.Index-touchedFirst < uint64(len(touched)) {
		return touched[pos.Index-touchedFirst], nil
	}
	return t.readOrZero(pos, numLeaves)
}

// isFrozen reports whether every leaf below pos was inserted.
func (t *Tree) isFrozen(pos node.Position, numLeaves uint64) bool {
	return (pos.Index+1)<<(t.depth-pos.Level) <= numLeaves
}

// verifyUnfrozen fails when batch changes a node that was already frozen
// with numLeaves leaves inserted.
func (t *Tree) verifyUnfrozen(batch []*storage.NodeMutation, numLeaves uint64) error {
	for _, m := range batch {
		if !t.isFrozen(m.Pos, numLeaves) {
			continue
		}
		stored, err := t.readOrZero(m.Pos, numLeaves)
		if err != nil {
			return err
		}
		if !stored.Equal(m.Value) {
			return fmt.Errorf("%w: %s holds %s, rewritten with %s", ErrFrozenNode, m.Pos, stored, m.Value)
		}
	}
	return nil
}

// isEmpty reports whether no leaf below pos was inserted.
func (t *Tree) isEmpty(pos node.Position, numLeaves uint64) bool {
	return pos.Index<<(t.depth-pos.Level) >= numLeaves
}

// readOrZero never returns memory shared with the zeros or the store, so
// callers may keep or modify the result.
func (t *Tree) readOrZero(pos node.Position, numLeaves uint64) (node.Node, error) {
	if t.isEmpty(pos, numLeaves) {
		return append(node.Node(nil), t.zeros.At(pos.Level)...), nil
	}
	value, err := t.store.Get(pos)
	if errors.Is(err, storage.ErrKeyNotFound) {
		return nil, fmt.Errorf("%w: %s", ErrMissingNode, pos)
	}
	if err != nil {
		return nil, storeFailure(fmt.Sprintf("reading %s", pos), err)
	}
	return append(node.Node(nil), value...), nil
}

// Root returns the root of the tree. An empty tree has the root of a
// tree with every leaf empty.
func (t *Tree) Root() (node.Node, error) {
	t.lock.RLock()
	defer t.lock.RUnlock()
	return t.readOrZero(node.Root(), t.numLeaves)
}

// Proof returns the inclusion proof of the leaf at index, along with the
// current root.
func (t *Tree) Proof(index uint64) (*Proof, error) {
	t.lock.RLock()
	defer t.lock.RUnlock()

	if index >= t.numLeaves {
		return nil, fmt.Errorf("%w: index %d, %d leaves", ErrIndexOutOfRange, index, t.numLeaves)
	}

	start := time.Now()
	t.log.Debugf("Proving membership for index %d", index)

	leaf, err := t.readOrZero(node.NewPosition(t.depth, index), t.numLeaves)
	if err != nil {
		return nil, err
	}

	siblings := make([]node.Node, 0, t.depth)
	pos := node.NewPosition(t.depth, index)
	for !pos.IsRoot() {
		sibling, err := t.readOrZero(pos.Sibling(), t.numLeaves)
		if err != nil {
			return nil, err
		}
		siblings = append(siblings, sibling)
		pos = pos.Parent()
	}

	root, err := t.readOrZero(node.Root(), t.numLeaves)
	if err != nil {
		return nil, err
	}

	metrics.ProofsTotal.Inc()
	metrics.ProofDurationSeconds.Observe(time.Since(start).Seconds())
	return NewProof(index, leaf, siblings, root), nil
}

// Close releases the store when it can be closed.
func (t *Tree) Close() error {
	if c, ok := t.store.(io.Closer); ok {
		return c.Close()
	}
	return nil
}

func storeFailure(op string, err error) error {
	return fmt.Errorf("%w: %s: %w", ErrStoreFailure, op, err)
}
