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

package workload

import (
	"context"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/require"

	"github.com/bbva/merkletree/crypto/hashing"
	"github.com/bbva/merkletree/log"
	"github.com/bbva/merkletree/merkle"
	storage_utils "github.com/bbva/merkletree/testutils/storage"
)

func newTree(t *testing.T, depth uint16) *merkle.Tree {
	store, closeF := storage_utils.OpenBPlusTreeStore()
	t.Cleanup(closeF)
	tree, err := merkle.NewTree(depth, hashing.NewSha256Hasher(), store)
	require.NoError(t, err)
	return tree
}

func TestRun(t *testing.T) {
	tree := newTree(t, 16)
	conf := Config{Leaves: 1050, Batch: 100, Proofs: 200, MaxGoRoutines: 4}

	report, err := NewWorkload(conf, tree, log.L()).Run(context.Background())
	require.NoError(t, err)

	require.Equal(t, uint64(1050), report.LeavesAdded)
	require.Equal(t, uint64(11), report.Batches)
	require.Zero(t, report.AddFailures)
	require.Equal(t, uint64(200), report.Proofs)
	require.Zero(t, report.ProofFailures)
	require.Equal(t, uint64(1050), report.NumLeaves)
	require.Equal(t, uint64(1050), tree.NumLeaves())

	root, err := tree.Root()
	require.NoError(t, err)
	require.Equal(t, root, report.Root)
	require.Contains(t, report.String(), "added 1050 leaves in 11 batches")
}

func TestRunWithoutProofs(t *testing.T) {
	tree := newTree(t, 8)
	conf := Config{Leaves: 10, Batch: 3, MaxGoRoutines: 1}

	report, err := NewWorkload(conf, tree, log.L()).Run(context.Background())
	require.NoError(t, err)
	require.Equal(t, uint64(4), report.Batches)
	require.Zero(t, report.Proofs)
}

func TestRunInvalidConfig(t *testing.T) {
	tree := newTree(t, 3)

	_, err := NewWorkload(Config{Leaves: 9, Batch: 1, MaxGoRoutines: 1}, tree, log.L()).Run(context.Background())
	require.ErrorIs(t, err, ErrInvalidConfig, "More leaves than capacity")

	_, err = NewWorkload(Config{Leaves: 1, MaxGoRoutines: 1}, tree, log.L()).Run(context.Background())
	require.ErrorIs(t, err, ErrInvalidConfig, "Zero sized batches")
	require.Zero(t, tree.NumLeaves())
}

func TestRunCancelled(t *testing.T) {
	tree := newTree(t, 16)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	conf := Config{Leaves: 50000, Batch: 10, MaxGoRoutines: 2}
	report, err := NewWorkload(conf, tree, log.L()).Run(ctx)
	require.ErrorIs(t, err, context.Canceled)
	require.Less(t, report.LeavesAdded, uint64(conf.Leaves))
}

func TestCollectors(t *testing.T) {
	r := prometheus.NewRegistry()
	for _, c := range Collectors() {
		require.NoError(t, r.Register(c))
	}
}
