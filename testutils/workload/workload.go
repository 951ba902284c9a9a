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

// Package workload measures insertion and proof throughput of a tree.
package workload

import (
	"context"
	"errors"
	"fmt"
	mrand "math/rand"
	"sync"
	"sync/atomic"
	"time"

	"github.com/bbva/merkletree/log"
	"github.com/bbva/merkletree/merkle"
	"github.com/bbva/merkletree/node"
	"github.com/bbva/merkletree/testutils/rand"
)

var ErrInvalidConfig = errors.New("invalid workload config")

type kind string

const (
	add   kind = "add"
	proof kind = "proof"
)

type Task struct {
	kind   kind
	leaves []node.Node
	index  uint64
}

// Report sums up a workload run.
type Report struct {
	LeavesAdded   uint64
	Batches       uint64
	AddFailures   uint64
	Proofs        uint64
	ProofFailures uint64
	AddDuration   time.Duration
	ProofDuration time.Duration
	NumLeaves     uint64
	Root          node.Node
}

func (r Report) String() string {
	return fmt.Sprintf(
		"added %d leaves in %d batches (%d failed) in %s, %.0f leaves/s\n"+
			"built %d proofs (%d failed) in %s, %.0f proofs/s\n"+
			"tree holds %d leaves, root %s",
		r.LeavesAdded, r.Batches, r.AddFailures, r.AddDuration, rate(r.LeavesAdded, r.AddDuration),
		r.Proofs, r.ProofFailures, r.ProofDuration, rate(r.Proofs, r.ProofDuration),
		r.NumLeaves, r.Root,
	)
}

func rate(n uint64, d time.Duration) float64 {
	if d <= 0 {
		return 0
	}
	return float64(n) / d.Seconds()
}

type Workload struct {
	Config Config

	tree *merkle.Tree
	log  log.Logger
}

func NewWorkload(conf Config, tree *merkle.Tree, logger log.Logger) *Workload {
	return &Workload{
		Config: conf,
		tree:   tree,
		log:    logger,
	}
}

// Run appends the configured leaves and then requests the configured
// proofs. It stops feeding tasks as soon as ctx is done.
func (w *Workload) Run(ctx context.Context) (*Report, error) {
	if w.Config.Batch == 0 || w.Config.MaxGoRoutines == 0 {
		return nil, fmt.Errorf("%w: batch and concurrency must be positive", ErrInvalidConfig)
	}
	free := w.tree.Capacity() - w.tree.NumLeaves()
	if uint64(w.Config.Leaves) > free {
		return nil, fmt.Errorf("%w: %d leaves do not fit, %d free slots", ErrInvalidConfig, w.Config.Leaves, free)
	}

	report := new(Report)

	w.log.Infof("Adding %d leaves in batches of %d", w.Config.Leaves, w.Config.Batch)
	start := time.Now()
	w.attack(ctx, add, report)
	report.AddDuration = time.Since(start)

	if w.tree.NumLeaves() > 0 && w.Config.Proofs > 0 {
		w.log.Infof("Requesting %d proofs", w.Config.Proofs)
		start = time.Now()
		w.attack(ctx, proof, report)
		report.ProofDuration = time.Since(start)
	}

	root, err := w.tree.Root()
	if err != nil {
		return report, err
	}
	report.NumLeaves = w.tree.NumLeaves()
	report.Root = root

	w.log.Debugf("Workload done: %+v", report)
	return report, ctx.Err()
}

func (w *Workload) attack(ctx context.Context, k kind, report *Report) {
	var wg sync.WaitGroup
	senChan := make(chan Task)
	hasher := w.tree.Hasher()

	for rID := uint(0); rID < w.Config.MaxGoRoutines; rID++ {
		wg.Add(1)
		go func(rID uint) {
			defer wg.Done()
			for task := range senChan {
				switch task.kind {
				case add:
					size := uint64(len(task.leaves))
					if err := w.tree.AddLeaves(task.leaves); err != nil {
						workloadAddFail.Inc()
						atomic.AddUint64(&report.AddFailures, 1)
						w.log.Debugf("Error adding batch of %d leaves: %v", size, err)
						continue
					}
					workloadLeavesAdded.Add(float64(size))
					atomic.AddUint64(&report.LeavesAdded, size)
					atomic.AddUint64(&report.Batches, 1)
				case proof:
					workloadProofs.Inc()
					atomic.AddUint64(&report.Proofs, 1)
					p, err := w.tree.Proof(task.index)
					if err != nil {
						workloadProofFail.Inc()
						atomic.AddUint64(&report.ProofFailures, 1)
						w.log.Debugf("Error proving index %d: %v", task.index, err)
						continue
					}
					if !p.Verify(hasher) {
						workloadProofFail.Inc()
						atomic.AddUint64(&report.ProofFailures, 1)
						w.log.Errorf("Proof for index %d does not verify", task.index)
					}
				}
			}
			w.log.Debugf("Worker %d done", rID)
		}(rID)
	}

	defer func() {
		close(senChan)
		wg.Wait()
	}()

	switch k {
	case add:
		width := hasher.Len()
		for sent := uint(0); sent < w.Config.Leaves; sent += w.Config.Batch {
			size := w.Config.Batch
			if rest := w.Config.Leaves - sent; rest < size {
				size = rest
			}
			select {
			case <-ctx.Done():
				return
			case senChan <- Task{kind: add, leaves: rand.Nodes(int(size), width)}:
			}
		}
	case proof:
		numLeaves := int64(w.tree.NumLeaves())
		for i := uint(0); i < w.Config.Proofs; i++ {
			select {
			case <-ctx.Done():
				return
			case senChan <- Task{kind: proof, index: uint64(mrand.Int63n(numLeaves))}:
			}
		}
	}
}
