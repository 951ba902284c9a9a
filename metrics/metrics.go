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

package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Namespace prefixes every collector name.
const Namespace = "merkletree"

var (

	// TREE

	AddLeavesTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: Namespace,
			Name:      "add_leaves_total",
			Help:      "Number of leaves appended to the tree.",
		},
	)
	AddBatchesTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: Namespace,
			Name:      "add_batches_total",
			Help:      "Number of insertion batches.",
		},
	)
	AddErrorsTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: Namespace,
			Name:      "add_errors_total",
			Help:      "Number of insertion batches that failed.",
		},
	)
	AddDurationSeconds = prometheus.NewSummary(
		prometheus.SummaryOpts{
			Namespace: Namespace,
			Name:      "add_duration_seconds",
			Help:      "Duration of the insertion batches.",
		},
	)
	ProofsTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: Namespace,
			Name:      "proofs_total",
			Help:      "Number of inclusion proofs generated.",
		},
	)
	ProofDurationSeconds = prometheus.NewSummary(
		prometheus.SummaryOpts{
			Namespace: Namespace,
			Name:      "proof_duration_seconds",
			Help:      "Duration of the proof generation.",
		},
	)
	NumLeaves = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: Namespace,
			Name:      "num_leaves",
			Help:      "Number of leaves in the tree.",
		},
	)

	// CACHE

	CacheHitsTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: Namespace,
			Name:      "cache_hits_total",
			Help:      "Number of node reads served by the cache.",
		},
	)
	CacheMissesTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: Namespace,
			Name:      "cache_misses_total",
			Help:      "Number of node reads that reached the store.",
		},
	)

	// PROMETHEUS

	DefaultMetrics = []prometheus.Collector{
		AddLeavesTotal,
		AddBatchesTotal,
		AddErrorsTotal,
		AddDurationSeconds,
		ProofsTotal,
		ProofDurationSeconds,
		NumLeaves,
		CacheHitsTotal,
		CacheMissesTotal,
	}
)

// Registry is the subset of prometheus.Registerer used to publish metrics.
type Registry interface {
	Register(prometheus.Collector) error
}

// Register adds every collector of this package to r. Collectors that
// were already registered are skipped.
func Register(r Registry) error {
	for _, c := range DefaultMetrics {
		if err := r.Register(c); err != nil {
			if _, ok := err.(prometheus.AlreadyRegisteredError); ok {
				continue
			}
			return err
		}
	}
	return nil
}
