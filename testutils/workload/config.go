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
	"github.com/prometheus/client_golang/prometheus"

	"github.com/bbva/merkletree/metrics"
)

const WorkloadHelp = `---

workload:
	appends random leaves to the configured tree in batches and then asks
	for inclusion proofs of random indexes, verifying each of them against
	the current root.

examples:
	# one million leaves in batches of 1000, then 10000 proofs
	merkletree workload --leaves 1000000 --batch 1000 --proofs 10000

	# same against a postgres database with an lru cache in front
	merkletree --storage postgres --dsn postgres://localhost/merkle \
	  --cache lru --cache-size 100000 workload --leaves 100000
`

var (
	workloadLeavesAdded = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: metrics.Namespace,
			Name:      "workload_leaves_added_total",
			Help:      "Number of leaves added by the workload.",
		},
	)
	workloadAddFail = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: metrics.Namespace,
			Name:      "workload_add_fail_total",
			Help:      "Number of workload batches that failed.",
		},
	)
	workloadProofs = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: metrics.Namespace,
			Name:      "workload_proofs_total",
			Help:      "Number of proofs requested by the workload.",
		},
	)
	workloadProofFail = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: metrics.Namespace,
			Name:      "workload_proof_fail_total",
			Help:      "Number of workload proofs that could not be built or did not verify.",
		},
	)
	metricsList = []prometheus.Collector{
		workloadLeavesAdded,
		workloadAddFail,
		workloadProofs,
		workloadProofFail,
	}
)

// Collectors returns the workload counters, to be served along with the
// tree ones.
func Collectors() []prometheus.Collector {
	return metricsList
}

type Config struct {
	Leaves        uint `desc:"Number of leaves to append"`
	Batch         uint `desc:"Number of leaves per insertion batch"`
	Proofs        uint `desc:"Number of proofs to request after the insertion"`
	MaxGoRoutines uint `desc:"Set the concurrency value"`
}

func DefaultConfig() *Config {
	return &Config{
		Leaves:        10e4,
		Batch:         1000,
		Proofs:        10e3,
		MaxGoRoutines: 10,
	}
}
