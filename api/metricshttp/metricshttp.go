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

// Package metricshttp serves the tree metrics to prometheus.
package metricshttp

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/bbva/merkletree/metrics"
)

// NewMetricsHTTP returns a mux exposing, under /metrics, the tree and cache
// collectors, the given extra ones, and the Go runtime and process ones.
func NewMetricsHTTP(extra ...prometheus.Collector) (*http.ServeMux, error) {
	r := prometheus.NewRegistry()
	if err := metrics.Register(r); err != nil {
		return nil, err
	}
	for _, c := range extra {
		if err := r.Register(c); err != nil {
			return nil, err
		}
	}

	g := prometheus.Gatherers{
		prometheus.DefaultGatherer,
		r,
	}

	mux := http.NewServeMux()
	handler := promhttp.HandlerFor(g, promhttp.HandlerOpts{})
	mux.Handle("/metrics", promhttp.InstrumentMetricHandler(r, handler))
	return mux, nil
}
