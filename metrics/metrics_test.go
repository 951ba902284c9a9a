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
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/require"
)

func TestRegister(t *testing.T) {
	r := prometheus.NewRegistry()
	require.NoError(t, Register(r))
	// a second registration is a no-op
	require.NoError(t, Register(r))

	AddLeavesTotal.Add(3)

	families, err := r.Gather()
	require.NoError(t, err)

	var found bool
	for _, f := range families {
		if f.GetName() == "merkletree_add_leaves_total" {
			found = true
			require.GreaterOrEqual(t, f.GetMetric()[0].GetCounter().GetValue(), float64(3))
		}
	}
	require.True(t, found, "The add leaves counter should be registered")
}
