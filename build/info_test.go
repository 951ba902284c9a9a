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

package build

import (
	"runtime"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestShort(t *testing.T) {
	info := Info{
		GoVersion: "go1.24",
		Tag:       "v1.0.0",
		Time:      "2019/01/02 03:04:05",
		Platform:  "linux amd64",
	}
	require.Equal(t, "merkletree v1.0.0 (linux amd64, built 2019/01/02 03:04:05, go1.24)", info.Short())
	require.Equal(t, time.Date(2019, 1, 2, 3, 4, 5, 0, time.UTC), info.GoTime())

	info.Time = ""
	require.True(t, info.GoTime().IsZero())
}

func TestGetInfo(t *testing.T) {
	info := GetInfo()
	require.Equal(t, runtime.Version(), info.GoVersion)
	require.Equal(t, "dev", info.Tag)
}
