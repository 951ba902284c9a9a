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

package storage

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestTablePrefixes(t *testing.T) {
	seen := make(map[byte]Table)
	for _, table := range Tables() {
		prev, ok := seen[table.Prefix()]
		require.Falsef(t, ok, "Tables %s and %s share a prefix", table, prev)
		seen[table.Prefix()] = table
	}
	require.Equal(t, "nodes", NodesTable.String())
	require.Equal(t, "meta", MetaTable.String())
}

func TestPrefixedKey(t *testing.T) {
	key := []byte{0x0a, 0x0b}
	require.Equal(t, []byte{0x01, 0x0a, 0x0b}, PrefixedKey(MetaTable, key))
	require.Equal(t, []byte{0x0a, 0x0b}, key, "The original key must not be modified")
}

func TestFormatEncoding(t *testing.T) {
	f := Format{Version: FormatVersion, Depth: 20, Hasher: "sha256", Width: 32}
	b, err := f.Encode()
	require.NoError(t, err)

	decoded, err := DecodeFormat(b)
	require.NoError(t, err)
	require.True(t, f.Equal(*decoded))

	_, err = DecodeFormat([]byte{0xc1})
	require.ErrorIs(t, err, ErrCorrupted)
}

func TestDecodeNumLeaves(t *testing.T) {
	n, err := DecodeNumLeaves(EncodeNumLeaves(42))
	require.NoError(t, err)
	require.Equal(t, uint64(42), n)

	_, err = DecodeNumLeaves([]byte{0x01})
	require.ErrorIs(t, err, ErrCorrupted)
}
