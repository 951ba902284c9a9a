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
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecode(t *testing.T) {

	testCases := []struct {
		input         string
		width         int
		expected      Node
		expectedError error
	}{
		{"0x0102", 2, Node{0x01, 0x02}, nil},
		{"0102", 2, Node{0x01, 0x02}, nil},
		{"0XABcd", 2, Node{0xab, 0xcd}, nil},
		{"0x01", 2, nil, ErrDecode},
		{"0x010203", 2, nil, ErrDecode},
		{"0xzz01", 2, nil, ErrDecode},
		{"", 1, nil, ErrDecode},
		{"0x", 0, Node{}, nil},
	}

	for i, c := range testCases {
		n, err := Decode(c.input, c.width)
		if c.expectedError != nil {
			require.ErrorIsf(t, err, c.expectedError, "Expected decode error in test case %d", i)
			continue
		}
		require.NoErrorf(t, err, "Unexpected error in test case %d", i)
		require.Truef(t, c.expected.Equal(n), "Wrong node in test case %d: %v", i, n)
	}
}

func TestEncodingRoundTrip(t *testing.T) {
	n := Node{0xde, 0xad, 0xbe, 0xef, 0x00, 0x01}
	encoded := n.String()
	require.Equal(t, "0xdeadbeef0001", encoded)

	decoded, err := Decode(strings.ToUpper(encoded[2:]), len(n))
	require.NoError(t, err)
	require.Equal(t, encoded, decoded.String())
}

func TestNodeJSON(t *testing.T) {
	type wrapper struct {
		Value Node `json:"value"`
	}

	b, err := json.Marshal(wrapper{Value: Node{0x0a, 0x0b}})
	require.NoError(t, err)
	assert.Equal(t, `{"value":"0x0a0b"}`, string(b))

	var w wrapper
	require.NoError(t, json.Unmarshal(b, &w))
	assert.Equal(t, Node{0x0a, 0x0b}, w.Value)

	err = json.Unmarshal([]byte(`{"value":"0xabc"}`), &w)
	assert.ErrorIs(t, err, ErrDecode)
}

func TestPositionBytes(t *testing.T) {

	testCases := []struct {
		pos      Position
		expected []byte
	}{
		{Root(), []byte{0, 0, 0, 0, 0, 0, 0, 0, 0, 0}},
		{NewPosition(3, 5), []byte{0, 3, 0, 0, 0, 0, 0, 0, 0, 5}},
		{NewPosition(0x0102, 0x0304), []byte{1, 2, 0, 0, 0, 0, 0, 0, 3, 4}},
	}

	for i, c := range testCases {
		b := c.pos.Bytes()
		require.Equalf(t, c.expected, b, "Wrong key in test case %d", i)
	}
}

func TestPositionNavigation(t *testing.T) {
	pos := NewPosition(3, 5)

	assert.Equal(t, NewPosition(3, 4), pos.Sibling())
	assert.Equal(t, NewPosition(2, 2), pos.Parent())
	assert.Equal(t, NewPosition(4, 10), pos.Left())
	assert.Equal(t, NewPosition(4, 11), pos.Right())
	assert.Equal(t, "Pos(3, 5)", pos.String())
	assert.Panics(t, func() { Root().Parent() })
}
