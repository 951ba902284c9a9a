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

// Package node holds the values stored in a fixed-depth Merkle tree and
// the addresses they live at.
package node

import (
	"bytes"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
)

// ErrDecode is returned when a textual node cannot be parsed.
var ErrDecode = errors.New("invalid node encoding")

// Node is a fixed-width hash value at any position of the tree. Nodes
// are treated as immutable once built.
type Node []byte

func (n Node) Equal(o Node) bool {
	return bytes.Equal(n, o)
}

// String returns the lowercase, 0x-prefixed hex encoding of the node.
func (n Node) String() string {
	return "0x" + hex.EncodeToString(n)
}

func (n Node) MarshalText() ([]byte, error) {
	return []byte(n.String()), nil
}

// UnmarshalText accepts any even-length hex string, with or without the
// 0x prefix. Width checks are left to Decode.
func (n *Node) UnmarshalText(text []byte) error {
	s := trimPrefix(string(text))
	if len(s)%2 != 0 {
		return fmt.Errorf("%w: odd number of hex digits", ErrDecode)
	}
	b, err := hex.DecodeString(s)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrDecode, err)
	}
	*n = b
	return nil
}

// Decode parses a hex string of exactly 2*width digits, optionally
// prefixed by 0x. Digits are case-insensitive.
func Decode(s string, width int) (Node, error) {
	digits := trimPrefix(s)
	if len(digits) != 2*width {
		return nil, fmt.Errorf("%w: expected %d hex digits, got %d", ErrDecode, 2*width, len(digits))
	}
	b, err := hex.DecodeString(digits)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDecode, err)
	}
	return b, nil
}

// MustDecode is like Decode but panics on error. Meant for constants and tests.
func MustDecode(s string, width int) Node {
	n, err := Decode(s, width)
	if err != nil {
		panic(err)
	}
	return n
}

func trimPrefix(s string) string {
	if strings.HasPrefix(s, "0x") || strings.HasPrefix(s, "0X") {
		return s[2:]
	}
	return s
}
