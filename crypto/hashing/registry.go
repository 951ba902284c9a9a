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

package hashing

import (
	"errors"
	"fmt"
	"sort"
)

const (
	Keccak256 = "keccak256"
	Sha256    = "sha256"
	Blake2b   = "blake2b"
	Blake3    = "blake3"
	MiMC      = "mimc"
	Xor       = "xor"
	Sum       = "sum"
)

var ErrUnknownHasher = errors.New("unknown hasher")

var constructors = map[string]func() Hasher{
	Keccak256: NewKeccak256Hasher,
	Sha256:    NewSha256Hasher,
	Blake2b:   NewBlake2bHasher,
	Blake3:    NewBlake3Hasher,
	MiMC:      NewMiMCHasher,
	Xor:       NewXorHasher,
	Sum:       func() Hasher { return NewSumHasher(0x1) },
}

// New returns the hasher registered under name.
func New(name string) (Hasher, error) {
	c, ok := constructors[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownHasher, name)
	}
	return c(), nil
}

// Names lists the registered hashers in lexical order.
func Names() []string {
	names := make([]string, 0, len(constructors))
	for n := range constructors {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}
