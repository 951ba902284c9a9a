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

package merkle

import "errors"

var (
	// ErrCapacityExceeded is returned when a batch does not fit in the
	// remaining leaf slots. Nothing is written.
	ErrCapacityExceeded = errors.New("tree capacity exceeded")

	// ErrIndexOutOfRange is returned when a proof is requested for a
	// leaf that was never inserted.
	ErrIndexOutOfRange = errors.New("leaf index out of range")

	// ErrStoreFailure wraps any error returned by the underlying store.
	// The tree may be out of sync with the store after it, see Tree.Reload.
	ErrStoreFailure = errors.New("store failure")

	// ErrMissingNode means a node that must be persisted was not found.
	ErrMissingNode = errors.New("missing node")

	ErrInvalidDepth = errors.New("invalid tree depth")

	// ErrInvalidNode is returned when a leaf width does not match the
	// hasher, or when the hasher rejects the leaf value.
	ErrInvalidNode = errors.New("invalid node")

	// ErrFrozenNode is returned with the CheckFrozen option when a batch
	// would change a node whose subtree was already full.
	ErrFrozenNode = errors.New("frozen node rewritten")

	// ErrFormatMismatch is returned when a store was written for another
	// depth or hasher.
	ErrFormatMismatch = errors.New("store format mismatch")
)
