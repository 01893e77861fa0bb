// Copyright 2024 Harald Albrecht.
//
// Licensed under the Apache License, Version 2.0 (the "License"); you may not
// use this file except in compliance with the License. You may obtain a copy
// of the License at
//
//    http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS, WITHOUT
// WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied. See the
// License for the specific language governing permissions and limitations
// under the License.

package bitmaps

import (
	"errors"
	"fmt"
	"math"
	"strconv"

	"github.com/grailbio/base/must"
)

// Index identifies a single bit position inside a [Bitmap]. Valid indices
// range from [MinIndex] to [MaxIndex], both inclusive. The zero value is the
// valid index 0.
type Index uint32

const (
	// MinIndex is the lowest valid bitmap index.
	MinIndex Index = 0
	// MaxIndex is the highest valid bitmap index; it matches the highest
	// index representable by the C int of the bitmap resource.
	MaxIndex Index = math.MaxInt32
)

// Integer is the set of integer types that can be converted into an [Index].
type Integer interface {
	~int | ~int8 | ~int16 | ~int32 | ~int64 |
		~uint | ~uint8 | ~uint16 | ~uint32 | ~uint64 | ~uintptr
}

var (
	// ErrNegativeIndex is returned when converting a negative integer into
	// an Index.
	ErrNegativeIndex = errors.New("negative bitmap index")
	// ErrIndexTooLarge is returned when converting an integer beyond
	// MaxIndex into an Index.
	ErrIndexTooLarge = errors.New("bitmap index too large")
)

// IndexFrom returns the Index for the passed integer value, or an error
// wrapping either [ErrNegativeIndex] or [ErrIndexTooLarge] if the value is
// outside the valid index range.
func IndexFrom[T Integer](v T) (Index, error) {
	if v < 0 {
		return 0, fmt.Errorf("cannot use %d: %w", v, ErrNegativeIndex)
	}
	// v is non-negative at this point, so the conversion into uint64 is
	// lossless for all Integer types.
	if uint64(v) > uint64(MaxIndex) {
		return 0, fmt.Errorf("cannot use %d, maximum is %d: %w", v, MaxIndex, ErrIndexTooLarge)
	}
	return Index(v), nil
}

// MustIndex returns the Index for the passed integer value, failing fatally
// if the value is outside the valid index range.
func MustIndex[T Integer](v T) Index {
	idx, err := IndexFrom(v)
	must.Nil(err, "invalid bitmap index")
	return idx
}

// Int returns the index as an int.
func (i Index) Int() int {
	return int(i)
}

// String returns the decimal representation of the index.
func (i Index) String() string {
	return strconv.FormatUint(uint64(i), 10)
}

// CheckedSucc returns the index following i, or false if i is MaxIndex.
func (i Index) CheckedSucc() (Index, bool) {
	if i >= MaxIndex {
		return 0, false
	}
	return i + 1, true
}

// CheckedPred returns the index preceding i, or false if i is MinIndex.
func (i Index) CheckedPred() (Index, bool) {
	if i == MinIndex {
		return 0, false
	}
	return i - 1, true
}

// SaturatingSucc returns the index following i, staying at MaxIndex.
func (i Index) SaturatingSucc() Index {
	if succ, ok := i.CheckedSucc(); ok {
		return succ
	}
	return MaxIndex
}

// SaturatingPred returns the index preceding i, staying at MinIndex.
func (i Index) SaturatingPred() Index {
	if pred, ok := i.CheckedPred(); ok {
		return pred
	}
	return MinIndex
}

// valid checks that i lies inside the valid index range; an Index built by
// a plain type conversion instead of IndexFrom might not.
func (i Index) valid() Index {
	must.Truef(i <= MaxIndex, "bitmap index %d exceeds maximum %d", uint32(i), MaxIndex)
	return i
}
