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
	"iter"
	"runtime"

	"github.com/thediveo/bitmaps/rawbitmap"
)

// Sequence produces the set or unset indices of a [Bitmap] in ascending
// order, one at a time. A Sequence never modifies its bitmap. It must not be
// used while its bitmap is being mutated, and it must not be used after its
// bitmap has been closed.
//
// Iterating the set indices of an infinite bitmap, or the unset indices of a
// finite bitmap, doesn't terminate before reaching [MaxIndex]; callers need
// to bound such iterations themselves.
type Sequence struct {
	bm     *Bitmap
	next   func(*rawbitmap.Bitmap, int32) int32
	cursor int32 // last index produced, or -1
	done   bool
}

// IterSet returns a new Sequence of the indices contained in the bitmap.
func (b *Bitmap) IterSet() *Sequence {
	return &Sequence{bm: b, next: rawbitmap.Next, cursor: -1}
}

// IterUnset returns a new Sequence of the indices not contained in the
// bitmap.
func (b *Bitmap) IterUnset() *Sequence {
	return &Sequence{bm: b, next: rawbitmap.NextUnset, cursor: -1}
}

// Next returns the next index, or false when the sequence is exhausted.
func (s *Sequence) Next() (Index, bool) {
	if s.done {
		return 0, false
	}
	if s.cursor == int32(MaxIndex) {
		s.done = true
		return 0, false
	}
	idx := s.next(s.bm.handle(), s.cursor)
	runtime.KeepAlive(s.bm)
	if idx < 0 {
		s.done = true
		return 0, false
	}
	s.cursor = idx
	return Index(idx), true
}

// seq adapts a Sequence into a range-over-func iterator.
func seq(newSequence func() *Sequence) iter.Seq[Index] {
	return func(yield func(Index) bool) {
		s := newSequence()
		for {
			idx, ok := s.Next()
			if !ok || !yield(idx) {
				return
			}
		}
	}
}

// Indices returns an iterator over the indices contained in the bitmap, in
// ascending order. Each iteration starts afresh from the lowest index.
func (b *Bitmap) Indices() iter.Seq[Index] {
	return seq(b.IterSet)
}

// UnsetIndices returns an iterator over the indices not contained in the
// bitmap, in ascending order.
func (b *Bitmap) UnsetIndices() iter.Seq[Index] {
	return seq(b.IterUnset)
}
