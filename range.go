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
	"fmt"
)

type boundKind uint8

const (
	unbounded boundKind = iota
	included
	excluded
)

// Bound is the start or end bound of a [Range]. The zero value is an
// unbounded bound.
type Bound struct {
	kind boundKind
	idx  Index
}

// Included returns a bound including the passed index.
func Included(idx Index) Bound { return Bound{kind: included, idx: idx} }

// Excluded returns a bound excluding the passed index.
func Excluded(idx Index) Bound { return Bound{kind: excluded, idx: idx} }

// Unbounded returns an open bound.
func Unbounded() Bound { return Bound{} }

// Index returns the index of the bound, or false if the bound is unbounded.
func (b Bound) Index() (Index, bool) {
	return b.idx, b.kind != unbounded
}

// IsIncluded reports whether the bound includes its index.
func (b Bound) IsIncluded() bool { return b.kind == included }

// IsExcluded reports whether the bound excludes its index.
func (b Bound) IsExcluded() bool { return b.kind == excluded }

// IsUnbounded reports whether the bound is open.
func (b Bound) IsUnbounded() bool { return b.kind == unbounded }

// Range is a contiguous range of indices between a start and an end bound.
// A Range with an unbounded end extends to infinity.
type Range struct {
	Start Bound
	End   Bound
}

// Span returns the range lo..=hi.
func Span(lo, hi Index) Range { return Range{Start: Included(lo), End: Included(hi)} }

// Between returns the range lo..hi, excluding hi.
func Between(lo, hi Index) Range { return Range{Start: Included(lo), End: Excluded(hi)} }

// From returns the infinite range lo..
func From(lo Index) Range { return Range{Start: Included(lo), End: Unbounded()} }

// UpTo returns the range ..=hi.
func UpTo(hi Index) Range { return Range{Start: Unbounded(), End: Included(hi)} }

// Below returns the range ..hi, excluding hi.
func Below(hi Index) Range { return Range{Start: Unbounded(), End: Excluded(hi)} }

// All returns the range .. containing all indices.
func All() Range { return Range{} }

// IsAll reports whether the range is unbounded at both ends.
func (r Range) IsAll() bool {
	return r.Start.IsUnbounded() && r.End.IsUnbounded()
}

// bounds translates the range into the inclusive begin and end indices
// understood by the bitmap resource, where an end of -1 stands for infinity.
// It reports false when the range cannot contain any index, such as 5..5 or
// a start excluding MaxIndex.
func (r Range) bounds() (begin uint32, end int32, ok bool) {
	switch r.Start.kind {
	case included:
		begin = uint32(r.Start.idx.valid())
	case excluded:
		succ, ok := r.Start.idx.valid().CheckedSucc()
		if !ok {
			return 0, 0, false
		}
		begin = uint32(succ)
	}
	switch r.End.kind {
	case unbounded:
		end = -1
	case included:
		end = int32(r.End.idx.valid())
	case excluded:
		pred, ok := r.End.idx.valid().CheckedPred()
		if !ok {
			return 0, 0, false
		}
		end = int32(pred)
	}
	if end >= 0 && uint32(end) < begin {
		return 0, 0, false
	}
	return begin, end, true
}

// Contains reports whether idx lies within the range.
func (r Range) Contains(idx Index) bool {
	begin, end, ok := r.bounds()
	if !ok || uint32(idx) < begin {
		return false
	}
	return end < 0 || uint32(idx) <= uint32(end)
}

// String returns the range in “lo..=hi” notation, leaving out unbounded
// bounds.
func (r Range) String() string {
	var s string
	switch r.Start.kind {
	case included:
		s = fmt.Sprintf("%d", r.Start.idx)
	case excluded:
		s = fmt.Sprintf("%d<", r.Start.idx)
	}
	switch r.End.kind {
	case unbounded:
		return s + ".."
	case included:
		return fmt.Sprintf("%s..=%d", s, r.End.idx)
	default:
		return fmt.Sprintf("%s..%d", s, r.End.idx)
	}
}
