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
	"iter"

	"github.com/grailbio/base/must"
	"github.com/thediveo/bitmaps/rawbitmap"
)

// Kind discriminates the different kinds of specialized bitmaps.
type Kind int

const (
	KindCPUSet  Kind = iota // set of logical processor indices
	KindNodeSet             // set of memory node indices
)

// String returns the name of the kind of specialized bitmap.
func (k Kind) String() string {
	switch k {
	case KindCPUSet:
		return "CPUSet"
	case KindNodeSet:
		return "NodeSet"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// Tag is implemented by the marker types distinguishing the kinds of
// specialized bitmaps at the type level.
type Tag interface {
	Kind() Kind
}

// CPU tags sets of logical processors.
type CPU struct{}

// Kind returns KindCPUSet.
func (CPU) Kind() Kind { return KindCPUSet }

// Node tags sets of memory nodes.
type Node struct{}

// Kind returns KindNodeSet.
func (Node) Kind() Kind { return KindNodeSet }

// Set is a [Bitmap] of a specific kind, such as a set of logical processors
// or a set of memory nodes. Sets of different kinds share the same
// representation but are distinct types, so they cannot be mixed up
// accidentally: the algebra only accepts other sets of the very same kind.
// To deliberately combine sets of different kinds, unwrap them into their
// bitmaps first.
type Set[T Tag] struct {
	bm *Bitmap
}

type (
	// CPUSet is a set of logical processor indices.
	CPUSet = Set[CPU]
	// NodeSet is a set of memory node indices.
	NodeSet = Set[Node]
)

// Specialized is implemented by all kinds of specialized sets.
type Specialized interface {
	Kind() Kind
	Bitmap() *Bitmap
	String() string
}

var (
	_ Specialized = (*CPUSet)(nil)
	_ Specialized = (*NodeSet)(nil)
)

// SetOf returns a specialized set wrapping the passed bitmap, without
// copying it. The bitmap and the returned set share the same indices.
func SetOf[T Tag](b *Bitmap) *Set[T] {
	must.Truef(b != nil, "cannot specialize nil bitmap")
	return &Set[T]{bm: b}
}

// NewSet returns a new empty specialized set.
func NewSet[T Tag]() *Set[T] { return SetOf[T](New()) }

// FullSet returns a new specialized set containing all indices.
func FullSet[T Tag]() *Set[T] { return SetOf[T](Full()) }

// SetFromRange returns a new specialized set containing exactly the indices
// of the passed range.
func SetFromRange[T Tag](r Range) *Set[T] { return SetOf[T](FromRange(r)) }

// SetFromIndex returns a new specialized set containing only the passed
// index.
func SetFromIndex[T Tag](idx Index) *Set[T] { return SetOf[T](FromIndex(idx)) }

// SetFromIndices returns a new specialized set containing the indices
// produced by the passed sequence.
func SetFromIndices[T Tag](indices iter.Seq[Index]) *Set[T] {
	return SetOf[T](FromIndices(indices))
}

// ParseSet returns a new specialized set with the indices of the passed
// textual list, such as “0-3,8”.
func ParseSet[T Tag](s string) (*Set[T], error) {
	b, err := Parse(s)
	if err != nil {
		return nil, err
	}
	return SetOf[T](b), nil
}

// UnsafeAdoptSet wraps the passed resource handle into a specialized set,
// taking over its ownership. A nil handle returns a nil set.
func UnsafeAdoptSet[T Tag](raw *rawbitmap.Bitmap) *Set[T] {
	b := UnsafeAdopt(raw)
	if b == nil {
		return nil
	}
	return SetOf[T](b)
}

// UnsafeBorrowSet wraps the passed resource handle into a specialized set,
// without taking over its ownership.
func UnsafeBorrowSet[T Tag](raw *rawbitmap.Bitmap) *Set[T] {
	return SetOf[T](UnsafeBorrow(raw))
}

// Kind returns the kind of this set.
func (s *Set[T]) Kind() Kind {
	var tag T
	return tag.Kind()
}

// Bitmap returns the underlying bitmap, sharing its indices with this set.
func (s *Set[T]) Bitmap() *Bitmap {
	must.Truef(s.bm != nil, "use of zero %s", s.Kind())
	return s.bm
}

// String returns the indices in textual list format, prefixed by the kind of
// set, such as “CPUSet(0-3)”.
func (s *Set[T]) String() string {
	return fmt.Sprintf("%s(%s)", s.Kind(), s.Bitmap())
}

// wrap returns a set of the same kind for a newly created bitmap.
func (s *Set[T]) wrap(b *Bitmap) *Set[T] { return &Set[T]{bm: b} }

// Close releases the underlying bitmap.
func (s *Set[T]) Close() { s.Bitmap().Close() }

// Raw returns the handle of the underlying bitmap resource.
func (s *Set[T]) Raw() *rawbitmap.Bitmap { return s.Bitmap().Raw() }

// IsOwned reports whether the set owns its bitmap resource.
func (s *Set[T]) IsOwned() bool { return s.Bitmap().IsOwned() }

// Clone returns a new, owned set with the same indices.
func (s *Set[T]) Clone() *Set[T] { return s.wrap(s.Bitmap().Clone()) }

// CopyFrom replaces the indices of this set with those of another one.
func (s *Set[T]) CopyFrom(other *Set[T]) *Set[T] {
	s.Bitmap().CopyFrom(other.Bitmap())
	return s
}

// Clear removes all indices.
func (s *Set[T]) Clear() *Set[T] { s.Bitmap().Clear(); return s }

// Fill sets all indices.
func (s *Set[T]) Fill() *Set[T] { s.Bitmap().Fill(); return s }

// Set adds the passed index.
func (s *Set[T]) Set(idx Index) *Set[T] { s.Bitmap().Set(idx); return s }

// Unset removes the passed index.
func (s *Set[T]) Unset(idx Index) *Set[T] { s.Bitmap().Unset(idx); return s }

// SetOnly clears the set and then adds the passed index.
func (s *Set[T]) SetOnly(idx Index) *Set[T] { s.Bitmap().SetOnly(idx); return s }

// SetAllBut fills the set and then removes the passed index.
func (s *Set[T]) SetAllBut(idx Index) *Set[T] { s.Bitmap().SetAllBut(idx); return s }

// SetRange adds all indices of the passed range.
func (s *Set[T]) SetRange(r Range) *Set[T] { s.Bitmap().SetRange(r); return s }

// UnsetRange removes all indices of the passed range.
func (s *Set[T]) UnsetRange(r Range) *Set[T] { s.Bitmap().UnsetRange(r); return s }

// Extend adds all indices produced by the passed sequence.
func (s *Set[T]) Extend(indices iter.Seq[Index]) *Set[T] {
	s.Bitmap().Extend(indices)
	return s
}

// Singlify keeps only the lowest index.
func (s *Set[T]) Singlify() *Set[T] { s.Bitmap().Singlify(); return s }

// Invert replaces the indices of the set with exactly those not contained
// before.
func (s *Set[T]) Invert() *Set[T] { s.Bitmap().Invert(); return s }

// IsSet reports whether the passed index is contained in the set.
func (s *Set[T]) IsSet(idx Index) bool { return s.Bitmap().IsSet(idx) }

// IsEmpty reports whether the set contains no indices.
func (s *Set[T]) IsEmpty() bool { return s.Bitmap().IsEmpty() }

// IsFull reports whether the set contains all indices.
func (s *Set[T]) IsFull() bool { return s.Bitmap().IsFull() }

// FirstSet returns the lowest index contained in the set.
func (s *Set[T]) FirstSet() (Index, bool) { return s.Bitmap().FirstSet() }

// LastSet returns the highest index contained in a finite set.
func (s *Set[T]) LastSet() (Index, bool) { return s.Bitmap().LastSet() }

// FirstUnset returns the lowest index not contained in the set.
func (s *Set[T]) FirstUnset() (Index, bool) { return s.Bitmap().FirstUnset() }

// LastUnset returns the highest index not contained in an infinite set.
func (s *Set[T]) LastUnset() (Index, bool) { return s.Bitmap().LastUnset() }

// Weight returns the number of indices in a finite set.
func (s *Set[T]) Weight() (int, bool) { return s.Bitmap().Weight() }

// Intersects reports whether both sets have at least one index in common.
func (s *Set[T]) Intersects(other *Set[T]) bool {
	return s.Bitmap().Intersects(other.Bitmap())
}

// Includes reports whether all indices of inner are contained in this set.
func (s *Set[T]) Includes(inner *Set[T]) bool {
	return s.Bitmap().Includes(inner.Bitmap())
}

// Equal reports whether both sets contain exactly the same indices.
func (s *Set[T]) Equal(other *Set[T]) bool {
	return s.Bitmap().Equal(other.Bitmap())
}

// Compare orders this set relative to another set; see [Bitmap.Compare].
func (s *Set[T]) Compare(other *Set[T]) int {
	return s.Bitmap().Compare(other.Bitmap())
}

// And returns a new set with the indices contained in both sets.
func (s *Set[T]) And(other *Set[T]) *Set[T] {
	return s.wrap(s.Bitmap().And(other.Bitmap()))
}

// Or returns a new set with the indices contained in either set.
func (s *Set[T]) Or(other *Set[T]) *Set[T] {
	return s.wrap(s.Bitmap().Or(other.Bitmap()))
}

// Xor returns a new set with the indices contained in exactly one of the
// sets.
func (s *Set[T]) Xor(other *Set[T]) *Set[T] {
	return s.wrap(s.Bitmap().Xor(other.Bitmap()))
}

// AndNot returns a new set with the indices of this set not contained in
// the other set.
func (s *Set[T]) AndNot(other *Set[T]) *Set[T] {
	return s.wrap(s.Bitmap().AndNot(other.Bitmap()))
}

// Not returns a new set with exactly the indices not contained in this set.
func (s *Set[T]) Not() *Set[T] { return s.wrap(s.Bitmap().Not()) }

// InPlaceAnd removes all indices not contained in the other set.
func (s *Set[T]) InPlaceAnd(other *Set[T]) *Set[T] {
	s.Bitmap().InPlaceAnd(other.Bitmap())
	return s
}

// InPlaceOr adds all indices of the other set.
func (s *Set[T]) InPlaceOr(other *Set[T]) *Set[T] {
	s.Bitmap().InPlaceOr(other.Bitmap())
	return s
}

// InPlaceXor toggles all indices contained in the other set.
func (s *Set[T]) InPlaceXor(other *Set[T]) *Set[T] {
	s.Bitmap().InPlaceXor(other.Bitmap())
	return s
}

// InPlaceAndNot removes all indices contained in the other set.
func (s *Set[T]) InPlaceAndNot(other *Set[T]) *Set[T] {
	s.Bitmap().InPlaceAndNot(other.Bitmap())
	return s
}

// IterSet returns a new Sequence of the indices contained in the set.
func (s *Set[T]) IterSet() *Sequence { return s.Bitmap().IterSet() }

// IterUnset returns a new Sequence of the indices not contained in the set.
func (s *Set[T]) IterUnset() *Sequence { return s.Bitmap().IterUnset() }

// Indices returns an iterator over the indices contained in the set.
func (s *Set[T]) Indices() iter.Seq[Index] { return s.Bitmap().Indices() }

// UnsetIndices returns an iterator over the indices not contained in the
// set.
func (s *Set[T]) UnsetIndices() iter.Seq[Index] { return s.Bitmap().UnsetIndices() }

// List returns the canonical list of index ranges of this set.
func (s *Set[T]) List() List { return s.Bitmap().List() }

// MarshalText returns the set in textual list format, without the kind
// prefix.
func (s *Set[T]) MarshalText() ([]byte, error) { return s.Bitmap().MarshalText() }

// UnmarshalText replaces the indices of the set with those of the passed
// textual list. A zero Set gets a new owned bitmap that must be released
// using [Set.Close].
func (s *Set[T]) UnmarshalText(text []byte) error {
	if s.bm == nil {
		b := &Bitmap{}
		if err := b.UnmarshalText(text); err != nil {
			return err
		}
		s.bm = b
		return nil
	}
	return s.bm.UnmarshalText(text)
}
