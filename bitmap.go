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

	"github.com/grailbio/base/must"
	"github.com/thediveo/bitmaps/rawbitmap"
)

// Bitmap is a possibly infinite set of [Index] values, stored in an opaque
// bitmap resource. A Bitmap either owns its resource, releasing it on
// [Bitmap.Close], or borrows it from some other owner, in which case it never
// releases it.
//
// Bitmaps are not safe for concurrent mutation; concurrent reads without any
// mutation are fine.
type Bitmap struct {
	raw   *rawbitmap.Bitmap
	owned bool
}

// adopt wraps a freshly allocated, owned resource. A nil handle means the
// resource allocator ran out of memory.
func adopt(raw *rawbitmap.Bitmap) *Bitmap {
	must.Truef(raw != nil, "bitmap resource allocation failed")
	return owned(raw)
}

func owned(raw *rawbitmap.Bitmap) *Bitmap {
	b := &Bitmap{raw: raw, owned: true}
	runtime.SetFinalizer(b, (*Bitmap).release)
	return b
}

// New returns a new empty bitmap.
func New() *Bitmap {
	return adopt(rawbitmap.Alloc())
}

// Full returns a new bitmap containing all indices.
func Full() *Bitmap {
	return adopt(rawbitmap.AllocFull())
}

// FromRange returns a new bitmap containing exactly the indices of the
// passed range.
func FromRange(r Range) *Bitmap {
	if r.IsAll() {
		return Full()
	}
	return New().SetRange(r)
}

// FromIndex returns a new bitmap containing only the passed index.
func FromIndex(idx Index) *Bitmap {
	return New().Set(idx)
}

// FromIndices returns a new bitmap containing the indices produced by the
// passed sequence.
func FromIndices(indices iter.Seq[Index]) *Bitmap {
	return New().Extend(indices)
}

// UnsafeAdopt wraps the passed resource handle, taking over its ownership.
// The handle must refer to a valid bitmap resource that isn't owned by
// anyone else; it must not be used by the caller afterwards. A nil handle
// returns a nil Bitmap.
func UnsafeAdopt(raw *rawbitmap.Bitmap) *Bitmap {
	if raw == nil {
		return nil
	}
	return owned(raw)
}

// UnsafeBorrow wraps the passed resource handle without taking over its
// ownership. The returned Bitmap must not be used after the owner has
// released the resource.
func UnsafeBorrow(raw *rawbitmap.Bitmap) *Bitmap {
	must.Truef(raw != nil, "cannot borrow nil bitmap resource")
	return &Bitmap{raw: raw}
}

// Raw returns the handle of the wrapped bitmap resource, for passing it to
// code working with resources directly. The handle stays valid only as long
// as the bitmap isn't closed.
func (b *Bitmap) Raw() *rawbitmap.Bitmap {
	return b.handle()
}

// IsOwned reports whether the bitmap owns its resource.
func (b *Bitmap) IsOwned() bool {
	return b.owned
}

// Close releases the resource of an owned bitmap; it doesn't release
// borrowed resources. The bitmap must not be used afterwards. Closing an
// already closed bitmap is a no-op.
func (b *Bitmap) Close() {
	if b == nil {
		return
	}
	runtime.SetFinalizer(b, nil)
	b.release()
}

func (b *Bitmap) release() {
	if b.owned {
		rawbitmap.Free(b.raw)
	}
	b.raw = nil
}

// handle returns the resource handle, failing fatally when the bitmap has
// been closed. Owned bitmaps get released by their finalizer as soon as they
// become unreachable, so callers must keep the bitmap alive using
// [runtime.KeepAlive] until they are done with the handle.
func (b *Bitmap) handle() *rawbitmap.Bitmap {
	must.Truef(b.raw != nil, "use of closed bitmap")
	return b.raw
}

// mustSucceed checks the result of a mutating resource operation; the only
// way these operations can fail is running out of memory.
func mustSucceed(result int) {
	must.Truef(result == 0, "bitmap resource operation failed")
}

// Clone returns a new, owned bitmap with the same indices. Cloning a
// borrowed bitmap returns an owned copy.
func (b *Bitmap) Clone() *Bitmap {
	clone := adopt(rawbitmap.Dup(b.handle()))
	runtime.KeepAlive(b)
	return clone
}

// CopyFrom replaces the indices of this bitmap with those of another one.
func (b *Bitmap) CopyFrom(other *Bitmap) *Bitmap {
	mustSucceed(rawbitmap.Copy(b.handle(), other.handle()))
	runtime.KeepAlive(other)
	return b
}

// Clear removes all indices.
func (b *Bitmap) Clear() *Bitmap {
	rawbitmap.Zero(b.handle())
	runtime.KeepAlive(b)
	return b
}

// Fill sets all indices.
func (b *Bitmap) Fill() *Bitmap {
	rawbitmap.Fill(b.handle())
	runtime.KeepAlive(b)
	return b
}

// Set adds the passed index.
func (b *Bitmap) Set(idx Index) *Bitmap {
	mustSucceed(rawbitmap.Set(b.handle(), uint32(idx.valid())))
	runtime.KeepAlive(b)
	return b
}

// Unset removes the passed index.
func (b *Bitmap) Unset(idx Index) *Bitmap {
	mustSucceed(rawbitmap.Clr(b.handle(), uint32(idx.valid())))
	runtime.KeepAlive(b)
	return b
}

// SetOnly clears the bitmap and then adds the passed index.
func (b *Bitmap) SetOnly(idx Index) *Bitmap {
	mustSucceed(rawbitmap.Only(b.handle(), uint32(idx.valid())))
	runtime.KeepAlive(b)
	return b
}

// SetAllBut fills the bitmap and then removes the passed index.
func (b *Bitmap) SetAllBut(idx Index) *Bitmap {
	mustSucceed(rawbitmap.AllBut(b.handle(), uint32(idx.valid())))
	runtime.KeepAlive(b)
	return b
}

// SetRange adds all indices of the passed range.
func (b *Bitmap) SetRange(r Range) *Bitmap {
	if r.IsAll() {
		return b.Fill()
	}
	begin, end, nonempty := r.bounds()
	if nonempty {
		mustSucceed(rawbitmap.SetRange(b.handle(), begin, end))
	}
	runtime.KeepAlive(b)
	return b
}

// UnsetRange removes all indices of the passed range.
func (b *Bitmap) UnsetRange(r Range) *Bitmap {
	if r.IsAll() {
		return b.Clear()
	}
	begin, end, nonempty := r.bounds()
	if nonempty {
		mustSucceed(rawbitmap.ClrRange(b.handle(), begin, end))
	}
	runtime.KeepAlive(b)
	return b
}

// Extend adds all indices produced by the passed sequence.
func (b *Bitmap) Extend(indices iter.Seq[Index]) *Bitmap {
	for idx := range indices {
		b.Set(idx)
	}
	return b
}

// Singlify keeps only the lowest index. An empty bitmap stays empty.
func (b *Bitmap) Singlify() *Bitmap {
	mustSucceed(rawbitmap.Singlify(b.handle()))
	runtime.KeepAlive(b)
	return b
}

// IsSet reports whether the passed index is contained in the bitmap.
func (b *Bitmap) IsSet(idx Index) bool {
	isset := rawbitmap.IsSet(b.handle(), uint32(idx.valid())) != 0
	runtime.KeepAlive(b)
	return isset
}

// IsEmpty reports whether the bitmap contains no indices.
func (b *Bitmap) IsEmpty() bool {
	empty := rawbitmap.IsZero(b.handle()) != 0
	runtime.KeepAlive(b)
	return empty
}

// IsFull reports whether the bitmap contains all indices.
func (b *Bitmap) IsFull() bool {
	full := rawbitmap.IsFull(b.handle()) != 0
	runtime.KeepAlive(b)
	return full
}

// index converts a resource index result, where -1 means “none”.
func index(result int32) (Index, bool) {
	if result < 0 {
		return 0, false
	}
	return Index(result), true
}

// FirstSet returns the lowest index contained in the bitmap, or false if the
// bitmap is empty.
func (b *Bitmap) FirstSet() (Index, bool) {
	idx, ok := index(rawbitmap.First(b.handle()))
	runtime.KeepAlive(b)
	return idx, ok
}

// LastSet returns the highest index contained in the bitmap, or false if the
// bitmap is empty or infinite.
func (b *Bitmap) LastSet() (Index, bool) {
	idx, ok := index(rawbitmap.Last(b.handle()))
	runtime.KeepAlive(b)
	return idx, ok
}

// FirstUnset returns the lowest index not contained in the bitmap, or false
// if the bitmap is full.
func (b *Bitmap) FirstUnset() (Index, bool) {
	idx, ok := index(rawbitmap.FirstUnset(b.handle()))
	runtime.KeepAlive(b)
	return idx, ok
}

// LastUnset returns the highest index not contained in the bitmap, or false
// if the bitmap is full or finite.
func (b *Bitmap) LastUnset() (Index, bool) {
	idx, ok := index(rawbitmap.LastUnset(b.handle()))
	runtime.KeepAlive(b)
	return idx, ok
}

// Weight returns the number of indices contained in the bitmap, or false if
// the bitmap is infinite.
func (b *Bitmap) Weight() (int, bool) {
	w := rawbitmap.Weight(b.handle())
	runtime.KeepAlive(b)
	if w < 0 {
		return 0, false
	}
	return w, true
}

// Intersects reports whether this bitmap and another one have at least one
// index in common.
func (b *Bitmap) Intersects(other *Bitmap) bool {
	intersects := rawbitmap.Intersects(b.handle(), other.handle()) != 0
	runtime.KeepAlive(b)
	runtime.KeepAlive(other)
	return intersects
}

// Includes reports whether all indices of inner are also contained in this
// bitmap. The empty bitmap is included in every bitmap.
func (b *Bitmap) Includes(inner *Bitmap) bool {
	includes := rawbitmap.IsIncluded(inner.handle(), b.handle()) != 0
	runtime.KeepAlive(b)
	runtime.KeepAlive(inner)
	return includes
}

// Equal reports whether this bitmap and another one contain exactly the same
// indices.
func (b *Bitmap) Equal(other *Bitmap) bool {
	equal := rawbitmap.IsEqual(b.handle(), other.handle()) != 0
	runtime.KeepAlive(b)
	runtime.KeepAlive(other)
	return equal
}

// Compare returns -1, 0, or +1 depending on whether this bitmap orders
// before, same, or after another bitmap. The empty bitmap orders first, and
// bitmaps are otherwise ordered by the highest index in which they differ,
// with the bitmap lacking that index ordering first. Infinite bitmaps order
// after finite ones.
func (b *Bitmap) Compare(other *Bitmap) int {
	order := rawbitmap.Compare(b.handle(), other.handle())
	runtime.KeepAlive(b)
	runtime.KeepAlive(other)
	return order
}

// String returns the indices in textual list format, such as “0-3,8,10-”.
// Runs of indices “x-y” are separated by “,”, single indices are collapsed
// into “x”, and an infinite run is rendered as “x-”.
func (b *Bitmap) String() string {
	s := rawbitmap.ListString(b.handle())
	runtime.KeepAlive(b)
	return s
}
