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

//go:build cgo && hwloc

package rawbitmap

/*
#cgo LDFLAGS: -lhwloc
#include <stdlib.h>
#include <hwloc.h>
*/
import "C"

import (
	"math"
	"unsafe"
)

// MaxIndex is the highest bit index accepted by the bitmap functions.
const MaxIndex = math.MaxInt32

// Bitmap is an opaque hwloc bitmap, that is, an hwloc_bitmap_s.
type Bitmap C.struct_hwloc_bitmap_s

func ptr(b *Bitmap) *C.struct_hwloc_bitmap_s {
	return (*C.struct_hwloc_bitmap_s)(b)
}

func handle(p C.hwloc_bitmap_t) *Bitmap {
	return (*Bitmap)(unsafe.Pointer(p))
}

// Alloc allocates a new empty bitmap, or returns nil if out of memory.
func Alloc() *Bitmap { return handle(C.hwloc_bitmap_alloc()) }

// AllocFull allocates a new full bitmap, or returns nil if out of memory.
func AllocFull() *Bitmap { return handle(C.hwloc_bitmap_alloc_full()) }

// Free releases the bitmap. Free on a nil handle is a no-op.
func Free(b *Bitmap) { C.hwloc_bitmap_free(ptr(b)) }

// Dup allocates a new bitmap with the same contents as b, or returns nil if
// out of memory or b is nil.
func Dup(b *Bitmap) *Bitmap { return handle(C.hwloc_bitmap_dup(ptr(b))) }

// Copy replaces the contents of dst with those of src.
func Copy(dst, src *Bitmap) int { return int(C.hwloc_bitmap_copy(ptr(dst), ptr(src))) }

// Zero empties the bitmap.
func Zero(b *Bitmap) { C.hwloc_bitmap_zero(ptr(b)) }

// Fill sets all indices of the bitmap.
func Fill(b *Bitmap) { C.hwloc_bitmap_fill(ptr(b)) }

// Only empties the bitmap and then sets index id.
func Only(b *Bitmap, id uint32) int { return int(C.hwloc_bitmap_only(ptr(b), C.uint(id))) }

// AllBut fills the bitmap and then clears index id.
func AllBut(b *Bitmap, id uint32) int { return int(C.hwloc_bitmap_allbut(ptr(b), C.uint(id))) }

// Set adds index id.
func Set(b *Bitmap, id uint32) int { return int(C.hwloc_bitmap_set(ptr(b), C.uint(id))) }

// SetRange adds the indices from begin to end, both inclusive. An end of -1
// adds all indices from begin to infinity.
func SetRange(b *Bitmap, begin uint32, end int32) int {
	return int(C.hwloc_bitmap_set_range(ptr(b), C.uint(begin), C.int(end)))
}

// Clr removes index id.
func Clr(b *Bitmap, id uint32) int { return int(C.hwloc_bitmap_clr(ptr(b), C.uint(id))) }

// ClrRange removes the indices from begin to end, both inclusive. An end of
// -1 removes all indices from begin to infinity.
func ClrRange(b *Bitmap, begin uint32, end int32) int {
	return int(C.hwloc_bitmap_clr_range(ptr(b), C.uint(begin), C.int(end)))
}

// Singlify keeps only the lowest index of the bitmap.
func Singlify(b *Bitmap) int { return int(C.hwloc_bitmap_singlify(ptr(b))) }

// IsSet returns 1 if index id is set, 0 otherwise.
func IsSet(b *Bitmap, id uint32) int { return int(C.hwloc_bitmap_isset(ptr(b), C.uint(id))) }

// IsZero returns 1 if the bitmap is empty, 0 otherwise.
func IsZero(b *Bitmap) int { return int(C.hwloc_bitmap_iszero(ptr(b))) }

// IsFull returns 1 if all indices are set, 0 otherwise.
func IsFull(b *Bitmap) int { return int(C.hwloc_bitmap_isfull(ptr(b))) }

// First returns the lowest set index, or -1 if the bitmap is empty.
func First(b *Bitmap) int32 { return int32(C.hwloc_bitmap_first(ptr(b))) }

// Next returns the lowest set index after prev, or -1 if there is none.
func Next(b *Bitmap, prev int32) int32 {
	return int32(C.hwloc_bitmap_next(ptr(b), C.int(prev)))
}

// Last returns the highest set index, or -1 if the bitmap is empty or
// infinite.
func Last(b *Bitmap) int32 { return int32(C.hwloc_bitmap_last(ptr(b))) }

// Weight returns the number of set indices, or -1 if the bitmap is infinite.
func Weight(b *Bitmap) int { return int(C.hwloc_bitmap_weight(ptr(b))) }

// FirstUnset returns the lowest unset index, or -1 if the bitmap is full.
func FirstUnset(b *Bitmap) int32 { return int32(C.hwloc_bitmap_first_unset(ptr(b))) }

// NextUnset returns the lowest unset index after prev, or -1 if there is
// none.
func NextUnset(b *Bitmap, prev int32) int32 {
	return int32(C.hwloc_bitmap_next_unset(ptr(b), C.int(prev)))
}

// LastUnset returns the highest unset index, or -1 if the bitmap is full or
// not infinite.
func LastUnset(b *Bitmap) int32 { return int32(C.hwloc_bitmap_last_unset(ptr(b))) }

// Or stores the union of a and c into res.
func Or(res, a, c *Bitmap) int { return int(C.hwloc_bitmap_or(ptr(res), ptr(a), ptr(c))) }

// And stores the intersection of a and c into res.
func And(res, a, c *Bitmap) int { return int(C.hwloc_bitmap_and(ptr(res), ptr(a), ptr(c))) }

// AndNot stores the indices of a that are not in c into res.
func AndNot(res, a, c *Bitmap) int {
	return int(C.hwloc_bitmap_andnot(ptr(res), ptr(a), ptr(c)))
}

// Xor stores the symmetric difference of a and c into res.
func Xor(res, a, c *Bitmap) int { return int(C.hwloc_bitmap_xor(ptr(res), ptr(a), ptr(c))) }

// Not stores the complement of a into res, which may alias a.
func Not(res, a *Bitmap) int { return int(C.hwloc_bitmap_not(ptr(res), ptr(a))) }

// Intersects returns 1 if a and c have at least one index in common.
func Intersects(a, c *Bitmap) int { return int(C.hwloc_bitmap_intersects(ptr(a), ptr(c))) }

// IsIncluded returns 1 if sub is a subset of super.
func IsIncluded(sub, super *Bitmap) int {
	return int(C.hwloc_bitmap_isincluded(ptr(sub), ptr(super)))
}

// IsEqual returns 1 if a and c contain exactly the same indices.
func IsEqual(a, c *Bitmap) int { return int(C.hwloc_bitmap_isequal(ptr(a), ptr(c))) }

// Compare orders a and c by their highest differing index. It returns -1, 0,
// or 1.
func Compare(a, c *Bitmap) int { return int(C.hwloc_bitmap_compare(ptr(a), ptr(c))) }

// ListString renders the bitmap as comma-separated list of index ranges,
// such as “0-3,8,10-”.
func ListString(b *Bitmap) string {
	n := C.hwloc_bitmap_list_snprintf(nil, 0, ptr(b))
	if n <= 0 {
		return ""
	}
	buf := (*C.char)(C.malloc(C.size_t(n) + 1))
	defer C.free(unsafe.Pointer(buf))
	C.hwloc_bitmap_list_snprintf(buf, C.size_t(n)+1, ptr(b))
	return C.GoString(buf)
}
