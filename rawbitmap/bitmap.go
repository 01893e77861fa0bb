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

//go:build !(cgo && hwloc)

package rawbitmap

import (
	"fmt"
	"math"
	"strings"

	"github.com/bits-and-blooms/bitset"
)

// MaxIndex is the highest bit index accepted by the bitmap functions.
const MaxIndex = math.MaxInt32

const wordBits = 64

// Bitmap is an opaque bitmap resource, only to be used through its handle.
//
// The explicit prefix always spans a whole number of 64 bit words; all
// indices beyond the prefix are members exactly when the bitmap is infinite.
type Bitmap struct {
	prefix   *bitset.BitSet
	infinite bool
	freed    bool
}

// live returns the bitmap after checking that it hasn't been freed yet.
func (b *Bitmap) live() *Bitmap {
	if b == nil {
		panic("rawbitmap: nil bitmap handle")
	}
	if b.freed {
		panic("rawbitmap: use of freed bitmap")
	}
	return b
}

// word returns the i-th 64 bit word, extending the prefix as necessary.
func (b *Bitmap) word(i int) uint64 {
	if w := b.prefix.Words(); i < len(w) {
		return w[i]
	}
	if b.infinite {
		return ^uint64(0)
	}
	return 0
}

func (b *Bitmap) words() int {
	return len(b.prefix.Words())
}

// grown returns a copy of the passed prefix that covers at least n bits
// (rounded up to whole words), with the additional bits set to fill. It
// reports false if the new storage could not be allocated.
func grown(prefix *bitset.BitSet, n uint, fill bool) (*bitset.BitSet, bool) {
	n = (n + wordBits - 1) &^ (wordBits - 1)
	old := prefix.Len()
	if n < old {
		n = old
	}
	g := bitset.New(n)
	if g.Len() != n {
		return nil, false
	}
	copy(g.Words(), prefix.Words())
	if fill && n > old {
		g.FlipRange(old, n)
	}
	return g, true
}

// reserve makes the explicit prefix cover at least n bits.
func (b *Bitmap) reserve(n uint) bool {
	if n <= b.prefix.Len() {
		return true
	}
	g, ok := grown(b.prefix, n, b.infinite)
	if !ok {
		return false
	}
	b.prefix = g
	return true
}

// span sets or clears the bits [lo, hi) that must lie inside the prefix.
func (b *Bitmap) span(lo, hi uint, value bool) {
	w := b.prefix.Words()
	for lo < hi {
		i := lo / wordBits
		next := (i + 1) * wordBits
		mask := ^uint64(0) << (lo % wordBits)
		if hi < next {
			mask &= ^uint64(0) >> (next - hi)
		}
		if value {
			w[i] |= mask
		} else {
			w[i] &^= mask
		}
		lo = next
	}
}

// cindex maps a bit index onto the C int index space, where -1 stands in for
// indices that cannot be represented.
func cindex(i uint) int32 {
	if i > MaxIndex {
		return -1
	}
	return int32(i)
}

func cbool(b bool) int {
	if b {
		return 1
	}
	return 0
}

// Alloc allocates a new empty bitmap, or returns nil if out of memory.
func Alloc() *Bitmap {
	return &Bitmap{prefix: bitset.New(0)}
}

// AllocFull allocates a new full bitmap, or returns nil if out of memory.
func AllocFull() *Bitmap {
	return &Bitmap{prefix: bitset.New(0), infinite: true}
}

// Free releases the bitmap. Free on a nil handle is a no-op.
func Free(b *Bitmap) {
	if b == nil {
		return
	}
	b.live()
	b.prefix = nil
	b.freed = true
}

// Dup allocates a new bitmap with the same contents as b, or returns nil if
// out of memory or b is nil.
func Dup(b *Bitmap) *Bitmap {
	if b == nil {
		return nil
	}
	b.live()
	prefix := b.prefix.Clone()
	if prefix.Len() != b.prefix.Len() {
		return nil
	}
	return &Bitmap{prefix: prefix, infinite: b.infinite}
}

// Copy replaces the contents of dst with those of src.
func Copy(dst, src *Bitmap) int {
	dst.live()
	src.live()
	if dst == src {
		return 0
	}
	prefix := src.prefix.Clone()
	if prefix.Len() != src.prefix.Len() {
		return -1
	}
	dst.prefix, dst.infinite = prefix, src.infinite
	return 0
}

// Zero empties the bitmap.
func Zero(b *Bitmap) {
	b.live().prefix.ClearAll()
	b.infinite = false
}

// Fill sets all indices of the bitmap.
func Fill(b *Bitmap) {
	b.live().prefix.SetAll()
	b.infinite = true
}

// Only empties the bitmap and then sets index id.
func Only(b *Bitmap, id uint32) int {
	Zero(b)
	return Set(b, id)
}

// AllBut fills the bitmap and then clears index id.
func AllBut(b *Bitmap, id uint32) int {
	Fill(b)
	return Clr(b, id)
}

// Set adds index id.
func Set(b *Bitmap, id uint32) int {
	b.live()
	if id > MaxIndex || !b.reserve(uint(id)+1) {
		return -1
	}
	b.prefix.Set(uint(id))
	return 0
}

// SetRange adds the indices from begin to end, both inclusive. An end of -1
// adds all indices from begin to infinity.
func SetRange(b *Bitmap, begin uint32, end int32) int {
	b.live()
	if begin > MaxIndex {
		return -1
	}
	if end < 0 {
		if !b.reserve(uint(begin)) {
			return -1
		}
		b.span(uint(begin), b.prefix.Len(), true)
		b.infinite = true
		return 0
	}
	if uint32(end) < begin {
		return 0
	}
	if !b.reserve(uint(end) + 1) {
		return -1
	}
	b.span(uint(begin), uint(end)+1, true)
	return 0
}

// Clr removes index id.
func Clr(b *Bitmap, id uint32) int {
	b.live()
	if id > MaxIndex {
		return -1
	}
	if uint(id) >= b.prefix.Len() && !b.infinite {
		return 0
	}
	if !b.reserve(uint(id) + 1) {
		return -1
	}
	b.prefix.Clear(uint(id))
	return 0
}

// ClrRange removes the indices from begin to end, both inclusive. An end of
// -1 removes all indices from begin to infinity.
func ClrRange(b *Bitmap, begin uint32, end int32) int {
	b.live()
	if begin > MaxIndex {
		return -1
	}
	if end < 0 {
		if b.infinite && !b.reserve(uint(begin)) {
			return -1
		}
		b.span(uint(begin), b.prefix.Len(), false)
		b.infinite = false
		return 0
	}
	if uint32(end) < begin {
		return 0
	}
	hi := uint(end) + 1
	if b.infinite {
		if !b.reserve(hi) {
			return -1
		}
	} else {
		hi = min(hi, b.prefix.Len())
	}
	b.span(uint(begin), hi, false)
	return 0
}

// Singlify keeps only the lowest index of the bitmap. An empty bitmap stays
// empty.
func Singlify(b *Bitmap) int {
	first := First(b)
	if first < 0 {
		return 0
	}
	return Only(b, uint32(first))
}

// IsSet returns 1 if index id is set, 0 otherwise.
func IsSet(b *Bitmap, id uint32) int {
	b.live()
	if uint(id) < b.prefix.Len() {
		return cbool(b.prefix.Test(uint(id)))
	}
	return cbool(b.infinite)
}

// IsZero returns 1 if the bitmap is empty, 0 otherwise.
func IsZero(b *Bitmap) int {
	b.live()
	return cbool(!b.infinite && b.prefix.None())
}

// IsFull returns 1 if all indices are set, 0 otherwise.
func IsFull(b *Bitmap) int {
	b.live()
	return cbool(b.infinite && b.prefix.All())
}

// First returns the lowest set index, or -1 if the bitmap is empty.
func First(b *Bitmap) int32 {
	return Next(b, -1)
}

// Next returns the lowest set index after prev, or -1 if there is none. A
// prev of -1 returns the lowest set index.
func Next(b *Bitmap, prev int32) int32 {
	b.live()
	start := uint(prev + 1)
	if prev < 0 {
		start = 0
	}
	length := b.prefix.Len()
	if start < length {
		if i, ok := b.prefix.NextSet(start); ok {
			return cindex(i)
		}
	}
	if b.infinite {
		return cindex(max(start, length))
	}
	return -1
}

// Last returns the highest set index, or -1 if the bitmap is empty or
// infinite.
func Last(b *Bitmap) int32 {
	b.live()
	if b.infinite || b.prefix.Len() == 0 {
		return -1
	}
	if i, ok := b.prefix.PreviousSet(b.prefix.Len() - 1); ok {
		return cindex(i)
	}
	return -1
}

// Weight returns the number of set indices, or -1 if the bitmap is infinite.
func Weight(b *Bitmap) int {
	b.live()
	if b.infinite {
		return -1
	}
	return int(b.prefix.Count())
}

// FirstUnset returns the lowest unset index, or -1 if the bitmap is full.
func FirstUnset(b *Bitmap) int32 {
	return NextUnset(b, -1)
}

// NextUnset returns the lowest unset index after prev, or -1 if there is
// none.
func NextUnset(b *Bitmap, prev int32) int32 {
	b.live()
	start := uint(prev + 1)
	if prev < 0 {
		start = 0
	}
	length := b.prefix.Len()
	if start < length {
		if i, ok := b.prefix.NextClear(start); ok {
			return cindex(i)
		}
	}
	if !b.infinite {
		return cindex(max(start, length))
	}
	return -1
}

// LastUnset returns the highest unset index, or -1 if the bitmap is full or
// not infinite.
func LastUnset(b *Bitmap) int32 {
	b.live()
	if !b.infinite || b.prefix.Len() == 0 {
		return -1
	}
	if i, ok := b.prefix.PreviousClear(b.prefix.Len() - 1); ok {
		return cindex(i)
	}
	return -1
}

// combine stores op(a, c) into res, which may alias a or c. Both operands
// are first brought to the same prefix length.
func combine(res, a, c *Bitmap, op func(x, y *bitset.BitSet), infinite func(x, y bool) bool) int {
	res.live()
	a.live()
	c.live()
	n := max(a.prefix.Len(), c.prefix.Len())
	x, ok := grown(a.prefix, n, a.infinite)
	if !ok {
		return -1
	}
	y := c.prefix
	if y.Len() != n {
		if y, ok = grown(c.prefix, n, c.infinite); !ok {
			return -1
		}
	}
	op(x, y)
	res.prefix, res.infinite = x, infinite(a.infinite, c.infinite)
	return 0
}

// Or stores the union of a and c into res.
func Or(res, a, c *Bitmap) int {
	return combine(res, a, c, (*bitset.BitSet).InPlaceUnion,
		func(x, y bool) bool { return x || y })
}

// And stores the intersection of a and c into res.
func And(res, a, c *Bitmap) int {
	return combine(res, a, c, (*bitset.BitSet).InPlaceIntersection,
		func(x, y bool) bool { return x && y })
}

// AndNot stores the indices of a that are not in c into res.
func AndNot(res, a, c *Bitmap) int {
	return combine(res, a, c, (*bitset.BitSet).InPlaceDifference,
		func(x, y bool) bool { return x && !y })
}

// Xor stores the symmetric difference of a and c into res.
func Xor(res, a, c *Bitmap) int {
	return combine(res, a, c, (*bitset.BitSet).InPlaceSymmetricDifference,
		func(x, y bool) bool { return x != y })
}

// Not stores the complement of a into res, which may alias a.
func Not(res, a *Bitmap) int {
	res.live()
	a.live()
	x, ok := grown(a.prefix, a.prefix.Len(), false)
	if !ok {
		return -1
	}
	x.FlipRange(0, x.Len())
	res.prefix, res.infinite = x, !a.infinite
	return 0
}

// Intersects returns 1 if a and c have at least one index in common.
func Intersects(a, c *Bitmap) int {
	a.live()
	c.live()
	if a.infinite && c.infinite {
		return 1
	}
	for i, n := 0, max(a.words(), c.words()); i < n; i++ {
		if a.word(i)&c.word(i) != 0 {
			return 1
		}
	}
	return 0
}

// IsIncluded returns 1 if sub is a subset of super.
func IsIncluded(sub, super *Bitmap) int {
	sub.live()
	super.live()
	if sub.infinite && !super.infinite {
		return 0
	}
	for i, n := 0, max(sub.words(), super.words()); i < n; i++ {
		if sub.word(i)&^super.word(i) != 0 {
			return 0
		}
	}
	return 1
}

// IsEqual returns 1 if a and c contain exactly the same indices.
func IsEqual(a, c *Bitmap) int {
	a.live()
	c.live()
	if a.infinite != c.infinite {
		return 0
	}
	for i, n := 0, max(a.words(), c.words()); i < n; i++ {
		if a.word(i) != c.word(i) {
			return 0
		}
	}
	return 1
}

// Compare orders a and c by their highest differing index: the bitmap not
// containing that index is the smaller one, and infinite bitmaps are larger
// than finite ones. It returns -1, 0, or 1.
func Compare(a, c *Bitmap) int {
	a.live()
	c.live()
	if a.infinite != c.infinite {
		if a.infinite {
			return 1
		}
		return -1
	}
	for i := max(a.words(), c.words()) - 1; i >= 0; i-- {
		x, y := a.word(i), c.word(i)
		switch {
		case x == y:
			continue
		case x < y:
			return -1
		default:
			return 1
		}
	}
	return 0
}

// ListString renders the bitmap as comma-separated list of index ranges,
// such as “0-3,8,10-”.
func ListString(b *Bitmap) string {
	b.live()
	var sb strings.Builder
	for prev := int32(-1); ; {
		begin := Next(b, prev)
		if begin < 0 {
			break
		}
		if sb.Len() > 0 {
			sb.WriteByte(',')
		}
		end := int64(NextUnset(b, begin))
		if end < 0 {
			if b.infinite {
				fmt.Fprintf(&sb, "%d-", begin)
				break
			}
			// a finite run up to and including MaxIndex.
			end = MaxIndex + 1
		}
		if end-1 == int64(begin) {
			fmt.Fprintf(&sb, "%d", begin)
		} else {
			fmt.Fprintf(&sb, "%d-%d", begin, end-1)
		}
		if end > MaxIndex {
			break
		}
		prev = int32(end)
	}
	return sb.String()
}
