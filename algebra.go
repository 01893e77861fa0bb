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
	"runtime"

	"github.com/thediveo/bitmaps/rawbitmap"
)

// binop is one of the binary resource operations storing its result into
// the first handle.
type binop func(res, a, b *rawbitmap.Bitmap) int

func (b *Bitmap) combined(other *Bitmap, op binop) *Bitmap {
	res := New()
	mustSucceed(op(res.handle(), b.handle(), other.handle()))
	runtime.KeepAlive(b)
	runtime.KeepAlive(other)
	return res
}

func (b *Bitmap) combine(other *Bitmap, op binop) *Bitmap {
	mustSucceed(op(b.handle(), b.handle(), other.handle()))
	runtime.KeepAlive(other)
	return b
}

// And returns a new bitmap with the indices contained in both this bitmap
// and the other bitmap.
func (b *Bitmap) And(other *Bitmap) *Bitmap { return b.combined(other, rawbitmap.And) }

// Or returns a new bitmap with the indices contained in either this bitmap
// or the other bitmap, or both.
func (b *Bitmap) Or(other *Bitmap) *Bitmap { return b.combined(other, rawbitmap.Or) }

// Xor returns a new bitmap with the indices contained in exactly one of this
// bitmap and the other bitmap.
func (b *Bitmap) Xor(other *Bitmap) *Bitmap { return b.combined(other, rawbitmap.Xor) }

// AndNot returns a new bitmap with the indices of this bitmap that are not
// contained in the other bitmap. It is equivalent to b.And(other.Not()),
// but computed in a single pass.
func (b *Bitmap) AndNot(other *Bitmap) *Bitmap { return b.combined(other, rawbitmap.AndNot) }

// Not returns a new bitmap with exactly the indices not contained in this
// bitmap.
func (b *Bitmap) Not() *Bitmap {
	res := New()
	mustSucceed(rawbitmap.Not(res.handle(), b.handle()))
	runtime.KeepAlive(b)
	return res
}

// InPlaceAnd removes all indices not contained in the other bitmap.
func (b *Bitmap) InPlaceAnd(other *Bitmap) *Bitmap { return b.combine(other, rawbitmap.And) }

// InPlaceOr adds all indices of the other bitmap.
func (b *Bitmap) InPlaceOr(other *Bitmap) *Bitmap { return b.combine(other, rawbitmap.Or) }

// InPlaceXor toggles all indices contained in the other bitmap.
func (b *Bitmap) InPlaceXor(other *Bitmap) *Bitmap { return b.combine(other, rawbitmap.Xor) }

// InPlaceAndNot removes all indices contained in the other bitmap.
func (b *Bitmap) InPlaceAndNot(other *Bitmap) *Bitmap { return b.combine(other, rawbitmap.AndNot) }

// Invert replaces the indices of the bitmap with exactly those not
// contained before, turning finite bitmaps into infinite ones and vice versa.
func (b *Bitmap) Invert() *Bitmap {
	mustSucceed(rawbitmap.Not(b.handle(), b.handle()))
	runtime.KeepAlive(b)
	return b
}
