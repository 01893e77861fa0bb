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
	"math/rand/v2"

	. "github.com/onsi/ginkgo/v2/dsl/core"
	. "github.com/onsi/gomega"
	. "github.com/thediveo/success"
)

const samples = 200

// randomBitmap returns a new bitmap with random runs of indices below 512,
// and in some cases an infinite tail.
func randomBitmap(rnd *rand.Rand) *Bitmap {
	b := New()
	for n := rnd.IntN(8); n > 0; n-- {
		lo := Index(rnd.IntN(512))
		b.SetRange(Between(lo, lo+Index(rnd.IntN(70))))
	}
	if rnd.IntN(4) == 0 {
		b.SetRange(From(Index(rnd.IntN(600))))
	}
	return b
}

// randomRange returns a random range with random kinds of bounds.
func randomRange(rnd *rand.Rand) Range {
	bound := func(idx Index) Bound {
		switch rnd.IntN(3) {
		case 0:
			return Included(idx)
		case 1:
			return Excluded(idx)
		default:
			return Unbounded()
		}
	}
	lo := Index(rnd.IntN(300))
	return Range{Start: bound(lo), End: bound(lo + Index(rnd.IntN(300)))}
}

var _ = Describe("bitmap properties", func() {

	var rnd *rand.Rand

	BeforeEach(func() {
		rnd = rand.New(rand.NewPCG(42, 666))
	})

	It("produces exactly the indices of a range", func() {
		for range samples {
			r := randomRange(rnd)
			b := FromRange(r)
			expected := []Index{}
			for idx := Index(0); idx < 1000; idx++ {
				if r.Contains(idx) {
					expected = append(expected, idx)
				}
			}
			Expect(take(b.IterSet(), len(expected))).To(Equal(expected), "range %s", r)
			if r.End.IsUnbounded() {
				Expect(b.IsSet(MaxIndex)).To(BeTrue(), "range %s", r)
			} else {
				s, ok := b.IterSet(), false
				for i := 0; i <= len(expected); i++ {
					_, ok = s.Next()
				}
				Expect(ok).To(BeFalse(), "range %s", r)
			}
			b.Close()
		}
	})

	It("inverts twice into the original bitmap", func() {
		for range samples {
			x := randomBitmap(rnd)
			y := x.Clone().Invert().Invert()
			Expect(y.Equal(x)).To(BeTrue(), "bitmap %s", x)
			not := x.Not()
			Expect(not.Intersects(x)).To(BeFalse(), "bitmap %s", x)
			all := not.Or(x)
			Expect(all.IsFull()).To(BeTrue(), "bitmap %s", x)
			for _, b := range []*Bitmap{x, y, not, all} {
				b.Close()
			}
		}
	})

	It("subtracts consistently with and-ing the complement", func() {
		for range samples {
			x, y := randomBitmap(rnd), randomBitmap(rnd)
			noty := y.Not()
			composed := x.And(noty)
			diff := x.AndNot(y)
			Expect(diff.Equal(composed)).To(BeTrue(), "%s andnot %s", x, y)
			for _, b := range []*Bitmap{x, y, noty, composed, diff} {
				b.Close()
			}
		}
	})

	It("includes the empty bitmap everywhere", func() {
		empty := New()
		defer empty.Close()
		for range samples {
			x := randomBitmap(rnd)
			Expect(x.Includes(empty)).To(BeTrue(), "bitmap %s", x)
			Expect(empty.Includes(x)).To(Equal(x.IsEmpty()), "bitmap %s", x)
			Expect(empty.Compare(x) <= 0).To(BeTrue(), "bitmap %s", x)
			x.Close()
		}
	})

	It("adds up the weights of disjoint bitmaps", func() {
		for range samples {
			x := randomBitmap(rnd)
			y := randomBitmap(rnd).InPlaceAndNot(x)
			Expect(x.Intersects(y)).To(BeFalse())
			union := x.Or(y)
			wx, finitex := x.Weight()
			wy, finitey := y.Weight()
			w, finite := union.Weight()
			Expect(finite).To(Equal(finitex && finitey), "%s or %s", x, y)
			if finite {
				Expect(w).To(Equal(wx+wy), "%s or %s", x, y)
			}
			x.Close()
			y.Close()
			union.Close()
		}
	})

	It("orders consistently with inclusion and equality", func() {
		for range samples {
			x, y := randomBitmap(rnd), randomBitmap(rnd)
			union := x.Or(y)
			Expect(x.Compare(union) <= 0).To(BeTrue(), "%s vs. %s", x, union)
			Expect(x.Compare(y) == 0).To(Equal(x.Equal(y)), "%s vs. %s", x, y)
			Expect(x.Compare(y)).To(Equal(-y.Compare(x)), "%s vs. %s", x, y)
			x.Close()
			y.Close()
			union.Close()
		}
	})

	It("round-trips the textual format", func() {
		for range samples {
			x := randomBitmap(rnd)
			y := Successful(Parse(x.String()))
			Expect(y.Equal(x)).To(BeTrue(), "bitmap %s", x)
			Expect(y.List()).To(Equal(x.List()))
			Expect(x.List().String()).To(Equal(x.String()))
			x.Close()
			y.Close()
		}
	})

	It("counts set indices", func() {
		for range samples {
			x := randomBitmap(rnd)
			if w, finite := x.Weight(); finite {
				n := 0
				for range x.Indices() {
					n++
				}
				Expect(n).To(Equal(w), "bitmap %s", x)
			}
			x.Close()
		}
	})

})
