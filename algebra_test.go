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
	. "github.com/onsi/ginkgo/v2/dsl/core"
	. "github.com/onsi/ginkgo/v2/dsl/table"
	. "github.com/onsi/gomega"
)

var _ = Describe("bitmap algebra", func() {

	DescribeTable("combining bitmaps",
		func(a, b string, op func(x, y *Bitmap) *Bitmap, inplace func(x, y *Bitmap) *Bitmap, expected string) {
			x, y := bm(a), bm(b)
			defer x.Close()
			defer y.Close()

			res := op(x, y)
			defer res.Close()
			Expect(res).NotTo(BeIdenticalTo(x))
			Expect(res.String()).To(Equal(expected))
			Expect(x.String()).To(Equal(a), "unmodified operand")

			Expect(inplace(x, y)).To(BeIdenticalTo(x))
			Expect(x.String()).To(Equal(expected))
			Expect(y.String()).To(Equal(b), "unmodified operand")
		},
		Entry("and", "1-300", "100-", (*Bitmap).And, (*Bitmap).InPlaceAnd, "100-300"),
		Entry("and infinite", "10-", "100-", (*Bitmap).And, (*Bitmap).InPlaceAnd, "100-"),
		Entry("and disjoint", "1-3", "4-6", (*Bitmap).And, (*Bitmap).InPlaceAnd, ""),
		Entry("or", "1-3", "100-", (*Bitmap).Or, (*Bitmap).InPlaceOr, "1-3,100-"),
		Entry("or touching", "1-3", "4-6", (*Bitmap).Or, (*Bitmap).InPlaceOr, "1-6"),
		Entry("xor", "0-10", "5-", (*Bitmap).Xor, (*Bitmap).InPlaceXor, "0-4,11-"),
		Entry("xor infinite", "0-", "5-", (*Bitmap).Xor, (*Bitmap).InPlaceXor, "0-4"),
		Entry("and not", "12-56", "34-78", (*Bitmap).AndNot, (*Bitmap).InPlaceAndNot, "12-33"),
		Entry("and not infinite", "0-", "1", (*Bitmap).AndNot, (*Bitmap).InPlaceAndNot, "0,2-"),
		Entry("and not everything", "1-3", "0-", (*Bitmap).AndNot, (*Bitmap).InPlaceAndNot, ""),
	)

	It("combines a bitmap with itself", func() {
		b := bm("1-3,10-")
		defer b.Close()
		Expect(b.InPlaceOr(b).String()).To(Equal("1-3,10-"))
		Expect(b.InPlaceAnd(b).String()).To(Equal("1-3,10-"))
		Expect(b.InPlaceXor(b).IsEmpty()).To(BeTrue())
	})

	DescribeTable("inverting",
		func(list, expected string) {
			b := bm(list)
			defer b.Close()
			not := b.Not()
			defer not.Close()
			Expect(not.String()).To(Equal(expected))
			Expect(b.String()).To(Equal(list))
		},
		Entry(nil, "", "0-"),
		Entry(nil, "0-", ""),
		Entry(nil, "3-5", "0-2,6-"),
		Entry(nil, "0-2,6-", "3-5"),
		Entry(nil, "63-64", "0-62,65-"),
	)

	It("subtracts in a single pass the same as with an inverted operand", func() {
		x := FromRange(Span(12, 56))
		defer x.Close()
		y := FromRange(Span(34, 78))
		defer y.Close()
		diff := x.AndNot(y)
		defer diff.Close()
		Expect(diff.String()).To(Equal("12-33"))

		noty := y.Not()
		defer noty.Close()
		composed := x.And(noty)
		defer composed.Close()
		Expect(diff.Equal(composed)).To(BeTrue())
	})

	It("fails fatally on closed operands", func() {
		x := New()
		defer x.Close()
		y := New()
		y.Close()
		Expect(func() { x.Or(y) }).To(Panic())
		Expect(func() { x.InPlaceAnd(y) }).To(Panic())
	})

})
