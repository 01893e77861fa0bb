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
	"math"

	. "github.com/onsi/ginkgo/v2/dsl/core"
	. "github.com/onsi/ginkgo/v2/dsl/table"
	. "github.com/onsi/gomega"
	. "github.com/thediveo/success"
)

var _ = Describe("bitmap indices", func() {

	It("converts valid integers", func() {
		Expect(IndexFrom(0)).To(Equal(MinIndex))
		Expect(IndexFrom(int8(42))).To(Equal(Index(42)))
		Expect(IndexFrom(uint16(666))).To(Equal(Index(666)))
		Expect(IndexFrom(int64(math.MaxInt32))).To(Equal(MaxIndex))
		Expect(IndexFrom(uintptr(1))).To(Equal(Index(1)))
		Expect(MustIndex(uint(7))).To(Equal(Index(7)))
	})

	DescribeTable("rejecting invalid integers",
		func(convert func() (Index, error), expected error) {
			Expect(convert()).Error().To(MatchError(expected))
		},
		Entry("negative int", func() (Index, error) { return IndexFrom(-1) }, ErrNegativeIndex),
		Entry("negative int64", func() (Index, error) { return IndexFrom(int64(math.MinInt64)) }, ErrNegativeIndex),
		Entry("too large int64", func() (Index, error) { return IndexFrom(int64(math.MaxInt32) + 1) }, ErrIndexTooLarge),
		Entry("too large uint32", func() (Index, error) { return IndexFrom(uint32(math.MaxUint32)) }, ErrIndexTooLarge),
		Entry("too large uint64", func() (Index, error) { return IndexFrom(uint64(math.MaxUint64)) }, ErrIndexTooLarge),
	)

	It("fails fatally on invalid must-conversions", func() {
		Expect(func() { _ = MustIndex(-42) }).To(Panic())
		Expect(func() { _ = MustIndex(uint64(1) << 40) }).To(Panic())
	})

	It("returns checked successors and predecessors", func() {
		succ, ok := Index(41).CheckedSucc()
		Expect(ok).To(BeTrue())
		Expect(succ).To(Equal(Index(42)))
		_, ok = MaxIndex.CheckedSucc()
		Expect(ok).To(BeFalse())

		pred, ok := Index(42).CheckedPred()
		Expect(ok).To(BeTrue())
		Expect(pred).To(Equal(Index(41)))
		_, ok = MinIndex.CheckedPred()
		Expect(ok).To(BeFalse())
	})

	It("returns saturating successors and predecessors", func() {
		Expect(Index(41).SaturatingSucc()).To(Equal(Index(42)))
		Expect(MaxIndex.SaturatingSucc()).To(Equal(MaxIndex))
		Expect(Index(42).SaturatingPred()).To(Equal(Index(41)))
		Expect(MinIndex.SaturatingPred()).To(Equal(MinIndex))
	})

	It("converts indices back", func() {
		Expect(Index(42).Int()).To(Equal(42))
		Expect(Index(42).String()).To(Equal("42"))
		Expect(MinIndex.String()).To(Equal("0"))
		Expect(MaxIndex.String()).To(Equal("2147483647"))
		Expect(OpenEnd.String()).To(Equal("4294967295"))
		Expect(Successful(IndexFrom(MaxIndex.Int()))).To(Equal(MaxIndex))
	})

	It("rejects out-of-range indices built by type conversion", func() {
		b := New()
		defer b.Close()
		Expect(func() { b.Set(MaxIndex + 1) }).To(Panic())
		Expect(func() { _ = b.IsSet(OpenEnd) }).To(Panic())
		Expect(b.IsEmpty()).To(BeTrue())
	})

})
