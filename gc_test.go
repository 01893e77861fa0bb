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

	. "github.com/onsi/ginkgo/v2/dsl/core"
	. "github.com/onsi/gomega"
)

// Unreachable temporaries get finalized while their resources are still in
// use, unless the bitmap operations keep their receivers and operands alive
// until the resource calls have returned.
var _ = Describe("garbage collected temporaries", func() {

	It("keeps temporaries alive while operating on them", func() {
		done := make(chan struct{})
		defer close(done)
		go func() {
			for {
				select {
				case <-done:
					return
				default:
					runtime.GC()
				}
			}
		}()

		Expect(func() {
			for range 200 {
				Expect(FromIndices(FromRange(Span(0, 20000)).Indices()).String()).
					To(Equal("0-20000"))
				w, ok := FromRange(Span(1, 10)).Or(FromRange(Span(5, 20))).Weight()
				Expect(ok).To(BeTrue())
				Expect(w).To(Equal(20))
				n := 0
				for range FromRange(Span(0, 999)).Not().Not().Indices() {
					n++
				}
				Expect(n).To(Equal(1000))
				Expect(FromIndex(42).List()).To(Equal(List{{42, 42}}))
				Expect(New().SetRange(Span(10, 20000)).Unset(15).Invert().Singlify().String()).
					To(Equal("0"))
				idx, ok := FromRange(From(7)).And(FromRange(UpTo(9))).IterSet().Next()
				Expect(ok).To(BeTrue())
				Expect(idx).To(Equal(Index(7)))
			}
		}).NotTo(Panic())
	})

})
