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
	"errors"
	"fmt"
	"math"
	"runtime"
	"strings"

	"github.com/grailbio/base/must"
	"github.com/thediveo/bitmaps/rawbitmap"
	"github.com/thediveo/faf"
)

// OpenEnd marks the end of the last [List] range that extends to infinity.
// It lies beyond [MaxIndex] and thus is never a valid bitmap index itself.
const OpenEnd Index = math.MaxUint32

// List is a list of [from...to] index ranges, both inclusive. The last
// range may end in [OpenEnd], extending it to infinity.
//
// Lists produced by this package are canonical: ranges are ordered from
// lowest to highest and neither overlap nor touch each other.
type List [][2]Index

// String returns the list in textual format, with the individual ranges
// “x-y” separated by “,”, single index ranges collapsed into “x” (instead of
// “x-x”), and an open range rendered as “x-”.
func (l List) String() string {
	var b strings.Builder
	for idx, r := range l {
		if idx > 0 {
			b.WriteString(",")
		}
		switch r[1] {
		case r[0]:
			fmt.Fprintf(&b, "%d", r[0])
		case OpenEnd:
			fmt.Fprintf(&b, "%d-", r[0])
		default:
			fmt.Fprintf(&b, "%d-%d", r[0], r[1])
		}
	}
	return b.String()
}

// NewList returns a new List for the given textual list format. If the text
// is malformed then an error is returned instead.
func NewList(b []byte) (List, error) {
	bs := faf.NewBytestring(b)
	number := func() (Index, error) {
		v, ok := bs.Uint64()
		if !ok {
			return 0, errors.New("expected unsigned integer number")
		}
		return IndexFrom(v)
	}
	l := List{}
	for {
		// nothing more, we're at the end of text/line, so we're successfully
		// done.
		if bs.EOL() {
			return l, nil
		}
		// we now expect an index and if there is nothing else following,
		// we're also done, adding the index as a single index range to our
		// list.
		from, err := number()
		if err != nil {
			return nil, err
		}
		if bs.EOL() {
			return append(l, [2]Index{from, from}), nil
		}
		// Either this is a from-to range, an open range, or another range
		// should follow...
		switch ch, _ := bs.Next(); ch {
		case '-':
			// an open range must be the final range.
			if bs.EOL() {
				return append(l, [2]Index{from, OpenEnd}), nil
			}
			// a range, so get the end of the range and then add the range to
			// our list. If nothing else follows, then we're done.
			to, err := number()
			if err != nil {
				return nil, err
			}
			if to < from {
				return nil, fmt.Errorf("invalid range %d-%d", from, to)
			}
			l = append(l, [2]Index{from, to})
			if bs.EOL() {
				return l, nil
			}
			// another index (or range) is expected to follow, separated by
			// ",", so we check for a necessary comma. Then we start over with
			// the next index or range.
			ch, _ = bs.Next()
			if ch != ',' {
				return nil, errors.New("expected ','")
			}
		case ',':
			// a single index, and more to follow; so add this single index
			// range and then rinse and repeat.
			l = append(l, [2]Index{from, from})
		default:
			return nil, errors.New("expected '-' or ','")
		}
	}
}

// Parse returns a new bitmap with the indices of the passed textual list,
// such as “0-3,8,10-”. Malformed text returns an error.
func Parse(s string) (*Bitmap, error) {
	l, err := NewList([]byte(s))
	if err != nil {
		return nil, err
	}
	return l.Bitmap(), nil
}

// Bitmap returns a new bitmap corresponding with this list.
func (l List) Bitmap() *Bitmap {
	b := New()
	for _, r := range l {
		if r[1] == OpenEnd {
			b.SetRange(From(r[0]))
			continue
		}
		b.SetRange(Span(r[0], r[1]))
	}
	return b
}

// List returns the canonical list of index ranges corresponding with this
// bitmap.
func (b *Bitmap) List() List {
	defer runtime.KeepAlive(b)
	h := b.handle()
	l := List{}
	for prev := int32(-1); ; {
		from := rawbitmap.Next(h, prev)
		if from < 0 {
			return l
		}
		next := rawbitmap.NextUnset(h, from)
		if next < 0 {
			// either an infinite tail or a finite run ending at MaxIndex.
			if last := rawbitmap.Last(h); last >= 0 {
				return append(l, [2]Index{Index(from), Index(last)})
			}
			return append(l, [2]Index{Index(from), OpenEnd})
		}
		l = append(l, [2]Index{Index(from), Index(next - 1)})
		prev = next
	}
}

// MarshalText returns the bitmap in textual list format.
func (b *Bitmap) MarshalText() ([]byte, error) {
	return []byte(b.String()), nil
}

// UnmarshalText replaces the indices of the bitmap with those of the passed
// textual list. A zero Bitmap gets a new owned resource that must be
// released using [Bitmap.Close].
func (b *Bitmap) UnmarshalText(text []byte) error {
	l, err := NewList(text)
	if err != nil {
		return err
	}
	if b.raw == nil {
		b.raw = rawbitmap.Alloc()
		must.Truef(b.raw != nil, "bitmap resource allocation failed")
		b.owned = true
	}
	tmp := l.Bitmap()
	defer tmp.Close()
	b.CopyFrom(tmp)
	return nil
}
