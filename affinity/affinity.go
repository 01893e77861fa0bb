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

/*
Package affinity queries and sets the CPU affinities of tasks and processes,
using [bitmaps.CPUSet] to represent the sets of allowed logical CPUs.
*/
package affinity

import (
	"math/bits"
	"sync/atomic"
	"syscall"
	"unsafe"

	"github.com/thediveo/bitmaps"
	"golang.org/x/sys/unix"
)

// mask is a CPU bit string in the format of the sched_getaffinity(2) and
// sched_setaffinity(2) syscalls.
type mask []uint64

// setsize reflects the dynamically determined size of CPU masks on this
// system (size in uint64 words). This is usually smaller than the fixed-sized
// [unix.CPUSet] that Go's [unix.SchedGetaffinity] uses.
var setsize atomic.Uint64

// sized becomes true as soon as a successful sched_getaffinity(2) has
// determined setsize.
var sized atomic.Bool
var wordbytesize = uint64(unsafe.Sizeof(mask{0}[0]))
var bitsperword = uint(wordbytesize * 8)

func init() {
	setsize.Store(1)
}

// Get returns the affinity CPU set of the task or process with the passed
// TID/PID. Otherwise, it returns an error. If tid is zero, then the affinity
// CPU set of the calling thread is returned (make sure to have the OS-level
// thread locked to the calling go routine in this case).
//
// Get doesn't use [unix.SchedGetaffinity] as this is tied to the fixed size
// [unix.CPUSet] type; instead, it dynamically figures out the size needed
// and caches the size internally.
func Get(tid int) (*bitmaps.CPUSet, error) {
	m, err := get(tid)
	if err != nil {
		return nil, err
	}
	return bitmaps.SetOf[bitmaps.CPU](m.runs().Bitmap()), nil
}

func get(tid int) (mask, error) {
	var m mask

	setlenStart := setsize.Load()
	setlen := setlenStart
	for {
		m = make(mask, setlen)
		// see also:
		// https://man7.org/linux/man-pages/man2/sched_setaffinity.2.html; we
		// use RawSyscall here instead of Syscall as we know that
		// SYS_SCHED_GETAFFINITY does not block, following Go's stdlib
		// implementation.
		_, _, e := unix.RawSyscall(unix.SYS_SCHED_GETAFFINITY,
			uintptr(tid), uintptr(setlen*wordbytesize), uintptr(unsafe.Pointer(&m[0])))
		if e != 0 {
			if e == unix.EINVAL {
				setlen *= 2
				continue
			}
			return nil, e
		}
		// Set the new size; if this fails because another go routine already
		// upped the set size, retry until we either notice that we're smaller
		// than what was set as the new set size, or we succeed in setting the
		// size.
		for {
			if setsize.CompareAndSwap(setlenStart, setlen) {
				break
			}
			setlenStart = setsize.Load()
			if setlenStart > setlen {
				break
			}
		}
		sized.Store(true)
		return m, nil
	}
}

// Set sets the CPU affinities for the specified task/process. Otherwise, it
// returns an error. It is an error trying to set no affinities. An infinite
// CPU set gets clipped to the size of the CPU masks of this system; if that
// size hasn't been discovered yet, Set discovers it first using the calling
// thread's affinities.
func Set(tid int, cpus *bitmaps.CPUSet) error {
	if cpus.IsEmpty() {
		return syscall.EINVAL
	}
	l := cpus.List()
	if l[len(l)-1][1] == bitmaps.OpenEnd && !sized.Load() {
		if _, err := get(0); err != nil {
			return err
		}
	}
	m := newMask(l, uint(setsize.Load()))
	_, _, e := unix.RawSyscall(unix.SYS_SCHED_SETAFFINITY,
		uintptr(tid), uintptr(uint64(len(m))*wordbytesize), uintptr(unsafe.Pointer(&m[0])))
	if e != 0 {
		return e
	}
	return nil
}

// newMask returns the mask for the passed (non-empty) list of CPU ranges,
// spanning at least the specified number of words. An open last range is
// clipped to the mask size.
func newMask(l bitmaps.List, words uint) mask {
	last := l[len(l)-1]
	hi := uint(last[1])
	if last[1] == bitmaps.OpenEnd {
		hi = uint(last[0])
	}
	words = max(words, hi/bitsperword+1)
	m := make(mask, words)
	for _, r := range l {
		to := uint(r[1])
		if r[1] == bitmaps.OpenEnd {
			to = words*bitsperword - 1
		}
		m.setRange(uint(r[0]), to)
	}
	return m
}

// setRange sets the bits from..to, both inclusive, which must lie within the
// mask.
func (m mask) setRange(from, to uint) {
	for wordidx := from / bitsperword; wordidx <= to/bitsperword; wordidx++ {
		word := ^uint64(0)
		if base := wordidx * bitsperword; from > base {
			word <<= from - base
		}
		if top := (wordidx+1)*bitsperword - 1; to < top {
			word &= ^uint64(0) >> (top - to)
		}
		m[wordidx] |= word
	}
}

// runs returns the list of CPU ranges corresponding with this mask.
//
// Instead of testing bit by bit, runs locates the boundaries of runs of set
// bits using trailing zero counts, thereby fast-forwarding through all-0s
// and all-1s mask words.
func (m mask) runs() bitmaps.List {
	l := bitmaps.List{}
	inrun := false
	var from uint
	for wordidx, word := range m {
		base := uint(wordidx) * bitsperword
		for bit := uint(0); bit < bitsperword; {
			if !inrun {
				// Look for the next set bit in the remaining word, if any.
				rest := word >> bit
				if rest == 0 {
					break
				}
				bit += uint(bits.TrailingZeros64(rest))
				from = base + bit
				inrun = true
				continue
			}
			// Look for the next unset bit in the remaining word; if there is
			// none, then the run continues into the next word.
			rest := ^word >> bit
			if rest == 0 {
				break
			}
			bit += uint(bits.TrailingZeros64(rest))
			l = append(l, [2]bitmaps.Index{bitmaps.Index(from), bitmaps.Index(base + bit - 1)})
			inrun = false
		}
	}
	if inrun {
		l = append(l, [2]bitmaps.Index{bitmaps.Index(from), bitmaps.Index(uint(len(m))*bitsperword - 1)})
	}
	return l
}
