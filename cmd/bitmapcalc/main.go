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

// Bitmapcalc evaluates expressions over sets of indices, such as CPU or
// memory node numbers, and prints the resulting set in textual list format.
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/grailbio/base/log"
	"github.com/thediveo/bitmaps"
	"github.com/thediveo/bitmaps/affinity"
)

func main() {
	kind := flag.String("kind", "bitmap", "kind of set to print: bitmap, cpuset, or nodeset")
	weight := flag.Bool("weight", false, "print the number of indices instead of the set")
	first := flag.Bool("first", false, "print the lowest index instead of the set")
	singlify := flag.Bool("singlify", false, "reduce the set to its lowest index")
	log.AddFlags()

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, `usage: bitmapcalc [flags] expression...

Bitmapcalc evaluates the expression from left to right and prints the
resulting set of indices. Operands are lists such as "0-3,8,10-", as well
as "all", "none", and "self" (the CPU affinity of bitmapcalc itself).
Operators are "and", "or", "xor", "andnot", and the prefix "not";
operands without an operator in between are or-ed.

flags:
`)
		flag.PrintDefaults()
		os.Exit(2)
	}
	flag.Parse()

	calc := &calculator{self: func() (*bitmaps.Bitmap, error) {
		cpus, err := affinity.Get(0)
		if err != nil {
			return nil, fmt.Errorf("cannot determine affinity: %w", err)
		}
		return cpus.Bitmap(), nil
	}}
	result, err := calc.Evaluate(flag.Args())
	if err != nil {
		log.Fatalf("bitmapcalc: %v", err)
	}
	defer result.Close()
	if *singlify {
		result.Singlify()
	}

	switch {
	case *weight:
		w, finite := result.Weight()
		if !finite {
			fmt.Println("infinite")
			return
		}
		fmt.Println(w)
	case *first:
		idx, ok := result.FirstSet()
		if !ok {
			fmt.Println("none")
			return
		}
		fmt.Println(idx)
	default:
		s, err := format(result, *kind)
		if err != nil {
			log.Fatalf("bitmapcalc: %v", err)
		}
		fmt.Println(s)
	}
}
