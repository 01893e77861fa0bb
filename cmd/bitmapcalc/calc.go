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

package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/grailbio/base/log"
	"github.com/thediveo/bitmaps"
)

// operator combines the right-hand bitmap into the left-hand bitmap.
type operator func(lhs, rhs *bitmaps.Bitmap) *bitmaps.Bitmap

var operators = map[string]operator{
	"and":    (*bitmaps.Bitmap).InPlaceAnd,
	"&":      (*bitmaps.Bitmap).InPlaceAnd,
	"or":     (*bitmaps.Bitmap).InPlaceOr,
	"|":      (*bitmaps.Bitmap).InPlaceOr,
	"xor":    (*bitmaps.Bitmap).InPlaceXor,
	"^":      (*bitmaps.Bitmap).InPlaceXor,
	"andnot": (*bitmaps.Bitmap).InPlaceAndNot,
	"~":      (*bitmaps.Bitmap).InPlaceAndNot,
}

func isNot(token string) bool { return token == "not" || token == "!" }

// calculator evaluates expressions over bitmaps from left to right, without
// any operator precedence. Operands without an operator in between are
// or-ed.
type calculator struct {
	self func() (*bitmaps.Bitmap, error) // returns the affinity of this process
}

// operand returns a new bitmap for the passed operand token.
func (c *calculator) operand(token string) (*bitmaps.Bitmap, error) {
	switch token {
	case "all":
		return bitmaps.Full(), nil
	case "none":
		return bitmaps.New(), nil
	case "self":
		if c.self == nil {
			return nil, errors.New("self is unavailable")
		}
		return c.self()
	}
	b, err := bitmaps.Parse(token)
	if err != nil {
		return nil, fmt.Errorf("invalid operand %q: %w", token, err)
	}
	return b, nil
}

// Evaluate returns the bitmap resulting from the passed expression, where
// each argument may consist of one or more whitespace-separated tokens.
func (c *calculator) Evaluate(args []string) (*bitmaps.Bitmap, error) {
	var tokens []string
	for _, arg := range args {
		tokens = append(tokens, strings.Fields(arg)...)
	}
	if len(tokens) == 0 {
		return nil, errors.New("empty expression")
	}
	result := bitmaps.New()
	opname, op := "or", operators["or"]
	negate := false
	operandExpected := true
	for _, token := range tokens {
		if isNot(token) {
			negate = !negate
			operandExpected = true
			continue
		}
		if o, ok := operators[token]; ok {
			if operandExpected {
				result.Close()
				return nil, fmt.Errorf("unexpected operator %q", token)
			}
			opname, op = token, o
			operandExpected = true
			continue
		}
		rhs, err := c.operand(token)
		if err != nil {
			result.Close()
			return nil, err
		}
		if negate {
			rhs.Invert()
		}
		log.Debug.Printf("%s %s %s", result, opname, rhs)
		op(result, rhs)
		rhs.Close()
		log.Debug.Printf("= %s", result)
		opname, op = "or", operators["or"]
		negate = false
		operandExpected = false
	}
	if operandExpected {
		result.Close()
		return nil, fmt.Errorf("missing operand after %q", tokens[len(tokens)-1])
	}
	return result, nil
}

// format renders the bitmap in textual list format, prefixed according to
// the specified kind of set.
func format(b *bitmaps.Bitmap, kind string) (string, error) {
	switch kind {
	case "", "bitmap":
		return b.String(), nil
	case "cpuset":
		return bitmaps.SetOf[bitmaps.CPU](b).String(), nil
	case "nodeset":
		return bitmaps.SetOf[bitmaps.Node](b).String(), nil
	}
	return "", fmt.Errorf("unknown kind %q", kind)
}
