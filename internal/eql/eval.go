// Copyright 2024 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package eql

import (
	"fmt"
	"maps"
	"slices"
	"strings"
)

// Kind is the kind of an episode attribute.
type Kind int

const (
	KindFlag    Kind = iota // boolean, tested bare
	KindNumeric             // numeric, used in comparisons
)

// String returns the string representation of a Kind.
func (k Kind) String() string {
	switch k {
	case KindFlag:
		return "flag"
	case KindNumeric:
		return "numeric field"
	default:
		panic("can't happen")
	}
}

// An Attr describes one queryable attribute: its canonical name, its
// kind, and an accessor for the kind. Exactly one of Flag and Num is
// set, matching Kind.
type Attr[T any] struct {
	Name string // canonical name
	Kind Kind
	Flag func(T) bool
	Num  func(T) float64
}

// A Vocab is the fixed mapping from every accepted attribute spelling
// (canonical names and synonyms, lower case) to its descriptor.
// It is built once at program start and never mutated.
type Vocab[T any] map[string]Attr[T]

// Resolve maps a name from a query to its attribute descriptor.
// Lookup is case-insensitive.
func (v Vocab[T]) Resolve(name string) (Attr[T], error) {
	attr, ok := v[strings.ToLower(name)]
	if !ok {
		return Attr[T]{}, &UnknownFieldError{Name: name, Nearest: v.nearest(name)}
	}
	return attr, nil
}

// nearest returns the known spellings closest to name, for an
// [UnknownFieldError] suggestion. The result is deterministic:
// candidates are considered in sorted order.
func (v Vocab[T]) nearest(name string) []string {
	name = strings.ToLower(name)
	best := 3 // ignore anything at this distance or further
	var nearest []string
	for _, known := range slices.Sorted(maps.Keys(v)) {
		switch d := editDistance(name, known); {
		case d < best:
			best, nearest = d, []string{known}
		case d == best && nearest != nil:
			nearest = append(nearest, known)
		}
	}
	return nearest
}

// editDistance returns the Levenshtein distance between a and b.
func editDistance(a, b string) int {
	prev := make([]int, len(b)+1)
	cur := make([]int, len(b)+1)
	for j := range prev {
		prev[j] = j
	}
	for i := 1; i <= len(a); i++ {
		cur[0] = i
		for j := 1; j <= len(b); j++ {
			cost := 1
			if a[i-1] == b[j-1] {
				cost = 0
			}
			cur[j] = min(prev[j]+1, cur[j-1]+1, prev[j-1]+cost)
		}
		prev, cur = cur, prev
	}
	return prev[len(b)]
}

// An UnknownFieldError reports a name that does not match any
// recognized flag or field.
type UnknownFieldError struct {
	Name    string
	Nearest []string // nearest known spellings, possibly empty
}

func (e *UnknownFieldError) Error() string {
	msg := fmt.Sprintf("unknown field %q", e.Name)
	switch len(e.Nearest) {
	case 0:
		return msg
	case 1:
		return fmt.Sprintf("%s (did you mean %q?)", msg, e.Nearest[0])
	default:
		return fmt.Sprintf("%s (did you mean %q or %q?)", msg, e.Nearest[0], e.Nearest[1])
	}
}

// A TypeMismatchError reports an attribute used against its kind:
// a boolean flag in a numeric comparison, or a numeric field tested
// as a bare flag.
type TypeMismatchError struct {
	Name string
	Kind Kind // the attribute's actual kind
}

func (e *TypeMismatchError) Error() string {
	switch e.Kind {
	case KindFlag:
		return fmt.Sprintf("%q is a flag and cannot be compared to a number", e.Name)
	case KindNumeric:
		return fmt.Sprintf("%q is a numeric field and must be used in a comparison", e.Name)
	default:
		panic("can't happen")
	}
}

// Evaluator takes an [Expr] and a vocabulary and returns a function
// that reports whether a value matches the expression.
//
// Names are resolved against the vocabulary the first time their node
// is evaluated, and the resolution is cached for the lifetime of the
// returned function. A resolution failure is reported as an
// [UnknownFieldError] or [TypeMismatchError] and is fatal to the
// whole query: callers must discard the result set. Because and/or
// short-circuit, a node that is never reached is never resolved.
func Evaluator[T any](e Expr, vocab Vocab[T]) func(T) (bool, error) {
	ev := eval[T]{vocab: vocab}
	return ev.expr(e)
}

// eval manages constructing an evaluator function for an [Expr].
type eval[T any] struct {
	vocab Vocab[T]
}

// expr returns an evaluator function for an [Expr].
func (ev *eval[T]) expr(e Expr) func(T) (bool, error) {
	switch e := e.(type) {
	case *binaryExpr:
		return ev.binary(e)
	case *notExpr:
		return ev.not(e)
	case *flagExpr:
		return ev.flag(e)
	case *cmpExpr:
		return ev.cmp(e)
	default:
		panic("can't happen")
	}
}

// binary returns an evaluator function for a [binaryExpr].
// Both operators short-circuit.
func (ev *eval[T]) binary(e *binaryExpr) func(T) (bool, error) {
	left := ev.expr(e.left)
	right := ev.expr(e.right)
	switch e.op {
	case tokenAnd:
		return func(v T) (bool, error) {
			ok, err := left(v)
			if err != nil || !ok {
				return false, err
			}
			return right(v)
		}
	case tokenOr:
		return func(v T) (bool, error) {
			ok, err := left(v)
			if err != nil || ok {
				return ok, err
			}
			return right(v)
		}
	default:
		panic("can't happen")
	}
}

// not returns an evaluator function for a [notExpr].
func (ev *eval[T]) not(e *notExpr) func(T) (bool, error) {
	sub := ev.expr(e.expr)
	return func(v T) (bool, error) {
		ok, err := sub(v)
		if err != nil {
			return false, err
		}
		return !ok, nil
	}
}

// flag returns an evaluator function for a [flagExpr].
func (ev *eval[T]) flag(e *flagExpr) func(T) (bool, error) {
	var (
		attr     Attr[T]
		err      error
		resolved bool
	)
	return func(v T) (bool, error) {
		if !resolved {
			resolved = true
			attr, err = ev.vocab.Resolve(e.name)
			if err == nil && attr.Kind != KindFlag {
				err = &TypeMismatchError{Name: e.name, Kind: attr.Kind}
			}
		}
		if err != nil {
			return false, err
		}
		return attr.Flag(v), nil
	}
}

// cmp returns an evaluator function for a [cmpExpr].
// Equality is exact floating-point equality.
func (ev *eval[T]) cmp(e *cmpExpr) func(T) (bool, error) {
	var (
		attr     Attr[T]
		err      error
		resolved bool
	)
	return func(v T) (bool, error) {
		if !resolved {
			resolved = true
			attr, err = ev.vocab.Resolve(e.field)
			if err == nil && attr.Kind != KindNumeric {
				err = &TypeMismatchError{Name: e.field, Kind: attr.Kind}
			}
		}
		if err != nil {
			return false, err
		}
		val := attr.Num(v)
		switch e.op {
		case tokenLess:
			return val < e.value, nil
		case tokenLessEq:
			return val <= e.value, nil
		case tokenGreater:
			return val > e.value, nil
		case tokenGreaterEq:
			return val >= e.value, nil
		case tokenEq:
			return val == e.value, nil
		case tokenNotEq:
			return val != e.value, nil
		default:
			panic("can't happen")
		}
	}
}
