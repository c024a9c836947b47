// Copyright 2024 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package eql

import (
	"io"
)

// Expr is the parsed AST of a query expression.
// The tree is immutable once constructed.
type Expr interface {
	eqlExpr() // not used; restricts Expr to types defined here.

	String() string       // returns a multi-line string representation
	print(io.Writer, int) // used for String
}

// binaryExpr is an and/or expression.
type binaryExpr struct {
	op    tokenKind // either tokenAnd or tokenOr
	left  Expr
	right Expr
	col   int // column of op; the left operand's column for implicit and
}

// notExpr is a negation.
type notExpr struct {
	expr Expr
	col  int // column of not
}

// flagExpr is a bare identifier tested as a boolean predicate.
type flagExpr struct {
	name string
	col  int
}

// cmpExpr compares a numeric field against a literal.
type cmpExpr struct {
	field string
	op    tokenKind // tokenLess, tokenLessEq, and so forth
	value float64
	col   int // column of field
}

// Indicate that all expression types implement [Expr].

func (*binaryExpr) eqlExpr() {}
func (*notExpr) eqlExpr()    {}
func (*flagExpr) eqlExpr()   {}
func (*cmpExpr) eqlExpr()    {}
