// Copyright 2024 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package eql

import (
	"fmt"
	"io"
	"strconv"
	"strings"
)

// String returns a string representation.
func (e *binaryExpr) String() string { return exprString(e) }
func (e *notExpr) String() string    { return exprString(e) }
func (e *flagExpr) String() string   { return exprString(e) }
func (e *cmpExpr) String() string    { return exprString(e) }

// exprString returns the string representation of an Expr.
func exprString(e Expr) string {
	var sb strings.Builder
	e.print(&sb, 0)
	return sb.String()
}

// print prints an indented representation to w.
func (e *binaryExpr) print(w io.Writer, indent int) {
	fmt.Fprintf(w, "%*s", indent, "")
	switch e.op {
	case tokenAnd:
		io.WriteString(w, "conjunction\n")
	case tokenOr:
		io.WriteString(w, "disjunction\n")
	default:
		panic("can't happen")
	}
	e.left.print(w, indent+2)
	e.right.print(w, indent+2)
}

// print prints an indented representation to w.
func (e *notExpr) print(w io.Writer, indent int) {
	fmt.Fprintf(w, "%*snot\n", indent, "")
	e.expr.print(w, indent+2)
}

// print prints an indented representation to w.
func (e *flagExpr) print(w io.Writer, indent int) {
	fmt.Fprintf(w, "%*s%s\n", indent, "", e.name)
}

// print prints an indented representation to w.
func (e *cmpExpr) print(w io.Writer, indent int) {
	fmt.Fprintf(w, "%*scompare %s\n", indent, "", tokenKindStrings[e.op])
	fmt.Fprintf(w, "%*s%s\n", indent+2, "", e.field)
	fmt.Fprintf(w, "%*s%s\n", indent+2, "", strconv.FormatFloat(e.value, 'g', -1, 64))
}
