// Copyright 2024 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package eql

import (
	"fmt"
)

// A ParseError reports a malformed token sequence, with the column of
// the unexpected token and a description of what would have been
// accepted in its place.
type ParseError struct {
	Col      int
	Expected string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("column %d: expected %s", e.Col, e.Expected)
}

// Parse parses a query into an [Expr].
//
// The grammar, loosest-binding first:
//
//	expr       = or ;
//	or         = and, { "or", and } ;
//	and        = unary, { [ "and" ], unary } ;
//	unary      = "not", unary | comparison | flag ;
//	comparison = name, cmpop, number ;
//	flag       = name ;
//
// Adjacent unary expressions with no connective are an implicit and.
func Parse(query string) (Expr, error) {
	lex := newLexer(query)

	expr, err := parseOr(lex)
	if err != nil {
		return nil, err
	}

	tok, err := lex.nextToken()
	if err != nil {
		return nil, err
	}
	if tok.kind != tokenEOF {
		return nil, &ParseError{Col: tok.col, Expected: "and, or, or end of query"}
	}
	return expr, nil
}

// parseOr parses a disjunction.
// or = and, { "or", and } ;
func parseOr(lex *lexer) (Expr, error) {
	left, err := parseAnd(lex)
	if err != nil {
		return nil, err
	}

	for {
		tok, err := lex.nextToken()
		if err != nil {
			return nil, err
		}
		if tok.kind != tokenOr {
			lex.pushToken(tok)
			return left, nil
		}

		right, err := parseAnd(lex)
		if err != nil {
			return nil, err
		}
		left = &binaryExpr{op: tokenOr, left: left, right: right, col: tok.col}
	}
}

// parseAnd parses a conjunction. Besides the explicit "and" keyword,
// two adjacent terms form an implicit conjunction, so that a query
// reads as a natural-language list of conditions.
// and = unary, { [ "and" ], unary } ;
func parseAnd(lex *lexer) (Expr, error) {
	left, err := parseUnary(lex)
	if err != nil {
		return nil, err
	}

	for {
		tok, err := lex.nextToken()
		if err != nil {
			return nil, err
		}

		switch tok.kind {
		case tokenAnd:
			// Explicit and.
		case tokenIdent, tokenNot:
			// Implicit and: the token starts the next term.
			lex.pushToken(tok)
		default:
			lex.pushToken(tok)
			return left, nil
		}

		right, err := parseUnary(lex)
		if err != nil {
			return nil, err
		}
		left = &binaryExpr{op: tokenAnd, left: left, right: right, col: tok.col}
	}
}

// parseUnary parses a possibly-negated term. Chained negation is
// right-associative.
// unary = "not", unary | comparison | flag ;
func parseUnary(lex *lexer) (Expr, error) {
	tok, err := lex.nextToken()
	if err != nil {
		return nil, err
	}
	if tok.kind == tokenNot {
		sub, err := parseUnary(lex)
		if err != nil {
			return nil, err
		}
		return &notExpr{expr: sub, col: tok.col}, nil
	}
	lex.pushToken(tok)
	return parsePrimary(lex)
}

// parsePrimary parses a comparison or a bare flag. The parser does
// not yet know whether the name is a flag or a numeric field; that is
// resolved against the vocabulary during evaluation.
func parsePrimary(lex *lexer) (Expr, error) {
	tok, err := lex.nextToken()
	if err != nil {
		return nil, err
	}
	if tok.kind != tokenIdent {
		return nil, &ParseError{Col: tok.col, Expected: "a flag or field name"}
	}

	ntok, err := lex.nextToken()
	if err != nil {
		return nil, err
	}

	switch ntok.kind {
	case tokenLess, tokenLessEq, tokenGreater, tokenGreaterEq, tokenEq, tokenNotEq:
		num, err := lex.nextToken()
		if err != nil {
			return nil, err
		}
		if num.kind != tokenNumber {
			return nil, &ParseError{Col: num.col, Expected: fmt.Sprintf("a number after %s", ntok.kind)}
		}
		return &cmpExpr{field: tok.text, op: ntok.kind, value: num.num, col: tok.col}, nil

	default:
		lex.pushToken(ntok)
		return &flagExpr{name: tok.text, col: tok.col}, nil
	}
}
