// Copyright 2024 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package eql

import (
	"fmt"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"
)

// tokenKind is a lexical token.
type tokenKind int

const (
	tokenInvalid   tokenKind = iota
	tokenEOF                 // end of query
	tokenIdent               // flag or field name
	tokenNumber              // numeric literal
	tokenAnd                 // and
	tokenOr                  // or
	tokenNot                 // not
	tokenLess                // <
	tokenLessEq              // <=
	tokenGreater             // >
	tokenGreaterEq           // >=
	tokenEq                  // == (also spelled =)
	tokenNotEq               // !=
)

var tokenKindStrings = [...]string{
	tokenInvalid:   "invalid",
	tokenEOF:       "end of query",
	tokenIdent:     "name",
	tokenNumber:    "number",
	tokenAnd:       "and",
	tokenOr:        "or",
	tokenNot:       "not",
	tokenLess:      "<",
	tokenLessEq:    "<=",
	tokenGreater:   ">",
	tokenGreaterEq: ">=",
	tokenEq:        "==",
	tokenNotEq:     "!=",
}

// String returns the string representation of a tokenKind.
func (tk tokenKind) String() string {
	return tokenKindStrings[tk]
}

// token is a lexical token read from the query string.
type token struct {
	kind tokenKind
	col  int     // 1-based column of the first character
	text string  // only set for tokenIdent
	num  float64 // only set for tokenNumber
}

// A LexError reports a character the lexer does not recognize.
type LexError struct {
	Col  int  // 1-based column of the character
	Char rune // the offending character
}

func (e *LexError) Error() string {
	return fmt.Sprintf("column %d: unrecognized character %q", e.Col, e.Char)
}

// lexer converts a query string into a sequence of tokens.
// It reads one token at a time with a single token of pushback,
// which is all the parser needs.
type lexer struct {
	input string
	pos   int // byte offset of the next rune
	col   int // 1-based column of the next rune

	pushed      bool
	pushedToken token // valid if pushed
}

func newLexer(input string) *lexer {
	return &lexer{input: input, col: 1}
}

// nextToken returns the next token from the query.
// At the end of the input it returns tokenEOF.
func (lex *lexer) nextToken() (token, error) {
	if lex.pushed {
		lex.pushed = false
		return lex.pushedToken, nil
	}

	lex.skipWhite()
	col := lex.col

	if lex.pos >= len(lex.input) {
		return token{kind: tokenEOF, col: col}, nil
	}

	r, size := utf8.DecodeRuneInString(lex.input[lex.pos:])
	switch {
	case isIdentStart(r):
		return lex.ident(), nil

	case isDigit(r):
		return lex.number(col), nil

	case r == '<':
		lex.advance(size)
		if lex.peek() == '=' {
			lex.advance(1)
			return token{kind: tokenLessEq, col: col}, nil
		}
		return token{kind: tokenLess, col: col}, nil

	case r == '>':
		lex.advance(size)
		if lex.peek() == '=' {
			lex.advance(1)
			return token{kind: tokenGreaterEq, col: col}, nil
		}
		return token{kind: tokenGreater, col: col}, nil

	case r == '=':
		lex.advance(size)
		if lex.peek() == '=' {
			lex.advance(1)
		}
		// A bare = is a synonym for ==.
		return token{kind: tokenEq, col: col}, nil

	case r == '!':
		if lex.pos+size < len(lex.input) && lex.input[lex.pos+size] == '=' {
			lex.advance(size)
			lex.advance(1)
			return token{kind: tokenNotEq, col: col}, nil
		}
		return token{}, &LexError{Col: col, Char: r}

	default:
		return token{}, &LexError{Col: col, Char: r}
	}
}

// pushToken pushes a token so that it is the next one returned.
func (lex *lexer) pushToken(tok token) {
	if lex.pushed {
		panic("double pushToken")
	}
	lex.pushed = true
	lex.pushedToken = tok
}

// ident collects an identifier and folds the boolean keywords.
func (lex *lexer) ident() token {
	col := lex.col
	start := lex.pos
	for lex.pos < len(lex.input) {
		r, size := utf8.DecodeRuneInString(lex.input[lex.pos:])
		if !isIdentStart(r) && !isDigit(r) {
			break
		}
		lex.advance(size)
	}
	text := lex.input[start:lex.pos]

	switch strings.ToLower(text) {
	case "and":
		return token{kind: tokenAnd, col: col}
	case "or":
		return token{kind: tokenOr, col: col}
	case "not":
		return token{kind: tokenNot, col: col}
	}
	return token{kind: tokenIdent, col: col, text: text}
}

// number collects a numeric literal: a run of digits with at most
// one decimal point. A second dot ends the literal.
func (lex *lexer) number(col int) token {
	start := lex.pos
	sawDot := false
	for lex.pos < len(lex.input) {
		c := lex.input[lex.pos]
		if c == '.' {
			if sawDot {
				break
			}
			sawDot = true
		} else if !isDigit(rune(c)) {
			break
		}
		lex.advance(1)
	}

	// The literal always starts with a digit, so this cannot fail.
	val, err := strconv.ParseFloat(lex.input[start:lex.pos], 64)
	if err != nil {
		panic("can't happen")
	}
	return token{kind: tokenNumber, col: col, num: val}
}

// skipWhite skips whitespace.
func (lex *lexer) skipWhite() {
	for lex.pos < len(lex.input) {
		r, size := utf8.DecodeRuneInString(lex.input[lex.pos:])
		if !unicode.IsSpace(r) {
			return
		}
		lex.advance(size)
	}
}

// peek returns the next byte without consuming it, or 0 at the end.
func (lex *lexer) peek() byte {
	if lex.pos >= len(lex.input) {
		return 0
	}
	return lex.input[lex.pos]
}

// advance advances past size bytes of one rune.
func (lex *lexer) advance(size int) {
	lex.pos += size
	lex.col++
}

// isDigit reports whether r is a digit.
func isDigit(r rune) bool {
	return r >= '0' && r <= '9'
}

// isIdentStart reports whether r can start an identifier.
func isIdentStart(r rune) bool {
	return r == '_' || unicode.IsLetter(r)
}
