// Copyright 2024 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package eql implements the episode query language, a small boolean
// expression language used to filter a podcast library.
//
// A query is a boolean combination of flag tests and numeric
// comparisons over a fixed episode vocabulary:
//
//	video and not downloaded and mb < 10
//	audio minutes < 30
//	new or since < 7
//
// The keywords and, or and not are case-insensitive. Writing two
// terms next to each other with no connective means "and", so the
// second example is equivalent to "audio and minutes < 30".
// "and" binds tighter than "or", and "not" binds tighter than both.
//
// Comparisons accept <, <=, >, >=, ==, and !=; a bare = is accepted
// as a synonym for ==. The left side of a comparison must name a
// numeric field and the right side must be a numeric literal.
//
// The recognized flags and fields are supplied by a [Vocab], which
// maps every accepted spelling to an attribute descriptor. Lookup is
// case-insensitive. Using a flag in a comparison, or a numeric field
// as a bare flag, is a [TypeMismatchError]; an unrecognized name is
// an [UnknownFieldError].
package eql
