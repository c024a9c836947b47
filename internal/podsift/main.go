// Copyright 2024 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Podsift manages a library of podcast episodes and runs episode
// queries against it.
//
// A query is a boolean expression over episode attributes:
//
//	podsift query 'video and not downloaded and mb < 10'
//
// The matching episodes become the active result set, which the
// apply command operates on:
//
//	podsift apply mark old
//	podsift apply rm
//	podsift apply fetch
//
// See the eql package for the query language.
package main

import (
	"context"
	"os"
)

func main() {
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		os.Exit(1)
	}
}
