// Copyright 2024 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package episode

import "github.com/podsift/podsift/internal/eql"

// Vocab returns the query vocabulary for episode snapshots.
// The table is the language's entire standard library: every flag and
// numeric field a query may name, with its synonyms. It is built once
// at program start and never mutated.
func Vocab() eql.Vocab[Snapshot] {
	return vocab
}

var vocab = func() eql.Vocab[Snapshot] {
	v := eql.Vocab[Snapshot]{}
	flag := func(get func(Snapshot) bool, names ...string) {
		a := eql.Attr[Snapshot]{Name: names[0], Kind: eql.KindFlag, Flag: get}
		for _, n := range names {
			v[n] = a
		}
	}
	num := func(get func(Snapshot) float64, names ...string) {
		a := eql.Attr[Snapshot]{Name: names[0], Kind: eql.KindNumeric, Num: get}
		for _, n := range names {
			v[n] = a
		}
	}

	flag(func(s Snapshot) bool { return s.Video }, "video")
	flag(func(s Snapshot) bool { return s.Audio }, "audio")
	flag(func(s Snapshot) bool { return s.Downloaded }, "downloaded", "dl")
	flag(func(s Snapshot) bool { return s.New }, "new")
	flag(func(s Snapshot) bool { return !s.New }, "old")
	flag(func(s Snapshot) bool { return s.Archived }, "archived", "archive", "keep")

	num(func(s Snapshot) float64 { return s.MB }, "mb", "size", "megabytes")
	num(func(s Snapshot) float64 { return s.Minutes }, "minutes", "duration", "min")
	num(func(s Snapshot) float64 { return s.Age }, "age", "days")
	num(func(s Snapshot) float64 { return s.Since }, "since")

	return v
}()
