// Copyright 2024 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package storage

import (
	"testing"

	"rsc.io/ordered"
)

func TestMemDB(t *testing.T) {
	TestDB(t, MemDB())
}

func TestMemDBPanic(t *testing.T) {
	db := MemDB()
	panicked := true
	func() {
		defer func() { recover() }()
		db.Panic("db broke", "key", Fmt([]byte("key")))
		panicked = false
	}()
	if !panicked {
		t.Error("Panic did not panic")
	}
}

func TestFmt(t *testing.T) {
	tests := []struct {
		data []byte
		want string
	}{
		{ordered.Encode("library.Episode", int64(7)), "(library.Episode, 7)"},
		{ordered.Encode("library.ResultSet"), "(library.ResultSet)"},
		{JSON(map[string]int{"a": 1}), `"{\"a\":1}"`},
	}
	for _, test := range tests {
		if got := Fmt(test.data); got != test.want {
			t.Errorf("Fmt(%q) = %s, want %s", test.data, got, test.want)
		}
	}
}
