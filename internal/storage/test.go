// Copyright 2024 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package storage

import (
	"fmt"
	"slices"
	"testing"

	"rsc.io/ordered"
)

// TestDB runs basic tests on db.
// The db should be empty when TestDB is called.
func TestDB(t *testing.T, db DB) {
	db.Set([]byte("key"), []byte("value"))
	if val, ok := db.Get([]byte("key")); string(val) != "value" || ok != true {
		// unreachable except for bad db
		t.Fatalf("Get(key) = %q, %v, want %q, true", val, ok, "value")
	}
	if val, ok := db.Get([]byte("missing")); val != nil || ok != false {
		// unreachable except for bad db
		t.Fatalf("Get(missing) = %v, %v, want nil, false", val, ok)
	}

	db.Delete([]byte("key"))
	if val, ok := db.Get([]byte("key")); val != nil || ok != false {
		// unreachable except for bad db
		t.Fatalf("Get(key) after delete = %v, %v, want nil, false", val, ok)
	}
	db.Delete([]byte("key")) // deleting a missing key is not an error

	for i := range 10 {
		db.Set(ordered.Encode(i), []byte(fmt.Sprint(i)))
	}

	collect := func(min, max, stop int) []int {
		t.Helper()
		var list []int
		for key, val := range db.Scan(ordered.Encode(min), ordered.Encode(max)) {
			var i int
			if err := ordered.Decode(key, &i); err != nil {
				// unreachable except for bad db
				t.Fatalf("db.Scan malformed key %v", Fmt(key))
			}
			if sv, want := string(val()), fmt.Sprint(i); sv != want {
				// unreachable except for bad db
				t.Fatalf("db.Scan key %v val=%q, want %q", i, sv, want)
			}
			list = append(list, i)
			if i == stop {
				break
			}
		}
		return list
	}

	// Scan bounds are inclusive on both ends.
	if scan, want := collect(3, 6, -1), []int{3, 4, 5, 6}; !slices.Equal(scan, want) {
		// unreachable except for bad db
		t.Fatalf("Scan(3, 6) = %v, want %v", scan, want)
	}

	if scan, want := collect(3, 6, 5), []int{3, 4, 5}; !slices.Equal(scan, want) {
		// unreachable except for bad db
		t.Fatalf("Scan(3, 6) with break at 5 = %v, want %v", scan, want)
	}

	db.Delete(ordered.Encode(4))
	if scan, want := collect(-1, 11, -1), []int{0, 1, 2, 3, 5, 6, 7, 8, 9}; !slices.Equal(scan, want) {
		// unreachable except for bad db
		t.Fatalf("Scan(-1, 11) after Delete(4) = %v, want %v", scan, want)
	}

	// Scan to ordered.Inf covers every key with the prefix.
	if scan, want := collect2(t, db, ordered.Encode(5), ordered.Encode(ordered.Inf)), []int{5, 6, 7, 8, 9}; !slices.Equal(scan, want) {
		// unreachable except for bad db
		t.Fatalf("Scan(5, Inf) = %v, want %v", scan, want)
	}

	// Can't test much, but check that it doesn't crash.
	db.Flush()
}

func collect2(t *testing.T, db DB, start, end []byte) []int {
	t.Helper()
	var list []int
	for key := range db.Scan(start, end) {
		var i int
		if err := ordered.Decode(key, &i); err != nil {
			// unreachable except for bad db
			t.Fatalf("db.Scan malformed key %v", Fmt(key))
		}
		list = append(list, i)
	}
	return list
}
