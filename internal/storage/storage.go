// Copyright 2024 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package storage defines the key-value database interface used to
// hold the podcast library, along with an in-memory implementation.
// Keys are encoded with [rsc.io/ordered], which makes composite keys
// scan in a useful order.
package storage

import (
	"bytes"
	"encoding/json"
	"fmt"
	"iter"
	"log/slog"
	"strconv"
	"strings"
	"sync"

	"rsc.io/omap"
	"rsc.io/ordered"
)

// A DB is a key-value database with ordered scans.
type DB interface {
	// Get returns the value associated with the key.
	Get(key []byte) (val []byte, ok bool)

	// Set sets the value associated with key to val.
	Set(key, val []byte)

	// Delete deletes any value associated with key.
	// It is not an error to delete a key with no value.
	Delete(key []byte)

	// Scan returns an iterator over all key-value pairs with
	// start ≤ key ≤ end, in key order. The value is returned by a
	// function so that scans that only need keys avoid the fetch.
	Scan(start, end []byte) iter.Seq2[[]byte, func() []byte]

	// Flush flushes changes to permanent storage.
	Flush()

	// Close flushes and closes the database.
	// A DB must not be used after Close.
	Close()

	// Panic logs the message and args and then panics.
	// It is called for database corruption and other problems that
	// the caller cannot be expected to handle.
	Panic(msg string, args ...any)
}

// MemDB returns an in-memory DB implementation,
// for tests and for one-shot runs that keep no state on disk.
func MemDB() DB {
	return new(memDB)
}

// memDB is the in-memory DB. Keys are stored as strings in an
// ordered map, which gives the same scan order as the byte keys.
type memDB struct {
	mu sync.RWMutex
	m  omap.Map[string, []byte]
}

func (db *memDB) Get(key []byte) ([]byte, bool) {
	db.mu.RLock()
	defer db.mu.RUnlock()

	val, ok := db.m.Get(string(key))
	if !ok {
		return nil, false
	}
	return bytes.Clone(val), true
}

func (db *memDB) Set(key, val []byte) {
	db.mu.Lock()
	defer db.mu.Unlock()

	db.m.Set(string(key), bytes.Clone(val))
}

func (db *memDB) Delete(key []byte) {
	db.mu.Lock()
	defer db.mu.Unlock()

	db.m.Delete(string(key))
}

func (db *memDB) Scan(start, end []byte) iter.Seq2[[]byte, func() []byte] {
	return func(yield func([]byte, func() []byte) bool) {
		db.mu.RLock()
		defer db.mu.RUnlock()

		for key, val := range db.m.Scan(string(start), string(end)) {
			if !yield([]byte(key), func() []byte { return bytes.Clone(val) }) {
				return
			}
		}
	}
}

func (db *memDB) Flush() {}

func (db *memDB) Close() {}

func (db *memDB) Panic(msg string, args ...any) {
	slog.Error(msg, args...)
	panic(msg)
}

// Fmt formats a database key or value for display.
// Keys encoded with [rsc.io/ordered] print as a parenthesized list of
// their parts; anything else prints as a quoted string.
func Fmt(data []byte) string {
	if parts, err := ordered.DecodeAny(data); err == nil {
		var sb strings.Builder
		sb.WriteString("(")
		for i, part := range parts {
			if i > 0 {
				sb.WriteString(", ")
			}
			fmt.Fprintf(&sb, "%v", part)
		}
		sb.WriteString(")")
		return sb.String()
	}
	return strconv.QuoteToASCII(string(data))
}

// JSON formats v as JSON for storing as a value, panicking on error:
// the stored types marshal without surprises, so an error is a bug.
func JSON(v any) []byte {
	data, err := json.Marshal(v)
	if err != nil {
		panic(fmt.Sprintf("storage.JSON: %v", err))
	}
	return data
}
