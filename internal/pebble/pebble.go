// Copyright 2024 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package pebble implements [storage.DB] using the pebble
// key-value database, for durable podcast libraries.
package pebble

import (
	"bytes"
	"errors"
	"iter"
	"log/slog"
	"os"

	"github.com/cockroachdb/pebble"
	"github.com/podsift/podsift/internal/storage"
)

// A db is a [storage.DB] backed by an on-disk pebble database.
type db struct {
	slog *slog.Logger
	path string
	p    *pebble.DB
}

// Create creates a new pebble database in the named directory,
// which must not exist.
func Create(lg *slog.Logger, path string) (storage.DB, error) {
	if _, err := os.Stat(path); err == nil {
		return nil, &os.PathError{Op: "create", Path: path, Err: os.ErrExist}
	}
	return open(lg, path)
}

// Open opens the existing pebble database in the named directory.
func Open(lg *slog.Logger, path string) (storage.DB, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, err
	}
	return open(lg, path)
}

func open(lg *slog.Logger, path string) (storage.DB, error) {
	p, err := pebble.Open(path, &pebble.Options{})
	if err != nil {
		return nil, err
	}
	return &db{slog: lg, path: path, p: p}, nil
}

func (d *db) Panic(msg string, args ...any) {
	d.slog.Error(msg, args...)
	panic(msg)
}

func (d *db) Get(key []byte) (val []byte, ok bool) {
	v, closer, err := d.p.Get(key)
	if err != nil {
		if errors.Is(err, pebble.ErrNotFound) {
			return nil, false
		}
		// unreachable unless pebble fails
		d.Panic("pebble get", "key", storage.Fmt(key), "err", err)
	}
	val = bytes.Clone(v)
	if err := closer.Close(); err != nil {
		// unreachable unless pebble fails
		d.Panic("pebble get close", "key", storage.Fmt(key), "err", err)
	}
	return val, true
}

func (d *db) Set(key, val []byte) {
	if err := d.p.Set(key, val, pebble.Sync); err != nil {
		// unreachable unless pebble fails
		d.Panic("pebble set", "key", storage.Fmt(key), "err", err)
	}
}

func (d *db) Delete(key []byte) {
	if err := d.p.Delete(key, pebble.Sync); err != nil {
		// unreachable unless pebble fails
		d.Panic("pebble delete", "key", storage.Fmt(key), "err", err)
	}
}

// Scan returns an iterator over all key-value pairs with start ≤ key ≤ end.
// Pebble's iterator bound is exclusive, so the upper bound is end
// extended by a zero byte, the smallest key greater than end.
func (d *db) Scan(start, end []byte) iter.Seq2[[]byte, func() []byte] {
	return func(yield func([]byte, func() []byte) bool) {
		upper := append(bytes.Clone(end), 0)
		it, err := d.p.NewIter(&pebble.IterOptions{LowerBound: start, UpperBound: upper})
		if err != nil {
			// unreachable unless pebble fails
			d.Panic("pebble scan", "start", storage.Fmt(start), "end", storage.Fmt(end), "err", err)
		}
		defer it.Close()
		for it.First(); it.Valid(); it.Next() {
			key := bytes.Clone(it.Key())
			val := func() []byte { return bytes.Clone(it.Value()) }
			if !yield(key, val) {
				return
			}
		}
		if err := it.Error(); err != nil {
			// unreachable unless pebble fails
			d.Panic("pebble scan iter", "err", err)
		}
	}
}

func (d *db) Flush() {
	if err := d.p.Flush(); err != nil {
		// unreachable unless pebble fails
		d.Panic("pebble flush", "err", err)
	}
}

func (d *db) Close() {
	d.Flush()
	if err := d.p.Close(); err != nil {
		// unreachable unless pebble fails
		d.Panic("pebble close", "err", err)
	}
}
