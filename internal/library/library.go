// Copyright 2024 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package library stores the podcast episode collection in a
// [storage.DB] and evaluates episode queries against it.
//
// The library stores each episode as JSON under the key
// ("library.Episode", id), so a database scan yields episodes in
// insertion order. The most recent query's result set is stored
// under ("library.ResultSet").
package library

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"iter"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"rsc.io/ordered"

	"github.com/podsift/podsift/internal/apply"
	"github.com/podsift/podsift/internal/episode"
	"github.com/podsift/podsift/internal/eql"
	"github.com/podsift/podsift/internal/queue"
	"github.com/podsift/podsift/internal/storage"
)

// ErrNoResultSet is returned by [Library.ResultSet] when no query has
// stored a result set yet.
var ErrNoResultSet = errors.New("no active result set")

// ErrNotFound is returned when an episode ID is not in the library.
var ErrNotFound = errors.New("episode not found")

const (
	episodeKind   = "library.Episode"
	nextIDKind    = "library.NextID"
	resultSetKind = "library.ResultSet"
)

// A Library is the collection of episodes under management.
type Library struct {
	slog  *slog.Logger
	db    storage.DB
	queue queue.Queue
	dir   string // download directory

	now func() time.Time // for tests
}

// New returns a Library backed by db.
// Downloaded media files live in dir, and downloads are scheduled
// on q. q may be nil if no fetch action will be applied.
func New(lg *slog.Logger, db storage.DB, q queue.Queue, dir string) *Library {
	return &Library{
		slog:  lg,
		db:    db,
		queue: q,
		dir:   dir,
		now:   time.Now,
	}
}

// Add stores a new episode and returns its assigned ID.
// Any ID already set on ep is overwritten.
func (l *Library) Add(ep *episode.Episode) int64 {
	id := int64(1)
	if val, ok := l.db.Get(ordered.Encode(nextIDKind)); ok {
		if err := ordered.Decode(val, &id); err != nil {
			// unreachable except for db corruption
			l.db.Panic("library next ID decode", "val", storage.Fmt(val), "err", err)
		}
	}
	l.db.Set(ordered.Encode(nextIDKind), ordered.Encode(id+1))

	ep.ID = id
	l.set(ep)
	l.slog.Debug("library add", "id", id, "title", ep.Title)
	return id
}

// set writes ep under its episode key.
func (l *Library) set(ep *episode.Episode) {
	l.db.Set(ordered.Encode(episodeKind, ep.ID), storage.JSON(ep))
}

// Get returns the episode with the given ID.
func (l *Library) Get(id int64) (*episode.Episode, error) {
	val, ok := l.db.Get(ordered.Encode(episodeKind, id))
	if !ok {
		return nil, fmt.Errorf("%w: %d", ErrNotFound, id)
	}
	return l.decode(ordered.Encode(episodeKind, id), val), nil
}

func (l *Library) decode(key, val []byte) *episode.Episode {
	var ep episode.Episode
	if err := json.Unmarshal(val, &ep); err != nil {
		// unreachable except for db corruption
		l.db.Panic("library episode decode", "key", storage.Fmt(key), "err", err)
	}
	return &ep
}

// Episodes returns an iterator over all episodes in ID order.
func (l *Library) Episodes() iter.Seq[*episode.Episode] {
	return func(yield func(*episode.Episode) bool) {
		start := ordered.Encode(episodeKind)
		end := ordered.Encode(episodeKind, ordered.Inf)
		for key, val := range l.db.Scan(start, end) {
			if !yield(l.decode(key, val())) {
				return
			}
		}
	}
}

// Select evaluates expr against every episode and returns the IDs of
// the matching ones, in library order. All episodes are evaluated
// against snapshots taken with a single clock reading, so that
// time-derived fields are consistent across the batch.
//
// A resolution error (unknown field, type mismatch) aborts the whole
// query: Select returns the error and no result set.
func (l *Library) Select(expr eql.Expr) ([]int64, error) {
	match := eql.Evaluator(expr, episode.Vocab())
	now := l.now()

	var ids []int64
	for ep := range l.Episodes() {
		ok, err := match(ep.Snapshot(now))
		if err != nil {
			return nil, err
		}
		if ok {
			ids = append(ids, ep.ID)
		}
	}
	return ids, nil
}

// SaveResultSet stores ids as the active result set,
// replacing any previous one.
func (l *Library) SaveResultSet(ids []int64) {
	if ids == nil {
		ids = []int64{}
	}
	l.db.Set(ordered.Encode(resultSetKind), storage.JSON(ids))
	l.db.Flush()
}

// ResultSet returns the active result set, or [ErrNoResultSet]
// if no query has stored one.
func (l *Library) ResultSet() ([]int64, error) {
	val, ok := l.db.Get(ordered.Encode(resultSetKind))
	if !ok {
		return nil, ErrNoResultSet
	}
	var ids []int64
	if err := json.Unmarshal(val, &ids); err != nil {
		// unreachable except for db corruption
		l.db.Panic("library result set decode", "err", err)
	}
	return ids, nil
}

// Snapshot returns the attribute snapshot for one episode.
func (l *Library) Snapshot(id int64) (episode.Snapshot, error) {
	ep, err := l.Get(id)
	if err != nil {
		return episode.Snapshot{}, err
	}
	return ep.Snapshot(l.now()), nil
}

// SetNew marks the episode as new or old. Marking an episode that is
// already in the requested state is a precondition skip, so repeated
// marks are idempotent and never fail.
func (l *Library) SetNew(id int64, isNew bool) error {
	ep, err := l.Get(id)
	if err != nil {
		return err
	}
	if ep.IsNew == isNew {
		if isNew {
			return apply.Skip("already new")
		}
		return apply.Skip("already old")
	}
	if isNew {
		ep.LastNew = l.now()
	}
	ep.IsNew = isNew
	l.set(ep)
	return nil
}

// RemoveDownload deletes the episode's downloaded media file and
// marks the episode deleted. Episodes that are not downloaded, or
// that are archived, are left alone with a skip error.
func (l *Library) RemoveDownload(id int64) error {
	ep, err := l.Get(id)
	if err != nil {
		return err
	}
	if !ep.Downloaded() {
		return apply.Skip("not downloaded")
	}
	if ep.Archive {
		return apply.Skip("archived")
	}

	err = os.Remove(filepath.Join(l.dir, ep.DownloadFilename))
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}

	ep.State = episode.StateDeleted
	ep.IsNew = false
	l.set(ep)
	l.slog.Info("library remove download", "id", id, "file", ep.DownloadFilename)

	if errors.Is(err, os.ErrNotExist) {
		// The file vanished out of band. The state is
		// reconciled above, but nothing was removed.
		return apply.Skip("file already removed")
	}
	return nil
}

// EnqueueDownload schedules a download of the episode's media file.
// Episodes that are already downloaded, or already queued, are
// skipped.
func (l *Library) EnqueueDownload(ctx context.Context, id int64) error {
	ep, err := l.Get(id)
	if err != nil {
		return err
	}
	if ep.Downloaded() {
		return apply.Skip("already downloaded")
	}
	if ep.URL == "" {
		return fmt.Errorf("episode %d has no enclosure URL", id)
	}
	if l.queue == nil {
		return errors.New("no download queue configured")
	}

	name := ep.DownloadFilename
	if name == "" {
		name = filepath.Base(ep.URL)
	}
	added, err := l.queue.Enqueue(ctx, queue.Task{EpisodeID: id, URL: ep.URL, Filename: name})
	if err != nil {
		return err
	}
	if !added {
		return apply.Skip("already queued")
	}
	l.slog.Info("library enqueue download", "id", id, "url", ep.URL)
	return nil
}

// MarkDownloaded records that the episode's media file has been
// stored under the given file name. The download queue's process
// function calls this when a fetch completes. A freshly downloaded
// episode is marked new so it shows up as unplayed.
func (l *Library) MarkDownloaded(id int64, filename string, size int64) error {
	ep, err := l.Get(id)
	if err != nil {
		return err
	}
	ep.State = episode.StateDownloaded
	if !ep.IsNew {
		ep.IsNew = true
		ep.LastNew = l.now()
	}
	if size > 0 {
		ep.FileSize = size
	}
	ep.DownloadFilename = filename
	l.set(ep)
	return nil
}
