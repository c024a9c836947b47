// Copyright 2024 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package episode defines the episode data model and the attribute
// vocabulary that episode queries evaluate against.
package episode

import (
	"strings"
	"time"
)

// Episode state, mirroring the lifecycle of a downloaded file.
type State int

const (
	StateNormal     State = 0 // never downloaded, or download not kept
	StateDownloaded State = 1 // media file present on disk
	StateDeleted    State = 2 // media file was downloaded and then removed
)

// An Episode is one item of a podcast feed as stored in the library.
type Episode struct {
	ID               int64     `json:"id"`
	PodcastID        int64     `json:"podcast_id,omitempty"`
	Title            string    `json:"title"`
	URL              string    `json:"url"`                // enclosure URL
	GUID             string    `json:"guid,omitempty"`     // feed-provided unique ID
	Link             string    `json:"link,omitempty"`     // web page for the episode
	Published        time.Time `json:"published"`
	FileSize         int64     `json:"file_size"`  // enclosure size in bytes
	TotalTime        int64     `json:"total_time"` // duration in seconds
	MimeType         string    `json:"mime_type"`
	State            State     `json:"state"`
	IsNew            bool      `json:"is_new"`
	Archive          bool      `json:"archive"` // keep even when cleaning up old downloads
	DownloadFilename string    `json:"download_filename,omitempty"`
	LastNew          time.Time `json:"last_new"` // when IsNew last became true
}

// Video reports whether the episode's enclosure is a video file.
func (e *Episode) Video() bool {
	return strings.HasPrefix(e.MimeType, "video/")
}

// Audio reports whether the episode's enclosure is an audio file.
func (e *Episode) Audio() bool {
	return strings.HasPrefix(e.MimeType, "audio/")
}

// Downloaded reports whether the episode's media file is downloaded.
func (e *Episode) Downloaded() bool {
	return e.State == StateDownloaded
}

// A Snapshot is a read-only view of one episode's queryable
// attributes at a single point in time. Queries over many episodes
// evaluate snapshots taken with the same clock reading, so that
// time-derived fields are consistent across the batch.
type Snapshot struct {
	Video      bool
	Audio      bool
	Downloaded bool
	New        bool
	Archived   bool
	MB         float64 // enclosure size in megabytes
	Minutes    float64 // duration in minutes
	Age        float64 // days since publication
	Since      float64 // days since last marked new
}

// Snapshot returns the episode's attributes as of time now.
func (e *Episode) Snapshot(now time.Time) Snapshot {
	lastNew := e.LastNew
	if lastNew.IsZero() {
		lastNew = e.Published
	}
	return Snapshot{
		Video:      e.Video(),
		Audio:      e.Audio(),
		Downloaded: e.Downloaded(),
		New:        e.IsNew,
		Archived:   e.Archive,
		MB:         float64(e.FileSize) / (1024 * 1024),
		Minutes:    float64(e.TotalTime) / 60,
		Age:        days(now.Sub(e.Published)),
		Since:      days(now.Sub(lastNew)),
	}
}

func days(d time.Duration) float64 {
	return d.Hours() / 24
}
