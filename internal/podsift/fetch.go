// Copyright 2024 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"

	"github.com/podsift/podsift/internal/queue"
)

// download fetches one episode's media file into the download
// directory and records the download in the library. It runs on a
// queue worker.
func (s *sift) download(ctx context.Context, t queue.Task) error {
	req, err := http.NewRequestWithContext(ctx, "GET", t.URL, nil)
	if err != nil {
		return fmt.Errorf("download episode %d: %w", t.EpisodeID, err)
	}
	resp, err := s.http.Do(req)
	if err != nil {
		return fmt.Errorf("download episode %d: %w", t.EpisodeID, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("download episode %d: %s returned %s", t.EpisodeID, t.URL, resp.Status)
	}

	path := filepath.Join(s.cfg.DownloadDir, t.Filename)
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("download episode %d: %w", t.EpisodeID, err)
	}
	n, err := io.Copy(f, resp.Body)
	if err2 := f.Close(); err == nil {
		err = err2
	}
	if err != nil {
		os.Remove(path)
		return fmt.Errorf("download episode %d: %w", t.EpisodeID, err)
	}

	s.slog.Info("downloaded", "id", t.EpisodeID, "file", t.Filename, "bytes", n)
	return s.lib.MarkDownloaded(t.EpisodeID, t.Filename, n)
}
