// Copyright 2024 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	ometric "go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/metric/noop"

	"github.com/podsift/podsift/internal/apply"
	"github.com/podsift/podsift/internal/config"
	"github.com/podsift/podsift/internal/library"
	"github.com/podsift/podsift/internal/pebble"
	"github.com/podsift/podsift/internal/queue"
	"github.com/podsift/podsift/internal/storage"
)

// A sift holds the state shared by all commands.
type sift struct {
	slog      *slog.Logger
	slogLevel *slog.LevelVar
	http      *http.Client
	cfg       *config.Config
	db        storage.DB
	lib       *library.Library
	queue     *queue.InMemory
	applier   *apply.Applier
	meter     ometric.Meter
}

var app = &sift{}

var flags struct {
	config    string
	database  string
	downloads string
	level     string
}

var rootCmd = &cobra.Command{
	Use:          "podsift",
	Short:        "query and manage a podcast episode library",
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return app.setup(cmd.Context())
	},
	PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
		return app.shutdown(cmd.Context())
	},
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.StringVar(&flags.config, "config", "", "configuration file (default <user config dir>/podsift/config.yaml)")
	pf.StringVar(&flags.database, "db", "", "episode database directory (overrides configuration)")
	pf.StringVar(&flags.downloads, "downloads", "", "download directory (overrides configuration)")
	pf.StringVar(&flags.level, "level", "", "minimum log level (overrides configuration)")
}

// setup prepares the shared state before a command runs.
func (s *sift) setup(ctx context.Context) error {
	path := flags.config
	if path == "" {
		if dir, err := os.UserConfigDir(); err == nil {
			path = filepath.Join(dir, "podsift", "config.yaml")
		}
	}
	cfg, err := config.Read(path)
	if err != nil {
		return err
	}
	if flags.database != "" {
		cfg.Database = flags.database
	}
	if flags.downloads != "" {
		cfg.DownloadDir = flags.downloads
	}
	if flags.level != "" {
		cfg.LogLevel = flags.level
	}
	s.cfg = cfg

	s.slogLevel = new(slog.LevelVar)
	if err := s.slogLevel.UnmarshalText([]byte(cfg.LogLevel)); err != nil {
		return err
	}
	s.slog = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: s.slogLevel}))
	s.http = http.DefaultClient
	s.meter = noop.Meter{}

	if cfg.Database == "" {
		s.db = storage.MemDB()
	} else {
		db, err := pebble.Open(s.slog, cfg.Database)
		if err != nil {
			db, err = pebble.Create(s.slog, cfg.Database)
		}
		if err != nil {
			return err
		}
		s.db = db
	}

	if err := os.MkdirAll(cfg.DownloadDir, 0o777); err != nil {
		return err
	}

	s.queue = queue.NewInMemory(ctx, cfg.Workers, s.download)
	s.lib = library.New(s.slog, s.db, s.queue, cfg.DownloadDir)
	s.applier = apply.New(s.slog, s.lib, s.meter)
	return nil
}

// shutdown waits for queued downloads and closes the database.
func (s *sift) shutdown(ctx context.Context) error {
	s.queue.Wait(ctx)
	var failed error
	for _, err := range s.queue.Errors() {
		s.slog.Error("download failed", "err", err)
		failed = err
	}
	s.db.Close()
	return failed
}
