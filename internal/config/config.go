// Copyright 2024 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package config reads the podsift configuration file.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// A Config holds the settings for one podsift installation.
type Config struct {
	// Database is the directory of the pebble database holding the
	// episode library. Empty means an in-memory library that is
	// discarded on exit.
	Database string `yaml:"database"`

	// DownloadDir is the directory where downloaded media files are
	// stored.
	DownloadDir string `yaml:"download_dir"`

	// Workers is the number of concurrent episode downloads.
	Workers int `yaml:"workers"`

	// LogLevel is the minimum slog level to emit ("debug", "info",
	// "warn", "error").
	LogLevel string `yaml:"log_level"`
}

// Default returns the configuration used when no file is present.
func Default() *Config {
	return &Config{
		DownloadDir: filepath.Join(os.TempDir(), "podsift"),
		Workers:     3,
		LogLevel:    "info",
	}
}

// Read reads the configuration from the named file.
// A missing file is not an error: Read returns the defaults.
func Read(path string) (*Config, error) {
	c := Default()
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return c, nil
		}
		return nil, err
	}
	defer f.Close()

	dec := yaml.NewDecoder(f)
	dec.KnownFields(true)
	if err := dec.Decode(c); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	if c.Workers < 1 {
		return nil, fmt.Errorf("%s: workers must be at least 1", path)
	}
	return c, nil
}
