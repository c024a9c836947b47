// Copyright 2024 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/podsift/podsift/internal/episode"
)

var importCmd = &cobra.Command{
	Use:   "import <file>",
	Short: "import episodes from a JSON file",
	Long: `Import reads a JSON array of episodes and adds each one to the
library, assigning fresh IDs in file order.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return app.runImport(cmd.OutOrStdout(), args[0])
	},
}

func init() {
	rootCmd.AddCommand(importCmd)
}

func (s *sift) runImport(w io.Writer, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	var eps []episode.Episode
	if err := json.Unmarshal(data, &eps); err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}
	for i := range eps {
		s.lib.Add(&eps[i])
	}
	s.db.Flush()
	fmt.Fprintf(w, "imported %d episodes\n", len(eps))
	return nil
}
