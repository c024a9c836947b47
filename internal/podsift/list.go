// Copyright 2024 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/podsift/podsift/internal/episode"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "list all episodes in the library",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return app.runList(cmd.OutOrStdout())
	},
}

func init() {
	rootCmd.AddCommand(listCmd)
}

func (s *sift) runList(w io.Writer) error {
	n := 0
	for ep := range s.lib.Episodes() {
		fmt.Fprintf(w, "%4d  %-4s %7.1fMB %4.0fmin  %s\n",
			ep.ID, marks(ep), float64(ep.FileSize)/(1024*1024), float64(ep.TotalTime)/60, ep.Title)
		n++
	}
	fmt.Fprintf(w, "%d episodes\n", n)
	return nil
}

// marks summarizes an episode's state in a few characters:
// N new, D downloaded, X deleted, A archived.
func marks(ep *episode.Episode) string {
	var sb strings.Builder
	if ep.IsNew {
		sb.WriteByte('N')
	}
	switch ep.State {
	case episode.StateDownloaded:
		sb.WriteByte('D')
	case episode.StateDeleted:
		sb.WriteByte('X')
	}
	if ep.Archive {
		sb.WriteByte('A')
	}
	return sb.String()
}
