// Copyright 2024 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/podsift/podsift/internal/eql"
)

var queryCmd = &cobra.Command{
	Use:   "query <expression>",
	Short: "select the episodes matching an expression",
	Long: `Query selects the episodes matching a boolean expression and makes
them the active result set for a later apply.

Flags (video, audio, downloaded, new, old, archived) appear bare;
numeric fields (mb, minutes, age, since) appear in comparisons.
Juxtaposition means "and":

  podsift query 'audio minutes < 30 not downloaded'`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return app.runQuery(cmd.OutOrStdout(), strings.Join(args, " "))
	},
}

func init() {
	rootCmd.AddCommand(queryCmd)
}

func (s *sift) runQuery(w io.Writer, query string) error {
	expr, err := eql.Parse(query)
	if err != nil {
		return err
	}
	ids, err := s.lib.Select(expr)
	if err != nil {
		return err
	}
	s.lib.SaveResultSet(ids)

	for _, id := range ids {
		ep, err := s.lib.Get(id)
		if err != nil {
			return err
		}
		fmt.Fprintf(w, "%4d  %s\n", id, ep.Title)
	}
	fmt.Fprintf(w, "%d of %d episodes match\n", len(ids), s.count())
	return nil
}

func (s *sift) count() int {
	n := 0
	for range s.lib.Episodes() {
		n++
	}
	return n
}
