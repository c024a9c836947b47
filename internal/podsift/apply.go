// Copyright 2024 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"context"
	"fmt"
	"io"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/podsift/podsift/internal/apply"
	"github.com/podsift/podsift/internal/eql"
)

var applyFlags struct {
	query string
}

var applyCmd = &cobra.Command{
	Use:   "apply <action> [<argument>]",
	Short: "apply an action to the active result set",
	Long: `Apply applies an action to every episode in the active result set,
in result order, and reports one outcome per episode.

The actions are "mark new", "mark old", "rm" (delete downloaded
media), and "fetch" (download media). A failure on one episode does
not stop the rest; apply exits non-zero if any episode failed.

With --query, apply selects episodes one-shot instead of using the
stored result set:

  podsift apply rm --query 'downloaded and age > 15'`,
	Args: cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		arg := ""
		if len(args) == 2 {
			arg = args[1]
		}
		return app.runApply(cmd.Context(), cmd.OutOrStdout(), args[0], arg, applyFlags.query)
	},
}

func init() {
	applyCmd.Flags().StringVar(&applyFlags.query, "query", "", "select episodes with this expression instead of the stored result set")
	rootCmd.AddCommand(applyCmd)
}

var (
	appliedColor = color.New(color.FgGreen)
	skippedColor = color.New(color.FgYellow)
	failedColor  = color.New(color.FgRed, color.Bold)
)

func (s *sift) runApply(ctx context.Context, w io.Writer, name, arg, query string) error {
	action, err := apply.ParseAction(name, arg)
	if err != nil {
		return err
	}

	var targets []int64
	if query != "" {
		expr, err := eql.Parse(query)
		if err != nil {
			return err
		}
		if targets, err = s.lib.Select(expr); err != nil {
			return err
		}
		s.lib.SaveResultSet(targets)
	} else {
		if targets, err = s.lib.ResultSet(); err != nil {
			return err
		}
	}

	failed := 0
	for _, o := range s.applier.Apply(ctx, action, targets) {
		c := appliedColor
		switch o.Status {
		case apply.Skipped:
			c = skippedColor
		case apply.Failed:
			c = failedColor
			failed++
		}
		line := fmt.Sprintf("%4d  %s", o.ID, o.Status)
		if o.Reason != "" {
			line += " (" + o.Reason + ")"
		}
		c.Fprintln(w, line)
	}

	if failed > 0 {
		return fmt.Errorf("%s failed for %d of %d episodes", action, failed, len(targets))
	}
	return nil
}
