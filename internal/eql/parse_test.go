// Copyright 2024 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package eql

import (
	"flag"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"golang.org/x/tools/txtar"
)

var update = flag.Bool("update", false, "update test output")

// TestParse runs the golden parse tests in testdata/parse. Each
// archive holds <name>.test query files followed by the expected
// <name>.out tree or <name>.err message. Run with -update to
// regenerate the expected output.
func TestParse(t *testing.T) {
	tests, err := filepath.Glob("testdata/parse/*.txt")
	if err != nil {
		t.Fatal(err)
	}

	for _, test := range tests {
		t.Run(strings.TrimPrefix(strings.TrimSuffix(test, ".txt"), "testdata/parse/"), func(t *testing.T) {
			testParseFile(t, test)
		})
	}
}

func testParseFile(t *testing.T, test string) {
	ar, err := txtar.ParseFile(test)
	if err != nil {
		t.Fatal(err)
	}

	var newFiles []txtar.File
	for i := 0; i < len(ar.Files); i++ {
		name := ar.Files[i].Name
		base, ok := strings.CutSuffix(name, ".test")
		if !ok {
			t.Fatalf("archive format error: found %s when expecting a test", name)
		}

		// The archive stores the query with a trailing newline;
		// queries are single-line, so strip it before parsing to
		// keep error columns honest.
		query := strings.TrimRight(string(ar.Files[i].Data), "\n")
		expr, err := Parse(query)

		if *update {
			newFiles = append(newFiles, ar.Files[i])
			if err != nil {
				newFiles = append(newFiles, txtar.File{Name: base + ".err", Data: []byte(err.Error() + "\n")})
			} else {
				newFiles = append(newFiles, txtar.File{Name: base + ".out", Data: []byte(expr.String())})
			}
			if i+1 < len(ar.Files) {
				if next := ar.Files[i+1].Name; next == base+".out" || next == base+".err" {
					i++
				}
			}
			continue
		}

		i++
		if i >= len(ar.Files) {
			t.Fatalf("%s: missing result", base)
		}
		want := string(ar.Files[i].Data)

		t.Run(base, func(t *testing.T) {
			switch ar.Files[i].Name {
			case base + ".out":
				if err != nil {
					t.Fatalf("got error %v, expected no error", err)
				}
				if got := expr.String(); got != want {
					t.Errorf("got:\n%swant:\n%s", got, want)
				}
			case base + ".err":
				if err == nil {
					t.Fatalf("got no error, expected error %s", want)
				}
				if got := err.Error(); got != strings.TrimSpace(want) {
					t.Errorf("got error %s, want %s", got, strings.TrimSpace(want))
				}
			default:
				t.Fatalf("unexpected name %s does not end in .out or .err", ar.Files[i].Name)
			}
		})
	}

	if *update {
		ar.Files = newFiles
		if err := os.WriteFile(test, txtar.Format(ar), 0o666); err != nil {
			t.Errorf("error writing out %s: %v", test, err)
		}
	}
}

func TestParseEmpty(t *testing.T) {
	for _, query := range []string{"", "   "} {
		_, err := Parse(query)
		perr, ok := err.(*ParseError)
		if !ok {
			t.Fatalf("Parse(%q) error = %v, want *ParseError", query, err)
		}
		if perr.Expected != "a flag or field name" {
			t.Errorf("Parse(%q) expected = %q", query, perr.Expected)
		}
	}
}
