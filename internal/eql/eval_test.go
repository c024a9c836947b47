// Copyright 2024 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package eql

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
)

// episodeInfo is the attribute snapshot the eval tests run against.
type episodeInfo struct {
	video, audio, downloaded, isNew bool
	mb, minutes, since              float64
}

var testVocab = func() Vocab[episodeInfo] {
	v := Vocab[episodeInfo]{}
	flag := func(get func(episodeInfo) bool, names ...string) {
		a := Attr[episodeInfo]{Name: names[0], Kind: KindFlag, Flag: get}
		for _, n := range names {
			v[n] = a
		}
	}
	num := func(get func(episodeInfo) float64, names ...string) {
		a := Attr[episodeInfo]{Name: names[0], Kind: KindNumeric, Num: get}
		for _, n := range names {
			v[n] = a
		}
	}
	flag(func(e episodeInfo) bool { return e.video }, "video")
	flag(func(e episodeInfo) bool { return e.audio }, "audio")
	flag(func(e episodeInfo) bool { return e.downloaded }, "downloaded", "dl")
	flag(func(e episodeInfo) bool { return e.isNew }, "new")
	flag(func(e episodeInfo) bool { return !e.isNew }, "old")
	num(func(e episodeInfo) float64 { return e.mb }, "mb", "size")
	num(func(e episodeInfo) float64 { return e.minutes }, "minutes")
	num(func(e episodeInfo) float64 { return e.since }, "since")
	return v
}()

func evalQuery(t *testing.T, query string, ep episodeInfo) (bool, error) {
	t.Helper()
	expr, err := Parse(query)
	if err != nil {
		t.Fatalf("Parse(%q): %v", query, err)
	}
	return Evaluator(expr, testVocab)(ep)
}

func TestEvaluator(t *testing.T) {
	small := episodeInfo{video: true, audio: true, mb: 8.2, minutes: 25, since: 3}
	big := episodeInfo{video: true, downloaded: true, mb: 120, minutes: 90, since: 10}

	tests := []struct {
		query string
		ep    episodeInfo
		want  bool
	}{
		{"video", small, true},
		{"downloaded", small, false},
		{"not downloaded", small, true},
		{"mb < 10", small, true},
		{"mb < 10", big, false},
		{"mb <= 8.2", small, true},
		{"mb > 8.2", small, false},
		{"mb >= 8.2", small, true},
		{"minutes != 25", small, false},
		{"video and not downloaded and mb < 10 and since < 7", small, true},
		{"video and not downloaded and mb < 10 and since < 7", big, false},

		// Synonyms resolve to the same attribute, case-insensitively.
		{"dl", big, true},
		{"size > 100", big, true},
		{"Video AND Size > 100", big, true},

		// Implicit conjunction is identical to explicit and.
		{"audio minutes < 30", small, true},
		{"audio and minutes < 30", small, true},
		{"audio minutes < 30 not downloaded", small, true},
		{"audio minutes < 30 not downloaded", big, false},

		// and binds tighter than or: with video=true, downloaded=false
		// this is true under "video or (audio and downloaded)" and
		// false under "(video or audio) and downloaded".
		{"video or audio and downloaded", small, true},
		// not binds tighter than and.
		{"not downloaded and video", small, true},

		// Equality is exact floating-point equality.
		{"mb == 8.2", small, true},
		{"mb == 8.2000001", small, false},
		{"mb != 8.2", small, false},
	}

	for _, test := range tests {
		got, err := evalQuery(t, test.query, test.ep)
		if err != nil {
			t.Errorf("eval(%q) error: %v", test.query, err)
			continue
		}
		if got != test.want {
			t.Errorf("eval(%q) = %v, want %v", test.query, got, test.want)
		}
	}
}

// TestShortCircuit verifies that the right operand of and/or is not
// evaluated (and so not resolved) when the left operand decides the
// result, even when the right operand would error on its own.
func TestShortCircuit(t *testing.T) {
	ep := episodeInfo{audio: true}

	tests := []struct {
		query string
		want  bool
	}{
		{"downloaded and bogus", false},
		{"audio or bogus", true},
		{"downloaded and bogus < 5", false},
		{"not audio and bogus", false},
	}
	for _, test := range tests {
		got, err := evalQuery(t, test.query, ep)
		if err != nil {
			t.Errorf("eval(%q) error: %v, want short-circuit", test.query, err)
			continue
		}
		if got != test.want {
			t.Errorf("eval(%q) = %v, want %v", test.query, got, test.want)
		}
	}

	// The same queries do error once the left side no longer
	// short-circuits.
	for _, query := range []string{"audio and bogus", "downloaded or bogus"} {
		_, err := evalQuery(t, query, ep)
		var ufe *UnknownFieldError
		if !errors.As(err, &ufe) {
			t.Errorf("eval(%q) error = %v, want UnknownFieldError", query, err)
		}
	}
}

func TestUnknownField(t *testing.T) {
	_, err := evalQuery(t, "bogus and mb < 5", episodeInfo{})
	var ufe *UnknownFieldError
	if !errors.As(err, &ufe) {
		t.Fatalf("error = %v, want UnknownFieldError", err)
	}
	if ufe.Name != "bogus" {
		t.Errorf("Name = %q, want %q", ufe.Name, "bogus")
	}
}

func TestSuggestion(t *testing.T) {
	_, err := testVocab.Resolve("vido")
	var ufe *UnknownFieldError
	if !errors.As(err, &ufe) {
		t.Fatalf("error = %v, want UnknownFieldError", err)
	}
	if want := []string{"video"}; !cmp.Equal(ufe.Nearest, want) {
		t.Errorf("Nearest = %v, want %v", ufe.Nearest, want)
	}
	if got, want := ufe.Error(), `unknown field "vido" (did you mean "video"?)`; got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}
}

func TestTypeMismatch(t *testing.T) {
	tests := []struct {
		query string
		name  string
		kind  Kind
	}{
		// A numeric field as a bare flag, a flag in a comparison,
		// and a numeric field reached through a conjunction.
		{"mb", "mb", KindNumeric},
		{"video > 1", "video", KindFlag},
		{"audio and minutes", "minutes", KindNumeric},
	}
	for _, test := range tests {
		_, err := evalQuery(t, test.query, episodeInfo{audio: true})
		var tme *TypeMismatchError
		if !errors.As(err, &tme) {
			t.Errorf("eval(%q) error = %v, want TypeMismatchError", test.query, err)
			continue
		}
		if tme.Name != test.name || tme.Kind != test.kind {
			t.Errorf("eval(%q) = (%q, %v), want (%q, %v)", test.query, tme.Name, tme.Kind, test.name, test.kind)
		}
	}
}

// TestErrorDeterminism verifies that a failing query reports the
// identical error no matter how many episodes have been evaluated
// before the failure: resolution results are cached per compiled
// query, so later evaluations see the same diagnostic.
func TestErrorDeterminism(t *testing.T) {
	expr, err := Parse("audio and bogus")
	if err != nil {
		t.Fatal(err)
	}
	match := Evaluator(expr, testVocab)

	var msgs []string
	for range 3 {
		_, err := match(episodeInfo{audio: true})
		if err == nil {
			t.Fatal("expected error")
		}
		msgs = append(msgs, err.Error())
	}
	if msgs[0] != msgs[1] || msgs[1] != msgs[2] {
		t.Errorf("error messages differ across evaluations: %q", msgs)
	}
}
