// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package history

import (
	"reflect"
	"strings"
	"testing"
)

func TestMatchSpans(t *testing.T) {
	tests := []struct {
		name    string
		s       string
		keyword string
		want    []Span
	}{
		{"single match", "hello world", "world", []Span{{6, 11}}},
		{"case insensitive", "Hello HELLO hello", "hello", []Span{{0, 5}, {6, 11}, {12, 17}}},
		{"no match", "abc", "xyz", nil},
		{"empty keyword", "abc", "", nil},
		{"greedy non-overlapping", "aaaa", "aa", []Span{{0, 2}, {2, 4}}},
		{"odd overlap consumed", "aaa", "aa", []Span{{0, 2}}},
		{"keyword longer than text", "ab", "abc", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := MatchSpans(tt.s, tt.keyword)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("MatchSpans(%q, %q) = %v, want %v", tt.s, tt.keyword, got, tt.want)
			}
		})
	}
}

func TestMatchSpans_RuneOffsets(t *testing.T) {
	// Offsets are rune positions, not byte positions.
	s := "日本語 find 日本語 find"
	spans := MatchSpans(s, "find")
	want := []Span{{4, 8}, {13, 17}}
	if !reflect.DeepEqual(spans, want) {
		t.Errorf("spans = %v, want %v", spans, want)
	}
}

func TestHighlight_WrapsMatches(t *testing.T) {
	em := func(s string) string { return "<<" + s + ">>" }

	got := Highlight("say Hello and hello again", "hello", em)
	want := "say <<Hello>> and <<hello>> again"
	if got != want {
		t.Errorf("Highlight = %q, want %q", got, want)
	}
}

func TestHighlight_StripRoundTrip(t *testing.T) {
	// Removing the emphasis markers restores the original bytes,
	// including the original case of each match.
	em := func(s string) string { return "\x1b[1m" + s + "\x1b[0m" }
	strip := func(s string) string {
		s = strings.ReplaceAll(s, "\x1b[1m", "")
		return strings.ReplaceAll(s, "\x1b[0m", "")
	}

	inputs := []string{
		"plain text without the word",
		"MIXED case Match mixed MATCH",
		"unicode 日本語 match text",
		"match at start and match at end match",
	}
	for _, in := range inputs {
		if got := strip(Highlight(in, "match", em)); got != in {
			t.Errorf("round trip broke: %q -> %q", in, got)
		}
	}
}

func TestHighlight_NoMatchReturnsInput(t *testing.T) {
	em := func(s string) string { return "[" + s + "]" }
	in := "untouched text"
	if got := Highlight(in, "absent", em); got != in {
		t.Errorf("Highlight = %q, want input unchanged", got)
	}
}
