// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package history

import (
	"strings"
	"unicode"
)

// Span is a half-open rune range [Start, End) within a string.
type Span struct {
	Start int
	End   int
}

// MatchSpans finds every case-insensitive occurrence of keyword in s,
// scanning left to right and taking each match greedily so spans never
// overlap. Positions are rune offsets. An empty keyword yields no spans.
func MatchSpans(s, keyword string) []Span {
	if keyword == "" {
		return nil
	}

	// UNICODE: compare rune-by-rune via unicode.ToLower so offsets map 1:1
	// back onto the original string.
	runes := []rune(s)
	needle := []rune(strings.ToLower(keyword))

	var spans []Span
	for i := 0; i+len(needle) <= len(runes); {
		if runesEqualFold(runes[i:i+len(needle)], needle) {
			spans = append(spans, Span{Start: i, End: i + len(needle)})
			i += len(needle)
		} else {
			i++
		}
	}
	return spans
}

// runesEqualFold compares a rune slice against an already-lowercased needle.
func runesEqualFold(s, lowerNeedle []rune) bool {
	for i, r := range s {
		if unicode.ToLower(r) != lowerNeedle[i] {
			return false
		}
	}
	return true
}

// Highlight wraps every keyword occurrence in s with the emphasize
// function, leaving the text between matches untouched. The emphasized
// segments are sliced from the original string, so stripping whatever
// emphasize added restores the input byte for byte.
func Highlight(s, keyword string, emphasize func(string) string) string {
	spans := MatchSpans(s, keyword)
	if len(spans) == 0 {
		return s
	}

	runes := []rune(s)
	var out strings.Builder
	prev := 0
	for _, span := range spans {
		out.WriteString(string(runes[prev:span.Start]))
		out.WriteString(emphasize(string(runes[span.Start:span.End])))
		prev = span.End
	}
	out.WriteString(string(runes[prev:]))
	return out.String()
}
