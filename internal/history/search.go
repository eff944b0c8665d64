// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package history

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// =============================================================================
// SEARCH
// =============================================================================

// DefaultMaxResults is the number of matches reported when the caller
// doesn't ask for a specific count.
const DefaultMaxResults = 10

// similarityThreshold is the minimum Ratio score for the fuzzy tier.
const similarityThreshold = 0.6

// ErrNoResults indicates the keyword matched no transcript turns.
var ErrNoResults = errors.New("no matching history entries")

// Result is one matched transcript turn.
type Result struct {
	File   string // session file basename
	Header string // turn header line
	Body   string // turn body
}

// Search scans every session transcript for turns matching keyword and
// returns the most recent maxResults matches in chronological order.
//
// Matching runs in three tiers, cheapest first; a turn matches if any
// tier accepts it:
//  1. case-insensitive substring
//  2. token containment: the lowercased keyword equals one of the
//     turn's delimiter-split tokens
//  3. similarity: Ratio(lowercased body, lowercased keyword) >= 0.6
//
// An empty keyword matches everything via tier 1 (strings.Contains with
// the empty string is always true), which makes --search "" a way to dump
// recent turns.
func (s *Store) Search(keyword string, maxResults int) ([]Result, error) {
	if maxResults <= 0 {
		maxResults = DefaultMaxResults
	}

	files, err := s.SessionFiles()
	if err != nil {
		return nil, err
	}

	var matches []Result
	needle := strings.ToLower(keyword)

	for _, path := range files {
		f, err := os.Open(path)
		if err != nil {
			return nil, fmt.Errorf("failed to open transcript: %w", err)
		}
		turns, err := ScanTurns(f)
		f.Close()
		if err != nil {
			return nil, err
		}

		base := filepath.Base(path)
		for _, turn := range turns {
			if matchesTurn(turn.Body, needle) {
				matches = append(matches, Result{
					File:   base,
					Header: turn.Header,
					Body:   turn.Body,
				})
			}
		}
	}

	if len(matches) == 0 {
		return nil, ErrNoResults
	}

	// Keep the most recent matches but preserve chronological order.
	if len(matches) > maxResults {
		matches = matches[len(matches)-maxResults:]
	}
	return matches, nil
}

// matchesTurn applies the three match tiers. needle is already lowercased.
func matchesTurn(body, needle string) bool {
	haystack := strings.ToLower(body)

	// Tier 1: substring
	if strings.Contains(haystack, needle) {
		return true
	}

	// Tier 2: token containment
	for _, token := range Tokenize(haystack) {
		if token == needle {
			return true
		}
	}

	// Tier 3: similarity ratio
	return Ratio(haystack, needle) >= similarityThreshold
}

// tokenDelimiter reports whether r separates tokens: whitespace and
// common punctuation.
func tokenDelimiter(r rune) bool {
	switch r {
	case '.', ',', ';', ':', '!', '?', '(', ')', '[', ']', '{', '}', '<', '>', '"', '\'':
		return true
	}
	return r == ' ' || r == '\t' || r == '\n' || r == '\r' || r == '\v' || r == '\f'
}

// Tokenize splits s on whitespace and punctuation, dropping empty tokens.
func Tokenize(s string) []string {
	return strings.FieldsFunc(s, tokenDelimiter)
}
