// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package history persists session transcripts and searches them.
//
// Each chat session writes one flat file named after its start time,
// e.g. "2025-01-02_15-04-05.session". A transcript is a sequence of turns:
// a "[User @ HH:MM:SS]" or "[Assistant @ HH:MM:SS]" header line, the turn
// body, and a trailing blank line. Reasoning output is never written here.
//
// Search scans every .session file in chronological order, matches turn
// bodies against a keyword with three tiers (substring, token containment,
// similarity ratio), and reports the most recent matches with highlight
// spans for the CLI to style.
package history
