// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package history

import (
	"bufio"
	"fmt"
	"io"
	"regexp"
	"strings"
)

// headerRe matches a transcript turn header line.
var headerRe = regexp.MustCompile(`^\[(User|Assistant) @ \d{2}:\d{2}:\d{2}\]$`)

// Turn is one parsed transcript turn.
type Turn struct {
	Header string // the full header line, e.g. "[User @ 14:03:21]"
	Body   string // turn text between this header and the next, trimmed
}

// Role extracts the role from the turn header.
func (t *Turn) Role() Role {
	if strings.HasPrefix(t.Header, "[Assistant") {
		return RoleAssistant
	}
	return RoleUser
}

// scanState tracks the scanner's position relative to turn boundaries.
type scanState int

const (
	beforeFirstHeader scanState = iota
	insideTurn
)

// ScanTurns parses a transcript stream into turns.
//
// Two-state machine: lines before the first header are ignored (a well
// formed file has none), then each header closes the previous turn and
// starts the next. Turns with whitespace-only bodies are dropped; they
// cannot match a search and only add noise to results.
func ScanTurns(r io.Reader) ([]Turn, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 64*1024), 1024*1024)

	var turns []Turn
	state := beforeFirstHeader
	var header string
	var body strings.Builder

	flush := func() {
		text := strings.TrimSpace(body.String())
		if text != "" {
			turns = append(turns, Turn{Header: header, Body: text})
		}
		body.Reset()
	}

	for scanner.Scan() {
		line := scanner.Text()

		if headerRe.MatchString(line) {
			if state == insideTurn {
				flush()
			}
			state = insideTurn
			header = line
			continue
		}

		if state == insideTurn {
			body.WriteString(line)
			body.WriteByte('\n')
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to scan transcript: %w", err)
	}

	if state == insideTurn {
		flush()
	}

	return turns, nil
}
