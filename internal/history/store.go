// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package history

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// =============================================================================
// CONSTANTS
// =============================================================================

// SessionExt is the file extension for session transcripts.
const SessionExt = ".session"

// sessionNameLayout formats a session start time into a filename stem.
// Second resolution: two sessions started within the same second collide
// and append to the same file.
const sessionNameLayout = "2006-01-02_15-04-05"

// headerTimeLayout formats the per-entry timestamp inside a turn header.
const headerTimeLayout = "15:04:05"

// Role identifies the author of a transcript turn.
type Role string

const (
	RoleUser      Role = "User"
	RoleAssistant Role = "Assistant"
)

// =============================================================================
// STORE
// =============================================================================

// Store manages the session transcript directory.
type Store struct {
	dir string
}

// NewStore creates a store rooted at dir, creating it if needed.
func NewStore(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0700); err != nil {
		return nil, fmt.Errorf("failed to create history directory: %w", err)
	}
	return &Store{dir: dir}, nil
}

// Dir returns the transcript directory.
func (s *Store) Dir() string {
	return s.dir
}

// SessionFiles returns the paths of all session transcripts in the store,
// sorted by filename. Timestamp-stem names make lexical order chronological.
func (s *Store) SessionFiles() ([]string, error) {
	pattern := filepath.Join(s.dir, "*"+SessionExt)
	files, err := filepath.Glob(pattern)
	if err != nil {
		return nil, fmt.Errorf("failed to list session files: %w", err)
	}
	// filepath.Glob returns sorted paths
	return files, nil
}

// CreateSessionLog starts a new transcript for a session beginning at now.
// The file is created immediately so an empty session still leaves a trace.
func (s *Store) CreateSessionLog(now time.Time) (*SessionLog, error) {
	path := filepath.Join(s.dir, now.Format(sessionNameLayout)+SessionExt)

	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0600)
	if err != nil {
		return nil, fmt.Errorf("failed to create session log: %w", err)
	}
	if err := f.Close(); err != nil {
		return nil, fmt.Errorf("failed to close session log: %w", err)
	}

	return &SessionLog{path: path}, nil
}

// =============================================================================
// SESSION LOG
// =============================================================================

// SessionLog appends turns to a single session transcript.
//
// Each append opens the file, writes one complete turn, and closes it, so
// every completed turn is durable even if the process dies mid-session.
// Single writer; no locking.
type SessionLog struct {
	path string
}

// Path returns the transcript file path.
func (l *SessionLog) Path() string {
	return l.path
}

// Append writes one turn: a "[Role @ HH:MM:SS]" header, the trimmed text,
// and a blank line separator.
func (l *SessionLog) Append(role Role, text string, now time.Time) error {
	f, err := os.OpenFile(l.path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0600)
	if err != nil {
		return fmt.Errorf("failed to open session log: %w", err)
	}

	entry := fmt.Sprintf("[%s @ %s]\n%s\n\n", role, now.Format(headerTimeLayout), strings.TrimSpace(text))
	if _, err := f.WriteString(entry); err != nil {
		f.Close()
		return fmt.Errorf("failed to write session log: %w", err)
	}

	if err := f.Close(); err != nil {
		return fmt.Errorf("failed to close session log: %w", err)
	}
	return nil
}
