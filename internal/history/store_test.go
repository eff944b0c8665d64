// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package history

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestCreateSessionLog_Filename(t *testing.T) {
	store, err := NewStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewStore failed: %v", err)
	}

	start := time.Date(2025, 1, 2, 15, 4, 5, 0, time.UTC)
	log, err := store.CreateSessionLog(start)
	if err != nil {
		t.Fatalf("CreateSessionLog failed: %v", err)
	}

	want := "2025-01-02_15-04-05.session"
	if filepath.Base(log.Path()) != want {
		t.Errorf("filename = %q, want %q", filepath.Base(log.Path()), want)
	}

	// File exists immediately, even before any entry.
	if _, err := os.Stat(log.Path()); err != nil {
		t.Errorf("session file not created: %v", err)
	}
}

func TestCreateSessionLog_OneHourApart(t *testing.T) {
	store, err := NewStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewStore failed: %v", err)
	}

	first := time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC)
	second := first.Add(time.Hour)

	logA, err := store.CreateSessionLog(first)
	if err != nil {
		t.Fatalf("first CreateSessionLog failed: %v", err)
	}
	logB, err := store.CreateSessionLog(second)
	if err != nil {
		t.Fatalf("second CreateSessionLog failed: %v", err)
	}

	if logA.Path() == logB.Path() {
		t.Error("sessions an hour apart should use distinct files")
	}

	files, err := store.SessionFiles()
	if err != nil {
		t.Fatalf("SessionFiles failed: %v", err)
	}
	if len(files) != 2 {
		t.Errorf("got %d session files, want 2", len(files))
	}
}

func TestAppend_Format(t *testing.T) {
	store, err := NewStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewStore failed: %v", err)
	}

	log, err := store.CreateSessionLog(time.Date(2025, 3, 4, 10, 0, 0, 0, time.UTC))
	if err != nil {
		t.Fatalf("CreateSessionLog failed: %v", err)
	}

	at := time.Date(2025, 3, 4, 10, 2, 33, 0, time.UTC)
	if err := log.Append(RoleUser, "  hello world \n", at); err != nil {
		t.Fatalf("Append failed: %v", err)
	}
	if err := log.Append(RoleAssistant, "hi!", at.Add(3*time.Second)); err != nil {
		t.Fatalf("Append failed: %v", err)
	}

	data, err := os.ReadFile(log.Path())
	if err != nil {
		t.Fatalf("ReadFile failed: %v", err)
	}

	want := "[User @ 10:02:33]\nhello world\n\n[Assistant @ 10:02:36]\nhi!\n\n"
	if string(data) != want {
		t.Errorf("transcript = %q, want %q", data, want)
	}
}

func TestAppend_Durability(t *testing.T) {
	// Every Append opens and closes the file, so a completed entry
	// survives regardless of later process fate. Verified by reading
	// between appends.
	store, err := NewStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewStore failed: %v", err)
	}

	log, err := store.CreateSessionLog(time.Now())
	if err != nil {
		t.Fatalf("CreateSessionLog failed: %v", err)
	}

	if err := log.Append(RoleUser, "first", time.Now()); err != nil {
		t.Fatalf("Append failed: %v", err)
	}

	data, err := os.ReadFile(log.Path())
	if err != nil {
		t.Fatalf("ReadFile failed: %v", err)
	}
	if !strings.Contains(string(data), "first") {
		t.Error("entry not durable after Append returned")
	}
}

func TestSessionFiles_IgnoresOtherFiles(t *testing.T) {
	dir := t.TempDir()
	store, err := NewStore(dir)
	if err != nil {
		t.Fatalf("NewStore failed: %v", err)
	}

	if _, err := store.CreateSessionLog(time.Now()); err != nil {
		t.Fatalf("CreateSessionLog failed: %v", err)
	}
	if err := os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("x"), 0600); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}

	files, err := store.SessionFiles()
	if err != nil {
		t.Fatalf("SessionFiles failed: %v", err)
	}
	if len(files) != 1 {
		t.Errorf("got %d files, want only the .session file", len(files))
	}
}
