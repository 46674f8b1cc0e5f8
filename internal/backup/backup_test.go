// My Library - Personal Book Library Tracker
// Copyright 2026 stratonov777
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/stratonov777/my-library

package backup

import (
	"compress/gzip"
	"context"
	"io"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/rs/zerolog"
)

func newTestManager(t *testing.T, cfg Config) (*Manager, string) {
	t.Helper()

	storePath := filepath.Join(t.TempDir(), "database.json")
	if err := os.WriteFile(storePath, []byte(`{"myLibrary":[],"wishlist":[]}`), 0o600); err != nil {
		t.Fatalf("write store: %v", err)
	}
	if cfg.Dir == "" {
		cfg.Dir = filepath.Join(t.TempDir(), "backups")
	}

	m, err := NewManager(storePath, cfg, zerolog.Nop())
	if err != nil {
		t.Fatalf("NewManager: %v", err)
	}
	return m, storePath
}

func TestCreateRoundTrips(t *testing.T) {
	m, storePath := newTestManager(t, Config{})

	path, err := m.Create(context.Background())
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	f, err := os.Open(path)
	if err != nil {
		t.Fatalf("open backup: %v", err)
	}
	defer f.Close()

	gz, err := gzip.NewReader(f)
	if err != nil {
		t.Fatalf("gzip reader: %v", err)
	}
	got, err := io.ReadAll(gz)
	if err != nil {
		t.Fatalf("read backup: %v", err)
	}

	want, err := os.ReadFile(storePath)
	if err != nil {
		t.Fatalf("read store: %v", err)
	}
	if string(got) != string(want) {
		t.Errorf("backup content = %q, want %q", got, want)
	}
}

func TestCreateMissingStoreFile(t *testing.T) {
	m, storePath := newTestManager(t, Config{})
	if err := os.Remove(storePath); err != nil {
		t.Fatalf("remove store: %v", err)
	}

	if _, err := m.Create(context.Background()); err == nil {
		t.Error("Create succeeded with no database file")
	}
}

func TestPruneKeepsNewest(t *testing.T) {
	m, _ := newTestManager(t, Config{MaxCount: 2})

	// Timestamped names have second resolution; write them directly so
	// the test does not sleep.
	for _, stamp := range []string{"20260101-000001", "20260101-000002", "20260101-000003"} {
		path := filepath.Join(m.cfg.Dir, backupPrefix+stamp+backupExt)
		if err := os.WriteFile(path, []byte("x"), 0o600); err != nil {
			t.Fatalf("write backup: %v", err)
		}
	}

	if err := m.Prune(); err != nil {
		t.Fatalf("Prune: %v", err)
	}

	paths, err := m.List()
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(paths) != 2 {
		t.Fatalf("got %d backups after prune, want 2", len(paths))
	}
	if filepath.Base(paths[0]) != backupPrefix+"20260101-000002"+backupExt {
		t.Errorf("oldest surviving backup = %s", paths[0])
	}
}

func TestListIgnoresForeignFiles(t *testing.T) {
	m, _ := newTestManager(t, Config{})

	for _, name := range []string{"notes.txt", "library-x.json", backupPrefix + "20260101-000001" + backupExt} {
		if err := os.WriteFile(filepath.Join(m.cfg.Dir, name), []byte("x"), 0o600); err != nil {
			t.Fatalf("write file: %v", err)
		}
	}

	paths, err := m.List()
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(paths) != 1 {
		t.Errorf("List = %v, want only the backup file", paths)
	}
}

func TestServeStopsOnCancel(t *testing.T) {
	m, _ := newTestManager(t, Config{Interval: time.Hour})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- m.Serve(ctx) }()

	// The immediate first backup should appear before cancel.
	deadline := time.After(2 * time.Second)
	for {
		paths, err := m.List()
		if err == nil && len(paths) == 1 {
			break
		}
		select {
		case <-deadline:
			t.Fatal("initial backup never appeared")
		case <-time.After(10 * time.Millisecond):
		}
	}

	cancel()
	select {
	case err := <-done:
		if err != context.Canceled {
			t.Errorf("Serve returned %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Serve did not stop after cancel")
	}
}

func TestNewManagerValidation(t *testing.T) {
	if _, err := NewManager("db.json", Config{Dir: ""}, zerolog.Nop()); err == nil {
		t.Error("NewManager accepted empty dir")
	}
}

func TestDefaultsApplied(t *testing.T) {
	m, _ := newTestManager(t, Config{})
	if m.cfg.Interval != 24*time.Hour || m.cfg.MaxCount != 14 {
		t.Errorf("defaults = %+v", m.cfg)
	}
}
