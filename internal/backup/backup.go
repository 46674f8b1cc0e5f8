// My Library - Personal Book Library Tracker
// Copyright 2026 stratonov777
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/stratonov777/my-library

// Package backup makes scheduled gzip copies of the library database file.
//
// The whole library lives in one JSON file, so a backup is a timestamped
// compressed copy. Retention keeps the newest N copies and prunes the rest.
package backup

import (
	"compress/gzip"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// Config holds backup settings.
type Config struct {
	// Enabled turns scheduled backups on.
	Enabled bool `koanf:"enabled"`

	// Dir is where backup files are written.
	Dir string `koanf:"dir"`

	// Interval between scheduled backups. Default: 24h.
	Interval time.Duration `koanf:"interval"`

	// MaxCount is how many backups to keep. Older ones are pruned.
	// Default: 14.
	MaxCount int `koanf:"max_count"`
}

// backupPrefix and backupExt bound what Prune will touch: only files this
// package itself produced.
const (
	backupPrefix = "library-"
	backupExt    = ".json.gz"
)

// Manager creates and prunes backups of one database file.
type Manager struct {
	storePath string
	cfg       Config
	logger    zerolog.Logger
}

// NewManager creates a backup manager for the given database file.
func NewManager(storePath string, cfg Config, logger zerolog.Logger) (*Manager, error) {
	if cfg.Interval <= 0 {
		cfg.Interval = 24 * time.Hour
	}
	if cfg.MaxCount <= 0 {
		cfg.MaxCount = 14
	}
	if cfg.Dir == "" {
		return nil, fmt.Errorf("backup dir must not be empty")
	}
	if err := os.MkdirAll(cfg.Dir, 0o750); err != nil {
		return nil, fmt.Errorf("create backup dir: %w", err)
	}

	return &Manager{storePath: storePath, cfg: cfg, logger: logger}, nil
}

// Create writes one timestamped gzip copy of the database file and returns
// its path.
func (m *Manager) Create(ctx context.Context) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	src, err := os.Open(m.storePath)
	if err != nil {
		return "", fmt.Errorf("open database file: %w", err)
	}
	defer src.Close()

	name := backupPrefix + time.Now().UTC().Format("20060102-150405") + backupExt
	path := filepath.Join(m.cfg.Dir, name)

	// Write to a temp file first so a crash never leaves a truncated
	// backup under the final name.
	tmp, err := os.CreateTemp(m.cfg.Dir, name+".tmp")
	if err != nil {
		return "", fmt.Errorf("create temp backup: %w", err)
	}
	defer os.Remove(tmp.Name())

	gz := gzip.NewWriter(tmp)
	if _, err := io.Copy(gz, src); err != nil {
		tmp.Close()
		return "", fmt.Errorf("compress backup: %w", err)
	}
	if err := gz.Close(); err != nil {
		tmp.Close()
		return "", fmt.Errorf("finish backup: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return "", fmt.Errorf("close backup: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return "", fmt.Errorf("finalize backup: %w", err)
	}

	m.logger.Info().Str("path", path).Msg("Backup created")
	return path, nil
}

// Prune removes the oldest backups beyond MaxCount. Files not produced by
// this package are left alone.
func (m *Manager) Prune() error {
	backups, err := m.List()
	if err != nil {
		return err
	}
	if len(backups) <= m.cfg.MaxCount {
		return nil
	}

	for _, path := range backups[:len(backups)-m.cfg.MaxCount] {
		if err := os.Remove(path); err != nil {
			return fmt.Errorf("prune backup %s: %w", path, err)
		}
		m.logger.Debug().Str("path", path).Msg("Backup pruned")
	}
	return nil
}

// List returns backup file paths sorted oldest first. The timestamped
// naming makes lexical order chronological.
func (m *Manager) List() ([]string, error) {
	entries, err := os.ReadDir(m.cfg.Dir)
	if err != nil {
		return nil, fmt.Errorf("read backup dir: %w", err)
	}

	var paths []string
	for _, e := range entries {
		name := e.Name()
		if e.Type().IsRegular() &&
			strings.HasPrefix(name, backupPrefix) &&
			strings.HasSuffix(name, backupExt) {
			paths = append(paths, filepath.Join(m.cfg.Dir, name))
		}
	}
	sort.Strings(paths)
	return paths, nil
}

// Serve implements suture.Service: one backup immediately, then one per
// interval, pruning after each.
func (m *Manager) Serve(ctx context.Context) error {
	ticker := time.NewTicker(m.cfg.Interval)
	defer ticker.Stop()

	m.runOnce(ctx)
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			m.runOnce(ctx)
		}
	}
}

func (m *Manager) runOnce(ctx context.Context) {
	if _, err := m.Create(ctx); err != nil {
		m.logger.Error().Err(err).Msg("Scheduled backup failed")
		return
	}
	if err := m.Prune(); err != nil {
		m.logger.Error().Err(err).Msg("Backup pruning failed")
	}
}

// String identifies the service in supervisor logs.
func (m *Manager) String() string {
	return "backup-scheduler"
}
