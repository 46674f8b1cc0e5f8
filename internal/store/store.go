// My Library - Personal Book Library Tracker
// Copyright 2026 stratonov777
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/stratonov777/my-library

// Package store persists the book library to a single JSON file.
//
// The file layout is the historical database.json shape: an object with
// myLibrary and wishlist arrays. Every mutation rewrites the whole file via
// a temp-file rename so a crash mid-write never leaves a truncated database.
//
// Ids are assigned by the store and are strictly monotonic: the greater of
// the current Unix-millisecond clock and lastID+1. This preserves the
// timestamp-derived ids of existing data while making collisions impossible
// for rapid consecutive inserts.
package store

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/goccy/go-json"

	"github.com/stratonov777/my-library/internal/logging"
	"github.com/stratonov777/my-library/internal/metrics"
	"github.com/stratonov777/my-library/internal/models"
)

// ErrNotFound is returned when no book with the requested id exists in
// either collection.
var ErrNotFound = errors.New("book not found")

// Config holds store configuration.
type Config struct {
	// Path is the location of the JSON database file.
	Path string `koanf:"path"`

	// CreateIfMissing writes an empty database when the file does not exist
	// instead of failing.
	CreateIfMissing bool `koanf:"create_if_missing"`
}

// Store is a JSON-file-backed book store. It is safe for concurrent use;
// mutations serialize on an internal mutex and rewrite the file atomically.
type Store struct {
	path   string
	mu     sync.RWMutex
	lib    models.Library
	lastID int64
}

// Open loads the database file at cfg.Path and returns a ready Store.
func Open(cfg Config) (*Store, error) {
	s := &Store{path: cfg.Path}

	data, err := os.ReadFile(cfg.Path)
	switch {
	case err == nil:
		if err := json.Unmarshal(data, &s.lib); err != nil {
			return nil, fmt.Errorf("parse database file %s: %w", cfg.Path, err)
		}
	case os.IsNotExist(err) && cfg.CreateIfMissing:
		s.lib = models.Library{MyLibrary: []models.Book{}, Wishlist: []models.Book{}}
		if err := s.flushLocked(); err != nil {
			return nil, fmt.Errorf("create database file %s: %w", cfg.Path, err)
		}
	default:
		return nil, fmt.Errorf("read database file %s: %w", cfg.Path, err)
	}

	s.lastID = maxID(&s.lib)
	s.publishGauges()

	logging.Info().
		Str("path", cfg.Path).
		Int("library", len(s.lib.MyLibrary)).
		Int("wishlist", len(s.lib.Wishlist)).
		Msg("Book store opened")

	return s, nil
}

// maxID returns the largest id across both collections.
func maxID(lib *models.Library) int64 {
	var max int64
	for i := range lib.MyLibrary {
		if lib.MyLibrary[i].ID > max {
			max = lib.MyLibrary[i].ID
		}
	}
	for i := range lib.Wishlist {
		if lib.Wishlist[i].ID > max {
			max = lib.Wishlist[i].ID
		}
	}
	return max
}

// nextID issues a fresh id. Must be called with mu held for writing.
func (s *Store) nextID() int64 {
	id := time.Now().UnixMilli()
	if id <= s.lastID {
		id = s.lastID + 1
	}
	s.lastID = id
	return id
}

// GetAll returns a deep-enough copy of both collections. Callers may filter
// and reorder the slices freely; element mutation is not part of the
// contract.
func (s *Store) GetAll(ctx context.Context) (models.Library, error) {
	defer metrics.ObserveStoreOp("get_all", time.Now())

	if err := ctx.Err(); err != nil {
		return models.Library{}, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	return models.Library{
		MyLibrary: append([]models.Book(nil), s.lib.MyLibrary...),
		Wishlist:  append([]models.Book(nil), s.lib.Wishlist...),
	}, nil
}

// GetByID returns the book with the given id from either collection.
func (s *Store) GetByID(ctx context.Context, id int64) (models.Book, error) {
	defer metrics.ObserveStoreOp("get_by_id", time.Now())

	if err := ctx.Err(); err != nil {
		return models.Book{}, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	book, _, ok := s.lib.FindByID(id)
	if !ok {
		return models.Book{}, ErrNotFound
	}
	return book, nil
}

// Insert adds a book to the given collection, assigns its id, persists, and
// returns the stored book. Any id on the input is ignored.
func (s *Store) Insert(ctx context.Context, col models.Collection, book models.Book) (models.Book, error) {
	defer metrics.ObserveStoreOp("insert", time.Now())

	if err := ctx.Err(); err != nil {
		return models.Book{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	book.ID = s.nextID()
	switch col {
	case models.CollectionWishlist:
		s.lib.Wishlist = append(s.lib.Wishlist, book)
	default:
		s.lib.MyLibrary = append(s.lib.MyLibrary, book)
	}

	if err := s.flushLocked(); err != nil {
		return models.Book{}, err
	}

	logging.Debug().Int64("id", book.ID).Str("title", book.Title).Msg("Book inserted")
	return book, nil
}

// Replace overwrites all fields of the book with the given id, searching
// myLibrary first and then the wishlist. The id is preserved regardless of
// what the replacement carries.
func (s *Store) Replace(ctx context.Context, id int64, book models.Book) (models.Book, error) {
	defer metrics.ObserveStoreOp("replace", time.Now())

	if err := ctx.Err(); err != nil {
		return models.Book{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	book.ID = id
	if i := indexOf(s.lib.MyLibrary, id); i >= 0 {
		s.lib.MyLibrary[i] = book
	} else if i := indexOf(s.lib.Wishlist, id); i >= 0 {
		s.lib.Wishlist[i] = book
	} else {
		return models.Book{}, ErrNotFound
	}

	if err := s.flushLocked(); err != nil {
		return models.Book{}, err
	}
	return book, nil
}

// PatchLocation updates only the location type of a library book, keeping
// any borrower fields intact. This mirrors the home<->work toggle in the UI.
func (s *Store) PatchLocation(ctx context.Context, id int64, newType models.LocationType) (models.Book, error) {
	defer metrics.ObserveStoreOp("patch_location", time.Now())

	if err := ctx.Err(); err != nil {
		return models.Book{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	i := indexOf(s.lib.MyLibrary, id)
	if i < 0 {
		return models.Book{}, ErrNotFound
	}

	book := &s.lib.MyLibrary[i]
	if book.Location != nil {
		book.Location.Type = newType
	} else {
		book.Location = &models.Location{Type: newType}
	}

	if err := s.flushLocked(); err != nil {
		return models.Book{}, err
	}
	return *book, nil
}

// ReturnFromLoan records that a lent book came back, placing it at the given
// location and clearing the borrower fields.
func (s *Store) ReturnFromLoan(ctx context.Context, id int64, returnTo models.LocationType) (models.Book, error) {
	defer metrics.ObserveStoreOp("return_from_loan", time.Now())

	if err := ctx.Err(); err != nil {
		return models.Book{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	i := indexOf(s.lib.MyLibrary, id)
	if i < 0 {
		return models.Book{}, ErrNotFound
	}

	s.lib.MyLibrary[i].Location = &models.Location{Type: returnTo}

	if err := s.flushLocked(); err != nil {
		return models.Book{}, err
	}
	return s.lib.MyLibrary[i], nil
}

// Delete removes the book with the given id from whichever collection holds
// it.
func (s *Store) Delete(ctx context.Context, id int64) error {
	defer metrics.ObserveStoreOp("delete", time.Now())

	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if i := indexOf(s.lib.MyLibrary, id); i >= 0 {
		s.lib.MyLibrary = append(s.lib.MyLibrary[:i], s.lib.MyLibrary[i+1:]...)
	} else if i := indexOf(s.lib.Wishlist, id); i >= 0 {
		s.lib.Wishlist = append(s.lib.Wishlist[:i], s.lib.Wishlist[i+1:]...)
	} else {
		return ErrNotFound
	}

	if err := s.flushLocked(); err != nil {
		return err
	}

	logging.Debug().Int64("id", id).Msg("Book deleted")
	return nil
}

// indexOf returns the index of the book with the given id, or -1.
func indexOf(books []models.Book, id int64) int {
	for i := range books {
		if books[i].ID == id {
			return i
		}
	}
	return -1
}

// flushLocked writes the library to disk atomically. Must be called with mu
// held for writing.
func (s *Store) flushLocked() error {
	start := time.Now()

	data, err := json.MarshalIndent(&s.lib, "", "  ")
	if err != nil {
		metrics.RecordStoreError("flush", "marshal")
		return fmt.Errorf("marshal database: %w", err)
	}

	dir := filepath.Dir(s.path)
	tmp, err := os.CreateTemp(dir, ".mylibrary-*.json")
	if err != nil {
		metrics.RecordStoreError("flush", "temp_file")
		return fmt.Errorf("create temp database file: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		metrics.RecordStoreError("flush", "write")
		return fmt.Errorf("write temp database file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		metrics.RecordStoreError("flush", "close")
		return fmt.Errorf("close temp database file: %w", err)
	}
	if err := os.Rename(tmpName, s.path); err != nil {
		os.Remove(tmpName)
		metrics.RecordStoreError("flush", "rename")
		return fmt.Errorf("replace database file: %w", err)
	}

	s.publishGauges()
	metrics.StoreFlushDuration.Observe(time.Since(start).Seconds())
	return nil
}

// publishGauges updates the per-collection book count gauges.
func (s *Store) publishGauges() {
	metrics.SetBookCount(string(models.CollectionMyLibrary), len(s.lib.MyLibrary))
	metrics.SetBookCount(string(models.CollectionWishlist), len(s.lib.Wishlist))
}
