// My Library - Personal Book Library Tracker
// Copyright 2026 stratonov777
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/stratonov777/my-library

// Package recommend ranks library books by similarity to a source book.
//
// The scoring is a deliberately simple shared-attribute heuristic: same
// author weighs most, same genre less, and each shared tag adds a little.
// Candidates scoring zero are dropped, the rest are ordered by score with an
// id-ascending tie-break, and the result is truncated to the configured
// limit. Only owned library books participate; the wishlist never feeds
// recommendations.
//
// The engine is a pure function of its inputs and is safe for concurrent
// use.
package recommend

import (
	"sort"

	"github.com/rs/zerolog"

	"github.com/stratonov777/my-library/internal/models"
)

// Config holds the scoring weights and result limit.
type Config struct {
	// AuthorWeight is added when the candidate shares the source's author
	// (case-sensitive exact match).
	AuthorWeight int `koanf:"author_weight"`

	// GenreWeight is added when both books carry the same non-empty genre.
	GenreWeight int `koanf:"genre_weight"`

	// TagWeight is added once per tag present on both books.
	TagWeight int `koanf:"tag_weight"`

	// Limit caps the number of returned recommendations.
	Limit int `koanf:"limit"`
}

// DefaultConfig returns the historical weights: +10 author, +5 genre, +2 per
// shared tag, top 5.
func DefaultConfig() Config {
	return Config{
		AuthorWeight: 10,
		GenreWeight:  5,
		TagWeight:    2,
		Limit:        5,
	}
}

// ScoredBook is a recommendation candidate together with its score, matching
// the wire shape the frontend has always consumed ({...book, score}).
type ScoredBook struct {
	models.Book
	Score int `json:"score"`
}

// Engine computes book recommendations.
type Engine struct {
	config Config
	logger zerolog.Logger
}

// NewEngine creates an engine with the given configuration. Zero weights and
// limit fall back to the defaults.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewEngine(cfg Config, logger zerolog.Logger) *Engine {
	def := DefaultConfig()
	if cfg.AuthorWeight == 0 {
		cfg.AuthorWeight = def.AuthorWeight
	}
	if cfg.GenreWeight == 0 {
		cfg.GenreWeight = def.GenreWeight
	}
	if cfg.TagWeight == 0 {
		cfg.TagWeight = def.TagWeight
	}
	if cfg.Limit == 0 {
		cfg.Limit = def.Limit
	}

	return &Engine{
		config: cfg,
		logger: logger.With().Str("component", "recommend").Logger(),
	}
}

// Recommend returns up to Limit library books similar to the book with
// sourceID, ordered by descending score. An unknown sourceID yields an empty
// slice, never an error: an empty shelf of suggestions is a normal outcome,
// not a failure.
func (e *Engine) Recommend(sourceID int64, library []models.Book) []ScoredBook {
	source, ok := findByID(library, sourceID)
	if !ok {
		e.logger.Debug().Int64("source_id", sourceID).Msg("source book not in library")
		return []ScoredBook{}
	}

	sourceTags := make(map[string]struct{}, len(source.Tags))
	for _, tag := range source.Tags {
		sourceTags[tag] = struct{}{}
	}

	scored := make([]ScoredBook, 0, len(library))
	for i := range library {
		book := &library[i]
		if book.ID == sourceID {
			continue
		}
		if s := e.score(source, book, sourceTags); s > 0 {
			scored = append(scored, ScoredBook{Book: *book, Score: s})
		}
	}

	// Descending score; equal scores order by id ascending so the result is
	// deterministic regardless of the store's iteration order.
	sort.SliceStable(scored, func(i, j int) bool {
		if scored[i].Score != scored[j].Score {
			return scored[i].Score > scored[j].Score
		}
		return scored[i].ID < scored[j].ID
	})

	if len(scored) > e.config.Limit {
		scored = scored[:e.config.Limit]
	}

	e.logger.Debug().
		Int64("source_id", sourceID).
		Int("candidates", len(library)-1).
		Int("returned", len(scored)).
		Msg("recommendations computed")

	return scored
}

// score computes the similarity of candidate to source.
func (e *Engine) score(source *models.Book, candidate *models.Book, sourceTags map[string]struct{}) int {
	score := 0

	if candidate.Author == source.Author {
		score += e.config.AuthorWeight
	}
	if candidate.Genre != "" && candidate.Genre == source.Genre {
		score += e.config.GenreWeight
	}
	for _, tag := range candidate.Tags {
		if _, ok := sourceTags[tag]; ok {
			score += e.config.TagWeight
		}
	}

	return score
}

func findByID(books []models.Book, id int64) (*models.Book, bool) {
	for i := range books {
		if books[i].ID == id {
			return &books[i], true
		}
	}
	return nil, false
}
