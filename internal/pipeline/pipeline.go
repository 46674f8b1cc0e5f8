// My Library - Personal Book Library Tracker
// Copyright 2026 stratonov777
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/stratonov777/my-library

// Package pipeline derives the visible book list for the browse view.
//
// A single Apply call runs the stages in a fixed order: shelf selection,
// attribute filters, location filter, dropdown option recomputation,
// free-text search, sort. The option sets are computed after filtering but
// before search, which is what makes the dropdowns cascade: each one only
// offers values still reachable given the other active filters.
//
// Apply is a pure function of its inputs. Books with missing fields never
// fail a stage; they degrade to zero values and simply sort or filter as
// such.
package pipeline

import (
	"strings"

	"github.com/rs/zerolog"
	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/stratonov777/my-library/internal/models"
)

// Shelf selects the base set a browse query starts from.
type Shelf string

const (
	ShelfMyLibrary Shelf = "my-library"
	ShelfToRead    Shelf = "to-read"
	ShelfWishlist  Shelf = "wishlist"
)

// FilterAll is the sentinel dropdown value that disables a filter. An empty
// string is treated the same way so absent query parameters need no special
// casing.
const FilterAll = "all"

// Filters holds one selection per dropdown. A value of FilterAll or ""
// leaves that dimension unfiltered; anything else is an exact match.
type Filters struct {
	Author          string
	Genre           string
	AuthorSeries    string
	PublisherSeries string
	Format          string
	Location        string
}

// Query is one browse request: which shelf, which filters, what search text,
// and how to order the result.
type Query struct {
	Shelf   Shelf
	Filters Filters
	Search  string
	Sort    SortKey
}

// Options are the distinct values observed in the filtered set, one list per
// dropdown, each sorted with locale-aware collation.
type Options struct {
	Authors         []string `json:"authors"`
	Genres          []string `json:"genres"`
	AuthorSeries    []string `json:"authorSeries"`
	PublisherSeries []string `json:"publisherSeries"`
}

// Result is the output of one Apply call.
type Result struct {
	Visible []models.Book `json:"visible"`
	Options Options       `json:"options"`
}

// Pipeline applies browse queries to a library snapshot.
type Pipeline struct {
	lang   language.Tag
	logger zerolog.Logger
}

// New creates a pipeline collating strings for the given BCP 47 language
// tag. An empty or unparseable tag falls back to Russian, matching the
// catalog's data.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func New(langTag string, logger zerolog.Logger) *Pipeline {
	tag, err := language.Parse(langTag)
	if err != nil {
		tag = language.Russian
	}
	return &Pipeline{
		lang:   tag,
		logger: logger.With().Str("component", "pipeline").Logger(),
	}
}

// Apply runs the full stage sequence over the library snapshot and returns
// the visible books plus the cascading dropdown options.
func (p *Pipeline) Apply(lib models.Library, q Query) Result {
	// collate.Collator is not safe for concurrent use, so each Apply gets
	// its own.
	col := collate.New(p.lang)

	books := selectShelf(lib, q.Shelf)
	books = applyFilters(books, q.Filters)
	books = applyLocation(books, q.Filters.Location)
	opts := collectOptions(books, col)
	books = applySearch(books, q.Search)
	sortBooks(books, q.Sort, col)

	p.logger.Debug().
		Str("shelf", string(q.Shelf)).
		Str("sort", string(q.Sort)).
		Int("visible", len(books)).
		Msg("browse query applied")

	return Result{Visible: books, Options: opts}
}

// selectShelf copies the base set for the shelf. Unknown shelves yield an
// empty set rather than an error.
func selectShelf(lib models.Library, shelf Shelf) []models.Book {
	switch shelf {
	case ShelfMyLibrary:
		return append([]models.Book(nil), lib.MyLibrary...)
	case ShelfToRead:
		out := make([]models.Book, 0)
		for _, b := range lib.MyLibrary {
			if b.Status == models.StatusToRead {
				out = append(out, b)
			}
		}
		return out
	case ShelfWishlist:
		return append([]models.Book(nil), lib.Wishlist...)
	default:
		return []models.Book{}
	}
}

// active reports whether a dropdown selection narrows the set.
func active(v string) bool {
	return v != "" && v != FilterAll
}

// applyFilters narrows by every active attribute filter in turn. The stages
// AND together because each one feeds the next.
func applyFilters(books []models.Book, f Filters) []models.Book {
	if active(f.Author) {
		books = keep(books, func(b *models.Book) bool { return b.Author == f.Author })
	}
	if active(f.Genre) {
		books = keep(books, func(b *models.Book) bool { return b.Genre == f.Genre })
	}
	if active(f.AuthorSeries) {
		books = keep(books, func(b *models.Book) bool { return b.SeriesName() == f.AuthorSeries })
	}
	if active(f.PublisherSeries) {
		books = keep(books, func(b *models.Book) bool { return b.PublisherSeries == f.PublisherSeries })
	}
	if active(f.Format) {
		books = keep(books, func(b *models.Book) bool { return string(b.Format) == f.Format })
	}
	return books
}

// applyLocation keeps physical books whose normalized location type matches.
// Books without a location, or with a non-physical format, fail the filter
// when it is active.
func applyLocation(books []models.Book, loc string) []models.Book {
	if !active(loc) {
		return books
	}
	return keep(books, func(b *models.Book) bool {
		return b.LocationTypeOrEmpty() == models.LocationType(loc)
	})
}

// applySearch keeps books whose title or author contains the trimmed query,
// case-insensitively. An empty query is a no-op.
func applySearch(books []models.Book, query string) []models.Book {
	query = strings.ToLower(strings.TrimSpace(query))
	if query == "" {
		return books
	}
	return keep(books, func(b *models.Book) bool {
		return strings.Contains(strings.ToLower(b.Title), query) ||
			strings.Contains(strings.ToLower(b.Author), query)
	})
}

func keep(books []models.Book, pred func(*models.Book) bool) []models.Book {
	out := books[:0]
	for i := range books {
		if pred(&books[i]) {
			out = append(out, books[i])
		}
	}
	return out
}

// collectOptions gathers the distinct dropdown values present in the
// filtered set. Empty values are skipped; a dropdown never offers "".
func collectOptions(books []models.Book, col *collate.Collator) Options {
	authors := map[string]struct{}{}
	genres := map[string]struct{}{}
	series := map[string]struct{}{}
	pubSeries := map[string]struct{}{}

	for i := range books {
		b := &books[i]
		addNonEmpty(authors, b.Author)
		addNonEmpty(genres, b.Genre)
		addNonEmpty(series, b.SeriesName())
		addNonEmpty(pubSeries, b.PublisherSeries)
	}

	return Options{
		Authors:         sortedKeys(authors, col),
		Genres:          sortedKeys(genres, col),
		AuthorSeries:    sortedKeys(series, col),
		PublisherSeries: sortedKeys(pubSeries, col),
	}
}

func addNonEmpty(set map[string]struct{}, v string) {
	if v != "" {
		set[v] = struct{}{}
	}
}

func sortedKeys(set map[string]struct{}, col *collate.Collator) []string {
	out := make([]string, 0, len(set))
	for v := range set {
		out = append(out, v)
	}
	col.SortStrings(out)
	return out
}
