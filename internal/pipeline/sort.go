// My Library - Personal Book Library Tracker
// Copyright 2026 stratonov777
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/stratonov777/my-library

package pipeline

import (
	"sort"

	"golang.org/x/text/collate"

	"github.com/stratonov777/my-library/internal/models"
)

// SortKey names one of the supported orderings.
type SortKey string

const (
	SortDefault    SortKey = "default"
	SortTitleAsc   SortKey = "title-asc"
	SortTitleDesc  SortKey = "title-desc"
	SortAuthorAsc  SortKey = "author-asc"
	SortAuthorDesc SortKey = "author-desc"
	SortRatingDesc SortKey = "rating-desc"
	SortRatingAsc  SortKey = "rating-asc"
	SortDateDesc   SortKey = "date-desc"
	SortDateAsc    SortKey = "date-asc"
)

// Missing-value sentinels. Unrated and undated books sort last in BOTH
// directions, so each direction needs its own substitute.
const (
	ratingMissingDesc = 0
	ratingMissingAsc  = 11
	dateMissingDesc   = "1970-01-01"
	dateMissingAsc    = "9999-12-31"
)

// sortBooks orders books in place by the given key. SortDefault and unknown
// keys leave the incoming order untouched. All sorts are stable.
func sortBooks(books []models.Book, key SortKey, col *collate.Collator) {
	var less func(a, b *models.Book) bool

	switch key {
	case SortTitleAsc:
		less = func(a, b *models.Book) bool { return col.CompareString(a.Title, b.Title) < 0 }
	case SortTitleDesc:
		less = func(a, b *models.Book) bool { return col.CompareString(b.Title, a.Title) < 0 }
	case SortAuthorAsc:
		less = func(a, b *models.Book) bool { return col.CompareString(a.Author, b.Author) < 0 }
	case SortAuthorDesc:
		less = func(a, b *models.Book) bool { return col.CompareString(b.Author, a.Author) < 0 }
	case SortRatingDesc:
		less = func(a, b *models.Book) bool {
			return ratingOr(a, ratingMissingDesc) > ratingOr(b, ratingMissingDesc)
		}
	case SortRatingAsc:
		less = func(a, b *models.Book) bool {
			return ratingOr(a, ratingMissingAsc) < ratingOr(b, ratingMissingAsc)
		}
	case SortDateDesc:
		less = func(a, b *models.Book) bool {
			return dateOr(a, dateMissingDesc) > dateOr(b, dateMissingDesc)
		}
	case SortDateAsc:
		less = func(a, b *models.Book) bool {
			return dateOr(a, dateMissingAsc) < dateOr(b, dateMissingAsc)
		}
	default:
		return
	}

	sort.SliceStable(books, func(i, j int) bool { return less(&books[i], &books[j]) })
}

func ratingOr(b *models.Book, missing int) int {
	if b.Rating == nil || b.Rating.Overall == nil {
		return missing
	}
	return *b.Rating.Overall
}

// dateOr returns the ISO dateRead string, or the sentinel when absent.
// ISO dates compare correctly as plain strings.
func dateOr(b *models.Book, missing string) string {
	if b.DateRead == "" {
		return missing
	}
	return b.DateRead
}
