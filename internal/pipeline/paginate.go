// My Library - Personal Book Library Tracker
// Copyright 2026 stratonov777
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/stratonov777/my-library

package pipeline

import "github.com/stratonov777/my-library/internal/models"

// DefaultPageSize is the number of book cards per page.
const DefaultPageSize = 15

// Window returns the books for the 1-indexed page, or an empty slice when
// the page lies past the end. A non-positive size falls back to
// DefaultPageSize; a non-positive page is treated as page 1.
func Window(books []models.Book, page, size int) []models.Book {
	page, size = normalize(page, size)

	start := (page - 1) * size
	if start >= len(books) {
		return []models.Book{}
	}
	end := start + size
	if end > len(books) {
		end = len(books)
	}
	return books[start:end]
}

// WindowThrough returns everything from the start through the given page,
// the cumulative view a "show more" sequence has rendered so far.
func WindowThrough(books []models.Book, page, size int) []models.Book {
	page, size = normalize(page, size)

	end := page * size
	if end > len(books) {
		end = len(books)
	}
	return books[:end]
}

// PageCount returns how many pages the set spans; an empty set has one
// (empty) page so the pager always renders a current page.
func PageCount(total, size int) int {
	_, size = normalize(1, size)
	if total <= 0 {
		return 1
	}
	return (total + size - 1) / size
}

func normalize(page, size int) (int, int) {
	if page < 1 {
		page = 1
	}
	if size < 1 {
		size = DefaultPageSize
	}
	return page, size
}
