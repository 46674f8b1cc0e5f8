// My Library - Personal Book Library Tracker
// Copyright 2026 stratonov777
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/stratonov777/my-library

package pipeline

import (
	"reflect"
	"testing"

	"github.com/stratonov777/my-library/internal/models"
)

func numbered(n int) []models.Book {
	books := make([]models.Book, n)
	for i := range books {
		books[i] = models.Book{ID: int64(i)}
	}
	return books
}

func TestWindow(t *testing.T) {
	books := numbered(5)

	tests := []struct {
		name string
		page int
		size int
		want []int64
	}{
		{"first page", 1, 2, []int64{0, 1}},
		{"second page", 2, 2, []int64{2, 3}},
		{"partial last page", 3, 2, []int64{4}},
		{"past the end", 4, 2, []int64{}},
		{"page zero treated as one", 0, 2, []int64{0, 1}},
		{"size covers all", 1, 10, []int64{0, 1, 2, 3, 4}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Window(books, tt.page, tt.size)
			if !reflect.DeepEqual(ids(got), tt.want) {
				t.Errorf("Window(%d, %d) = %v, want %v", tt.page, tt.size, ids(got), tt.want)
			}
		})
	}
}

func TestWindowDefaultSize(t *testing.T) {
	books := numbered(20)

	got := Window(books, 1, 0)
	if len(got) != DefaultPageSize {
		t.Errorf("Window with size 0 returned %d books, want %d", len(got), DefaultPageSize)
	}
	got = Window(books, 2, 0)
	if len(got) != 20-DefaultPageSize {
		t.Errorf("second default page has %d books, want %d", len(got), 20-DefaultPageSize)
	}
}

func TestWindowThrough(t *testing.T) {
	books := numbered(5)

	// "Show more" on page 3 renders everything through index 4: the window
	// for page 3 appended onto the four already shown.
	got := WindowThrough(books, 3, 2)
	if want := []int64{0, 1, 2, 3, 4}; !reflect.DeepEqual(ids(got), want) {
		t.Errorf("WindowThrough(3, 2) = %v, want %v", ids(got), want)
	}

	got = WindowThrough(books, 1, 2)
	if want := []int64{0, 1}; !reflect.DeepEqual(ids(got), want) {
		t.Errorf("WindowThrough(1, 2) = %v, want %v", ids(got), want)
	}
}

func TestPageCount(t *testing.T) {
	tests := []struct {
		total, size, want int
	}{
		{0, 2, 1},
		{1, 2, 1},
		{4, 2, 2},
		{5, 2, 3},
		{15, 15, 1},
		{16, 15, 2},
	}

	for _, tt := range tests {
		if got := PageCount(tt.total, tt.size); got != tt.want {
			t.Errorf("PageCount(%d, %d) = %d, want %d", tt.total, tt.size, got, tt.want)
		}
	}
}
