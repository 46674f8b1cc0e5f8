// My Library - Personal Book Library Tracker
// Copyright 2026 stratonov777
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/stratonov777/my-library

package recommend

import (
	"testing"

	"github.com/rs/zerolog"

	"github.com/stratonov777/my-library/internal/models"
)

func newTestEngine() *Engine {
	return NewEngine(DefaultConfig(), zerolog.Nop())
}

func TestRecommendUnknownSource(t *testing.T) {
	e := newTestEngine()

	got := e.Recommend(42, []models.Book{{ID: 1, Author: "A"}})
	if len(got) != 0 {
		t.Errorf("Recommend(unknown) returned %d books, want 0", len(got))
	}
}

func TestRecommendNoSharedAttributes(t *testing.T) {
	e := newTestEngine()
	library := []models.Book{
		{ID: 1, Author: "Tolkien", Genre: "Fantasy", Tags: []string{"elves"}},
		{ID: 2, Author: "Lem", Genre: "Sci-Fi", Tags: []string{"space"}},
		{ID: 3, Author: "Pratchett", Genre: "Humor", Tags: []string{"discworld"}},
	}

	if got := e.Recommend(1, library); len(got) != 0 {
		t.Errorf("no shared attributes should yield empty result, got %d", len(got))
	}
}

func TestRecommendScoring(t *testing.T) {
	e := newTestEngine()
	library := []models.Book{
		{ID: 1, Author: "Tolkien", Genre: "Fantasy", Tags: []string{"elves", "rings"}},
		// Same author: 10.
		{ID: 2, Author: "Tolkien", Genre: "Letters"},
		// Same genre + one shared tag: 5 + 2 = 7.
		{ID: 3, Author: "Sapkowski", Genre: "Fantasy", Tags: []string{"elves"}},
		// One shared tag: 2.
		{ID: 4, Author: "Rothfuss", Genre: "Epic", Tags: []string{"rings"}},
		// Nothing shared: excluded.
		{ID: 5, Author: "Lem", Genre: "Sci-Fi"},
	}

	got := e.Recommend(1, library)
	wantIDs := []int64{2, 3, 4}
	if len(got) != len(wantIDs) {
		t.Fatalf("got %d recommendations, want %d", len(got), len(wantIDs))
	}
	for i, want := range wantIDs {
		if got[i].ID != want {
			t.Errorf("position %d: id = %d, want %d", i, got[i].ID, want)
		}
	}
	if got[0].Score != 10 || got[1].Score != 7 || got[2].Score != 2 {
		t.Errorf("scores = [%d %d %d], want [10 7 2]", got[0].Score, got[1].Score, got[2].Score)
	}
}

func TestRecommendEmptyGenreDoesNotMatch(t *testing.T) {
	e := newTestEngine()
	library := []models.Book{
		{ID: 1, Author: "A", Genre: ""},
		{ID: 2, Author: "B", Genre: ""},
	}

	if got := e.Recommend(1, library); len(got) != 0 {
		t.Errorf("two empty genres must not count as a match, got %d results", len(got))
	}
}

func TestRecommendExcludesSource(t *testing.T) {
	e := newTestEngine()
	library := []models.Book{
		{ID: 1, Author: "Same", Genre: "G", Tags: []string{"t"}},
		{ID: 2, Author: "Same", Genre: "G", Tags: []string{"t"}},
	}

	got := e.Recommend(1, library)
	for _, r := range got {
		if r.ID == 1 {
			t.Error("source book appeared in its own recommendations")
		}
	}
}

func TestRecommendLimit(t *testing.T) {
	e := newTestEngine()
	library := []models.Book{{ID: 100, Author: "Same"}}
	for i := int64(1); i <= 8; i++ {
		library = append(library, models.Book{ID: i, Author: "Same"})
	}

	got := e.Recommend(100, library)
	if len(got) != 5 {
		t.Errorf("got %d recommendations, want limit 5", len(got))
	}
}

func TestRecommendTieBreakByID(t *testing.T) {
	e := newTestEngine()
	// All candidates score 10; ids are deliberately out of order.
	library := []models.Book{
		{ID: 50, Author: "Same"},
		{ID: 30, Author: "Same"},
		{ID: 40, Author: "Same"},
		{ID: 10, Author: "Same"},
	}

	got := e.Recommend(50, library)
	wantIDs := []int64{10, 30, 40}
	for i, want := range wantIDs {
		if got[i].ID != want {
			t.Errorf("position %d: id = %d, want %d", i, got[i].ID, want)
		}
	}
}

func TestRecommendSharedTagsEachCountOnce(t *testing.T) {
	e := newTestEngine()
	library := []models.Book{
		{ID: 1, Author: "A", Tags: []string{"x", "y", "z"}},
		{ID: 2, Author: "B", Tags: []string{"x", "y"}},
	}

	got := e.Recommend(1, library)
	if len(got) != 1 {
		t.Fatalf("got %d results, want 1", len(got))
	}
	if got[0].Score != 4 {
		t.Errorf("score = %d, want 4 (two shared tags)", got[0].Score)
	}
}

func TestNewEngineZeroConfigUsesDefaults(t *testing.T) {
	e := NewEngine(Config{}, zerolog.Nop())
	if e.config != DefaultConfig() {
		t.Errorf("config = %+v, want defaults", e.config)
	}
}
