// My Library - Personal Book Library Tracker
// Copyright 2026 stratonov777
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/stratonov777/my-library

package models

import (
	"testing"

	"github.com/goccy/go-json"
)

func TestLocationUnmarshalLegacyString(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want LocationType
	}{
		{"home string", `"home"`, LocationHome},
		{"work string", `"work"`, LocationWork},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var loc Location
			if err := json.Unmarshal([]byte(tt.in), &loc); err != nil {
				t.Fatalf("Unmarshal(%s) error: %v", tt.in, err)
			}
			if loc.Type != tt.want {
				t.Errorf("Type = %q, want %q", loc.Type, tt.want)
			}
			if loc.To != nil || loc.Contact != nil {
				t.Errorf("legacy string must not carry to/contact, got %+v", loc)
			}
		})
	}
}

func TestLocationUnmarshalStructured(t *testing.T) {
	in := `{"type":"lent","to":"Misha","contact":"@misha"}`

	var loc Location
	if err := json.Unmarshal([]byte(in), &loc); err != nil {
		t.Fatalf("Unmarshal error: %v", err)
	}
	if loc.Type != LocationLent {
		t.Errorf("Type = %q, want lent", loc.Type)
	}
	if loc.To == nil || *loc.To != "Misha" {
		t.Errorf("To = %v, want Misha", loc.To)
	}
	if loc.Contact == nil || *loc.Contact != "@misha" {
		t.Errorf("Contact = %v, want @misha", loc.Contact)
	}
}

func TestLocationUnmarshalNullFields(t *testing.T) {
	in := `{"type":"home","to":null,"contact":null}`

	var loc Location
	if err := json.Unmarshal([]byte(in), &loc); err != nil {
		t.Fatalf("Unmarshal error: %v", err)
	}
	if loc.Type != LocationHome || loc.To != nil || loc.Contact != nil {
		t.Errorf("got %+v, want bare home location", loc)
	}
}

func TestBookUnmarshalMixedLocations(t *testing.T) {
	in := `{"myLibrary":[
		{"id":1,"title":"A","format":"physical","location":"work"},
		{"id":2,"title":"B","format":"physical","location":{"type":"lent","to":"K"}}
	],"wishlist":[]}`

	var lib Library
	if err := json.Unmarshal([]byte(in), &lib); err != nil {
		t.Fatalf("Unmarshal error: %v", err)
	}
	if got := lib.MyLibrary[0].LocationTypeOrEmpty(); got != LocationWork {
		t.Errorf("book 1 location = %q, want work", got)
	}
	if got := lib.MyLibrary[1].LocationTypeOrEmpty(); got != LocationLent {
		t.Errorf("book 2 location = %q, want lent", got)
	}
}

func TestLocationTypeOrEmptyNonPhysical(t *testing.T) {
	b := Book{Format: FormatEbook, Location: &Location{Type: LocationHome}}
	if got := b.LocationTypeOrEmpty(); got != "" {
		t.Errorf("ebook location = %q, want empty", got)
	}

	b = Book{Format: FormatPhysical}
	if got := b.LocationTypeOrEmpty(); got != "" {
		t.Errorf("physical without location = %q, want empty", got)
	}
}

func TestOverallRating(t *testing.T) {
	eight := 8
	tests := []struct {
		name string
		book Book
		want int
	}{
		{"no rating", Book{}, 0},
		{"rating without overall", Book{Rating: &Rating{}}, 0},
		{"rated", Book{Rating: &Rating{Overall: &eight}}, 8},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.book.OverallRating(); got != tt.want {
				t.Errorf("OverallRating() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestLibraryFindByID(t *testing.T) {
	lib := Library{
		MyLibrary: []Book{{ID: 1, Title: "A"}, {ID: 2, Title: "B"}},
		Wishlist:  []Book{{ID: 3, Title: "C"}},
	}

	book, col, ok := lib.FindByID(2)
	if !ok || book.Title != "B" || col != CollectionMyLibrary {
		t.Errorf("FindByID(2) = (%+v, %q, %v)", book, col, ok)
	}

	book, col, ok = lib.FindByID(3)
	if !ok || book.Title != "C" || col != CollectionWishlist {
		t.Errorf("FindByID(3) = (%+v, %q, %v)", book, col, ok)
	}

	if _, _, ok := lib.FindByID(99); ok {
		t.Error("FindByID(99) found a book, want miss")
	}
}
