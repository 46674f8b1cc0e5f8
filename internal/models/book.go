// My Library - Personal Book Library Tracker
// Copyright 2026 stratonov777
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/stratonov777/my-library

package models

import (
	"bytes"
	"fmt"

	"github.com/goccy/go-json"
)

// Format identifies the physical medium of a book.
type Format string

// Known book formats. FormatDigital is accepted as a legacy alias for
// FormatEbook in stored data; both compare distinct here and are matched
// exactly by the filter pipeline, mirroring the stored values.
const (
	FormatPhysical  Format = "physical"
	FormatEbook     Format = "ebook"
	FormatDigital   Format = "digital"
	FormatAudiobook Format = "audiobook"
)

// Status is the reading status of a library book.
// Wishlist books carry no status.
type Status string

const (
	StatusRead    Status = "read"
	StatusToRead  Status = "to-read"
	StatusReading Status = "reading"
)

// LocationType says where a physical book currently is.
type LocationType string

const (
	LocationHome LocationType = "home"
	LocationWork LocationType = "work"
	LocationLent LocationType = "lent"
)

// ValidLocationType reports whether s names a known location type.
func ValidLocationType(s string) bool {
	switch LocationType(s) {
	case LocationHome, LocationWork, LocationLent:
		return true
	}
	return false
}

// Location is where a physical book lives. To and Contact are only
// meaningful when Type is LocationLent.
//
// The stored JSON has two historical shapes: a bare string ("home") and the
// structured object. UnmarshalJSON accepts both; the structured shape is the
// only one this codebase produces.
type Location struct {
	Type    LocationType `json:"type"`
	To      *string      `json:"to"`
	Contact *string      `json:"contact"`
}

// locationObject mirrors Location without methods so UnmarshalJSON can
// decode the structured shape without recursing.
type locationObject struct {
	Type    LocationType `json:"type"`
	To      *string      `json:"to"`
	Contact *string      `json:"contact"`
}

// UnmarshalJSON normalizes both historical location shapes into the
// structured form.
func (l *Location) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		return nil
	}

	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return fmt.Errorf("decode legacy location string: %w", err)
		}
		l.Type = LocationType(s)
		l.To = nil
		l.Contact = nil
		return nil
	}

	var obj locationObject
	if err := json.Unmarshal(data, &obj); err != nil {
		return fmt.Errorf("decode location object: %w", err)
	}
	l.Type = obj.Type
	l.To = obj.To
	l.Contact = obj.Contact
	return nil
}

// Series is the author's own cycle a book belongs to, as opposed to
// PublisherSeries which is an imprint label.
type Series struct {
	Name       string `json:"name"`
	BookNumber int    `json:"bookNumber"`
}

// Rating holds the per-aspect scores a reader assigns after finishing a
// book. All fields are optional; nil means not rated.
type Rating struct {
	Overall       *int `json:"overall"`
	Plot          *int `json:"plot"`
	Characters    *int `json:"characters"`
	WorldBuilding *int `json:"worldBuilding"`
	Prose         *int `json:"prose"`
}

// Livelib references the book's page on the LiveLib catalog.
type Livelib struct {
	Rating *float64 `json:"rating"`
	URL    string   `json:"url"`
}

// Book is the sole entity of the tracker. Most fields are optional; records
// imported from older database versions may lack almost everything, and all
// consumers are expected to degrade to zero values rather than fail.
type Book struct {
	ID              int64     `json:"id"`
	Title           string    `json:"title"`
	Author          string    `json:"author"`
	CoverImage      string    `json:"coverImage,omitempty"`
	Format          Format    `json:"format,omitempty"`
	IsOwned         bool      `json:"isOwned,omitempty"`
	Location        *Location `json:"location,omitempty"`
	Genre           string    `json:"genre,omitempty"`
	Series          *Series   `json:"series,omitempty"`
	PublisherSeries string    `json:"publisherSeries,omitempty"`
	Publisher       string    `json:"publisher,omitempty"`
	PublicationYear *int      `json:"publicationYear,omitempty"`
	Tags            []string  `json:"tags,omitempty"`
	KeyThemes       []string  `json:"keyThemes,omitempty"`
	Rating          *Rating   `json:"rating,omitempty"`
	Livelib         *Livelib  `json:"livelib,omitempty"`
	DateRead        string    `json:"dateRead,omitempty"`
	Status          Status    `json:"status,omitempty"`
	MyNotes         string    `json:"myNotes,omitempty"`
}

// SeriesName returns the author-cycle series name, or "" when the book is
// not part of one.
func (b *Book) SeriesName() string {
	if b.Series == nil {
		return ""
	}
	return b.Series.Name
}

// OverallRating returns the overall score, or 0 when the book is unrated.
func (b *Book) OverallRating() int {
	if b.Rating == nil || b.Rating.Overall == nil {
		return 0
	}
	return *b.Rating.Overall
}

// LocationTypeOrEmpty returns the normalized location type, or "" for
// non-physical books and physical books without a recorded location.
func (b *Book) LocationTypeOrEmpty() LocationType {
	if b.Format != FormatPhysical || b.Location == nil {
		return ""
	}
	return b.Location.Type
}

// Library is the full persisted data set: the owned collection plus the
// wishlist. A book id is unique across both slices combined.
type Library struct {
	MyLibrary []Book `json:"myLibrary"`
	Wishlist  []Book `json:"wishlist"`
}

// FindByID returns the book with the given id and the collection holding it.
// The bool result is false when the id is unknown.
func (l *Library) FindByID(id int64) (Book, Collection, bool) {
	for i := range l.MyLibrary {
		if l.MyLibrary[i].ID == id {
			return l.MyLibrary[i], CollectionMyLibrary, true
		}
	}
	for i := range l.Wishlist {
		if l.Wishlist[i].ID == id {
			return l.Wishlist[i], CollectionWishlist, true
		}
	}
	return Book{}, "", false
}

// Collection names one of the two book lists.
type Collection string

const (
	CollectionMyLibrary Collection = "myLibrary"
	CollectionWishlist  Collection = "wishlist"
)
