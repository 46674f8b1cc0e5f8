// My Library - Personal Book Library Tracker
// Copyright 2026 stratonov777
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/stratonov777/my-library

package api

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/goccy/go-json"

	"github.com/stratonov777/my-library/internal/pipeline"
)

// LoginRequest is the body of POST /api/auth/login.
type LoginRequest struct {
	Password string `json:"password" validate:"required"`
}

// PatchLocationRequest is the body of PATCH /api/books/{id}/location.
type PatchLocationRequest struct {
	NewLocation string `json:"newLocation" validate:"required,oneof=home work"`
}

// ReturnBookRequest is the body of PATCH /api/books/{id}/return.
type ReturnBookRequest struct {
	ReturnTo string `json:"returnTo" validate:"required,oneof=home work"`
}

// decodeJSON decodes a request body, rejecting unknown garbage early.
func decodeJSON(r *http.Request, dst interface{}) error {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return fmt.Errorf("decode request body: %w", err)
	}
	return nil
}

// browseQuery maps the browse endpoint's query string onto a pipeline
// query. Unknown shelf, sort, and filter values pass straight through; the
// pipeline treats them as empty set / no-op rather than erroring.
func browseQuery(r *http.Request) pipeline.Query {
	q := r.URL.Query()

	shelf := pipeline.Shelf(q.Get("shelf"))
	if shelf == "" {
		shelf = pipeline.ShelfMyLibrary
	}

	return pipeline.Query{
		Shelf: shelf,
		Filters: pipeline.Filters{
			Author:          q.Get("author"),
			Genre:           q.Get("genre"),
			AuthorSeries:    q.Get("authorSeries"),
			PublisherSeries: q.Get("publisherSeries"),
			Format:          q.Get("format"),
			Location:        q.Get("location"),
		},
		Search: q.Get("q"),
		Sort:   pipeline.SortKey(q.Get("sort")),
	}
}

// browsePaging extracts page, pageSize, and append mode with defaults.
func browsePaging(r *http.Request) (page, pageSize int, appendMode bool) {
	q := r.URL.Query()

	page = 1
	if v, err := strconv.Atoi(q.Get("page")); err == nil && v > 0 {
		page = v
	}
	pageSize = pipeline.DefaultPageSize
	if v, err := strconv.Atoi(q.Get("pageSize")); err == nil && v > 0 {
		pageSize = v
	}
	appendMode = q.Get("append") == "true"
	return page, pageSize, appendMode
}
