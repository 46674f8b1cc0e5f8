// My Library - Personal Book Library Tracker
// Copyright 2026 stratonov777
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/stratonov777/my-library

// Package models defines the Book entity and its nested value types.
//
// The package has no dependencies on other internal packages so that the
// store, pipeline, recommendation engine, and API layers can all share the
// same types without import cycles.
//
// The one piece of logic that lives here is location-shape normalization:
// the database file historically stored a book's location either as a bare
// string ("home"/"work") or as a structured object. Location's custom
// UnmarshalJSON accepts both and always yields the structured shape, so the
// rest of the codebase never branches on the legacy form.
package models
