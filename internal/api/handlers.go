// My Library - Personal Book Library Tracker
// Copyright 2026 stratonov777
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/stratonov777/my-library

package api

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/stratonov777/my-library/internal/auth"
	"github.com/stratonov777/my-library/internal/logging"
	"github.com/stratonov777/my-library/internal/metrics"
	"github.com/stratonov777/my-library/internal/models"
	"github.com/stratonov777/my-library/internal/pipeline"
	"github.com/stratonov777/my-library/internal/recommend"
	"github.com/stratonov777/my-library/internal/store"
	"github.com/stratonov777/my-library/internal/validation"
	"github.com/stratonov777/my-library/internal/websocket"
)

// Handlers implements every API endpoint.
type Handlers struct {
	store    *store.Store
	engine   *recommend.Engine
	pipeline *pipeline.Pipeline
	hub      *websocket.Hub
	auth     *auth.Manager
}

// NewHandlers wires the handlers to their collaborators. The hub may be nil
// in tests; broadcasts are skipped.
func NewHandlers(s *store.Store, engine *recommend.Engine, p *pipeline.Pipeline, hub *websocket.Hub, authMgr *auth.Manager) *Handlers {
	return &Handlers{
		store:    s,
		engine:   engine,
		pipeline: p,
		hub:      hub,
		auth:     authMgr,
	}
}

// Health reports liveness.
func (h *Handlers) Health(w http.ResponseWriter, r *http.Request) {
	NewResponseWriter(w, r).Success(map[string]string{"status": "ok"})
}

// Login checks the owner password and issues a session token.
func (h *Handlers) Login(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)

	var req LoginRequest
	if err := decodeJSON(r, &req); err != nil {
		rw.BadRequest("Invalid request body")
		return
	}
	if verr := validation.ValidateStruct(&req); verr != nil {
		apiErr := verr.ToAPIError()
		rw.ValidationError(apiErr.Message, apiErr.Details)
		return
	}

	token, err := h.auth.Login(req.Password)
	if err != nil {
		if errors.Is(err, auth.ErrInvalidPassword) {
			rw.Unauthorized("Invalid password")
			return
		}
		rw.InternalError("Login failed")
		return
	}

	rw.Success(map[string]string{"token": token})
}

// ListBooks returns both collections in full.
func (h *Handlers) ListBooks(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)

	lib, err := h.store.GetAll(r.Context())
	if err != nil {
		rw.StoreError(err)
		return
	}
	rw.Success(lib)
}

// CreateBook inserts a book. The target collection defaults to myLibrary;
// ?collection=wishlist adds to the wishlist instead.
func (h *Handlers) CreateBook(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)

	var book models.Book
	if err := decodeJSON(r, &book); err != nil {
		rw.BadRequest("Invalid request body")
		return
	}
	if book.Title == "" {
		rw.BadRequest("title is required")
		return
	}

	col := models.CollectionMyLibrary
	switch r.URL.Query().Get("collection") {
	case "", string(models.CollectionMyLibrary):
	case string(models.CollectionWishlist):
		col = models.CollectionWishlist
	default:
		rw.BadRequest("collection must be myLibrary or wishlist")
		return
	}

	created, err := h.store.Insert(r.Context(), col, book)
	if err != nil {
		rw.StoreError(err)
		return
	}

	if h.hub != nil {
		h.hub.BroadcastBookCreated(&created)
	}
	logging.Ctx(r.Context()).Info().
		Int64("id", created.ID).
		Str("title", created.Title).
		Str("collection", string(col)).
		Msg("Book created")
	rw.Created(created)
}

// GetBook returns a single book from either collection.
func (h *Handlers) GetBook(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)

	id, ok := bookID(rw, r)
	if !ok {
		return
	}

	book, err := h.store.GetByID(r.Context(), id)
	if err != nil {
		h.respondStoreErr(rw, err)
		return
	}
	rw.Success(book)
}

// ReplaceBook overwrites a book wholesale; the path id wins over any id in
// the body.
func (h *Handlers) ReplaceBook(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)

	id, ok := bookID(rw, r)
	if !ok {
		return
	}

	var book models.Book
	if err := decodeJSON(r, &book); err != nil {
		rw.BadRequest("Invalid request body")
		return
	}

	updated, err := h.store.Replace(r.Context(), id, book)
	if err != nil {
		h.respondStoreErr(rw, err)
		return
	}

	if h.hub != nil {
		h.hub.BroadcastBookUpdated(&updated)
	}
	rw.Success(updated)
}

// DeleteBook removes a book from whichever collection holds it.
func (h *Handlers) DeleteBook(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)

	id, ok := bookID(rw, r)
	if !ok {
		return
	}

	if err := h.store.Delete(r.Context(), id); err != nil {
		h.respondStoreErr(rw, err)
		return
	}

	if h.hub != nil {
		h.hub.BroadcastBookDeleted(id)
	}
	logging.Ctx(r.Context()).Info().Int64("id", id).Msg("Book deleted")
	rw.NoContent()
}

// PatchLocation moves a physical book between home and work, keeping any
// borrower fields.
func (h *Handlers) PatchLocation(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)

	id, ok := bookID(rw, r)
	if !ok {
		return
	}

	var req PatchLocationRequest
	if err := decodeJSON(r, &req); err != nil {
		rw.BadRequest("Invalid request body")
		return
	}
	if verr := validation.ValidateStruct(&req); verr != nil {
		apiErr := verr.ToAPIError()
		rw.ValidationError(apiErr.Message, apiErr.Details)
		return
	}

	book, err := h.store.PatchLocation(r.Context(), id, models.LocationType(req.NewLocation))
	if err != nil {
		h.respondStoreErr(rw, err)
		return
	}

	if h.hub != nil {
		h.hub.BroadcastBookUpdated(&book)
	}
	rw.Success(book)
}

// ReturnBook records a lent book coming back to home or work.
func (h *Handlers) ReturnBook(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)

	id, ok := bookID(rw, r)
	if !ok {
		return
	}

	var req ReturnBookRequest
	if err := decodeJSON(r, &req); err != nil {
		rw.BadRequest("Invalid request body")
		return
	}
	if verr := validation.ValidateStruct(&req); verr != nil {
		apiErr := verr.ToAPIError()
		rw.ValidationError(apiErr.Message, apiErr.Details)
		return
	}

	book, err := h.store.ReturnFromLoan(r.Context(), id, models.LocationType(req.ReturnTo))
	if err != nil {
		h.respondStoreErr(rw, err)
		return
	}

	if h.hub != nil {
		h.hub.BroadcastBookUpdated(&book)
	}
	rw.Success(book)
}

// Recommendations returns up to five books similar to the given one. An
// unknown id yields 404 with an empty list in the envelope, which the
// frontend renders as "no suggestions".
func (h *Handlers) Recommendations(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)

	id, ok := bookID(rw, r)
	if !ok {
		return
	}

	lib, err := h.store.GetAll(r.Context())
	if err != nil {
		rw.StoreError(err)
		return
	}

	start := time.Now()
	recs := h.engine.Recommend(id, lib.MyLibrary)
	metrics.RecordRecommendation(time.Since(start))

	if known := containsID(lib.MyLibrary, id); !known {
		rw.writeJSON(http.StatusNotFound, APIResponse{
			Success: false,
			Data:    recs,
			Error: &APIError{
				Code:      ErrCodeNotFound,
				Message:   "Book not found in library",
				RequestID: logging.RequestIDFromContext(r.Context()),
			},
		})
		return
	}

	rw.Success(recs)
}

// Browse runs the filter/sort pipeline and windows the result.
func (h *Handlers) Browse(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)

	lib, err := h.store.GetAll(r.Context())
	if err != nil {
		rw.StoreError(err)
		return
	}

	result := h.pipeline.Apply(lib, browseQuery(r))
	page, pageSize, appendMode := browsePaging(r)

	var window []models.Book
	if appendMode {
		window = pipeline.WindowThrough(result.Visible, page, pageSize)
	} else {
		window = pipeline.Window(result.Visible, page, pageSize)
	}

	pages := pipeline.PageCount(len(result.Visible), pageSize)
	rw.SuccessWithPagination(
		map[string]interface{}{
			"books":   window,
			"options": result.Options,
		},
		&PaginationMeta{
			Total:    len(result.Visible),
			Count:    len(window),
			Page:     page,
			PageSize: pageSize,
			Pages:    pages,
			HasMore:  page < pages,
		},
	)
}

// WebSocket upgrades the connection and attaches it to the hub.
func (h *Handlers) WebSocket(w http.ResponseWriter, r *http.Request) {
	websocket.ServeWS(h.hub, w, r)
}

// bookID parses the {id} path parameter, writing a 400 on garbage.
func bookID(rw *ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		rw.BadRequest("Invalid book id")
		return 0, false
	}
	return id, true
}

func (h *Handlers) respondStoreErr(rw *ResponseWriter, err error) {
	if errors.Is(err, store.ErrNotFound) {
		rw.NotFound("Book not found")
		return
	}
	rw.StoreError(err)
}

func containsID(books []models.Book, id int64) bool {
	for i := range books {
		if books[i].ID == id {
			return true
		}
	}
	return false
}
