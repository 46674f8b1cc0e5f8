// My Library - Personal Book Library Tracker
// Copyright 2026 stratonov777
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/stratonov777/my-library

package api

import (
	"net/http"
	"os"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/stratonov777/my-library/internal/auth"
	"github.com/stratonov777/my-library/internal/logging"
	"github.com/stratonov777/my-library/internal/middleware"
)

// Router assembles the chi routing tree.
type Router struct {
	handlers      *Handlers
	chiMiddleware *ChiMiddleware
	auth          *auth.Manager
	staticDir     string
}

// NewRouter creates a router. staticDir may be empty to disable frontend
// serving.
func NewRouter(handlers *Handlers, mw *ChiMiddleware, authMgr *auth.Manager, staticDir string) *Router {
	return &Router{
		handlers:      handlers,
		chiMiddleware: mw,
		auth:          authMgr,
		staticDir:     staticDir,
	}
}

// Setup builds the full routing tree.
func (router *Router) Setup() http.Handler {
	r := chi.NewRouter()

	// Global stack, applied to every route in order.
	r.Use(middleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.Compress(5))
	r.Use(router.chiMiddleware.CORS())

	r.Route("/api/health", func(r chi.Router) {
		r.Use(router.chiMiddleware.RateLimitHealth())
		r.Use(APISecurityHeaders())
		r.Get("/", router.handlers.Health)
	})

	r.Route("/api/auth", func(r chi.Router) {
		r.Use(router.chiMiddleware.RateLimitLogin())
		r.Use(APISecurityHeaders())
		r.Post("/login", router.handlers.Login)
	})

	r.Route("/api/books", func(r chi.Router) {
		r.Use(router.chiMiddleware.RateLimit())
		r.Use(APISecurityHeaders())
		r.Use(middleware.PrometheusMetrics)

		// Reads stay open; browsing one's shelf needs no login.
		r.Get("/", router.handlers.ListBooks)
		r.Get("/browse", router.handlers.Browse)
		r.Get("/{id}", router.handlers.GetBook)
		r.Get("/{id}/recommendations", router.handlers.Recommendations)

		// Writes go through the auth gate and a tighter limit.
		r.Group(func(r chi.Router) {
			r.Use(router.chiMiddleware.RateLimitWrite())
			r.Use(router.auth.RequireAuth)

			r.Post("/", router.handlers.CreateBook)
			r.Put("/{id}", router.handlers.ReplaceBook)
			r.Delete("/{id}", router.handlers.DeleteBook)
			r.Patch("/{id}/location", router.handlers.PatchLocation)
			r.Patch("/{id}/return", router.handlers.ReturnBook)
		})
	})

	r.Get("/ws", router.handlers.WebSocket)
	r.Handle("/metrics", promhttp.Handler())

	if router.staticDir != "" {
		router.mountStatic(r)
	}

	return r
}

// mountStatic serves the frontend from disk, falling back to index.html so
// a deep link into the SPA still loads.
func (router *Router) mountStatic(r chi.Router) {
	dir := router.staticDir
	if _, err := os.Stat(dir); err != nil {
		logging.Warn().Str("dir", dir).Err(err).Msg("Static dir not found, frontend disabled")
		return
	}

	fs := http.FileServer(http.Dir(dir))
	r.Get("/*", func(w http.ResponseWriter, req *http.Request) {
		path := dir + req.URL.Path
		if _, err := os.Stat(path); err != nil {
			http.ServeFile(w, req, dir+"/index.html")
			return
		}
		fs.ServeHTTP(w, req)
	})
}
