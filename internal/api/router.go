// Mealrec - Restaurant Menu Meal-Completion Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/mealrec

package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/tomtom215/mealrec/internal/config"
	"github.com/tomtom215/mealrec/internal/middleware"
	"github.com/tomtom215/mealrec/internal/recommend"
)

// slowRequest is the access-log threshold for a warning.
const slowRequest = time.Second

// Router wires handlers and middleware into a chi mux.
type Router struct {
	handler       *Handler
	legacy        *Handler
	chiMiddleware *ChiMiddleware
}

// NewRouter builds the router for svc using cfg's search and security
// sections.
func NewRouter(svc *recommend.Service, cfg *config.Config) *Router {
	handler := NewHandler(svc, cfg.Search)
	return &Router{
		handler:       handler,
		legacy:        handler.Legacy(),
		chiMiddleware: NewChiMiddleware(ChiMiddlewareConfigFrom(cfg.Security)),
	}
}

// Setup returns the configured http.Handler.
func (router *Router) Setup() http.Handler {
	r := chi.NewRouter()

	// ========================
	// Global Middleware Stack
	// ========================
	r.Use(middleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	r.Use(router.chiMiddleware.CORS()) // global so OPTIONS preflight is answered
	r.Use(middleware.AccessLog(slowRequest))
	r.Use(middleware.PrometheusMetrics)

	// ========================
	// Probes and Metrics
	// ========================
	r.Route("/health", func(r chi.Router) {
		r.Get("/live", router.handler.HealthLive)
		r.Get("/ready", router.handler.HealthReady)
	})
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	// One limiter for both surfaces: a client's budget is shared.
	rateLimit := router.chiMiddleware.RateLimit()

	// ========================
	// Enveloped API
	// ========================
	r.Route("/api/v1", func(r chi.Router) {
		r.Use(rateLimit)
		r.Use(APISecurityHeaders())
		r.Use(middleware.Compression)
		mountCatalogRoutes(r, router.handler)
	})

	// ========================
	// Legacy Frontend API
	// ========================
	r.Group(func(r chi.Router) {
		r.Use(rateLimit)
		r.Use(middleware.Compression)
		mountCatalogRoutes(r, router.legacy)
	})

	r.NotFound(func(w http.ResponseWriter, req *http.Request) {
		router.legacy.respondError(w, req, http.StatusNotFound, "NOT_FOUND", "Not Found", nil)
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, req *http.Request) {
		router.legacy.respondError(w, req, http.StatusMethodNotAllowed, "METHOD_NOT_ALLOWED", "Method Not Allowed", nil)
	})

	return r
}

// mountCatalogRoutes registers the read routes served in both shapes.
func mountCatalogRoutes(r chi.Router, h *Handler) {
	r.Get("/recommend/{item_id}", h.Recommend)
	r.Get("/restaurant/{res_id}/menu", h.Menu)
	r.Get("/category/{name}", h.Category)
	r.Get("/items/{item_id}", h.Item)
	r.Get("/search", h.Search)
	r.Get("/locality", h.Locality)
}
