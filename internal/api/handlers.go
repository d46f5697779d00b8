// Mealrec - Restaurant Menu Meal-Completion Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/mealrec

package api

import (
	"time"

	"github.com/tomtom215/mealrec/internal/config"
	"github.com/tomtom215/mealrec/internal/recommend"
)

// Handler serves the catalog and recommendation endpoints.
//
// Handler methods are split across files:
//   - handlers.go: Handler struct and constructor (this file)
//   - handlers_helpers.go: response writers and parameter parsing
//   - handlers_recommend.go: /recommend/{item_id}
//   - handlers_catalog.go: menu, category, item, search and locality
//   - handlers_health.go: liveness and readiness probes
type Handler struct {
	svc       *recommend.Service
	search    config.SearchConfig
	startTime time.Time

	// legacy selects bare bodies and {"detail": ...} errors instead of
	// the APIResponse envelope.
	legacy bool
}

// NewHandler creates an enveloped (/api/v1) handler.
func NewHandler(svc *recommend.Service, search config.SearchConfig) *Handler {
	return &Handler{
		svc:       svc,
		search:    search,
		startTime: time.Now(),
	}
}

// Legacy returns a copy of h that writes the root-mounted response shapes.
func (h *Handler) Legacy() *Handler {
	legacy := *h
	legacy.legacy = true
	return &legacy
}
