// Mealrec - Restaurant Menu Meal-Completion Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/mealrec

package api

import (
	"net/http"
	"time"

	"github.com/tomtom215/mealrec/internal/models"
)

// HealthLive handles liveness probe requests.
// Returns 200 OK while the process is running.
func (h *Handler) HealthLive(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Cache-Control", "no-store")
	respondJSON(w, r, http.StatusOK, &models.APIResponse{
		Status: "success",
		Data: map[string]interface{}{
			"alive":  true,
			"uptime": time.Since(h.startTime).Seconds(),
		},
		Metadata: models.Metadata{Timestamp: time.Now()},
	})
}

// HealthReady handles readiness probe requests.
// Returns 200 OK with the live snapshot once an engine is published, 503
// before that.
func (h *Handler) HealthReady(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Cache-Control", "no-store")
	e := h.svc.Engine()
	if e == nil {
		respondJSON(w, r, http.StatusServiceUnavailable, &models.APIResponse{
			Status:   "not_ready",
			Data:     map[string]interface{}{"ready_to_serve": false},
			Metadata: models.Metadata{Timestamp: time.Now()},
		})
		return
	}

	cat := e.Catalog()
	respondJSON(w, r, http.StatusOK, &models.APIResponse{
		Status: "ready",
		Data: models.HealthStatus{
			Status:        "ready",
			Items:         cat.Len(),
			Dimension:     e.Dim(),
			Restaurants:   cat.Restaurants(),
			Snapshot:      e.Version(),
			LoadedAt:      e.LoadedAt(),
			UptimeSeconds: int64(time.Since(h.startTime).Seconds()),
		},
		Metadata: models.Metadata{
			Timestamp: time.Now(),
			Snapshot:  e.Version(),
		},
	})
}
