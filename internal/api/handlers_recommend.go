// Mealrec - Restaurant Menu Meal-Completion Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/mealrec

package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/tomtom215/mealrec/internal/models"
	"github.com/tomtom215/mealrec/internal/recommend"
	"github.com/tomtom215/mealrec/internal/validation"
)

// recommendTimeout bounds a single recommendation request.
const recommendTimeout = 10 * time.Second

// Recommend handles GET /recommend/{item_id}
// Returns the items that best complete a meal around item_id.
func (h *Handler) Recommend(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	itemID, err := urlInt64(r, "item_id")
	if err != nil {
		h.badParam(w, r, "item_id")
		return
	}
	topN, err := queryInt(r, "top_n")
	if err != nil {
		h.badParam(w, r, "top_n")
		return
	}
	debug, err := queryBool(r, "debug")
	if err != nil {
		h.respondError(w, r, http.StatusBadRequest, "INVALID_PARAMETER", "debug must be a boolean", nil)
		return
	}

	params := validation.RecommendParams{ItemID: itemID, TopN: topN, Debug: debug != nil && *debug}
	if !h.validateRequest(w, r, &params) {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), recommendTimeout)
	defer cancel()

	resp, cached, err := h.svc.Recommend(ctx, recommend.Request{
		ItemID: params.ItemID,
		TopN:   params.TopN,
		Debug:  params.Debug,
	})
	switch {
	case errors.Is(err, recommend.ErrNotFound):
		h.respondError(w, r, http.StatusNotFound, "NOT_FOUND", fmt.Sprintf("Item %d not found", itemID), nil)
		return
	case errors.Is(err, context.DeadlineExceeded), errors.Is(err, context.Canceled):
		h.respondError(w, r, http.StatusServiceUnavailable, "TIMEOUT", "Recommendation timed out", err)
		return
	case err != nil:
		h.respondError(w, r, http.StatusInternalServerError, "RECOMMENDATION_ERROR", "Failed to generate recommendations", err)
		return
	}

	h.respondData(w, r, resp.Items, models.Metadata{
		QueryTimeMS: time.Since(start).Milliseconds(),
		Cached:      cached,
		Count:       len(resp.Items),
		Snapshot:    resp.Snapshot,
	})
}
