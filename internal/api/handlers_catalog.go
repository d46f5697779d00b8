// Mealrec - Restaurant Menu Meal-Completion Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/mealrec

package api

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/tomtom215/mealrec/internal/catalog"
	"github.com/tomtom215/mealrec/internal/models"
	"github.com/tomtom215/mealrec/internal/validation"
)

// Menu handles GET /restaurant/{res_id}/menu
// Returns every item of the restaurant in catalog order, or 404 when the
// restaurant has no items.
func (h *Handler) Menu(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	resID, err := urlInt64(r, "res_id")
	if err != nil {
		h.badParam(w, r, "res_id")
		return
	}
	params := validation.MenuParams{RestaurantID: resID}
	if !h.validateRequest(w, r, &params) {
		return
	}

	e := h.svc.Engine()
	menu := e.Catalog().Menu(params.RestaurantID)
	if len(menu) == 0 {
		h.respondError(w, r, http.StatusNotFound, "NOT_FOUND", "Restaurant not found", nil)
		return
	}

	h.respondData(w, r, menu, models.Metadata{
		QueryTimeMS: time.Since(start).Milliseconds(),
		Count:       len(menu),
		Snapshot:    e.Version(),
	})
}

// Category handles GET /category/{name}
// Matches the synonym-normalized term against item names, then categories,
// then cuisine types.
func (h *Handler) Category(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	params := validation.CategoryParams{Name: strings.TrimSpace(chi.URLParam(r, "name"))}
	if !h.validateRequest(w, r, &params) {
		return
	}

	e := h.svc.Engine()
	items := e.Catalog().ByCategory(params.Name, h.search.CategoryLimit)

	h.respondData(w, r, items, models.Metadata{
		QueryTimeMS: time.Since(start).Milliseconds(),
		Count:       len(items),
		Snapshot:    e.Version(),
	})
}

// Item handles GET /items/{item_id}
func (h *Handler) Item(w http.ResponseWriter, r *http.Request) {
	itemID, err := urlInt64(r, "item_id")
	if err != nil {
		h.badParam(w, r, "item_id")
		return
	}
	params := validation.ItemParams{ItemID: itemID}
	if !h.validateRequest(w, r, &params) {
		return
	}

	e := h.svc.Engine()
	it, ok := e.Catalog().Get(params.ItemID)
	if !ok {
		h.respondError(w, r, http.StatusNotFound, "NOT_FOUND", fmt.Sprintf("Item %d not found", itemID), nil)
		return
	}
	h.respondData(w, r, it, models.Metadata{Count: 1, Snapshot: e.Version()})
}

// Search handles GET /search?q=&city=&area=&veg=&limit=
func (h *Handler) Search(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	limit, err := queryInt(r, "limit")
	if err != nil {
		h.badParam(w, r, "limit")
		return
	}
	veg, err := queryBool(r, "veg")
	if err != nil {
		h.respondError(w, r, http.StatusBadRequest, "INVALID_PARAMETER", "veg must be a boolean", nil)
		return
	}

	q := r.URL.Query()
	params := validation.SearchParams{
		Query: strings.TrimSpace(q.Get("q")),
		City:  strings.TrimSpace(q.Get("city")),
		Area:  strings.TrimSpace(q.Get("area")),
		Veg:   veg,
		Limit: limit,
	}
	if !h.validateRequest(w, r, &params) {
		return
	}

	e := h.svc.Engine()
	items := e.Catalog().Search(catalog.Query{
		Text:  params.Query,
		City:  params.City,
		Area:  params.Area,
		Veg:   params.Veg,
		Limit: clampLimit(params.Limit, h.search.DefaultLimit, h.search.MaxLimit),
	})

	h.respondData(w, r, items, models.Metadata{
		QueryTimeMS: time.Since(start).Milliseconds(),
		Count:       len(items),
		Snapshot:    e.Version(),
	})
}

// Locality handles GET /locality?city=&area=&limit=
func (h *Handler) Locality(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	limit, err := queryInt(r, "limit")
	if err != nil {
		h.badParam(w, r, "limit")
		return
	}

	q := r.URL.Query()
	params := validation.LocalityParams{
		City:  strings.TrimSpace(q.Get("city")),
		Area:  strings.TrimSpace(q.Get("area")),
		Limit: limit,
	}
	if !h.validateRequest(w, r, &params) {
		return
	}

	e := h.svc.Engine()
	items := e.Catalog().Locality(params.City, params.Area,
		clampLimit(params.Limit, h.search.DefaultLimit, h.search.MaxLimit))

	h.respondData(w, r, items, models.Metadata{
		QueryTimeMS: time.Since(start).Milliseconds(),
		Count:       len(items),
		Snapshot:    e.Version(),
	})
}
