// Mealrec - Restaurant Menu Meal-Completion Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/mealrec

package api

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/goccy/go-json"

	"github.com/tomtom215/mealrec/internal/logging"
	"github.com/tomtom215/mealrec/internal/models"
	"github.com/tomtom215/mealrec/internal/validation"
)

// legacyError is the error body of the root-mounted routes.
type legacyError struct {
	Detail string `json:"detail"`
}

// sanitizeLogValue escapes control characters so request input cannot
// forge log lines.
func sanitizeLogValue(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if r < 0x20 || r == 0x7F {
			fmt.Fprintf(&b, "\\x%02x", r)
		} else {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// respondJSON writes body with an ETag. A matching If-None-Match on a 200
// response turns into 304 Not Modified. A Cache-Control header already set
// by the handler is kept.
func respondJSON(w http.ResponseWriter, r *http.Request, status int, body interface{}) {
	data, err := json.Marshal(body)
	if err != nil {
		logging.Ctx(r.Context()).Error().Err(err).Msg("Failed to marshal JSON response")
		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	h := w.Header()
	h.Set("Content-Type", "application/json")
	if status == http.StatusOK {
		etag := generateETag(data)
		h.Set("ETag", etag)
		if h.Get("Cache-Control") == "" {
			h.Set("Cache-Control", "public, max-age=60")
		}
		if match := r.Header.Get("If-None-Match"); match != "" && match == etag {
			w.WriteHeader(http.StatusNotModified)
			return
		}
	} else {
		h.Set("Cache-Control", "no-store")
	}

	w.WriteHeader(status)
	if _, err := w.Write(data); err != nil {
		logging.Ctx(r.Context()).Debug().Err(err).Msg("Failed to write JSON response")
	}
}

// generateETag returns a quoted FNV-1a hash of data.
func generateETag(data []byte) string {
	hash := uint32(2166136261)
	for _, b := range data {
		hash ^= uint32(b)
		hash *= 16777619
	}
	return `"` + strconv.FormatUint(uint64(hash), 16) + `"`
}

// respondData writes a successful result in the handler's response shape.
// meta.Timestamp is filled in when zero.
func (h *Handler) respondData(w http.ResponseWriter, r *http.Request, data interface{}, meta models.Metadata) {
	if h.legacy {
		respondJSON(w, r, http.StatusOK, data)
		return
	}
	if meta.Timestamp.IsZero() {
		meta.Timestamp = time.Now()
	}
	respondJSON(w, r, http.StatusOK, &models.APIResponse{
		Status:   "success",
		Data:     data,
		Metadata: meta,
	})
}

// respondError writes an error in the handler's response shape. err, when
// non-nil, is logged and never sent to the client.
func (h *Handler) respondError(w http.ResponseWriter, r *http.Request, status int, code, message string, err error) {
	if err != nil {
		logging.Ctx(r.Context()).Error().
			Str("code", code).
			Str("path", sanitizeLogValue(r.URL.Path)).
			Str("error", sanitizeLogValue(err.Error())).
			Msg("API error")
	}

	if h.legacy {
		respondJSON(w, r, status, legacyError{Detail: message})
		return
	}
	respondJSON(w, r, status, &models.APIResponse{
		Status:   "error",
		Metadata: models.Metadata{Timestamp: time.Now()},
		Error:    &models.APIError{Code: code, Message: message},
	})
}

// validateRequest runs the validator and writes a 400 on failure. It
// reports whether the request may proceed.
func (h *Handler) validateRequest(w http.ResponseWriter, r *http.Request, params interface{}) bool {
	verr := validation.ValidateStruct(params)
	if verr == nil {
		return true
	}
	apiErr := verr.ToAPIError()

	if h.legacy {
		respondJSON(w, r, http.StatusBadRequest, legacyError{Detail: apiErr.Message})
		return false
	}
	respondJSON(w, r, http.StatusBadRequest, &models.APIResponse{
		Status:   "error",
		Metadata: models.Metadata{Timestamp: time.Now()},
		Error: &models.APIError{
			Code:    apiErr.Code,
			Message: apiErr.Message,
			Details: apiErr.Details,
		},
	})
	return false
}

// badParam writes a 400 for a parameter that failed to parse.
func (h *Handler) badParam(w http.ResponseWriter, r *http.Request, name string) {
	h.respondError(w, r, http.StatusBadRequest, "INVALID_PARAMETER",
		fmt.Sprintf("%s must be an integer", name), nil)
}

// urlInt64 parses a chi URL parameter.
func urlInt64(r *http.Request, name string) (int64, error) {
	return strconv.ParseInt(chi.URLParam(r, name), 10, 64)
}

// queryInt parses an optional integer query parameter; absent is 0.
func queryInt(r *http.Request, key string) (int, error) {
	value := strings.TrimSpace(r.URL.Query().Get(key))
	if value == "" {
		return 0, nil
	}
	return strconv.Atoi(value)
}

// queryBool parses an optional boolean query parameter; absent is nil.
func queryBool(r *http.Request, key string) (*bool, error) {
	value := strings.TrimSpace(r.URL.Query().Get(key))
	if value == "" {
		return nil, nil
	}
	b, err := strconv.ParseBool(value)
	if err != nil {
		return nil, err
	}
	return &b, nil
}

// clampLimit applies fallback for 0 and caps at maxLimit.
func clampLimit(limit, fallback, maxLimit int) int {
	if limit <= 0 {
		limit = fallback
	}
	if maxLimit > 0 && limit > maxLimit {
		limit = maxLimit
	}
	return limit
}
