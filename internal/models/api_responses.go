// Mealrec - Restaurant Menu Meal-Completion Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/mealrec

package models

import (
	"time"
)

// APIResponse is the envelope returned by every /api/v1 endpoint.
//
// Status field values:
//   - "success": Request completed successfully, see Data field
//   - "error": Request failed, see Error field for details
//
// Example successful response:
//
//	{
//	  "status": "success",
//	  "data": [{"item_id": 18075, "name": "Garlic Naan", ...}],
//	  "metadata": {
//	    "timestamp": "2026-03-02T12:00:00Z",
//	    "query_time_ms": 2,
//	    "snapshot": "5f0c2a1e"
//	  }
//	}
//
// Example error response:
//
//	{
//	  "status": "error",
//	  "error": {"code": "NOT_FOUND", "message": "item 42 not found"},
//	  "metadata": {"timestamp": "2026-03-02T12:00:00Z"}
//	}
type APIResponse struct {
	Status   string      `json:"status"`
	Data     interface{} `json:"data"`
	Metadata Metadata    `json:"metadata"`
	Error    *APIError   `json:"error,omitempty"`
}

// Metadata contains response metadata for observability.
type Metadata struct {
	Timestamp   time.Time `json:"timestamp"`
	QueryTimeMS int64     `json:"query_time_ms,omitempty"`
	Cached      bool      `json:"cached,omitempty"`
	Count       int       `json:"count,omitempty"`
	// Snapshot identifies the catalog/embedding snapshot that served the request.
	Snapshot string `json:"snapshot,omitempty"`
}

// APIError represents an error response with structured error details.
type APIError struct {
	Code    string                 `json:"code"`
	Message string                 `json:"message"`
	Details map[string]interface{} `json:"details,omitempty"`
}

// HealthStatus is returned by the readiness probe.
type HealthStatus struct {
	Status        string    `json:"status"`
	Items         int       `json:"items"`
	Dimension     int       `json:"dimension"`
	Restaurants   int       `json:"restaurants"`
	Snapshot      string    `json:"snapshot"`
	LoadedAt      time.Time `json:"loaded_at"`
	UptimeSeconds int64     `json:"uptime_seconds"`
}
