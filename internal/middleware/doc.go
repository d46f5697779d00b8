// Mealrec - Restaurant Menu Meal-Completion Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/mealrec

/*
Package middleware provides the net/http middleware shared by every API
route: request IDs, access logging, Prometheus instrumentation and gzip
compression.

All middleware have the chi signature func(http.Handler) http.Handler and
are installed by the api router in this order:

	r.Use(middleware.RequestID)              // X-Request-ID + logging context
	r.Use(middleware.AccessLog(time.Second)) // one log line per request
	r.Use(middleware.PrometheusMetrics)      // api_* metrics
	r.Use(middleware.Compression)            // gzip when accepted

PrometheusMetrics labels requests with the chi route pattern
("/recommend/{item_id}") rather than the raw path, so item ids never become
label values.
*/
package middleware
