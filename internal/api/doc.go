// Mealrec - Restaurant Menu Meal-Completion Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/mealrec

/*
Package api provides the HTTP read API for mealrec.

Every catalog and recommendation route is mounted twice:

  - At the root, for the existing frontend. Success bodies are bare JSON
    arrays or objects (the frontend reads item_id from each element) and
    errors are {"detail": "..."}.
  - Under /api/v1, wrapped in models.APIResponse with timing, cache and
    snapshot metadata, and errors carried as models.APIError codes.

Routes:

	GET /recommend/{item_id}?top_n=&debug=   meal-completion recommendations
	GET /restaurant/{res_id}/menu             restaurant menu in catalog order
	GET /category/{name}                      name, then category, then cuisine matches
	GET /items/{item_id}                      single catalog item
	GET /search?q=&city=&area=&veg=&limit=    free-text search with filters
	GET /locality?city=&area=&limit=          items in a city and/or area
	GET /health/live, /health/ready           probes (root only)
	GET /metrics                              Prometheus exposition (root only)

Handlers read the live engine from recommend.Service once per request, so a
hot reload never mixes two snapshots inside one response.

Usage:

	svc := recommend.NewService(recommend.NewHolder(engine), recommend.ServiceConfig{...})
	router := api.NewRouter(svc, cfg)
	srv := &http.Server{Addr: ":8000", Handler: router.Setup()}
*/
package api
