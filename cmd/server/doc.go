// Mealrec - Restaurant Menu Meal-Completion Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/mealrec

/*
Package main is the entry point for the Mealrec recommendation server.

Given a dish a customer picked, Mealrec suggests what else to order from the
same restaurant: bread with a curry, fries and a drink with a burger. Scores
come from an offline-trained item embedding matrix (see cmd/trainer) and are
reshaped by a category/cuisine boost cascade.

# Application Architecture

The server runs under a Suture v4 supervisor tree:

	RootSupervisor ("mealrec")
	├── DataSupervisor ("data-layer")
	│   └── Snapshot reload (polls the catalog and embedding files)
	└── APISupervisor ("api-layer")
	    └── HTTP Server (legacy routes and /api/v1)

Startup order:

 1. Configuration: Koanf v2 (defaults, config.yaml, environment)
 2. Logging: zerolog, optionally to a lumberjack-rotated file
 3. Snapshot: catalog CSV via DuckDB plus the .npy embedding matrix
 4. Service: atomic snapshot holder with an LRU response cache
 5. Router: chi with CORS, httprate, Prometheus and request IDs
 6. Supervisor tree: reload service and HTTP server

A missing or misaligned snapshot at startup is fatal. After startup, a
failed reload keeps the last good snapshot serving.

# Configuration

Common environment variables:
  - HTTP_PORT (default 8000), HTTP_HOST
  - CATALOG_PATH, EMBEDDINGS_PATH
  - RELOAD_ENABLED, RELOAD_INTERVAL
  - RECOMMEND_DEFAULT_TOP_N, RECOMMEND_MAX_TOP_N, RECOMMEND_CACHE_ENABLED
  - RATE_LIMIT_REQUESTS, RATE_LIMIT_WINDOW, DISABLE_RATE_LIMIT, CORS_ORIGINS
  - LOG_LEVEL, LOG_FORMAT, LOG_FILE

# Example Usage

	export CATALOG_PATH=/data/items.csv
	export EMBEDDINGS_PATH=/data/final_backend_embeddings.npy
	./mealrec-server

	curl localhost:8000/recommend/18075?top_n=3

# Signal Handling

SIGINT and SIGTERM cancel the root context. The HTTP server drains
in-flight requests for HTTP_SHUTDOWN_TIMEOUT before the process exits.
*/
package main
