// Mealrec - Restaurant Menu Meal-Completion Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/mealrec

/*
Package services adapts the server's long-running components to
suture.Service.

  - HTTPServerService: runs an *http.Server and shuts it down gracefully
    when the supervisor context is canceled.
  - ReloadService: polls the catalog and embedding files and publishes a
    freshly loaded recommend.Engine when either changes. Loads run behind
    a sony/gobreaker circuit breaker so a broken export is not re-read on
    every tick.

Every service implements fmt.Stringer so supervisor events name it.
*/
package services
