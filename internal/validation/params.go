// Mealrec - Restaurant Menu Meal-Completion Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/mealrec

package validation

// Request parameter structs for the HTTP API. Bounds here reject nonsense;
// configured limits (max_top_n, search.max_limit) are applied afterwards by
// clamping, so a large but sane value is never an error. Ids carry no bound:
// the catalog accepts any integer, and an id it lacks is a 404.

// RecommendParams are the inputs of GET /recommend/{item_id}. TopN of 0
// means the configured default.
type RecommendParams struct {
	ItemID int64 `query:"item_id"`
	TopN   int   `query:"top_n" validate:"gte=0,lte=1000"`
	Debug  bool  `query:"debug"`
}

// ItemParams are the inputs of GET /items/{item_id}.
type ItemParams struct {
	ItemID int64 `query:"item_id"`
}

// MenuParams are the inputs of GET /restaurant/{res_id}/menu.
type MenuParams struct {
	RestaurantID int64 `query:"res_id"`
}

// CategoryParams are the inputs of GET /category/{name}.
type CategoryParams struct {
	Name string `query:"name" validate:"required,max=100"`
}

// SearchParams are the inputs of GET /search. A nil Veg does not filter.
type SearchParams struct {
	Query string `query:"q" validate:"max=200"`
	City  string `query:"city" validate:"max=100"`
	Area  string `query:"area" validate:"max=100"`
	Veg   *bool  `query:"veg"`
	Limit int    `query:"limit" validate:"gte=0,lte=10000"`
}

// LocalityParams are the inputs of GET /locality. At least one of City and
// Area is required.
type LocalityParams struct {
	City  string `query:"city" validate:"required_without=Area,max=100"`
	Area  string `query:"area" validate:"required_without=City,max=100"`
	Limit int    `query:"limit" validate:"gte=0,lte=10000"`
}
