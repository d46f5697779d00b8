// Mealrec - Restaurant Menu Meal-Completion Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/mealrec

package recommend

import "time"

// Request asks for items that complete a meal around ItemID.
type Request struct {
	ItemID int64 `json:"item_id"`

	// TopN is the maximum number of items returned. Zero or negative uses
	// the engine default; values above the engine maximum are clamped.
	TopN int `json:"top_n,omitempty"`

	// Debug adds raw and boosted scores and the rules that fired.
	Debug bool `json:"debug,omitempty"`
}

// Recommendation is one suggested item.
type Recommendation struct {
	ItemID         int64   `json:"item_id"`
	Name           string  `json:"name"`
	Price          float64 `json:"price"`
	Category       string  `json:"category"`
	IsVeg          bool    `json:"is_veg"`
	RestaurantName string  `json:"restaurant_name"`

	// Diagnostics, only set for debug requests.
	Score    *float64 `json:"score,omitempty"`
	RawScore *float64 `json:"raw_score,omitempty"`
	Boosts   []string `json:"boosts,omitempty"`
}

// Response is the result of a recommendation request.
type Response struct {
	ItemID int64            `json:"item_id"`
	Items  []Recommendation `json:"items"`

	// Candidates is the number of catalog rows that were scored.
	Candidates int `json:"candidates"`

	// Snapshot identifies the engine that produced the response.
	Snapshot string `json:"snapshot"`

	Latency time.Duration `json:"-"`
}

// Candidate is a scored catalog row, built per request and discarded with
// the response.
type Candidate struct {
	Row      int
	Raw      float64
	Adjusted float64
}
