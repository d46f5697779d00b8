// Mealrec - Restaurant Menu Meal-Completion Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/mealrec

package catalog

import "strings"

// categorySynonyms folds common plurals onto the singular used in item names.
var categorySynonyms = map[string]string{
	"drinks":   "drink",
	"cakes":    "cake",
	"burgers":  "burger",
	"thalis":   "thali",
	"biryanis": "biryani",
}

// NormalizeTerm lowercases and trims a category term and applies synonyms.
func NormalizeTerm(term string) string {
	t := strings.ToLower(strings.TrimSpace(term))
	if mapped, ok := categorySynonyms[t]; ok {
		return mapped
	}
	return t
}

// Menu returns the items of one restaurant in catalog order.
func (c *Catalog) Menu(restaurantID int64) []Item {
	rows := c.byRestaurant[restaurantID]
	out := make([]Item, 0, len(rows))
	for _, row := range rows {
		out = append(out, c.items[row])
	}
	return out
}

// ByCategory searches for term in item names first, then categories, then
// cuisine types (case-insensitive substring), keeping the first hit per
// item_id and returning at most limit items. Name hits rank first so that
// "biryani" finds biryanis filed under Main.
func (c *Catalog) ByCategory(term string, limit int) []Item {
	needle := NormalizeTerm(term)
	if needle == "" || limit <= 0 {
		return []Item{}
	}

	fields := []func(*Item) string{
		func(it *Item) string { return it.Name },
		func(it *Item) string { return it.Category },
		func(it *Item) string { return it.CuisineType },
	}

	out := make([]Item, 0, limit)
	seen := make(map[int64]struct{})
	for _, field := range fields {
		for row := range c.items {
			it := &c.items[row]
			if _, dup := seen[it.ID]; dup {
				continue
			}
			if !containsFold(field(it), needle) {
				continue
			}
			seen[it.ID] = struct{}{}
			out = append(out, *it)
			if len(out) == limit {
				return out
			}
		}
	}
	return out
}

// Query describes a free-text search with optional filters.
type Query struct {
	// Text matches name, description, cuisine type and restaurant name.
	Text string
	// City and Area match the two halves of "City, Area" localities.
	City string
	Area string
	// Veg, when non-nil, keeps only items with that flag.
	Veg   *bool
	Limit int
}

// Search returns items matching q in catalog order.
func (c *Catalog) Search(q Query) []Item {
	if q.Limit <= 0 {
		return []Item{}
	}
	text := strings.ToLower(strings.TrimSpace(q.Text))

	out := make([]Item, 0, min(q.Limit, 64))
	for row := range c.items {
		it := &c.items[row]
		if !matchesLocality(it, q.City, q.Area) {
			continue
		}
		if q.Veg != nil && it.IsVeg != *q.Veg {
			continue
		}
		if text != "" && !matchesText(it, text) {
			continue
		}
		out = append(out, *it)
		if len(out) == q.Limit {
			break
		}
	}
	return out
}

// Locality returns items located in city and/or area.
func (c *Catalog) Locality(city, area string, limit int) []Item {
	return c.Search(Query{City: city, Area: area, Limit: limit})
}

// matchesLocality compares the city exactly (case-insensitive) and the area
// by substring. Empty filters match everything.
func matchesLocality(it *Item, city, area string) bool {
	if city = strings.TrimSpace(city); city != "" && !strings.EqualFold(it.City(), city) {
		return false
	}
	if area = strings.TrimSpace(area); area != "" && !containsFold(it.Area(), strings.ToLower(area)) {
		return false
	}
	return true
}

func matchesText(it *Item, lowered string) bool {
	return containsFold(it.Name, lowered) ||
		containsFold(it.Description, lowered) ||
		containsFold(it.CuisineType, lowered) ||
		containsFold(it.RestaurantName, lowered)
}

// containsFold reports whether lowered occurs in s ignoring case. lowered
// must already be lowercase.
func containsFold(s, lowered string) bool {
	return strings.Contains(strings.ToLower(s), lowered)
}
