// Mealrec - Restaurant Menu Meal-Completion Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/mealrec

package recommend

import (
	"strings"

	"github.com/tomtom215/mealrec/internal/catalog"
)

// Profile is the per-row view the boost rules read. Engines precompute one
// per catalog row so rules never lowercase strings on the request path.
type Profile struct {
	Item *catalog.Item
	// LowerName is the lowercased item name.
	LowerName string
	// NormName is the dedup key: text before the first "(", trimmed, lowercased.
	NormName string
}

// NewProfile builds the rule view of it.
func NewProfile(it *catalog.Item) Profile {
	lower := strings.ToLower(it.Name)
	return Profile{Item: it, LowerName: lower, NormName: NormalizeName(it.Name)}
}

// NormalizeName returns the name used to collapse size and variant suffixes:
// "Coke (500ml)" and "coke" both normalize to "coke".
func NormalizeName(name string) string {
	base, _, _ := strings.Cut(name, "(")
	return strings.ToLower(strings.TrimSpace(base))
}

// Target is the anchor item of a request plus its name classification.
type Target struct {
	Profile
	FastFood bool
	Wet      bool
}

var (
	fastFoodKeywords = []string{"burger", "pizza", "sandwich", "wrap", "fries", "pasta"}
	wetKeywords      = []string{"chicken", "paneer", "masala", "gravy", "curry", "makhani", "dal", "chole"}
	dryDishKeywords  = []string{"biryani", "thali", "burger", "pizza"}
)

// NewTarget classifies p as fast food and/or a wet (gravy) main.
func NewTarget(p Profile) Target {
	fast := containsAny(p.LowerName, fastFoodKeywords)
	wet := p.Item.Category == catalog.CategoryMain && !fast && containsAny(p.LowerName, wetKeywords)
	return Target{Profile: p, FastFood: fast, Wet: wet}
}

// Rule scales the running score of every candidate it matches by Factor,
// provided When holds for the target.
type Rule struct {
	Name   string
	When   func(t *Target) bool
	Match  func(t *Target, c *Profile) bool
	Factor float64
}

// DefaultRules returns the boost cascade in application order:
// cuisine shield, dessert kill-switch, the category block keyed on the
// target's category, then the fast-food override. Scores compound, so the
// order is part of the behaviour.
func DefaultRules() []Rule {
	return []Rule{
		{
			Name:   "cuisine_shield",
			When:   always,
			Match:  func(t *Target, c *Profile) bool { return c.Item.CuisineType != t.Item.CuisineType && !isCuisineAgnostic(c) },
			Factor: 0.1,
		},
		{
			Name:   "dessert_kill_switch",
			When:   targetIn(catalog.CategoryMain, catalog.CategoryBread),
			Match:  category(catalog.CategoryDessert),
			Factor: 0.05,
		},

		// Main
		{Name: "main_other_mains", When: targetIn(catalog.CategoryMain), Match: category(catalog.CategoryMain), Factor: 0.1},
		{Name: "main_wet_bread", When: wetMain(true), Match: category(catalog.CategoryBread), Factor: 4.0},
		{Name: "main_dry_side", When: wetMain(false), Match: category(catalog.CategorySide), Factor: 4.0},
		{Name: "main_dry_drink", When: wetMain(false), Match: isDrink, Factor: 3.0},
		{Name: "main_dry_starter", When: wetMain(false), Match: category(catalog.CategoryStarter), Factor: 2.0},

		// Starter
		{Name: "starter_main", When: targetIn(catalog.CategoryStarter), Match: category(catalog.CategoryMain), Factor: 3.0},
		{Name: "starter_other_starters", When: targetIn(catalog.CategoryStarter), Match: category(catalog.CategoryStarter), Factor: 0.1},

		// Bread
		{Name: "bread_main", When: targetIn(catalog.CategoryBread), Match: category(catalog.CategoryMain), Factor: 3.0},
		{Name: "bread_non_veg", When: targetIn(catalog.CategoryBread), Match: func(_ *Target, c *Profile) bool { return !c.Item.IsVeg }, Factor: 1.3},
		{Name: "bread_dry_dish", When: targetIn(catalog.CategoryBread), Match: func(_ *Target, c *Profile) bool { return containsAny(c.LowerName, dryDishKeywords) }, Factor: 0.1},

		// Dessert
		{Name: "dessert_non_sweet", When: targetIn(catalog.CategoryDessert), Match: func(_ *Target, c *Profile) bool { return !isCuisineAgnostic(c) }, Factor: 0.01},

		// Fast-food override
		{Name: "fast_food_bread", When: fastFood, Match: category(catalog.CategoryBread), Factor: 0.01},
		{Name: "fast_food_side", When: fastFood, Match: category(catalog.CategorySide), Factor: 20.0},
		{Name: "fast_food_starter", When: fastFood, Match: category(catalog.CategoryStarter), Factor: 15.0},
		{Name: "fast_food_drink", When: fastFood, Match: isDrink, Factor: 15.0},
	}
}

// ApplyRules multiplies scores[i] by every matching rule, in rule order.
// scores is indexed like profiles and is modified in place.
func ApplyRules(rules []Rule, t *Target, profiles []Profile, scores []float64) {
	for r := range rules {
		rule := &rules[r]
		if !rule.When(t) {
			continue
		}
		for i := range profiles {
			if rule.Match(t, &profiles[i]) {
				scores[i] *= rule.Factor
			}
		}
	}
}

// FiredRules lists the names of the rules that scaled candidate c.
func FiredRules(rules []Rule, t *Target, c *Profile) []string {
	var fired []string
	for r := range rules {
		if rules[r].When(t) && rules[r].Match(t, c) {
			fired = append(fired, rules[r].Name)
		}
	}
	return fired
}

func always(*Target) bool { return true }

func fastFood(t *Target) bool { return t.FastFood }

func targetIn(categories ...string) func(*Target) bool {
	return func(t *Target) bool {
		for _, c := range categories {
			if t.Item.Category == c {
				return true
			}
		}
		return false
	}
}

// wetMain selects the branch of the Main block for wet or dry targets.
func wetMain(wet bool) func(*Target) bool {
	return func(t *Target) bool {
		return t.Item.Category == catalog.CategoryMain && t.Wet == wet
	}
}

func category(name string) func(*Target, *Profile) bool {
	return func(_ *Target, c *Profile) bool { return c.Item.Category == name }
}

func isDrink(_ *Target, c *Profile) bool {
	return c.Item.Category == catalog.CategoryDrink || c.Item.Category == catalog.CategoryBeverage
}

// isCuisineAgnostic covers categories that pair with any cuisine.
func isCuisineAgnostic(c *Profile) bool {
	switch c.Item.Category {
	case catalog.CategoryDrink, catalog.CategoryBeverage, catalog.CategoryDessert:
		return true
	}
	return false
}

func containsAny(s string, words []string) bool {
	for _, w := range words {
		if strings.Contains(s, w) {
			return true
		}
	}
	return false
}
