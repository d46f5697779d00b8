// Mealrec - Restaurant Menu Meal-Completion Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/mealrec

package recommend

import (
	"slices"
	"testing"

	"github.com/tomtom215/mealrec/internal/catalog"
)

func targetFor(name, category, cuisine string) Target {
	it := item(1, name, category, cuisine, true)
	return NewTarget(NewProfile(&it))
}

func TestDefaultRules_Order(t *testing.T) {
	t.Parallel()

	var names []string
	for _, r := range DefaultRules() {
		names = append(names, r.Name)
	}
	want := []string{
		"cuisine_shield",
		"dessert_kill_switch",
		"main_other_mains", "main_wet_bread", "main_dry_side", "main_dry_drink", "main_dry_starter",
		"starter_main", "starter_other_starters",
		"bread_main", "bread_non_veg", "bread_dry_dish",
		"dessert_non_sweet",
		"fast_food_bread", "fast_food_side", "fast_food_starter", "fast_food_drink",
	}
	if !slices.Equal(names, want) {
		t.Errorf("rule order = %v\nwant %v", names, want)
	}
}

func TestNewTarget_Classification(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		category string
		fastFood bool
		wet      bool
	}{
		{"Butter Chicken", catalog.CategoryMain, false, true},
		{"DAL TADKA", catalog.CategoryMain, false, true},
		{"Chole Bhature", catalog.CategoryMain, false, true},
		{"Chicken Burger", catalog.CategoryMain, true, false},
		{"Paneer Wrap", catalog.CategoryMain, true, false},
		{"Pasta Alfredo", catalog.CategoryMain, true, false},
		{"Chicken 65", catalog.CategoryStarter, false, false},
		{"Veg Pizza", catalog.CategoryStarter, true, false},
		{"Jeera Rice", catalog.CategoryMain, false, false},
		{"Masala Fries", catalog.CategorySide, true, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got := targetFor(tt.name, tt.category, "Any")
			if got.FastFood != tt.fastFood || got.Wet != tt.wet {
				t.Errorf("NewTarget(%q, %s) = fast_food %v wet %v, want %v %v",
					tt.name, tt.category, got.FastFood, got.Wet, tt.fastFood, tt.wet)
			}
		})
	}
}

func TestNormalizeName(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in, want string
	}{
		{"Coke (500ml)", "coke"},
		{"  Garlic Naan  ", "garlic naan"},
		{"Paneer Tikka (Half) (Spicy)", "paneer tikka"},
		{"(Combo) Thali", ""},
		{"MASALA DOSA", "masala dosa"},
	}
	for _, tt := range tests {
		if got := NormalizeName(tt.in); got != tt.want {
			t.Errorf("NormalizeName(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

// TestFiredRules walks single candidates through the cascade and checks
// which rules scale them.
func TestFiredRules(t *testing.T) {
	t.Parallel()

	rules := DefaultRules()
	tests := []struct {
		name      string
		target    Target
		candidate catalog.Item
		want      []string
	}{
		{
			name:      "cross-cuisine side under dry main",
			target:    targetFor("Jeera Rice", catalog.CategoryMain, "North Indian"),
			candidate: item(2, "Kimchi", catalog.CategorySide, "Korean", true),
			want:      []string{"cuisine_shield", "main_dry_side"},
		},
		{
			name:      "cross-cuisine drink is shielded from cuisine rule",
			target:    targetFor("Jeera Rice", catalog.CategoryMain, "North Indian"),
			candidate: item(2, "Green Tea", catalog.CategoryDrink, "Japanese", true),
			want:      []string{"main_dry_drink"},
		},
		{
			name:      "dessert under bread",
			target:    targetFor("Tandoori Roti", catalog.CategoryBread, "North Indian"),
			candidate: item(2, "Rasmalai", catalog.CategoryDessert, "North Indian", true),
			want:      []string{"dessert_kill_switch"},
		},
		{
			name:      "starter under starter",
			target:    targetFor("Hara Bhara Kebab", catalog.CategoryStarter, "North Indian"),
			candidate: item(2, "Aloo Tikki", catalog.CategoryStarter, "North Indian", true),
			want:      []string{"starter_other_starters"},
		},
		{
			name:      "main under starter",
			target:    targetFor("Hara Bhara Kebab", catalog.CategoryStarter, "North Indian"),
			candidate: item(2, "Dal Makhani", catalog.CategoryMain, "North Indian", true),
			want:      []string{"starter_main"},
		},
		{
			name:      "non-veg burger under bread",
			target:    targetFor("Butter Naan", catalog.CategoryBread, "North Indian"),
			candidate: item(2, "Chicken Burger", catalog.CategoryMain, "North Indian", false),
			want:      []string{"bread_main", "bread_non_veg", "bread_dry_dish"},
		},
		{
			name:      "side under dessert",
			target:    targetFor("Gulab Jamun", catalog.CategoryDessert, "North Indian"),
			candidate: item(2, "Onion Rings", catalog.CategorySide, "North Indian", true),
			want:      []string{"dessert_non_sweet"},
		},
		{
			name:      "beverage under side target fires nothing",
			target:    targetFor("Onion Rings", catalog.CategorySide, "American"),
			candidate: item(2, "Iced Tea", catalog.CategoryBeverage, "American", true),
			want:      nil,
		},
		{
			name:      "starter under fast-food starter",
			target:    targetFor("Cheesy Fries", catalog.CategoryStarter, "American"),
			candidate: item(2, "Chicken Nuggets", catalog.CategoryStarter, "American", false),
			want:      []string{"starter_other_starters", "fast_food_starter"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			p := NewProfile(&tt.candidate)
			if got := FiredRules(rules, &tt.target, &p); !slices.Equal(got, tt.want) {
				t.Errorf("FiredRules() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestApplyRules_CompoundsInOrder(t *testing.T) {
	t.Parallel()

	target := targetFor("Classic Burger", catalog.CategoryMain, "American")
	items := []catalog.Item{
		item(2, "Fries", catalog.CategorySide, "American", true),
		item(3, "Coleslaw", catalog.CategorySide, "Mexican", true),
	}
	profiles := []Profile{NewProfile(&items[0]), NewProfile(&items[1])}
	scores := []float64{0.5, 0.5}

	ApplyRules(DefaultRules(), &target, profiles, scores)

	if !approx(scores[0], 0.5*4*20) {
		t.Errorf("same-cuisine side = %v, want %v", scores[0], 0.5*4*20)
	}
	if !approx(scores[1], 0.5*0.1*4*20) {
		t.Errorf("cross-cuisine side = %v, want %v", scores[1], 0.5*0.1*4*20)
	}
}

func TestApplyRules_CustomTable(t *testing.T) {
	t.Parallel()

	rules := []Rule{{
		Name:   "double_everything",
		When:   always,
		Match:  func(*Target, *Profile) bool { return true },
		Factor: 2,
	}}
	target := targetFor("Idli", catalog.CategoryMain, "South Indian")
	it := item(2, "Vada", catalog.CategorySide, "South Indian", true)
	scores := []float64{0.25}

	ApplyRules(rules, &target, []Profile{NewProfile(&it)}, scores)
	if scores[0] != 0.5 {
		t.Errorf("score = %v, want 0.5", scores[0])
	}
}
