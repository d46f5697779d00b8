// Mealrec - Restaurant Menu Meal-Completion Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/mealrec

package catalog

import (
	"slices"
	"testing"
)

func ids(items []Item) []int64 {
	out := make([]int64, len(items))
	for i := range items {
		out[i] = items[i].ID
	}
	return out
}

func TestMenu(t *testing.T) {
	t.Parallel()
	c := mustCatalog(t)

	tests := []struct {
		name         string
		restaurantID int64
		want         []int64
	}{
		{"first restaurant", 10, []int64{1, 2, 3}},
		{"second restaurant", 20, []int64{4, 5, 6}},
		{"unknown restaurant", 99, []int64{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := ids(c.Menu(tt.restaurantID)); !slices.Equal(got, tt.want) {
				t.Errorf("Menu(%d) = %v, want %v", tt.restaurantID, got, tt.want)
			}
		})
	}
}

func TestNormalizeTerm(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   string
		want string
	}{
		{"  Drinks ", "drink"},
		{"BURGERS", "burger"},
		{"biryanis", "biryani"},
		{"Naan", "naan"},
		{"", ""},
	}
	for _, tt := range tests {
		if got := NormalizeTerm(tt.in); got != tt.want {
			t.Errorf("NormalizeTerm(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestByCategory(t *testing.T) {
	t.Parallel()
	c := mustCatalog(t)

	tests := []struct {
		name  string
		term  string
		limit int
		want  []int64
	}{
		// "Main" matches no names, so category hits come back in catalog order.
		{"category match", "main", 50, []int64{1, 3, 4}},
		{"name before category", "biryani", 50, []int64{3}},
		{"plural synonym", "Drinks", 50, []int64{5}},
		{"cuisine match", "american", 50, []int64{4}},
		{"cuisine substring", "indian", 50, []int64{1, 2}},
		{"limit applied", "main", 2, []int64{1, 3}},
		{"no match", "sushi", 50, []int64{}},
		{"blank term", "   ", 50, []int64{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := ids(c.ByCategory(tt.term, tt.limit)); !slices.Equal(got, tt.want) {
				t.Errorf("ByCategory(%q, %d) = %v, want %v", tt.term, tt.limit, got, tt.want)
			}
		})
	}
}

func TestByCategory_NameHitsRankFirst(t *testing.T) {
	t.Parallel()

	items := []Item{
		{ID: 1, Name: "Paneer Tikka", Category: "Cake Specials", CuisineType: "Indian"},
		{ID: 2, Name: "Chocolate Cake", Category: CategoryDessert, CuisineType: "Bakery"},
	}
	c, err := New(items)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	got := ids(c.ByCategory("cakes", 10))
	want := []int64{2, 1}
	if !slices.Equal(got, want) {
		t.Errorf("ByCategory(cakes) = %v, want %v", got, want)
	}
}

func TestSearch(t *testing.T) {
	t.Parallel()
	c := mustCatalog(t)
	veg := true
	nonVeg := false

	tests := []struct {
		name string
		q    Query
		want []int64
	}{
		{"text in name", Query{Text: "naan", Limit: 10}, []int64{2}},
		{"text in description", Query{Text: "sponge", Limit: 10}, []int64{6}},
		{"text in restaurant", Query{Text: "patty", Limit: 10}, []int64{4, 5, 6}},
		{"city filter", Query{City: "bengaluru", Limit: 10}, []int64{4, 5, 6}},
		{"area substring", Query{Area: "banjara", Limit: 10}, []int64{1, 2, 3}},
		{"city must match whole", Query{City: "Hyder", Limit: 10}, []int64{}},
		{"veg only", Query{Veg: &veg, Limit: 10}, []int64{2, 3, 5, 6}},
		{"non-veg in city", Query{City: "Hyderabad", Veg: &nonVeg, Limit: 10}, []int64{1}},
		{"limit", Query{Limit: 2}, []int64{1, 2}},
		{"zero limit", Query{Text: "naan"}, []int64{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := ids(c.Search(tt.q)); !slices.Equal(got, tt.want) {
				t.Errorf("Search(%+v) = %v, want %v", tt.q, got, tt.want)
			}
		})
	}
}

func TestLocality(t *testing.T) {
	t.Parallel()
	c := mustCatalog(t)

	if got := ids(c.Locality("Hyderabad", "Banjara Hills", 50)); !slices.Equal(got, []int64{1, 2, 3}) {
		t.Errorf("Locality(Hyderabad, Banjara Hills) = %v", got)
	}
	if got := ids(c.Locality("Hyderabad", "Indiranagar", 50)); len(got) != 0 {
		t.Errorf("Locality(Hyderabad, Indiranagar) = %v, want none", got)
	}
}
