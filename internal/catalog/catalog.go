// Mealrec - Restaurant Menu Meal-Completion Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/mealrec

// Package catalog holds the read-only menu item table.
//
// A Catalog keeps items in load order. Row i of the catalog corresponds to
// row i of the embedding matrix, so the table is never re-sorted after
// construction; lookups by item_id go through an index built once in New.
package catalog

import (
	"errors"
	"fmt"
	"strings"
)

// Category names used by the recommendation rules.
const (
	CategoryMain     = "Main"
	CategoryStarter  = "Starter"
	CategoryBread    = "Bread"
	CategorySide     = "Side"
	CategoryDessert  = "Dessert"
	CategoryDrink    = "Drink"
	CategoryBeverage = "Beverage"
)

// ErrDuplicateItem is returned by New when two rows share an item_id.
var ErrDuplicateItem = errors.New("duplicate item_id")

// Item is one menu row.
type Item struct {
	ID             int64   `json:"item_id"`
	Name           string  `json:"name"`
	Category       string  `json:"category"`
	CuisineType    string  `json:"cuisine_type"`
	IsVeg          bool    `json:"is_veg"`
	Price          float64 `json:"price"`
	RestaurantID   int64   `json:"restaurant_id"`
	RestaurantName string  `json:"restaurant_name"`
	Locality       string  `json:"locality"`
	Description    string  `json:"description"`
}

// City returns the part of Locality before the first comma.
func (it *Item) City() string {
	city, _, _ := strings.Cut(it.Locality, ",")
	return strings.TrimSpace(city)
}

// Area returns the part of Locality after the first comma.
func (it *Item) Area() string {
	_, area, _ := strings.Cut(it.Locality, ",")
	return strings.TrimSpace(area)
}

// Catalog is an immutable, row-ordered item table.
type Catalog struct {
	items        []Item
	index        map[int64]int
	byRestaurant map[int64][]int
}

// New builds a catalog from items in the given order. The slice is copied.
func New(items []Item) (*Catalog, error) {
	c := &Catalog{
		items:        make([]Item, len(items)),
		index:        make(map[int64]int, len(items)),
		byRestaurant: make(map[int64][]int),
	}
	copy(c.items, items)

	for row := range c.items {
		it := &c.items[row]
		if prev, exists := c.index[it.ID]; exists {
			return nil, fmt.Errorf("%w: item_id %d at rows %d and %d", ErrDuplicateItem, it.ID, prev, row)
		}
		c.index[it.ID] = row
		c.byRestaurant[it.RestaurantID] = append(c.byRestaurant[it.RestaurantID], row)
	}

	return c, nil
}

// Len returns the number of rows.
func (c *Catalog) Len() int {
	return len(c.items)
}

// At returns the item stored at row. The returned pointer must not be modified.
func (c *Catalog) At(row int) *Item {
	return &c.items[row]
}

// Row returns the row index of itemID.
func (c *Catalog) Row(itemID int64) (int, bool) {
	row, ok := c.index[itemID]
	return row, ok
}

// Get returns a copy of the item with the given id.
func (c *Catalog) Get(itemID int64) (Item, bool) {
	row, ok := c.index[itemID]
	if !ok {
		return Item{}, false
	}
	return c.items[row], true
}

// IDs returns item ids in row order.
func (c *Catalog) IDs() []int64 {
	ids := make([]int64, len(c.items))
	for i := range c.items {
		ids[i] = c.items[i].ID
	}
	return ids
}

// Restaurants returns the number of distinct restaurant ids.
func (c *Catalog) Restaurants() int {
	return len(c.byRestaurant)
}
