// Mealrec - Restaurant Menu Meal-Completion Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/mealrec

package catalog

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	_ "github.com/duckdb/duckdb-go/v2" // DuckDB driver

	"github.com/tomtom215/mealrec/internal/logging"
)

// ErrMissingColumn is returned when the CSV lacks a required column.
var ErrMissingColumn = errors.New("missing required column")

// requiredColumns must be present in every catalog file. Other known columns
// default to their zero value when absent.
var requiredColumns = []string{"item_id", "name", "category"}

// LoadCSV reads a catalog CSV through an in-memory DuckDB instance.
//
// Every column is read as VARCHAR and parsed here so that exports which wrote
// item_id as "18075.0" or is_veg as "True" load the same as clean files.
func LoadCSV(ctx context.Context, path string) (*Catalog, error) {
	var items []Item
	err := ScanCSV(ctx, path, requiredColumns, func(line int, field func(string) string) error {
		it, err := parseRow(field)
		if err != nil {
			return fmt.Errorf("catalog row %d: %w", line, err)
		}
		items = append(items, it)
		return nil
	})
	if err != nil {
		return nil, err
	}

	c, err := New(items)
	if err != nil {
		return nil, err
	}
	logging.Info().
		Str("path", path).
		Int("items", c.Len()).
		Int("restaurants", c.Restaurants()).
		Msg("Catalog loaded")
	return c, nil
}

// ScanCSV streams a headered CSV through an in-memory DuckDB instance and
// calls fn for every row in file order. field returns the trimmed value of
// a lower-cased column name, or "" for NULL and absent columns. line counts
// the header as line 1. A missing required column fails with
// ErrMissingColumn before any row is read.
func ScanCSV(ctx context.Context, path string, required []string, fn func(line int, field func(string) string) error) error {
	conn, err := sql.Open("duckdb", "")
	if err != nil {
		return fmt.Errorf("failed to open in-memory duckdb: %w", err)
	}
	defer func() {
		if cerr := conn.Close(); cerr != nil {
			logging.Warn().Err(cerr).Msg("Failed to close duckdb connection")
		}
	}()

	// DuckDB preserves insertion order, so rows come back in file order.
	query := fmt.Sprintf(
		"SELECT * FROM read_csv(%s, header = true, auto_detect = true, all_varchar = true)",
		quoteLiteral(path),
	)
	rows, err := conn.QueryContext(ctx, query)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", path, err)
	}
	defer rows.Close()

	columns, err := rows.Columns()
	if err != nil {
		return fmt.Errorf("failed to read columns of %s: %w", path, err)
	}
	pos := make(map[string]int, len(columns))
	for i, name := range columns {
		pos[strings.ToLower(strings.TrimSpace(name))] = i
	}
	for _, name := range required {
		if _, ok := pos[name]; !ok {
			return fmt.Errorf("%w: %s in %s", ErrMissingColumn, name, path)
		}
	}

	values := make([]sql.NullString, len(columns))
	dest := make([]any, len(columns))
	for i := range values {
		dest[i] = &values[i]
	}
	field := func(name string) string {
		i, ok := pos[name]
		if !ok || !values[i].Valid {
			return ""
		}
		return strings.TrimSpace(values[i].String)
	}

	line := 1 // header
	for rows.Next() {
		line++
		if err := rows.Scan(dest...); err != nil {
			return fmt.Errorf("failed to scan %s row %d: %w", path, line, err)
		}
		if err := fn(line, field); err != nil {
			return err
		}
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("error iterating %s rows: %w", path, err)
	}
	return nil
}

func parseRow(field func(string) string) (Item, error) {
	id, err := ParseID(field("item_id"))
	if err != nil {
		return Item{}, fmt.Errorf("item_id: %w", err)
	}
	it := Item{
		ID:             id,
		Name:           field("name"),
		Category:       field("category"),
		CuisineType:    field("cuisine_type"),
		RestaurantName: field("restaurant_name"),
		Locality:       field("locality"),
		Description:    field("description"),
	}
	if it.IsVeg, err = parseBool(field("is_veg")); err != nil {
		return Item{}, fmt.Errorf("is_veg: %w", err)
	}
	if s := field("price"); s != "" {
		if it.Price, err = strconv.ParseFloat(s, 64); err != nil {
			return Item{}, fmt.Errorf("price: %w", err)
		}
	}
	if s := field("restaurant_id"); s != "" {
		if it.RestaurantID, err = ParseID(s); err != nil {
			return Item{}, fmt.Errorf("restaurant_id: %w", err)
		}
	}
	return it, nil
}

// ParseID accepts integers and integral floats such as "18075.0".
func ParseID(s string) (int64, error) {
	if s == "" {
		return 0, errors.New("empty value")
	}
	if n, err := strconv.ParseInt(s, 10, 64); err == nil {
		return n, nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid id %q", s)
	}
	if f != math.Trunc(f) || math.IsInf(f, 0) || math.Abs(f) > 1<<53 {
		return 0, fmt.Errorf("non-integral id %q", s)
	}
	return int64(f), nil
}

func parseBool(s string) (bool, error) {
	switch strings.ToLower(s) {
	case "", "0", "0.0", "false", "f", "no", "n":
		return false, nil
	case "1", "1.0", "true", "t", "yes", "y":
		return true, nil
	default:
		return false, fmt.Errorf("invalid boolean %q", s)
	}
}

// quoteLiteral renders s as a SQL string literal.
func quoteLiteral(s string) string {
	return "'" + strings.ReplaceAll(s, "'", "''") + "'"
}
