// Mealrec - Restaurant Menu Meal-Completion Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/mealrec

package recommend

import (
	"errors"
	"fmt"
)

// ErrNotFound is returned when the requested item_id is not in the catalog.
// It is distinct from a found item that yields no recommendations.
var ErrNotFound = errors.New("item not found")

// ConfigurationError reports a catalog and embedding matrix that cannot be
// served together. It is fatal at startup.
type ConfigurationError struct {
	Reason        string
	CatalogRows   int
	EmbeddingRows int
	Dim           int
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("configuration error: %s (catalog rows=%d, embedding rows=%d, dim=%d)",
		e.Reason, e.CatalogRows, e.EmbeddingRows, e.Dim)
}

// IsConfigurationError reports whether err wraps a *ConfigurationError.
func IsConfigurationError(err error) bool {
	var ce *ConfigurationError
	return errors.As(err, &ce)
}
