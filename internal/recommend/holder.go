// Mealrec - Restaurant Menu Meal-Completion Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/mealrec

package recommend

import (
	"sync/atomic"

	"github.com/google/uuid"
)

// Holder publishes the live Engine. Readers call Load once per request and
// keep using that engine; a concurrent Swap never changes it under them.
type Holder struct {
	engine atomic.Pointer[Engine]
}

// NewHolder returns a holder serving e.
func NewHolder(e *Engine) *Holder {
	h := &Holder{}
	h.engine.Store(e)
	return h
}

// Load returns the live engine.
func (h *Holder) Load() *Engine {
	return h.engine.Load()
}

// Swap publishes e and returns the engine it replaced.
func (h *Holder) Swap(e *Engine) *Engine {
	return h.engine.Swap(e)
}

// NewSnapshotVersion returns a short random snapshot label.
func NewSnapshotVersion() string {
	return uuid.NewString()[:8]
}
