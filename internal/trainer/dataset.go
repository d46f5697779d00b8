// Mealrec - Restaurant Menu Meal-Completion Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/mealrec

package trainer

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"slices"
	"strings"
	"time"

	"github.com/tomtom215/mealrec/internal/catalog"
	"github.com/tomtom215/mealrec/internal/logging"
	"github.com/tomtom215/mealrec/internal/metrics"
)

// ErrNoInteractions is returned when no interaction matches the catalog.
var ErrNoInteractions = errors.New("no usable interactions")

var interactionColumns = []string{"user_id", "item_id"}

// timestampLayouts are tried in order; the first that parses wins.
var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02 15:04:05.999999999",
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// Interaction is one row of the interaction log.
type Interaction struct {
	UserID    string
	ItemID    int64
	Type      string
	Timestamp time.Time
}

// LoadInteractions reads a user_id,item_id,interaction_type,timestamp CSV
// and returns the rows ordered by timestamp. Rows with equal or missing
// timestamps keep file order.
func LoadInteractions(ctx context.Context, path string) ([]Interaction, error) {
	var out []Interaction
	err := catalog.ScanCSV(ctx, path, interactionColumns, func(line int, field func(string) string) error {
		it := Interaction{
			UserID: field("user_id"),
			Type:   strings.ToLower(field("interaction_type")),
		}
		if it.UserID == "" {
			return fmt.Errorf("interactions row %d: empty user_id", line)
		}
		id, err := catalog.ParseID(field("item_id"))
		if err != nil {
			return fmt.Errorf("interactions row %d: item_id: %w", line, err)
		}
		it.ItemID = id
		if ts := field("timestamp"); ts != "" {
			if it.Timestamp, err = parseTimestamp(ts); err != nil {
				return fmt.Errorf("interactions row %d: %w", line, err)
			}
		}
		out = append(out, it)
		return nil
	})
	if err != nil {
		return nil, err
	}

	slices.SortStableFunc(out, func(a, b Interaction) int {
		return a.Timestamp.Compare(b.Timestamp)
	})
	return out, nil
}

func parseTimestamp(s string) (time.Time, error) {
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized timestamp %q", s)
}

// Sample is one positive interaction with its sampled negatives.
type Sample struct {
	User   int32
	Pos    int32
	Neg    []int32
	Weight float32
}

// Dataset holds encoded interactions. Users are indexed by their position
// in the sorted list of distinct user ids; items by catalog row.
type Dataset struct {
	Users    []string
	NumItems int

	user   []int32
	item   []int32
	weight []float32

	history []map[int32]struct{}
	skipped int
}

// BuildDataset encodes interactions against cat. Interactions whose item
// is not in the catalog are skipped and counted. Types missing from
// weights weigh 1.
func BuildDataset(cat *catalog.Catalog, interactions []Interaction, weights map[string]float64) (*Dataset, error) {
	users := make([]string, 0)
	seen := make(map[string]struct{})
	for i := range interactions {
		if _, ok := seen[interactions[i].UserID]; !ok {
			seen[interactions[i].UserID] = struct{}{}
			users = append(users, interactions[i].UserID)
		}
	}
	slices.Sort(users)
	userIdx := make(map[string]int32, len(users))
	for i, u := range users {
		userIdx[u] = int32(i) //nolint:gosec // bounded by len(users)
	}

	d := &Dataset{
		NumItems: cat.Len(),
		history:  make([]map[int32]struct{}, len(users)),
	}
	for i := range d.history {
		d.history[i] = make(map[int32]struct{})
	}

	for i := range interactions {
		it := &interactions[i]
		row, ok := cat.Row(it.ItemID)
		if !ok {
			d.skipped++
			continue
		}
		u := userIdx[it.UserID]
		item := int32(row) //nolint:gosec // catalog rows fit in int32
		w, ok := weights[it.Type]
		if !ok {
			w = 1.0
		}
		d.user = append(d.user, u)
		d.item = append(d.item, item)
		d.weight = append(d.weight, float32(w))
		d.history[u][item] = struct{}{}
	}

	// Users whose every interaction was skipped still own an embedding row
	// so that user indices match the sorted id list.
	d.Users = users

	if d.skipped > 0 {
		metrics.TrainerSkippedInteractions.Add(float64(d.skipped))
		logging.Warn().
			Int("skipped", d.skipped).
			Msg("Interactions reference items missing from the catalog")
	}
	if len(d.user) == 0 {
		return nil, ErrNoInteractions
	}
	return d, nil
}

// Len returns the number of usable interactions.
func (d *Dataset) Len() int { return len(d.user) }

// Skipped returns the number of interactions dropped for unknown items.
func (d *Dataset) Skipped() int { return d.skipped }

// maxNegativeDraws bounds rejection sampling for users who interacted
// with nearly every item.
const maxNegativeDraws = 64

// Sample returns interaction i with k negatives drawn uniformly from the
// items outside the user's history. If the history leaves no room, the
// last draw is accepted as is.
func (d *Dataset) Sample(i, k int, rng *rand.Rand) Sample {
	s := Sample{
		User:   d.user[i],
		Pos:    d.item[i],
		Weight: d.weight[i],
		Neg:    make([]int32, 0, k),
	}
	hist := d.history[s.User]
	for len(s.Neg) < k {
		var cand int32
		for range maxNegativeDraws {
			cand = int32(rng.Intn(d.NumItems)) //nolint:gosec // bounded by NumItems
			if _, ok := hist[cand]; !ok {
				break
			}
		}
		s.Neg = append(s.Neg, cand)
	}
	return s
}
