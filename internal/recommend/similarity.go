// Mealrec - Restaurant Menu Meal-Completion Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/mealrec

package recommend

import (
	"math"

	"github.com/tomtom215/mealrec/internal/embedding"
)

// CosineSimilarity returns a·b / (|a||b|). A zero vector on either side, or
// mismatched lengths, yields 0.
func CosineSimilarity(a, b []float32) float64 {
	if len(a) != len(b) || len(a) == 0 {
		return 0
	}

	var dot, normA, normB float64
	for i := range a {
		x, y := float64(a[i]), float64(b[i])
		dot += x * y
		normA += x * x
		normB += y * y
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}

// rowNorms returns the L2 norm of every row of m.
func rowNorms(m *embedding.Matrix) []float64 {
	norms := make([]float64, m.Rows())
	for i := range norms {
		var sum float64
		for _, v := range m.Row(i) {
			sum += float64(v) * float64(v)
		}
		norms[i] = math.Sqrt(sum)
	}
	return norms
}

// similarities scores row target against every row of m (itself included)
// using precomputed norms. The result is indexed by row.
func similarities(m *embedding.Matrix, norms []float64, target int) []float64 {
	scores := make([]float64, m.Rows())
	tn := norms[target]
	if tn == 0 {
		return scores
	}

	tv := m.Row(target)
	for i := range scores {
		if norms[i] == 0 {
			continue
		}
		var dot float64
		for j, v := range m.Row(i) {
			dot += float64(tv[j]) * float64(v)
		}
		scores[i] = dot / (tn * norms[i])
	}
	return scores
}
