// Mealrec - Restaurant Menu Meal-Completion Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/mealrec

package trainer

import (
	"math"
	"math/rand"
	"testing"

	"github.com/tomtom215/mealrec/internal/embedding"
)

func testText(t *testing.T) *embedding.Matrix {
	t.Helper()
	m, err := embedding.FromRows([][]float32{
		{0.5, -0.2},
		{0.1, 0.9},
		{-0.7, 0.3},
	})
	if err != nil {
		t.Fatalf("FromRows() error = %v", err)
	}
	return m
}

func TestNewModel_Shapes(t *testing.T) {
	t.Parallel()

	m, err := NewModel(4, testText(t), 5, 6, rand.New(rand.NewSource(1)))
	if err != nil {
		t.Fatalf("NewModel() error = %v", err)
	}

	want := map[string][2]int{
		paramUser:   {4, 6},
		paramItemID: {3, 6},
		paramW1:     {5, 2},
		paramB1:     {1, 5},
		paramW2:     {6, 5},
		paramB2:     {1, 6},
	}
	for name, dims := range want {
		p := m.Param(name)
		if p.Rows() != dims[0] || p.Dim() != dims[1] {
			t.Errorf("%s is %dx%d, want %dx%d", name, p.Rows(), p.Dim(), dims[0], dims[1])
		}
	}

	bound := float32(1 / math.Sqrt(2))
	for _, w := range m.Param(paramW1).Data() {
		if w < -bound || w > bound {
			t.Fatalf("w1 entry %v outside ±%v", w, bound)
		}
	}

	vecs := m.ItemVectors()
	if vecs.Rows() != 3 || vecs.Dim() != 6 {
		t.Errorf("ItemVectors() is %dx%d, want 3x6", vecs.Rows(), vecs.Dim())
	}
}

func TestNewModel_InvalidShape(t *testing.T) {
	t.Parallel()

	if _, err := NewModel(0, testText(t), 4, 4, rand.New(rand.NewSource(1))); err == nil {
		t.Error("NewModel() with zero users: error = nil")
	}
	if _, err := NewModel(2, testText(t), 4, 0, rand.New(rand.NewSource(1))); err == nil {
		t.Error("NewModel() with zero dim: error = nil")
	}
}

// batchLoss evaluates the loss alone.
func batchLoss(m *Model, batch []Sample) float64 {
	loss, _ := m.lossAndGrad(batch)
	return loss
}

func TestLossAndGrad_MatchesFiniteDifferences(t *testing.T) {
	t.Parallel()

	m, err := NewModel(2, testText(t), 3, 2, rand.New(rand.NewSource(3)))
	if err != nil {
		t.Fatalf("NewModel() error = %v", err)
	}
	// Keep every hidden unit active so the loss is smooth around the
	// current point.
	for i := range m.Param(paramB1).Data() {
		m.Param(paramB1).Data()[i] = 5
	}

	batch := []Sample{
		{User: 0, Pos: 0, Neg: []int32{1, 2}, Weight: 0.7},
		{User: 0, Pos: 2, Neg: []int32{1}, Weight: 1},
	}
	_, g := m.lossAndGrad(batch)

	analytic := func(name string, idx int) float64 {
		if dense, ok := g.dense[name]; ok {
			return dense[idx]
		}
		dim := m.Param(name).Dim()
		row, ok := g.sparse[name][int32(idx/dim)] //nolint:gosec // test indices are tiny
		if !ok {
			return 0
		}
		return row[idx%dim]
	}

	const h = 1e-3
	for _, name := range paramOrder {
		data := m.Param(name).Data()
		for idx := range data {
			orig := data[idx]
			plus, minus := orig+h, orig-h

			data[idx] = plus
			lp := batchLoss(m, batch)
			data[idx] = minus
			lm := batchLoss(m, batch)
			data[idx] = orig

			numeric := (lp - lm) / (float64(plus) - float64(minus))
			got := analytic(name, idx)
			if diff := math.Abs(numeric - got); diff > 1e-3+1e-2*math.Abs(numeric) {
				t.Errorf("%s[%d]: analytic %.6f, numeric %.6f", name, idx, got, numeric)
			}
		}
	}
}

func TestLossAndGrad_UnusedUserHasNoGradient(t *testing.T) {
	t.Parallel()

	m, err := NewModel(3, testText(t), 3, 2, rand.New(rand.NewSource(5)))
	if err != nil {
		t.Fatalf("NewModel() error = %v", err)
	}
	_, g := m.lossAndGrad([]Sample{{User: 1, Pos: 0, Neg: []int32{2}, Weight: 1}})

	if len(g.sparse[paramUser]) != 1 {
		t.Fatalf("user gradient rows = %d, want 1", len(g.sparse[paramUser]))
	}
	if _, ok := g.sparse[paramUser][1]; !ok {
		t.Error("missing gradient for user 1")
	}
	if _, ok := g.sparse[paramItemID][1]; ok {
		t.Error("item 1 is not in the batch but has a gradient")
	}
}

func TestLossAndGrad_EmptyBatch(t *testing.T) {
	t.Parallel()

	m, err := NewModel(1, testText(t), 2, 2, rand.New(rand.NewSource(1)))
	if err != nil {
		t.Fatalf("NewModel() error = %v", err)
	}
	loss, g := m.lossAndGrad(nil)
	if loss != 0 {
		t.Errorf("loss = %v, want 0", loss)
	}
	for name, d := range g.dense {
		for _, v := range d {
			if v != 0 {
				t.Fatalf("%s gradient not zero", name)
			}
		}
	}
}

func TestSigmoid(t *testing.T) {
	t.Parallel()

	tests := []struct {
		x, want float64
	}{
		{0, 0.5},
		{800, 1},
		{-800, 0},
	}
	for _, tt := range tests {
		if got := sigmoid(tt.x); math.Abs(got-tt.want) > 1e-12 || math.IsNaN(got) {
			t.Errorf("sigmoid(%v) = %v, want %v", tt.x, got, tt.want)
		}
	}
}
