// Mealrec - Restaurant Menu Meal-Completion Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/mealrec

package trainer

import (
	"math"
	"math/rand"
	"slices"
	"testing"
)

func TestAdamStep_FirstUpdateIsLearningRate(t *testing.T) {
	t.Parallel()

	m, err := NewModel(2, testText(t), 3, 2, rand.New(rand.NewSource(1)))
	if err != nil {
		t.Fatalf("NewModel() error = %v", err)
	}
	b2 := slices.Clone(m.Param(paramB2).Data())
	users := slices.Clone(m.Param(paramUser).Data())

	const lr = 0.01
	opt := NewAdam(m, lr)
	g := newGradients(m)
	g.dense[paramB2][0] = 0.5
	g.dense[paramB2][1] = -2
	g.row(paramUser, 1)[0] = 3
	opt.Step(m, g)

	if opt.Steps() != 1 {
		t.Errorf("Steps() = %d, want 1", opt.Steps())
	}

	near := func(got, want float32) bool {
		return math.Abs(float64(got-want)) < 1e-5
	}
	gotB2 := m.Param(paramB2).Data()
	if !near(gotB2[0], b2[0]-lr) || !near(gotB2[1], b2[1]+lr) {
		t.Errorf("b2 = %v, want %v", gotB2, []float32{b2[0] - lr, b2[1] + lr})
	}

	gotUsers := m.Param(paramUser).Data()
	// user 0 untouched; user 1 moved only on the coordinate with a gradient.
	if gotUsers[0] != users[0] || gotUsers[1] != users[1] {
		t.Errorf("user 0 changed: %v -> %v", users[:2], gotUsers[:2])
	}
	if !near(gotUsers[2], users[2]-lr) || gotUsers[3] != users[3] {
		t.Errorf("user 1 = %v, want [%v %v]", gotUsers[2:], users[2]-lr, users[3])
	}
	if opt.m[paramUser].Row(0)[0] != 0 {
		t.Error("first moment of an untouched row changed")
	}
}

func TestAdamStep_ReducesLoss(t *testing.T) {
	t.Parallel()

	m, err := NewModel(2, testText(t), 4, 3, rand.New(rand.NewSource(9)))
	if err != nil {
		t.Fatalf("NewModel() error = %v", err)
	}
	batch := []Sample{
		{User: 0, Pos: 0, Neg: []int32{1, 2}, Weight: 1},
		{User: 1, Pos: 2, Neg: []int32{0}, Weight: 1},
	}

	opt := NewAdam(m, 0.05)
	first, g := m.lossAndGrad(batch)
	opt.Step(m, g)
	for range 199 {
		_, g = m.lossAndGrad(batch)
		opt.Step(m, g)
	}
	last := batchLoss(m, batch)
	if last > first {
		t.Errorf("loss %v did not drop below %v", last, first)
	}
	if last > 0.1 {
		t.Errorf("loss after 200 steps = %v, want < 0.1", last)
	}
}
