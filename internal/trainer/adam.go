// Mealrec - Restaurant Menu Meal-Completion Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/mealrec

package trainer

import (
	"math"

	"github.com/tomtom215/mealrec/internal/embedding"
)

// Adam is the Adam optimizer with bias correction. Dense parameters are
// updated every step; embedding tables only on the rows present in the
// gradient, as sparse Adam does.
type Adam struct {
	LearningRate float64
	Beta1        float64
	Beta2        float64
	Epsilon      float64

	step int64
	m    map[string]*embedding.Matrix
	v    map[string]*embedding.Matrix
}

// NewAdam creates an optimizer with zeroed moments shaped like model.
func NewAdam(model *Model, lr float64) *Adam {
	a := &Adam{
		LearningRate: lr,
		Beta1:        0.9,
		Beta2:        0.999,
		Epsilon:      1e-8,
		m:            make(map[string]*embedding.Matrix, len(paramOrder)),
		v:            make(map[string]*embedding.Matrix, len(paramOrder)),
	}
	for _, name := range paramOrder {
		p := model.Param(name)
		a.m[name] = embedding.Zeros(p.Rows(), p.Dim())
		a.v[name] = embedding.Zeros(p.Rows(), p.Dim())
	}
	return a
}

// Steps returns the number of updates applied.
func (a *Adam) Steps() int64 { return a.step }

// Step applies one update from g to model.
func (a *Adam) Step(model *Model, g *gradients) {
	a.step++
	bc1 := 1 - math.Pow(a.Beta1, float64(a.step))
	bc2 := 1 - math.Pow(a.Beta2, float64(a.step))

	for name, grad := range g.dense {
		a.update(model.Param(name).Data(), a.m[name].Data(), a.v[name].Data(), grad, bc1, bc2)
	}
	for name, rows := range g.sparse {
		p, m, v := model.Param(name), a.m[name], a.v[name]
		for r, grad := range rows {
			a.update(p.Row(int(r)), m.Row(int(r)), v.Row(int(r)), grad, bc1, bc2)
		}
	}
}

func (a *Adam) update(w, m, v []float32, g []float64, bc1, bc2 float64) {
	for i, gi := range g {
		mi := a.Beta1*float64(m[i]) + (1-a.Beta1)*gi
		vi := a.Beta2*float64(v[i]) + (1-a.Beta2)*gi*gi
		m[i], v[i] = float32(mi), float32(vi)
		w[i] -= float32(a.LearningRate * (mi / bc1) / (math.Sqrt(vi/bc2) + a.Epsilon))
	}
}
