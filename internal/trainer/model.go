// Mealrec - Restaurant Menu Meal-Completion Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/mealrec

package trainer

import (
	"fmt"
	"math"
	"math/rand"

	"github.com/tomtom215/mealrec/internal/embedding"
)

// Shape fixes the sizes of every model tensor.
type Shape struct {
	Users   int `json:"users"`
	Items   int `json:"items"`
	TextDim int `json:"text_dim"`
	Hidden  int `json:"hidden"`
	Dim     int `json:"dim"`
}

// Parameter names, also used as checkpoint tensor keys.
const (
	paramUser   = "user"
	paramItemID = "item_id"
	paramW1     = "w1"
	paramB1     = "b1"
	paramW2     = "w2"
	paramB2     = "b2"
)

// paramOrder is the fixed iteration order over parameters.
var paramOrder = []string{paramUser, paramItemID, paramW1, paramB1, paramW2, paramB2}

// sparseParams are embedding tables updated only on the rows a batch uses.
var sparseParams = map[string]bool{paramUser: true, paramItemID: true}

// Model is a two-tower recommender. The user tower is an embedding table.
// The item tower projects the frozen text embedding through a one hidden
// layer ReLU network and adds a per-item id embedding:
//
//	item(i) = W2·relu(W1·text(i) + b1) + b2 + id(i)
//
// A user's affinity for an item is the dot product of the two vectors.
type Model struct {
	shape  Shape
	text   *embedding.Matrix
	params map[string]*embedding.Matrix
}

// NewModel initializes a model over the catalog-aligned text matrix.
// Embedding tables start from N(0, 1) and linear layers from
// U(-1/sqrt(fan_in), 1/sqrt(fan_in)).
func NewModel(users int, text *embedding.Matrix, hidden, dim int, rng *rand.Rand) (*Model, error) {
	shape := Shape{
		Users:   users,
		Items:   text.Rows(),
		TextDim: text.Dim(),
		Hidden:  hidden,
		Dim:     dim,
	}
	if shape.Users <= 0 || shape.Items <= 0 || shape.TextDim <= 0 || hidden <= 0 || dim <= 0 {
		return nil, fmt.Errorf("invalid model shape %+v", shape)
	}

	m := &Model{shape: shape, text: text, params: make(map[string]*embedding.Matrix, len(paramOrder))}
	for _, name := range paramOrder {
		rows, cols := shape.paramDims(name)
		m.params[name] = embedding.Zeros(rows, cols)
	}

	fillNormal(m.params[paramUser].Data(), rng)
	fillNormal(m.params[paramItemID].Data(), rng)
	fillUniform(m.params[paramW1].Data(), shape.TextDim, rng)
	fillUniform(m.params[paramB1].Data(), shape.TextDim, rng)
	fillUniform(m.params[paramW2].Data(), shape.Hidden, rng)
	fillUniform(m.params[paramB2].Data(), shape.Hidden, rng)
	return m, nil
}

// paramDims returns the rows x cols of a named parameter.
func (s Shape) paramDims(name string) (rows, cols int) {
	switch name {
	case paramUser:
		return s.Users, s.Dim
	case paramItemID:
		return s.Items, s.Dim
	case paramW1:
		return s.Hidden, s.TextDim
	case paramB1:
		return 1, s.Hidden
	case paramW2:
		return s.Dim, s.Hidden
	case paramB2:
		return 1, s.Dim
	}
	panic("unknown parameter " + name)
}

func fillNormal(dst []float32, rng *rand.Rand) {
	for i := range dst {
		dst[i] = float32(rng.NormFloat64())
	}
}

func fillUniform(dst []float32, fanIn int, rng *rand.Rand) {
	bound := 1 / math.Sqrt(float64(fanIn))
	for i := range dst {
		dst[i] = float32((rng.Float64()*2 - 1) * bound)
	}
}

// Shape returns the model dimensions.
func (m *Model) Shape() Shape { return m.shape }

// Param returns a named parameter tensor.
func (m *Model) Param(name string) *embedding.Matrix { return m.params[name] }

// itemActs caches one item tower forward pass.
type itemActs struct {
	pre []float64 // W1·text + b1
	hid []float64 // relu(pre)
	out []float64 // item vector
}

func (m *Model) itemForward(row int32) *itemActs {
	s := m.shape
	w1, b1 := m.params[paramW1].Data(), m.params[paramB1].Data()
	w2, b2 := m.params[paramW2].Data(), m.params[paramB2].Data()
	text := m.text.Row(int(row))
	id := m.params[paramItemID].Row(int(row))

	a := &itemActs{
		pre: make([]float64, s.Hidden),
		hid: make([]float64, s.Hidden),
		out: make([]float64, s.Dim),
	}
	for j := 0; j < s.Hidden; j++ {
		sum := float64(b1[j])
		wrow := w1[j*s.TextDim : (j+1)*s.TextDim]
		for t, x := range text {
			sum += float64(wrow[t]) * float64(x)
		}
		a.pre[j] = sum
		if sum > 0 {
			a.hid[j] = sum
		}
	}
	for k := 0; k < s.Dim; k++ {
		sum := float64(b2[k]) + float64(id[k])
		wrow := w2[k*s.Hidden : (k+1)*s.Hidden]
		for j, h := range a.hid {
			sum += float64(wrow[j]) * h
		}
		a.out[k] = sum
	}
	return a
}

// ItemVectors runs the item tower over every catalog row.
func (m *Model) ItemVectors() *embedding.Matrix {
	out := embedding.Zeros(m.shape.Items, m.shape.Dim)
	for i := 0; i < m.shape.Items; i++ {
		a := m.itemForward(int32(i)) //nolint:gosec // bounded by Items
		row := out.Row(i)
		for k, v := range a.out {
			row[k] = float32(v)
		}
	}
	return out
}

// gradients accumulates one batch. Dense parameters have a full buffer;
// embedding tables keep only the rows the batch touched.
type gradients struct {
	dense  map[string][]float64
	sparse map[string]map[int32][]float64
	dim    int
}

func newGradients(m *Model) *gradients {
	g := &gradients{
		dense:  make(map[string][]float64),
		sparse: make(map[string]map[int32][]float64),
		dim:    m.shape.Dim,
	}
	for _, name := range paramOrder {
		if sparseParams[name] {
			g.sparse[name] = make(map[int32][]float64)
			continue
		}
		g.dense[name] = make([]float64, len(m.params[name].Data()))
	}
	return g
}

func (g *gradients) row(name string, r int32) []float64 {
	rows := g.sparse[name]
	v, ok := rows[r]
	if !ok {
		v = make([]float64, g.dim)
		rows[r] = v
	}
	return v
}

const bprEpsilon = 1e-8

// lossAndGrad returns the weighted BPR loss of batch, averaged over every
// (positive, negative) pair, and its gradient.
//
//	loss = mean(w · -log(sigmoid(u·pos - u·neg) + 1e-8))
func (m *Model) lossAndGrad(batch []Sample) (float64, *gradients) {
	g := newGradients(m)

	pairs := 0
	acts := make(map[int32]*itemActs)
	forward := func(row int32) *itemActs {
		a, ok := acts[row]
		if !ok {
			a = m.itemForward(row)
			acts[row] = a
		}
		return a
	}
	for i := range batch {
		pairs += len(batch[i].Neg)
		forward(batch[i].Pos)
		for _, n := range batch[i].Neg {
			forward(n)
		}
	}
	if pairs == 0 {
		return 0, g
	}
	n := float64(pairs)

	// dL/d(item vector), summed over every occurrence in the batch. rows
	// keeps first-use order so the dense sums are reproducible.
	itemGrad := make(map[int32][]float64, len(acts))
	rows := make([]int32, 0, len(acts))
	vecGrad := func(row int32) []float64 {
		v, ok := itemGrad[row]
		if !ok {
			v = make([]float64, m.shape.Dim)
			itemGrad[row] = v
			rows = append(rows, row)
		}
		return v
	}

	var loss float64
	for i := range batch {
		s := &batch[i]
		u := m.params[paramUser].Row(int(s.User))
		pos := acts[s.Pos].out
		posScore := dot32(u, pos)
		w := float64(s.Weight)

		gu := g.row(paramUser, s.User)
		for _, negRow := range s.Neg {
			neg := acts[negRow].out
			diff := posScore - dot32(u, neg)
			sig := sigmoid(diff)
			loss += -w * math.Log(sig+bprEpsilon)

			coef := -w * sig * (1 - sig) / (sig + bprEpsilon) / n
			gp, gn := vecGrad(s.Pos), vecGrad(negRow)
			for k := range u {
				gu[k] += coef * (pos[k] - neg[k])
				gp[k] += coef * float64(u[k])
				gn[k] -= coef * float64(u[k])
			}
		}
	}

	for _, row := range rows {
		m.backwardItem(row, acts[row], itemGrad[row], g)
	}
	return loss / n, g
}

// backwardItem propagates gv, the gradient of one item vector, through the
// item tower. The text embedding is frozen.
func (m *Model) backwardItem(row int32, a *itemActs, gv []float64, g *gradients) {
	s := m.shape
	w2 := m.params[paramW2].Data()
	text := m.text.Row(int(row))

	gid := g.row(paramItemID, row)
	gb2, gw2 := g.dense[paramB2], g.dense[paramW2]
	gh := make([]float64, s.Hidden)
	for k, gk := range gv {
		gid[k] += gk
		gb2[k] += gk
		for j := 0; j < s.Hidden; j++ {
			gw2[k*s.Hidden+j] += gk * a.hid[j]
			gh[j] += float64(w2[k*s.Hidden+j]) * gk
		}
	}

	gb1, gw1 := g.dense[paramB1], g.dense[paramW1]
	for j, gj := range gh {
		if a.pre[j] <= 0 {
			continue
		}
		gb1[j] += gj
		for t, x := range text {
			gw1[j*s.TextDim+t] += gj * float64(x)
		}
	}
}

func dot32(a []float32, b []float64) float64 {
	var sum float64
	for i, x := range a {
		sum += float64(x) * b[i]
	}
	return sum
}

func sigmoid(x float64) float64 {
	if x >= 0 {
		return 1 / (1 + math.Exp(-x))
	}
	e := math.Exp(x)
	return e / (1 + e)
}
