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
	"strconv"
	"time"

	"github.com/tomtom215/mealrec/internal/config"
	"github.com/tomtom215/mealrec/internal/embedding"
	"github.com/tomtom215/mealrec/internal/logging"
	"github.com/tomtom215/mealrec/internal/metrics"
)

// Options are the training hyperparameters.
type Options struct {
	Dim          int
	Hidden       int
	Negatives    int
	Epochs       int
	BatchSize    int
	LearningRate float64
	Seed         int64
}

// OptionsFrom copies the hyperparameters out of the trainer config.
func OptionsFrom(cfg *config.TrainerConfig) Options {
	return Options{
		Dim:          cfg.EmbeddingDim,
		Hidden:       cfg.HiddenDim,
		Negatives:    cfg.Negatives,
		Epochs:       cfg.Epochs,
		BatchSize:    cfg.BatchSize,
		LearningRate: cfg.LearningRate,
		Seed:         cfg.Seed,
	}
}

// Checkpointer persists training state between epochs.
type Checkpointer interface {
	Save(ctx context.Context, ck *Checkpoint) error
	Latest(ctx context.Context) (*Checkpoint, error)
}

// EpochStats summarizes one epoch.
type EpochStats struct {
	Epoch    int
	Loss     float64
	Batches  int
	Duration time.Duration
}

// Trainer fits a Model to a Dataset with Adam and BPR loss.
type Trainer struct {
	data  *Dataset
	model *Model
	opt   *Adam
	opts  Options
	store Checkpointer

	// completed epochs
	epoch int
}

// New creates a trainer with a freshly initialized model. store may be
// nil to train without checkpoints.
func New(data *Dataset, text *embedding.Matrix, opts Options, store Checkpointer) (*Trainer, error) {
	if text.Rows() != data.NumItems {
		return nil, fmt.Errorf("text embeddings have %d rows, catalog has %d items", text.Rows(), data.NumItems)
	}
	if opts.Epochs < 1 || opts.BatchSize < 1 || opts.Negatives < 1 || opts.LearningRate <= 0 {
		return nil, fmt.Errorf("invalid training options %+v", opts)
	}

	rng := rand.New(rand.NewSource(opts.Seed)) //nolint:gosec // reproducible training, not security
	model, err := NewModel(len(data.Users), text, opts.Hidden, opts.Dim, rng)
	if err != nil {
		return nil, err
	}
	return &Trainer{
		data:  data,
		model: model,
		opt:   NewAdam(model, opts.LearningRate),
		opts:  opts,
		store: store,
	}, nil
}

// Model returns the model being trained.
func (t *Trainer) Model() *Model { return t.model }

// Epoch returns the number of completed epochs.
func (t *Trainer) Epoch() int { return t.epoch }

// Resume restores the latest checkpoint if it was taken on the same data
// shape, user list and seed. It reports whether training state was restored.
func (t *Trainer) Resume(ctx context.Context) (bool, error) {
	if t.store == nil {
		return false, nil
	}
	ck, err := t.store.Latest(ctx)
	if errors.Is(err, ErrNoCheckpoint) {
		return false, nil
	}
	if err != nil {
		return false, err
	}

	if ck.Shape != t.model.shape || ck.Seed != t.opts.Seed || !slices.Equal(ck.Users, t.data.Users) {
		logging.Warn().
			Int("epoch", ck.Epoch).
			Msg("Checkpoint does not match the current data, training from scratch")
		return false, nil
	}
	if err := t.restore(ck); err != nil {
		return false, err
	}

	logging.Info().
		Int("epoch", ck.Epoch).
		Float64("loss", ck.Loss).
		Msg("Resumed from checkpoint")
	return true, nil
}

// Train runs the remaining epochs, checkpointing after each.
func (t *Trainer) Train(ctx context.Context) ([]EpochStats, error) {
	var stats []EpochStats
	for t.epoch < t.opts.Epochs {
		st, err := t.runEpoch(ctx, t.epoch)
		if err != nil {
			return stats, err
		}
		t.epoch++
		stats = append(stats, st)

		metrics.TrainerEpochLoss.WithLabelValues(strconv.Itoa(st.Epoch)).Set(st.Loss)
		metrics.TrainerEpochDuration.Observe(st.Duration.Seconds())
		logging.Info().
			Int("epoch", st.Epoch).
			Int("epochs", t.opts.Epochs).
			Float64("loss", st.Loss).
			Int("batches", st.Batches).
			Dur("duration", st.Duration).
			Msg("Epoch complete")

		if t.store != nil {
			if err := t.store.Save(ctx, t.checkpoint(st.Loss)); err != nil {
				return stats, fmt.Errorf("save checkpoint for epoch %d: %w", st.Epoch, err)
			}
		}
	}
	return stats, nil
}

// runEpoch shuffles and samples negatives from a per-epoch seed, so a run
// resumed at epoch e draws the same batches as an uninterrupted one.
func (t *Trainer) runEpoch(ctx context.Context, epoch int) (EpochStats, error) {
	start := time.Now()
	rng := rand.New(rand.NewSource(t.opts.Seed + int64(epoch) + 1)) //nolint:gosec // reproducible training
	order := rng.Perm(t.data.Len())

	var total float64
	batches := 0
	batch := make([]Sample, 0, t.opts.BatchSize)
	for lo := 0; lo < len(order); lo += t.opts.BatchSize {
		if err := ctx.Err(); err != nil {
			return EpochStats{}, err
		}
		hi := min(lo+t.opts.BatchSize, len(order))
		batch = batch[:0]
		for _, i := range order[lo:hi] {
			batch = append(batch, t.data.Sample(i, t.opts.Negatives, rng))
		}

		loss, grads := t.model.lossAndGrad(batch)
		t.opt.Step(t.model, grads)
		total += loss
		batches++
	}

	return EpochStats{
		Epoch:    epoch + 1,
		Loss:     total / float64(max(batches, 1)),
		Batches:  batches,
		Duration: time.Since(start),
	}, nil
}

const (
	adamMPrefix = "adam_m."
	adamVPrefix = "adam_v."
)

func (t *Trainer) checkpoint(loss float64) *Checkpoint {
	tensors := make(map[string]*embedding.Matrix, 3*len(paramOrder))
	for _, name := range paramOrder {
		tensors[name] = t.model.params[name]
		tensors[adamMPrefix+name] = t.opt.m[name]
		tensors[adamVPrefix+name] = t.opt.v[name]
	}
	return &Checkpoint{
		Epoch:     t.epoch,
		Step:      t.opt.step,
		Loss:      loss,
		Seed:      t.opts.Seed,
		Shape:     t.model.shape,
		Users:     t.data.Users,
		CreatedAt: time.Now().UTC(),
		Tensors:   tensors,
	}
}

func (t *Trainer) restore(ck *Checkpoint) error {
	for _, name := range paramOrder {
		for dst, key := range map[*embedding.Matrix]string{
			t.model.params[name]: name,
			t.opt.m[name]:        adamMPrefix + name,
			t.opt.v[name]:        adamVPrefix + name,
		} {
			src, ok := ck.Tensors[key]
			if !ok {
				return fmt.Errorf("checkpoint %d: missing tensor %s", ck.Epoch, key)
			}
			if src.Rows() != dst.Rows() || src.Dim() != dst.Dim() {
				return fmt.Errorf("checkpoint %d: tensor %s is %dx%d, want %dx%d",
					ck.Epoch, key, src.Rows(), src.Dim(), dst.Rows(), dst.Dim())
			}
			copy(dst.Data(), src.Data())
		}
	}
	t.opt.step = ck.Step
	t.epoch = ck.Epoch
	return nil
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}
