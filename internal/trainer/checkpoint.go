// Mealrec - Restaurant Menu Meal-Completion Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/mealrec

package trainer

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/goccy/go-json"

	"github.com/tomtom215/mealrec/internal/embedding"
	"github.com/tomtom215/mealrec/internal/logging"
)

// ErrNoCheckpoint is returned when the store holds no checkpoint.
var ErrNoCheckpoint = errors.New("no checkpoint")

// Key layout:
//
//	checkpoint:<epoch>                 JSON metadata
//	checkpoint_tensor:<epoch>:<name>   tensor as .npy bytes
//	checkpoint_latest                  epoch of the newest complete checkpoint
const (
	checkpointKeyPrefix       = "checkpoint:"
	checkpointTensorKeyPrefix = "checkpoint_tensor:"
	checkpointLatestKey       = "checkpoint_latest"
)

// keepCheckpoints is how many epochs of checkpoints survive a save.
const keepCheckpoints = 2

// Checkpoint is the full training state after Epoch completed epochs.
type Checkpoint struct {
	Epoch       int       `json:"epoch"`
	Step        int64     `json:"step"`
	Loss        float64   `json:"loss"`
	Seed        int64     `json:"seed"`
	Shape       Shape     `json:"shape"`
	Users       []string  `json:"users"`
	TensorNames []string  `json:"tensors"`
	CreatedAt   time.Time `json:"created_at"`

	Tensors map[string]*embedding.Matrix `json:"-"`
}

// CheckpointStore keeps checkpoints in BadgerDB.
type CheckpointStore struct {
	db *badger.DB
}

// OpenCheckpointStore opens a store under dir. An empty dir keeps the
// store in memory.
func OpenCheckpointStore(dir string) (*CheckpointStore, error) {
	opts := badger.DefaultOptions(dir).WithLogger(nil)
	if dir == "" {
		opts = opts.WithInMemory(true)
	}
	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open checkpoint store: %w", err)
	}
	return NewCheckpointStore(db), nil
}

// NewCheckpointStore wraps an open database.
func NewCheckpointStore(db *badger.DB) *CheckpointStore {
	return &CheckpointStore{db: db}
}

// Close closes the database.
func (s *CheckpointStore) Close() error {
	return s.db.Close()
}

func epochKey(epoch int) string {
	return fmt.Sprintf("%06d", epoch)
}

func tensorKey(epoch int, name string) []byte {
	return []byte(checkpointTensorKeyPrefix + epochKey(epoch) + ":" + name)
}

// Save writes ck and then moves the latest pointer to it, so a crash
// mid-save leaves the previous checkpoint as the latest.
func (s *CheckpointStore) Save(ctx context.Context, ck *Checkpoint) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	ck.TensorNames = ck.TensorNames[:0]
	wb := s.db.NewWriteBatch()
	defer wb.Cancel()
	for _, name := range sortedKeys(ck.Tensors) {
		var buf bytes.Buffer
		if err := embedding.WriteNPY(&buf, ck.Tensors[name]); err != nil {
			return fmt.Errorf("encode tensor %s: %w", name, err)
		}
		if err := wb.Set(tensorKey(ck.Epoch, name), buf.Bytes()); err != nil {
			return fmt.Errorf("write tensor %s: %w", name, err)
		}
		ck.TensorNames = append(ck.TensorNames, name)
	}
	if err := wb.Flush(); err != nil {
		return fmt.Errorf("flush tensors: %w", err)
	}

	meta, err := json.Marshal(ck)
	if err != nil {
		return fmt.Errorf("marshal checkpoint: %w", err)
	}
	err = s.db.Update(func(txn *badger.Txn) error {
		if err := txn.Set([]byte(checkpointKeyPrefix+epochKey(ck.Epoch)), meta); err != nil {
			return fmt.Errorf("set checkpoint: %w", err)
		}
		return txn.Set([]byte(checkpointLatestKey), []byte(strconv.Itoa(ck.Epoch)))
	})
	if err != nil {
		return err
	}

	if old := ck.Epoch - keepCheckpoints; old >= 0 {
		if err := s.delete(old); err != nil {
			logging.Warn().Err(err).Int("epoch", old).Msg("Failed to prune old checkpoint")
		}
	}
	return nil
}

// Latest loads the newest complete checkpoint.
func (s *CheckpointStore) Latest(ctx context.Context) (*Checkpoint, error) {
	var epoch int
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(checkpointLatestKey))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return ErrNoCheckpoint
		}
		if err != nil {
			return fmt.Errorf("get latest checkpoint: %w", err)
		}
		return item.Value(func(val []byte) error {
			epoch, err = strconv.Atoi(string(val))
			return err
		})
	})
	if err != nil {
		return nil, err
	}
	return s.Load(ctx, epoch)
}

// Load reads the checkpoint written after epoch.
func (s *CheckpointStore) Load(ctx context.Context, epoch int) (*Checkpoint, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var ck Checkpoint
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(checkpointKeyPrefix + epochKey(epoch)))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return ErrNoCheckpoint
		}
		if err != nil {
			return fmt.Errorf("get checkpoint %d: %w", epoch, err)
		}
		if err := item.Value(func(val []byte) error {
			return json.Unmarshal(val, &ck)
		}); err != nil {
			return fmt.Errorf("unmarshal checkpoint %d: %w", epoch, err)
		}

		ck.Tensors = make(map[string]*embedding.Matrix, len(ck.TensorNames))
		for _, name := range ck.TensorNames {
			item, err := txn.Get(tensorKey(epoch, name))
			if err != nil {
				return fmt.Errorf("get tensor %s: %w", name, err)
			}
			err = item.Value(func(val []byte) error {
				m, err := embedding.ReadNPY(bytes.NewReader(val))
				ck.Tensors[name] = m
				return err
			})
			if err != nil {
				return fmt.Errorf("decode tensor %s: %w", name, err)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &ck, nil
}

// Epochs lists the epochs with a stored checkpoint, oldest first.
func (s *CheckpointStore) Epochs() ([]int, error) {
	var epochs []int
	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = false
		opts.Prefix = []byte(checkpointKeyPrefix)
		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Rewind(); it.Valid(); it.Next() {
			key := string(it.Item().Key())
			e, err := strconv.Atoi(key[len(checkpointKeyPrefix):])
			if err != nil {
				return fmt.Errorf("bad checkpoint key %q: %w", key, err)
			}
			epochs = append(epochs, e)
		}
		return nil
	})
	return epochs, err
}

// delete removes the checkpoint of one epoch.
func (s *CheckpointStore) delete(epoch int) error {
	tensorPrefix := []byte(checkpointTensorKeyPrefix + epochKey(epoch) + ":")
	var keys [][]byte
	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = false
		opts.Prefix = tensorPrefix
		it := txn.NewIterator(opts)
		defer it.Close()
		for it.Rewind(); it.Valid(); it.Next() {
			keys = append(keys, it.Item().KeyCopy(nil))
		}
		return nil
	})
	if err != nil {
		return err
	}
	keys = append(keys, []byte(checkpointKeyPrefix+epochKey(epoch)))

	wb := s.db.NewWriteBatch()
	defer wb.Cancel()
	for _, k := range keys {
		if err := wb.Delete(k); err != nil {
			return err
		}
	}
	return wb.Flush()
}
