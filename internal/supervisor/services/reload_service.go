// Mealrec - Restaurant Menu Meal-Completion Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/mealrec

package services

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"time"

	gobreaker "github.com/sony/gobreaker/v2"

	"github.com/tomtom215/mealrec/internal/embedding"
	"github.com/tomtom215/mealrec/internal/logging"
	"github.com/tomtom215/mealrec/internal/metrics"
	"github.com/tomtom215/mealrec/internal/recommend"
)

// SnapshotLoader builds a new engine from the files on disk.
type SnapshotLoader func(ctx context.Context) (*recommend.Engine, error)

// SnapshotPublisher makes an engine live. *recommend.Service satisfies it.
type SnapshotPublisher interface {
	Publish(e *recommend.Engine)
}

// ReloadServiceConfig tunes polling and the breaker around loads.
type ReloadServiceConfig struct {
	// Paths are the files whose size and mtime trigger a reload.
	Paths []string

	// Interval between polls. Default: 30s
	Interval time.Duration

	// FailureThreshold is the number of consecutive failed loads that
	// opens the breaker. Default: 3
	FailureThreshold uint32

	// OpenTimeout is how long the breaker stays open before one trial
	// load is let through. Default: 5m
	OpenTimeout time.Duration
}

const reloadBreakerName = "snapshot-reload"

// ReloadService swaps in a new snapshot whenever the catalog or embedding
// file changes. A failed load leaves the live snapshot in place and is
// retried on the next poll until the breaker opens.
type ReloadService struct {
	load    SnapshotLoader
	publish SnapshotPublisher
	config  ReloadServiceConfig
	cb      *gobreaker.CircuitBreaker[*recommend.Engine]

	// stamps of the files behind the live snapshot; only Serve's
	// goroutine touches them.
	stamps []embedding.FileStamp
	name   string
}

// NewReloadService creates a reload service. Call Prime with the stamps
// of the files the initial snapshot came from, or the first poll reloads.
func NewReloadService(load SnapshotLoader, publish SnapshotPublisher, cfg ReloadServiceConfig) *ReloadService {
	if cfg.Interval <= 0 {
		cfg.Interval = 30 * time.Second
	}
	if cfg.FailureThreshold == 0 {
		cfg.FailureThreshold = 3
	}
	if cfg.OpenTimeout <= 0 {
		cfg.OpenTimeout = 5 * time.Minute
	}

	metrics.CircuitBreakerState.WithLabelValues(reloadBreakerName).Set(0)
	threshold := cfg.FailureThreshold

	cb := gobreaker.NewCircuitBreaker[*recommend.Engine](gobreaker.Settings{
		Name:        reloadBreakerName,
		MaxRequests: 1,
		Timeout:     cfg.OpenTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= threshold
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logging.Warn().
				Str("breaker", name).
				Str("from", from.String()).
				Str("to", to.String()).
				Msg("Reload circuit breaker state change")
			metrics.CircuitBreakerState.WithLabelValues(name).Set(stateToFloat(to))
			metrics.CircuitBreakerTransitions.WithLabelValues(name, from.String(), to.String()).Inc()
		},
	})

	return &ReloadService{
		load:    load,
		publish: publish,
		config:  cfg,
		cb:      cb,
		name:    "snapshot-reload",
	}
}

// Prime records the current file stamps as already loaded.
func (s *ReloadService) Prime() error {
	stamps, err := s.stat()
	if err != nil {
		return err
	}
	s.stamps = stamps
	return nil
}

// Serve implements suture.Service.
func (s *ReloadService) Serve(ctx context.Context) error {
	logging.Info().
		Strs("paths", s.config.Paths).
		Dur("interval", s.config.Interval).
		Msg("Snapshot reload watcher started")

	ticker := time.NewTicker(s.config.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			if _, err := s.Poll(ctx); err != nil {
				logging.Warn().Err(err).Msg("Snapshot reload failed, keeping current snapshot")
			}
		}
	}
}

// Poll reloads when any watched file changed since the last successful
// load and reports whether a new snapshot was published.
func (s *ReloadService) Poll(ctx context.Context) (bool, error) {
	stamps, err := s.stat()
	if err != nil {
		// Usually a writer between remove and rename; the next poll retries.
		return false, err
	}
	if slices.Equal(stamps, s.stamps) {
		return false, nil
	}

	e, err := s.cb.Execute(func() (*recommend.Engine, error) {
		return s.load(ctx)
	})
	if err != nil {
		result := "failure"
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			result = "rejected"
		}
		metrics.CircuitBreakerRequests.WithLabelValues(reloadBreakerName, result).Inc()
		metrics.RecordReload(result)
		return false, fmt.Errorf("reload snapshot: %w", err)
	}

	metrics.CircuitBreakerRequests.WithLabelValues(reloadBreakerName, "success").Inc()
	metrics.RecordReload("success")
	s.publish.Publish(e)
	s.stamps = stamps
	return true, nil
}

func (s *ReloadService) stat() ([]embedding.FileStamp, error) {
	stamps := make([]embedding.FileStamp, len(s.config.Paths))
	for i, path := range s.config.Paths {
		st, err := embedding.Stat(path)
		if err != nil {
			return nil, fmt.Errorf("stat %s: %w", path, err)
		}
		stamps[i] = st
	}
	return stamps, nil
}

// State returns the breaker state.
func (s *ReloadService) State() gobreaker.State {
	return s.cb.State()
}

// String names the service in supervisor events.
func (s *ReloadService) String() string {
	return s.name
}

func stateToFloat(state gobreaker.State) float64 {
	switch state {
	case gobreaker.StateClosed:
		return 0
	case gobreaker.StateHalfOpen:
		return 1
	case gobreaker.StateOpen:
		return 2
	default:
		return -1
	}
}
