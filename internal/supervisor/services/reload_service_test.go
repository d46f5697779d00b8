// Mealrec - Restaurant Menu Meal-Completion Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/mealrec

package services

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	gobreaker "github.com/sony/gobreaker/v2"
	"github.com/thejerf/suture/v4"

	"github.com/tomtom215/mealrec/internal/catalog"
	"github.com/tomtom215/mealrec/internal/embedding"
	"github.com/tomtom215/mealrec/internal/metrics"
	"github.com/tomtom215/mealrec/internal/recommend"
)

type fakePublisher struct {
	published chan *recommend.Engine
}

func newFakePublisher() *fakePublisher {
	return &fakePublisher{published: make(chan *recommend.Engine, 8)}
}

func (p *fakePublisher) Publish(e *recommend.Engine) {
	p.published <- e
}

func testEngine(t *testing.T) *recommend.Engine {
	t.Helper()
	cat, err := catalog.New([]catalog.Item{
		{ID: 1, Name: "Paneer Tikka", Category: "Starter", RestaurantID: 1},
		{ID: 2, Name: "Dal Makhani", Category: "Main", RestaurantID: 1},
	})
	if err != nil {
		t.Fatal(err)
	}
	m, err := embedding.FromRows([][]float32{{1, 0}, {0, 1}})
	if err != nil {
		t.Fatal(err)
	}
	e, err := recommend.NewEngine(cat, m, recommend.Options{})
	if err != nil {
		t.Fatal(err)
	}
	return e
}

// watchedFiles creates two files and returns their paths.
func watchedFiles(t *testing.T) []string {
	t.Helper()
	dir := t.TempDir()
	paths := []string{filepath.Join(dir, "items.csv"), filepath.Join(dir, "item_embeddings.npy")}
	for _, p := range paths {
		if err := os.WriteFile(p, []byte("v1"), 0o600); err != nil {
			t.Fatal(err)
		}
	}
	return paths
}

// touch rewrites path with a different size so the stamp changes even on
// filesystems with coarse mtimes.
func touch(t *testing.T, path string) {
	t.Helper()
	if err := os.WriteFile(path, []byte("version-2"), 0o600); err != nil {
		t.Fatal(err)
	}
}

func TestReloadService_Poll(t *testing.T) {
	t.Parallel()

	paths := watchedFiles(t)
	engine := testEngine(t)
	var loads atomic.Int32
	pub := newFakePublisher()
	svc := NewReloadService(func(context.Context) (*recommend.Engine, error) {
		loads.Add(1)
		return engine, nil
	}, pub, ReloadServiceConfig{Paths: paths})

	if err := svc.Prime(); err != nil {
		t.Fatalf("Prime() error = %v", err)
	}

	changed, err := svc.Poll(context.Background())
	if err != nil || changed {
		t.Fatalf("Poll() unchanged = (%v, %v), want (false, nil)", changed, err)
	}
	if loads.Load() != 0 {
		t.Fatalf("loads = %d before any change", loads.Load())
	}

	touch(t, paths[1])
	changed, err = svc.Poll(context.Background())
	if err != nil || !changed {
		t.Fatalf("Poll() after change = (%v, %v), want (true, nil)", changed, err)
	}
	if got := <-pub.published; got != engine {
		t.Error("published engine is not the loaded one")
	}

	changed, _ = svc.Poll(context.Background())
	if changed {
		t.Error("Poll() reloaded twice for one change")
	}
	if loads.Load() != 1 {
		t.Errorf("loads = %d, want 1", loads.Load())
	}
}

func TestReloadService_MissingFile(t *testing.T) {
	t.Parallel()

	paths := watchedFiles(t)
	var loads atomic.Int32
	svc := NewReloadService(func(context.Context) (*recommend.Engine, error) {
		loads.Add(1)
		return nil, errors.New("unreachable")
	}, newFakePublisher(), ReloadServiceConfig{Paths: paths})
	if err := svc.Prime(); err != nil {
		t.Fatal(err)
	}

	if err := os.Remove(paths[0]); err != nil {
		t.Fatal(err)
	}
	_, err := svc.Poll(context.Background())
	if !errors.Is(err, os.ErrNotExist) {
		t.Errorf("Poll() error = %v, want os.ErrNotExist", err)
	}
	if loads.Load() != 0 {
		t.Errorf("loader called while a file is missing")
	}
}

// Not parallel: asserts an exact delta on a global counter.
func TestReloadService_BreakerOpensAfterFailures(t *testing.T) {
	paths := watchedFiles(t)
	loadErr := errors.New("embedding rows do not match catalog")
	var loads atomic.Int32
	pub := newFakePublisher()
	svc := NewReloadService(func(context.Context) (*recommend.Engine, error) {
		loads.Add(1)
		return nil, loadErr
	}, pub, ReloadServiceConfig{Paths: paths, FailureThreshold: 2, OpenTimeout: time.Hour})
	if err := svc.Prime(); err != nil {
		t.Fatal(err)
	}
	touch(t, paths[0])

	rejected := metrics.CircuitBreakerRequests.WithLabelValues(reloadBreakerName, "rejected")
	before := testutil.ToFloat64(rejected)

	for i := range 2 {
		if _, err := svc.Poll(context.Background()); !errors.Is(err, loadErr) {
			t.Fatalf("Poll() #%d error = %v, want load error", i, err)
		}
	}
	if svc.State() != gobreaker.StateOpen {
		t.Fatalf("State() = %v, want open", svc.State())
	}

	_, err := svc.Poll(context.Background())
	if !errors.Is(err, gobreaker.ErrOpenState) {
		t.Fatalf("Poll() with open breaker error = %v, want ErrOpenState", err)
	}
	if loads.Load() != 2 {
		t.Errorf("loads = %d, want 2", loads.Load())
	}
	if delta := testutil.ToFloat64(rejected) - before; delta != 1 {
		t.Errorf("rejected delta = %v, want 1", delta)
	}
	if len(pub.published) != 0 {
		t.Error("failed load was published")
	}
}

func TestReloadService_ServeUnderSupervisor(t *testing.T) {
	t.Parallel()

	paths := watchedFiles(t)
	engine := testEngine(t)
	pub := newFakePublisher()
	svc := NewReloadService(func(context.Context) (*recommend.Engine, error) {
		return engine, nil
	}, pub, ReloadServiceConfig{Paths: paths, Interval: 10 * time.Millisecond})
	if err := svc.Prime(); err != nil {
		t.Fatal(err)
	}

	var _ suture.Service = svc
	sup := suture.New("test-sup", suture.Spec{Timeout: time.Second})
	sup.Add(svc)

	ctx, cancel := context.WithCancel(context.Background())
	errCh := sup.ServeBackground(ctx)

	touch(t, paths[0])
	select {
	case got := <-pub.published:
		if got != engine {
			t.Error("published engine is not the loaded one")
		}
	case <-time.After(2 * time.Second):
		t.Fatal("no snapshot published after file change")
	}

	cancel()
	<-errCh
}

func TestReloadService_String(t *testing.T) {
	t.Parallel()
	svc := NewReloadService(nil, newFakePublisher(), ReloadServiceConfig{})
	if svc.String() != "snapshot-reload" {
		t.Errorf("String() = %q", svc.String())
	}
	if svc.config.Interval != 30*time.Second || svc.config.FailureThreshold != 3 {
		t.Errorf("defaults not applied: %+v", svc.config)
	}
}
