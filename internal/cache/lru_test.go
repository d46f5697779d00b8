// Mealrec - Restaurant Menu Meal-Completion Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/mealrec

package cache

import (
	"fmt"
	"sync"
	"testing"
	"time"
)

// fakeClock lets TTL tests advance time without sleeping.
type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (f *fakeClock) Now() time.Time {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.now
}

func (f *fakeClock) Advance(d time.Duration) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.now = f.now.Add(d)
}

func newTestLRU(capacity int, ttl time.Duration) (*LRU[string, int], *fakeClock) {
	clock := &fakeClock{now: time.Date(2026, 3, 2, 12, 0, 0, 0, time.UTC)}
	c := NewLRU[string, int](capacity, ttl)
	c.now = clock.Now
	return c, clock
}

func TestLRU_BasicOperations(t *testing.T) {
	c, _ := newTestLRU(3, time.Minute)

	c.Add("a", 1)
	c.Add("b", 2)
	c.Add("c", 3)

	for key, want := range map[string]int{"a": 1, "b": 2, "c": 3} {
		got, found := c.Get(key)
		if !found || got != want {
			t.Errorf("Get(%q) = %d, %v; want %d, true", key, got, found, want)
		}
	}
	if c.Len() != 3 {
		t.Errorf("Len() = %d, want 3", c.Len())
	}

	c.Add("a", 10)
	if got, _ := c.Get("a"); got != 10 {
		t.Errorf("Get(a) after update = %d, want 10", got)
	}
	if !c.Remove("a") || c.Remove("a") {
		t.Error("Remove(a) should succeed once")
	}
}

func TestLRU_Eviction(t *testing.T) {
	c, _ := newTestLRU(3, time.Minute)

	c.Add("a", 1)
	c.Add("b", 2)
	c.Add("c", 3)

	// Touch 'a' so 'b' becomes least recently used.
	c.Get("a")
	c.Add("d", 4)

	if _, found := c.Get("b"); found {
		t.Error("expected 'b' to be evicted")
	}
	for _, key := range []string{"a", "c", "d"} {
		if _, found := c.Get(key); !found {
			t.Errorf("expected %q to be present", key)
		}
	}
	if s := c.Stats(); s.Evictions != 1 {
		t.Errorf("Evictions = %d, want 1", s.Evictions)
	}
}

func TestLRU_TTLExpiration(t *testing.T) {
	c, clock := newTestLRU(10, time.Minute)

	c.Add("a", 1)
	if _, found := c.Get("a"); !found {
		t.Fatal("expected 'a' before expiry")
	}

	clock.Advance(61 * time.Second)
	if _, found := c.Get("a"); found {
		t.Error("expected 'a' to expire")
	}
	if c.Len() != 0 {
		t.Errorf("Len() = %d, want 0 after lazy expiry", c.Len())
	}
}

func TestLRU_CleanupExpired(t *testing.T) {
	c, clock := newTestLRU(10, time.Minute)

	c.Add("old1", 1)
	c.Add("old2", 2)
	clock.Advance(45 * time.Second)
	c.Add("fresh", 3)
	clock.Advance(30 * time.Second)

	if removed := c.CleanupExpired(); removed != 2 {
		t.Errorf("CleanupExpired() = %d, want 2", removed)
	}
	if _, found := c.Get("fresh"); !found {
		t.Error("expected 'fresh' to survive cleanup")
	}
}

func TestLRU_ClearAndStats(t *testing.T) {
	c, _ := newTestLRU(10, time.Minute)

	c.Add("a", 1)
	c.Get("a")
	c.Get("missing")
	c.Clear()

	if c.Len() != 0 {
		t.Errorf("Len() after Clear = %d", c.Len())
	}
	s := c.Stats()
	if s.Hits != 1 || s.Misses != 1 || s.Size != 0 {
		t.Errorf("Stats() = %+v, want 1 hit, 1 miss, size 0", s)
	}
}

func TestLRU_StructKeys(t *testing.T) {
	type key struct {
		snapshot string
		itemID   int64
		topN     int
	}
	c := NewLRU[key, []int64](4, time.Minute)

	c.Add(key{"v1", 7, 5}, []int64{1, 2})
	if _, found := c.Get(key{"v2", 7, 5}); found {
		t.Error("different snapshot must miss")
	}
	if got, found := c.Get(key{"v1", 7, 5}); !found || len(got) != 2 {
		t.Errorf("Get() = %v, %v", got, found)
	}
}

func TestLRU_Concurrent(t *testing.T) {
	c := NewLRU[string, int](100, time.Minute)

	var wg sync.WaitGroup
	for g := 0; g < 8; g++ {
		wg.Add(1)
		go func(g int) {
			defer wg.Done()
			for i := 0; i < 500; i++ {
				key := fmt.Sprintf("k%d", (g*500+i)%150)
				c.Add(key, i)
				c.Get(key)
			}
		}(g)
	}
	wg.Wait()

	if c.Len() > 100 {
		t.Errorf("Len() = %d, exceeds capacity", c.Len())
	}
}
