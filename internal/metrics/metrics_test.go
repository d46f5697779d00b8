// Mealrec - Restaurant Menu Meal-Completion Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/mealrec

package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	dto "github.com/prometheus/client_model/go"
)

// histogramSnapshot reads the current sample count and sum of h.
func histogramSnapshot(t *testing.T, h prometheus.Histogram) (uint64, float64) {
	t.Helper()
	var m dto.Metric
	if err := h.Write(&m); err != nil {
		t.Fatalf("Write() error = %v", err)
	}
	return m.GetHistogram().GetSampleCount(), m.GetHistogram().GetSampleSum()
}

func TestRecordAPIRequest(t *testing.T) {
	before := testutil.ToFloat64(APIRequestsTotal.WithLabelValues("GET", "/recommend/{item_id}", "200"))
	RecordAPIRequest("GET", "/recommend/{item_id}", "200", 3*time.Millisecond)
	after := testutil.ToFloat64(APIRequestsTotal.WithLabelValues("GET", "/recommend/{item_id}", "200"))
	if after-before != 1 {
		t.Errorf("api_requests_total delta = %v, want 1", after-before)
	}
}

func TestTrackActiveRequest(t *testing.T) {
	start := testutil.ToFloat64(APIActiveRequests)
	TrackActiveRequest(true)
	if got := testutil.ToFloat64(APIActiveRequests); got != start+1 {
		t.Errorf("active requests = %v, want %v", got, start+1)
	}
	TrackActiveRequest(false)
	if got := testutil.ToFloat64(APIActiveRequests); got != start {
		t.Errorf("active requests = %v, want %v", got, start)
	}
}

func TestRecordRecommendation(t *testing.T) {
	okBefore := testutil.ToFloat64(RecommendRequests.WithLabelValues("ok"))
	nfBefore := testutil.ToFloat64(RecommendRequests.WithLabelValues("not_found"))
	sizeCount, sizeSum := histogramSnapshot(t, RecommendResultSize)

	RecordRecommendation("ok", 5, time.Millisecond)
	RecordRecommendation("not_found", 0, time.Microsecond)

	if d := testutil.ToFloat64(RecommendRequests.WithLabelValues("ok")) - okBefore; d != 1 {
		t.Errorf("ok delta = %v, want 1", d)
	}
	if d := testutil.ToFloat64(RecommendRequests.WithLabelValues("not_found")) - nfBefore; d != 1 {
		t.Errorf("not_found delta = %v, want 1", d)
	}

	// Only successful calls contribute a result size.
	count, sum := histogramSnapshot(t, RecommendResultSize)
	if count-sizeCount != 1 || sum-sizeSum != 5 {
		t.Errorf("result size histogram delta = %d samples / %v sum, want 1 / 5", count-sizeCount, sum-sizeSum)
	}
}

func TestRecordCacheLookup(t *testing.T) {
	hits := testutil.ToFloat64(RecommendCacheHits)
	misses := testutil.ToFloat64(RecommendCacheMisses)

	RecordCacheLookup(true)
	RecordCacheLookup(false)
	RecordCacheLookup(false)

	if d := testutil.ToFloat64(RecommendCacheHits) - hits; d != 1 {
		t.Errorf("hits delta = %v, want 1", d)
	}
	if d := testutil.ToFloat64(RecommendCacheMisses) - misses; d != 2 {
		t.Errorf("misses delta = %v, want 2", d)
	}
}

func TestRecordSnapshotAndReload(t *testing.T) {
	RecordSnapshot(1200, 64, 250*time.Millisecond)
	if got := testutil.ToFloat64(SnapshotItems); got != 1200 {
		t.Errorf("snapshot_items = %v, want 1200", got)
	}
	if got := testutil.ToFloat64(SnapshotDimension); got != 64 {
		t.Errorf("snapshot_embedding_dimension = %v, want 64", got)
	}

	RecordReload("success")
	if got := testutil.ToFloat64(SnapshotLastReload); got <= 0 {
		t.Errorf("snapshot_last_reload_timestamp_seconds = %v, want > 0", got)
	}
}
