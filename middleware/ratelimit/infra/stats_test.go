package infra

import (
	"context"
	"errors"
	"testing"

	"vitrine/middleware/ratelimit/domain"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestMemoryStatsStore_AggregatesByLimiterAndRoute(t *testing.T) {
	s := NewMemoryStatsStore(WithTrackKeys(true))
	ctx := context.Background()

	_ = s.Record(ctx, domain.StatsEvent{Limiter: "contact", Key: "a", Allowed: true, Method: "POST", Path: "/api/contact"})
	_ = s.Record(ctx, domain.StatsEvent{Limiter: "contact", Key: "a", Allowed: false, Method: "POST", Path: "/api/contact"})
	_ = s.Record(ctx, domain.StatsEvent{Limiter: "ai", Key: "b", Allowed: true, Method: "POST", Path: "/api/ai/generate"})

	if got := s.Total(); got.Allowed != 2 || got.Denied != 1 {
		t.Fatalf("unexpected totals: %+v", got)
	}
	if got := s.ByLimiter()["contact"]; got.Allowed != 1 || got.Denied != 1 {
		t.Fatalf("unexpected contact counters: %+v", got)
	}
	if got := s.ByRoute()["POST /api/ai/generate"]; got.Allowed != 1 {
		t.Fatalf("unexpected route counters: %+v", got)
	}
	if got := s.ByKey()["a"]; got.Denied != 1 {
		t.Fatalf("unexpected key counters: %+v", got)
	}
}

type failingStats struct{}

func (failingStats) Record(context.Context, domain.StatsEvent) error { return errors.New("boom") }

func TestMultiStats_FansOutAndReturnsFirstError(t *testing.T) {
	vec := prometheus.NewCounterVec(prometheus.CounterOpts{Name: "decisions_total"}, []string{"limiter", "outcome"})
	mem := NewMemoryStatsStore()
	multi := MultiStats{failingStats{}, NewPrometheusStatsStore(vec), nil, mem}

	err := multi.Record(context.Background(), domain.StatsEvent{Limiter: "ai", Allowed: false})
	if err == nil {
		t.Fatalf("expected first error to be returned")
	}
	if got := testutil.ToFloat64(vec.WithLabelValues("ai", "denied")); got != 1 {
		t.Fatalf("expected prometheus counter 1, got %v", got)
	}
	if got := mem.Total().Denied; got != 1 {
		t.Fatalf("expected memory store to record despite earlier error, got %d", got)
	}
}
