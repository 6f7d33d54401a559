package telemetry

import (
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestNewCollectorRegistersAllSeries(t *testing.T) {
	c := NewCollector()
	c.ObserveTickDuration(0.01)
	c.SetActiveEntities("players", 3)
	c.SetActiveEntities("npcs", 7)
	c.IncRewardGrants()
	c.IncRateLimitDrops()

	if got := testutil.ToFloat64(c.rewardGrants); got != 1 {
		t.Fatalf("expected 1 reward grant recorded, got %v", got)
	}
	if got := testutil.ToFloat64(c.RateLimitDropsMetric()); got != 1 {
		t.Fatalf("expected 1 rate-limit drop recorded, got %v", got)
	}
	if got := testutil.ToFloat64(c.activeEntities.WithLabelValues("npcs")); got != 7 {
		t.Fatalf("expected 7 active npcs, got %v", got)
	}
}

func TestCollectorHandlerServesExposition(t *testing.T) {
	c := NewCollector()
	c.IncRewardGrants()

	req := httptest.NewRequest("GET", "/metrics", nil)
	rec := httptest.NewRecorder()
	c.Handler().ServeHTTP(rec, req)

	if rec.Code != 200 {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	body := rec.Body.String()
	if !strings.Contains(body, "skyfleet_reward_grants_total") {
		t.Fatalf("expected exposition to contain the reward grants series, got: %s", body)
	}
	if !strings.Contains(body, "skyfleet_tick_duration_seconds") {
		t.Fatalf("expected exposition to contain the tick duration series, got: %s", body)
	}
}
