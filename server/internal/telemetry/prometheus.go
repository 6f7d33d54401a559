package telemetry

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Collector owns the Prometheus series this server exposes on /metrics:
// per-tick processing time, live entity counts, reward grants, and
// dropped messages from the per-session rate limiter.
type Collector struct {
	registry *prometheus.Registry

	tickDuration   prometheus.Histogram
	activeEntities *prometheus.GaugeVec
	rewardGrants   prometheus.Counter
	rateLimitDrops prometheus.Counter
}

// NewCollector builds a Collector on its own registry, rather than the
// default global one, so tests can construct independent instances
// without colliding on metric names.
func NewCollector() *Collector {
	registry := prometheus.NewRegistry()
	c := &Collector{
		registry: registry,
		tickDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "skyfleet_tick_duration_seconds",
			Help:    "Per-map tick processing duration.",
			Buckets: prometheus.DefBuckets,
		}),
		activeEntities: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "skyfleet_active_entities",
			Help: "Live entity counts by kind (players, npcs).",
		}, []string{"kind"}),
		rewardGrants: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "skyfleet_reward_grants_total",
			Help: "Total non-suppressed NPC kill reward grants.",
		}),
		rateLimitDrops: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "skyfleet_rate_limit_drops_total",
			Help: "Total inbound messages dropped by the per-session rate limiter.",
		}),
	}
	registry.MustRegister(c.tickDuration, c.activeEntities, c.rewardGrants, c.rateLimitDrops)
	return c
}

// Handler serves this Collector's registry in the Prometheus exposition
// format.
func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{})
}

// ObserveTickDuration records one tick's wall-clock processing time.
func (c *Collector) ObserveTickDuration(seconds float64) { c.tickDuration.Observe(seconds) }

// SetActiveEntities records the current live count for kind ("players" or
// "npcs").
func (c *Collector) SetActiveEntities(kind string, count float64) {
	c.activeEntities.WithLabelValues(kind).Set(count)
}

// IncRewardGrants records one successful reward grant.
func (c *Collector) IncRewardGrants() { c.rewardGrants.Inc() }

// IncRateLimitDrops records one message dropped by a session's rate
// limiter.
func (c *Collector) IncRateLimitDrops() { c.rateLimitDrops.Inc() }

// RateLimitDropsMetric exposes the underlying counter for tests asserting
// on its value via prometheus/client_golang/prometheus/testutil.
func (c *Collector) RateLimitDropsMetric() prometheus.Counter { return c.rateLimitDrops }
