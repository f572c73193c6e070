// Package metrics exposes engine and stretch measurements to Prometheus.
//
// Only counts, outcomes and durations are recorded. Labels never carry path
// elements, branch values or any other session content.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "greatwall"

// Metrics holds the collectors. It implements greatwall.Recorder and
// stretch.Observer.
type Metrics struct {
	stretchDuration *prometheus.HistogramVec
	stretchFailures *prometheus.CounterVec
	bootstraps      *prometheus.CounterVec
	bootstrapTime   prometheus.Histogram
	cacheLookups    *prometheus.CounterVec
	listings        prometheus.Counter
	candidates      prometheus.Counter
}

// New registers the collectors on reg. A nil reg uses a private registry,
// which is convenient in tests.
func New(reg prometheus.Registerer) *Metrics {
	if reg == nil {
		reg = prometheus.NewRegistry()
	}
	f := promauto.With(reg)
	return &Metrics{
		stretchDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "stretch_duration_seconds",
			Help:      "Argon2i call duration by profile.",
			Buckets:   prometheus.ExponentialBuckets(0.001, 2, 16), // 1ms to ~33s
		}, []string{"profile"}),
		stretchFailures: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "stretch_failures_total",
			Help:      "Argon2i calls that failed, by profile.",
		}, []string{"profile"}),
		bootstraps: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "bootstraps_total",
			Help:      "Root bootstraps by outcome.",
		}, []string{"outcome"}),
		bootstrapTime: f.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "bootstrap_duration_seconds",
			Help:      "Wall time of root bootstraps, all outcomes.",
			Buckets:   prometheus.ExponentialBuckets(0.01, 2, 18),
		}),
		cacheLookups: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "state_cache_lookups_total",
			Help:      "Node state cache lookups by result.",
		}, []string{"result"}),
		listings: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "option_listings_total",
			Help:      "Calls to ListOptions that returned candidates.",
		}),
		candidates: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "option_candidates_total",
			Help:      "Branch candidates derived for listings.",
		}),
	}
}

func (m *Metrics) ObserveStretch(profile string, d time.Duration, err error) {
	m.stretchDuration.WithLabelValues(profile).Observe(d.Seconds())
	if err != nil {
		m.stretchFailures.WithLabelValues(profile).Inc()
	}
}

func (m *Metrics) CacheLookup(hit bool) {
	result := "miss"
	if hit {
		result = "hit"
	}
	m.cacheLookups.WithLabelValues(result).Inc()
}

func (m *Metrics) OptionsListed(n int) {
	m.listings.Inc()
	m.candidates.Add(float64(n))
}

func (m *Metrics) Bootstrapped(outcome string, d time.Duration) {
	m.bootstraps.WithLabelValues(outcome).Inc()
	m.bootstrapTime.Observe(d.Seconds())
}

// Handler serves the metrics gathered by g.
func Handler(g prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(g, promhttp.HandlerOpts{})
}
