package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Recorder implements domain.repository.Metrics using Prometheus.
type Recorder struct {
	fetchesTotal  *prometheus.CounterVec
	fetchDuration *prometheus.HistogramVec
	fetchInFlight prometheus.Gauge
	cacheEvents   *prometheus.CounterVec
	aggDuration   prometheus.Histogram
}

// New creates a new Prometheus metrics recorder.
func New() *Recorder {
	return &Recorder{
		fetchesTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "sectorpulse_fetches_total",
				Help: "Total number of upstream price fetches by outcome",
			},
			[]string{"outcome"},
		),
		fetchDuration: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "sectorpulse_fetch_duration_seconds",
				Help:    "Duration of upstream price fetches in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"outcome"},
		),
		fetchInFlight: promauto.NewGauge(
			prometheus.GaugeOpts{
				Name: "sectorpulse_fetches_in_flight",
				Help: "Current number of in-flight price fetches",
			},
		),
		cacheEvents: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "sectorpulse_sector_cache_events_total",
				Help: "Sector cache events (hit, miss, corrupt, write, write-error)",
			},
			[]string{"event"},
		),
		aggDuration: promauto.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "sectorpulse_aggregation_duration_seconds",
				Help:    "Duration of sector aggregations in seconds",
				Buckets: []float64{0.1, 0.5, 1, 2.5, 5, 10, 30, 60, 120},
			},
		),
	}
}

// RecordFetch records one completed fetch and its duration.
func (r *Recorder) RecordFetch(outcome string, seconds float64) {
	r.fetchesTotal.WithLabelValues(outcome).Inc()
	r.fetchDuration.WithLabelValues(outcome).Observe(seconds)
}

// RecordCache records a sector cache event.
func (r *Recorder) RecordCache(event string) {
	r.cacheEvents.WithLabelValues(event).Inc()
}

// RecordAggregation records the wall time of one sector aggregation.
func (r *Recorder) RecordAggregation(seconds float64) {
	r.aggDuration.Observe(seconds)
}

// FetchInFlight adjusts the in-flight fetch gauge.
func (r *Recorder) FetchInFlight(delta int) {
	r.fetchInFlight.Add(float64(delta))
}

// Nop discards all metrics. Used in tests and the maintenance CLI path.
type Nop struct{}

func (Nop) RecordFetch(string, float64) {}
func (Nop) RecordCache(string)          {}
func (Nop) RecordAggregation(float64)   {}
func (Nop) FetchInFlight(int)           {}
