package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Recorder implements domain.repository.Metrics using Prometheus.
type Recorder struct {
	ticksStored  *prometheus.CounterVec
	errorsTotal  *prometheus.CounterVec
	lastPrice    *prometheus.GaugeVec
	latency      *prometheus.HistogramVec
	runsTotal    *prometheus.CounterVec
	rankedCoins  *prometheus.GaugeVec
	skippedCoins *prometheus.GaugeVec
}

// New creates a new Prometheus metrics recorder.
func New() *Recorder {
	return &Recorder{
		ticksStored: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "coinscreen_ticks_stored_total",
				Help: "Total number of price ticks persisted",
			},
			[]string{"source", "coin"},
		),
		errorsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "coinscreen_errors_total",
				Help: "Total number of errors encountered",
			},
			[]string{"type"},
		),
		lastPrice: promauto.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "coinscreen_last_price",
				Help: "Last recorded price for a coin",
			},
			[]string{"coin"},
		),
		latency: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "coinscreen_operation_duration_seconds",
				Help:    "Duration of operations in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"operation"},
		),
		runsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "coinscreen_screening_runs_total",
				Help: "Total number of completed screening runs",
			},
			[]string{"direction"},
		),
		rankedCoins: promauto.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "coinscreen_screening_ranked_coins",
				Help: "Coins placed on the leaderboard in the last run",
			},
			[]string{"direction"},
		),
		skippedCoins: promauto.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "coinscreen_screening_skipped_coins",
				Help: "Coins skipped for insufficient data in the last run",
			},
			[]string{"direction"},
		),
	}
}

// RecordTickStored records a persisted tick from a market source.
func (r *Recorder) RecordTickStored(source, coinID string) {
	r.ticksStored.WithLabelValues(source, coinID).Inc()
}

// RecordError records an error occurrence.
func (r *Recorder) RecordError(kind string) {
	r.errorsTotal.WithLabelValues(kind).Inc()
}

// RecordLastPrice records the last price for a coin.
func (r *Recorder) RecordLastPrice(coinID string, price float64) {
	r.lastPrice.WithLabelValues(coinID).Set(price)
}

// RecordLatency records operation latency in seconds.
func (r *Recorder) RecordLatency(op string, seconds float64) {
	r.latency.WithLabelValues(op).Observe(seconds)
}

// RecordRun records the outcome sizes of a completed screening run.
func (r *Recorder) RecordRun(direction string, ranked, skipped int) {
	r.runsTotal.WithLabelValues(direction).Inc()
	r.rankedCoins.WithLabelValues(direction).Set(float64(ranked))
	r.skippedCoins.WithLabelValues(direction).Set(float64(skipped))
}
