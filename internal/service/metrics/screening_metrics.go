package metrics

import (
    "sync"

    "github.com/prometheus/client_golang/prometheus"
)

var (
    once sync.Once

    ScreeningLatency = prometheus.NewHistogramVec(
        prometheus.HistogramOpts{
            Namespace: "coinscreen",
            Subsystem: "screening",
            Name:      "latency_seconds",
            Help:      "Latency of screening endpoints",
            Buckets:   prometheus.DefBuckets,
        },
        []string{"endpoint"},
    )

    ScreeningErrors = prometheus.NewCounterVec(
        prometheus.CounterOpts{
            Namespace: "coinscreen",
            Subsystem: "screening",
            Name:      "errors_total",
            Help:      "Errors by screening endpoint",
        },
        []string{"endpoint"},
    )
)

func Register() {
    once.Do(func() {
        prometheus.MustRegister(ScreeningLatency, ScreeningErrors)
    })
}
