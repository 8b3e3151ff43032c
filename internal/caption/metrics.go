package caption

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	modelLoadsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "captiond",
			Subsystem: "models",
			Name:      "loads_total",
			Help:      "Total number of backend model initializations",
		},
		[]string{"kind", "model"},
	)

	modelLoadDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "captiond",
			Subsystem: "models",
			Name:      "load_duration_seconds",
			Help:      "Duration of backend model initializations in seconds",
			Buckets:   []float64{1, 5, 15, 30, 60, 120, 300},
		},
		[]string{"kind", "model"},
	)
)

func init() {
	prometheus.MustRegister(modelLoadsTotal, modelLoadDuration)
}

func observeLoad(kind, model string, dur time.Duration) {
	modelLoadsTotal.WithLabelValues(kind, model).Inc()
	modelLoadDuration.WithLabelValues(kind, model).Observe(dur.Seconds())
}
