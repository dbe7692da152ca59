package transaction

import "github.com/prometheus/client_golang/prometheus"

var (
	txnCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "nestkv",
			Subsystem: "transaction",
			Name:      "total",
			Help:      "Counter of transaction control operations.",
		}, []string{"type", "result"})

	txnDepthHistogram = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "nestkv",
			Subsystem: "transaction",
			Name:      "depth",
			Help:      "Bucketed histogram of nesting depth reached by begin.",
			Buckets:   prometheus.LinearBuckets(1, 1, 8),
		})

	sessionGauge = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "nestkv",
			Subsystem: "session",
			Name:      "active",
			Help:      "Number of sessions with an open transaction.",
		})
)

func init() {
	prometheus.MustRegister(txnCounter)
	prometheus.MustRegister(txnDepthHistogram)
	prometheus.MustRegister(sessionGauge)
}
