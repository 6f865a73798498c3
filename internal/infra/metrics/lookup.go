package metrics

import (
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
)

func init() {
	register(lookupLatencyMs)
}

var lookupLatencyMs = prometheus.NewHistogramVec(
	prometheus.HistogramOpts{
		Name:    "lookup_latency_ms",
		Help:    "Latency of external weather/news/music lookups in milliseconds.",
		Buckets: []float64{10, 25, 50, 100, 250, 500, 1000, 2500, 5000, 10000},
	},
	[]string{"service", "provider", "success"},
)

func ObserveLookup(service, provider string, latencyMs int, success bool) {
	lookupLatencyMs.WithLabelValues(norm(service), norm(provider), strconv.FormatBool(success)).
		Observe(float64(latencyMs))
}
