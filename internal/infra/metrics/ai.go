package metrics

import (
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
)

func init() {
	register(
		aiStreamChunks,
		aiStreamTokensOut,
		aiStreamLatencyMs,
	)
}

var (
	aiStreamChunks = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ai_stream_chunks_total",
			Help: "Completion deltas rebroadcast to the room, per provider.",
		},
		[]string{"provider"},
	)

	aiStreamTokensOut = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ai_stream_tokens_out",
			Help: "Estimated completion tokens per provider (tokenizer count of the final text).",
		},
		[]string{"provider"},
	)

	aiStreamLatencyMs = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "ai_stream_latency_ms",
			Help:    "End-to-end streamed response latency in milliseconds.",
			Buckets: []float64{50, 100, 250, 500, 1000, 2000, 4000, 8000, 16000, 30000},
		},
		[]string{"provider", "success"},
	)
)

func IncStreamChunk(provider string) {
	aiStreamChunks.WithLabelValues(norm(provider)).Inc()
}

func ObserveStream(provider string, tokensOut, latencyMs int, success bool) {
	aiStreamTokensOut.WithLabelValues(norm(provider)).Add(float64(tokensOut))
	aiStreamLatencyMs.WithLabelValues(norm(provider), strconv.FormatBool(success)).
		Observe(float64(latencyMs))
}
