package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// TogglesTotal counts toggles by relationship kind (video, comment, tweet,
	// subscription) and outcome (on, off, error).
	TogglesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "vidhub_toggles_total",
		Help: "Relationship toggles by kind and outcome",
	}, []string{"kind", "result"})

	// MutationsTotal counts owned-content mutations by entity, operation and outcome.
	MutationsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "vidhub_mutations_total",
		Help: "Owned content mutations by entity, operation and outcome",
	}, []string{"entity", "op", "result"})

	// ReconciledCounters counts videos whose counters were recomputed.
	ReconciledCounters = promauto.NewCounter(prometheus.CounterOpts{
		Name: "vidhub_reconciled_videos_total",
		Help: "Videos whose denormalized counters were recomputed",
	})

	// MediaRemovalFailures counts best-effort media deletions that failed.
	MediaRemovalFailures = promauto.NewCounter(prometheus.CounterOpts{
		Name: "vidhub_media_removal_failures_total",
		Help: "Failed deletions of superseded media references",
	})

	// RPCDuration tracks unary RPC latency.
	RPCDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "vidhub_rpc_duration_seconds",
		Help:    "Unary RPC duration in seconds",
		Buckets: prometheus.ExponentialBuckets(0.0005, 2, 14), // 0.5ms to ~4s
	}, []string{"method", "code"})
)

// Result labels an outcome for the counters above.
func Result(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}

// Handler exposes the default registry.
func Handler() http.Handler {
	return promhttp.Handler()
}
