package observability

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	Polls = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "gcs_polls_total",
		Help: "Completed polls per source",
	}, []string{"source"})
	PollErrors = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "gcs_poll_errors_total",
		Help: "Failed polls per source",
	}, []string{"source"})
	HistoryFallbacks = promauto.NewCounter(prometheus.CounterOpts{
		Name: "gcs_history_fallbacks_total",
		Help: "Stale or failed sensor polls that fell back to history",
	})
	StaleDrops = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "gcs_stale_drops_total",
		Help: "Poll completions discarded because a newer one already applied",
	}, []string{"source"})
	CommandsSent = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "gcs_commands_sent_total",
		Help: "Control commands relayed to the vehicle",
	}, []string{"cmd"})
	CommandErrors = promauto.NewCounter(prometheus.CounterOpts{
		Name: "gcs_command_errors_total",
		Help: "Control relays that failed or were rejected",
	})
	RedisMirrorErrors = promauto.NewCounter(prometheus.CounterOpts{
		Name: "gcs_redis_mirror_errors_total",
		Help: "Errors mirroring snapshots to redis",
	})
	PollLatency = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "gcs_poll_latency_seconds",
		Help:    "Round-trip latency per poll source",
		Buckets: prometheus.DefBuckets,
	}, []string{"source"})
)

func ObservePollLatency(source string, start time.Time) {
	PollLatency.WithLabelValues(source).Observe(time.Since(start).Seconds())
}

func StartMetricsServer(port string) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(200)
		_, _ = w.Write([]byte("ok"))
	})
	_ = http.ListenAndServe(":"+port, mux)
}
