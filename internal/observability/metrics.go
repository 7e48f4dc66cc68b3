package observability

import (
	"net/http"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	updatesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "bot_updates_total",
			Help: "Total number of inbound updates by kind",
		},
		[]string{"kind"},
	)

	updateDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "bot_update_duration_seconds",
			Help:    "Time spent handling one update",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"kind"},
	)

	quizCompletionsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "quiz_completions_total",
			Help: "Total number of finished quizzes by result",
		},
		[]string{"result"},
	)

	adminDecisionsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "payment_decisions_total",
			Help: "Total number of admin payment decisions",
		},
		[]string{"action", "outcome"},
	)

	registerOnce sync.Once
)

// Register exposes the bot metrics on reg. Repeated calls are no-ops.
func Register(reg prometheus.Registerer) {
	registerOnce.Do(func() {
		reg.MustRegister(updatesTotal, updateDuration, quizCompletionsTotal, adminDecisionsTotal)
	})
}

func Handler() http.Handler {
	return promhttp.Handler()
}

// StartUpdate counts an update of the given kind and returns a func that
// records how long it took.
func StartUpdate(kind string) func() {
	updatesTotal.WithLabelValues(kind).Inc()
	timer := prometheus.NewTimer(updateDuration.WithLabelValues(kind))
	return func() {
		timer.ObserveDuration()
	}
}

func RecordCompletion(result string) {
	quizCompletionsTotal.WithLabelValues(result).Inc()
}

func RecordDecision(action, outcome string) {
	adminDecisionsTotal.WithLabelValues(action, outcome).Inc()
}
