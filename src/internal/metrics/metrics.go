package metrics

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// Registry holds the mining service collectors.
	Registry = prometheus.NewRegistry()

	httpRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "kook_mining",
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total number of HTTP requests handled.",
		},
		[]string{"method", "route", "status"},
	)

	httpDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "kook_mining",
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "Duration of HTTP requests.",
			Buckets:   prometheus.ExponentialBuckets(0.005, 2, 10),
		},
		[]string{"method", "route"},
	)

	sessionsStarted = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "kook_mining",
			Subsystem: "sessions",
			Name:      "started_total",
			Help:      "Total number of mining sessions started.",
		},
	)

	sessionsCompleted = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "kook_mining",
			Subsystem: "sessions",
			Name:      "completed_total",
			Help:      "Total number of mining sessions completed, by trigger.",
		},
		[]string{"trigger"},
	)

	tasksCompleted = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "kook_mining",
			Subsystem: "tasks",
			Name:      "completed_total",
			Help:      "Total number of task rewards credited.",
		},
		[]string{"action_type"},
	)

	decayRuns = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "kook_mining",
			Subsystem: "team_activity",
			Name:      "runs_total",
			Help:      "Total number of team activity decay runs.",
		},
		[]string{"success"},
	)

	decayRunDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "kook_mining",
			Subsystem: "team_activity",
			Name:      "run_duration_seconds",
			Help:      "Duration of team activity decay runs.",
			Buckets:   prometheus.ExponentialBuckets(0.01, 2, 12),
		},
	)

	ownerRatesDecayed = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "kook_mining",
			Subsystem: "team_activity",
			Name:      "owner_rates_decayed_total",
			Help:      "Total number of team owner mining rate decreases.",
		},
	)
)

const (
	TriggerManual    = "manual"
	TriggerReconcile = "reconcile"
)

func init() {
	Registry.MustRegister(
		httpRequests,
		httpDuration,
		sessionsStarted,
		sessionsCompleted,
		tasksCompleted,
		decayRuns,
		decayRunDuration,
		ownerRatesDecayed,
		prometheus.NewProcessCollector(prometheus.ProcessCollectorOpts{}),
		prometheus.NewGoCollector(),
	)
}

// Handler exposes the registered collectors.
func Handler() http.Handler {
	return promhttp.HandlerFor(Registry, promhttp.HandlerOpts{})
}

// InstrumentHandler records request counts and latency labelled by the
// matched route template, so account and team ids never become labels.
func InstrumentHandler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		start := time.Now()

		next.ServeHTTP(rec, r)

		route := routeTemplate(r)
		method := strings.ToUpper(r.Method)
		httpRequests.WithLabelValues(method, route, strconv.Itoa(rec.status)).Inc()
		httpDuration.WithLabelValues(method, route).Observe(time.Since(start).Seconds())
	})
}

func RecordSessionStarted() {
	sessionsStarted.Inc()
}

func RecordSessionCompleted(trigger string) {
	sessionsCompleted.WithLabelValues(trigger).Inc()
}

func RecordTaskCompleted(actionType string) {
	tasksCompleted.WithLabelValues(actionType).Inc()
}

func RecordDecayRun(duration time.Duration, decayed int, success bool) {
	if duration <= 0 {
		duration = time.Millisecond
	}
	decayRuns.WithLabelValues(strconv.FormatBool(success)).Inc()
	decayRunDuration.Observe(duration.Seconds())
	ownerRatesDecayed.Add(float64(decayed))
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

func routeTemplate(r *http.Request) string {
	route := mux.CurrentRoute(r)
	if route == nil {
		return "unmatched"
	}
	template, err := route.GetPathTemplate()
	if err != nil {
		return "unmatched"
	}
	return template
}
