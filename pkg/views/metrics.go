package views

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the request collectors shared by every view.
type Metrics struct {
	requests *prometheus.CounterVec
	duration *prometheus.HistogramVec
}

// NewMetrics registers the collectors with reg. A nil reg uses the default
// registerer.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	factory := promauto.With(reg)
	return &Metrics{
		requests: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "listviews_requests_total",
			Help: "Requests served per view and status code",
		}, []string{"view", "status"}),
		duration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "listviews_request_duration_seconds",
			Help:    "Time spent serving a view",
			Buckets: prometheus.DefBuckets,
		}, []string{"view"}),
	}
}

// Instrument wraps next so every response is counted under view.
func (m *Metrics) Instrument(view string, next http.Handler) http.Handler {
	if m == nil {
		return next
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		m.requests.WithLabelValues(view, strconv.Itoa(rec.status)).Inc()
		m.duration.WithLabelValues(view).Observe(time.Since(start).Seconds())
	})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}
