package monitoring

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics groups the service collectors. Handlers take a *Metrics so tests
// can register against a private registry.
type Metrics struct {
	RequestDuration *prometheus.HistogramVec
	LoginSuccess    prometheus.Counter
	LoginFailure    *prometheus.CounterVec
	RegisterSuccess prometheus.Counter
	PostsCreated    prometheus.Counter
	Interactions    *prometheus.CounterVec
}

func New(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		RequestDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Duration of HTTP requests.",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "route", "status"}),
		LoginSuccess: f.NewCounter(prometheus.CounterOpts{
			Name: "login_success_total",
			Help: "Total successful login attempts",
		}),
		LoginFailure: f.NewCounterVec(prometheus.CounterOpts{
			Name: "login_failure_total",
			Help: "Total failed login attempts",
		}, []string{"reason"}),
		RegisterSuccess: f.NewCounter(prometheus.CounterOpts{
			Name: "register_success_total",
			Help: "Total successful register attempts",
		}),
		PostsCreated: f.NewCounter(prometheus.CounterOpts{
			Name: "posts_created_total",
			Help: "Total posts and replies successfully created",
		}),
		Interactions: f.NewCounterVec(prometheus.CounterOpts{
			Name: "post_interactions_total",
			Help: "Total recorded post interactions",
		}, []string{"action"}),
	}
}

type statusRecordingWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *statusRecordingWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

// InstrumentHandler observes request duration labelled by the matched
// ServeMux pattern. It must wrap the mux directly so the pattern set by the
// mux is visible on the same *http.Request.
func (m *Metrics) InstrumentHandler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		rw := &statusRecordingWriter{ResponseWriter: w, statusCode: http.StatusOK}
		next.ServeHTTP(rw, r)

		route := r.Pattern
		if route == "" {
			route = "unmatched"
		}
		m.RequestDuration.WithLabelValues(r.Method, route, strconv.Itoa(rw.statusCode)).
			Observe(time.Since(start).Seconds())
	})
}
