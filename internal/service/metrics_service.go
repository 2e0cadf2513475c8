package service

import (
	"fmt"
	"net/http"
	"runtime"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// MetricsService encapsulates Prometheus instrumentation for the HTTP surface
// and the account/auth domain counters. All methods are nil-safe so callers
// can run without metrics wired.
type MetricsService struct {
	registry        *prometheus.Registry
	handler         http.Handler
	requestDuration *prometheus.HistogramVec
	requestTotal    *prometheus.CounterVec
	signupsTotal    prometheus.Counter
	loginsTotal     prometheus.Counter
	tokensRevoked   prometheus.Counter
	roleTransitions *prometheus.CounterVec
}

// NewMetricsService registers the core Prometheus collectors.
func NewMetricsService() *MetricsService {
	registry := prometheus.NewRegistry()

	requestDuration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "http_request_duration_seconds",
		Help:    "Duration of HTTP requests in seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "path", "status"})

	requestTotal := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "http_requests_total",
		Help: "Total number of HTTP requests",
	}, []string{"method", "path", "status"})

	signupsTotal := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "signups_total",
		Help: "Total number of created accounts",
	})

	loginsTotal := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "logins_total",
		Help: "Total number of successful logins",
	})

	tokensRevoked := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "refresh_tokens_revoked_total",
		Help: "Total refresh tokens placed on the revocation list",
	})

	roleTransitions := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "role_transitions_total",
		Help: "Total role transitions applied, by direction",
	}, []string{"direction"})

	goroutines := prometheus.NewGaugeFunc(prometheus.GaugeOpts{
		Name: "goroutines_total",
		Help: "Total number of goroutines",
	}, func() float64 {
		return float64(runtime.NumGoroutine())
	})

	registry.MustRegister(requestDuration, requestTotal, signupsTotal, loginsTotal, tokensRevoked, roleTransitions, goroutines)

	return &MetricsService{
		registry:        registry,
		handler:         promhttp.HandlerFor(registry, promhttp.HandlerOpts{}),
		requestDuration: requestDuration,
		requestTotal:    requestTotal,
		signupsTotal:    signupsTotal,
		loginsTotal:     loginsTotal,
		tokensRevoked:   tokensRevoked,
		roleTransitions: roleTransitions,
	}
}

// Handler exposes the Prometheus HTTP handler.
func (m *MetricsService) Handler() http.Handler {
	if m == nil {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusServiceUnavailable)
		})
	}
	return m.handler
}

// ObserveHTTPRequest records request metrics.
func (m *MetricsService) ObserveHTTPRequest(method, path string, status int, duration time.Duration) {
	if m == nil {
		return
	}
	labelStatus := fmt.Sprintf("%d", status)
	m.requestDuration.WithLabelValues(method, path, labelStatus).Observe(duration.Seconds())
	m.requestTotal.WithLabelValues(method, path, labelStatus).Inc()
}

// RecordSignup counts a created account.
func (m *MetricsService) RecordSignup() {
	if m == nil {
		return
	}
	m.signupsTotal.Inc()
}

// RecordLogin counts a successful login.
func (m *MetricsService) RecordLogin() {
	if m == nil {
		return
	}
	m.loginsTotal.Inc()
}

// RecordTokenRevoked counts a refresh token placed on the revocation list.
func (m *MetricsService) RecordTokenRevoked() {
	if m == nil {
		return
	}
	m.tokensRevoked.Inc()
}

// RecordRoleTransition counts applied role transitions for a direction.
func (m *MetricsService) RecordRoleTransition(direction string, count int) {
	if m == nil || count <= 0 {
		return
	}
	m.roleTransitions.WithLabelValues(direction).Add(float64(count))
}
