package observability

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds all Prometheus metrics for the console daemon.
type Metrics struct {
	// HTTP metrics
	HTTPRequestsTotal   *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec

	// Session metrics
	LoginAttemptsTotal *prometheus.CounterVec
	SessionsActive     prometheus.Gauge

	// Access policy metrics
	AccessDecisionsTotal *prometheus.CounterVec

	// Business metrics
	FeatureTogglesTotal *prometheus.CounterVec
	UsageExportsTotal   *prometheus.CounterVec
	OrganizationsTotal  prometheus.Gauge
	UsersTotal          prometheus.Gauge

	registry *prometheus.Registry
}

// NewMetrics creates and registers all Prometheus metrics
func NewMetrics(registry *prometheus.Registry) *Metrics {
	if registry == nil {
		registry = prometheus.NewRegistry()
	}

	m := &Metrics{
		HTTPRequestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "atrium_http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "path", "status"},
		),
		HTTPRequestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "atrium_http_request_duration_seconds",
				Help:    "HTTP request duration in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "path"},
		),
		LoginAttemptsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "atrium_login_attempts_total",
				Help: "Total number of login attempts by result",
			},
			[]string{"result"},
		),
		SessionsActive: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "atrium_sessions_active",
				Help: "Whether a principal is currently signed in (0 or 1)",
			},
		),
		AccessDecisionsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "atrium_access_decisions_total",
				Help: "Total number of route guard decisions by outcome",
			},
			[]string{"decision"},
		),
		FeatureTogglesTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "atrium_feature_toggles_total",
				Help: "Total number of feature toggle operations",
			},
			[]string{"enabled"},
		),
		UsageExportsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "atrium_usage_exports_total",
				Help: "Total number of usage export requests by format",
			},
			[]string{"format"},
		),
		OrganizationsTotal: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "atrium_organizations_total",
				Help: "Current number of organizations",
			},
		),
		UsersTotal: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "atrium_users_total",
				Help: "Current number of users",
			},
		),
		registry: registry,
	}

	registry.MustRegister(
		m.HTTPRequestsTotal,
		m.HTTPRequestDuration,
		m.LoginAttemptsTotal,
		m.SessionsActive,
		m.AccessDecisionsTotal,
		m.FeatureTogglesTotal,
		m.UsageExportsTotal,
		m.OrganizationsTotal,
		m.UsersTotal,
	)

	return m
}

// Handler returns an HTTP handler serving the metrics registry.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// ObserveHTTPRequest records a completed HTTP request.
func (m *Metrics) ObserveHTTPRequest(method, path string, status int, duration time.Duration) {
	m.HTTPRequestsTotal.WithLabelValues(method, path, strconv.Itoa(status)).Inc()
	m.HTTPRequestDuration.WithLabelValues(method, path).Observe(duration.Seconds())
}

// RecordLogin records a login attempt outcome.
func (m *Metrics) RecordLogin(result string) {
	m.LoginAttemptsTotal.WithLabelValues(result).Inc()
}

// RecordAccessDecision records a route guard outcome.
func (m *Metrics) RecordAccessDecision(decision string) {
	m.AccessDecisionsTotal.WithLabelValues(decision).Inc()
}

// RecordFeatureToggle records a feature toggle and its resulting state.
func (m *Metrics) RecordFeatureToggle(enabled bool) {
	m.FeatureTogglesTotal.WithLabelValues(strconv.FormatBool(enabled)).Inc()
}

// RecordUsageExport records a usage export request.
func (m *Metrics) RecordUsageExport(format string) {
	m.UsageExportsTotal.WithLabelValues(format).Inc()
}

// SetSignedIn reflects whether a principal is currently signed in.
func (m *Metrics) SetSignedIn(signedIn bool) {
	if signedIn {
		m.SessionsActive.Set(1)
	} else {
		m.SessionsActive.Set(0)
	}
}
