package metrics

import (
	"strconv"
	"time"
)

// Outcomes recorded by ProxyMetrics.ObserveRoute.
const (
	OutcomeForwarded = "forwarded"
	OutcomeMock      = "mock"
	OutcomeError     = "error"
	OutcomeRejected  = "rejected"
)

// ProxyMetrics groups the metrics exported by koenote-proxy.
type ProxyMetrics struct {
	registry *Registry

	// RouteRequests counts proxied calls. Labels: route, outcome.
	RouteRequests *Counter
	// BackendDuration is the outbound call latency. Labels: route.
	BackendDuration *Histogram
	// HTTPRequests counts every inbound request. Labels: method, status.
	HTTPRequests *Counter
	// HTTPDuration is the inbound request latency. Labels: method.
	HTTPDuration *Histogram
	// InFlight is the number of requests being served.
	InFlight *Gauge
}

// NewProxyMetrics registers the proxy metrics on r, or on a fresh registry
// when r is nil.
func NewProxyMetrics(r *Registry) *ProxyMetrics {
	if r == nil {
		r = NewRegistry()
	}
	return &ProxyMetrics{
		registry: r,
		RouteRequests: r.NewCounter(
			"koenote_proxy_requests_total",
			"Proxied requests by route and outcome",
			"route", "outcome",
		),
		BackendDuration: r.NewHistogram(
			"koenote_proxy_backend_duration_seconds",
			"Duration of backend calls in seconds",
			DefaultBuckets,
			"route",
		),
		HTTPRequests: r.NewCounter(
			"koenote_http_requests_total",
			"Inbound HTTP requests",
			"method", "status",
		),
		HTTPDuration: r.NewHistogram(
			"koenote_http_request_duration_seconds",
			"Duration of inbound HTTP requests in seconds",
			DefaultBuckets,
			"method",
		),
		InFlight: r.NewGauge(
			"koenote_http_in_flight_requests",
			"Requests currently being served",
		),
	}
}

// Registry returns the registry the metrics are registered on.
func (m *ProxyMetrics) Registry() *Registry {
	return m.registry
}

// ObserveRoute records one proxied call. Nil receivers are ignored.
func (m *ProxyMetrics) ObserveRoute(route, outcome string) {
	if m == nil {
		return
	}
	if vec, err := m.RouteRequests.WithLabels(route, outcome); err == nil {
		_ = vec.Inc()
	}
}

// ObserveBackend records the latency of an outbound call.
func (m *ProxyMetrics) ObserveBackend(route string, d time.Duration) {
	if m == nil {
		return
	}
	if vec, err := m.BackendDuration.WithLabels(route); err == nil {
		vec.Observe(d.Seconds())
	}
}

// ObserveHTTP records a completed inbound request.
func (m *ProxyMetrics) ObserveHTTP(method string, status int, d time.Duration) {
	if m == nil {
		return
	}
	if vec, err := m.HTTPRequests.WithLabels(method, strconv.Itoa(status)); err == nil {
		_ = vec.Inc()
	}
	if vec, err := m.HTTPDuration.WithLabels(method); err == nil {
		vec.Observe(d.Seconds())
	}
}
