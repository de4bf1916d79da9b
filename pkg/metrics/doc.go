// Package metrics provides Prometheus-compatible metrics for koenote-proxy.
//
// It writes the Prometheus text exposition format (text/plain; version=0.0.4)
// directly. Counters, gauges and histograms are safe for concurrent use.
//
// # Exported metrics
//
//   - koenote_proxy_requests_total: proxied calls (labels: route, outcome)
//   - koenote_proxy_backend_duration_seconds: backend latency (labels: route)
//   - koenote_http_requests_total: inbound requests (labels: method, status)
//   - koenote_http_request_duration_seconds: inbound latency (labels: method)
//   - koenote_http_in_flight_requests: requests being served
//   - koenote_uptime_seconds and go_* runtime gauges
//
// # Usage
//
//	reg := metrics.NewRegistry()
//	pm := metrics.NewProxyMetrics(reg)
//	pm.ObserveRoute("recordings.list", metrics.OutcomeMock)
//	mux.Handle("GET /metrics", reg.Handler())
package metrics
