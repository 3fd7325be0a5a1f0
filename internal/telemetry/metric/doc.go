// Package metric provides the Prometheus metrics of tracker-server.
//
//   - prometheus.go: the Registry with request, login, registration and
//     expense metrics, and its /metrics handler
//   - collector.go: a collector probing storage availability at scrape time
//
// Metrics are exposed at /metrics in Prometheus text format.
package metric
