// Package metric provides Prometheus metrics for civ7save.
//
// Metrics include:
//
//   - Decode results, latency and input size
//   - Decoded chunk counts by type
//   - Decode cache hits and misses
//   - HTTP request counts and latency
//   - Save index and storage sizes
//
// Metrics are exposed at /metrics in Prometheus format.
package metric
