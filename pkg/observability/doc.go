// Package observability provides structured logging, Prometheus metrics, and
// health endpoints for the console daemon.
package observability
