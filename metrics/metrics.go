// Package metrics provides Prometheus metrics for the notes service.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// HTTP request metrics
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "notes_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "route", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "notes_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)

	// Note operation metrics
	NoteOperationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "notes_operations_total",
			Help: "Total number of note store operations",
		},
		[]string{"operation", "result"}, // operation: "list", "create", "update", "delete"; result: "success", "invalid", "not_found", "error"
	)

	NotesStored = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "notes_stored",
			Help: "Number of notes currently held in the store",
		},
	)

	// Recovered panics
	PanicsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "notes_http_panics_total",
			Help: "Total number of handler panics recovered",
		},
	)
)

// Operation results
const (
	ResultSuccess  = "success"
	ResultInvalid  = "invalid"
	ResultNotFound = "not_found"
	ResultError    = "error"
)
