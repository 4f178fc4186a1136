// Package wcametrics records WCA API and sync-service metrics.
package wcametrics

import (
	"context"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "wca"

// Metrics is implemented by PrometheusMetrics and NoopMetrics.
type Metrics interface {
	RecordRequest(ctx context.Context, operation string, statusCode int, duration time.Duration)
	RecordTransportError(ctx context.Context, operation string)
	RecordRateLimitWait(ctx context.Context, duration time.Duration)
	RecordTokenGrant(ctx context.Context, grantType string, success bool)

	RecordOperationAttempt(ctx context.Context, operation, service string)
	RecordOperationSuccess(ctx context.Context, operation, service string)
	RecordOperationFailure(ctx context.Context, operation, service string)
	RecordOperationDuration(ctx context.Context, operation, service string, duration time.Duration)
}

// PrometheusMetrics exports Metrics through a prometheus registry.
type PrometheusMetrics struct {
	requests          *prometheus.CounterVec
	requestDuration   *prometheus.HistogramVec
	transportErrors   *prometheus.CounterVec
	rateLimitWait     prometheus.Histogram
	tokenGrants       *prometheus.CounterVec
	operations        *prometheus.CounterVec
	operationDuration *prometheus.HistogramVec
}

// NewPrometheus creates the collectors and registers them with reg.
func NewPrometheus(reg prometheus.Registerer) (*PrometheusMetrics, error) {
	m := &PrometheusMetrics{
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "api",
			Name:      "requests_total",
			Help:      "WCA API requests by operation and HTTP status code.",
		}, []string{"operation", "code"}),
		requestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "api",
			Name:      "request_duration_seconds",
			Help:      "WCA API request latency.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"operation"}),
		transportErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "api",
			Name:      "transport_errors_total",
			Help:      "WCA API requests that failed before a response was received.",
		}, []string{"operation"}),
		rateLimitWait: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "api",
			Name:      "rate_limit_wait_seconds",
			Help:      "Time spent waiting on the client-side rate limiter.",
			Buckets:   []float64{0.001, 0.01, 0.1, 0.5, 1, 5},
		}),
		tokenGrants: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "oauth",
			Name:      "token_grants_total",
			Help:      "OAuth token endpoint calls by grant type and outcome.",
		}, []string{"grant_type", "outcome"}),
		operations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "sync",
			Name:      "operations_total",
			Help:      "Sync service operations by outcome.",
		}, []string{"operation", "service", "outcome"}),
		operationDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "sync",
			Name:      "operation_duration_seconds",
			Help:      "Sync service operation latency.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"operation", "service"}),
	}

	collectors := []prometheus.Collector{
		m.requests, m.requestDuration, m.transportErrors, m.rateLimitWait,
		m.tokenGrants, m.operations, m.operationDuration,
	}
	for _, c := range collectors {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}
	return m, nil
}

func (m *PrometheusMetrics) RecordRequest(_ context.Context, operation string, statusCode int, duration time.Duration) {
	m.requests.WithLabelValues(operation, strconv.Itoa(statusCode)).Inc()
	m.requestDuration.WithLabelValues(operation).Observe(duration.Seconds())
}

func (m *PrometheusMetrics) RecordTransportError(_ context.Context, operation string) {
	m.transportErrors.WithLabelValues(operation).Inc()
}

func (m *PrometheusMetrics) RecordRateLimitWait(_ context.Context, duration time.Duration) {
	m.rateLimitWait.Observe(duration.Seconds())
}

func (m *PrometheusMetrics) RecordTokenGrant(_ context.Context, grantType string, success bool) {
	outcome := "success"
	if !success {
		outcome = "failure"
	}
	m.tokenGrants.WithLabelValues(grantType, outcome).Inc()
}

func (m *PrometheusMetrics) RecordOperationAttempt(_ context.Context, operation, service string) {
	m.operations.WithLabelValues(operation, service, "attempt").Inc()
}

func (m *PrometheusMetrics) RecordOperationSuccess(_ context.Context, operation, service string) {
	m.operations.WithLabelValues(operation, service, "success").Inc()
}

func (m *PrometheusMetrics) RecordOperationFailure(_ context.Context, operation, service string) {
	m.operations.WithLabelValues(operation, service, "failure").Inc()
}

func (m *PrometheusMetrics) RecordOperationDuration(_ context.Context, operation, service string, duration time.Duration) {
	m.operationDuration.WithLabelValues(operation, service).Observe(duration.Seconds())
}

var _ Metrics = (*PrometheusMetrics)(nil)
