package observability

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// Instrument names recorded by HTTPClientMetrics.
const (
	MetricClientRequests = "http.client.requests"
	MetricClientDuration = "http.client.request.duration"
	MetricClientErrors   = "http.client.errors"
)

// HTTPClientMetrics holds the instruments recorded for outbound HTTP requests.
type HTTPClientMetrics struct {
	requests metric.Int64Counter
	duration metric.Float64Histogram
	errors   metric.Int64Counter
}

// NewHTTPClientMetrics creates the outbound request instruments on meter.
func NewHTTPClientMetrics(meter metric.Meter) (*HTTPClientMetrics, error) {
	requests, err := meter.Int64Counter(MetricClientRequests,
		metric.WithDescription("Outbound HTTP requests by method and status code"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating %s counter: %w", MetricClientRequests, err)
	}

	duration, err := meter.Float64Histogram(MetricClientDuration,
		metric.WithDescription("Duration of outbound HTTP requests in seconds"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating %s histogram: %w", MetricClientDuration, err)
	}

	errs, err := meter.Int64Counter(MetricClientErrors,
		metric.WithDescription("Outbound HTTP requests that failed before a response"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating %s counter: %w", MetricClientErrors, err)
	}

	return &HTTPClientMetrics{requests: requests, duration: duration, errors: errs}, nil
}

// RecordResponse records a request that produced a response.
func (m *HTTPClientMetrics) RecordResponse(ctx context.Context, client, method string, status int, d time.Duration) {
	if m == nil {
		return
	}
	attrs := metric.WithAttributes(
		attribute.String("client", client),
		attribute.String("method", method),
		attribute.String("status", strconv.Itoa(status)),
	)
	m.requests.Add(ctx, 1, attrs)
	m.duration.Record(ctx, d.Seconds(), metric.WithAttributes(
		attribute.String("client", client),
		attribute.String("method", method),
	))
}

// RecordFailure records a request that failed without a response.
func (m *HTTPClientMetrics) RecordFailure(ctx context.Context, client, method, kind string) {
	if m == nil {
		return
	}
	m.errors.Add(ctx, 1, metric.WithAttributes(
		attribute.String("client", client),
		attribute.String("method", method),
		attribute.String("type", kind),
	))
}
