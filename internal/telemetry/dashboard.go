package telemetry

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"strconv"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	"bookhub-dashboard/internal/client"
)

// MeterName is the instrumentation scope of every dashboard instrument
const MeterName = "bookhub-dashboard"

// DashboardTelemetry records page requests served by the dashboard and
// the calls it makes to the bookstore API
type DashboardTelemetry struct {
	pageCounter      metric.Int64Counter
	pageErrorCounter metric.Int64Counter
	pageDuration     metric.Float64Histogram
	upstreamCounter  metric.Int64Counter
	upstreamDuration metric.Float64Histogram
	upstreamErrors   metric.Int64Counter
}

// PageMetrics contains the telemetry data for a page request
type PageMetrics struct {
	Method       string
	Route        string
	StatusCode   int
	Duration     time.Duration
	ClientIPType string
}

// NewDashboardTelemetry creates all instruments from meter.
// A nil meter falls back to the global provider.
func NewDashboardTelemetry(meter metric.Meter) (*DashboardTelemetry, error) {
	if meter == nil {
		meter = otel.Meter(MeterName)
	}

	t := &DashboardTelemetry{}
	var err error

	t.pageCounter, err = meter.Int64Counter(
		"dashboard_page_requests_total",
		metric.WithDescription("Total number of dashboard page requests"),
		metric.WithUnit("1"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create page request counter: %w", err)
	}

	t.pageErrorCounter, err = meter.Int64Counter(
		"dashboard_page_errors_total",
		metric.WithDescription("Total number of dashboard page requests answered with an error status"),
		metric.WithUnit("1"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create page error counter: %w", err)
	}

	t.pageDuration, err = meter.Float64Histogram(
		"dashboard_page_duration_seconds",
		metric.WithDescription("Duration of dashboard page requests"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create page duration histogram: %w", err)
	}

	t.upstreamCounter, err = meter.Int64Counter(
		"bookstore_api_calls_total",
		metric.WithDescription("Total number of calls made to the bookstore API"),
		metric.WithUnit("1"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create upstream call counter: %w", err)
	}

	t.upstreamErrors, err = meter.Int64Counter(
		"bookstore_api_errors_total",
		metric.WithDescription("Total number of failed calls to the bookstore API"),
		metric.WithUnit("1"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create upstream error counter: %w", err)
	}

	t.upstreamDuration, err = meter.Float64Histogram(
		"bookstore_api_call_duration_seconds",
		metric.WithDescription("Duration of calls to the bookstore API"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create upstream duration histogram: %w", err)
	}

	return t, nil
}

// RegisterPage records one served page request
func (t *DashboardTelemetry) RegisterPage(ctx context.Context, m PageMetrics) {
	// Low-cardinality attributes only
	attrs := metric.WithAttributes(
		attribute.String("method", m.Method),
		attribute.String("route", m.Route),
		attribute.Int("status_code", m.StatusCode),
		attribute.String("client_ip_type", m.ClientIPType),
	)

	t.pageCounter.Add(ctx, 1, attrs)
	t.pageDuration.Record(ctx, m.Duration.Seconds(), attrs)

	if m.StatusCode >= 400 {
		t.pageErrorCounter.Add(ctx, 1, attrs)
		slog.Warn("Page request failed",
			"method", m.Method,
			"route", m.Route,
			"status_code", m.StatusCode,
			"duration_ms", m.Duration.Milliseconds(),
		)
		return
	}

	slog.Debug("Page request served",
		"method", m.Method,
		"route", m.Route,
		"status_code", m.StatusCode,
		"duration_ms", m.Duration.Milliseconds(),
	)
}

// ObserveCall records one call to the bookstore API
func (t *DashboardTelemetry) ObserveCall(ctx context.Context, call client.CallMetrics) {
	attrs := metric.WithAttributes(
		attribute.String("method", call.Method),
		attribute.String("resource", call.Resource),
		attribute.String("status_class", StatusClass(call.StatusCode)),
	)

	// Recorded on a fresh context so cancelled page requests still count
	t.upstreamCounter.Add(context.WithoutCancel(ctx), 1, attrs)
	t.upstreamDuration.Record(context.WithoutCancel(ctx), call.Duration.Seconds(), attrs)

	if call.Err != nil {
		t.upstreamErrors.Add(context.WithoutCancel(ctx), 1, metric.WithAttributes(
			attribute.String("method", call.Method),
			attribute.String("resource", call.Resource),
			attribute.String("error_type", CategorizeError(call.Err)),
		))
		slog.Debug("Bookstore API call failed",
			"method", call.Method,
			"resource", call.Resource,
			"status_code", call.StatusCode,
			"error", call.Err,
		)
	}
}

// StatusClass groups HTTP status codes as "2xx", "4xx" and so on. 0 means no response.
func StatusClass(code int) string {
	if code <= 0 {
		return "none"
	}
	return strconv.Itoa(code/100) + "xx"
}

// CategorizeError groups call failures to keep cardinality low
func CategorizeError(err error) string {
	var statusErr *client.StatusError
	var netErr net.Error

	switch {
	case err == nil:
		return "none"
	case errors.Is(err, context.Canceled):
		return "canceled"
	case errors.Is(err, context.DeadlineExceeded):
		return "timeout"
	case errors.As(err, &netErr) && netErr.Timeout():
		return "timeout"
	case errors.As(err, &statusErr):
		if statusErr.NotFound() {
			return "not_found"
		}
		if statusErr.StatusCode >= 500 {
			return "server_error"
		}
		return "client_error"
	case errors.As(err, new(*client.TransportError)):
		return "transport"
	default:
		return "other"
	}
}
