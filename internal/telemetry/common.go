package telemetry

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetricgrpc"
	"go.opentelemetry.io/otel/exporters/prometheus"
	api "go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/sdk/metric"
)

// Exporter names accepted by InitMetrics
const (
	ExporterGRPC    = "grpc"
	ExporterScraper = "scraper"
	ExporterNone    = "none"
)

// Telemetry owns the meter provider and, for the scraper exporter, the metrics server
type Telemetry struct {
	server   *http.Server          // If type of metrics collection == "scraper".
	Provider *metric.MeterProvider // nil when metrics are disabled.
	meter    api.Meter
}

// InitMetrics sets up the global meter provider for the given exporter.
// An empty exporter name means grpc. "none" leaves the global no-op provider in place.
func InitMetrics(ctx context.Context, meterName, exporter, addr string) (*Telemetry, error) {
	t := &Telemetry{}

	switch exporter {
	case ExporterScraper:
		slog.Info("Starting metrics with scraper exporter", "addr", addr)
		if err := t.initScrapeMetrics(meterName, addr); err != nil {
			return nil, err
		}
	case ExporterNone:
		slog.Info("Metrics disabled")
		t.meter = otel.Meter(meterName)
	case "", ExporterGRPC:
		slog.Info("Starting metrics with grpc exporter")
		if err := t.initGRPCMetrics(ctx, meterName); err != nil {
			return nil, err
		}
	default:
		return nil, fmt.Errorf("unknown metrics exporter %q", exporter)
	}

	return t, nil
}

// Meter returns the meter instruments should be created from
func (t *Telemetry) Meter() api.Meter {
	return t.meter
}

// Close stops the metrics server and flushes pending data
func (t *Telemetry) Close(ctx context.Context) {
	t.shutdownScraperMetrics(ctx)

	if t.Provider != nil {
		if err := t.Provider.Shutdown(ctx); err != nil {
			slog.Warn("Meter provider shutdown failed", "error", err)
		}
	}
}

// Initialize GRPC metrics exporter. https://opentelemetry.io/docs/languages/go/exporters/#otlp-metrics-over-grpc.
func (t *Telemetry) initGRPCMetrics(ctx context.Context, meterName string) error {
	// The URL to export is set via environment variable
	// OTEL_EXPORTER_OTLP_METRICS_ENDPOINT and if not set it is  "localhost:4317"
	exporter, err := otlpmetricgrpc.New(ctx)
	if err != nil {
		return fmt.Errorf("creating grpc exporter: %w", err)
	}

	t.Provider = metric.NewMeterProvider(metric.WithReader(metric.NewPeriodicReader(exporter)))
	otel.SetMeterProvider(t.Provider)
	t.meter = t.Provider.Meter(meterName)
	return nil
}

// Initialize scrape metrics exporter. https://github.com/open-telemetry/opentelemetry-go/blob/main/example/prometheus/main.go.
func (t *Telemetry) initScrapeMetrics(meterName, addr string) error {
	// The exporter embeds a default OpenTelemetry Reader and
	// implements prometheus.Collector, allowing it to be used as
	// both a Reader and Collector.
	exporter, err := prometheus.New()
	if err != nil {
		return fmt.Errorf("creating scrape exporter: %w", err)
	}

	t.Provider = metric.NewMeterProvider(metric.WithReader(exporter))
	otel.SetMeterProvider(t.Provider)
	t.meter = t.Provider.Meter(meterName)

	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	t.server = &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go t.serveMetrics()
	return nil
}

// Run metrics server for "scraper" open telemetry collector
func (t *Telemetry) serveMetrics() {
	slog.Info("Serving metrics", "addr", t.server.Addr, "path", "/metrics")

	if err := t.server.ListenAndServe(); err != nil {
		if errors.Is(err, http.ErrServerClosed) {
			slog.Info("Metrics server closed")
		} else {
			slog.Error("Metrics ListenAndServe exited with", "error", err)
		}
	}
}

// Shutdown HTTP server used for "scraper" metrics collection.
func (t *Telemetry) shutdownScraperMetrics(ctx context.Context) {
	if t.server != nil {
		_ = t.server.Shutdown(ctx)
		slog.Info("Shutting down metrics server")
	}
}
