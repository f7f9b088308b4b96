package cmd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	"github.com/spf13/cobra"

	"bookhub-dashboard/internal/cache"
	"bookhub-dashboard/internal/client"
	"bookhub-dashboard/internal/config"
	"bookhub-dashboard/internal/handlers"
	"bookhub-dashboard/internal/telemetry"
	"bookhub-dashboard/internal/utils"
	"bookhub-dashboard/internal/views"
)

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the dashboard HTTP server",
		RunE:  runServe,
	}
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := config.LoadConfig(cmd.Flags())
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	utils.SetupLogging(cfg.LogLevel, cfg.LogFormat)
	slog.Info("Configuration loaded", cfg.LogValues()...)
	slog.Info("Starting BookHub Dashboard", "version", "1.0.0")

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	otelTelemetry, err := telemetry.InitMetrics(ctx, telemetry.MeterName, cfg.MetricsExporter, cfg.MetricsAddr)
	if err != nil {
		return fmt.Errorf("failed to initialize metrics: %w", err)
	}

	dashboardTelemetry, err := telemetry.NewDashboardTelemetry(otelTelemetry.Meter())
	if err != nil {
		return fmt.Errorf("failed to initialize dashboard telemetry: %w", err)
	}
	slog.Info("Dashboard telemetry initialized")

	api := client.NewBookstoreClient(client.Options{
		BaseURL:  cfg.APIBaseURL,
		APIKey:   cfg.APIKey,
		Timeout:  cfg.APITimeout,
		Observer: dashboardTelemetry,
	})

	renderer, err := views.NewRenderer()
	if err != nil {
		return fmt.Errorf("failed to load templates: %w", err)
	}

	notices := cache.NewTTLCache[string](cfg.FlashTTL, cfg.FlashCleanupInterval)
	defer notices.Stop()

	router := newRouter(api, renderer, handlers.NewFlashStore(notices), dashboardTelemetry)

	server := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	serverErr := make(chan error, 1)
	go func() {
		slog.Info("Server ready to accept connections", "address", server.Addr, "api", api.BaseURL())
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
		close(serverErr)
	}()

	select {
	case err := <-serverErr:
		if err != nil {
			otelTelemetry.Close(context.Background())
			return fmt.Errorf("server failed to start: %w", err)
		}
	case <-ctx.Done():
	}
	slog.Info("Shutting down server...")

	// Give outstanding requests a deadline for completion
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		slog.Error("Server forced to shutdown", "error", err)
	}

	otelTelemetry.Close(shutdownCtx)
	slog.Info("Telemetry shutdown completed")

	slog.Info("Server exited")
	return nil
}

// newRouter wires the dashboard routes behind the telemetry middleware
func newRouter(api handlers.DashboardAPI, renderer *views.Renderer, flash *handlers.FlashStore, tel *telemetry.DashboardTelemetry) *mux.Router {
	r := mux.NewRouter()
	r.Use(telemetry.NewTelemetryMiddleware(tel).Middleware)

	handlers.NewDashboard(api, renderer, flash).RegisterRoutes(r)
	return r
}
