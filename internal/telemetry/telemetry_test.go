package telemetry

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"

	"bookhub-dashboard/internal/client"
)

func newTestTelemetry(t *testing.T) (*DashboardTelemetry, *sdkmetric.ManualReader) {
	t.Helper()

	reader := sdkmetric.NewManualReader()
	provider := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	t.Cleanup(func() { _ = provider.Shutdown(context.Background()) })

	tel, err := NewDashboardTelemetry(provider.Meter(MeterName))
	require.NoError(t, err)
	return tel, reader
}

// counterPoints returns the data points of the named int64 sum
func counterPoints(t *testing.T, reader *sdkmetric.ManualReader, name string) []metricdata.DataPoint[int64] {
	t.Helper()

	var rm metricdata.ResourceMetrics
	require.NoError(t, reader.Collect(context.Background(), &rm))

	for _, scope := range rm.ScopeMetrics {
		for _, m := range scope.Metrics {
			if m.Name == name {
				sum, ok := m.Data.(metricdata.Sum[int64])
				require.True(t, ok, "metric %s is not an int64 sum", name)
				return sum.DataPoints
			}
		}
	}
	return nil
}

func attr(point metricdata.DataPoint[int64], key string) string {
	for _, kv := range point.Attributes.ToSlice() {
		if string(kv.Key) == key {
			return kv.Value.Emit()
		}
	}
	return ""
}

func TestMiddleware_RecordsRouteTemplate(t *testing.T) {
	tel, reader := newTestTelemetry(t)

	router := mux.NewRouter()
	router.Use(NewTelemetryMiddleware(tel).Middleware)
	router.HandleFunc("/Order/{id}", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}).Methods(http.MethodGet)
	router.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("ok"))
	}).Methods(http.MethodGet)

	for _, path := range []string{"/Order/5", "/Order/6", "/"} {
		req := httptest.NewRequest(http.MethodGet, path, nil)
		req.RemoteAddr = "192.168.1.20:5555"
		router.ServeHTTP(httptest.NewRecorder(), req)
	}

	points := counterPoints(t, reader, "dashboard_page_requests_total")
	require.Len(t, points, 2)

	byRoute := map[string]metricdata.DataPoint[int64]{}
	for _, p := range points {
		byRoute[attr(p, "route")] = p
	}
	assert.Equal(t, int64(2), byRoute["/Order/{id}"].Value)
	assert.Equal(t, "502", attr(byRoute["/Order/{id}"], "status_code"))
	assert.Equal(t, "internal", attr(byRoute["/Order/{id}"], "client_ip_type"))
	assert.Equal(t, int64(1), byRoute["/"].Value)

	errorsPoints := counterPoints(t, reader, "dashboard_page_errors_total")
	require.Len(t, errorsPoints, 1)
	assert.Equal(t, int64(2), errorsPoints[0].Value)
}

func TestObserveCall(t *testing.T) {
	tel, reader := newTestTelemetry(t)

	tel.ObserveCall(context.Background(), client.CallMetrics{
		Method: http.MethodGet, Resource: "/sach", StatusCode: 200, Duration: 5 * time.Millisecond,
	})

	cancelled, cancel := context.WithCancel(context.Background())
	cancel()
	tel.ObserveCall(cancelled, client.CallMetrics{
		Method: http.MethodDelete, Resource: "/sach", StatusCode: 500,
		Err: &client.StatusError{Method: http.MethodDelete, Path: "/sach/3", StatusCode: 500},
	})

	calls := counterPoints(t, reader, "bookstore_api_calls_total")
	require.Len(t, calls, 2)
	classes := []string{attr(calls[0], "status_class"), attr(calls[1], "status_class")}
	assert.ElementsMatch(t, []string{"2xx", "5xx"}, classes)

	failures := counterPoints(t, reader, "bookstore_api_errors_total")
	require.Len(t, failures, 1)
	assert.Equal(t, "server_error", attr(failures[0], "error_type"))
	assert.Equal(t, "DELETE", attr(failures[0], "method"))
}

func TestCategorizeError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{name: "nil", err: nil, want: "none"},
		{name: "canceled", err: &client.TransportError{Err: context.Canceled}, want: "canceled"},
		{name: "deadline", err: context.DeadlineExceeded, want: "timeout"},
		{name: "not found", err: &client.StatusError{StatusCode: 404}, want: "not_found"},
		{name: "conflict", err: &client.StatusError{StatusCode: 409}, want: "client_error"},
		{name: "bad gateway", err: &client.StatusError{StatusCode: 502}, want: "server_error"},
		{name: "refused", err: &client.TransportError{Err: errors.New("connection refused")}, want: "transport"},
		{name: "other", err: errors.New("boom"), want: "other"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CategorizeError(tt.err))
		})
	}
}

func TestStatusClass(t *testing.T) {
	assert.Equal(t, "none", StatusClass(0))
	assert.Equal(t, "2xx", StatusClass(204))
	assert.Equal(t, "4xx", StatusClass(404))
}

func TestNormalizeClientIP(t *testing.T) {
	assert.Equal(t, "unknown", NormalizeClientIP(""))
	assert.Equal(t, "invalid", NormalizeClientIP("not-an-ip"))
	assert.Equal(t, "localhost", NormalizeClientIP("127.0.0.1"))
	assert.Equal(t, "internal", NormalizeClientIP("10.1.2.3"))
	assert.Equal(t, "external", NormalizeClientIP("8.8.8.8"))
}

func TestGetClientIP(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("X-Forwarded-For", "203.0.113.9, 10.0.0.1")
	assert.Equal(t, "203.0.113.9", getClientIP(req))

	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = "10.0.0.7:1234"
	assert.Equal(t, "10.0.0.7", getClientIP(req))
}

func TestInitMetrics_None(t *testing.T) {
	tel, err := InitMetrics(context.Background(), MeterName, ExporterNone, "")
	require.NoError(t, err)
	assert.Nil(t, tel.Provider)
	assert.NotNil(t, tel.Meter())
	tel.Close(context.Background())

	_, err = InitMetrics(context.Background(), MeterName, "statsd", "")
	assert.Error(t, err)
}
