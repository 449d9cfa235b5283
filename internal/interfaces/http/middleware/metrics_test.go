package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
)

// setupTestMeter sets up a test meter provider and reader.
func setupTestMeter(t *testing.T) (*sdkmetric.MeterProvider, *sdkmetric.ManualReader) {
	t.Helper()

	reader := sdkmetric.NewManualReader()
	mp := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))

	t.Cleanup(func() {
		_ = mp.Shutdown(context.Background())
	})

	return mp, reader
}

// collectMetrics collects metrics from the reader.
func collectMetrics(t *testing.T, reader *sdkmetric.ManualReader) metricdata.ResourceMetrics {
	t.Helper()

	var rm metricdata.ResourceMetrics
	require.NoError(t, reader.Collect(context.Background(), &rm))
	return rm
}

// findMetricByName finds a metric by name in the collected metrics.
func findMetricByName(rm metricdata.ResourceMetrics, name string) *metricdata.Metrics {
	for _, sm := range rm.ScopeMetrics {
		for i := range sm.Metrics {
			if sm.Metrics[i].Name == name {
				return &sm.Metrics[i]
			}
		}
	}
	return nil
}

func meteredRouter(t *testing.T) (*gin.Engine, *sdkmetric.ManualReader) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	mp, reader := setupTestMeter(t)

	router := gin.New()
	router.Use(HTTPMetricsWithMeter(mp.Meter("http.server"), true))
	router.GET("/api/v1/bills/:id", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"id": c.Param("id")})
	})
	router.POST("/api/v1/create_bill", func(c *gin.Context) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "bill_data is required"})
	})
	return router, reader
}

func TestHTTPMetrics_Disabled(t *testing.T) {
	gin.SetMode(gin.TestMode)

	for _, mw := range []gin.HandlerFunc{
		HTTPMetrics(HTTPMetricsConfig{Enabled: false}),
		HTTPMetrics(HTTPMetricsConfig{Enabled: true, MeterProvider: nil}),
		HTTPMetricsWithMeter(nil, false),
	} {
		router := gin.New()
		router.Use(mw)
		router.GET("/ping", func(c *gin.Context) { c.String(http.StatusOK, "pong") })

		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ping", nil))
		assert.Equal(t, http.StatusOK, w.Code)
	}
}

func TestHTTPMetricsWithMeter_RequestCounter(t *testing.T) {
	router, reader := meteredRouter(t)

	for i := 0; i < 3; i++ {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/bills/b-"+string(rune('a'+i)), nil))
		assert.Equal(t, http.StatusOK, w.Code)
	}

	rm := collectMetrics(t, reader)
	requestTotal := findMetricByName(rm, "http_server_request_total")
	require.NotNil(t, requestTotal)

	sum, ok := requestTotal.Data.(metricdata.Sum[int64])
	require.True(t, ok)
	// Route pattern keeps distinct ids on one series
	require.Len(t, sum.DataPoints, 1)
	assert.Equal(t, int64(3), sum.DataPoints[0].Value)

	route, ok := sum.DataPoints[0].Attributes.Value(attribute.Key("http.route"))
	require.True(t, ok)
	assert.Equal(t, "/api/v1/bills/:id", route.AsString())
}

func TestHTTPMetricsWithMeter_StatusClass(t *testing.T) {
	router, reader := meteredRouter(t)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/api/v1/create_bill", strings.NewReader(`{}`)))
	assert.Equal(t, http.StatusBadRequest, w.Code)

	rm := collectMetrics(t, reader)
	sum := findMetricByName(rm, "http_server_request_total").Data.(metricdata.Sum[int64])
	require.Len(t, sum.DataPoints, 1)

	class, ok := sum.DataPoints[0].Attributes.Value(attribute.Key("http.status_class"))
	require.True(t, ok)
	assert.Equal(t, "4xx", class.AsString())

	requestSize := findMetricByName(rm, "http_server_request_size_bytes")
	require.NotNil(t, requestSize)
	assert.NotNil(t, findMetricByName(rm, "http_server_response_size_bytes"))
	assert.NotNil(t, findMetricByName(rm, "http_server_request_duration_seconds"))
}

func TestHTTPMetricsWithMeter_ActiveRequestsSettle(t *testing.T) {
	router, reader := meteredRouter(t)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/bills/x", nil))

	rm := collectMetrics(t, reader)
	active := findMetricByName(rm, "http_server_active_requests")
	require.NotNil(t, active)
	sum := active.Data.(metricdata.Sum[int64])
	require.Len(t, sum.DataPoints, 1)
	assert.Equal(t, int64(0), sum.DataPoints[0].Value)
}

func TestGetRoutePattern_UnmatchedRoute(t *testing.T) {
	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = httptest.NewRequest(http.MethodGet, "/nowhere", nil)

	assert.Equal(t, "unknown", getRoutePattern(c))
}

func TestHTTPMetricsStatusGroup(t *testing.T) {
	tests := map[int]string{
		http.StatusOK:                  "2xx",
		http.StatusCreated:             "2xx",
		http.StatusFound:               "3xx",
		http.StatusBadRequest:          "4xx",
		http.StatusConflict:            "4xx",
		http.StatusInternalServerError: "5xx",
		0:                              "other",
	}
	for code, want := range tests {
		assert.Equal(t, want, HTTPMetricsStatusGroup(code), "status %d", code)
	}
}
