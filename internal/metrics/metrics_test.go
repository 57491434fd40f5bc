package metrics

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	dto "github.com/prometheus/client_model/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func counterValue(t *testing.T, c interface{ Write(*dto.Metric) error }) float64 {
	t.Helper()
	var m dto.Metric
	require.NoError(t, c.Write(&m))
	return m.GetCounter().GetValue()
}

func TestStatusBucket(t *testing.T) {
	tests := []struct {
		code int
		want string
	}{
		{100, "1xx"},
		{200, "2xx"},
		{201, "2xx"},
		{301, "3xx"},
		{400, "4xx"},
		{409, "4xx"},
		{500, "5xx"},
		{503, "5xx"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, statusBucket(tt.code), "code %d", tt.code)
	}
}

func TestMetricsEndpoint(t *testing.T) {
	r := gin.New()
	r.GET("/metrics", Handler())

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, w.Code)

	// Gauges are exported before the first observation.
	body := w.Body.String()
	for _, name := range []string{
		"andromeda_blocked_wallets",
		"andromeda_feed_paused",
		"andromeda_active_websocket_clients",
	} {
		assert.True(t, strings.Contains(body, name), "missing %s", name)
	}

	TransactionsTotal.WithLabelValues("malicious").Inc()

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Contains(t, w.Body.String(), `andromeda_transactions_total{classification="malicious"}`)
}

func TestMiddleware_RecordsRoutePattern(t *testing.T) {
	r := gin.New()
	r.Use(Middleware())
	r.GET("/v1/alerts/:id", func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{"error": "not_found"})
	})

	counter := HTTPRequestsTotal.WithLabelValues(http.MethodGet, "/v1/alerts/:id", "4xx")
	before := counterValue(t, counter)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/v1/alerts/alert_1_abc", nil))
	require.Equal(t, http.StatusNotFound, w.Code)

	assert.Equal(t, before+1, counterValue(t, counter))
}
