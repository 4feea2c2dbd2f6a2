package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	dto "github.com/prometheus/client_model/go"
)

func requestCount(t *testing.T, path, method, status string) float64 {
	t.Helper()
	var m dto.Metric
	if err := httpReqTotal.WithLabelValues(path, method, status).Write(&m); err != nil {
		t.Fatalf("read counter: %v", err)
	}
	return m.GetCounter().GetValue()
}

func TestMetrics(t *testing.T) {
	r := gin.New()
	r.Use(Metrics())
	r.GET("/songs/:id", func(c *gin.Context) { c.Status(http.StatusNoContent) })

	before := requestCount(t, "/songs/:id", http.MethodGet, "204")
	serve(r, httptest.NewRequest(http.MethodGet, "/songs/1", nil))
	serve(r, httptest.NewRequest(http.MethodGet, "/songs/2", nil))
	after := requestCount(t, "/songs/:id", http.MethodGet, "204")

	if after-before != 2 {
		t.Errorf("expected 2 requests on the route pattern, got %v", after-before)
	}
}

func TestMetricsUnmatchedRoute(t *testing.T) {
	r := gin.New()
	r.Use(Metrics())

	before := requestCount(t, unmatchedRoute, http.MethodGet, "404")
	serve(r, httptest.NewRequest(http.MethodGet, "/nope/1", nil))
	serve(r, httptest.NewRequest(http.MethodGet, "/nope/2", nil))
	after := requestCount(t, unmatchedRoute, http.MethodGet, "404")

	if after-before != 2 {
		t.Errorf("expected unknown paths to share one series, got %v", after-before)
	}
}
