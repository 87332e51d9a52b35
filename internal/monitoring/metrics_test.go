package monitoring

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
)

func metricsRouter(m *Metrics) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(m.Middleware())
	r.GET("/api/v1/tasks/:id", func(c *gin.Context) {
		c.Status(http.StatusOK)
	})
	r.GET("/metrics", m.Handler())
	return r
}

func scrape(r *gin.Engine) string {
	req, _ := http.NewRequest("GET", "/metrics", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w.Body.String()
}

func TestMetrics_RecordsRequestByRoutePattern(t *testing.T) {
	m := NewMetrics()
	r := metricsRouter(m)

	req, _ := http.NewRequest("GET", "/api/v1/tasks/123", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}

	body := scrape(r)
	if !strings.Contains(body, `route="/api/v1/tasks/:id"`) {
		t.Error("expected requests recorded under the route pattern, not the raw path")
	}
	if strings.Contains(body, `route="/api/v1/tasks/123"`) {
		t.Error("raw path leaked into route label")
	}
	if !strings.Contains(body, "http_request_duration_seconds") {
		t.Error("expected latency histogram in scrape output")
	}
}

func TestMetrics_UnmatchedRouteLabel(t *testing.T) {
	m := NewMetrics()
	r := metricsRouter(m)

	req, _ := http.NewRequest("GET", "/nope", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	body := scrape(r)
	if !strings.Contains(body, `route="unmatched"`) {
		t.Error("expected unmatched requests under the unmatched label")
	}
}

func TestMetrics_IndependentRegistries(t *testing.T) {
	// Two instances must not collide on registration.
	_ = NewMetrics()
	defer func() {
		if r := recover(); r != nil {
			t.Fatalf("second registry construction panicked: %v", r)
		}
	}()
	_ = NewMetrics()
}
