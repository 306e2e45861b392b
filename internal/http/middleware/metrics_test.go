package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestMetrics_CountsByRoute(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(Metrics())
	r.GET("/health", func(c *gin.Context) { c.Status(http.StatusOK) })

	before := testutil.ToFloat64(httpReqs.WithLabelValues(http.MethodGet, "/health", "200"))

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))
	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/health", nil))

	after := testutil.ToFloat64(httpReqs.WithLabelValues(http.MethodGet, "/health", "200"))
	if after-before != 2 {
		t.Fatalf("counter delta = %v, want 2", after-before)
	}
}

func TestCountBotMessage(t *testing.T) {
	before := testutil.ToFloat64(botMessages.WithLabelValues("entry"))
	CountBotMessage("entry")
	after := testutil.ToFloat64(botMessages.WithLabelValues("entry"))
	if after-before != 1 {
		t.Fatalf("bot counter delta = %v", after-before)
	}
}
