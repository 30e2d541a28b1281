package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestMetrics_RouteLabelsAndInflight(t *testing.T) {
	gin.SetMode(gin.TestMode)

	r := gin.New()
	r.Use(Metrics())
	r.GET("/blood-requests/:id", func(c *gin.Context) { c.String(http.StatusOK, "hello") })
	r.DELETE("/blood-requests/:id", func(c *gin.Context) { c.Status(http.StatusNoContent) })

	baseGet := testutil.ToFloat64(httpReqs.WithLabelValues("GET", "/blood-requests/:id", "200"))
	baseDel := testutil.ToFloat64(httpReqs.WithLabelValues("DELETE", "/blood-requests/:id", "204"))
	baseMiss := testutil.ToFloat64(httpReqs.WithLabelValues("GET", unmatchedRoute, "404"))

	for _, tc := range []struct {
		method, path string
		code         int
	}{
		{http.MethodGet, "/blood-requests/1", http.StatusOK},
		{http.MethodGet, "/blood-requests/2", http.StatusOK},
		{http.MethodDelete, "/blood-requests/3", http.StatusNoContent},
		{http.MethodGet, "/no/such/route", http.StatusNotFound},
	} {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(tc.method, tc.path, nil))
		if w.Code != tc.code {
			t.Fatalf("%s %s -> %d; want %d", tc.method, tc.path, w.Code, tc.code)
		}
	}

	// Two different IDs share one series.
	if got := testutil.ToFloat64(httpReqs.WithLabelValues("GET", "/blood-requests/:id", "200")); got != baseGet+2 {
		t.Fatalf("GET counter = %v; want %v", got, baseGet+2)
	}
	if got := testutil.ToFloat64(httpReqs.WithLabelValues("DELETE", "/blood-requests/:id", "204")); got != baseDel+1 {
		t.Fatalf("DELETE counter = %v; want %v", got, baseDel+1)
	}
	if got := testutil.ToFloat64(httpReqs.WithLabelValues("GET", unmatchedRoute, "404")); got != baseMiss+1 {
		t.Fatalf("unmatched counter = %v; want %v", got, baseMiss+1)
	}
	if inFlight := testutil.ToFloat64(httpInflight); inFlight != 0 {
		t.Fatalf("httpInflight = %v; want 0", inFlight)
	}
}

func TestMetrics_CountsReplays(t *testing.T) {
	gin.SetMode(gin.TestMode)

	r := gin.New()
	r.Use(Metrics())
	r.Use(func(c *gin.Context) {
		if c.GetHeader("X-Replay") != "" {
			c.Set(ctxKeyIdemReplay, true)
		}
		c.Next()
	})
	r.POST("/blood-requests", func(c *gin.Context) { c.Status(http.StatusCreated) })

	base := testutil.ToFloat64(httpReplays.WithLabelValues("/blood-requests"))

	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodPost, "/blood-requests", nil))
	req := httptest.NewRequest(http.MethodPost, "/blood-requests", nil)
	req.Header.Set("X-Replay", "1")
	r.ServeHTTP(httptest.NewRecorder(), req)

	if got := testutil.ToFloat64(httpReplays.WithLabelValues("/blood-requests")); got != base+1 {
		t.Fatalf("replay counter = %v; want %v", got, base+1)
	}
}
