package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestMetrics_CountersInflightAndPathLabels(t *testing.T) {
	gin.SetMode(gin.TestMode)

	r := gin.New()
	r.Use(Metrics())

	// Matched routes are labeled with the route pattern, not the raw URL.
	r.GET("/pets", func(c *gin.Context) {
		c.String(http.StatusOK, "[]")
	})
	// A bodyless 204 leaves the response size at -1, which the size
	// histogram skips.
	r.PUT("/adoptions/:id/status", func(c *gin.Context) {
		c.Status(http.StatusNoContent)
	})

	// Counters are process-global; diff against the current values so other
	// tests in the package cannot interfere.
	basePets := testutil.ToFloat64(httpReqs.WithLabelValues("GET", "/pets", "200"))
	baseMiss := testutil.ToFloat64(httpReqs.WithLabelValues("GET", "/no-such-route", "404"))

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/pets", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("GET /pets -> %d", w.Code)
	}

	// Unrouted paths fall back to the raw URL path as the label.
	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/no-such-route", nil))
	if w.Code != http.StatusNotFound {
		t.Fatalf("GET /no-such-route -> %d", w.Code)
	}

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPut, "/adoptions/a1/status", nil))
	if w.Code != http.StatusNoContent {
		t.Fatalf("PUT /adoptions/a1/status -> %d", w.Code)
	}

	if got := testutil.ToFloat64(httpReqs.WithLabelValues("GET", "/pets", "200")); got != basePets+1 {
		t.Fatalf("pets counter = %v, want %v", got, basePets+1)
	}
	if got := testutil.ToFloat64(httpReqs.WithLabelValues("GET", "/no-such-route", "404")); got != baseMiss+1 {
		t.Fatalf("fallback counter = %v, want %v", got, baseMiss+1)
	}
	if got := testutil.ToFloat64(httpReqs.WithLabelValues("PUT", "/adoptions/:id/status", "204")); got < 1 {
		t.Fatalf("route-pattern label not used for the status update: %v", got)
	}

	// Nothing is running anymore, so the in-flight gauge must be back to 0.
	if inFlight := testutil.ToFloat64(httpInflight); inFlight != 0 {
		t.Fatalf("httpInflight = %v, want 0", inFlight)
	}
}
