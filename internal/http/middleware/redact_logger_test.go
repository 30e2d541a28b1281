package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
)

func TestRedactingLogger_MasksPatientDataAndHeaders(t *testing.T) {
	gin.SetMode(gin.TestMode)
	buf := captureLogger(t)

	r := gin.New()
	r.Use(RequestID())
	r.Use(RedactingLogger(RedactOptions{MaskHeaders: []string{"X-Api-Key"}}))
	r.Use(Auth(AuthOptions{Mode: AuthModeDevelopment}))
	r.GET("/recipients/:id", func(c *gin.Context) { c.String(http.StatusOK, "ok") })

	q := "search=John+Smith&contact=nurse@example.com&recipient=123e4567-e89b-12d3-a456-426614174000&page=2"
	req := httptest.NewRequest(http.MethodGet, "/recipients/42?"+q, nil)
	req.Header.Set("Authorization", "Basic c2VjcmV0")
	req.Header.Set("Cookie", "sid=topsecret")
	req.Header.Set("X-Api-Key", "shhh")
	req.Header.Set("X-User-ID", "nurse-7")
	req.Header.Set("X-Custom", "email a@b.com id=123e4567-e89b-12d3-a456-426614174000 phone 555-123-4567")
	req.Header.Set(requestIDHeader, "rid-req")

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}

	logs := buf.String()
	mustContain := []string{
		`"level":"info"`,
		`"path":"/recipients/:id"`,
		`"request_id":"rid-req"`,
		`"user_id":"nurse-7"`,
		`"query":"contact=[REDACTED:email]&page=2&recipient=[REDACTED:id]&search=[REDACTED]"`,
		`"Authorization":"[REDACTED]"`,
		`"Cookie":"[REDACTED]"`,
		`"X-Api-Key":"[REDACTED]"`,
		`"X-Custom":"email [REDACTED:email] id=[REDACTED:id] phone [REDACTED:phone]"`,
	}
	for _, s := range mustContain {
		if !strings.Contains(logs, s) {
			t.Fatalf("expected %s in logs, got: %s", s, logs)
		}
	}
	if strings.Contains(logs, "Smith") || strings.Contains(logs, "topsecret") {
		t.Fatalf("patient data or secrets leaked: %s", logs)
	}
}

func TestRedactingLogger_Levels(t *testing.T) {
	gin.SetMode(gin.TestMode)
	buf := captureLogger(t)

	r := gin.New()
	r.Use(RedactingLogger(RedactOptions{}))
	r.GET("/warn", func(c *gin.Context) { c.Status(http.StatusNotFound) })
	r.GET("/error", func(c *gin.Context) { c.Status(http.StatusInternalServerError) })
	r.GET("/ctxerr", func(c *gin.Context) {
		_ = c.Error(errSentinel{})
		c.Status(http.StatusConflict)
	})

	for _, p := range []string{"/warn", "/error", "/ctxerr"} {
		req := httptest.NewRequest(http.MethodGet, p, nil)
		req.Header.Set(requestIDHeader, "rid"+strings.ReplaceAll(p, "/", "-"))
		r.ServeHTTP(httptest.NewRecorder(), req)
	}

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 3 {
		t.Fatalf("expected 3 log lines, got %d: %s", len(lines), buf.String())
	}
	want := []string{`"level":"warn"`, `"level":"error"`, `"level":"error"`}
	for i, l := range lines {
		if !strings.Contains(l, want[i]) {
			t.Fatalf("line %d: expected %s, got %s", i, want[i], l)
		}
	}
	if !strings.Contains(lines[0], `"request_id":"rid-warn"`) {
		t.Fatalf("expected inbound request id without RequestID middleware: %s", lines[0])
	}
	if !strings.Contains(lines[2], `"errors":"`) {
		t.Fatalf("expected handler errors on the log line: %s", lines[2])
	}
}

func TestRedactQuery(t *testing.T) {
	mask := map[string]struct{}{"search": {}}
	tests := []struct {
		raw  string
		want string
	}{
		{"", ""},
		{"status=pending&page=1", "page=1&status=pending"},
		{"SEARCH=Jane", "SEARCH=[REDACTED]"},
		{"search=a&search=b", "search=[REDACTED]&search=[REDACTED]"},
		{"bad=%zz&phone=555-123-4567", "bad=%zz&phone=[REDACTED:phone]"},
	}
	for _, tt := range tests {
		if got := redactQuery(tt.raw, mask); got != tt.want {
			t.Fatalf("redactQuery(%q) = %q; want %q", tt.raw, got, tt.want)
		}
	}
}

type errSentinel struct{}

func (errSentinel) Error() string { return "boom" }
