package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap/zaptest"
)

func TestNormalizePath(t *testing.T) {
	tests := map[string]string{
		"/health":                         "/health",
		"/api/files/":                     "/api/files/",
		"/api/files/upload":               "/api/files/upload",
		"/api/files/images":               "/api/files/images",
		"/api/files/images/a/b/photo.png": "/api/files/images/{name}",
		"/api/files/0b6f7c1e-8a57-4c2c-9a7e-2f3f4b0c9d11": "/api/files/{id}",
		"/api/files/not-an-id":                            "/api/files/{other}",
	}
	for in, want := range tests {
		assert.Equal(t, want, NormalizePath(in), in)
	}
}

func TestLoggerAndMetricsKeepStatus(t *testing.T) {
	h := Logger(zaptest.NewLogger(t))(Metrics(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	})))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/files/x", nil))
	assert.Equal(t, http.StatusTeapot, rec.Code)
}
