package server

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func request(t *testing.T, h http.Handler, method, target string, header ...string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, target, http.NoBody)
	for i := 0; i+1 < len(header); i += 2 {
		req.Header.Set(header[i], header[i+1])
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestSecurityHeaders_OnEveryRoute(t *testing.T) {
	h := newTestServer(t).Handler()

	for _, target := range []string{
		"/population?counters=3,4,3,1,2&days=18",
		"/population?counters=3,9&days=18",
		"/fish/3/18",
		"/health",
		"/nowhere",
	} {
		t.Run(target, func(t *testing.T) {
			rec := get(t, h, target)
			assert.Equal(t, "nosniff", rec.Header().Get("X-Content-Type-Options"))
			assert.Equal(t, "DENY", rec.Header().Get("X-Frame-Options"))
			assert.Equal(t, "strict-origin-when-cross-origin", rec.Header().Get("Referrer-Policy"))
			assert.Equal(t, "default-src 'none'; frame-ancestors 'none'", rec.Header().Get("Content-Security-Policy"))
		})
	}
}

func TestPreflight_FishRoute(t *testing.T) {
	h := newTestServer(t).Handler()

	rec := request(t, h, http.MethodOptions, "/fish/3/18",
		"Origin", "http://dashboard.example",
		"Access-Control-Request-Method", http.MethodGet)

	require.Equal(t, http.StatusNoContent, rec.Code)
	assert.Zero(t, rec.Body.Len())
	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
	assert.Equal(t, "GET, OPTIONS", rec.Header().Get("Access-Control-Allow-Methods"))
	assert.Contains(t, rec.Header().Get("Access-Control-Allow-Headers"), RequestIDHeader)
	assert.Equal(t, "86400", rec.Header().Get("Access-Control-Max-Age"))
}

func TestCORS_RestrictedOrigins(t *testing.T) {
	sec := DefaultSecurityConfig()
	sec.AllowedOrigins = []string{"http://dashboard.example"}
	h := newTestServer(t, WithSecurityConfig(sec)).Handler()

	tests := []struct {
		name   string
		origin string
		want   string
	}{
		{"allowed origin is echoed", "http://dashboard.example", "http://dashboard.example"},
		{"other origin gets nothing", "http://elsewhere.example", ""},
		{"no origin gets nothing", "", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var header []string
			if tt.origin != "" {
				header = []string{"Origin", tt.origin}
			}
			rec := get(t, h, "/population?counters=3&days=18", header...)
			require.Equal(t, http.StatusOK, rec.Code)
			assert.Equal(t, tt.want, rec.Header().Get("Access-Control-Allow-Origin"))
			if tt.want != "" {
				assert.Contains(t, rec.Header().Values("Vary"), "Origin")
			}
		})
	}
}

func TestCORS_Disabled(t *testing.T) {
	sec := DefaultSecurityConfig()
	sec.EnableCORS = false
	h := newTestServer(t, WithSecurityConfig(sec)).Handler()

	rec := get(t, h, "/health", "Origin", "http://dashboard.example")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, rec.Header().Get("Access-Control-Allow-Origin"))
	assert.Equal(t, "nosniff", rec.Header().Get("X-Content-Type-Options"))
}

func TestDefaultSecurityConfig_MatchesCLILimits(t *testing.T) {
	sec := DefaultSecurityConfig()
	assert.True(t, sec.EnableCORS)
	assert.Equal(t, []string{"*"}, sec.AllowedOrigins)
	assert.ElementsMatch(t, []string{http.MethodGet, http.MethodOptions}, sec.AllowedMethods)
	assert.Equal(t, 4096, sec.MaxDays)
}
