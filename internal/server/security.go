package server

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/agbru/lanterncalc/internal/config"
)

// SecurityConfig holds the HTTP hardening settings and request limits.
type SecurityConfig struct {
	// EnableCORS adds CORS headers for allowed origins.
	EnableCORS bool
	// AllowedOrigins lists the accepted origins; "*" accepts any.
	AllowedOrigins []string
	// AllowedMethods is sent in Access-Control-Allow-Methods.
	AllowedMethods []string
	// MaxDays is the largest day count a request may ask for.
	MaxDays int
	// MaxPopulation is the largest number of counters a request may carry.
	MaxPopulation int
}

// DefaultSecurityConfig returns a permissive CORS setup for a read-only API
// together with the default request limits.
func DefaultSecurityConfig() SecurityConfig {
	return SecurityConfig{
		EnableCORS:     true,
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "OPTIONS"},
		MaxDays:        config.MaxDays,
		MaxPopulation:  100_000,
	}
}

// SecurityMiddleware sets the security headers on every response, handles
// CORS and answers preflight requests with 204 without calling next.
func SecurityMiddleware(config SecurityConfig, next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		h := w.Header()
		h.Set("X-Content-Type-Options", "nosniff")
		h.Set("X-Frame-Options", "DENY")
		h.Set("X-XSS-Protection", "1; mode=block")
		h.Set("Referrer-Policy", "strict-origin-when-cross-origin")
		h.Set("Content-Security-Policy", "default-src 'none'; frame-ancestors 'none'")

		if config.EnableCORS {
			if origin, ok := allowedOrigin(config.AllowedOrigins, r.Header.Get("Origin")); ok {
				h.Set("Access-Control-Allow-Origin", origin)
				h.Set("Access-Control-Allow-Methods", strings.Join(config.AllowedMethods, ", "))
				h.Set("Access-Control-Allow-Headers", "Content-Type, X-Request-ID")
				h.Set("Access-Control-Max-Age", strconv.Itoa(86400))
				if origin != "*" {
					h.Add("Vary", "Origin")
				}
			}
		}

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next(w, r)
	}
}

// allowedOrigin returns the value for Access-Control-Allow-Origin, if any.
func allowedOrigin(allowed []string, origin string) (string, bool) {
	for _, a := range allowed {
		if a == "*" {
			return "*", true
		}
		if origin != "" && a == origin {
			return origin, true
		}
	}
	return "", false
}
