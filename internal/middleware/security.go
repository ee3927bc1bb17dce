// File: internal/middleware/security.go
package middleware

import (
	"net/http"
	"strings"

	"quantlearn/internal/config"

	"go.uber.org/zap"
)

// ===============================
// SECURITY HEADERS
// ===============================

// EnhancedSecurity sets the standard security headers on every response.
// HSTS is only emitted in production since local development runs plain HTTP.
func EnhancedSecurity(cfg *config.SecurityConfig, isProduction bool) func(http.Handler) http.Handler {
	frameOptions := cfg.FrameOptions
	if frameOptions == "" {
		frameOptions = "DENY"
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			h := w.Header()
			h.Set("X-Content-Type-Options", "nosniff")
			h.Set("X-Frame-Options", frameOptions)
			h.Set("X-XSS-Protection", "1; mode=block")
			h.Set("Referrer-Policy", "strict-origin-when-cross-origin")
			h.Set("Content-Security-Policy", "default-src 'self'; frame-ancestors 'none'")

			if isProduction {
				h.Set("Strict-Transport-Security", "max-age=31536000; includeSubDomains")
			}

			next.ServeHTTP(w, r)
		})
	}
}

// ===============================
// CORS
// ===============================

// EnhancedCORS validates the Origin header against the configured allow
// list and answers preflight requests. A wildcard entry allows any origin.
func EnhancedCORS(cfg *config.SecurityConfig, logger *zap.Logger) func(http.Handler) http.Handler {
	allowedMethods := strings.Join(cfg.CORSAllowedMethods, ", ")
	allowedHeaders := strings.Join(cfg.CORSAllowedHeaders, ", ")

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			origin := r.Header.Get("Origin")
			if origin != "" {
				if allowed, echo := matchOrigin(cfg.CORSAllowedOrigins, origin); allowed {
					w.Header().Set("Access-Control-Allow-Origin", echo)
					w.Header().Set("Vary", "Origin")
					w.Header().Set("Access-Control-Expose-Headers", "X-Request-ID, X-Correlation-ID")
				} else {
					logger.Warn("CORS origin rejected",
						zap.String("origin", origin),
						zap.String("path", r.URL.Path),
					)
				}
			}

			if r.Method == http.MethodOptions {
				w.Header().Set("Access-Control-Allow-Methods", allowedMethods)
				w.Header().Set("Access-Control-Allow-Headers", allowedHeaders)
				w.Header().Set("Access-Control-Max-Age", "600")
				w.WriteHeader(http.StatusNoContent)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// matchOrigin reports whether origin is allowed and which value to echo back.
func matchOrigin(allowed []string, origin string) (bool, string) {
	for _, entry := range allowed {
		if entry == "*" {
			return true, "*"
		}
		if strings.EqualFold(entry, origin) {
			return true, origin
		}
	}
	return false, ""
}
