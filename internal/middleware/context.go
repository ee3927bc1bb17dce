// file: internal/middleware/context.go
package middleware

import (
	"context"
	"net/http"
	"strings"
	"time"

	"quantlearn/internal/contextutils"

	"go.uber.org/zap"
)

// GetRequestID extracts the request ID from context
// Deprecated: Use contextutils.GetRequestID instead
func GetRequestID(ctx context.Context) string {
	return contextutils.GetRequestID(ctx)
}

// GetRequestLogger extracts the request-scoped logger from context
func GetRequestLogger(ctx context.Context) *zap.Logger {
	if logger, ok := ctx.Value(LoggerKey).(*zap.Logger); ok {
		return logger
	}
	// Fallback to basic logger if not found
	logger, _ := zap.NewProduction()
	return logger
}

// GetRequestStart extracts the request start time from context
func GetRequestStart(ctx context.Context) time.Time {
	if start, ok := ctx.Value(RequestStartKey).(time.Time); ok {
		return start
	}
	return time.Now()
}

// WithRequestContext adds request context fields to an existing logger
func WithRequestContext(logger *zap.Logger, ctx context.Context) *zap.Logger {
	requestID := contextutils.GetRequestID(ctx)
	if requestID != "" {
		return logger.With(zap.String("request_id", requestID))
	}
	return logger
}

// generateFallbackID creates a fallback ID when UUID generation fails
func generateFallbackID(start time.Time) string {
	return "req_" + start.Format("20060102150405") + "_" + generateRandomSuffix()
}

// generateRandomSuffix creates a simple random suffix
func generateRandomSuffix() string {
	return "000"
}

// getClientIP extracts the real client IP address
func getClientIP(r *http.Request) string {
	// X-Forwarded-For can be "client, proxy1, proxy2"; take the first hop
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		if idx := strings.Index(xff, ","); idx > 0 {
			return strings.TrimSpace(xff[:idx])
		}
		return strings.TrimSpace(xff)
	}

	// Check X-Real-IP header (nginx proxy)
	if xri := r.Header.Get("X-Real-IP"); xri != "" {
		return xri
	}

	if xf := r.Header.Get("X-Forwarded"); xf != "" {
		return xf
	}

	return r.RemoteAddr
}
