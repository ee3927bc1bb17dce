// file: internal/middleware/rate_limiter.go
package middleware

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"quantlearn/internal/cache"

	"go.uber.org/zap"
)

// RateLimiterConfig holds rate limiting configuration
type RateLimiterConfig struct {
	Enabled        bool `json:"enabled"`
	HeadersEnabled bool `json:"headers_enabled"`

	// Default limits per fixed window
	DefaultIPLimit   int           `json:"default_ip_limit"`
	DefaultUserLimit int           `json:"default_user_limit"`
	DefaultWindow    time.Duration `json:"default_window"`

	// Endpoint-specific limits keyed by "METHOD path"
	EndpointLimits map[string]*EndpointLimit `json:"endpoint_limits"`
}

// EndpointLimit defines rate limits for a specific endpoint
type EndpointLimit struct {
	Limit  int           `json:"limit"`
	Window time.Duration `json:"window"`
}

// RateLimitResult represents the result of a rate limit check
type RateLimitResult struct {
	Allowed    bool          `json:"allowed"`
	Limit      int           `json:"limit"`
	Remaining  int           `json:"remaining"`
	RetryAfter time.Duration `json:"retry_after"`
	LimitKey   string        `json:"limit_key"`
}

// DefaultRateLimiterConfig returns production-ready rate limiting
// configuration. Credential and tutor endpoints get tighter windows than
// the rest of the API.
func DefaultRateLimiterConfig() *RateLimiterConfig {
	return &RateLimiterConfig{
		Enabled:          true,
		HeadersEnabled:   true,
		DefaultIPLimit:   1000,
		DefaultUserLimit: 5000,
		DefaultWindow:    1 * time.Hour,
		EndpointLimits: map[string]*EndpointLimit{
			"POST /api/v1/auth/login": {
				Limit:  10,
				Window: 15 * time.Minute,
			},
			"POST /api/v1/auth/register": {
				Limit:  5,
				Window: 15 * time.Minute,
			},
			"POST /api/v1/tutor/chat": {
				Limit:  60,
				Window: 1 * time.Hour,
			},
			"POST /api/v1/quiz/submit": {
				Limit:  120,
				Window: 1 * time.Hour,
			},
		},
	}
}

// RateLimiter enforces fixed-window request limits backed by the cache.
type RateLimiter struct {
	cache  cache.Cache
	config *RateLimiterConfig
	logger *zap.Logger
}

// NewRateLimiter creates a new rate limiter
func NewRateLimiter(c cache.Cache, config *RateLimiterConfig, logger *zap.Logger) *RateLimiter {
	if config == nil {
		config = DefaultRateLimiterConfig()
	}
	return &RateLimiter{
		cache:  c,
		config: config,
		logger: logger,
	}
}

// RateLimit creates rate limiting middleware
func RateLimit(limiter *RateLimiter) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !limiter.config.Enabled {
				next.ServeHTTP(w, r)
				return
			}

			result := limiter.check(r)

			if limiter.config.HeadersEnabled {
				w.Header().Set("X-RateLimit-Limit", strconv.Itoa(result.Limit))
				w.Header().Set("X-RateLimit-Remaining", strconv.Itoa(result.Remaining))
			}

			if !result.Allowed {
				GetRequestLogger(r.Context()).Warn("Rate limit exceeded",
					zap.String("limit_key", result.LimitKey),
					zap.Int("limit", result.Limit),
					zap.String("path", r.URL.Path),
				)
				writeRateLimitError(w, result)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// check resolves the tightest applicable limit and counts the request.
// Cache failures fail open so an unavailable Redis never blocks traffic.
func (rl *RateLimiter) check(r *http.Request) *RateLimitResult {
	limit := rl.config.DefaultIPLimit
	window := rl.config.DefaultWindow
	subject := "ip:" + getClientIP(r)

	if userID := GetUserID(r.Context()); userID > 0 {
		limit = rl.config.DefaultUserLimit
		subject = fmt.Sprintf("user:%d", userID)
	}

	endpointKey := r.Method + " " + r.URL.Path
	if ep, ok := rl.config.EndpointLimits[endpointKey]; ok {
		limit = ep.Limit
		window = ep.Window
	}

	windowStart := time.Now().Truncate(window).Unix()
	cacheKey := fmt.Sprintf("ratelimit:%s:%s:%d", endpointKey, subject, windowStart)

	count, err := rl.cache.Increment(r.Context(), cacheKey, 1)
	if err != nil {
		rl.logger.Warn("Rate limit check failed, allowing request",
			zap.Error(err),
			zap.String("limit_key", cacheKey),
		)
		return &RateLimitResult{Allowed: true, Limit: limit, Remaining: limit, LimitKey: cacheKey}
	}

	remaining := limit - int(count)
	if remaining < 0 {
		remaining = 0
	}

	return &RateLimitResult{
		Allowed:    int(count) <= limit,
		Limit:      limit,
		Remaining:  remaining,
		RetryAfter: time.Until(time.Unix(windowStart, 0).Add(window)),
		LimitKey:   cacheKey,
	}
}

// writeRateLimitError writes a 429 response
func writeRateLimitError(w http.ResponseWriter, result *RateLimitResult) {
	retryAfter := int(result.RetryAfter.Seconds())
	if retryAfter < 1 {
		retryAfter = 1
	}

	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Retry-After", strconv.Itoa(retryAfter))
	w.WriteHeader(http.StatusTooManyRequests)

	response, _ := json.Marshal(map[string]interface{}{
		"success": false,
		"error": map[string]interface{}{
			"type":    "RATE_LIMIT",
			"message": "Rate limit exceeded",
		},
		"timestamp": time.Now().Unix(),
	})
	w.Write(response)
}
