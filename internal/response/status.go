// File: internal/response/status.go
package response

import (
	"net/http"
	"strings"
	"time"
)

// StatusCodeMap maps error types to HTTP status codes
var StatusCodeMap = map[string]int{
	"VALIDATION_ERROR":    http.StatusBadRequest,
	"UNAUTHORIZED":        http.StatusUnauthorized,
	"FORBIDDEN":           http.StatusForbidden,
	"NOT_FOUND":           http.StatusNotFound,
	"CONFLICT":            http.StatusConflict,
	"BUSINESS_ERROR":      http.StatusUnprocessableEntity,
	"RATE_LIMIT":          http.StatusTooManyRequests,
	"INTERNAL_ERROR":      http.StatusInternalServerError,
	"SERVICE_UNAVAILABLE": http.StatusServiceUnavailable,
}

// GetStatusCodeFromErrorType returns the HTTP status code for an error type
func GetStatusCodeFromErrorType(errorType string) int {
	if code, exists := StatusCodeMap[errorType]; exists {
		return code
	}
	return http.StatusInternalServerError
}

// IsSuccessStatus checks if status code indicates success (2xx)
func IsSuccessStatus(code int) bool {
	return code >= 200 && code < 300
}

// ===============================
// STATUS RESPONSE WRITERS
// ===============================

// StatusResponse represents a response with just status information
type StatusResponse struct {
	Status    int    `json:"status"`
	Message   string `json:"message"`
	Success   bool   `json:"success"`
	RequestID string `json:"request_id,omitempty"`
}

// WriteStatusResponse writes a status-only response
func (b *Builder) WriteStatusResponse(w http.ResponseWriter, r *http.Request, code int, message string) {
	if message == "" {
		message = http.StatusText(code)
	}

	apiResp := &APIResponse{
		Success: IsSuccessStatus(code),
		Data: &StatusResponse{
			Status:  code,
			Message: message,
			Success: IsSuccessStatus(code),
		},
		RequestID: b.getRequestID(r.Context()),
		Timestamp: time.Now().Unix(),
	}
	b.WriteJSON(w, r, apiResp, code)
}

// WriteUnauthorized writes an unauthorized response (401)
func (b *Builder) WriteUnauthorized(w http.ResponseWriter, r *http.Request, message string) {
	if message == "" {
		message = "Authentication required"
	}
	w.Header().Set("WWW-Authenticate", "Bearer")
	b.WriteStatusResponse(w, r, http.StatusUnauthorized, message)
}

// WriteForbidden writes a forbidden response (403)
func (b *Builder) WriteForbidden(w http.ResponseWriter, r *http.Request, message string) {
	if message == "" {
		message = "Access forbidden"
	}
	b.WriteStatusResponse(w, r, http.StatusForbidden, message)
}

// WriteNotFound writes a not found response (404)
func (b *Builder) WriteNotFound(w http.ResponseWriter, r *http.Request, message string) {
	if message == "" {
		message = "Resource not found"
	}
	b.WriteStatusResponse(w, r, http.StatusNotFound, message)
}

// WriteMethodNotAllowed writes a method not allowed response (405)
func (b *Builder) WriteMethodNotAllowed(w http.ResponseWriter, r *http.Request, allowedMethods []string) {
	if len(allowedMethods) > 0 {
		w.Header().Set("Allow", strings.Join(allowedMethods, ", "))
	}
	b.WriteStatusResponse(w, r, http.StatusMethodNotAllowed, "Method not allowed")
}

// WriteTooManyRequests writes a rate limit response (429)
func (b *Builder) WriteTooManyRequests(w http.ResponseWriter, r *http.Request, retryAfter string) {
	if retryAfter != "" {
		w.Header().Set("Retry-After", retryAfter)
	}
	b.WriteStatusResponse(w, r, http.StatusTooManyRequests, "Rate limit exceeded")
}

// ===============================
// HEALTH CHECK RESPONSES
// ===============================

// HealthStatus represents system health status
type HealthStatus struct {
	Status      string                 `json:"status"`
	Timestamp   int64                  `json:"timestamp"`
	Version     string                 `json:"version,omitempty"`
	Environment string                 `json:"environment,omitempty"`
	Uptime      float64                `json:"uptime_seconds,omitempty"`
	Services    map[string]interface{} `json:"services,omitempty"`
}

// WriteHealthCheck writes a health check response. Anything other than
// healthy maps to 503 so load balancers pull the node.
func (b *Builder) WriteHealthCheck(w http.ResponseWriter, r *http.Request, health *HealthStatus) {
	code := http.StatusOK
	if health.Status != "healthy" {
		code = http.StatusServiceUnavailable
	}

	response := b.Success(r.Context(), health)
	b.WriteJSON(w, r, response, code)
}
