package router

import (
	"net/http"
	"time"

	"quantlearn/internal/config"
	"quantlearn/internal/middleware"
	"quantlearn/internal/response"
	"quantlearn/internal/services"
	"quantlearn/internal/utils/appinfo"

	"github.com/gorilla/mux"
	"go.uber.org/zap"
)

// SetupRouter configures all HTTP routes and returns the main handler
func SetupRouter(
	serviceCollection *services.ServiceCollection,
	authMiddleware *middleware.AuthMiddleware,
	responseBuilder *response.Builder,
	cfg *config.Config,
	logger *zap.Logger,
) http.Handler {
	r := mux.NewRouter()

	// Global middleware chain. Order matters: the request ID must exist
	// before anything logs, and the response builder must be in context
	// before any controller runs.
	r.Use(middleware.RequestID(logger))
	r.Use(middleware.EnhancedLogging(logger))
	r.Use(middleware.RecoverPanic(logger))
	r.Use(middleware.EnhancedSecurity(&cfg.Security, cfg.IsProduction()))
	r.Use(middleware.EnhancedCORS(&cfg.Security, logger))
	r.Use(response.Middleware(responseBuilder))

	rateLimiter := middleware.NewRateLimiter(serviceCollection.Cache, nil, logger)
	r.Use(middleware.RateLimit(rateLimiter))

	// ===============================
	// HEALTH ENDPOINTS
	// ===============================

	r.HandleFunc("/health", healthHandler(serviceCollection, responseBuilder, cfg)).Methods(http.MethodGet)
	r.HandleFunc("/healthz", livenessHandler).Methods(http.MethodGet)
	r.HandleFunc("/readyz", readinessHandler(serviceCollection)).Methods(http.MethodGet)

	// ===============================
	// API DOCUMENTATION
	// ===============================

	r.PathPrefix("/swagger/").Handler(
		middleware.SwaggerAuthMiddleware(middleware.SwaggerHandler(middleware.DefaultSwaggerConfig())),
	)

	// API v1 routes
	AddAPIv1Routes(r, serviceCollection, authMiddleware, responseBuilder, logger)

	r.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		responseBuilder.WriteNotFound(w, req, "")
	})
	r.MethodNotAllowedHandler = http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		responseBuilder.WriteMethodNotAllowed(w, req, nil)
	})

	logger.Info("Router setup completed",
		zap.String("api_prefix", "/api/v1"),
		zap.String("environment", cfg.Server.Environment),
	)

	return r
}

// healthHandler reports aggregate health of the database and cache.
func healthHandler(sc *services.ServiceCollection, builder *response.Builder, cfg *config.Config) http.HandlerFunc {
	startTime := time.Now()

	return func(w http.ResponseWriter, r *http.Request) {
		health, err := sc.HealthCheck(r.Context())
		if err != nil {
			builder.WriteError(w, r, err)
			return
		}

		servicesView := make(map[string]interface{}, len(health.Dependencies))
		for name, dep := range health.Dependencies {
			servicesView[name] = dep
		}

		builder.WriteHealthCheck(w, r, &response.HealthStatus{
			Status:      health.Status,
			Timestamp:   health.Timestamp.Unix(),
			Version:     appinfo.GetVersion(),
			Environment: cfg.Server.Environment,
			Uptime:      time.Since(startTime).Seconds(),
			Services:    servicesView,
		})
	}
}

// livenessHandler answers Kubernetes-style liveness probes.
func livenessHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status":"ok"}`))
}

// readinessHandler answers readiness probes by pinging dependencies.
func readinessHandler(sc *services.ServiceCollection) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		health, err := sc.HealthCheck(r.Context())
		if err != nil || health.Status != "healthy" {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusServiceUnavailable)
			w.Write([]byte(`{"status":"not_ready"}`))
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ready"}`))
	}
}
