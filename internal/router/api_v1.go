// ===============================
// FILE: internal/router/api_v1.go
// ===============================

package router

import (
	"net/http"

	"quantlearn/internal/handlers/api/v1/admin"
	"quantlearn/internal/handlers/api/v1/auth"
	"quantlearn/internal/handlers/api/v1/bookmarks"
	"quantlearn/internal/handlers/api/v1/gamification"
	"quantlearn/internal/handlers/api/v1/learning"
	"quantlearn/internal/handlers/api/v1/quiz"
	"quantlearn/internal/handlers/api/v1/tutor"

	"quantlearn/internal/middleware"
	"quantlearn/internal/response"
	"quantlearn/internal/services"

	"github.com/gorilla/mux"
	"go.uber.org/zap"
)

// AddAPIv1Routes registers every API v1 endpoint with its auth requirements
func AddAPIv1Routes(
	r *mux.Router,
	serviceCollection *services.ServiceCollection,
	authMiddleware *middleware.AuthMiddleware,
	responseBuilder *response.Builder,
	logger *zap.Logger,
) {
	authController := auth.NewAuthController(serviceCollection, logger, responseBuilder)
	learningController := learning.NewLearningController(serviceCollection, logger, responseBuilder)
	quizController := quiz.NewQuizController(serviceCollection, logger, responseBuilder)
	gamificationController := gamification.NewGamificationController(serviceCollection, logger, responseBuilder)
	bookmarksController := bookmarks.NewBookmarksController(serviceCollection, logger, responseBuilder)
	tutorController := tutor.NewTutorController(serviceCollection, logger, responseBuilder)
	adminController := admin.NewAdminController(serviceCollection, logger, responseBuilder)

	api := r.PathPrefix("/api/v1").Subrouter()

	// ===============================
	// PUBLIC ENDPOINTS (No auth required)
	// ===============================

	public := api.NewRoute().Subrouter()
	public.Use(authMiddleware.OptionalAuth())

	public.HandleFunc("/auth/register", authController.Register).Methods(http.MethodPost)
	public.HandleFunc("/auth/login", authController.Login).Methods(http.MethodPost)

	// Catalog browsing works without an account
	public.HandleFunc("/sections", learningController.GetSections).Methods(http.MethodGet)
	public.HandleFunc("/topics/{slug}", learningController.GetTopic).Methods(http.MethodGet)
	public.HandleFunc("/gamification/badges", gamificationController.GetBadges).Methods(http.MethodGet)
	public.HandleFunc("/leaderboard", gamificationController.GetLeaderboard).Methods(http.MethodGet)

	// ===============================
	// AUTHENTICATED ENDPOINTS
	// ===============================

	authed := api.NewRoute().Subrouter()
	authed.Use(authMiddleware.RequireAuth())

	authed.HandleFunc("/auth/me", authController.Me).Methods(http.MethodGet)

	// Learning progress
	authed.HandleFunc("/topics/{slug}/complete", learningController.CompleteTopic).Methods(http.MethodPost)
	authed.HandleFunc("/progress", learningController.GetProgress).Methods(http.MethodGet)

	// Quizzes
	authed.HandleFunc("/quiz", quizController.GetQuiz).Methods(http.MethodGet)
	authed.HandleFunc("/quiz/submit", quizController.SubmitQuiz).Methods(http.MethodPost)
	authed.HandleFunc("/quiz/history", quizController.GetHistory).Methods(http.MethodGet)

	// Gamification
	authed.HandleFunc("/gamification/stats", gamificationController.GetStats).Methods(http.MethodGet)
	authed.HandleFunc("/gamification/data", gamificationController.GetData).Methods(http.MethodGet)

	// Bookmarks and notes
	authed.HandleFunc("/bookmarks", bookmarksController.CreateBookmark).Methods(http.MethodPost)
	authed.HandleFunc("/bookmarks", bookmarksController.ListBookmarks).Methods(http.MethodGet)
	authed.HandleFunc("/bookmarks/{id}", bookmarksController.DeleteBookmark).Methods(http.MethodDelete)
	authed.HandleFunc("/notes", bookmarksController.CreateNote).Methods(http.MethodPost)
	authed.HandleFunc("/notes", bookmarksController.ListNotes).Methods(http.MethodGet)
	authed.HandleFunc("/notes/{id}", bookmarksController.UpdateNote).Methods(http.MethodPut)
	authed.HandleFunc("/notes/{id}", bookmarksController.DeleteNote).Methods(http.MethodDelete)

	// AI tutor
	authed.HandleFunc("/tutor/chat", tutorController.Chat).Methods(http.MethodPost)
	authed.HandleFunc("/tutor/explain", tutorController.ExplainTopic).Methods(http.MethodPost)

	// ===============================
	// ADMIN ENDPOINTS
	// ===============================

	adminRoutes := api.PathPrefix("/admin").Subrouter()
	adminRoutes.Use(authMiddleware.RequireAuth())
	adminRoutes.Use(authMiddleware.RequireAdmin())

	adminRoutes.HandleFunc("/users", adminController.ListUsers).Methods(http.MethodGet)
	adminRoutes.HandleFunc("/users/{id}/role", adminController.UpdateUserRole).Methods(http.MethodPut)
	adminRoutes.HandleFunc("/users/{id}", adminController.DeleteUser).Methods(http.MethodDelete)
	adminRoutes.HandleFunc("/stats", adminController.GetPlatformStats).Methods(http.MethodGet)
	adminRoutes.HandleFunc("/questions", adminController.CreateQuestion).Methods(http.MethodPost)
	adminRoutes.HandleFunc("/questions/{id}", adminController.UpdateQuestion).Methods(http.MethodPut)
	adminRoutes.HandleFunc("/questions/{id}", adminController.DeleteQuestion).Methods(http.MethodDelete)
	adminRoutes.HandleFunc("/badges/seed", adminController.SeedBadges).Methods(http.MethodPost)

	logger.Info("API v1 routes registered")
}
