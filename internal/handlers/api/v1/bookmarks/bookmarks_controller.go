// ===============================
// FILE: internal/handlers/api/v1/bookmarks/bookmarks_controller.go
// ===============================

package bookmarks

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"quantlearn/internal/middleware"
	"quantlearn/internal/response"
	"quantlearn/internal/services"
	"quantlearn/internal/validation"

	"github.com/gorilla/mux"
	"go.uber.org/zap"
)

// BookmarksController manages per-user bookmarks and notes
type BookmarksController struct {
	serviceCollection *services.ServiceCollection
	logger            *zap.Logger
	responseBuilder   *response.Builder
}

// NewBookmarksController creates a new bookmarks controller
func NewBookmarksController(
	serviceCollection *services.ServiceCollection,
	logger *zap.Logger,
	responseBuilder *response.Builder,
) *BookmarksController {
	return &BookmarksController{
		serviceCollection: serviceCollection,
		logger:            logger,
		responseBuilder:   responseBuilder,
	}
}

// ===============================
// BOOKMARK ENDPOINTS
// ===============================

// CreateBookmark pins a topic - POST /api/v1/bookmarks
func (c *BookmarksController) CreateBookmark(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 15*time.Second)
	defer cancel()

	requestID := middleware.GetRequestID(r.Context())
	userID := middleware.GetUserID(r.Context())
	logger := c.logger.With(
		zap.String("request_id", requestID),
		zap.String("endpoint", "create_bookmark"),
		zap.Int64("user_id", userID),
	)

	var req services.BookmarkRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logger.Warn("Invalid request body", zap.Error(err))
		c.handleServiceError(w, r, services.NewValidationError("Invalid request body", err), "create_bookmark")
		return
	}
	req.UserID = userID

	if err := validation.ValidateStruct(&req); err != nil {
		logger.Warn("Bookmark validation failed", zap.Error(err))
		c.handleServiceError(w, r, services.NewValidationError(err.Error(), err), "create_bookmark")
		return
	}

	bookmark, err := c.serviceCollection.Bookmark.CreateBookmark(ctx, &req)
	if err != nil {
		logger.Warn("Bookmark creation failed", zap.Error(err), zap.String("topic_slug", req.TopicSlug))
		c.handleServiceError(w, r, err, "create_bookmark")
		return
	}

	c.responseBuilder.WriteCreated(w, r, bookmark)
}

// ListBookmarks lists the caller's bookmarks - GET /api/v1/bookmarks
func (c *BookmarksController) ListBookmarks(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 15*time.Second)
	defer cancel()

	requestID := middleware.GetRequestID(r.Context())
	userID := middleware.GetUserID(r.Context())
	logger := c.logger.With(
		zap.String("request_id", requestID),
		zap.String("endpoint", "list_bookmarks"),
		zap.Int64("user_id", userID),
	)

	bookmarks, err := c.serviceCollection.Bookmark.ListBookmarks(ctx, userID)
	if err != nil {
		logger.Warn("Failed to list bookmarks", zap.Error(err))
		c.handleServiceError(w, r, err, "list_bookmarks")
		return
	}

	c.responseBuilder.WriteSuccess(w, r, map[string]interface{}{
		"bookmarks": bookmarks,
		"count":     len(bookmarks),
	})
}

// DeleteBookmark removes a bookmark - DELETE /api/v1/bookmarks/{id}
func (c *BookmarksController) DeleteBookmark(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 15*time.Second)
	defer cancel()

	requestID := middleware.GetRequestID(r.Context())
	userID := middleware.GetUserID(r.Context())
	id := mux.Vars(r)["id"]
	logger := c.logger.With(
		zap.String("request_id", requestID),
		zap.String("endpoint", "delete_bookmark"),
		zap.Int64("user_id", userID),
		zap.String("bookmark_id", id),
	)

	if err := c.serviceCollection.Bookmark.DeleteBookmark(ctx, userID, id); err != nil {
		logger.Warn("Bookmark deletion failed", zap.Error(err))
		c.handleServiceError(w, r, err, "delete_bookmark")
		return
	}

	c.responseBuilder.WriteNoContent(w, r)
}

// ===============================
// NOTE ENDPOINTS
// ===============================

// noteUpdateRequest updates a note's content
type noteUpdateRequest struct {
	Content string `json:"content" validate:"required,max=10000"`
}

// CreateNote attaches a note to a topic - POST /api/v1/notes
func (c *BookmarksController) CreateNote(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 15*time.Second)
	defer cancel()

	requestID := middleware.GetRequestID(r.Context())
	userID := middleware.GetUserID(r.Context())
	logger := c.logger.With(
		zap.String("request_id", requestID),
		zap.String("endpoint", "create_note"),
		zap.Int64("user_id", userID),
	)

	var req services.NoteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logger.Warn("Invalid request body", zap.Error(err))
		c.handleServiceError(w, r, services.NewValidationError("Invalid request body", err), "create_note")
		return
	}
	req.UserID = userID

	if err := validation.ValidateStruct(&req); err != nil {
		logger.Warn("Note validation failed", zap.Error(err))
		c.handleServiceError(w, r, services.NewValidationError(err.Error(), err), "create_note")
		return
	}

	note, err := c.serviceCollection.Bookmark.CreateNote(ctx, &req)
	if err != nil {
		logger.Warn("Note creation failed", zap.Error(err), zap.String("topic_slug", req.TopicSlug))
		c.handleServiceError(w, r, err, "create_note")
		return
	}

	c.responseBuilder.WriteCreated(w, r, note)
}

// ListNotes lists the caller's notes - GET /api/v1/notes
func (c *BookmarksController) ListNotes(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 15*time.Second)
	defer cancel()

	requestID := middleware.GetRequestID(r.Context())
	userID := middleware.GetUserID(r.Context())
	logger := c.logger.With(
		zap.String("request_id", requestID),
		zap.String("endpoint", "list_notes"),
		zap.Int64("user_id", userID),
	)

	notes, err := c.serviceCollection.Bookmark.ListNotes(ctx, userID)
	if err != nil {
		logger.Warn("Failed to list notes", zap.Error(err))
		c.handleServiceError(w, r, err, "list_notes")
		return
	}

	c.responseBuilder.WriteSuccess(w, r, map[string]interface{}{
		"notes": notes,
		"count": len(notes),
	})
}

// UpdateNote rewrites a note's content - PUT /api/v1/notes/{id}
func (c *BookmarksController) UpdateNote(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 15*time.Second)
	defer cancel()

	requestID := middleware.GetRequestID(r.Context())
	userID := middleware.GetUserID(r.Context())
	id := mux.Vars(r)["id"]
	logger := c.logger.With(
		zap.String("request_id", requestID),
		zap.String("endpoint", "update_note"),
		zap.Int64("user_id", userID),
		zap.String("note_id", id),
	)

	var req noteUpdateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logger.Warn("Invalid request body", zap.Error(err))
		c.handleServiceError(w, r, services.NewValidationError("Invalid request body", err), "update_note")
		return
	}

	if err := validation.ValidateStruct(&req); err != nil {
		logger.Warn("Note update validation failed", zap.Error(err))
		c.handleServiceError(w, r, services.NewValidationError(err.Error(), err), "update_note")
		return
	}

	note, err := c.serviceCollection.Bookmark.UpdateNote(ctx, userID, id, req.Content)
	if err != nil {
		logger.Warn("Note update failed", zap.Error(err))
		c.handleServiceError(w, r, err, "update_note")
		return
	}

	c.responseBuilder.WriteSuccess(w, r, note)
}

// DeleteNote removes a note - DELETE /api/v1/notes/{id}
func (c *BookmarksController) DeleteNote(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 15*time.Second)
	defer cancel()

	requestID := middleware.GetRequestID(r.Context())
	userID := middleware.GetUserID(r.Context())
	id := mux.Vars(r)["id"]
	logger := c.logger.With(
		zap.String("request_id", requestID),
		zap.String("endpoint", "delete_note"),
		zap.Int64("user_id", userID),
		zap.String("note_id", id),
	)

	if err := c.serviceCollection.Bookmark.DeleteNote(ctx, userID, id); err != nil {
		logger.Warn("Note deletion failed", zap.Error(err))
		c.handleServiceError(w, r, err, "delete_note")
		return
	}

	c.responseBuilder.WriteNoContent(w, r)
}

// handleServiceError converts service errors to proper HTTP responses
func (c *BookmarksController) handleServiceError(w http.ResponseWriter, r *http.Request, err error, operation string) {
	serviceErr := services.GetServiceError(err)

	c.logger.Debug("Bookmark service error",
		zap.Error(err),
		zap.String("operation", operation),
		zap.String("error_type", serviceErr.Type),
		zap.String("path", r.URL.Path),
	)

	c.responseBuilder.WriteError(w, r, serviceErr)
}
