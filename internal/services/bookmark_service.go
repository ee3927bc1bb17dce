// file: internal/services/bookmark_service.go
package services

import (
	"context"
	"strings"

	"quantlearn/internal/models"
	"quantlearn/internal/repositories"

	"github.com/gofrs/uuid"
	"go.uber.org/zap"
)

// bookmarkService implements BookmarkService for both bookmarks and notes.
type bookmarkService struct {
	bookmarks repositories.BookmarkRepository
	notes     repositories.NoteRepository
	catalog   repositories.CatalogRepository
	logger    *zap.Logger
}

// NewBookmarkService creates the bookmark and note service.
func NewBookmarkService(
	bookmarks repositories.BookmarkRepository,
	notes repositories.NoteRepository,
	catalog repositories.CatalogRepository,
	logger *zap.Logger,
) BookmarkService {
	return &bookmarkService{
		bookmarks: bookmarks,
		notes:     notes,
		catalog:   catalog,
		logger:    logger,
	}
}

// ===============================
// BOOKMARKS
// ===============================

// CreateBookmark pins a topic for the user.
func (s *bookmarkService) CreateBookmark(ctx context.Context, req *BookmarkRequest) (*models.Bookmark, error) {
	topic, err := s.requireTopic(ctx, req.TopicSlug)
	if err != nil {
		return nil, err
	}

	title := strings.TrimSpace(req.Title)
	if title == "" {
		title = topic.Title
	}

	id, err := uuid.NewV4()
	if err != nil {
		s.logger.Error("Failed to generate bookmark ID", zap.Error(err))
		return nil, NewInternalError("failed to create bookmark")
	}

	bookmark := &models.Bookmark{
		ID:        id.String(),
		UserID:    req.UserID,
		TopicSlug: req.TopicSlug,
		Title:     title,
	}
	if err := s.bookmarks.Create(ctx, bookmark); err != nil {
		if strings.Contains(err.Error(), "duplicate key") {
			return nil, EntityAlreadyExistsError("bookmark", "topic_slug", req.TopicSlug)
		}
		s.logger.Error("Failed to create bookmark", zap.Error(err), zap.Int64("user_id", req.UserID))
		return nil, NewServiceUnavailableError("bookmark storage unavailable")
	}
	return bookmark, nil
}

// ListBookmarks returns the user's bookmarks, newest first.
func (s *bookmarkService) ListBookmarks(ctx context.Context, userID int64) ([]*models.Bookmark, error) {
	bookmarks, err := s.bookmarks.ListByUser(ctx, userID)
	if err != nil {
		s.logger.Error("Failed to list bookmarks", zap.Error(err), zap.Int64("user_id", userID))
		return nil, NewServiceUnavailableError("bookmark storage unavailable")
	}
	return bookmarks, nil
}

// DeleteBookmark removes a bookmark the user owns. The ownership check lives
// in the delete itself, so another user's bookmark looks like a missing one.
func (s *bookmarkService) DeleteBookmark(ctx context.Context, userID int64, id string) error {
	if err := s.bookmarks.Delete(ctx, id, userID); err != nil {
		return EntityNotFoundError("bookmark", id)
	}
	return nil
}

// ===============================
// NOTES
// ===============================

// CreateNote attaches a note to a topic.
func (s *bookmarkService) CreateNote(ctx context.Context, req *NoteRequest) (*models.Note, error) {
	if _, err := s.requireTopic(ctx, req.TopicSlug); err != nil {
		return nil, err
	}

	id, err := uuid.NewV4()
	if err != nil {
		s.logger.Error("Failed to generate note ID", zap.Error(err))
		return nil, NewInternalError("failed to create note")
	}

	note := &models.Note{
		ID:        id.String(),
		UserID:    req.UserID,
		TopicSlug: req.TopicSlug,
		Content:   req.Content,
	}
	if err := s.notes.Create(ctx, note); err != nil {
		s.logger.Error("Failed to create note", zap.Error(err), zap.Int64("user_id", req.UserID))
		return nil, NewServiceUnavailableError("note storage unavailable")
	}
	return note, nil
}

// ListNotes returns the user's notes, newest first.
func (s *bookmarkService) ListNotes(ctx context.Context, userID int64) ([]*models.Note, error) {
	notes, err := s.notes.ListByUser(ctx, userID)
	if err != nil {
		s.logger.Error("Failed to list notes", zap.Error(err), zap.Int64("user_id", userID))
		return nil, NewServiceUnavailableError("note storage unavailable")
	}
	return notes, nil
}

// UpdateNote replaces a note's content.
func (s *bookmarkService) UpdateNote(ctx context.Context, userID int64, id string, content string) (*models.Note, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, NewValidationError("note content cannot be empty", nil)
	}

	note, err := s.notes.GetByID(ctx, id)
	if err != nil {
		s.logger.Error("Failed to load note", zap.Error(err), zap.String("note_id", id))
		return nil, NewServiceUnavailableError("note storage unavailable")
	}
	if note == nil || note.UserID != userID {
		return nil, EntityNotFoundError("note", id)
	}

	note.Content = content
	if err := s.notes.Update(ctx, note); err != nil {
		s.logger.Error("Failed to update note", zap.Error(err), zap.String("note_id", id))
		return nil, NewServiceUnavailableError("note storage unavailable")
	}
	return note, nil
}

// DeleteNote removes a note the user owns.
func (s *bookmarkService) DeleteNote(ctx context.Context, userID int64, id string) error {
	if err := s.notes.Delete(ctx, id, userID); err != nil {
		return EntityNotFoundError("note", id)
	}
	return nil
}

func (s *bookmarkService) requireTopic(ctx context.Context, slug string) (*models.Topic, error) {
	topic, err := s.catalog.GetTopicBySlug(ctx, slug)
	if err != nil {
		s.logger.Error("Failed to load topic", zap.Error(err), zap.String("topic_slug", slug))
		return nil, NewServiceUnavailableError("catalog unavailable")
	}
	if topic == nil {
		return nil, EntityNotFoundError("topic", slug)
	}
	return topic, nil
}
