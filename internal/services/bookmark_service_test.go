// file: internal/services/bookmark_service_test.go
package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type bookmarkFixture struct {
	service   BookmarkService
	bookmarks *fakeBookmarkRepo
	notes     *fakeNoteRepo
}

func newBookmarkFixture(t *testing.T) *bookmarkFixture {
	t.Helper()
	logger, err := zap.NewDevelopment()
	require.NoError(t, err)

	bookmarks := newFakeBookmarkRepo()
	notes := newFakeNoteRepo()
	catalog := newFakeCatalogRepo("percentages", "ratios")

	return &bookmarkFixture{
		service:   NewBookmarkService(bookmarks, notes, catalog, logger),
		bookmarks: bookmarks,
		notes:     notes,
	}
}

func TestCreateBookmarkDefaultsTitleToTopic(t *testing.T) {
	f := newBookmarkFixture(t)

	bookmark, err := f.service.CreateBookmark(context.Background(), &BookmarkRequest{
		UserID:    1,
		TopicSlug: "percentages",
	})
	require.NoError(t, err)

	assert.NotEmpty(t, bookmark.ID)
	assert.Equal(t, "percentages", bookmark.Title)
}

func TestCreateBookmarkUnknownTopic(t *testing.T) {
	f := newBookmarkFixture(t)

	_, err := f.service.CreateBookmark(context.Background(), &BookmarkRequest{
		UserID:    1,
		TopicSlug: "calculus",
	})
	require.Error(t, err)
	assert.Equal(t, "NOT_FOUND", GetServiceError(err).Type)
}

func TestCreateBookmarkDuplicateTopicConflicts(t *testing.T) {
	f := newBookmarkFixture(t)
	ctx := context.Background()
	req := &BookmarkRequest{UserID: 1, TopicSlug: "percentages"}

	_, err := f.service.CreateBookmark(ctx, req)
	require.NoError(t, err)

	_, err = f.service.CreateBookmark(ctx, req)
	require.Error(t, err)
	assert.Equal(t, "CONFLICT", GetServiceError(err).Type)
}

func TestDeleteBookmarkOwnerScoped(t *testing.T) {
	f := newBookmarkFixture(t)
	ctx := context.Background()

	bookmark, err := f.service.CreateBookmark(ctx, &BookmarkRequest{UserID: 1, TopicSlug: "percentages"})
	require.NoError(t, err)

	// Another user's delete looks like a missing bookmark, not a forbidden one.
	err = f.service.DeleteBookmark(ctx, 2, bookmark.ID)
	require.Error(t, err)
	assert.Equal(t, "NOT_FOUND", GetServiceError(err).Type)

	require.NoError(t, f.service.DeleteBookmark(ctx, 1, bookmark.ID))
}

func TestListBookmarksScopedToUser(t *testing.T) {
	f := newBookmarkFixture(t)
	ctx := context.Background()

	_, err := f.service.CreateBookmark(ctx, &BookmarkRequest{UserID: 1, TopicSlug: "percentages"})
	require.NoError(t, err)
	_, err = f.service.CreateBookmark(ctx, &BookmarkRequest{UserID: 2, TopicSlug: "ratios"})
	require.NoError(t, err)

	mine, err := f.service.ListBookmarks(ctx, 1)
	require.NoError(t, err)
	require.Len(t, mine, 1)
	assert.Equal(t, "percentages", mine[0].TopicSlug)
}

func TestNoteLifecycle(t *testing.T) {
	f := newBookmarkFixture(t)
	ctx := context.Background()

	note, err := f.service.CreateNote(ctx, &NoteRequest{
		UserID:    1,
		TopicSlug: "ratios",
		Content:   "Remember: a:b scales both terms equally.",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, note.ID)

	updated, err := f.service.UpdateNote(ctx, 1, note.ID, "Revised: compare by division, not subtraction.")
	require.NoError(t, err)
	assert.Equal(t, "Revised: compare by division, not subtraction.", updated.Content)

	notes, err := f.service.ListNotes(ctx, 1)
	require.NoError(t, err)
	require.Len(t, notes, 1)

	require.NoError(t, f.service.DeleteNote(ctx, 1, note.ID))

	notes, err = f.service.ListNotes(ctx, 1)
	require.NoError(t, err)
	assert.Empty(t, notes)
}

func TestUpdateNoteValidation(t *testing.T) {
	f := newBookmarkFixture(t)
	ctx := context.Background()

	note, err := f.service.CreateNote(ctx, &NoteRequest{UserID: 1, TopicSlug: "ratios", Content: "draft"})
	require.NoError(t, err)

	_, err = f.service.UpdateNote(ctx, 1, note.ID, "   ")
	require.Error(t, err)
	assert.Equal(t, "VALIDATION_ERROR", GetServiceError(err).Type)

	// Not the owner.
	_, err = f.service.UpdateNote(ctx, 2, note.ID, "hijack")
	require.Error(t, err)
	assert.Equal(t, "NOT_FOUND", GetServiceError(err).Type)
}
