package service

import (
	"context"
	"testing"

	"lineup/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBookmarkService_CreateBookmark(t *testing.T) {
	t.Parallel()

	t.Run("owner comes from the caller identity", func(t *testing.T) {
		t.Parallel()
		postRepo := noopPostRepo()
		postRepo.getByIDFn = func(_ context.Context, id string) (*models.Post, error) {
			return &models.Post{ID: id, AuthorID: bobID}, nil
		}
		bookmarkRepo := noopBookmarkRepo()
		var created *models.Bookmark
		bookmarkRepo.createFn = func(_ context.Context, b *models.Bookmark) error {
			created = b
			return nil
		}
		svc := NewBookmarkService(bookmarkRepo, postRepo)

		bookmark, err := svc.CreateBookmark(context.Background(), aliceID, "post-1")
		require.NoError(t, err)
		require.NotNil(t, created)
		assert.Equal(t, aliceID, created.UserID)
		assert.Equal(t, aliceID, bookmark.UserID)
	})

	t.Run("missing post", func(t *testing.T) {
		t.Parallel()
		svc := NewBookmarkService(noopBookmarkRepo(), noopPostRepo())

		_, err := svc.CreateBookmark(context.Background(), aliceID, "ghost")
		assertAppErrorCode(t, err, "NOT_FOUND")
	})
}

func TestPostService_DeletePost_AuthorOnly(t *testing.T) {
	t.Parallel()

	postRepo := noopPostRepo()
	postRepo.getByIDFn = func(_ context.Context, id string) (*models.Post, error) {
		return &models.Post{ID: id, AuthorID: aliceID}, nil
	}
	svc := NewPostService(postRepo, noopMediaRepo())

	err := svc.DeletePost(context.Background(), "post-1", bobID)
	assertAppErrorCode(t, err, "FORBIDDEN")

	require.NoError(t, svc.DeletePost(context.Background(), "post-1", aliceID))
}
