package service

import (
	"context"
	"errors"

	"lineup/internal/models"
	"lineup/internal/repository"

	"gorm.io/gorm"
)

// BookmarkService provides bookmark business logic. The owner of every
// bookmark operation is the authenticated identity; clients never name an
// owner.
type BookmarkService struct {
	bookmarkRepo repository.BookmarkRepository
	postRepo     repository.PostRepository
}

// NewBookmarkService returns a new BookmarkService.
func NewBookmarkService(bookmarkRepo repository.BookmarkRepository, postRepo repository.PostRepository) *BookmarkService {
	return &BookmarkService{bookmarkRepo: bookmarkRepo, postRepo: postRepo}
}

// CreateBookmark bookmarks the post for the user. Bookmarking twice is a
// no-op.
func (s *BookmarkService) CreateBookmark(ctx context.Context, userID, postID string) (*models.Bookmark, error) {
	if _, err := s.postRepo.GetByID(ctx, postID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("Post not found")
		}
		return nil, err
	}

	bookmark := &models.Bookmark{UserID: userID, PostID: postID}
	if err := s.bookmarkRepo.Create(ctx, bookmark); err != nil {
		return nil, err
	}
	return s.bookmarkRepo.Get(ctx, userID, postID)
}

// DeleteBookmark removes the user's bookmark for the post.
func (s *BookmarkService) DeleteBookmark(ctx context.Context, userID, postID string) error {
	return s.bookmarkRepo.Delete(ctx, userID, postID)
}

// ListBookmarks returns the user's bookmarks, newest first.
func (s *BookmarkService) ListBookmarks(ctx context.Context, userID string, limit, offset int) ([]models.Bookmark, error) {
	return s.bookmarkRepo.ListByUser(ctx, userID, limit, offset)
}
