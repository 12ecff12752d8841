package service

import (
	"context"
	"errors"

	"lineup/internal/models"
	"lineup/internal/repository"

	"gorm.io/gorm"
)

// PostService provides post business logic.
type PostService struct {
	postRepo  repository.PostRepository
	mediaRepo repository.MediaRepository
}

// CreatePostInput is the input for creating a post.
type CreatePostInput struct {
	AuthorID string
	Title    string
	Content  string
	MediaID  *string
}

// NewPostService returns a new PostService.
func NewPostService(postRepo repository.PostRepository, mediaRepo repository.MediaRepository) *PostService {
	return &PostService{postRepo: postRepo, mediaRepo: mediaRepo}
}

// CreatePost creates a post after checking any attached media exists.
func (s *PostService) CreatePost(ctx context.Context, in CreatePostInput) (*models.Post, error) {
	if in.MediaID != nil {
		if _, err := s.mediaRepo.GetByID(ctx, *in.MediaID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, models.NewNotFoundError("Media not found")
			}
			return nil, err
		}
	}

	post := &models.Post{
		AuthorID: in.AuthorID,
		Title:    in.Title,
		Content:  in.Content,
		MediaID:  in.MediaID,
	}
	if err := s.postRepo.Create(ctx, post); err != nil {
		return nil, err
	}
	return post, nil
}

// GetPost returns the post by ID.
func (s *PostService) GetPost(ctx context.Context, id string) (*models.Post, error) {
	post, err := s.postRepo.GetByID(ctx, id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, models.NewNotFoundError("Post not found")
	}
	return post, err
}

// ListPosts returns a page of posts, newest first.
func (s *PostService) ListPosts(ctx context.Context, limit, offset int) ([]*models.Post, error) {
	return s.postRepo.List(ctx, limit, offset)
}

// DeletePost removes a post. Only the author may delete it.
func (s *PostService) DeletePost(ctx context.Context, postID, requesterID string) error {
	post, err := s.postRepo.GetByID(ctx, postID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return models.NewNotFoundError("Post not found")
	}
	if err != nil {
		return err
	}
	if post.AuthorID != requesterID {
		return models.NewForbiddenError("Only the author can delete this post")
	}
	return s.postRepo.Delete(ctx, postID)
}
