package service

import (
	"context"
	"errors"

	"github.com/sandeepkv93/go-blog-platform/internal/domain"
	"github.com/sandeepkv93/go-blog-platform/internal/repository"
)

var (
	ErrAlreadyLiked = errors.New("blog already liked")
	ErrNotLiked     = errors.New("blog not liked")
)

type LikeService struct {
	likes repository.LikeRepository
	blogs repository.BlogRepository
}

func NewLikeService(likes repository.LikeRepository, blogs repository.BlogRepository) *LikeService {
	return &LikeService{likes: likes, blogs: blogs}
}

// Like records that the user liked the blog. The blog must exist; liking
// twice is rejected rather than ignored.
func (s *LikeService) Like(ctx context.Context, userID, blogID uint) error {
	if _, err := s.blogs.FindByID(ctx, blogID); err != nil {
		return err
	}
	err := s.likes.Create(ctx, &domain.Like{UserID: userID, BlogID: blogID})
	if errors.Is(err, repository.ErrDuplicateLike) {
		return ErrAlreadyLiked
	}
	return err
}

func (s *LikeService) Unlike(ctx context.Context, userID, blogID uint) error {
	if _, err := s.blogs.FindByID(ctx, blogID); err != nil {
		return err
	}
	err := s.likes.Delete(ctx, userID, blogID)
	if errors.Is(err, repository.ErrLikeNotFound) {
		return ErrNotLiked
	}
	return err
}

func (s *LikeService) ListLiked(ctx context.Context, userID uint) ([]domain.Like, error) {
	return s.likes.ListByUser(ctx, userID)
}

// IsLiked reports the like status without requiring the blog to exist; a
// missing blog simply reads as not liked.
func (s *LikeService) IsLiked(ctx context.Context, userID, blogID uint) (bool, error) {
	_, err := s.likes.Find(ctx, userID, blogID)
	if errors.Is(err, repository.ErrLikeNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}
