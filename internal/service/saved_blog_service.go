package service

import (
	"context"
	"errors"

	"github.com/sandeepkv93/go-blog-platform/internal/domain"
	"github.com/sandeepkv93/go-blog-platform/internal/repository"
)

var (
	ErrAlreadySaved = errors.New("blog already saved")
	ErrNotSaved     = errors.New("blog not saved")
)

type SavedBlogService struct {
	saves repository.SavedBlogRepository
	blogs repository.BlogRepository
}

func NewSavedBlogService(saves repository.SavedBlogRepository, blogs repository.BlogRepository) *SavedBlogService {
	return &SavedBlogService{saves: saves, blogs: blogs}
}

func (s *SavedBlogService) Save(ctx context.Context, userID, blogID uint) error {
	if _, err := s.blogs.FindByID(ctx, blogID); err != nil {
		return err
	}
	err := s.saves.Create(ctx, &domain.SavedBlog{UserID: userID, BlogID: blogID})
	if errors.Is(err, repository.ErrDuplicateSave) {
		return ErrAlreadySaved
	}
	return err
}

func (s *SavedBlogService) Unsave(ctx context.Context, userID, blogID uint) error {
	if _, err := s.blogs.FindByID(ctx, blogID); err != nil {
		return err
	}
	err := s.saves.Delete(ctx, userID, blogID)
	if errors.Is(err, repository.ErrSavedBlogNotFound) {
		return ErrNotSaved
	}
	return err
}

func (s *SavedBlogService) ListSaved(ctx context.Context, userID uint) ([]domain.SavedBlog, error) {
	return s.saves.ListByUser(ctx, userID)
}

func (s *SavedBlogService) IsSaved(ctx context.Context, userID, blogID uint) (bool, error) {
	_, err := s.saves.Find(ctx, userID, blogID)
	if errors.Is(err, repository.ErrSavedBlogNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}
