package service

import (
	"context"

	"github.com/sandeepkv93/go-blog-platform/internal/domain"
	"github.com/sandeepkv93/go-blog-platform/internal/repository"
)

// BlogUpdate carries the mutable blog fields; nil means unchanged.
type BlogUpdate struct {
	Title   *string
	Content *string
}

type BlogService struct {
	blogs repository.BlogRepository
}

func NewBlogService(blogs repository.BlogRepository) *BlogService {
	return &BlogService{blogs: blogs}
}

func (s *BlogService) Create(ctx context.Context, authorID uint, title, content string) (*domain.Blog, error) {
	blog := &domain.Blog{Title: title, Content: content, AuthorID: authorID}
	if err := s.blogs.Create(ctx, blog); err != nil {
		return nil, err
	}
	return s.blogs.FindByID(ctx, blog.ID)
}

func (s *BlogService) Get(ctx context.Context, id uint) (*domain.Blog, error) {
	return s.blogs.FindByID(ctx, id)
}

func (s *BlogService) List(ctx context.Context) ([]domain.Blog, error) {
	return s.blogs.List(ctx)
}

func (s *BlogService) Update(ctx context.Context, id uint, upd BlogUpdate) (*domain.Blog, error) {
	blog, err := s.blogs.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if upd.Title != nil {
		blog.Title = *upd.Title
	}
	if upd.Content != nil {
		blog.Content = *upd.Content
	}
	if err := s.blogs.Update(ctx, blog); err != nil {
		return nil, err
	}
	return blog, nil
}

func (s *BlogService) Delete(ctx context.Context, id uint) error {
	return s.blogs.Delete(ctx, id)
}

// IsAuthor reports whether userID wrote the blog. Missing blogs surface as
// repository.ErrBlogNotFound so callers can distinguish 404 from 403.
func (s *BlogService) IsAuthor(ctx context.Context, blogID, userID uint) (bool, error) {
	blog, err := s.blogs.FindByID(ctx, blogID)
	if err != nil {
		return false, err
	}
	return blog.AuthorID == userID, nil
}
