package repository

import (
	"context"
	"errors"

	"github.com/sandeepkv93/go-blog-platform/internal/domain"
	"github.com/sandeepkv93/go-blog-platform/internal/observability"

	"gorm.io/gorm"
)

var (
	ErrSavedBlogNotFound = errors.New("saved blog not found")
	ErrDuplicateSave     = errors.New("blog already saved")
)

type SavedBlogRepository interface {
	Create(ctx context.Context, saved *domain.SavedBlog) error
	Find(ctx context.Context, userID, blogID uint) (*domain.SavedBlog, error)
	Delete(ctx context.Context, userID, blogID uint) error
	ListByUser(ctx context.Context, userID uint) ([]domain.SavedBlog, error)
}

type GormSavedBlogRepository struct{ db *gorm.DB }

func NewSavedBlogRepository(db *gorm.DB) SavedBlogRepository {
	return &GormSavedBlogRepository{db: db}
}

func (r *GormSavedBlogRepository) Create(ctx context.Context, saved *domain.SavedBlog) error {
	err := r.db.WithContext(ctx).Create(saved).Error
	if err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			observability.RecordRepositoryOperation(ctx, "saved_blog", "create", "conflict")
			return ErrDuplicateSave
		}
		observability.RecordRepositoryOperation(ctx, "saved_blog", "create", "error")
		return err
	}
	observability.RecordRepositoryOperation(ctx, "saved_blog", "create", "success")
	return nil
}

func (r *GormSavedBlogRepository) Find(ctx context.Context, userID, blogID uint) (*domain.SavedBlog, error) {
	var s domain.SavedBlog
	err := r.db.WithContext(ctx).Where("user_id = ? AND blog_id = ?", userID, blogID).First(&s).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			observability.RecordRepositoryOperation(ctx, "saved_blog", "find", "not_found")
			return nil, ErrSavedBlogNotFound
		}
		observability.RecordRepositoryOperation(ctx, "saved_blog", "find", "error")
		return nil, err
	}
	observability.RecordRepositoryOperation(ctx, "saved_blog", "find", "success")
	return &s, nil
}

func (r *GormSavedBlogRepository) Delete(ctx context.Context, userID, blogID uint) error {
	res := r.db.WithContext(ctx).
		Where("user_id = ? AND blog_id = ?", userID, blogID).
		Delete(&domain.SavedBlog{})
	if res.Error != nil {
		observability.RecordRepositoryOperation(ctx, "saved_blog", "delete", "error")
		return res.Error
	}
	if res.RowsAffected == 0 {
		observability.RecordRepositoryOperation(ctx, "saved_blog", "delete", "not_found")
		return ErrSavedBlogNotFound
	}
	observability.RecordRepositoryOperation(ctx, "saved_blog", "delete", "success")
	return nil
}

func (r *GormSavedBlogRepository) ListByUser(ctx context.Context, userID uint) ([]domain.SavedBlog, error) {
	var saves []domain.SavedBlog
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Preload("Blog").Preload("Blog.Author").
		Order("created_at DESC").
		Find(&saves).Error
	if err != nil {
		observability.RecordRepositoryOperation(ctx, "saved_blog", "list_by_user", "error")
		return nil, err
	}
	observability.RecordRepositoryOperation(ctx, "saved_blog", "list_by_user", "success")
	return saves, nil
}
