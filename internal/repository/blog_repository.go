package repository

import (
	"context"
	"errors"

	"github.com/sandeepkv93/go-blog-platform/internal/domain"
	"github.com/sandeepkv93/go-blog-platform/internal/observability"

	"gorm.io/gorm"
)

var ErrBlogNotFound = errors.New("blog not found")

type BlogRepository interface {
	Create(ctx context.Context, blog *domain.Blog) error
	FindByID(ctx context.Context, id uint) (*domain.Blog, error)
	List(ctx context.Context) ([]domain.Blog, error)
	ListByAuthor(ctx context.Context, authorID uint, limit int) ([]domain.Blog, error)
	Update(ctx context.Context, blog *domain.Blog) error
	Delete(ctx context.Context, id uint) error
}

type GormBlogRepository struct{ db *gorm.DB }

func NewBlogRepository(db *gorm.DB) BlogRepository { return &GormBlogRepository{db: db} }

func (r *GormBlogRepository) Create(ctx context.Context, blog *domain.Blog) error {
	err := r.db.WithContext(ctx).Create(blog).Error
	if err != nil {
		observability.RecordRepositoryOperation(ctx, "blog", "create", "error")
		return err
	}
	observability.RecordRepositoryOperation(ctx, "blog", "create", "success")
	return nil
}

func (r *GormBlogRepository) FindByID(ctx context.Context, id uint) (*domain.Blog, error) {
	var b domain.Blog
	err := r.db.WithContext(ctx).Preload("Author").First(&b, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			observability.RecordRepositoryOperation(ctx, "blog", "find_by_id", "not_found")
			return nil, ErrBlogNotFound
		}
		observability.RecordRepositoryOperation(ctx, "blog", "find_by_id", "error")
		return nil, err
	}
	observability.RecordRepositoryOperation(ctx, "blog", "find_by_id", "success")
	return &b, nil
}

func (r *GormBlogRepository) List(ctx context.Context) ([]domain.Blog, error) {
	var blogs []domain.Blog
	err := r.db.WithContext(ctx).Preload("Author").Order("created_at DESC").Find(&blogs).Error
	if err != nil {
		observability.RecordRepositoryOperation(ctx, "blog", "list", "error")
		return nil, err
	}
	observability.RecordRepositoryOperation(ctx, "blog", "list", "success")
	return blogs, nil
}

func (r *GormBlogRepository) ListByAuthor(ctx context.Context, authorID uint, limit int) ([]domain.Blog, error) {
	var blogs []domain.Blog
	q := r.db.WithContext(ctx).Where("author_id = ?", authorID).Order("created_at DESC")
	if limit > 0 {
		q = q.Limit(limit)
	}
	if err := q.Find(&blogs).Error; err != nil {
		observability.RecordRepositoryOperation(ctx, "blog", "list_by_author", "error")
		return nil, err
	}
	observability.RecordRepositoryOperation(ctx, "blog", "list_by_author", "success")
	return blogs, nil
}

func (r *GormBlogRepository) Update(ctx context.Context, blog *domain.Blog) error {
	err := r.db.WithContext(ctx).Save(blog).Error
	if err != nil {
		observability.RecordRepositoryOperation(ctx, "blog", "update", "error")
		return err
	}
	observability.RecordRepositoryOperation(ctx, "blog", "update", "success")
	return nil
}

func (r *GormBlogRepository) Delete(ctx context.Context, id uint) error {
	res := r.db.WithContext(ctx).Delete(&domain.Blog{}, id)
	if res.Error != nil {
		observability.RecordRepositoryOperation(ctx, "blog", "delete", "error")
		return res.Error
	}
	if res.RowsAffected == 0 {
		observability.RecordRepositoryOperation(ctx, "blog", "delete", "not_found")
		return ErrBlogNotFound
	}
	observability.RecordRepositoryOperation(ctx, "blog", "delete", "success")
	return nil
}
