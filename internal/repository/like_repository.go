package repository

import (
	"context"
	"errors"

	"github.com/sandeepkv93/go-blog-platform/internal/domain"
	"github.com/sandeepkv93/go-blog-platform/internal/observability"

	"gorm.io/gorm"
)

var (
	ErrLikeNotFound  = errors.New("like not found")
	ErrDuplicateLike = errors.New("blog already liked")
)

type LikeRepository interface {
	Create(ctx context.Context, like *domain.Like) error
	Find(ctx context.Context, userID, blogID uint) (*domain.Like, error)
	Delete(ctx context.Context, userID, blogID uint) error
	ListByUser(ctx context.Context, userID uint) ([]domain.Like, error)
}

type GormLikeRepository struct{ db *gorm.DB }

func NewLikeRepository(db *gorm.DB) LikeRepository { return &GormLikeRepository{db: db} }

func (r *GormLikeRepository) Create(ctx context.Context, like *domain.Like) error {
	err := r.db.WithContext(ctx).Create(like).Error
	if err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			observability.RecordRepositoryOperation(ctx, "like", "create", "conflict")
			return ErrDuplicateLike
		}
		observability.RecordRepositoryOperation(ctx, "like", "create", "error")
		return err
	}
	observability.RecordRepositoryOperation(ctx, "like", "create", "success")
	return nil
}

func (r *GormLikeRepository) Find(ctx context.Context, userID, blogID uint) (*domain.Like, error) {
	var l domain.Like
	err := r.db.WithContext(ctx).Where("user_id = ? AND blog_id = ?", userID, blogID).First(&l).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			observability.RecordRepositoryOperation(ctx, "like", "find", "not_found")
			return nil, ErrLikeNotFound
		}
		observability.RecordRepositoryOperation(ctx, "like", "find", "error")
		return nil, err
	}
	observability.RecordRepositoryOperation(ctx, "like", "find", "success")
	return &l, nil
}

func (r *GormLikeRepository) Delete(ctx context.Context, userID, blogID uint) error {
	res := r.db.WithContext(ctx).
		Where("user_id = ? AND blog_id = ?", userID, blogID).
		Delete(&domain.Like{})
	if res.Error != nil {
		observability.RecordRepositoryOperation(ctx, "like", "delete", "error")
		return res.Error
	}
	if res.RowsAffected == 0 {
		observability.RecordRepositoryOperation(ctx, "like", "delete", "not_found")
		return ErrLikeNotFound
	}
	observability.RecordRepositoryOperation(ctx, "like", "delete", "success")
	return nil
}

func (r *GormLikeRepository) ListByUser(ctx context.Context, userID uint) ([]domain.Like, error) {
	var likes []domain.Like
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Preload("Blog").Preload("Blog.Author").
		Order("created_at DESC").
		Find(&likes).Error
	if err != nil {
		observability.RecordRepositoryOperation(ctx, "like", "list_by_user", "error")
		return nil, err
	}
	observability.RecordRepositoryOperation(ctx, "like", "list_by_user", "success")
	return likes, nil
}
