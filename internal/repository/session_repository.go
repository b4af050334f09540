package repository

import (
	"context"
	"errors"

	"github.com/sandeepkv93/go-blog-platform/internal/domain"
	"github.com/sandeepkv93/go-blog-platform/internal/observability"

	"gorm.io/gorm"
)

var (
	ErrSessionNotFound       = errors.New("session not found")
	ErrDuplicateRefreshToken = errors.New("refresh token already bound to a session")
)

// SessionRepository is the persistence contract for session rows. Invalidation
// is a logical tombstone (is_valid flips to false once and never back); rows
// are kept for audit history.
type SessionRepository interface {
	Create(ctx context.Context, s *domain.Session) error
	FindByRefreshToken(ctx context.Context, token string) (*domain.Session, error)
	ListActiveByUser(ctx context.Context, userID uint) ([]domain.Session, error)
	Invalidate(ctx context.Context, sessionID string) error
	InvalidateAllForUser(ctx context.Context, userID uint, exceptSessionID string) (int64, error)
}

type GormSessionRepository struct{ db *gorm.DB }

func NewSessionRepository(db *gorm.DB) SessionRepository { return &GormSessionRepository{db: db} }

func (r *GormSessionRepository) Create(ctx context.Context, s *domain.Session) error {
	s.IsValid = true
	err := r.db.WithContext(ctx).Create(s).Error
	if err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			observability.RecordRepositoryOperation(ctx, "session", "create", "conflict")
			return ErrDuplicateRefreshToken
		}
		observability.RecordRepositoryOperation(ctx, "session", "create", "error")
		return err
	}
	observability.RecordRepositoryOperation(ctx, "session", "create", "success")
	return nil
}

func (r *GormSessionRepository) FindByRefreshToken(ctx context.Context, token string) (*domain.Session, error) {
	var s domain.Session
	err := r.db.WithContext(ctx).Where("refresh_token = ?", token).First(&s).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			observability.RecordRepositoryOperation(ctx, "session", "find_by_refresh_token", "not_found")
			return nil, ErrSessionNotFound
		}
		observability.RecordRepositoryOperation(ctx, "session", "find_by_refresh_token", "error")
		return nil, err
	}
	observability.RecordRepositoryOperation(ctx, "session", "find_by_refresh_token", "success")
	return &s, nil
}

func (r *GormSessionRepository) ListActiveByUser(ctx context.Context, userID uint) ([]domain.Session, error) {
	var sessions []domain.Session
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND is_valid = ?", userID, true).
		Order("created_at DESC").
		Find(&sessions).Error
	if err != nil {
		observability.RecordRepositoryOperation(ctx, "session", "list_active_by_user", "error")
		return nil, err
	}
	observability.RecordRepositoryOperation(ctx, "session", "list_active_by_user", "success")
	return sessions, nil
}

// Invalidate flips is_valid to false. Invalidating an already-invalid session
// is not an error.
func (r *GormSessionRepository) Invalidate(ctx context.Context, sessionID string) error {
	err := r.db.WithContext(ctx).Model(&domain.Session{}).
		Where("id = ?", sessionID).
		Update("is_valid", false).Error
	if err != nil {
		observability.RecordRepositoryOperation(ctx, "session", "invalidate", "error")
		return err
	}
	observability.RecordRepositoryOperation(ctx, "session", "invalidate", "success")
	return nil
}

func (r *GormSessionRepository) InvalidateAllForUser(ctx context.Context, userID uint, exceptSessionID string) (int64, error) {
	q := r.db.WithContext(ctx).Model(&domain.Session{}).
		Where("user_id = ? AND is_valid = ?", userID, true)
	if exceptSessionID != "" {
		q = q.Where("id <> ?", exceptSessionID)
	}
	res := q.Update("is_valid", false)
	if res.Error != nil {
		observability.RecordRepositoryOperation(ctx, "session", "invalidate_all_for_user", "error")
		return 0, res.Error
	}
	observability.RecordRepositoryOperation(ctx, "session", "invalidate_all_for_user", "success")
	return res.RowsAffected, nil
}
