package service

import (
	"context"
	"errors"

	"github.com/sandeepkv93/go-blog-platform/internal/domain"
	"github.com/sandeepkv93/go-blog-platform/internal/repository"
	"github.com/sandeepkv93/go-blog-platform/internal/security"
)

// UserUpdate carries the fields a user may change about themselves. Nil
// pointers mean "leave as is".
type UserUpdate struct {
	Name     *string
	Email    *string
	Password *string
	Avatar   *string
}

type UserService struct {
	users  repository.UserRepository
	hasher *security.PasswordHasher
}

func NewUserService(users repository.UserRepository, hasher *security.PasswordHasher) *UserService {
	return &UserService{users: users, hasher: hasher}
}

func (s *UserService) GetByID(ctx context.Context, id uint) (*domain.User, error) {
	return s.users.FindByID(ctx, id)
}

func (s *UserService) List(ctx context.Context) ([]domain.User, error) {
	return s.users.List(ctx)
}

// Update applies a partial update to the caller's own account. A password
// change rehashes; an email change can collide with another account.
func (s *UserService) Update(ctx context.Context, id uint, upd UserUpdate) (*domain.User, error) {
	user, err := s.users.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if upd.Name != nil {
		user.Name = *upd.Name
	}
	if upd.Email != nil {
		user.Email = *upd.Email
	}
	if upd.Avatar != nil {
		user.Avatar = *upd.Avatar
	}
	if upd.Password != nil {
		hash, err := s.hasher.Hash(*upd.Password)
		if err != nil {
			return nil, err
		}
		user.Password = hash
	}
	if err := s.users.Update(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicateEmail) {
			return nil, ErrEmailTaken
		}
		return nil, err
	}
	return user, nil
}

// Delete removes the account; the user's sessions, blogs, likes and saves go
// with it via database cascades.
func (s *UserService) Delete(ctx context.Context, id uint) error {
	return s.users.Delete(ctx, id)
}
