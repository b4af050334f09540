package service

import (
	"context"

	"github.com/sandeepkv93/go-blog-platform/internal/domain"
	"github.com/sandeepkv93/go-blog-platform/internal/repository"
)

const recentBlogCount = 5

// Profile is the dashboard view of an account: who they are, what they wrote
// recently, and where they are logged in.
type Profile struct {
	User        *domain.User  `json:"user"`
	RecentBlogs []domain.Blog `json:"recent_blogs"`
	Sessions    []SessionView `json:"sessions"`
}

type ProfileService struct {
	users    repository.UserRepository
	blogs    repository.BlogRepository
	sessions *SessionService
}

func NewProfileService(users repository.UserRepository, blogs repository.BlogRepository, sessions *SessionService) *ProfileService {
	return &ProfileService{users: users, blogs: blogs, sessions: sessions}
}

func (s *ProfileService) Get(ctx context.Context, userID uint, currentSessionID string) (*Profile, error) {
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	blogs, err := s.blogs.ListByAuthor(ctx, userID, recentBlogCount)
	if err != nil {
		return nil, err
	}
	sessions, err := s.sessions.ListActiveSessions(ctx, userID, currentSessionID)
	if err != nil {
		return nil, err
	}
	return &Profile{User: user, RecentBlogs: blogs, Sessions: sessions}, nil
}
