package service

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/sandeepkv93/go-blog-platform/internal/domain"
	"github.com/sandeepkv93/go-blog-platform/internal/repository"

	"github.com/google/uuid"
)

type inMemorySessionRepo struct {
	mu   sync.Mutex
	byID map[string]*domain.Session
}

func newInMemorySessionRepo() *inMemorySessionRepo {
	return &inMemorySessionRepo{byID: map[string]*domain.Session{}}
}

func (r *inMemorySessionRepo) Create(_ context.Context, s *domain.Session) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.byID {
		if existing.RefreshToken == s.RefreshToken {
			return repository.ErrDuplicateRefreshToken
		}
	}
	if s.ID == "" {
		s.ID = uuid.NewString()
	}
	if s.CreatedAt.IsZero() {
		s.CreatedAt = time.Now()
	}
	s.IsValid = true
	cp := *s
	r.byID[cp.ID] = &cp
	return nil
}

func (r *inMemorySessionRepo) FindByRefreshToken(_ context.Context, token string) (*domain.Session, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, s := range r.byID {
		if s.RefreshToken == token {
			cp := *s
			return &cp, nil
		}
	}
	return nil, repository.ErrSessionNotFound
}

func (r *inMemorySessionRepo) ListActiveByUser(_ context.Context, userID uint) ([]domain.Session, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []domain.Session
	for _, s := range r.byID {
		if s.UserID == userID && s.IsValid {
			out = append(out, *s)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (r *inMemorySessionRepo) Invalidate(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if s, ok := r.byID[id]; ok {
		s.IsValid = false
	}
	return nil
}

func (r *inMemorySessionRepo) InvalidateAllForUser(_ context.Context, userID uint, exceptSessionID string) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var n int64
	for _, s := range r.byID {
		if s.UserID == userID && s.IsValid && s.ID != exceptSessionID {
			s.IsValid = false
			n++
		}
	}
	return n, nil
}

type inMemoryUserRepo struct {
	mu     sync.Mutex
	nextID uint
	byID   map[uint]*domain.User
}

func newInMemoryUserRepo() *inMemoryUserRepo {
	return &inMemoryUserRepo{nextID: 1, byID: map[uint]*domain.User{}}
}

func (r *inMemoryUserRepo) Create(_ context.Context, u *domain.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.byID {
		if existing.Email == u.Email {
			return repository.ErrDuplicateEmail
		}
	}
	u.ID = r.nextID
	r.nextID++
	cp := *u
	r.byID[cp.ID] = &cp
	return nil
}

func (r *inMemoryUserRepo) FindByID(_ context.Context, id uint) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.byID[id]
	if !ok {
		return nil, repository.ErrUserNotFound
	}
	cp := *u
	return &cp, nil
}

func (r *inMemoryUserRepo) FindByEmail(_ context.Context, email string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.byID {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, repository.ErrUserNotFound
}

func (r *inMemoryUserRepo) List(_ context.Context) ([]domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]domain.User, 0, len(r.byID))
	for _, u := range r.byID {
		out = append(out, *u)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *inMemoryUserRepo) Update(_ context.Context, u *domain.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.byID[u.ID]; !ok {
		return repository.ErrUserNotFound
	}
	for _, existing := range r.byID {
		if existing.ID != u.ID && existing.Email == u.Email {
			return repository.ErrDuplicateEmail
		}
	}
	cp := *u
	r.byID[cp.ID] = &cp
	return nil
}

func (r *inMemoryUserRepo) Delete(_ context.Context, id uint) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.byID[id]; !ok {
		return repository.ErrUserNotFound
	}
	delete(r.byID, id)
	return nil
}

type inMemoryBlogRepo struct {
	mu     sync.Mutex
	nextID uint
	byID   map[uint]*domain.Blog
}

func newInMemoryBlogRepo() *inMemoryBlogRepo {
	return &inMemoryBlogRepo{nextID: 1, byID: map[uint]*domain.Blog{}}
}

func (r *inMemoryBlogRepo) Create(_ context.Context, b *domain.Blog) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	b.ID = r.nextID
	r.nextID++
	if b.CreatedAt.IsZero() {
		b.CreatedAt = time.Now()
	}
	cp := *b
	r.byID[cp.ID] = &cp
	return nil
}

func (r *inMemoryBlogRepo) FindByID(_ context.Context, id uint) (*domain.Blog, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	b, ok := r.byID[id]
	if !ok {
		return nil, repository.ErrBlogNotFound
	}
	cp := *b
	return &cp, nil
}

func (r *inMemoryBlogRepo) List(_ context.Context) ([]domain.Blog, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]domain.Blog, 0, len(r.byID))
	for _, b := range r.byID {
		out = append(out, *b)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (r *inMemoryBlogRepo) ListByAuthor(_ context.Context, authorID uint, limit int) ([]domain.Blog, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []domain.Blog
	for _, b := range r.byID {
		if b.AuthorID == authorID {
			out = append(out, *b)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r *inMemoryBlogRepo) Update(_ context.Context, b *domain.Blog) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.byID[b.ID]; !ok {
		return repository.ErrBlogNotFound
	}
	cp := *b
	r.byID[cp.ID] = &cp
	return nil
}

func (r *inMemoryBlogRepo) Delete(_ context.Context, id uint) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.byID[id]; !ok {
		return repository.ErrBlogNotFound
	}
	delete(r.byID, id)
	return nil
}

type likeKey struct{ userID, blogID uint }

type inMemoryLikeRepo struct {
	mu    sync.Mutex
	likes map[likeKey]*domain.Like
}

func newInMemoryLikeRepo() *inMemoryLikeRepo {
	return &inMemoryLikeRepo{likes: map[likeKey]*domain.Like{}}
}

func (r *inMemoryLikeRepo) Create(_ context.Context, l *domain.Like) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	key := likeKey{l.UserID, l.BlogID}
	if _, ok := r.likes[key]; ok {
		return repository.ErrDuplicateLike
	}
	cp := *l
	r.likes[key] = &cp
	return nil
}

func (r *inMemoryLikeRepo) Find(_ context.Context, userID, blogID uint) (*domain.Like, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	l, ok := r.likes[likeKey{userID, blogID}]
	if !ok {
		return nil, repository.ErrLikeNotFound
	}
	cp := *l
	return &cp, nil
}

func (r *inMemoryLikeRepo) Delete(_ context.Context, userID, blogID uint) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	key := likeKey{userID, blogID}
	if _, ok := r.likes[key]; !ok {
		return repository.ErrLikeNotFound
	}
	delete(r.likes, key)
	return nil
}

func (r *inMemoryLikeRepo) ListByUser(_ context.Context, userID uint) ([]domain.Like, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []domain.Like
	for _, l := range r.likes {
		if l.UserID == userID {
			out = append(out, *l)
		}
	}
	return out, nil
}

type inMemorySavedRepo struct {
	mu    sync.Mutex
	saves map[likeKey]*domain.SavedBlog
}

func newInMemorySavedRepo() *inMemorySavedRepo {
	return &inMemorySavedRepo{saves: map[likeKey]*domain.SavedBlog{}}
}

func (r *inMemorySavedRepo) Create(_ context.Context, s *domain.SavedBlog) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	key := likeKey{s.UserID, s.BlogID}
	if _, ok := r.saves[key]; ok {
		return repository.ErrDuplicateSave
	}
	cp := *s
	r.saves[key] = &cp
	return nil
}

func (r *inMemorySavedRepo) Find(_ context.Context, userID, blogID uint) (*domain.SavedBlog, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.saves[likeKey{userID, blogID}]
	if !ok {
		return nil, repository.ErrSavedBlogNotFound
	}
	cp := *s
	return &cp, nil
}

func (r *inMemorySavedRepo) Delete(_ context.Context, userID, blogID uint) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	key := likeKey{userID, blogID}
	if _, ok := r.saves[key]; !ok {
		return repository.ErrSavedBlogNotFound
	}
	delete(r.saves, key)
	return nil
}

func (r *inMemorySavedRepo) ListByUser(_ context.Context, userID uint) ([]domain.SavedBlog, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []domain.SavedBlog
	for _, s := range r.saves {
		if s.UserID == userID {
			out = append(out, *s)
		}
	}
	return out, nil
}
