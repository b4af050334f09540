package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/sandeepkv93/go-blog-platform/internal/domain"
)

func TestSessionRepositoryCreateAndFindByRefreshToken(t *testing.T) {
	repo := NewSessionRepository(newTestDB(t))
	ctx := context.Background()

	s := &domain.Session{UserID: 5, RefreshToken: "t1", UserAgent: "ua", IPAddress: "127.0.0.1"}
	if err := repo.Create(ctx, s); err != nil {
		t.Fatalf("create: %v", err)
	}
	if s.ID == "" {
		t.Fatal("expected generated session id")
	}

	found, err := repo.FindByRefreshToken(ctx, "t1")
	if err != nil {
		t.Fatalf("find by refresh token: %v", err)
	}
	if found.UserID != 5 || !found.IsValid {
		t.Fatalf("unexpected session: %+v", found)
	}

	if _, err := repo.FindByRefreshToken(ctx, "unknown"); !errors.Is(err, ErrSessionNotFound) {
		t.Fatalf("expected ErrSessionNotFound, got %v", err)
	}
}

func TestSessionRepositoryDuplicateRefreshTokenRejected(t *testing.T) {
	repo := NewSessionRepository(newTestDB(t))
	ctx := context.Background()

	if err := repo.Create(ctx, &domain.Session{UserID: 1, RefreshToken: "dup"}); err != nil {
		t.Fatalf("first create: %v", err)
	}
	err := repo.Create(ctx, &domain.Session{UserID: 2, RefreshToken: "dup"})
	if !errors.Is(err, ErrDuplicateRefreshToken) {
		t.Fatalf("expected ErrDuplicateRefreshToken, got %v", err)
	}
}

func TestSessionRepositoryListActiveNewestFirst(t *testing.T) {
	repo := NewSessionRepository(newTestDB(t))
	ctx := context.Background()
	base := time.Now().Add(-time.Hour)

	oldest := &domain.Session{UserID: 1, RefreshToken: "t-old", CreatedAt: base}
	middle := &domain.Session{UserID: 1, RefreshToken: "t-mid", CreatedAt: base.Add(time.Minute)}
	newest := &domain.Session{UserID: 1, RefreshToken: "t-new", CreatedAt: base.Add(2 * time.Minute)}
	otherUser := &domain.Session{UserID: 2, RefreshToken: "t-other", CreatedAt: base.Add(3 * time.Minute)}

	for _, s := range []*domain.Session{oldest, middle, newest, otherUser} {
		if err := repo.Create(ctx, s); err != nil {
			t.Fatalf("create %s: %v", s.RefreshToken, err)
		}
	}
	if err := repo.Invalidate(ctx, middle.ID); err != nil {
		t.Fatalf("invalidate middle: %v", err)
	}

	sessions, err := repo.ListActiveByUser(ctx, 1)
	if err != nil {
		t.Fatalf("list active: %v", err)
	}
	if len(sessions) != 2 {
		t.Fatalf("expected 2 active sessions, got %d", len(sessions))
	}
	if sessions[0].RefreshToken != "t-new" || sessions[1].RefreshToken != "t-old" {
		t.Fatalf("expected newest-first order, got %q then %q", sessions[0].RefreshToken, sessions[1].RefreshToken)
	}
}

func TestSessionRepositoryInvalidateIsIdempotent(t *testing.T) {
	repo := NewSessionRepository(newTestDB(t))
	ctx := context.Background()

	s := &domain.Session{UserID: 1, RefreshToken: "t1"}
	if err := repo.Create(ctx, s); err != nil {
		t.Fatalf("create: %v", err)
	}

	for i := 0; i < 2; i++ {
		if err := repo.Invalidate(ctx, s.ID); err != nil {
			t.Fatalf("invalidate attempt %d: %v", i+1, err)
		}
		found, err := repo.FindByRefreshToken(ctx, "t1")
		if err != nil {
			t.Fatalf("find: %v", err)
		}
		if found.IsValid {
			t.Fatalf("expected is_valid=false after invalidate attempt %d", i+1)
		}
	}
}

func TestSessionRepositoryInvalidateAllForUserExceptCurrent(t *testing.T) {
	repo := NewSessionRepository(newTestDB(t))
	ctx := context.Background()

	var keep *domain.Session
	for i, token := range []string{"s1", "s2", "s3"} {
		s := &domain.Session{UserID: 5, RefreshToken: token}
		if err := repo.Create(ctx, s); err != nil {
			t.Fatalf("create %s: %v", token, err)
		}
		if i == 0 {
			keep = s
		}
	}

	n, err := repo.InvalidateAllForUser(ctx, 5, keep.ID)
	if err != nil {
		t.Fatalf("invalidate all except: %v", err)
	}
	if n != 2 {
		t.Fatalf("expected 2 invalidations, got %d", n)
	}

	active, err := repo.ListActiveByUser(ctx, 5)
	if err != nil {
		t.Fatalf("list active: %v", err)
	}
	if len(active) != 1 || active[0].ID != keep.ID {
		t.Fatalf("expected only kept session active, got %+v", active)
	}

	// No except id wipes the remaining session too.
	if _, err := repo.InvalidateAllForUser(ctx, 5, ""); err != nil {
		t.Fatalf("invalidate all: %v", err)
	}
	active, err = repo.ListActiveByUser(ctx, 5)
	if err != nil {
		t.Fatalf("list active after wipe: %v", err)
	}
	if len(active) != 0 {
		t.Fatalf("expected no active sessions, got %d", len(active))
	}
}
