package service

import (
	"context"
	"errors"
	"testing"

	"github.com/sandeepkv93/go-blog-platform/internal/repository"
)

func TestBlogServiceUpdateAppliesPartialFields(t *testing.T) {
	svc := NewBlogService(newInMemoryBlogRepo())
	ctx := context.Background()

	blog, err := svc.Create(ctx, 1, "Title", "Content")
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	newTitle := "Updated"
	updated, err := svc.Update(ctx, blog.ID, BlogUpdate{Title: &newTitle})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.Title != "Updated" || updated.Content != "Content" {
		t.Fatalf("partial update wrong: %+v", updated)
	}
}

func TestBlogServiceIsAuthor(t *testing.T) {
	svc := NewBlogService(newInMemoryBlogRepo())
	ctx := context.Background()

	blog, err := svc.Create(ctx, 1, "Title", "Content")
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	ok, err := svc.IsAuthor(ctx, blog.ID, 1)
	if err != nil || !ok {
		t.Fatalf("expected author, got ok=%v err=%v", ok, err)
	}
	ok, err = svc.IsAuthor(ctx, blog.ID, 2)
	if err != nil || ok {
		t.Fatalf("expected non-author, got ok=%v err=%v", ok, err)
	}
	if _, err := svc.IsAuthor(ctx, 999, 1); !errors.Is(err, repository.ErrBlogNotFound) {
		t.Fatalf("expected ErrBlogNotFound, got %v", err)
	}
}

func TestLikeServiceLifecycle(t *testing.T) {
	blogs := newInMemoryBlogRepo()
	blogSvc := NewBlogService(blogs)
	svc := NewLikeService(newInMemoryLikeRepo(), blogs)
	ctx := context.Background()

	blog, err := blogSvc.Create(ctx, 1, "Title", "Content")
	if err != nil {
		t.Fatalf("create blog: %v", err)
	}

	if err := svc.Like(ctx, 2, 999); !errors.Is(err, repository.ErrBlogNotFound) {
		t.Fatalf("expected ErrBlogNotFound, got %v", err)
	}
	if err := svc.Like(ctx, 2, blog.ID); err != nil {
		t.Fatalf("like: %v", err)
	}
	if err := svc.Like(ctx, 2, blog.ID); !errors.Is(err, ErrAlreadyLiked) {
		t.Fatalf("expected ErrAlreadyLiked, got %v", err)
	}
	if err := svc.Unlike(ctx, 2, blog.ID); err != nil {
		t.Fatalf("unlike: %v", err)
	}
	if err := svc.Unlike(ctx, 2, blog.ID); !errors.Is(err, ErrNotLiked) {
		t.Fatalf("expected ErrNotLiked, got %v", err)
	}
}

func TestSavedBlogServiceLifecycle(t *testing.T) {
	blogs := newInMemoryBlogRepo()
	blogSvc := NewBlogService(blogs)
	svc := NewSavedBlogService(newInMemorySavedRepo(), blogs)
	ctx := context.Background()

	blog, err := blogSvc.Create(ctx, 1, "Title", "Content")
	if err != nil {
		t.Fatalf("create blog: %v", err)
	}

	if err := svc.Save(ctx, 2, blog.ID); err != nil {
		t.Fatalf("save: %v", err)
	}
	if err := svc.Save(ctx, 2, blog.ID); !errors.Is(err, ErrAlreadySaved) {
		t.Fatalf("expected ErrAlreadySaved, got %v", err)
	}
	saved, err := svc.ListSaved(ctx, 2)
	if err != nil || len(saved) != 1 {
		t.Fatalf("expected 1 saved blog, got %d err=%v", len(saved), err)
	}
	if err := svc.Unsave(ctx, 2, blog.ID); err != nil {
		t.Fatalf("unsave: %v", err)
	}
	if err := svc.Unsave(ctx, 2, blog.ID); !errors.Is(err, ErrNotSaved) {
		t.Fatalf("expected ErrNotSaved, got %v", err)
	}
}
