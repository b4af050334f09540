package handler

import (
	"errors"
	"net/http"

	"github.com/sandeepkv93/go-blog-platform/internal/domain"
	"github.com/sandeepkv93/go-blog-platform/internal/http/middleware"
	"github.com/sandeepkv93/go-blog-platform/internal/http/response"
	"github.com/sandeepkv93/go-blog-platform/internal/observability"
	"github.com/sandeepkv93/go-blog-platform/internal/repository"
	"github.com/sandeepkv93/go-blog-platform/internal/service"
)

type BlogHandler struct {
	blogs *service.BlogService
	likes *service.LikeService
	saves *service.SavedBlogService
}

func NewBlogHandler(blogs *service.BlogService, likes *service.LikeService, saves *service.SavedBlogService) *BlogHandler {
	return &BlogHandler{blogs: blogs, likes: likes, saves: saves}
}

// blogView decorates a blog with the caller's like/save status. The flags are
// only present when an identity was resolved for the request.
type blogView struct {
	*domain.Blog
	Liked *bool `json:"liked,omitempty"`
	Saved *bool `json:"saved,omitempty"`
}

type createBlogRequest struct {
	Title   string `json:"title"`
	Content string `json:"content"`
}

func (req *createBlogRequest) Validate() error {
	if req.Title == "" {
		return errors.New("title is required")
	}
	if req.Content == "" {
		return errors.New("content is required")
	}
	return nil
}

type updateBlogRequest struct {
	Title   *string `json:"title"`
	Content *string `json:"content"`
}

func (req *updateBlogRequest) Validate() error {
	if req.Title == nil && req.Content == nil {
		return errors.New("no fields to update")
	}
	if req.Title != nil && *req.Title == "" {
		return errors.New("title cannot be empty")
	}
	if req.Content != nil && *req.Content == "" {
		return errors.New("content cannot be empty")
	}
	return nil
}

func (h *BlogHandler) Create(w http.ResponseWriter, r *http.Request) {
	identity, ok := mustIdentity(w, r)
	if !ok {
		return
	}
	var req createBlogRequest
	if !decodeBody(w, r, &req) {
		return
	}
	blog, err := h.blogs.Create(r.Context(), identity.UserID, req.Title, req.Content)
	if err != nil {
		response.Error(w, r, http.StatusInternalServerError, "INTERNAL", "creating blog failed", nil)
		return
	}
	observability.Audit(r, "blog.create", "blog_id", blog.ID, "user_id", identity.UserID)
	response.JSON(w, r, http.StatusCreated, blog)
}

func (h *BlogHandler) List(w http.ResponseWriter, r *http.Request) {
	blogs, err := h.blogs.List(r.Context())
	if err != nil {
		response.Error(w, r, http.StatusInternalServerError, "INTERNAL", "listing blogs failed", nil)
		return
	}
	identity, hasIdentity := middleware.IdentityFromContext(r.Context())
	views := make([]blogView, 0, len(blogs))
	for i := range blogs {
		view := blogView{Blog: &blogs[i]}
		if hasIdentity {
			if liked, err := h.likes.IsLiked(r.Context(), identity.UserID, blogs[i].ID); err == nil {
				view.Liked = &liked
			}
			if saved, err := h.saves.IsSaved(r.Context(), identity.UserID, blogs[i].ID); err == nil {
				view.Saved = &saved
			}
		}
		views = append(views, view)
	}
	response.JSON(w, r, http.StatusOK, views)
}

func (h *BlogHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(r, "id")
	if !ok {
		response.Error(w, r, http.StatusBadRequest, "INVALID_ID", "blog id must be numeric", nil)
		return
	}
	blog, err := h.blogs.Get(r.Context(), id)
	if err != nil {
		if errors.Is(err, repository.ErrBlogNotFound) {
			response.Error(w, r, http.StatusNotFound, "BLOG_NOT_FOUND", "blog not found", nil)
			return
		}
		response.Error(w, r, http.StatusInternalServerError, "INTERNAL", "loading blog failed", nil)
		return
	}
	view := blogView{Blog: blog}
	if identity, ok := middleware.IdentityFromContext(r.Context()); ok {
		if liked, err := h.likes.IsLiked(r.Context(), identity.UserID, blog.ID); err == nil {
			view.Liked = &liked
		}
		if saved, err := h.saves.IsSaved(r.Context(), identity.UserID, blog.ID); err == nil {
			view.Saved = &saved
		}
	}
	response.JSON(w, r, http.StatusOK, view)
}

func (h *BlogHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(r, "id")
	if !ok {
		response.Error(w, r, http.StatusBadRequest, "INVALID_ID", "blog id must be numeric", nil)
		return
	}
	var req updateBlogRequest
	if !decodeBody(w, r, &req) {
		return
	}
	blog, err := h.blogs.Update(r.Context(), id, service.BlogUpdate{Title: req.Title, Content: req.Content})
	if err != nil {
		if errors.Is(err, repository.ErrBlogNotFound) {
			response.Error(w, r, http.StatusNotFound, "BLOG_NOT_FOUND", "blog not found", nil)
			return
		}
		response.Error(w, r, http.StatusInternalServerError, "INTERNAL", "updating blog failed", nil)
		return
	}
	observability.Audit(r, "blog.update", "blog_id", id)
	response.JSON(w, r, http.StatusOK, blog)
}

func (h *BlogHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(r, "id")
	if !ok {
		response.Error(w, r, http.StatusBadRequest, "INVALID_ID", "blog id must be numeric", nil)
		return
	}
	if err := h.blogs.Delete(r.Context(), id); err != nil {
		if errors.Is(err, repository.ErrBlogNotFound) {
			response.Error(w, r, http.StatusNotFound, "BLOG_NOT_FOUND", "blog not found", nil)
			return
		}
		response.Error(w, r, http.StatusInternalServerError, "INTERNAL", "deleting blog failed", nil)
		return
	}
	observability.Audit(r, "blog.delete", "blog_id", id)
	response.JSON(w, r, http.StatusOK, map[string]string{"status": "deleted"})
}
