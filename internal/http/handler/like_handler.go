package handler

import (
	"errors"
	"net/http"

	"github.com/sandeepkv93/go-blog-platform/internal/http/response"
	"github.com/sandeepkv93/go-blog-platform/internal/repository"
	"github.com/sandeepkv93/go-blog-platform/internal/service"
)

type LikeHandler struct {
	likes *service.LikeService
}

func NewLikeHandler(likes *service.LikeService) *LikeHandler {
	return &LikeHandler{likes: likes}
}

func (h *LikeHandler) Like(w http.ResponseWriter, r *http.Request) {
	identity, ok := mustIdentity(w, r)
	if !ok {
		return
	}
	blogID, ok := idParam(r, "blogId")
	if !ok {
		response.Error(w, r, http.StatusBadRequest, "INVALID_ID", "blog id must be numeric", nil)
		return
	}
	if err := h.likes.Like(r.Context(), identity.UserID, blogID); err != nil {
		switch {
		case errors.Is(err, repository.ErrBlogNotFound):
			response.Error(w, r, http.StatusNotFound, "BLOG_NOT_FOUND", "blog not found", nil)
		case errors.Is(err, service.ErrAlreadyLiked):
			response.Error(w, r, http.StatusBadRequest, "ALREADY_LIKED", "blog already liked", nil)
		default:
			response.Error(w, r, http.StatusInternalServerError, "INTERNAL", "liking blog failed", nil)
		}
		return
	}
	response.JSON(w, r, http.StatusCreated, map[string]string{"status": "liked"})
}

func (h *LikeHandler) Unlike(w http.ResponseWriter, r *http.Request) {
	identity, ok := mustIdentity(w, r)
	if !ok {
		return
	}
	blogID, ok := idParam(r, "blogId")
	if !ok {
		response.Error(w, r, http.StatusBadRequest, "INVALID_ID", "blog id must be numeric", nil)
		return
	}
	if err := h.likes.Unlike(r.Context(), identity.UserID, blogID); err != nil {
		switch {
		case errors.Is(err, repository.ErrBlogNotFound):
			response.Error(w, r, http.StatusNotFound, "BLOG_NOT_FOUND", "blog not found", nil)
		case errors.Is(err, service.ErrNotLiked):
			response.Error(w, r, http.StatusBadRequest, "NOT_LIKED", "blog not liked", nil)
		default:
			response.Error(w, r, http.StatusInternalServerError, "INTERNAL", "unliking blog failed", nil)
		}
		return
	}
	response.JSON(w, r, http.StatusOK, map[string]string{"status": "unliked"})
}

func (h *LikeHandler) ListLiked(w http.ResponseWriter, r *http.Request) {
	identity, ok := mustIdentity(w, r)
	if !ok {
		return
	}
	likes, err := h.likes.ListLiked(r.Context(), identity.UserID)
	if err != nil {
		response.Error(w, r, http.StatusInternalServerError, "INTERNAL", "listing likes failed", nil)
		return
	}
	response.JSON(w, r, http.StatusOK, likes)
}

func (h *LikeHandler) Status(w http.ResponseWriter, r *http.Request) {
	identity, ok := mustIdentity(w, r)
	if !ok {
		return
	}
	blogID, ok := idParam(r, "blogId")
	if !ok {
		response.Error(w, r, http.StatusBadRequest, "INVALID_ID", "blog id must be numeric", nil)
		return
	}
	liked, err := h.likes.IsLiked(r.Context(), identity.UserID, blogID)
	if err != nil {
		response.Error(w, r, http.StatusInternalServerError, "INTERNAL", "checking like status failed", nil)
		return
	}
	response.JSON(w, r, http.StatusOK, map[string]bool{"liked": liked})
}
