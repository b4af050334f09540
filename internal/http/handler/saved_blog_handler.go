package handler

import (
	"errors"
	"net/http"

	"github.com/sandeepkv93/go-blog-platform/internal/http/response"
	"github.com/sandeepkv93/go-blog-platform/internal/repository"
	"github.com/sandeepkv93/go-blog-platform/internal/service"
)

type SavedBlogHandler struct {
	saves *service.SavedBlogService
}

func NewSavedBlogHandler(saves *service.SavedBlogService) *SavedBlogHandler {
	return &SavedBlogHandler{saves: saves}
}

func (h *SavedBlogHandler) Save(w http.ResponseWriter, r *http.Request) {
	identity, ok := mustIdentity(w, r)
	if !ok {
		return
	}
	blogID, ok := idParam(r, "blogId")
	if !ok {
		response.Error(w, r, http.StatusBadRequest, "INVALID_ID", "blog id must be numeric", nil)
		return
	}
	if err := h.saves.Save(r.Context(), identity.UserID, blogID); err != nil {
		switch {
		case errors.Is(err, repository.ErrBlogNotFound):
			response.Error(w, r, http.StatusNotFound, "BLOG_NOT_FOUND", "blog not found", nil)
		case errors.Is(err, service.ErrAlreadySaved):
			response.Error(w, r, http.StatusBadRequest, "ALREADY_SAVED", "blog already saved", nil)
		default:
			response.Error(w, r, http.StatusInternalServerError, "INTERNAL", "saving blog failed", nil)
		}
		return
	}
	response.JSON(w, r, http.StatusCreated, map[string]string{"status": "saved"})
}

func (h *SavedBlogHandler) Unsave(w http.ResponseWriter, r *http.Request) {
	identity, ok := mustIdentity(w, r)
	if !ok {
		return
	}
	blogID, ok := idParam(r, "blogId")
	if !ok {
		response.Error(w, r, http.StatusBadRequest, "INVALID_ID", "blog id must be numeric", nil)
		return
	}
	if err := h.saves.Unsave(r.Context(), identity.UserID, blogID); err != nil {
		switch {
		case errors.Is(err, repository.ErrBlogNotFound):
			response.Error(w, r, http.StatusNotFound, "BLOG_NOT_FOUND", "blog not found", nil)
		case errors.Is(err, service.ErrNotSaved):
			response.Error(w, r, http.StatusBadRequest, "NOT_SAVED", "blog not saved", nil)
		default:
			response.Error(w, r, http.StatusInternalServerError, "INTERNAL", "unsaving blog failed", nil)
		}
		return
	}
	response.JSON(w, r, http.StatusOK, map[string]string{"status": "unsaved"})
}

func (h *SavedBlogHandler) ListSaved(w http.ResponseWriter, r *http.Request) {
	identity, ok := mustIdentity(w, r)
	if !ok {
		return
	}
	saves, err := h.saves.ListSaved(r.Context(), identity.UserID)
	if err != nil {
		response.Error(w, r, http.StatusInternalServerError, "INTERNAL", "listing saved blogs failed", nil)
		return
	}
	response.JSON(w, r, http.StatusOK, saves)
}

func (h *SavedBlogHandler) Status(w http.ResponseWriter, r *http.Request) {
	identity, ok := mustIdentity(w, r)
	if !ok {
		return
	}
	blogID, ok := idParam(r, "blogId")
	if !ok {
		response.Error(w, r, http.StatusBadRequest, "INVALID_ID", "blog id must be numeric", nil)
		return
	}
	saved, err := h.saves.IsSaved(r.Context(), identity.UserID, blogID)
	if err != nil {
		response.Error(w, r, http.StatusInternalServerError, "INTERNAL", "checking save status failed", nil)
		return
	}
	response.JSON(w, r, http.StatusOK, map[string]bool{"saved": saved})
}
