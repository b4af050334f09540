package handler

import (
	"errors"
	"net/http"

	"github.com/sandeepkv93/go-blog-platform/internal/http/response"
	"github.com/sandeepkv93/go-blog-platform/internal/observability"
	"github.com/sandeepkv93/go-blog-platform/internal/repository"
	"github.com/sandeepkv93/go-blog-platform/internal/security"
	"github.com/sandeepkv93/go-blog-platform/internal/service"
)

type UserHandler struct {
	users   *service.UserService
	cookies *security.CookieWriter
}

func NewUserHandler(users *service.UserService, cookies *security.CookieWriter) *UserHandler {
	return &UserHandler{users: users, cookies: cookies}
}

type updateUserRequest struct {
	Name     *string `json:"name"`
	Email    *string `json:"email"`
	Password *string `json:"password"`
	Avatar   *string `json:"avatar"`
}

func (req *updateUserRequest) Validate() error {
	if req.Name == nil && req.Email == nil && req.Password == nil && req.Avatar == nil {
		return errors.New("no fields to update")
	}
	if req.Name != nil && *req.Name == "" {
		return errors.New("name cannot be empty")
	}
	if req.Email != nil && !validEmail(*req.Email) {
		return errors.New("email is invalid")
	}
	if req.Password != nil && len(*req.Password) < 8 {
		return errors.New("password must be at least 8 characters")
	}
	return nil
}

func (h *UserHandler) List(w http.ResponseWriter, r *http.Request) {
	users, err := h.users.List(r.Context())
	if err != nil {
		response.Error(w, r, http.StatusInternalServerError, "INTERNAL", "listing users failed", nil)
		return
	}
	response.JSON(w, r, http.StatusOK, users)
}

func (h *UserHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(r, "id")
	if !ok {
		response.Error(w, r, http.StatusBadRequest, "INVALID_ID", "user id must be numeric", nil)
		return
	}
	user, err := h.users.GetByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			response.Error(w, r, http.StatusNotFound, "USER_NOT_FOUND", "user not found", nil)
			return
		}
		response.Error(w, r, http.StatusInternalServerError, "INTERNAL", "loading user failed", nil)
		return
	}
	response.JSON(w, r, http.StatusOK, user)
}

// Update only allows users to edit their own account.
func (h *UserHandler) Update(w http.ResponseWriter, r *http.Request) {
	identity, ok := mustIdentity(w, r)
	if !ok {
		return
	}
	id, ok := idParam(r, "id")
	if !ok {
		response.Error(w, r, http.StatusBadRequest, "INVALID_ID", "user id must be numeric", nil)
		return
	}
	if id != identity.UserID {
		response.Error(w, r, http.StatusForbidden, "NOT_AUTHORIZED", "cannot modify another user", nil)
		return
	}
	var req updateUserRequest
	if !decodeBody(w, r, &req) {
		return
	}
	user, err := h.users.Update(r.Context(), id, service.UserUpdate{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
		Avatar:   req.Avatar,
	})
	if err != nil {
		switch {
		case errors.Is(err, service.ErrEmailTaken):
			response.Error(w, r, http.StatusConflict, "EMAIL_TAKEN", "email already registered", nil)
		case errors.Is(err, repository.ErrUserNotFound):
			response.Error(w, r, http.StatusNotFound, "USER_NOT_FOUND", "user not found", nil)
		default:
			response.Error(w, r, http.StatusInternalServerError, "INTERNAL", "updating user failed", nil)
		}
		return
	}
	observability.Audit(r, "user.update", "user_id", id)
	response.JSON(w, r, http.StatusOK, user)
}

// Delete removes the caller's own account and logs them out; sessions, blogs,
// likes and saves cascade away with the row.
func (h *UserHandler) Delete(w http.ResponseWriter, r *http.Request) {
	identity, ok := mustIdentity(w, r)
	if !ok {
		return
	}
	id, ok := idParam(r, "id")
	if !ok {
		response.Error(w, r, http.StatusBadRequest, "INVALID_ID", "user id must be numeric", nil)
		return
	}
	if id != identity.UserID {
		response.Error(w, r, http.StatusForbidden, "NOT_AUTHORIZED", "cannot delete another user", nil)
		return
	}
	if err := h.users.Delete(r.Context(), id); err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			response.Error(w, r, http.StatusNotFound, "USER_NOT_FOUND", "user not found", nil)
			return
		}
		response.Error(w, r, http.StatusInternalServerError, "INTERNAL", "deleting user failed", nil)
		return
	}
	h.cookies.Clear(w)
	observability.Audit(r, "user.delete", "user_id", id)
	response.JSON(w, r, http.StatusOK, map[string]string{"status": "deleted"})
}
