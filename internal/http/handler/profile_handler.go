package handler

import (
	"errors"
	"net/http"

	"github.com/sandeepkv93/go-blog-platform/internal/http/response"
	"github.com/sandeepkv93/go-blog-platform/internal/repository"
	"github.com/sandeepkv93/go-blog-platform/internal/security"
	"github.com/sandeepkv93/go-blog-platform/internal/service"
)

type ProfileHandler struct {
	profiles *service.ProfileService
	auth     *service.AuthService
}

func NewProfileHandler(profiles *service.ProfileService, auth *service.AuthService) *ProfileHandler {
	return &ProfileHandler{profiles: profiles, auth: auth}
}

// Get returns the caller's account, recent blogs and active sessions. The
// gate here is the stateless one, so the current session is re-resolved from
// the refresh cookie just to set the is_current flags; failure to resolve
// only costs those flags.
func (h *ProfileHandler) Get(w http.ResponseWriter, r *http.Request) {
	identity, ok := mustIdentity(w, r)
	if !ok {
		return
	}
	currentSessionID := ""
	refreshToken := security.GetCookie(r, security.RefreshTokenCookie)
	if session, err := h.auth.ResolveCurrentSession(r.Context(), refreshToken, identity.UserID); err == nil {
		currentSessionID = session.ID
	}
	profile, err := h.profiles.Get(r.Context(), identity.UserID, currentSessionID)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			response.Error(w, r, http.StatusNotFound, "USER_NOT_FOUND", "user not found", nil)
			return
		}
		response.Error(w, r, http.StatusInternalServerError, "INTERNAL", "loading profile failed", nil)
		return
	}
	response.JSON(w, r, http.StatusOK, profile)
}
