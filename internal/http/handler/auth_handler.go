package handler

import (
	"errors"
	"net/http"

	"github.com/sandeepkv93/go-blog-platform/internal/http/response"
	"github.com/sandeepkv93/go-blog-platform/internal/observability"
	"github.com/sandeepkv93/go-blog-platform/internal/security"
	"github.com/sandeepkv93/go-blog-platform/internal/service"
)

type AuthHandler struct {
	auth    *service.AuthService
	cookies *security.CookieWriter
}

func NewAuthHandler(auth *service.AuthService, cookies *security.CookieWriter) *AuthHandler {
	return &AuthHandler{auth: auth, cookies: cookies}
}

type registerRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (req *registerRequest) Validate() error {
	if req.Name == "" {
		return errors.New("name is required")
	}
	if !validEmail(req.Email) {
		return errors.New("email is invalid")
	}
	if len(req.Password) < 8 {
		return errors.New("password must be at least 8 characters")
	}
	return nil
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (req *loginRequest) Validate() error {
	if !validEmail(req.Email) {
		return errors.New("email is invalid")
	}
	if req.Password == "" {
		return errors.New("password is required")
	}
	return nil
}

func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if !decodeBody(w, r, &req) {
		return
	}
	user, _, pair, err := h.auth.Register(r.Context(), req.Name, req.Email, req.Password, clientInfo(r))
	if err != nil {
		if errors.Is(err, service.ErrEmailTaken) {
			response.Error(w, r, http.StatusConflict, "EMAIL_TAKEN", "email already registered", nil)
			return
		}
		response.Error(w, r, http.StatusInternalServerError, "INTERNAL", "registration failed", nil)
		return
	}
	h.cookies.SetTokenPair(w, pair.AccessToken, pair.RefreshToken)
	observability.Audit(r, "auth.register", "user_id", user.ID)
	response.JSON(w, r, http.StatusCreated, user)
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if !decodeBody(w, r, &req) {
		return
	}
	user, session, pair, err := h.auth.Login(r.Context(), req.Email, req.Password, clientInfo(r))
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			response.Error(w, r, http.StatusUnauthorized, "INVALID_CREDENTIALS", "invalid email or password", nil)
			return
		}
		response.Error(w, r, http.StatusInternalServerError, "INTERNAL", "login failed", nil)
		return
	}
	h.cookies.SetTokenPair(w, pair.AccessToken, pair.RefreshToken)
	observability.Audit(r, "auth.login", "user_id", user.ID, "session_id", session.ID)
	response.JSON(w, r, http.StatusOK, user)
}

// Refresh replaces only the access token cookie. The refresh cookie stays as
// issued at login, so the session's lifetime is fixed at creation.
func (h *AuthHandler) Refresh(w http.ResponseWriter, r *http.Request) {
	refreshToken := security.GetCookie(r, security.RefreshTokenCookie)
	if refreshToken == "" {
		response.Error(w, r, http.StatusUnauthorized, "SESSION_NOT_FOUND", "no refresh token", nil)
		return
	}
	access, session, err := h.auth.Refresh(r.Context(), refreshToken)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrTokenInvalid):
			response.Error(w, r, http.StatusUnauthorized, "TOKEN_INVALID", "invalid refresh token", nil)
		case errors.Is(err, service.ErrSessionNotFound):
			response.Error(w, r, http.StatusUnauthorized, "SESSION_NOT_FOUND", "session not found", nil)
		case errors.Is(err, service.ErrSessionRevoked):
			response.Error(w, r, http.StatusUnauthorized, "SESSION_INVALID", "session no longer valid", nil)
		case errors.Is(err, service.ErrSessionMismatch):
			response.Error(w, r, http.StatusForbidden, "SESSION_MISMATCH", "session does not match token", nil)
		default:
			response.Error(w, r, http.StatusInternalServerError, "INTERNAL", "refresh failed", nil)
		}
		return
	}
	h.cookies.SetAccessToken(w, access)
	response.JSON(w, r, http.StatusOK, map[string]any{"user_id": session.UserID})
}

// Logout invalidates the caller's session and clears both cookies. When the
// refresh cookie cannot be mapped to a session, every session of the user is
// invalidated instead.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	identity, ok := mustIdentity(w, r)
	if !ok {
		return
	}
	sessionID := ""
	refreshToken := security.GetCookie(r, security.RefreshTokenCookie)
	if session, err := h.auth.ResolveCurrentSession(r.Context(), refreshToken, identity.UserID); err == nil {
		sessionID = session.ID
	}
	if err := h.auth.Logout(r.Context(), identity.UserID, sessionID); err != nil {
		response.Error(w, r, http.StatusInternalServerError, "INTERNAL", "logout failed", nil)
		return
	}
	h.cookies.Clear(w)
	observability.Audit(r, "auth.logout", "user_id", identity.UserID, "session_id", sessionID)
	response.JSON(w, r, http.StatusOK, map[string]string{"status": "logged_out"})
}
