package middleware

import (
	"context"
	"errors"
	"net/http"

	"github.com/sandeepkv93/go-blog-platform/internal/domain"
	"github.com/sandeepkv93/go-blog-platform/internal/http/response"
	"github.com/sandeepkv93/go-blog-platform/internal/observability"
	"github.com/sandeepkv93/go-blog-platform/internal/security"
	"github.com/sandeepkv93/go-blog-platform/internal/service"
)

// SessionVerifier checks a refresh token against the session store and
// returns the live session it belongs to.
type SessionVerifier interface {
	VerifySession(ctx context.Context, refreshToken string) (*domain.Session, error)
}

// RequireSession admits only requests whose refresh token cookie maps to a
// live session row. Unlike Authenticate this gate reacts to revocation
// immediately, so it guards the session-management endpoints themselves.
func RequireSession(verifier SessionVerifier) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			refreshToken := security.GetCookie(r, security.RefreshTokenCookie)
			if refreshToken == "" {
				observability.RecordSessionValidation(r.Context(), "missing")
				response.Error(w, r, http.StatusUnauthorized, "SESSION_NOT_FOUND", "no session cookie", nil)
				return
			}
			session, err := verifier.VerifySession(r.Context(), refreshToken)
			if err != nil {
				switch {
				case errors.Is(err, service.ErrTokenInvalid):
					observability.RecordSessionValidation(r.Context(), "token_invalid")
					response.Error(w, r, http.StatusUnauthorized, "TOKEN_INVALID", "invalid refresh token", nil)
				case errors.Is(err, service.ErrSessionNotFound):
					observability.RecordSessionValidation(r.Context(), "not_found")
					response.Error(w, r, http.StatusUnauthorized, "SESSION_NOT_FOUND", "session not found", nil)
				case errors.Is(err, service.ErrSessionRevoked):
					observability.RecordSessionValidation(r.Context(), "revoked")
					response.Error(w, r, http.StatusUnauthorized, "SESSION_INVALID", "session no longer valid", nil)
				case errors.Is(err, service.ErrSessionMismatch):
					observability.RecordSessionValidation(r.Context(), "mismatch")
					response.Error(w, r, http.StatusForbidden, "SESSION_MISMATCH", "session does not match token", nil)
				default:
					observability.RecordSessionValidation(r.Context(), "error")
					response.Error(w, r, http.StatusInternalServerError, "INTERNAL", "session lookup failed", nil)
				}
				return
			}
			observability.RecordSessionValidation(r.Context(), "valid")
			ctx := withIdentity(r.Context(), Identity{UserID: session.UserID, SessionID: session.ID})
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// OptionalSession attaches the caller's identity when a live session can be
// resolved and passes the request through untouched otherwise. Public
// endpoints use it to personalize responses without demanding login.
func OptionalSession(verifier SessionVerifier) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			refreshToken := security.GetCookie(r, security.RefreshTokenCookie)
			if refreshToken == "" {
				next.ServeHTTP(w, r)
				return
			}
			session, err := verifier.VerifySession(r.Context(), refreshToken)
			if err != nil {
				next.ServeHTTP(w, r)
				return
			}
			ctx := withIdentity(r.Context(), Identity{UserID: session.UserID, SessionID: session.ID})
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
