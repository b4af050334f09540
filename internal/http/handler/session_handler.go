package handler

import (
	"errors"
	"net/http"

	"github.com/sandeepkv93/go-blog-platform/internal/http/response"
	"github.com/sandeepkv93/go-blog-platform/internal/observability"
	"github.com/sandeepkv93/go-blog-platform/internal/security"
	"github.com/sandeepkv93/go-blog-platform/internal/service"

	"github.com/go-chi/chi/v5"
)

type SessionHandler struct {
	sessions *service.SessionService
	cookies  *security.CookieWriter
}

func NewSessionHandler(sessions *service.SessionService, cookies *security.CookieWriter) *SessionHandler {
	return &SessionHandler{sessions: sessions, cookies: cookies}
}

// List shows the caller's live sessions, newest first, flagging the one this
// request arrived on. Runs behind RequireSession so SessionID is populated.
func (h *SessionHandler) List(w http.ResponseWriter, r *http.Request) {
	identity, ok := mustIdentity(w, r)
	if !ok {
		return
	}
	views, err := h.sessions.ListActiveSessions(r.Context(), identity.UserID, identity.SessionID)
	if err != nil {
		response.Error(w, r, http.StatusInternalServerError, "INTERNAL", "listing sessions failed", nil)
		return
	}
	response.JSON(w, r, http.StatusOK, views)
}

// Terminate kills one of the caller's sessions. Terminating the current one
// also clears the caller's cookies.
func (h *SessionHandler) Terminate(w http.ResponseWriter, r *http.Request) {
	identity, ok := mustIdentity(w, r)
	if !ok {
		return
	}
	sessionID := chi.URLParam(r, "sessionId")
	if sessionID == "" {
		response.Error(w, r, http.StatusBadRequest, "INVALID_ID", "session id is required", nil)
		return
	}
	wasCurrent, err := h.sessions.TerminateSession(r.Context(), identity.UserID, sessionID, identity.SessionID)
	if err != nil {
		if errors.Is(err, service.ErrSessionNotAuthorized) {
			response.Error(w, r, http.StatusForbidden, "NOT_AUTHORIZED", "session not found or not authorized", nil)
			return
		}
		response.Error(w, r, http.StatusInternalServerError, "INTERNAL", "terminating session failed", nil)
		return
	}
	if wasCurrent {
		h.cookies.Clear(w)
	}
	observability.Audit(r, "session.terminate", "user_id", identity.UserID, "session_id", sessionID, "was_current", wasCurrent)
	response.JSON(w, r, http.StatusOK, map[string]any{"status": "terminated", "was_current": wasCurrent})
}

// TerminateOthers kills every session except the current one.
func (h *SessionHandler) TerminateOthers(w http.ResponseWriter, r *http.Request) {
	identity, ok := mustIdentity(w, r)
	if !ok {
		return
	}
	count, clearedCurrent, err := h.sessions.TerminateOtherSessions(r.Context(), identity.UserID, identity.SessionID)
	if err != nil {
		response.Error(w, r, http.StatusInternalServerError, "INTERNAL", "terminating sessions failed", nil)
		return
	}
	if clearedCurrent {
		h.cookies.Clear(w)
	}
	observability.Audit(r, "session.terminate_others", "user_id", identity.UserID, "count", count)
	response.JSON(w, r, http.StatusOK, map[string]any{"terminated": count})
}
