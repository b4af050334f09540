package service

import (
	"context"
	"errors"
	"time"

	"github.com/sandeepkv93/go-blog-platform/internal/observability"
	"github.com/sandeepkv93/go-blog-platform/internal/repository"
)

// ErrSessionNotAuthorized covers both cases the caller must not be able to
// tell apart: the session id does not exist, or it belongs to someone else.
var ErrSessionNotAuthorized = errors.New("session not found or not authorized")

// SessionView is the client-safe projection of a session row. The refresh
// token never leaves the service layer.
type SessionView struct {
	ID        string    `json:"id"`
	UserAgent string    `json:"user_agent"`
	IPAddress string    `json:"ip_address"`
	CreatedAt time.Time `json:"created_at"`
	IsCurrent bool      `json:"is_current"`
}

type SessionService struct {
	sessions repository.SessionRepository
}

func NewSessionService(sessions repository.SessionRepository) *SessionService {
	return &SessionService{sessions: sessions}
}

// ListActiveSessions returns the user's live sessions newest-first, flagging
// the one the request arrived on.
func (s *SessionService) ListActiveSessions(ctx context.Context, userID uint, currentSessionID string) ([]SessionView, error) {
	sessions, err := s.sessions.ListActiveByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	views := make([]SessionView, 0, len(sessions))
	for _, session := range sessions {
		views = append(views, SessionView{
			ID:        session.ID,
			UserAgent: session.UserAgent,
			IPAddress: session.IPAddress,
			CreatedAt: session.CreatedAt,
			IsCurrent: session.ID == currentSessionID,
		})
	}
	return views, nil
}

// TerminateSession invalidates one of the user's own sessions. Ownership is
// established by scanning the user's active sessions rather than loading the
// row by id, so a guessed id belonging to another user reads as absent.
// Returns whether the terminated session was the caller's current one, in
// which case the transport should also clear the caller's cookies.
func (s *SessionService) TerminateSession(ctx context.Context, userID uint, sessionID, currentSessionID string) (bool, error) {
	sessions, err := s.sessions.ListActiveByUser(ctx, userID)
	if err != nil {
		return false, err
	}
	owned := false
	for _, session := range sessions {
		if session.ID == sessionID {
			owned = true
			break
		}
	}
	if !owned {
		observability.RecordSessionValidation(ctx, "not_authorized")
		return false, ErrSessionNotAuthorized
	}
	if err := s.sessions.Invalidate(ctx, sessionID); err != nil {
		return false, err
	}
	observability.RecordSessionInvalidation("terminate", 1)
	return sessionID == currentSessionID, nil
}

// TerminateOtherSessions invalidates every session except the current one.
// When the current session is unknown it invalidates all of them and reports
// that the caller's own session went too.
func (s *SessionService) TerminateOtherSessions(ctx context.Context, userID uint, currentSessionID string) (int64, bool, error) {
	n, err := s.sessions.InvalidateAllForUser(ctx, userID, currentSessionID)
	if err != nil {
		return 0, false, err
	}
	observability.RecordSessionInvalidation("terminate_others", n)
	return n, currentSessionID == "", nil
}
