package service

import (
	"context"
	"errors"

	"github.com/sandeepkv93/go-blog-platform/internal/domain"
	"github.com/sandeepkv93/go-blog-platform/internal/observability"
	"github.com/sandeepkv93/go-blog-platform/internal/repository"
	"github.com/sandeepkv93/go-blog-platform/internal/security"
)

var (
	ErrEmailTaken         = errors.New("email already in use")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrTokenInvalid       = errors.New("refresh token invalid")
	ErrSessionNotFound    = errors.New("session not found")
	ErrSessionRevoked     = errors.New("session no longer valid")
	ErrSessionMismatch    = errors.New("session does not belong to token subject")
)

// TokenPair carries the two tokens minted for a session. The refresh token is
// the session's lookup key and never changes for the session's lifetime.
type TokenPair struct {
	AccessToken  string
	RefreshToken string
}

// ClientInfo is the device fingerprint recorded on each session row.
type ClientInfo struct {
	UserAgent string
	IPAddress string
}

type AuthService struct {
	users    repository.UserRepository
	sessions repository.SessionRepository
	jwtMgr   *security.JWTManager
	hasher   *security.PasswordHasher
}

func NewAuthService(users repository.UserRepository, sessions repository.SessionRepository, jwtMgr *security.JWTManager, hasher *security.PasswordHasher) *AuthService {
	return &AuthService{users: users, sessions: sessions, jwtMgr: jwtMgr, hasher: hasher}
}

// Register creates the user account and immediately opens a session for it,
// so a successful signup leaves the caller logged in.
func (s *AuthService) Register(ctx context.Context, name, email, password string, client ClientInfo) (*domain.User, *domain.Session, TokenPair, error) {
	hash, err := s.hasher.Hash(password)
	if err != nil {
		return nil, nil, TokenPair{}, err
	}
	user := &domain.User{Name: name, Email: email, Password: hash}
	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicateEmail) {
			return nil, nil, TokenPair{}, ErrEmailTaken
		}
		return nil, nil, TokenPair{}, err
	}
	session, pair, err := s.startSession(ctx, user, client)
	if err != nil {
		return nil, nil, TokenPair{}, err
	}
	return user, session, pair, nil
}

// Login verifies credentials and opens a new session. Every login gets its
// own session row; concurrent sessions from different devices coexist.
func (s *AuthService) Login(ctx context.Context, email, password string, client ClientInfo) (*domain.User, *domain.Session, TokenPair, error) {
	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			observability.RecordAuthLogin("invalid_credentials")
			return nil, nil, TokenPair{}, ErrInvalidCredentials
		}
		observability.RecordAuthLogin("error")
		return nil, nil, TokenPair{}, err
	}
	if !s.hasher.Verify(password, user.Password) {
		observability.RecordAuthLogin("invalid_credentials")
		return nil, nil, TokenPair{}, ErrInvalidCredentials
	}
	session, pair, err := s.startSession(ctx, user, client)
	if err != nil {
		observability.RecordAuthLogin("error")
		return nil, nil, TokenPair{}, err
	}
	observability.RecordAuthLogin("success")
	return user, session, pair, nil
}

func (s *AuthService) startSession(ctx context.Context, user *domain.User, client ClientInfo) (*domain.Session, TokenPair, error) {
	access, refresh, err := s.jwtMgr.IssueTokenPair(user.ID)
	if err != nil {
		return nil, TokenPair{}, err
	}
	session := &domain.Session{
		UserID:       user.ID,
		RefreshToken: refresh,
		UserAgent:    client.UserAgent,
		IPAddress:    client.IPAddress,
	}
	if err := s.sessions.Create(ctx, session); err != nil {
		return nil, TokenPair{}, err
	}
	return session, TokenPair{AccessToken: access, RefreshToken: refresh}, nil
}

// VerifySession checks a refresh token against both the signature and the
// session store, and returns the live session row it belongs to. The four
// failure modes stay distinct so callers can map them to different statuses.
func (s *AuthService) VerifySession(ctx context.Context, refreshToken string) (*domain.Session, error) {
	claims, err := s.jwtMgr.ParseRefreshToken(refreshToken)
	if err != nil {
		return nil, ErrTokenInvalid
	}
	userID, err := claims.UserID()
	if err != nil {
		return nil, ErrTokenInvalid
	}
	session, err := s.sessions.FindByRefreshToken(ctx, refreshToken)
	if err != nil {
		if errors.Is(err, repository.ErrSessionNotFound) {
			return nil, ErrSessionNotFound
		}
		return nil, err
	}
	if !session.IsValid {
		return nil, ErrSessionRevoked
	}
	if session.UserID != userID {
		return nil, ErrSessionMismatch
	}
	return session, nil
}

// Refresh exchanges a refresh token for a new access token. The refresh token
// itself is not rotated and the session row is left untouched: the session
// keeps its original expiry regardless of how often it refreshes.
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (string, *domain.Session, error) {
	session, err := s.VerifySession(ctx, refreshToken)
	if err != nil {
		switch {
		case errors.Is(err, ErrTokenInvalid):
			observability.RecordAuthRefresh("token_invalid")
		case errors.Is(err, ErrSessionNotFound):
			observability.RecordAuthRefresh("session_not_found")
		case errors.Is(err, ErrSessionRevoked):
			observability.RecordAuthRefresh("session_revoked")
		case errors.Is(err, ErrSessionMismatch):
			observability.RecordAuthRefresh("session_mismatch")
		default:
			observability.RecordAuthRefresh("error")
		}
		return "", nil, err
	}
	access, err := s.jwtMgr.IssueAccessToken(session.UserID)
	if err != nil {
		observability.RecordAuthRefresh("error")
		return "", nil, err
	}
	observability.RecordAuthRefresh("success")
	return access, session, nil
}

// Logout invalidates the caller's session. When the current session cannot be
// identified it degrades to invalidating every session the user has, trading
// convenience for the guarantee that the logout took effect somewhere.
func (s *AuthService) Logout(ctx context.Context, userID uint, sessionID string) error {
	if sessionID != "" {
		if err := s.sessions.Invalidate(ctx, sessionID); err != nil {
			return err
		}
		observability.RecordAuthLogout("single")
		observability.RecordSessionInvalidation("logout", 1)
		return nil
	}
	n, err := s.sessions.InvalidateAllForUser(ctx, userID, "")
	if err != nil {
		return err
	}
	observability.RecordAuthLogout("all")
	observability.RecordSessionInvalidation("logout_all", n)
	return nil
}

// ResolveCurrentSession maps the refresh token presented by the client to its
// live session row. Callers use it to learn "which session am I" without
// trusting any client-supplied session id.
func (s *AuthService) ResolveCurrentSession(ctx context.Context, refreshToken string, userID uint) (*domain.Session, error) {
	if refreshToken == "" {
		return nil, ErrSessionNotFound
	}
	session, err := s.sessions.FindByRefreshToken(ctx, refreshToken)
	if err != nil {
		if errors.Is(err, repository.ErrSessionNotFound) {
			return nil, ErrSessionNotFound
		}
		return nil, err
	}
	if !session.IsValid || session.UserID != userID {
		return nil, ErrSessionNotFound
	}
	return session, nil
}
