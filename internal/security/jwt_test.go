package security

import (
	"errors"
	"testing"
	"time"
)

func newTestJWTManager(accessTTL, refreshTTL time.Duration) *JWTManager {
	return NewJWTManager(
		"iss",
		"aud",
		"abcdefghijklmnopqrstuvwxyz123456",
		"abcdefghijklmnopqrstuvwxyz654321",
		accessTTL,
		refreshTTL,
	)
}

func TestIssueTokenPairRoundTripsUserID(t *testing.T) {
	mgr := newTestJWTManager(15*time.Minute, 30*24*time.Hour)

	access, refresh, err := mgr.IssueTokenPair(5)
	if err != nil {
		t.Fatalf("issue pair: %v", err)
	}

	ac, err := mgr.ParseAccessToken(access)
	if err != nil {
		t.Fatalf("parse access: %v", err)
	}
	if id, _ := ac.UserID(); id != 5 {
		t.Fatalf("access token user id = %d, want 5", id)
	}

	rc, err := mgr.ParseRefreshToken(refresh)
	if err != nil {
		t.Fatalf("parse refresh: %v", err)
	}
	if id, _ := rc.UserID(); id != 5 {
		t.Fatalf("refresh token user id = %d, want 5", id)
	}
}

func TestTokensAreNotInterchangeable(t *testing.T) {
	mgr := newTestJWTManager(15*time.Minute, 30*24*time.Hour)
	access, refresh, err := mgr.IssueTokenPair(7)
	if err != nil {
		t.Fatalf("issue pair: %v", err)
	}

	if _, err := mgr.ParseAccessToken(refresh); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("refresh token accepted as access token: %v", err)
	}
	if _, err := mgr.ParseRefreshToken(access); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("access token accepted as refresh token: %v", err)
	}
}

func TestExpiredTokenFailsVerification(t *testing.T) {
	mgr := newTestJWTManager(-time.Second, 30*24*time.Hour)
	access, err := mgr.IssueAccessToken(9)
	if err != nil {
		t.Fatalf("issue access: %v", err)
	}
	if _, err := mgr.ParseAccessToken(access); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken for expired token, got %v", err)
	}
}

func TestTokenValidJustBeforeExpiry(t *testing.T) {
	mgr := newTestJWTManager(2*time.Second, 30*24*time.Hour)
	access, err := mgr.IssueAccessToken(9)
	if err != nil {
		t.Fatalf("issue access: %v", err)
	}
	if _, err := mgr.ParseAccessToken(access); err != nil {
		t.Fatalf("token within its lifetime must verify: %v", err)
	}
}

func TestTamperedTokenRejected(t *testing.T) {
	mgr := newTestJWTManager(15*time.Minute, 30*24*time.Hour)
	access, err := mgr.IssueAccessToken(3)
	if err != nil {
		t.Fatalf("issue access: %v", err)
	}
	tampered := access[:len(access)-2] + "xx"
	if _, err := mgr.ParseAccessToken(tampered); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken for tampered token, got %v", err)
	}
}
