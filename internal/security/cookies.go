package security

import (
	"net/http"
	"time"
)

// Cookie names are part of the external contract with the frontend.
const (
	AccessTokenCookie  = "accessToken"
	RefreshTokenCookie = "refreshToken"
)

// CookieWriter sets and clears the auth cookie pair. Secure is enabled in
// production profiles only so local HTTP development keeps working.
type CookieWriter struct {
	secure     bool
	accessTTL  time.Duration
	refreshTTL time.Duration
}

func NewCookieWriter(secure bool, accessTTL, refreshTTL time.Duration) *CookieWriter {
	return &CookieWriter{secure: secure, accessTTL: accessTTL, refreshTTL: refreshTTL}
}

func GetCookie(r *http.Request, name string) string {
	c, err := r.Cookie(name)
	if err != nil {
		return ""
	}
	return c.Value
}

func (w *CookieWriter) SetTokenPair(rw http.ResponseWriter, access, refresh string) {
	w.SetAccessToken(rw, access)
	http.SetCookie(rw, w.build(RefreshTokenCookie, refresh, w.refreshTTL))
}

func (w *CookieWriter) SetAccessToken(rw http.ResponseWriter, access string) {
	http.SetCookie(rw, w.build(AccessTokenCookie, access, w.accessTTL))
}

func (w *CookieWriter) Clear(rw http.ResponseWriter) {
	http.SetCookie(rw, w.build(AccessTokenCookie, "", -time.Second))
	http.SetCookie(rw, w.build(RefreshTokenCookie, "", -time.Second))
}

func (w *CookieWriter) build(name, value string, ttl time.Duration) *http.Cookie {
	c := &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     "/",
		HttpOnly: true,
		Secure:   w.secure,
		SameSite: http.SameSiteStrictMode,
	}
	if ttl > 0 {
		c.MaxAge = int(ttl.Seconds())
	} else {
		c.MaxAge = -1
	}
	return c
}
