// Package handler contains the HTTP handlers behind the chi router. Handlers
// decode and validate the request, call one service method, and translate
// sentinel errors into envelope responses.
package handler

import (
	"encoding/json"
	"net"
	"net/http"
	"strconv"
	"strings"

	"github.com/sandeepkv93/go-blog-platform/internal/http/middleware"
	"github.com/sandeepkv93/go-blog-platform/internal/http/response"
	"github.com/sandeepkv93/go-blog-platform/internal/service"

	"github.com/go-chi/chi/v5"
)

type validator interface {
	Validate() error
}

// decodeBody parses and validates the JSON body, writing the 400 itself on
// failure. Returns false when the caller should stop.
func decodeBody(w http.ResponseWriter, r *http.Request, dst validator) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		response.Error(w, r, http.StatusBadRequest, "INVALID_BODY", "malformed JSON body", nil)
		return false
	}
	if err := dst.Validate(); err != nil {
		response.Error(w, r, http.StatusBadRequest, "VALIDATION", err.Error(), nil)
		return false
	}
	return true
}

func idParam(r *http.Request, name string) (uint, bool) {
	id, err := strconv.ParseUint(chi.URLParam(r, name), 10, 64)
	if err != nil {
		return 0, false
	}
	return uint(id), true
}

// mustIdentity fetches the identity attached by an auth gate. A miss means a
// route was wired without its gate, which is a 401 from the client's view.
func mustIdentity(w http.ResponseWriter, r *http.Request) (middleware.Identity, bool) {
	identity, ok := middleware.IdentityFromContext(r.Context())
	if !ok {
		response.Error(w, r, http.StatusUnauthorized, "TOKEN_MISSING", "missing auth context", nil)
	}
	return identity, ok
}

func clientInfo(r *http.Request) service.ClientInfo {
	ip := r.RemoteAddr
	if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil {
		ip = host
	}
	return service.ClientInfo{UserAgent: r.UserAgent(), IPAddress: ip}
}

func validEmail(email string) bool {
	at := strings.Index(email, "@")
	return at > 0 && at < len(email)-1 && !strings.ContainsAny(email, " \t")
}
