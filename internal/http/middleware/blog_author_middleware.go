package middleware

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/sandeepkv93/go-blog-platform/internal/http/response"
	"github.com/sandeepkv93/go-blog-platform/internal/repository"

	"github.com/go-chi/chi/v5"
)

// BlogAuthorChecker reports whether a user authored a blog.
type BlogAuthorChecker interface {
	IsAuthor(ctx context.Context, blogID, userID uint) (bool, error)
}

// RequireBlogAuthor guards blog mutations: only the author may proceed. Runs
// after an auth gate, so a missing identity is a server wiring bug rather
// than a client error.
func RequireBlogAuthor(blogs BlogAuthorChecker) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			identity, ok := IdentityFromContext(r.Context())
			if !ok {
				response.Error(w, r, http.StatusUnauthorized, "TOKEN_MISSING", "missing auth context", nil)
				return
			}
			blogID, err := strconv.ParseUint(chi.URLParam(r, "id"), 10, 64)
			if err != nil {
				response.Error(w, r, http.StatusBadRequest, "INVALID_ID", "blog id must be numeric", nil)
				return
			}
			isAuthor, err := blogs.IsAuthor(r.Context(), uint(blogID), identity.UserID)
			if err != nil {
				if errors.Is(err, repository.ErrBlogNotFound) {
					response.Error(w, r, http.StatusNotFound, "BLOG_NOT_FOUND", "blog not found", nil)
					return
				}
				response.Error(w, r, http.StatusInternalServerError, "INTERNAL", "author check failed", nil)
				return
			}
			if !isAuthor {
				response.Error(w, r, http.StatusForbidden, "FORBIDDEN", "only the author may modify this blog", nil)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
