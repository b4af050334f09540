package router

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/sandeepkv93/go-blog-platform/internal/health"
	"github.com/sandeepkv93/go-blog-platform/internal/http/handler"
	"github.com/sandeepkv93/go-blog-platform/internal/http/middleware"
	"github.com/sandeepkv93/go-blog-platform/internal/http/response"
	"github.com/sandeepkv93/go-blog-platform/internal/security"
)

type Dependencies struct {
	AuthHandler      *handler.AuthHandler
	UserHandler      *handler.UserHandler
	BlogHandler      *handler.BlogHandler
	LikeHandler      *handler.LikeHandler
	SavedBlogHandler *handler.SavedBlogHandler
	SessionHandler   *handler.SessionHandler
	ProfileHandler   *handler.ProfileHandler

	JWTManager      *security.JWTManager
	SessionVerifier middleware.SessionVerifier
	BlogAuthorCheck middleware.BlogAuthorChecker

	CORSOrigins      []string
	APIRateLimitRPM  int
	AuthRateLimitRPM int
	// GlobalRateLimiter and AuthRateLimiter override the default local
	// limiters, typically with redis-backed ones.
	GlobalRateLimiter func(http.Handler) http.Handler
	AuthRateLimiter   func(http.Handler) http.Handler
	Readiness         *health.ProbeRunner
	EnableOTelHTTP    bool
}

func NewRouter(dep Dependencies) http.Handler {
	r := chi.NewRouter()
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(middleware.StructuredRequestLogger)
	r.Use(middleware.SecurityHeaders)
	r.Use(middleware.CORS(dep.CORSOrigins))
	r.Use(middleware.BodyLimit(1 << 20))
	if dep.GlobalRateLimiter != nil {
		r.Use(dep.GlobalRateLimiter)
	} else {
		r.Use(middleware.NewRateLimiter(dep.APIRateLimitRPM, time.Minute).Middleware())
	}

	authLimiter := dep.AuthRateLimiter
	if authLimiter == nil {
		authLimiter = middleware.NewRateLimiter(dep.AuthRateLimitRPM, time.Minute).Middleware()
	}

	authenticate := middleware.Authenticate(dep.JWTManager)
	requireSession := middleware.RequireSession(dep.SessionVerifier)
	optionalSession := middleware.OptionalSession(dep.SessionVerifier)
	requireAuthor := middleware.RequireBlogAuthor(dep.BlogAuthorCheck)

	r.Get("/health/live", func(w http.ResponseWriter, r *http.Request) {
		response.JSON(w, r, http.StatusOK, map[string]string{"status": "ok"})
	})
	r.Get("/health/ready", func(w http.ResponseWriter, r *http.Request) {
		if dep.Readiness == nil {
			response.JSON(w, r, http.StatusOK, map[string]any{"status": "ready", "checks": []any{}})
			return
		}
		ready, results := dep.Readiness.Ready(r.Context())
		if ready {
			response.JSON(w, r, http.StatusOK, map[string]any{"status": "ready", "checks": results})
			return
		}
		response.Error(w, r, http.StatusServiceUnavailable, "DEPENDENCY_UNREADY", "dependencies are not ready", map[string]any{"checks": results})
	})

	r.Route("/api", func(r chi.Router) {
		r.Route("/auth", func(r chi.Router) {
			r.With(authLimiter).Post("/register", dep.AuthHandler.Register)
			r.With(authLimiter).Post("/login", dep.AuthHandler.Login)
			r.With(authLimiter).Post("/refresh", dep.AuthHandler.Refresh)
			r.With(authenticate).Post("/logout", dep.AuthHandler.Logout)
		})

		r.With(authenticate).Get("/profile", dep.ProfileHandler.Get)

		r.Route("/users", func(r chi.Router) {
			r.Use(authenticate)
			r.Get("/", dep.UserHandler.List)
			r.Get("/{id}", dep.UserHandler.Get)
			r.Put("/{id}", dep.UserHandler.Update)
			r.Delete("/{id}", dep.UserHandler.Delete)
		})

		r.Route("/blogs", func(r chi.Router) {
			r.With(optionalSession).Get("/", dep.BlogHandler.List)
			r.With(optionalSession).Get("/{id}", dep.BlogHandler.Get)
			r.With(authenticate).Post("/", dep.BlogHandler.Create)
			r.With(authenticate, requireAuthor).Put("/{id}", dep.BlogHandler.Update)
			r.With(authenticate, requireAuthor).Delete("/{id}", dep.BlogHandler.Delete)
		})

		r.Route("/likes", func(r chi.Router) {
			r.Use(authenticate)
			r.Get("/", dep.LikeHandler.ListLiked)
			r.Post("/{blogId}", dep.LikeHandler.Like)
			r.Delete("/{blogId}", dep.LikeHandler.Unlike)
			r.Get("/{blogId}/status", dep.LikeHandler.Status)
		})

		r.Route("/saved", func(r chi.Router) {
			r.Use(authenticate)
			r.Get("/", dep.SavedBlogHandler.ListSaved)
			r.Post("/{blogId}", dep.SavedBlogHandler.Save)
			r.Delete("/{blogId}", dep.SavedBlogHandler.Unsave)
			r.Get("/{blogId}/status", dep.SavedBlogHandler.Status)
		})

		r.Route("/sessions", func(r chi.Router) {
			r.Use(requireSession)
			r.Get("/", dep.SessionHandler.List)
			r.Delete("/{sessionId}", dep.SessionHandler.Terminate)
			r.Delete("/", dep.SessionHandler.TerminateOthers)
		})
	})

	var h http.Handler = r
	if dep.EnableOTelHTTP {
		h = otelhttp.NewHandler(r, "http.server")
	}
	return h
}
