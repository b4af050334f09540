package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/sandeepkv93/go-blog-platform/internal/app"
	"github.com/sandeepkv93/go-blog-platform/internal/config"
	"github.com/sandeepkv93/go-blog-platform/internal/domain"
	"github.com/sandeepkv93/go-blog-platform/internal/health"
	"github.com/sandeepkv93/go-blog-platform/internal/http/handler"
	"github.com/sandeepkv93/go-blog-platform/internal/http/middleware"
	"github.com/sandeepkv93/go-blog-platform/internal/http/router"
	"github.com/sandeepkv93/go-blog-platform/internal/observability"
	"github.com/sandeepkv93/go-blog-platform/internal/repository"
	"github.com/sandeepkv93/go-blog-platform/internal/security"
	"github.com/sandeepkv93/go-blog-platform/internal/service"
	"github.com/sandeepkv93/go-blog-platform/internal/tools/obscheck"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	root := &cobra.Command{
		Use:          "blog-platform",
		Short:        "Blog platform API server",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return serve(cmd.Context())
		},
	}
	root.AddCommand(&cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return serve(cmd.Context())
		},
	})
	root.AddCommand(obscheck.NewCommand())

	if err := root.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func serve(ctx context.Context) error {
	cfg, err := config.Load(ctx)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	logger, loggerProvider, err := observability.InitLogging(ctx, cfg)
	if err != nil {
		return fmt.Errorf("init logging: %w", err)
	}
	slog.SetDefault(logger)

	runtime, err := observability.InitRuntime(ctx, cfg, logger, loggerProvider)
	if err != nil {
		return fmt.Errorf("init observability: %w", err)
	}

	db, err := openDatabase(cfg, logger)
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	if err := db.AutoMigrate(&domain.User{}, &domain.Session{}, &domain.Blog{}, &domain.Like{}, &domain.SavedBlog{}); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}

	jwtMgr := security.NewJWTManager(cfg.JWTIssuer, cfg.JWTAudience, cfg.JWTAccessSecret, cfg.JWTRefreshSecret, cfg.AccessTokenTTL, cfg.RefreshTokenTTL)
	hasher := security.NewPasswordHasher(cfg.BcryptCost)
	cookies := security.NewCookieWriter(cfg.IsProd(), cfg.AccessTokenTTL, cfg.RefreshTokenTTL)

	users := repository.NewUserRepository(db)
	sessions := repository.NewSessionRepository(db)
	blogs := repository.NewBlogRepository(db)
	likes := repository.NewLikeRepository(db)
	saves := repository.NewSavedBlogRepository(db)

	authSvc := service.NewAuthService(users, sessions, jwtMgr, hasher)
	sessionSvc := service.NewSessionService(sessions)
	userSvc := service.NewUserService(users, hasher)
	blogSvc := service.NewBlogService(blogs)
	likeSvc := service.NewLikeService(likes, blogs)
	saveSvc := service.NewSavedBlogService(saves, blogs)
	profileSvc := service.NewProfileService(users, blogs, sessionSvc)

	checks := []health.Check{health.DatabaseCheck(db)}

	var globalLimiter, authLimiter func(http.Handler) http.Handler
	if cfg.RedisAddr != "" {
		rdb := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		limiter := middleware.NewRedisLimiter(rdb, "ratelimit")
		// API traffic degrades open when redis is away; auth brute-force
		// protection does not.
		globalLimiter = middleware.NewDistributedRateLimiter(limiter, cfg.APIRateLimitRPM, time.Minute, middleware.FailOpen, "api", middleware.SubjectOrIPKeyFunc(jwtMgr)).Middleware()
		authLimiter = middleware.NewDistributedRateLimiter(limiter, cfg.AuthRateLimitRPM, time.Minute, middleware.FailClosed, "auth", nil).Middleware()
		checks = append(checks, health.RedisCheck(rdb))
	}

	readiness := health.NewProbeRunner(2*time.Second, checks...)

	h := router.NewRouter(router.Dependencies{
		AuthHandler:       handler.NewAuthHandler(authSvc, cookies),
		UserHandler:       handler.NewUserHandler(userSvc, cookies),
		BlogHandler:       handler.NewBlogHandler(blogSvc, likeSvc, saveSvc),
		LikeHandler:       handler.NewLikeHandler(likeSvc),
		SavedBlogHandler:  handler.NewSavedBlogHandler(saveSvc),
		SessionHandler:    handler.NewSessionHandler(sessionSvc, cookies),
		ProfileHandler:    handler.NewProfileHandler(profileSvc, authSvc),
		JWTManager:        jwtMgr,
		SessionVerifier:   authSvc,
		BlogAuthorCheck:   blogSvc,
		CORSOrigins:       cfg.CORSOrigins,
		APIRateLimitRPM:   cfg.APIRateLimitRPM,
		AuthRateLimitRPM:  cfg.AuthRateLimitRPM,
		GlobalRateLimiter: globalLimiter,
		AuthRateLimiter:   authLimiter,
		Readiness:         readiness,
		EnableOTelHTTP:    cfg.OTELTracesEnabled,
	})

	server := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           h,
		ReadHeaderTimeout: 10 * time.Second,
	}

	return app.New(cfg, logger, server, runtime, readiness).Run(ctx)
}

// openDatabase prefers postgres; without DATABASE_URL (dev and test profiles
// only, prod refuses at config validation) it falls back to a local sqlite
// file so the server runs without external services.
func openDatabase(cfg *config.Config, logger *slog.Logger) (*gorm.DB, error) {
	gormCfg := &gorm.Config{TranslateError: true}
	if cfg.DatabaseURL != "" {
		return gorm.Open(postgres.Open(cfg.DatabaseURL), gormCfg)
	}
	logger.Warn("DATABASE_URL not set, using local sqlite database", "path", "blog-platform.db")
	return gorm.Open(sqlite.Open("blog-platform.db"), gormCfg)
}
