package integration

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/sandeepkv93/go-blog-platform/internal/domain"
	"github.com/sandeepkv93/go-blog-platform/internal/http/handler"
	"github.com/sandeepkv93/go-blog-platform/internal/http/router"
	"github.com/sandeepkv93/go-blog-platform/internal/repository"
	"github.com/sandeepkv93/go-blog-platform/internal/security"
	"github.com/sandeepkv93/go-blog-platform/internal/service"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   *struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

// newTestServer spins up the full HTTP stack against a fresh in-memory
// database, the same wiring serve() performs minus redis and telemetry.
func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := db.AutoMigrate(&domain.User{}, &domain.Session{}, &domain.Blog{}, &domain.Like{}, &domain.SavedBlog{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	users := repository.NewUserRepository(db)
	sessions := repository.NewSessionRepository(db)
	blogs := repository.NewBlogRepository(db)
	likes := repository.NewLikeRepository(db)
	saves := repository.NewSavedBlogRepository(db)

	jwtMgr := security.NewJWTManager("blog-platform", "blog-api", "access-secret", "refresh-secret", 15*time.Minute, 30*24*time.Hour)
	hasher := security.NewPasswordHasher(4)
	cookies := security.NewCookieWriter(false, 15*time.Minute, 30*24*time.Hour)

	authSvc := service.NewAuthService(users, sessions, jwtMgr, hasher)
	sessionSvc := service.NewSessionService(sessions)
	userSvc := service.NewUserService(users, hasher)
	blogSvc := service.NewBlogService(blogs)
	likeSvc := service.NewLikeService(likes, blogs)
	saveSvc := service.NewSavedBlogService(saves, blogs)
	profileSvc := service.NewProfileService(users, blogs, sessionSvc)

	h := router.NewRouter(router.Dependencies{
		AuthHandler:      handler.NewAuthHandler(authSvc, cookies),
		UserHandler:      handler.NewUserHandler(userSvc, cookies),
		BlogHandler:      handler.NewBlogHandler(blogSvc, likeSvc, saveSvc),
		LikeHandler:      handler.NewLikeHandler(likeSvc),
		SavedBlogHandler: handler.NewSavedBlogHandler(saveSvc),
		SessionHandler:   handler.NewSessionHandler(sessionSvc, cookies),
		ProfileHandler:   handler.NewProfileHandler(profileSvc, authSvc),
		JWTManager:       jwtMgr,
		SessionVerifier:  authSvc,
		BlogAuthorCheck:  blogSvc,
		APIRateLimitRPM:  10000,
		AuthRateLimitRPM: 10000,
	})

	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	return srv
}

func newClient(t *testing.T) *http.Client {
	t.Helper()
	jar, err := cookiejar.New(nil)
	if err != nil {
		t.Fatalf("cookie jar: %v", err)
	}
	return &http.Client{Jar: jar}
}

func doJSON(t *testing.T, client *http.Client, method, url string, body any) (*http.Response, envelope) {
	t.Helper()
	var reader io.Reader
	if body != nil {
		buf, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal: %v", err)
		}
		reader = bytes.NewReader(buf)
	}
	req, err := http.NewRequest(method, url, reader)
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := client.Do(req)
	if err != nil {
		t.Fatalf("%s %s: %v", method, url, err)
	}
	defer resp.Body.Close()
	var env envelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil && err != io.EOF {
		t.Fatalf("decode envelope for %s %s: %v", method, url, err)
	}
	return resp, env
}

func register(t *testing.T, client *http.Client, baseURL, name, email string) {
	t.Helper()
	resp, env := doJSON(t, client, http.MethodPost, baseURL+"/api/auth/register", map[string]string{
		"name": name, "email": email, "password": "secret123",
	})
	if resp.StatusCode != http.StatusCreated || !env.Success {
		t.Fatalf("register %s: status=%d success=%v", email, resp.StatusCode, env.Success)
	}
}

func login(t *testing.T, client *http.Client, baseURL, email string) {
	t.Helper()
	resp, env := doJSON(t, client, http.MethodPost, baseURL+"/api/auth/login", map[string]string{
		"email": email, "password": "secret123",
	})
	if resp.StatusCode != http.StatusOK || !env.Success {
		t.Fatalf("login %s: status=%d success=%v", email, resp.StatusCode, env.Success)
	}
}

func listSessions(t *testing.T, client *http.Client, baseURL string) []sessionView {
	t.Helper()
	resp, env := doJSON(t, client, http.MethodGet, baseURL+"/api/sessions/", nil)
	if resp.StatusCode != http.StatusOK || !env.Success {
		t.Fatalf("list sessions: status=%d success=%v", resp.StatusCode, env.Success)
	}
	var views []sessionView
	if err := json.Unmarshal(env.Data, &views); err != nil {
		t.Fatalf("decode sessions: %v", err)
	}
	return views
}

func jsonBody(t *testing.T, body any) io.Reader {
	t.Helper()
	buf, err := json.Marshal(body)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	return bytes.NewReader(buf)
}

type sessionView struct {
	ID        string `json:"id"`
	UserAgent string `json:"user_agent"`
	IPAddress string `json:"ip_address"`
	IsCurrent bool   `json:"is_current"`
}
