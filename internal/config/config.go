package config

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config carries everything the process needs, sourced from environment
// variables. Secrets are validated per profile: dev and test accept short
// placeholder values, prod does not.
type Config struct {
	Profile  string
	HTTPAddr string

	DatabaseURL string

	RedisAddr     string
	RedisPassword string
	RedisDB       int

	JWTIssuer        string
	JWTAudience      string
	JWTAccessSecret  string
	JWTRefreshSecret string
	AccessTokenTTL   time.Duration
	RefreshTokenTTL  time.Duration

	BcryptCost int

	CORSOrigins      []string
	APIRateLimitRPM  int
	AuthRateLimitRPM int

	ShutdownTimeout time.Duration

	OTELServiceName           string
	OTELEnvironment           string
	OTELExporterOTLPEndpoint  string
	OTELExporterOTLPInsecure  bool
	OTELMetricsEnabled        bool
	OTELTracesEnabled         bool
	OTELLogsEnabled           bool
	OTELMetricsExportInterval time.Duration
}

func Load(ctx context.Context) (*Config, error) {
	cfg := &Config{
		Profile:  envString("APP_PROFILE", "dev"),
		HTTPAddr: envString("HTTP_ADDR", ":8080"),

		DatabaseURL: envString("DATABASE_URL", ""),

		RedisAddr:     envString("REDIS_ADDR", ""),
		RedisPassword: envString("REDIS_PASSWORD", ""),

		JWTIssuer:        envString("JWT_ISSUER", "go-blog-platform"),
		JWTAudience:      envString("JWT_AUDIENCE", "go-blog-platform"),
		JWTAccessSecret:  envString("JWT_ACCESS_SECRET", ""),
		JWTRefreshSecret: envString("JWT_REFRESH_SECRET", ""),

		OTELServiceName:          envString("OTEL_SERVICE_NAME", "go-blog-platform"),
		OTELEnvironment:          envString("OTEL_ENVIRONMENT", "dev"),
		OTELExporterOTLPEndpoint: envString("OTEL_EXPORTER_OTLP_ENDPOINT", "localhost:4317"),
	}

	var err error
	if cfg.RedisDB, err = envInt("REDIS_DB", 0); err != nil {
		return nil, recordAndWrap(ctx, cfg.Profile, err)
	}
	if cfg.AccessTokenTTL, err = envDuration("ACCESS_TOKEN_TTL", 15*time.Minute); err != nil {
		return nil, recordAndWrap(ctx, cfg.Profile, err)
	}
	if cfg.RefreshTokenTTL, err = envDuration("REFRESH_TOKEN_TTL", 30*24*time.Hour); err != nil {
		return nil, recordAndWrap(ctx, cfg.Profile, err)
	}
	if cfg.BcryptCost, err = envInt("BCRYPT_COST", 12); err != nil {
		return nil, recordAndWrap(ctx, cfg.Profile, err)
	}
	if cfg.APIRateLimitRPM, err = envInt("API_RATE_LIMIT_RPM", 300); err != nil {
		return nil, recordAndWrap(ctx, cfg.Profile, err)
	}
	if cfg.AuthRateLimitRPM, err = envInt("AUTH_RATE_LIMIT_RPM", 30); err != nil {
		return nil, recordAndWrap(ctx, cfg.Profile, err)
	}
	if cfg.ShutdownTimeout, err = envDuration("SHUTDOWN_TIMEOUT", 15*time.Second); err != nil {
		return nil, recordAndWrap(ctx, cfg.Profile, err)
	}
	if cfg.OTELExporterOTLPInsecure, err = envBool("OTEL_EXPORTER_OTLP_INSECURE", true); err != nil {
		return nil, recordAndWrap(ctx, cfg.Profile, err)
	}
	if cfg.OTELMetricsEnabled, err = envBool("OTEL_METRICS_ENABLED", false); err != nil {
		return nil, recordAndWrap(ctx, cfg.Profile, err)
	}
	if cfg.OTELTracesEnabled, err = envBool("OTEL_TRACES_ENABLED", false); err != nil {
		return nil, recordAndWrap(ctx, cfg.Profile, err)
	}
	if cfg.OTELLogsEnabled, err = envBool("OTEL_LOGS_ENABLED", false); err != nil {
		return nil, recordAndWrap(ctx, cfg.Profile, err)
	}
	if cfg.OTELMetricsExportInterval, err = envDuration("OTEL_METRICS_EXPORT_INTERVAL", 30*time.Second); err != nil {
		return nil, recordAndWrap(ctx, cfg.Profile, err)
	}
	if origins := envString("CORS_ORIGINS", "http://localhost:5173"); origins != "" {
		for _, o := range strings.Split(origins, ",") {
			if o = strings.TrimSpace(o); o != "" {
				cfg.CORSOrigins = append(cfg.CORSOrigins, o)
			}
		}
	}

	if err := cfg.validate(); err != nil {
		return nil, recordAndWrap(ctx, cfg.Profile, err)
	}
	recordConfigValidationEvent(ctx, cfg.Profile, "success", "none")
	return cfg, nil
}

func (c *Config) validate() error {
	profile := normalizeConfigProfile(c.Profile)
	switch profile {
	case "dev", "test", "prod":
	default:
		return fmt.Errorf("validate config: unknown APP_PROFILE %q", c.Profile)
	}
	if c.DatabaseURL == "" && profile == "prod" {
		return fmt.Errorf("validate config: DATABASE_URL is required")
	}
	if c.JWTAccessSecret == "" || c.JWTRefreshSecret == "" {
		return fmt.Errorf("validate config: JWT_ACCESS_SECRET and JWT_REFRESH_SECRET are required")
	}
	if c.JWTAccessSecret == c.JWTRefreshSecret {
		return fmt.Errorf("validate config: access and refresh secrets must differ")
	}
	if profile == "prod" {
		if len(c.JWTAccessSecret) < 32 || len(c.JWTRefreshSecret) < 32 {
			return fmt.Errorf("validate config: JWT secrets must be at least 32 bytes in prod")
		}
	}
	if c.AccessTokenTTL <= 0 || c.RefreshTokenTTL <= 0 {
		return fmt.Errorf("validate config: token TTLs must be positive")
	}
	if c.AccessTokenTTL >= c.RefreshTokenTTL {
		return fmt.Errorf("validate config: access token TTL must be shorter than refresh token TTL")
	}
	return nil
}

// IsProd reports whether cookies must carry the Secure flag.
func (c *Config) IsProd() bool { return normalizeConfigProfile(c.Profile) == "prod" }

func recordAndWrap(ctx context.Context, profile string, err error) error {
	recordConfigValidationEvent(ctx, profile, "error", classifyConfigLoadError(err))
	return err
}

func envString(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok && strings.TrimSpace(v) != "" {
		return strings.TrimSpace(v)
	}
	return fallback
}

func envInt(key string, fallback int) (int, error) {
	v, ok := os.LookupEnv(key)
	if !ok || strings.TrimSpace(v) == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(strings.TrimSpace(v))
	if err != nil {
		return 0, fmt.Errorf("parse %s: %w", key, err)
	}
	return n, nil
}

func envBool(key string, fallback bool) (bool, error) {
	v, ok := os.LookupEnv(key)
	if !ok || strings.TrimSpace(v) == "" {
		return fallback, nil
	}
	b, err := strconv.ParseBool(strings.TrimSpace(v))
	if err != nil {
		return false, fmt.Errorf("parse %s: %w", key, err)
	}
	return b, nil
}

func envDuration(key string, fallback time.Duration) (time.Duration, error) {
	v, ok := os.LookupEnv(key)
	if !ok || strings.TrimSpace(v) == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(strings.TrimSpace(v))
	if err != nil {
		return 0, fmt.Errorf("parse %s: %w", key, err)
	}
	return d, nil
}
