package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Development fallbacks. Fine for local hacking, refused in production.
const (
	devAccessSecret  = "dev-access-secret-change-me"
	devRefreshSecret = "dev-refresh-secret-change-me"
)

type Config struct {
	Env       string
	Server    ServerConfig
	Auth      AuthConfig
	RateLimit RateLimitConfig
	Postgres  PostgresConfig
	Redis     RedisConfig
}

type ServerConfig struct {
	Port           string
	AllowedOrigins string
}

type AuthConfig struct {
	AccessSecret  string
	RefreshSecret string
	AccessTTL     time.Duration
	RefreshTTL    time.Duration
	BcryptCost    int
}

// RateLimitConfig carries the two independent policies: general traffic
// and the stricter budget for authentication endpoints.
type RateLimitConfig struct {
	GeneralWindow time.Duration
	GeneralMax    int
	AuthWindow    time.Duration
	AuthMax       int
}

type PostgresConfig struct {
	DatabaseURL string
	Host        string
	Port        string
	User        string
	Password    string
	Database    string
	SSLMode     string
}

// RedisConfig is optional; when Addr is empty the rate limiter keeps its
// counters in process memory.
type RedisConfig struct {
	Addr     string
	Password string
}

func Load() (Config, error) {
	cfg := Config{
		Env: getenv("APP_ENV", "development"),
		Server: ServerConfig{
			Port:           getenv("PORT", "8080"),
			AllowedOrigins: getenv("ALLOWED_ORIGINS", "http://localhost:3000"),
		},
		Auth: AuthConfig{
			AccessSecret:  getenv("JWT_ACCESS_SECRET", devAccessSecret),
			RefreshSecret: getenv("JWT_REFRESH_SECRET", devRefreshSecret),
		},
		Postgres: PostgresConfig{
			DatabaseURL: os.Getenv("DATABASE_URL"),
			Host:        getenv("PGHOST", "localhost"),
			Port:        getenv("PGPORT", "5432"),
			User:        os.Getenv("PGUSER"),
			Password:    os.Getenv("PGPASSWORD"),
			Database:    os.Getenv("PGDATABASE"),
			SSLMode:     getenv("PGSSLMODE", "disable"),
		},
		Redis: RedisConfig{
			Addr:     os.Getenv("REDIS_ADDR"),
			Password: os.Getenv("REDIS_PASSWORD"),
		},
	}

	var err error
	if cfg.Auth.AccessTTL, err = parseDuration("JWT_ACCESS_TTL", "1h"); err != nil {
		return Config{}, err
	}
	if cfg.Auth.RefreshTTL, err = parseDuration("JWT_REFRESH_TTL", "168h"); err != nil {
		return Config{}, err
	}
	if cfg.Auth.BcryptCost, err = parseInt("BCRYPT_COST", 10); err != nil {
		return Config{}, err
	}
	if cfg.RateLimit.GeneralWindow, err = parseDuration("RATE_LIMIT_WINDOW", "15m"); err != nil {
		return Config{}, err
	}
	if cfg.RateLimit.GeneralMax, err = parseInt("RATE_LIMIT_MAX", 100); err != nil {
		return Config{}, err
	}
	if cfg.RateLimit.AuthWindow, err = parseDuration("AUTH_RATE_LIMIT_WINDOW", "15m"); err != nil {
		return Config{}, err
	}
	if cfg.RateLimit.AuthMax, err = parseInt("AUTH_RATE_LIMIT_MAX", 5); err != nil {
		return Config{}, err
	}

	if err := cfg.validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) IsProduction() bool {
	return c.Env == "production"
}

// validate refuses to start a production process on unsafe defaults. A
// secret left at its development value is a hard error, not a warning.
func (c Config) validate() error {
	if !c.IsProduction() {
		return nil
	}
	if c.Auth.AccessSecret == devAccessSecret {
		return fmt.Errorf("JWT_ACCESS_SECRET must be set in production")
	}
	if c.Auth.RefreshSecret == devRefreshSecret {
		return fmt.Errorf("JWT_REFRESH_SECRET must be set in production")
	}
	if c.Auth.AccessSecret == c.Auth.RefreshSecret {
		return fmt.Errorf("JWT_ACCESS_SECRET and JWT_REFRESH_SECRET must differ")
	}
	return nil
}

func parseDuration(key, fallback string) (time.Duration, error) {
	raw := getenv(key, fallback)
	d, err := time.ParseDuration(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %q", key, raw)
	}
	return d, nil
}

func parseInt(key string, fallback int) (int, error) {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %q", key, raw)
	}
	return n, nil
}

func getenv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}
