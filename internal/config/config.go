package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	EnvDevelopment = "development"
	EnvProduction  = "production"
)

// Config holds everything the process reads from its environment.
// It is built once at startup and handed to the components that need it.
type Config struct {
	HTTPPort    string
	DatabaseURL string
	RedisURL    string
	Env         string

	JWTSecret string
	JWTTTL    time.Duration

	LogLevel string
	LogDev   bool
	LogFile  string

	AdminEmail    string
	AdminPassword string
}

// Development reports whether cookies may be sent without the Secure attribute.
func (c Config) Development() bool { return c.Env == EnvDevelopment }

var ErrMissingSecret = errors.New("ACCESS_TOKEN_SECRET is required outside development")

const devSecret = "development-only-secret"

// Load reads a .env file if one is present, then the process environment.
func Load() (Config, error) {
	_ = godotenv.Load()
	return FromLookup(os.LookupEnv)
}

func FromLookup(lookup func(string) (string, bool)) (Config, error) {
	get := func(key, def string) string {
		if v, ok := lookup(key); ok && strings.TrimSpace(v) != "" {
			return strings.TrimSpace(v)
		}
		return def
	}

	env := strings.ToLower(get("APP_ENV", get("NODE_ENV", EnvProduction)))
	cfg := Config{
		HTTPPort:      get("HTTP_PORT", get("PORT", "5500")),
		DatabaseURL:   get("DATABASE_URL", ""),
		RedisURL:      get("REDIS_URL", ""),
		Env:           env,
		JWTSecret:     get("ACCESS_TOKEN_SECRET", ""),
		JWTTTL:        time.Hour,
		LogLevel:      get("LOG_LEVEL", "info"),
		LogDev:        get("LOG_DEV", "") == "1",
		LogFile:       get("LOG_FILE", ""),
		AdminEmail:    get("ADMIN_EMAIL", ""),
		AdminPassword: get("ADMIN_PASSWORD", ""),
	}

	if s := get("JWT_TTL", ""); s != "" {
		d, err := time.ParseDuration(s)
		if err != nil || d <= 0 {
			return Config{}, fmt.Errorf("invalid JWT_TTL %q", s)
		}
		cfg.JWTTTL = d
	}

	if cfg.JWTSecret == "" {
		if !cfg.Development() {
			return Config{}, ErrMissingSecret
		}
		cfg.JWTSecret = devSecret
	}
	if cfg.DatabaseURL == "" && !cfg.Development() {
		return Config{}, errors.New("DATABASE_URL is empty")
	}
	return cfg, nil
}
