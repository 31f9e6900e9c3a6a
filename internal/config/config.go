// Package config loads and validates application configuration from environment variables.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all configuration values for the API server.
// Values are populated by Load from environment variables.
type Config struct {
	// Port is the TCP port the HTTP server listens on. Defaults to "8080".
	Port string

	// DatabaseURL is the Postgres connection string. Required.
	DatabaseURL string

	// RedisURL selects the Redis session store when set.
	// Empty means sessions live in process memory.
	RedisURL string

	// LogLevel controls the minimum log level. Defaults to "info".
	// Valid values: debug, info, warn, error.
	LogLevel string

	// CORSOrigins is the list of allowed cross-origin request origins.
	// Set CORS_ORIGINS to a comma-separated list to override.
	CORSOrigins []string

	// MaxBodyBytes caps inbound request bodies. Defaults to 1 MiB.
	MaxBodyBytes int64

	// SessionTTL is how long a login stays valid. Defaults to 14 days.
	SessionTTL time.Duration

	// SecureCookies sets the Secure flag on the session cookie.
	// Enable whenever the app is served over HTTPS.
	SecureCookies bool

	Enrich EnrichConfig
}

// EnrichConfig holds the settings for the outbound lookups made while
// planning a trip.
type EnrichConfig struct {
	WikipediaBaseURL string
	NominatimBaseURL string
	ImageBaseURL     string

	// UserAgent is sent on every outbound request.
	UserAgent string

	// Timeout bounds each individual lookup. Defaults to 5s.
	Timeout time.Duration

	// CacheTTL is how long successful lookups are reused. 0 disables caching.
	CacheTTL time.Duration
}

// Load reads configuration from environment variables and returns a Config.
// A .env file in the working directory is loaded first when present; real
// environment variables always win over it.
// Returns an error listing any required variables that are not set, or the
// first variable that fails to parse.
func Load() (Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Config{}, fmt.Errorf("load .env: %w", err)
	}

	cfg := Config{
		Port:          getEnv("PORT", "8080"),
		RedisURL:      os.Getenv("REDIS_URL"),
		LogLevel:      getEnv("LOG_LEVEL", "info"),
		CORSOrigins:   splitCSV(getEnv("CORS_ORIGINS", "http://localhost:8080")),
		SecureCookies: getEnv("SECURE_COOKIES", "false") == "true",
		Enrich: EnrichConfig{
			WikipediaBaseURL: strings.TrimRight(getEnv("WIKIPEDIA_BASE_URL", "https://en.wikipedia.org/api/rest_v1"), "/"),
			NominatimBaseURL: strings.TrimRight(getEnv("NOMINATIM_BASE_URL", "https://nominatim.openstreetmap.org"), "/"),
			ImageBaseURL:     strings.TrimRight(getEnv("IMAGE_BASE_URL", "https://loremflickr.com"), "/"),
			UserAgent:        getEnv("OUTBOUND_USER_AGENT", "EasytripApp/1.0"),
		},
	}

	var missing []string

	cfg.DatabaseURL = os.Getenv("DATABASE_URL")
	if cfg.DatabaseURL == "" {
		missing = append(missing, "DATABASE_URL")
	}

	if len(missing) > 0 {
		return Config{}, fmt.Errorf("required environment variables not set: %s", strings.Join(missing, ", "))
	}

	var err error
	if cfg.MaxBodyBytes, err = getInt64("MAX_BODY_BYTES", 1<<20); err != nil {
		return Config{}, err
	}
	if cfg.SessionTTL, err = getDuration("SESSION_TTL", 14*24*time.Hour); err != nil {
		return Config{}, err
	}
	if cfg.Enrich.Timeout, err = getDuration("ENRICH_TIMEOUT", 5*time.Second); err != nil {
		return Config{}, err
	}
	if cfg.Enrich.CacheTTL, err = getDuration("ENRICH_CACHE_TTL", time.Hour); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

// getEnv returns the value of the environment variable named by key,
// or fallback if the variable is not set or is empty.
func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getDuration(key string, fallback time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil || d < 0 {
		return 0, fmt.Errorf("invalid %s %q: want a non-negative duration like 5s", key, v)
	}
	return d, nil
}

func getInt64(key string, fallback int64) (int64, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	n, err := strconv.ParseInt(v, 10, 64)
	if err != nil || n <= 0 {
		return 0, fmt.Errorf("invalid %s %q: want a positive integer", key, v)
	}
	return n, nil
}

// splitCSV splits a comma-separated string into a trimmed slice, ignoring empty entries.
func splitCSV(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if t := strings.TrimSpace(part); t != "" {
			out = append(out, t)
		}
	}
	return out
}
