// Package config loads the sync server's environment settings and the
// client's config.toml.
package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// DefaultJWTSecret signs tokens when JWT_SECRET is unset. Fine for local use
// only.
const DefaultJWTSecret = "change-this-secret"

type Config struct {
	Port            string
	DBPath          string
	JWTSecret       string
	TokenTTL        time.Duration
	CORSOrigins     []string
	MigrationsDir   string
	ShutdownTimeout time.Duration
}

// Load reads the server configuration. An empty MigrationsDir selects the
// migrations compiled into the binary.
func Load() Config {
	return Config{
		Port:            envString("PORT", "8080"),
		DBPath:          envString("DB_PATH", "./data/pomflow.db"),
		JWTSecret:       envString("JWT_SECRET", DefaultJWTSecret),
		TokenTTL:        envHours("TOKEN_TTL_HOURS", 72),
		CORSOrigins:     envList("CORS_ORIGINS", "http://localhost:5173", "http://127.0.0.1:5173"),
		MigrationsDir:   envString("MIGRATIONS_DIR", ""),
		ShutdownTimeout: time.Duration(envPositive("SHUTDOWN_TIMEOUT_SECONDS", 10)) * time.Second,
	}
}

func (c Config) Addr() string {
	return ":" + c.Port
}

func (c Config) DefaultSecret() bool {
	return c.JWTSecret == DefaultJWTSecret
}

func envString(key, fallback string) string {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		return value
	}
	return fallback
}

// envPositive ignores values that do not parse as a positive integer.
func envPositive(key string, fallback int) int {
	parsed, err := strconv.Atoi(envString(key, ""))
	if err != nil || parsed <= 0 {
		return fallback
	}
	return parsed
}

func envHours(key string, fallback int) time.Duration {
	return time.Duration(envPositive(key, fallback)) * time.Hour
}

func envList(key string, fallback ...string) []string {
	var items []string
	for _, part := range strings.Split(os.Getenv(key), ",") {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			items = append(items, trimmed)
		}
	}
	if len(items) == 0 {
		return fallback
	}
	return items
}
