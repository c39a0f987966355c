package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds runtime configuration parsed from environment variables.
type Config struct {
	HTTPAddr        string
	BoltPath        string
	MirrorDSN       string
	BackendBaseURL  string
	BackendTimeout  time.Duration
	CartTTL         time.Duration
	SyncTimeout     time.Duration
	SyncRetries     int
	SweepSchedule   string
	SessionTTL      time.Duration
	ShutdownTimeout time.Duration
	AllowedOrigins  []string
}

// FromEnv builds Config with defaults, overridden by environment variables.
func FromEnv() Config {
	return Config{
		HTTPAddr:        envOrDefault("HTTP_ADDR", ":8080"),
		BoltPath:        envOrDefault("CART_DB_PATH", "carts.db"),
		MirrorDSN:       envOrDefault("MIRROR_DSN", ""),
		BackendBaseURL:  envOrDefault("BACKEND_BASE_URL", "http://localhost:9000/api"),
		BackendTimeout:  envDuration("BACKEND_TIMEOUT_SECONDS", 10*time.Second),
		CartTTL:         envDuration("CART_TTL_SECONDS", 24*time.Hour),
		SyncTimeout:     envDuration("CART_SYNC_TIMEOUT_SECONDS", 5*time.Second),
		SyncRetries:     envInt("CART_SYNC_RETRIES", 1),
		SweepSchedule:   envOrDefault("CART_SWEEP_SCHEDULE", "@every 1h"),
		SessionTTL:      envDuration("SESSION_TTL_SECONDS", 30*24*time.Hour),
		ShutdownTimeout: envDuration("SHUTDOWN_TIMEOUT_SECONDS", 10*time.Second),
		AllowedOrigins:  envList("ALLOWED_ORIGINS"),
	}
}

func envOrDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func envDuration(key string, def time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		seconds, err := strconv.Atoi(v)
		if err == nil {
			return time.Duration(seconds) * time.Second
		}
	}
	return def
}

func envInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		n, err := strconv.Atoi(v)
		if err == nil {
			return n
		}
	}
	return def
}

func envList(key string) []string {
	v := os.Getenv(key)
	if v == "" {
		return nil
	}
	parts := strings.Split(v, ",")
	out := parts[:0]
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
