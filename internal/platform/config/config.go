// Package config builds runtime configuration from environment variables so
// main stays lean.
package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Config captures everything the server needs at boot.
type Config struct {
	Addr          string
	DatabaseURL   string
	JWTSigningKey string
	Phone         PhoneConfig
	Redis         RedisConfig
	SyncWorkers   int
}

// PhoneConfig carries the locale tuning for the identity engine. Defaults
// encode the Nigerian numbering plan the app ships with.
type PhoneConfig struct {
	CountryCode         string
	DisplayCountryCode  string
	TailLengths         []int
	SimilarityThreshold float64
}

// RedisConfig configures the optional duplicate-group cache.
type RedisConfig struct {
	URL          string
	PoolSize     int
	MinIdleConns int
	DialTimeout  time.Duration
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	GroupTTL     time.Duration
}

// FromEnv builds a Config with development defaults.
func FromEnv() Config {
	cfg := Config{
		Addr:          getenv("CONTACTSYNC_ADDR", ":8080"),
		DatabaseURL:   os.Getenv("DATABASE_URL"),
		JWTSigningKey: getenv("CONTACTSYNC_JWT_SECRET", "dev-secret-key-change-in-production"),
		Phone: PhoneConfig{
			CountryCode:         getenv("CONTACTSYNC_COUNTRY_CODE", "234"),
			TailLengths:         intList(getenv("CONTACTSYNC_MATCH_TAILS", "6,8,9")),
			SimilarityThreshold: floatEnv("CONTACTSYNC_SIMILARITY_THRESHOLD", 0.90),
		},
		Redis: RedisConfig{
			URL:          os.Getenv("REDIS_URL"),
			PoolSize:     intEnv("CONTACTSYNC_REDIS_POOL_SIZE", 10),
			MinIdleConns: intEnv("CONTACTSYNC_REDIS_MIN_IDLE", 2),
			DialTimeout:  5 * time.Second,
			ReadTimeout:  3 * time.Second,
			WriteTimeout: 3 * time.Second,
			GroupTTL:     durationEnv("CONTACTSYNC_GROUP_CACHE_TTL", 5*time.Minute),
		},
		SyncWorkers: intEnv("CONTACTSYNC_SYNC_WORKERS", 4),
	}
	cfg.Phone.DisplayCountryCode = "+" + cfg.Phone.CountryCode
	return cfg
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func intEnv(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			return n
		}
	}
	return fallback
}

func floatEnv(key string, fallback float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil && f > 0 && f <= 1 {
			return f
		}
	}
	return fallback
}

func durationEnv(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil && d > 0 {
			return d
		}
	}
	return fallback
}

func intList(s string) []int {
	var out []int
	for _, part := range strings.Split(s, ",") {
		if n, err := strconv.Atoi(strings.TrimSpace(part)); err == nil && n > 0 {
			out = append(out, n)
		}
	}
	return out
}
