package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds the server settings read from the environment
type Config struct {
	Port             string
	DBType           string
	DatabaseURL      string
	DBFile           string
	AutoResolveDelay time.Duration
	GCInterval       time.Duration
	GCIdleTimeout    time.Duration
	GCMaxAge         time.Duration
	// AllowedOrigins restricts websocket and CORS origins; empty allows any
	AllowedOrigins []string
	// Seed makes game randomness reproducible when non-zero
	Seed int64
}

const defaultDatabaseURL = "host=localhost user=swords password=swords dbname=swords_with_friends sslmode=disable"

// Load reads the configuration from the environment. Malformed numbers fall
// back to their defaults.
func Load() *Config {
	cfg := &Config{
		Port:             getEnv("PORT", "8081"),
		DBType:           strings.ToLower(getEnv("DB_TYPE", "json")),
		DatabaseURL:      getEnv("DATABASE_URL", defaultDatabaseURL),
		DBFile:           getEnv("DB_FILE", "results.json"),
		AutoResolveDelay: time.Duration(getEnvInt("TURN_AUTO_RESOLVE_MS", 300)) * time.Millisecond,
		GCInterval:       time.Duration(getEnvInt("GC_INTERVAL_SECONDS", 30)) * time.Second,
		GCIdleTimeout:    time.Duration(getEnvInt("GC_IDLE_SECONDS", 60)) * time.Second,
		GCMaxAge:         time.Duration(getEnvInt("GC_MAX_AGE_SECONDS", 3600)) * time.Second,
		AllowedOrigins:   splitList(os.Getenv("ALLOWED_ORIGINS")),
	}

	if raw := os.Getenv("GAME_SEED"); raw != "" {
		seed, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			log.Printf("Ignoring invalid GAME_SEED %q: %v", raw, err)
		} else {
			cfg.Seed = seed
		}
	}

	return cfg
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

// getEnvInt parses a positive integer, logging and using fallback otherwise
func getEnvInt(key string, fallback int) int {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback
	}
	value, err := strconv.Atoi(raw)
	if err != nil || value <= 0 {
		log.Printf("Invalid value %q for %s, using %d", raw, key, fallback)
		return fallback
	}
	return value
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
