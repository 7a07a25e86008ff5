package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	for _, key := range []string{"PORT", "DB_TYPE", "DATABASE_URL", "DB_FILE", "TURN_AUTO_RESOLVE_MS",
		"GC_INTERVAL_SECONDS", "GC_IDLE_SECONDS", "GC_MAX_AGE_SECONDS", "ALLOWED_ORIGINS", "GAME_SEED"} {
		t.Setenv(key, "")
	}

	cfg := Load()
	if cfg.Port != "8081" || cfg.DBType != "json" || cfg.DBFile != "results.json" {
		t.Errorf("defaults = %+v", cfg)
	}
	if cfg.AutoResolveDelay != 300*time.Millisecond {
		t.Errorf("auto resolve = %v", cfg.AutoResolveDelay)
	}
	if cfg.GCInterval != 30*time.Second || cfg.GCIdleTimeout != time.Minute || cfg.GCMaxAge != time.Hour {
		t.Errorf("gc windows = %v %v %v", cfg.GCInterval, cfg.GCIdleTimeout, cfg.GCMaxAge)
	}
	if len(cfg.AllowedOrigins) != 0 || cfg.Seed != 0 {
		t.Errorf("origins %v seed %d", cfg.AllowedOrigins, cfg.Seed)
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("PORT", "9000")
	t.Setenv("DB_TYPE", "Postgres")
	t.Setenv("TURN_AUTO_RESOLVE_MS", "150")
	t.Setenv("GC_IDLE_SECONDS", "5")
	t.Setenv("ALLOWED_ORIGINS", "http://localhost:3000, https://swords.example ,")
	t.Setenv("GAME_SEED", "1234")

	cfg := Load()
	if cfg.Port != "9000" || cfg.DBType != "postgres" {
		t.Errorf("port %q db %q", cfg.Port, cfg.DBType)
	}
	if cfg.AutoResolveDelay != 150*time.Millisecond || cfg.GCIdleTimeout != 5*time.Second {
		t.Errorf("durations %v %v", cfg.AutoResolveDelay, cfg.GCIdleTimeout)
	}
	if len(cfg.AllowedOrigins) != 2 || cfg.AllowedOrigins[1] != "https://swords.example" {
		t.Errorf("origins = %q", cfg.AllowedOrigins)
	}
	if cfg.Seed != 1234 {
		t.Errorf("seed = %d", cfg.Seed)
	}
}

func TestLoadMalformedFallsBack(t *testing.T) {
	t.Setenv("TURN_AUTO_RESOLVE_MS", "soon")
	t.Setenv("GC_MAX_AGE_SECONDS", "-5")
	t.Setenv("GAME_SEED", "abc")

	cfg := Load()
	if cfg.AutoResolveDelay != 300*time.Millisecond {
		t.Errorf("auto resolve = %v", cfg.AutoResolveDelay)
	}
	if cfg.GCMaxAge != time.Hour {
		t.Errorf("max age = %v", cfg.GCMaxAge)
	}
	if cfg.Seed != 0 {
		t.Errorf("seed = %d", cfg.Seed)
	}
}
