package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.ListenAddr != ":8080" {
		t.Fatalf("listen addr: %s", cfg.ListenAddr)
	}
	if cfg.Solver.TimeBudgetMs != 300 || cfg.Solver.Seed != 1 {
		t.Fatalf("solver defaults: %+v", cfg.Solver)
	}
	if got := cfg.Solver.TimeBudget(); got != 300*time.Millisecond {
		t.Fatalf("time budget: %v", got)
	}
	if cfg.RateLimit != 0 || cfg.RateBurst != 20 {
		t.Fatalf("rate defaults: %v %v", cfg.RateLimit, cfg.RateBurst)
	}
}

func TestLoadYAMLFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "fleetroute.yaml")
	body := "listenAddr: \":9090\"\nrateLimit: 5\nsolver:\n  timeBudgetMs: 50\n  seed: 7\n"
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatal(err)
	}
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.ListenAddr != ":9090" || cfg.RateLimit != 5 {
		t.Fatalf("file overrides: %+v", cfg)
	}
	if cfg.Solver.TimeBudgetMs != 50 || cfg.Solver.Seed != 7 {
		t.Fatalf("solver overrides: %+v", cfg.Solver)
	}
	// untouched fields keep their defaults
	if cfg.RateBurst != 20 || cfg.Solver.Cooling != 0.995 {
		t.Fatalf("defaults lost: %+v", cfg)
	}
}

func TestLoadExplicitMissingFileFails(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Fatal("expected error for missing explicit file")
	}
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("PORT", "7000")
	t.Setenv("DATABASE_URL", "postgres://db/fleet")
	t.Setenv("REDIS_URL", "redis://localhost:6379")
	t.Setenv("RATE_LIMIT", "2.5")
	t.Setenv("SOLVER_TIME_BUDGET_MS", "150")
	t.Setenv("SOLVER_MAX_ITERATIONS", "500")
	t.Setenv("SOLVER_SEED", "42")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.ListenAddr != ":7000" {
		t.Fatalf("listen addr: %s", cfg.ListenAddr)
	}
	if cfg.DatabaseURL != "postgres://db/fleet" || cfg.RedisURL != "redis://localhost:6379" {
		t.Fatalf("urls: %+v", cfg)
	}
	if cfg.RateLimit != 2.5 {
		t.Fatalf("rate limit: %v", cfg.RateLimit)
	}
	if cfg.Solver.TimeBudgetMs != 150 || cfg.Solver.MaxIterations != 500 || cfg.Solver.Seed != 42 {
		t.Fatalf("solver env: %+v", cfg.Solver)
	}
}
