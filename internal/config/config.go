package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the process configuration: defaults, overlaid by an optional
// YAML file, overlaid by environment variables.
type Config struct {
	ListenAddr  string `yaml:"listenAddr"`
	DatabaseURL string `yaml:"databaseUrl"`
	RedisURL    string `yaml:"redisUrl"`
	RateLimit   float64 `yaml:"rateLimit"` // requests/sec, 0 disables limiting
	RateBurst   int     `yaml:"rateBurst"`
	Solver      Solver  `yaml:"solver"`
}

// Solver bounds the route search. Seed 0 means time-seeded; the default is a
// fixed seed so identical requests produce identical plans.
type Solver struct {
	TimeBudgetMs  int     `yaml:"timeBudgetMs"`
	MaxIterations int     `yaml:"maxIterations"`
	Seed          int64   `yaml:"seed"`
	InitialTemp   float64 `yaml:"initTemp"`
	Cooling       float64 `yaml:"cooling"`
}

func (s Solver) TimeBudget() time.Duration {
	return time.Duration(s.TimeBudgetMs) * time.Millisecond
}

func defaults() Config {
	return Config{
		ListenAddr: ":8080",
		RateBurst:  20,
		Solver: Solver{
			TimeBudgetMs: 300,
			Seed:         1,
			InitialTemp:  1.0,
			Cooling:      0.995,
		},
	}
}

// Load reads configuration. path may be empty; a missing file at the default
// path is not an error, an unreadable or invalid explicit file is.
func Load(path string) (Config, error) {
	cfg := defaults()
	explicit := path != ""
	if path == "" {
		path = "fleetroute.yaml"
	}
	if data, err := os.ReadFile(path); err == nil {
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("config: parse %s: %w", path, err)
		}
	} else if explicit {
		return Config{}, fmt.Errorf("config: read %s: %w", path, err)
	}
	applyEnv(&cfg)
	return cfg, nil
}

func applyEnv(cfg *Config) {
	if v := os.Getenv("PORT"); v != "" {
		cfg.ListenAddr = ":" + v
	}
	if v := os.Getenv("DATABASE_URL"); v != "" {
		cfg.DatabaseURL = v
	}
	if v := os.Getenv("REDIS_URL"); v != "" {
		cfg.RedisURL = v
	}
	if v := os.Getenv("RATE_LIMIT"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			cfg.RateLimit = f
		}
	}
	if v := os.Getenv("SOLVER_TIME_BUDGET_MS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.Solver.TimeBudgetMs = n
		}
	}
	if v := os.Getenv("SOLVER_MAX_ITERATIONS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n >= 0 {
			cfg.Solver.MaxIterations = n
		}
	}
	if v := os.Getenv("SOLVER_SEED"); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			cfg.Solver.Seed = n
		}
	}
}
