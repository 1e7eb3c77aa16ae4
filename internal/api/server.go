package api

import (
	"context"
	"log"
	"strings"

	"fleetroute/internal/config"
	"fleetroute/internal/plan"
	"fleetroute/internal/store"
)

type Server struct {
	Store  store.Store
	Broker EventBroker
	Solver *plan.Solver
	Cfg    config.Config
}

// NewServer wires the server's dependencies from config. With no
// DATABASE_URL the in-memory telemetry store is used; with no REDIS_URL the
// in-process broker is used.
func NewServer(cfg config.Config) (*Server, error) {
	var s store.Store
	if strings.TrimSpace(cfg.DatabaseURL) == "" {
		s = store.NewMemory()
	} else {
		pg, err := store.NewPostgres(cfg.DatabaseURL)
		if err != nil {
			return nil, err
		}
		if err := pg.Migrate(context.Background()); err != nil {
			return nil, err
		}
		s = pg
	}
	var broker EventBroker
	if cfg.RedisURL != "" {
		rb, err := NewRedisBroker(cfg.RedisURL)
		if err != nil {
			log.Printf("redis broker unavailable, falling back to in-process: %v", err)
			broker = NewBroker()
		} else {
			broker = rb
		}
	} else {
		broker = NewBroker()
	}
	solver := plan.NewSolver(plan.SolverConfig{
		TimeBudget:    cfg.Solver.TimeBudget(),
		MaxIterations: cfg.Solver.MaxIterations,
		Seed:          cfg.Solver.Seed,
		InitialTemp:   cfg.Solver.InitialTemp,
		Cooling:       cfg.Solver.Cooling,
	})
	return &Server{Store: s, Broker: broker, Solver: solver, Cfg: cfg}, nil
}
