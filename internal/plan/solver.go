package plan

import (
	"time"

	"fleetroute/internal/model"
	"fleetroute/internal/opt"
)

// SolverConfig bounds the search. The zero value gets sane defaults from the
// solver itself (engine cooling/temperature) plus DefaultTimeBudget.
type SolverConfig struct {
	TimeBudget    time.Duration
	MaxIterations int
	Seed          int64 // 0 means time-seeded (non-deterministic)
	InitialTemp   float64
	Cooling       float64
}

const DefaultTimeBudget = 300 * time.Millisecond

// Solver turns a built Instance into a decoded response. It holds only
// configuration; each Solve call is independent and leaves no state behind.
type Solver struct {
	cfg SolverConfig
}

func NewSolver(cfg SolverConfig) *Solver {
	if cfg.TimeBudget <= 0 {
		cfg.TimeBudget = DefaultTimeBudget
	}
	return &Solver{cfg: cfg}
}

func (s *Solver) Config() SolverConfig { return s.cfg }

// Solve runs the engine over the instance and decodes the result. Returns
// opt.ErrInfeasible when no capacity-respecting full assignment exists
// within the budget.
func (s *Solver) Solve(inst *Instance) (model.RouteResponse, opt.Metrics, error) {
	p := opt.Problem{
		Cost:            inst.Matrix.Cost,
		Demands:         inst.Demands,
		Capacities:      inst.Capacities,
		Starts:          inst.Starts,
		End:             inst.End,
		Stops:           inst.JobLocations(),
		IterationsLimit: s.cfg.MaxIterations,
		InitialTemp:     s.cfg.InitialTemp,
		Cooling:         s.cfg.Cooling,
	}
	sol, met, err := opt.Solve(p, s.cfg.Seed, s.cfg.TimeBudget)
	if err != nil {
		return model.RouteResponse{}, met, err
	}
	return Decode(inst, sol.Paths(p)), met, nil
}
