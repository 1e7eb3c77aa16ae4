package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/google/uuid"

	"fleetroute/internal/metrics"
	"fleetroute/internal/model"
	"fleetroute/internal/opt"
	"fleetroute/internal/plan"
)

// RouteHandler handles POST /getRoute: builds the problem instance, runs the
// solver, and decodes per-vehicle routes. Failure contract: 400 with
// {"result": false} for missing or malformed input, 404 with the same body
// when no feasible assignment exists. Validation short-circuits before the
// engine is invoked.
func (s *Server) RouteHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	start := time.Now()
	var req model.RouteRequest
	if r.Body == nil {
		writeResultFalse(w, http.StatusBadRequest)
		return
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeResultFalse(w, http.StatusBadRequest)
		s.record("rejected", 0, 0, start, opt.Metrics{})
		return
	}
	if err := validateRouteRequest(&req); err != nil {
		writeResultFalse(w, http.StatusBadRequest)
		s.record("rejected", len(req.Jobs), len(req.Vehicles), start, opt.Metrics{})
		return
	}
	m, err := plan.NewMatrix(req.Matrix)
	if err != nil {
		writeResultFalse(w, http.StatusBadRequest)
		s.record("rejected", len(req.Jobs), len(req.Vehicles), start, opt.Metrics{})
		return
	}
	inst, err := plan.Build(req.Jobs, req.Vehicles, m)
	if err != nil {
		writeResultFalse(w, http.StatusBadRequest)
		s.record("rejected", len(req.Jobs), len(req.Vehicles), start, opt.Metrics{})
		return
	}
	res, met, err := s.Solver.Solve(inst)
	if err != nil {
		if errors.Is(err, opt.ErrInfeasible) {
			writeResultFalse(w, http.StatusNotFound)
			s.record("infeasible", len(req.Jobs), len(req.Vehicles), start, met)
			return
		}
		writeProblem(w, http.StatusInternalServerError, "Solve failed", err.Error(), r.URL.Path)
		return
	}
	writeJSON(w, http.StatusOK, res)
	s.record("solved", len(req.Jobs), len(req.Vehicles), start, met)
}

// record persists solve telemetry, updates Prometheus series, and publishes
// the outcome on the solve-event feed.
func (s *Server) record(status string, jobs, vehicles int, start time.Time, met opt.Metrics) {
	elapsed := time.Since(start)
	rec := model.SolveRecord{
		ID:         uuid.New().String(),
		ReceivedAt: start.UTC(),
		Jobs:       jobs,
		Vehicles:   vehicles,
		Status:     status,
		SolveMs:    elapsed.Milliseconds(),
		BestCost:   met.BestCost,
		Iterations: met.Iterations,
	}
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := s.Store.RecordSolve(ctx, rec); err != nil {
		// telemetry must never fail a solve
		log.Printf("record solve: %v", err)
	}
	metrics.Solves.WithLabelValues(status).Inc()
	metrics.SolveDuration.WithLabelValues(status).Observe(float64(rec.SolveMs))
	metrics.SolveIterations.Observe(float64(met.Iterations))
	evtType := "solve.completed"
	if status != "solved" {
		evtType = "solve.failed"
	}
	s.Broker.Publish(TopicSolves, SolveEvent{Type: evtType, Data: map[string]any{
		"solveId":    rec.ID,
		"status":     status,
		"jobs":       jobs,
		"vehicles":   vehicles,
		"solveMs":    rec.SolveMs,
		"iterations": met.Iterations,
		"ts":         rec.ReceivedAt.Format(time.RFC3339),
	}})
}

// SolvesHandler lists recent solve telemetry (GET /v1/solves).
func (s *Server) SolvesHandler(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/v1/solves" {
		writeProblem(w, http.StatusNotFound, "Not Found", "", r.URL.Path)
		return
	}
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	limit := 100
	if v := r.URL.Query().Get("limit"); v != "" {
		fmt.Sscanf(v, "%d", &limit)
	}
	items, err := s.Store.ListSolves(r.Context(), limit)
	if err != nil {
		writeProblem(w, http.StatusInternalServerError, "List solves failed", err.Error(), r.URL.Path)
		return
	}
	stats, _ := s.Store.SolveStats(r.Context())
	writeJSON(w, http.StatusOK, map[string]any{"items": items, "stats": stats})
}

// SolverConfigHandler returns the effective solver configuration.
func (s *Server) SolverConfigHandler(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/v1/solver/config" || r.Method != http.MethodGet {
		writeProblem(w, http.StatusNotFound, "Not Found", "", r.URL.Path)
		return
	}
	cfg := s.Solver.Config()
	writeJSON(w, http.StatusOK, map[string]any{
		"timeBudgetMs":  cfg.TimeBudget.Milliseconds(),
		"maxIterations": cfg.MaxIterations,
		"seed":          cfg.Seed,
		"initTemp":      cfg.InitialTemp,
		"cooling":       cfg.Cooling,
	})
}

// Health
func (s *Server) HealthHandler(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) ReadyHandler(w http.ResponseWriter, r *http.Request) {
	// Check DB connectivity when using the Postgres store
	type pinger interface{ Ping(ctx context.Context) error }
	if pg, ok := s.Store.(pinger); ok {
		ctx, cancel := context.WithTimeout(r.Context(), 500*time.Millisecond)
		defer cancel()
		if err := pg.Ping(ctx); err != nil {
			writeProblem(w, http.StatusServiceUnavailable, "Not Ready", err.Error(), r.URL.Path)
			return
		}
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ready"})
}
