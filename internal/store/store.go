package store

import (
	"context"
	"errors"

	"fleetroute/internal/model"
)

// Store keeps solve telemetry. Solved routes are never persisted; records
// carry counts and solver stats only.
type Store interface {
	RecordSolve(ctx context.Context, rec model.SolveRecord) error
	ListSolves(ctx context.Context, limit int) ([]model.SolveRecord, error)
	SolveStats(ctx context.Context) (map[string]int, error) // outcome -> count
}

var ErrNotFound = errors.New("not found")
