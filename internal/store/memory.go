package store

import (
	"context"
	"sync"

	"fleetroute/internal/model"
)

const memoryCap = 1000

// Memory is a bounded in-memory store used when no DATABASE_URL is set.
type Memory struct {
	mu      sync.Mutex
	records []model.SolveRecord // newest first
}

func NewMemory() *Memory {
	return &Memory{}
}

func (m *Memory) RecordSolve(ctx context.Context, rec model.SolveRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.records = append([]model.SolveRecord{rec}, m.records...)
	if len(m.records) > memoryCap {
		m.records = m.records[:memoryCap]
	}
	return nil
}

func (m *Memory) ListSolves(ctx context.Context, limit int) ([]model.SolveRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if limit <= 0 || limit > len(m.records) {
		limit = len(m.records)
	}
	out := make([]model.SolveRecord, limit)
	copy(out, m.records[:limit])
	return out, nil
}

func (m *Memory) SolveStats(ctx context.Context) (map[string]int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	stats := map[string]int{}
	for _, r := range m.records {
		stats[r.Status]++
	}
	return stats, nil
}
