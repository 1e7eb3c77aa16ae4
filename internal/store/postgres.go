package store

import (
	"context"
	"database/sql"

	_ "github.com/jackc/pgx/v5/stdlib"

	"fleetroute/internal/model"
)

// Postgres persists solve telemetry when DATABASE_URL is set.
type Postgres struct {
	db *sql.DB
}

func NewPostgres(dsn string) (*Postgres, error) {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, err
	}
	if err := db.Ping(); err != nil {
		return nil, err
	}
	return &Postgres{db: db}, nil
}

func (p *Postgres) Ping(ctx context.Context) error { return p.db.PingContext(ctx) }

func (p *Postgres) Close() error { return p.db.Close() }

// Migrate creates the telemetry table. Dev helper, idempotent.
func (p *Postgres) Migrate(ctx context.Context) error {
	_, err := p.db.ExecContext(ctx, `CREATE TABLE IF NOT EXISTS solves (
		id UUID PRIMARY KEY,
		received_at TIMESTAMPTZ NOT NULL,
		jobs INT NOT NULL,
		vehicles INT NOT NULL,
		status TEXT NOT NULL,
		solve_ms BIGINT NOT NULL,
		best_cost BIGINT NOT NULL,
		iterations INT NOT NULL
	)`)
	return err
}

func (p *Postgres) RecordSolve(ctx context.Context, rec model.SolveRecord) error {
	_, err := p.db.ExecContext(ctx,
		`INSERT INTO solves (id, received_at, jobs, vehicles, status, solve_ms, best_cost, iterations) VALUES ($1,$2,$3,$4,$5,$6,$7,$8)`,
		rec.ID, rec.ReceivedAt, rec.Jobs, rec.Vehicles, rec.Status, rec.SolveMs, rec.BestCost, rec.Iterations)
	return err
}

func (p *Postgres) ListSolves(ctx context.Context, limit int) ([]model.SolveRecord, error) {
	if limit <= 0 {
		limit = 100
	}
	rows, err := p.db.QueryContext(ctx,
		`SELECT id::text, received_at, jobs, vehicles, status, solve_ms, best_cost, iterations FROM solves ORDER BY received_at DESC LIMIT $1`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []model.SolveRecord{}
	for rows.Next() {
		var r model.SolveRecord
		if err := rows.Scan(&r.ID, &r.ReceivedAt, &r.Jobs, &r.Vehicles, &r.Status, &r.SolveMs, &r.BestCost, &r.Iterations); err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

func (p *Postgres) SolveStats(ctx context.Context) (map[string]int, error) {
	rows, err := p.db.QueryContext(ctx, `SELECT status, COUNT(*) FROM solves GROUP BY status`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	stats := map[string]int{}
	for rows.Next() {
		var status string
		var n int
		if err := rows.Scan(&status, &n); err != nil {
			return nil, err
		}
		stats[status] = n
	}
	return stats, rows.Err()
}
