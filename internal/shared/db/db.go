package db

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/lib/pq"
)

func ConnectPostgres(dsn string) (*sql.DB, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("ping postgres: %w", err)
	}

	return db, nil
}

// EnsureSchema cria as tabelas do tracker se não existirem.
// A unicidade de results.contest_number sustenta a idempotência da conferência.
func EnsureSchema(ctx context.Context, db *sql.DB) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS bets (
			id              UUID PRIMARY KEY,
			strategy        TEXT NOT NULL,
			numbers         INTEGER[] NOT NULL,
			placed_date     DATE NOT NULL,
			contest_number  BIGINT,
			draw_numbers    INTEGER[],
			match_count     INTEGER,
			prize           NUMERIC(14,2),
			settled_at      TIMESTAMPTZ
		)`,
		`CREATE INDEX IF NOT EXISTS idx_bets_unsettled ON bets (placed_date) WHERE settled_at IS NULL`,
		`CREATE TABLE IF NOT EXISTS results (
			contest_number  BIGINT PRIMARY KEY,
			numbers         INTEGER[] NOT NULL,
			draw_date       DATE NOT NULL,
			prize_table     JSONB NOT NULL DEFAULT '{}',
			source          TEXT NOT NULL,
			total_prize     NUMERIC(14,2),
			bets_checked    INTEGER,
			total_cost      NUMERIC(14,2),
			balance         NUMERIC(14,2),
			created_at      TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`,
	}

	for _, stmt := range stmts {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("ensure schema: %w", err)
		}
	}
	return nil
}
