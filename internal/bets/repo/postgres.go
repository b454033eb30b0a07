package repo

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"

	"github.com/Castellan09/LotoFacil-Tracker/internal/lottery"
)

// Postgres implementa a persistência de apostas.
// A liquidação (settlement) é gravada apenas pelo motor de conferência.
type Postgres struct{ db *sql.DB }

// NewPostgres retorna uma instância do repositório de apostas
func NewPostgres(db *sql.DB) *Postgres { return &Postgres{db: db} }

// Create insere uma aposta nova, ainda sem liquidação
func (p *Postgres) Create(ctx context.Context, strategy string, numbers []int, placed time.Time) (string, error) {
	id := uuid.NewString()
	_, err := p.db.ExecContext(ctx, `
		INSERT INTO bets (id, strategy, numbers, placed_date)
		VALUES ($1,$2,$3,$4)`,
		id, strategy, pq.Array(toInt64(numbers)), placed,
	)
	if err != nil {
		return "", err
	}
	return id, nil
}

// ListUnsettled retorna apostas pendentes, da mais antiga para a mais nova
func (p *Postgres) ListUnsettled(ctx context.Context) ([]lottery.Bet, error) {
	const q = `
		SELECT id, strategy, numbers, placed_date
		FROM bets
		WHERE settled_at IS NULL
		ORDER BY placed_date ASC, id ASC;
	`
	rows, err := p.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []lottery.Bet
	for rows.Next() {
		var b lottery.Bet
		var numbers pq.Int64Array
		if err := rows.Scan(&b.ID, &b.Strategy, &numbers, &b.PlacedDate); err != nil {
			return nil, err
		}
		b.Numbers = toInt(numbers)
		out = append(out, b)
	}
	return out, rows.Err()
}

// List retorna as apostas mais recentes, liquidadas ou não
func (p *Postgres) List(ctx context.Context, limit int) ([]lottery.Bet, error) {
	const q = `
		SELECT id, strategy, numbers, placed_date,
		       contest_number, draw_numbers, match_count, prize, settled_at
		FROM bets
		ORDER BY placed_date DESC, id DESC
		LIMIT $1;
	`
	rows, err := p.db.QueryContext(ctx, q, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []lottery.Bet
	for rows.Next() {
		var b lottery.Bet
		var numbers, drawNumbers pq.Int64Array
		var contest sql.NullInt64
		var matches sql.NullInt32
		var prize decimal.NullDecimal
		var settledAt sql.NullTime

		if err := rows.Scan(&b.ID, &b.Strategy, &numbers, &b.PlacedDate,
			&contest, &drawNumbers, &matches, &prize, &settledAt); err != nil {
			return nil, err
		}
		b.Numbers = toInt(numbers)

		if settledAt.Valid {
			b.Settlement = &lottery.Settlement{
				ContestNumber: int(contest.Int64),
				DrawNumbers:   toInt(drawNumbers),
				MatchCount:    int(matches.Int32),
				Prize:         prize.Decimal,
				SettledAt:     settledAt.Time,
			}
		}
		out = append(out, b)
	}
	return out, rows.Err()
}

func toInt64(in []int) []int64 {
	out := make([]int64, len(in))
	for i, n := range in {
		out[i] = int64(n)
	}
	return out
}

func toInt(in pq.Int64Array) []int {
	out := make([]int, len(in))
	for i, n := range in {
		out[i] = int(n)
	}
	return out
}
