package repo

import (
	"context"
	"database/sql"
	"encoding/json"

	"github.com/lib/pq"
	"github.com/shopspring/decimal"

	"github.com/Castellan09/LotoFacil-Tracker/internal/lottery"
)

// Postgres é o repositório de leitura de resultados conferidos.
// A escrita em results acontece só dentro da transação do motor de conferência.
type Postgres struct{ db *sql.DB }

func NewPostgres(db *sql.DB) *Postgres { return &Postgres{db: db} }

const selectColumns = `
	contest_number, numbers, draw_date, prize_table, source,
	total_prize, bets_checked, total_cost, balance
`

// GetByContest busca um resultado pelo número do concurso
func (p *Postgres) GetByContest(ctx context.Context, contest int) (lottery.DrawResult, error) {
	row := p.db.QueryRowContext(ctx,
		`SELECT `+selectColumns+` FROM results WHERE contest_number = $1`, contest)
	return scanResult(row)
}

// Latest busca o resultado de maior número de concurso
func (p *Postgres) Latest(ctx context.Context) (lottery.DrawResult, error) {
	row := p.db.QueryRowContext(ctx,
		`SELECT `+selectColumns+` FROM results ORDER BY contest_number DESC LIMIT 1`)
	return scanResult(row)
}

// Recent lista os últimos concursos, do mais novo para o mais antigo.
// Alimenta as estratégias que olham o histórico (quentes, frias, repetidas).
func (p *Postgres) Recent(ctx context.Context, limit int) ([]lottery.DrawResult, error) {
	rows, err := p.db.QueryContext(ctx,
		`SELECT `+selectColumns+` FROM results ORDER BY contest_number DESC LIMIT $1`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []lottery.DrawResult
	for rows.Next() {
		r, err := scanResultRows(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

// Exists informa se um concurso já foi registrado
func (p *Postgres) Exists(ctx context.Context, contest int) (bool, error) {
	var one int
	err := p.db.QueryRowContext(ctx,
		`SELECT 1 FROM results WHERE contest_number = $1`, contest).Scan(&one)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanResult(row *sql.Row) (lottery.DrawResult, error) { return scanFrom(row) }
func scanResultRows(rows *sql.Rows) (lottery.DrawResult, error) { return scanFrom(rows) }

func scanFrom(s scanner) (lottery.DrawResult, error) {
	var r lottery.DrawResult
	var numbers pq.Int64Array
	var tableJSON []byte
	var totalPrize, totalCost, balance decimal.NullDecimal
	var checked sql.NullInt32

	err := s.Scan(&r.ContestNumber, &numbers, &r.Date, &tableJSON, &r.Source,
		&totalPrize, &checked, &totalCost, &balance)
	if err != nil {
		return lottery.DrawResult{}, err
	}

	r.Numbers = make([]int, len(numbers))
	for i, n := range numbers {
		r.Numbers[i] = int(n)
	}

	r.PrizeTable = lottery.PrizeTable{}
	if len(tableJSON) > 0 {
		if err := json.Unmarshal(tableJSON, &r.PrizeTable); err != nil {
			return lottery.DrawResult{}, err
		}
	}

	if checked.Valid {
		r.Aggregate = &lottery.Aggregate{
			TotalPrize:  totalPrize.Decimal,
			BetsChecked: int(checked.Int32),
			TotalCost:   totalCost.Decimal,
			Balance:     balance.Decimal,
		}
	}
	return r, nil
}
