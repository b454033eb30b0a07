// Package reconcile confere apostas pendentes contra um resultado oficial e
// grava liquidações e agregados de forma idempotente.
package reconcile

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/lib/pq"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/Castellan09/LotoFacil-Tracker/internal/lottery"
	"github.com/Castellan09/LotoFacil-Tracker/internal/shared/metrics"
	"github.com/Castellan09/LotoFacil-Tracker/pkg/contracts/events"
)

// ErrAlreadyProcessed sinaliza que o concurso já foi conferido.
// Não é falha: re-disparos de agenda ou gatilhos manuais são rotina.
var ErrAlreadyProcessed = errors.New("contest already processed")

// uniqueViolation é o código do Postgres para violação de constraint UNIQUE.
const uniqueViolation = "23505"

// Summary é o retorno de uma conferência bem-sucedida.
type Summary struct {
	Checked    int
	TotalPrize decimal.Decimal
	TotalCost  decimal.Decimal
	Balance    decimal.Decimal
}

// Publisher publica o evento de concurso conferido; opcional.
type Publisher interface {
	PublishContestSettled(ctx context.Context, e events.ContestSettled) error
}

// Engine executa a conferência dentro de uma única transação.
//
// A proteção contra dupla liquidação é o insert-first: o INSERT em results
// entra na transação antes de qualquer mutação de aposta, e a unicidade de
// contest_number garante que, entre duas chamadas concorrentes para o mesmo
// concurso, exatamente uma ganha; a perdedora observa 23505 e devolve
// ErrAlreadyProcessed sem tocar nas apostas.
type Engine struct {
	db      *sql.DB
	log     *zap.Logger
	betCost decimal.Decimal
	publ    Publisher
}

func New(db *sql.DB, log *zap.Logger, betCost decimal.Decimal, publ Publisher) *Engine {
	return &Engine{db: db, log: log, betCost: betCost, publ: publ}
}

// Reconcile confere todas as apostas pendentes contra o resultado dado.
// Zero apostas pendentes não é erro: o resultado é persistido mesmo assim,
// senão o mesmo concurso seria rebuscado indefinidamente.
func (e *Engine) Reconcile(ctx context.Context, result lottery.DrawResult) (Summary, error) {
	if err := lottery.ValidateNumbers(result.Numbers); err != nil {
		return Summary{}, fmt.Errorf("reconcile contest %d: %w", result.ContestNumber, err)
	}

	tx, err := e.db.BeginTx(ctx, nil)
	if err != nil {
		return Summary{}, fmt.Errorf("reconcile contest %d: begin: %w", result.ContestNumber, err)
	}
	defer tx.Rollback()

	if err := e.insertResult(ctx, tx, result); err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && string(pqErr.Code) == uniqueViolation {
			return Summary{}, ErrAlreadyProcessed
		}
		return Summary{}, fmt.Errorf("reconcile contest %d: insert result: %w", result.ContestNumber, err)
	}

	bets, err := loadUnsettled(ctx, tx)
	if err != nil {
		return Summary{}, fmt.Errorf("reconcile contest %d: load bets: %w", result.ContestNumber, err)
	}

	totalPrize := decimal.Zero
	byStrategy := map[string]*events.StrategyTotal{}
	now := time.Now()
	checked := 0

	for _, bet := range bets {
		matches := lottery.MatchCount(bet.Numbers, result.Numbers)
		prize := result.PrizeTable.PrizeFor(matches)

		// o guard de settled_at cobre a janela entre o SELECT e este UPDATE:
		// uma conferência concorrente de OUTRO concurso passa pelo insert-first
		// (que é por concurso) e pode liquidar a mesma aposta primeiro. Quem
		// perde a corrida vê 0 linhas afetadas e não conta a aposta.
		res, err := tx.ExecContext(ctx, `
			UPDATE bets
			SET contest_number=$1, draw_numbers=$2, match_count=$3, prize=$4, settled_at=$5
			WHERE id=$6 AND settled_at IS NULL`,
			result.ContestNumber, pq.Array(result.Numbers), matches, prize, now, bet.ID,
		)
		if err != nil {
			return Summary{}, fmt.Errorf("reconcile contest %d: settle bet %s: %w", result.ContestNumber, bet.ID, err)
		}
		affected, err := res.RowsAffected()
		if err != nil {
			return Summary{}, fmt.Errorf("reconcile contest %d: settle bet %s: %w", result.ContestNumber, bet.ID, err)
		}
		if affected == 0 {
			e.log.Warn("bet settled by a concurrent reconciliation; skipping",
				zap.String("bet", bet.ID),
				zap.Int("contest", result.ContestNumber),
			)
			continue
		}

		checked++
		totalPrize = totalPrize.Add(prize)

		st := byStrategy[bet.Strategy]
		if st == nil {
			st = &events.StrategyTotal{Strategy: bet.Strategy, TotalPrize: "0"}
			byStrategy[bet.Strategy] = st
		}
		st.BetsPlaced++
		st.TotalPrize = mustDecimal(st.TotalPrize).Add(prize).StringFixed(2)
	}

	totalCost := e.betCost.Mul(decimal.NewFromInt(int64(checked)))
	balance := totalPrize.Sub(totalCost)

	// o agregado só é gravado depois de todas as apostas do lote
	if _, err := tx.ExecContext(ctx, `
		UPDATE results
		SET total_prize=$1, bets_checked=$2, total_cost=$3, balance=$4
		WHERE contest_number=$5`,
		totalPrize, checked, totalCost, balance, result.ContestNumber,
	); err != nil {
		return Summary{}, fmt.Errorf("reconcile contest %d: aggregate: %w", result.ContestNumber, err)
	}

	if err := tx.Commit(); err != nil {
		return Summary{}, fmt.Errorf("reconcile contest %d: commit: %w", result.ContestNumber, err)
	}

	metrics.ContestsSettled.Inc()
	metrics.BetsSettled.Add(float64(checked))
	metrics.PrizesPaid.Add(totalPrize.InexactFloat64())

	e.log.Info("contest reconciled",
		zap.Int("contest", result.ContestNumber),
		zap.String("source", result.Source),
		zap.Int("betsChecked", checked),
		zap.String("totalPrize", totalPrize.StringFixed(2)),
		zap.String("balance", balance.StringFixed(2)),
	)

	e.publish(ctx, result, checked, totalPrize, totalCost, balance, byStrategy)

	return Summary{
		Checked:    checked,
		TotalPrize: totalPrize,
		TotalCost:  totalCost,
		Balance:    balance,
	}, nil
}

func (e *Engine) insertResult(ctx context.Context, tx *sql.Tx, result lottery.DrawResult) error {
	tableJSON, err := json.Marshal(result.PrizeTable)
	if err != nil {
		return err
	}

	date := result.Date
	if date.IsZero() {
		date = time.Now()
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO results (contest_number, numbers, draw_date, prize_table, source)
		VALUES ($1,$2,$3,$4,$5)`,
		result.ContestNumber, pq.Array(result.Numbers), date, tableJSON, result.Source,
	)
	return err
}

func loadUnsettled(ctx context.Context, tx *sql.Tx) ([]lottery.Bet, error) {
	rows, err := tx.QueryContext(ctx, `
		SELECT id, strategy, numbers, placed_date
		FROM bets
		WHERE settled_at IS NULL
		ORDER BY placed_date ASC, id ASC`)
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
		b.Numbers = make([]int, len(numbers))
		for i, n := range numbers {
			b.Numbers[i] = int(n)
		}
		out = append(out, b)
	}
	return out, rows.Err()
}

// publish emite o evento após o commit; falha aqui não desfaz a conferência.
func (e *Engine) publish(ctx context.Context, result lottery.DrawResult, checked int,
	totalPrize, totalCost, balance decimal.Decimal, byStrategy map[string]*events.StrategyTotal) {

	if e.publ == nil {
		return
	}

	ev := events.ContestSettled{
		ContestNumber: result.ContestNumber,
		Numbers:       result.Numbers,
		Source:        result.Source,
		BetsChecked:   checked,
		TotalPrize:    totalPrize.StringFixed(2),
		TotalCost:     totalCost.StringFixed(2),
		Balance:       balance.StringFixed(2),
		Ts:            time.Now(),
	}
	for _, st := range byStrategy {
		ev.ByStrategy = append(ev.ByStrategy, *st)
	}

	if err := e.publ.PublishContestSettled(ctx, ev); err != nil {
		e.log.Warn("publish contest_settled",
			zap.Int("contest", result.ContestNumber),
			zap.Error(err),
		)
	}
}

func mustDecimal(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero
	}
	return d
}
