// Package stats mantém os agregados por estratégia em Redis.
// Escrito pelo stats-worker a partir dos eventos contest_settled; lido pela
// API em GET /stats.
package stats

import (
	"context"
	"strconv"

	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"

	"github.com/Castellan09/LotoFacil-Tracker/pkg/contracts/events"
)

type Store struct {
	R *redis.Client
}

func NewStore(r *redis.Client) *Store { return &Store{R: r} }

// StrategyStats é o acumulado de uma estratégia desde o início.
type StrategyStats struct {
	Strategy   string `json:"strategy"`
	BetsPlaced int    `json:"betsPlaced"`
	TotalPrize string `json:"totalPrize"`
}

func keyStrategy(strategy string) string { return "lotofacil:stats:strategy:" + strategy }

const keyStrategies = "lotofacil:stats:strategies"

// Apply incorpora um evento de concurso conferido.
// Os prêmios acumulam em centavos inteiros (HIncrBy): somar float no Redis
// derivaria ao longo dos concursos.
func (s *Store) Apply(ctx context.Context, ev events.ContestSettled) error {
	for _, st := range ev.ByStrategy {
		pipe := s.R.TxPipeline()
		pipe.SAdd(ctx, keyStrategies, st.Strategy)
		pipe.HIncrBy(ctx, keyStrategy(st.Strategy), "bets", int64(st.BetsPlaced))
		pipe.HIncrBy(ctx, keyStrategy(st.Strategy), "prize_cents", toCents(st.TotalPrize))
		if _, err := pipe.Exec(ctx); err != nil {
			return err
		}
	}
	return nil
}

// All devolve o acumulado de todas as estratégias conhecidas.
func (s *Store) All(ctx context.Context) ([]StrategyStats, error) {
	names, err := s.R.SMembers(ctx, keyStrategies).Result()
	if err != nil {
		return nil, err
	}

	out := make([]StrategyStats, 0, len(names))
	for _, name := range names {
		fields, err := s.R.HGetAll(ctx, keyStrategy(name)).Result()
		if err != nil {
			return nil, err
		}

		bets, _ := strconv.Atoi(fields["bets"])
		cents, _ := strconv.ParseInt(fields["prize_cents"], 10, 64)

		out = append(out, StrategyStats{
			Strategy:   name,
			BetsPlaced: bets,
			TotalPrize: fromCents(cents),
		})
	}
	return out, nil
}

// toCents converte um valor decimal em string para centavos inteiros.
// Valor ilegível vale zero.
func toCents(s string) int64 {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return 0
	}
	return d.Shift(2).IntPart()
}

func fromCents(cents int64) string {
	return decimal.New(cents, -2).StringFixed(2)
}
