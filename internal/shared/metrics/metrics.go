package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Contadores compartilhados pelos serviços do tracker.
var (
	// FetchAttempts conta tentativas por fonte e desfecho ("ok" | "unavailable").
	FetchAttempts = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "lotofacil_source_fetch_attempts_total",
		Help: "Result fetch attempts by source and outcome",
	}, []string{"source", "outcome"})

	// FetchExhausted conta ciclos em que todas as fontes falharam.
	FetchExhausted = promauto.NewCounter(prometheus.CounterOpts{
		Name: "lotofacil_fetch_exhausted_total",
		Help: "Fetch cycles where every source was unavailable",
	})

	// ContestsSettled conta concursos conferidos com sucesso.
	ContestsSettled = promauto.NewCounter(prometheus.CounterOpts{
		Name: "lotofacil_contests_settled_total",
		Help: "Contests reconciled and persisted",
	})

	// BetsSettled conta apostas liquidadas.
	BetsSettled = promauto.NewCounter(prometheus.CounterOpts{
		Name: "lotofacil_bets_settled_total",
		Help: "Bets settled across all contests",
	})

	// PrizesPaid acumula o total de prêmios (em reais).
	PrizesPaid = promauto.NewCounter(prometheus.CounterOpts{
		Name: "lotofacil_prizes_paid_total",
		Help: "Total prize amount across settled bets",
	})
)
