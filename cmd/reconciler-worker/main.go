package main

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/Castellan09/LotoFacil-Tracker/internal/reconcile"
	"github.com/Castellan09/LotoFacil-Tracker/internal/reconcile/producer"
	"github.com/Castellan09/LotoFacil-Tracker/internal/results/fetch"
	resultrepo "github.com/Castellan09/LotoFacil-Tracker/internal/results/repo"
	"github.com/Castellan09/LotoFacil-Tracker/internal/shared/config"
	"github.com/Castellan09/LotoFacil-Tracker/internal/shared/db"
	"github.com/Castellan09/LotoFacil-Tracker/internal/shared/kafka"
	"github.com/Castellan09/LotoFacil-Tracker/internal/shared/logger"
	"github.com/Castellan09/LotoFacil-Tracker/internal/shared/metrics"
)

func main() {
	cfg := config.Load()
	if cfg.ServiceName == "" {
		cfg.ServiceName = "reconciler-worker"
	}

	log, err := logger.New(cfg.ServiceName, cfg.Env)
	if err != nil {
		panic(fmt.Errorf("logger init: %w", err))
	}
	defer log.Sync()

	pg, err := db.ConnectPostgres(cfg.PostgresDSN)
	if err != nil {
		log.Fatal("pg connect", zap.Error(err))
	}
	defer pg.Close()

	if err := db.EnsureSchema(context.Background(), pg); err != nil {
		log.Fatal("ensure schema", zap.Error(err))
	}

	writer := kafka.NewWriter(cfg.KafkaBrokers, cfg.TopicContestSettled)
	defer writer.Close()

	betCost, err := decimal.NewFromString(cfg.BetCost)
	if err != nil {
		log.Fatal("invalid BET_COST", zap.String("value", cfg.BetCost), zap.Error(err))
	}

	fetcher := fetch.New(log, fetch.SourcesFromConfig(cfg)...)
	engine := reconcile.New(pg, log, betCost, producer.NewKafkaPublisher(writer))
	results := resultrepo.NewPostgres(pg)

	metrics.StartMetricsServer(cfg.MetricsPort, func(ctx context.Context) error {
		return pg.PingContext(ctx)
	})

	log.Info("reconciler-worker started",
		zap.String("cron", cfg.ReconcileCron),
		zap.String("sources", cfg.SourceOrder),
	)

	// roda uma vez na subida e depois na agenda
	runOnce(log, fetcher, engine, results)

	c := cron.New()
	if _, err := c.AddFunc(cfg.ReconcileCron, func() { runOnce(log, fetcher, engine, results) }); err != nil {
		log.Fatal("invalid RECONCILE_CRON", zap.String("cron", cfg.ReconcileCron), zap.Error(err))
	}
	c.Run()
}

// runOnce busca o último resultado publicado e confere as apostas pendentes.
// Todos os desfechos são terminais para este ciclo; a agenda tenta de novo.
func runOnce(log *zap.Logger, fetcher *fetch.Fetcher, engine *reconcile.Engine, results *resultrepo.Postgres) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	result, err := fetcher.FetchLatest(ctx)
	if err != nil {
		if errors.Is(err, fetch.ErrNoResultAvailable) {
			log.Warn("no result available this cycle; bets stay pending")
			return
		}
		log.Error("fetch latest", zap.Error(err))
		return
	}

	// pré-checagem barata: a maioria dos ciclos reencontra o mesmo concurso.
	// A garantia de vez única continua sendo o insert-first do engine.
	if done, err := results.Exists(ctx, result.ContestNumber); err == nil && done {
		log.Info("contest already recorded", zap.Int("contest", result.ContestNumber))
		return
	}

	summary, err := engine.Reconcile(ctx, result)
	if err != nil {
		if errors.Is(err, reconcile.ErrAlreadyProcessed) {
			log.Info("contest already processed",
				zap.Int("contest", result.ContestNumber))
			return
		}
		// falha de persistência: nada foi liquidado neste ciclo
		log.Error("reconcile", zap.Int("contest", result.ContestNumber), zap.Error(err))
		return
	}

	log.Info("cycle done",
		zap.Int("contest", result.ContestNumber),
		zap.Int("checked", summary.Checked),
		zap.String("totalPrize", summary.TotalPrize.StringFixed(2)),
	)
}
