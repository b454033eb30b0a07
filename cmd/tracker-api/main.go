package main

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/Castellan09/LotoFacil-Tracker/internal/bets/repo"
	"github.com/Castellan09/LotoFacil-Tracker/internal/reconcile"
	"github.com/Castellan09/LotoFacil-Tracker/internal/reconcile/producer"
	"github.com/Castellan09/LotoFacil-Tracker/internal/results/cache"
	"github.com/Castellan09/LotoFacil-Tracker/internal/results/fetch"
	resultrepo "github.com/Castellan09/LotoFacil-Tracker/internal/results/repo"
	sharedcache "github.com/Castellan09/LotoFacil-Tracker/internal/shared/cache"
	"github.com/Castellan09/LotoFacil-Tracker/internal/shared/config"
	"github.com/Castellan09/LotoFacil-Tracker/internal/shared/db"
	"github.com/Castellan09/LotoFacil-Tracker/internal/shared/kafka"
	"github.com/Castellan09/LotoFacil-Tracker/internal/shared/logger"
	"github.com/Castellan09/LotoFacil-Tracker/internal/shared/metrics"
	"github.com/Castellan09/LotoFacil-Tracker/internal/stats"
	httpapi "github.com/Castellan09/LotoFacil-Tracker/internal/tracker/http"
)

func main() {
	// carrega config
	cfg := config.Load()
	if cfg.ServiceName == "" {
		cfg.ServiceName = "tracker-api"
	}

	// inicia logger
	log, err := logger.New(cfg.ServiceName, cfg.Env)
	if err != nil {
		panic(fmt.Errorf("logger init: %w", err))
	}
	defer log.Sync()

	log.Info("starting service", zap.String("service", cfg.ServiceName), zap.String("env", cfg.Env))

	// conecta com db Postgres
	pg, err := db.ConnectPostgres(cfg.PostgresDSN)
	if err != nil {
		log.Fatal("failed to connect postgres", zap.Error(err))
	}
	defer pg.Close()

	if err := db.EnsureSchema(context.Background(), pg); err != nil {
		log.Fatal("failed to ensure schema", zap.Error(err))
	}
	log.Info("postgres connected")

	// conecta com cache Redis
	redisClient, err := sharedcache.ConnectRedis(cfg.RedisAddr)
	if err != nil {
		log.Fatal("failed to connect redis", zap.Error(err))
	}
	defer redisClient.Close()
	log.Info("redis connected")

	// writer Kafka para eventos de concurso conferido (gatilho manual também
	// publica)
	writer := kafka.NewWriter(cfg.KafkaBrokers, cfg.TopicContestSettled)
	defer writer.Close()

	betCost, err := decimal.NewFromString(cfg.BetCost)
	if err != nil {
		log.Fatal("invalid BET_COST", zap.String("value", cfg.BetCost), zap.Error(err))
	}

	fetcher := fetch.New(log, fetch.SourcesFromConfig(cfg)...)
	engine := reconcile.New(pg, log, betCost, producer.NewKafkaPublisher(writer))

	api := &httpapi.API{
		Log:     log,
		Bets:    repo.NewPostgres(pg),
		Results: resultrepo.NewPostgres(pg),
		Cache:   cache.New(redisClient, cfg.ResultCacheTTL),
		Stats:   stats.NewStore(redisClient),
		Fetcher: fetcher,
		Engine:  engine,
	}

	// sobe servidor de métricas e health em porta separada
	metrics.StartMetricsServer(cfg.MetricsPort, func(ctx context.Context) error {
		if err := pg.PingContext(ctx); err != nil {
			return fmt.Errorf("postgres: %w", err)
		}
		if err := redisClient.Ping(ctx).Err(); err != nil {
			return fmt.Errorf("redis: %w", err)
		}
		return nil
	})

	srv := &http.Server{
		Addr:         ":" + cfg.HTTPPort,
		Handler:      api.Router(),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
	}

	log.Info("http server starting", zap.String("addr", srv.Addr))
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatal("http server failed", zap.Error(err))
	}
}
