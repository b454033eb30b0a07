package main

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	kafkago "github.com/segmentio/kafka-go"
	"go.uber.org/zap"

	"github.com/Castellan09/LotoFacil-Tracker/internal/shared/cache"
	"github.com/Castellan09/LotoFacil-Tracker/internal/shared/config"
	"github.com/Castellan09/LotoFacil-Tracker/internal/shared/kafka"
	"github.com/Castellan09/LotoFacil-Tracker/internal/shared/logger"
	"github.com/Castellan09/LotoFacil-Tracker/internal/shared/metrics"
	"github.com/Castellan09/LotoFacil-Tracker/internal/stats"
	ev "github.com/Castellan09/LotoFacil-Tracker/pkg/contracts/events"
)

func main() {
	cfg := config.Load()
	if cfg.ServiceName == "" {
		cfg.ServiceName = "stats-worker"
	}

	log, err := logger.New(cfg.ServiceName, cfg.Env)
	if err != nil {
		panic(fmt.Errorf("logger init: %w", err))
	}
	defer log.Sync()

	redisClient, err := cache.ConnectRedis(cfg.RedisAddr)
	if err != nil {
		log.Fatal("redis connect", zap.Error(err))
	}
	defer redisClient.Close()

	store := stats.NewStore(redisClient)

	// Kafka consumer: consome contest_settled para manter os agregados
	reader := kafkago.NewReader(kafkago.ReaderConfig{
		Brokers:  strings.Split(cfg.KafkaBrokers, ","),
		GroupID:  "stats-worker",
		Topic:    cfg.TopicContestSettled,
		MinBytes: 1e3,
		MaxBytes: 10e6,
	})
	defer reader.Close()

	var dlqWriter *kafkago.Writer
	if cfg.TopicContestSettledDLQ != "" {
		dlqWriter = kafka.NewWriter(cfg.KafkaBrokers, cfg.TopicContestSettledDLQ)
		defer dlqWriter.Close()
	}

	metrics.StartMetricsServer(cfg.MetricsPort, func(ctx context.Context) error {
		return redisClient.Ping(ctx).Err()
	})

	log.Info("stats-worker started", zap.String("consume", cfg.TopicContestSettled))

	ctx := context.Background()

	// Loop principal: consome eventos e aplica nos agregados por estratégia
	for {
		msg, err := reader.ReadMessage(ctx)
		if err != nil {
			log.Warn("kafka read", zap.Error(err))
			time.Sleep(time.Second)
			continue
		}

		var settled ev.ContestSettled
		if jerr := json.Unmarshal(msg.Value, &settled); jerr != nil {
			log.Error("unmarshal contest_settled", zap.Error(jerr))
			if dlqWriter != nil {
				_ = kafka.WriteJSON(ctx, dlqWriter, string(msg.Key), msg.Value)
			}
			continue
		}

		if err := store.Apply(ctx, settled); err != nil {
			log.Error("apply stats",
				zap.Int("contest", settled.ContestNumber),
				zap.Error(err),
			)
			// Backoff simples para evitar flood em caso de erro
			time.Sleep(500 * time.Millisecond)
			continue
		}

		log.Info("stats applied",
			zap.Int("contest", settled.ContestNumber),
			zap.Int("betsChecked", settled.BetsChecked),
		)
	}
}
