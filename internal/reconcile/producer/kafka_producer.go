package producer

import (
	"context"
	"encoding/json"
	"strconv"
	"time"

	"github.com/segmentio/kafka-go"

	"github.com/Castellan09/LotoFacil-Tracker/pkg/contracts/events"
)

type KafkaPublisher struct {
	Writer *kafka.Writer
}

func NewKafkaPublisher(w *kafka.Writer) *KafkaPublisher {
	return &KafkaPublisher{Writer: w}
}

// PublishContestSettled publica o evento chaveado pelo número do concurso,
// mantendo a ordem por concurso dentro da partição.
func (p *KafkaPublisher) PublishContestSettled(ctx context.Context, e events.ContestSettled) error {
	if e.Ts.IsZero() {
		e.Ts = time.Now()
	}
	b, _ := json.Marshal(e)
	return p.Writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(strconv.Itoa(e.ContestNumber)),
		Value: b,
	})
}
