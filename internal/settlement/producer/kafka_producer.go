package producer

import (
	"context"
	"encoding/json"

	"github.com/segmentio/kafka-go"

	"github.com/rfontanella/playbet-platform/pkg/contracts/events"
)

// KafkaPublisher publica os eventos de fechamento em dois tópicos:
// bet_settled (um por aposta) e event_settled (resumo por evento)
type KafkaPublisher struct {
	BetWriter   *kafka.Writer
	EventWriter *kafka.Writer
}

func NewKafkaPublisher(betWriter, eventWriter *kafka.Writer) *KafkaPublisher {
	return &KafkaPublisher{BetWriter: betWriter, EventWriter: eventWriter}
}

func (p *KafkaPublisher) PublishBetSettled(ctx context.Context, e events.BetSettled) error {
	b, _ := json.Marshal(e)
	return p.BetWriter.WriteMessages(ctx, kafka.Message{Key: []byte(e.BetID), Value: b})
}

func (p *KafkaPublisher) PublishEventSettled(ctx context.Context, e events.EventSettled) error {
	b, _ := json.Marshal(e)
	return p.EventWriter.WriteMessages(ctx, kafka.Message{Key: []byte(e.EventID), Value: b})
}
