package publish

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strconv"

	"github.com/NotCoffee418/smartcity_solar/pkg/livefeed"
	"github.com/segmentio/kafka-go"
)

type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// KafkaPublisher writes one message per house, keyed by house id so a
// house's readings stay ordered within its partition.
type KafkaPublisher struct {
	writer messageWriter
}

func NewKafkaPublisher(brokers []string, topic string) *KafkaPublisher {
	log.Printf("Kafka: Publishing readings to %s on %v", topic, brokers)
	return &KafkaPublisher{writer: &kafka.Writer{
		Addr:                   kafka.TCP(brokers...),
		Topic:                  topic,
		Balancer:               &kafka.Hash{},
		RequiredAcks:           kafka.RequireAll,
		AllowAutoTopicCreation: true,
	}}
}

func (p *KafkaPublisher) Publish(ctx context.Context, update *livefeed.TickUpdate) error {
	msgs, err := kafkaMessages(update)
	if err != nil || len(msgs) == 0 {
		return err
	}
	if err := p.writer.WriteMessages(ctx, msgs...); err != nil {
		return fmt.Errorf("failed to write %d readings to kafka: %w", len(msgs), err)
	}
	return nil
}

func (p *KafkaPublisher) Close() error {
	return p.writer.Close()
}

func kafkaMessages(update *livefeed.TickUpdate) ([]kafka.Message, error) {
	readings := buildMessages(update)
	msgs := make([]kafka.Message, 0, len(readings))
	for _, r := range readings {
		payload, err := json.Marshal(r)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal reading: %w", err)
		}
		msgs = append(msgs, kafka.Message{
			Key:   []byte(strconv.Itoa(r.HouseID)),
			Value: payload,
		})
	}
	return msgs, nil
}
