package activity

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/twmb/franz-go/pkg/kgo"

	"github.com/google/uuid"
)

// KafkaSink exports activity events to a Kafka topic for downstream
// consumers (analytics, moderation). Delivery is fire-and-forget; the
// in-process store remains the queryable copy.
type KafkaSink struct {
	client *kgo.Client
	topic  string
}

func NewKafkaSink(brokers []string, topic string) (*KafkaSink, error) {
	client, err := kgo.NewClient(
		kgo.SeedBrokers(brokers...),
		kgo.ProducerBatchMaxBytes(1<<20),
	)
	if err != nil {
		return nil, fmt.Errorf("create kafka client: %w", err)
	}
	return &KafkaSink{client: client, topic: topic}, nil
}

type kafkaPayload struct {
	Timestamp string `json:"timestamp"`
	Actor     string `json:"actor,omitempty"`
	Action    string `json:"action"`
	Object    string `json:"object,omitempty"`
	Device    string `json:"device,omitempty"`
}

func (s *KafkaSink) Publish(ctx context.Context, event Event) error {
	payload := kafkaPayload{
		Timestamp: event.Timestamp.Format(time.RFC3339Nano),
		Action:    string(event.Action),
		Object:    event.Object,
		Device:    event.Device,
	}
	if !event.Actor.IsNil() {
		payload.Actor = uuid.UUID(event.Actor).String()
	}

	value, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal activity payload: %w", err)
	}

	record := &kgo.Record{
		Topic: s.topic,
		Key:   []byte(payload.Actor),
		Value: value,
	}
	s.client.Produce(ctx, record, nil)
	return nil
}

func (s *KafkaSink) Close() {
	s.client.Close()
}
