package sink

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/IBM/sarama"
)

// KafkaSink writes envelopes to a Kafka topic, keyed by wallet address so
// one wallet's events stay ordered within a partition.
type KafkaSink struct {
	topic string
	p     sarama.SyncProducer
}

// NewKafkaSink connects a synchronous producer to brokers.
func NewKafkaSink(brokers []string, topic string, cfg *sarama.Config) (*KafkaSink, error) {
	if cfg == nil {
		cfg = sarama.NewConfig()
		cfg.Producer.RequiredAcks = sarama.WaitForLocal
		cfg.Producer.Retry.Max = 3
		cfg.Producer.Retry.Backoff = 200 * time.Millisecond
	}
	// SyncProducer requires both
	cfg.Producer.Return.Successes = true
	cfg.Producer.Return.Errors = true

	p, err := sarama.NewSyncProducer(brokers, cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create kafka producer: %w", err)
	}
	return NewKafkaSinkFromProducer(p, topic), nil
}

// NewKafkaSinkFromProducer wraps an existing producer.
func NewKafkaSinkFromProducer(p sarama.SyncProducer, topic string) *KafkaSink {
	return &KafkaSink{topic: topic, p: p}
}

func (s *KafkaSink) Name() string { return "kafka" }

// Publish sends env and waits for the broker ack. The producer does not take
// a context, so ctx is only checked before sending.
func (s *KafkaSink) Publish(ctx context.Context, env Envelope) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	b, err := json.Marshal(env)
	if err != nil {
		return err
	}

	msg := &sarama.ProducerMessage{
		Topic: s.topic,
		Key:   sarama.StringEncoder(env.Key),
		Value: sarama.ByteEncoder(b),
	}
	if _, _, err := s.p.SendMessage(msg); err != nil {
		return fmt.Errorf("kafka publish failed: %w", err)
	}
	return nil
}

func (s *KafkaSink) Close() error {
	if s.p != nil {
		return s.p.Close()
	}
	return nil
}
