package event

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/IBM/sarama"
	"github.com/harish-v07/CreatorHub/internal/config"
	"github.com/harish-v07/CreatorHub/internal/logger"
)

type KafkaPublisher struct {
	producer sarama.SyncProducer
	prefix   string
	now      func() time.Time
}

// NewPublisher connects to the configured brokers. With no brokers it
// returns a NopPublisher.
func NewPublisher(cfg config.KafkaConfig) (Publisher, error) {
	if len(cfg.Brokers) == 0 {
		logger.Info("Kafka brokers not configured, domain events disabled")
		return NopPublisher{}, nil
	}

	sc := sarama.NewConfig()
	sc.Producer.Return.Successes = true
	sc.Producer.RequiredAcks = sarama.WaitForAll
	sc.Producer.Retry.Max = 3

	producer, err := sarama.NewSyncProducer(cfg.Brokers, sc)
	if err != nil {
		return nil, fmt.Errorf("failed to start kafka producer: %w", err)
	}

	logger.Info("Kafka producer initialized for %v", cfg.Brokers)
	return newKafkaPublisher(producer, cfg.TopicPrefix), nil
}

func newKafkaPublisher(producer sarama.SyncProducer, prefix string) *KafkaPublisher {
	return &KafkaPublisher{producer: producer, prefix: prefix, now: time.Now}
}

func (p *KafkaPublisher) Publish(_ context.Context, topic, key string, payload interface{}) error {
	data, err := json.Marshal(Envelope{
		Type:       topic,
		OccurredAt: p.now().UTC(),
		Payload:    payload,
	})
	if err != nil {
		return fmt.Errorf("failed to marshal %s event: %w", topic, err)
	}

	msg := &sarama.ProducerMessage{
		Topic: p.prefix + topic,
		Key:   sarama.StringEncoder(key),
		Value: sarama.ByteEncoder(data),
	}

	partition, offset, err := p.producer.SendMessage(msg)
	if err != nil {
		return fmt.Errorf("failed to send %s event: %w", topic, err)
	}

	logger.Debug("Published %s event key=%s partition=%d offset=%d", msg.Topic, key, partition, offset)
	return nil
}

func (p *KafkaPublisher) Close() error {
	return p.producer.Close()
}
