package broker

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/IBM/sarama"
)

const kafkaMaxRetries = 3

// KafkaBroker publishes events to a Kafka topic, keyed by session id so a
// match's events stay ordered within a partition.
type KafkaBroker struct {
	producer sarama.SyncProducer
	mu       sync.RWMutex
	closed   bool
}

// ProducerConfig is the sarama configuration used for the event producer.
func ProducerConfig() *sarama.Config {
	config := sarama.NewConfig()
	config.Producer.RequiredAcks = sarama.WaitForAll
	config.Producer.Retry.Max = kafkaMaxRetries
	config.Producer.Return.Successes = true
	config.Producer.Compression = sarama.CompressionSnappy
	config.Producer.Flush.Frequency = 100 * time.Millisecond
	config.Version = sarama.V2_8_0_0
	return config
}

func NewKafkaBroker(brokers []string) (*KafkaBroker, error) {
	producer, err := sarama.NewSyncProducer(brokers, ProducerConfig())
	if err != nil {
		return nil, fmt.Errorf("failed to create Kafka producer: %w", err)
	}
	return NewKafkaBrokerWithProducer(producer), nil
}

func NewKafkaBrokerWithProducer(producer sarama.SyncProducer) *KafkaBroker {
	return &KafkaBroker{producer: producer}
}

func (b *KafkaBroker) Publish(_ context.Context, channel string, ev Event) error {
	b.mu.RLock()
	defer b.mu.RUnlock()
	if b.closed {
		return ErrClosed
	}

	data, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	msg := &sarama.ProducerMessage{
		Topic: channel,
		Key:   sarama.StringEncoder(ev.SessionID),
		Value: sarama.ByteEncoder(data),
		Headers: []sarama.RecordHeader{
			{Key: []byte("kind"), Value: []byte(ev.Kind)},
		},
		Timestamp: ev.At,
	}
	if _, _, err := b.producer.SendMessage(msg); err != nil {
		return fmt.Errorf("kafka publish to %s: %w", channel, err)
	}
	return nil
}

func (b *KafkaBroker) Type() string { return "kafka" }

func (b *KafkaBroker) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return nil
	}
	b.closed = true
	if err := b.producer.Close(); err != nil {
		return fmt.Errorf("failed to close producer: %w", err)
	}
	return nil
}
