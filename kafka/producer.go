package kafka

import (
	"encoding/json"
	"fmt"

	"github.com/IBM/sarama"
)

// Producer publishes generation requests onto the request topic.
type Producer struct {
	producer sarama.SyncProducer
	topic    string
}

// NewProducer connects a synchronous producer to brokers. Messages are
// acked by all in-sync replicas before Enqueue returns.
func NewProducer(brokers []string, topic string) (*Producer, error) {
	config := sarama.NewConfig()
	config.Version = sarama.V3_6_0_0
	config.Producer.RequiredAcks = sarama.WaitForAll
	config.Producer.Retry.Max = 3
	config.Producer.Return.Successes = true

	producer, err := sarama.NewSyncProducer(brokers, config)
	if err != nil {
		return nil, fmt.Errorf("failed to create producer: %w", err)
	}

	return &Producer{producer: producer, topic: topic}, nil
}

// Enqueue publishes one request keyed by its topic text.
func (p *Producer) Enqueue(req GenerationRequest) (partition int32, offset int64, err error) {
	blob, err := json.Marshal(req)
	if err != nil {
		return 0, 0, fmt.Errorf("encode request: %w", err)
	}

	return p.producer.SendMessage(&sarama.ProducerMessage{
		Topic: p.topic,
		Key:   sarama.StringEncoder(req.Topic),
		Value: sarama.ByteEncoder(blob),
	})
}

// Close shuts the underlying producer down.
func (p *Producer) Close() error {
	return p.producer.Close()
}
