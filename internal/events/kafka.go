package events

import (
	"context"
	"encoding/json"
	"time"

	"github.com/IBM/sarama"
	"github.com/arvindk1/options-strategy-scanner/internal/logger"
	"github.com/arvindk1/options-strategy-scanner/internal/types"
	"github.com/arvindk1/options-strategy-scanner/pkg/errors"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// KafkaPublisher writes events to one topic, keyed by strategy id so the
// events of a strategy stay ordered within a partition.
type KafkaPublisher struct {
	producer sarama.SyncProducer
	topic    string
	logger   *logger.Logger
	now      func() time.Time
}

// NewProducerConfig is the producer configuration used for scan events.
func NewProducerConfig() *sarama.Config {
	config := sarama.NewConfig()
	config.ClientID = EventSource
	config.Version = sarama.V2_8_0_0
	config.Producer.RequiredAcks = sarama.WaitForAll
	config.Producer.Retry.Max = 3
	config.Producer.Return.Successes = true

	return config
}

func NewKafkaPublisher(brokers []string, topic string, log *logger.Logger) (*KafkaPublisher, error) {
	producer, err := sarama.NewSyncProducer(brokers, NewProducerConfig())
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeEventPublishFailed, "failed to create kafka producer", err)
	}

	return NewKafkaPublisherWithProducer(producer, topic, log), nil
}

// NewKafkaPublisherWithProducer wraps an existing producer.
func NewKafkaPublisherWithProducer(producer sarama.SyncProducer, topic string, log *logger.Logger) *KafkaPublisher {
	if log == nil {
		log = logger.NewNopLogger()
	}

	return &KafkaPublisher{producer: producer, topic: topic, logger: log, now: time.Now}
}

func (p *KafkaPublisher) PublishScanCompleted(ctx context.Context, resp types.ScanResponse) error {
	if err := ctx.Err(); err != nil {
		return errors.Wrap(errors.ErrCodeEventPublishFailed, "publish cancelled", err)
	}

	event := NewScanCompletedEvent(uuid.NewString(), resp, p.now())

	payload, err := json.Marshal(event)
	if err != nil {
		return errors.Wrap(errors.ErrCodeEventPublishFailed, "failed to encode event", err)
	}

	partition, offset, err := p.producer.SendMessage(&sarama.ProducerMessage{
		Topic: p.topic,
		Key:   sarama.StringEncoder(resp.StrategyID),
		Value: sarama.ByteEncoder(payload),
	})
	if err != nil {
		return errors.Wrapf(errors.ErrCodeEventPublishFailed, err, "failed to publish scan %s", resp.ScanID)
	}

	p.logger.Debug("Published scan event",
		zap.String("scan_id", resp.ScanID),
		zap.String("topic", p.topic),
		zap.Int32("partition", partition),
		zap.Int64("offset", offset))

	return nil
}

func (p *KafkaPublisher) Close() error {
	return p.producer.Close()
}
