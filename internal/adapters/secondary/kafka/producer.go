package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"

	"log/slog"

	"github.com/IBM/sarama"
	"github.com/admin/astromood/chart-api/internal/domain"
)

const eventTypeChartGenerated = "chart.generated"

// Producer реализация Kafka producer
type Producer struct {
	producer sarama.SyncProducer
	topic    string
	log      *slog.Logger
}

// NewProducer создаёт новый Kafka producer
func NewProducer(cfg *Config, log *slog.Logger) (*Producer, error) {
	config := sarama.NewConfig()
	config.Producer.Return.Successes = true
	config.Producer.RequiredAcks = sarama.WaitForAll
	config.Producer.Retry.Max = 5

	if cfg.SecurityProtocol == "SASL_SSL" || cfg.SecurityProtocol == "SASL_PLAINTEXT" {
		config.Net.SASL.Enable = true
		config.Net.SASL.Mechanism = sarama.SASLTypePlaintext
		if cfg.SASLMechanism == "SCRAM-SHA-256" {
			config.Net.SASL.Mechanism = sarama.SASLTypeSCRAMSHA256
		}
		config.Net.SASL.User = cfg.SASLUsername
		config.Net.SASL.Password = cfg.SASLPassword
		// TLS только для SASL_SSL
		if cfg.SecurityProtocol == "SASL_SSL" {
			config.Net.TLS.Enable = true
		}
	}

	producer, err := sarama.NewSyncProducer(cfg.GetBrokers(), config)
	if err != nil {
		return nil, fmt.Errorf("failed to create kafka producer: %w", err)
	}

	log.Info("kafka producer created",
		"brokers", cfg.Brokers,
		"topic", cfg.Topic,
	)

	return NewProducerFromSync(producer, cfg.Topic, log), nil
}

// NewProducerFromSync оборачивает готовый sarama.SyncProducer
func NewProducerFromSync(producer sarama.SyncProducer, topic string, log *slog.Logger) *Producer {
	return &Producer{
		producer: producer,
		topic:    topic,
		log:      log,
	}
}

// PublishChartGenerated публикует событие об успешной генерации.
// Ключ сообщения user_id, чтобы события одного пользователя шли в одну партицию.
func (p *Producer) PublishChartGenerated(ctx context.Context, event domain.ChartGeneratedEvent) error {
	value, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	msg := &sarama.ProducerMessage{
		Topic: p.topic,
		Key:   sarama.StringEncoder(event.UserID),
		Value: sarama.ByteEncoder(value),
		Headers: []sarama.RecordHeader{
			{Key: []byte("event_type"), Value: []byte(eventTypeChartGenerated)},
			{Key: []byte("generation_id"), Value: []byte(event.GenerationID.String())},
			{Key: []byte("version"), Value: []byte(strconv.FormatInt(event.Version, 10))},
		},
	}

	partition, offset, err := p.producer.SendMessage(msg)
	if err != nil {
		p.log.Debug("kafka send failed",
			"error", err,
			"topic", p.topic,
			"user_id", event.UserID,
		)
		return fmt.Errorf("kafka send failed [topic=%s, key=%s]: %w", p.topic, event.UserID, err)
	}

	p.log.Debug("chart event sent to kafka",
		"topic", p.topic,
		"partition", partition,
		"offset", offset,
		"user_id", event.UserID,
		"version", event.Version,
	)

	return nil
}

// Close закрывает producer
func (p *Producer) Close() error {
	if err := p.producer.Close(); err != nil {
		return fmt.Errorf("failed to close kafka producer: %w", err)
	}
	p.log.Info("kafka producer closed")
	return nil
}
