package kafka

import (
	"strings"
)

// Config конфигурация Kafka producer. Пустой Brokers отключает публикацию событий.
type Config struct {
	Brokers          string `envconfig:"BROKERS"`                                   // "broker1:9092,broker2:9092"
	Topic            string `envconfig:"TOPIC" default:"astromood.chart.generated"` // название топика
	SecurityProtocol string `envconfig:"SECURITY_PROTOCOL"`                         // "SASL_SSL", "PLAINTEXT"
	SASLMechanism    string `envconfig:"SASL_MECHANISM"`                            // "PLAIN", "SCRAM-SHA-256"
	SASLUsername     string `envconfig:"SASL_USERNAME"`
	SASLPassword     string `envconfig:"SASL_PASSWORD"`
}

// Enabled true, если заданы брокеры
func (c *Config) Enabled() bool {
	return strings.TrimSpace(c.Brokers) != ""
}

// GetBrokers возвращает список брокеров из строки
func (c *Config) GetBrokers() []string {
	var brokers []string
	for _, b := range strings.Split(c.Brokers, ",") {
		if b = strings.TrimSpace(b); b != "" {
			brokers = append(brokers, b)
		}
	}
	return brokers
}
