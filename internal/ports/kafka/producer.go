package kafka

import (
	"context"

	"github.com/admin/astromood/chart-api/internal/domain"
)

// IEventPublisher публикация доменных событий в Kafka
type IEventPublisher interface {
	PublishChartGenerated(ctx context.Context, event domain.ChartGeneratedEvent) error
	Close() error
}
