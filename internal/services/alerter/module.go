package alerter

import (
	"context"
	"log/slog"

	"github.com/admin/astromood/chart-api/internal/adapters/secondary/alerter"
	"github.com/admin/astromood/chart-api/internal/ports/service"
)

// Service реализует IAlerterService для отправки алертов.
// Без настроенного Telegram алерт только пишется в лог.
type Service struct {
	client *alerter.Client
	log    *slog.Logger
}

// New создаёт новый сервис для отправки алертов
func New(client *alerter.Client, log *slog.Logger) service.IAlerterService {
	return &Service{
		client: client,
		log:    log,
	}
}

// SendAlert отправляет алерт
func (s *Service) SendAlert(ctx context.Context, message string) error {
	if s.client == nil {
		s.log.Warn("alert", "message", message)
		return nil
	}

	return s.client.SendAlert(ctx, message)
}
