package service

import (
	"context"

	"github.com/admin/astromood/chart-api/internal/domain"
)

// ITimezoneResolver определяет часовой пояс по координатам
type ITimezoneResolver interface {
	Resolve(ctx context.Context, lat, lon float64) (domain.TimezoneInfo, error)
}
