package service

import (
	"context"

	"github.com/admin/astromood/chart-api/internal/domain"
)

// IAstroAPIService интерфейс для работы с астро-API
type IAstroAPIService interface {
	// GetChartImage возвращает URL svg-картинки натальной карты
	GetChartImage(ctx context.Context, req domain.ChartComputationRequest) (string, error)
	// GetPlanetPositions возвращает позиции планет и асцендента
	GetPlanetPositions(ctx context.Context, req domain.ChartComputationRequest) ([]domain.PlanetPosition, error)
}
