package astroApi

import (
	"context"
	"fmt"

	astroApiAdapter "github.com/admin/astromood/chart-api/internal/adapters/secondary/astroApi"
	"github.com/admin/astromood/chart-api/internal/domain"
	"github.com/admin/astromood/chart-api/internal/ports/service"
)

// Service реализует IAstroAPIService поверх HTTP-клиента астро-API
type Service struct {
	client *astroApiAdapter.Client
}

// New создаёт новый сервис для работы с астро-API
func New(client *astroApiAdapter.Client) service.IAstroAPIService {
	return &Service{
		client: client,
	}
}

// GetChartImage возвращает URL svg-картинки колеса карты
func (s *Service) GetChartImage(ctx context.Context, req domain.ChartComputationRequest) (string, error) {
	url, err := s.client.GetChartImage(ctx, req)
	if err != nil {
		return "", fmt.Errorf("failed to get chart image: %w", err)
	}
	return url, nil
}

// GetPlanetPositions возвращает позиции тел. Пустой список допустим,
// решение о том, что с ним делать, принимает вызывающий.
func (s *Service) GetPlanetPositions(ctx context.Context, req domain.ChartComputationRequest) ([]domain.PlanetPosition, error) {
	positions, err := s.client.GetPlanetPositions(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("failed to get planet positions: %w", err)
	}
	if positions == nil {
		positions = []domain.PlanetPosition{}
	}
	return positions, nil
}
