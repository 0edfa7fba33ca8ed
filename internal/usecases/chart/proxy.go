package chart

import (
	"context"
	"fmt"

	"github.com/admin/astromood/chart-api/internal/domain"
)

// ComputeChart прямой прокси к астро-API без сохранения
func (s *Service) ComputeChart(ctx context.Context, req domain.ChartComputationRequest) (string, error) {
	url, err := s.AstroAPI.GetChartImage(ctx, req)
	if err != nil {
		s.Log.ErrorContext(ctx, "failed to compute chart", "error", err)
		return "", fmt.Errorf("failed to compute chart: %w", err)
	}
	return url, nil
}

// ComputePlanets прямой прокси к астро-API без сохранения
func (s *Service) ComputePlanets(ctx context.Context, req domain.ChartComputationRequest) ([]domain.PlanetPosition, error) {
	positions, err := s.AstroAPI.GetPlanetPositions(ctx, req)
	if err != nil {
		s.Log.ErrorContext(ctx, "failed to compute planets", "error", err)
		return nil, fmt.Errorf("failed to compute planets: %w", err)
	}
	return positions, nil
}
