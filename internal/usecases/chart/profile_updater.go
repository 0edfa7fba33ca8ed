package chart

import (
	"context"

	"github.com/admin/astromood/chart-api/internal/domain"
)

// UpdateProfileMetadata записывает поля карты в метаданные пользователя у провайдера
func (s *Service) UpdateProfileMetadata(ctx context.Context, userID string, update domain.ProfileMetadataUpdate) error {
	if err := s.Identity.UpdateUserMetadata(ctx, userID, update); err != nil {
		return domain.NewUpstreamError(domain.StepUpdateProfile, err)
	}
	return nil
}
