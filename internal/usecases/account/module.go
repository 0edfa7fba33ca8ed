package account

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/admin/astromood/chart-api/internal/domain"
	"github.com/admin/astromood/chart-api/internal/ports/identity"
	"github.com/admin/astromood/chart-api/internal/ports/repository"
	"github.com/admin/astromood/chart-api/internal/ports/storage"
)

// Service удаление аккаунта пользователя вместе с его картой
type Service struct {
	Storage        storage.IObjectStorage
	GenerationRepo repository.IGenerationRepo
	Identity       identity.IIdentityProvider
	Log            *slog.Logger
}

func New(
	objectStorage storage.IObjectStorage,
	generationRepo repository.IGenerationRepo,
	identityProvider identity.IIdentityProvider,
	log *slog.Logger,
) *Service {
	return &Service{
		Storage:        objectStorage,
		GenerationRepo: generationRepo,
		Identity:       identityProvider,
		Log:            log,
	}
}

// DeleteAccount удаляет картинку карты, журнал генераций и самого пользователя.
// Ошибки первых двух шагов только логируются.
func (s *Service) DeleteAccount(ctx context.Context, userID string) error {
	if userID == "" {
		return domain.NewMissingFieldsError([]string{"userId"})
	}
	log := s.Log.With("user_id", userID)

	path := domain.ChartStoragePath(userID)
	if err := s.Storage.Delete(ctx, path); err != nil {
		log.WarnContext(ctx, "failed to delete chart image", "error", err, "storage_path", path)
	}

	if err := s.GenerationRepo.DeleteByUserID(ctx, userID); err != nil {
		log.WarnContext(ctx, "failed to delete generation history", "error", err)
	}

	if err := s.Identity.DeleteUser(ctx, userID); err != nil {
		log.ErrorContext(ctx, "failed to delete identity user", "error", err)
		return fmt.Errorf("failed to delete user: %w", err)
	}

	log.InfoContext(ctx, "account deleted")
	return nil
}
