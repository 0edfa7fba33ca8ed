package repository

import (
	"context"
	"time"

	"github.com/admin/astromood/chart-api/internal/domain"
	"github.com/google/uuid"
)

// IGenerationRepo журнал генераций карт
type IGenerationRepo interface {
	// Begin увеличивает версию пользователя и помечает попытку как pending
	Begin(ctx context.Context, userID string, attemptID uuid.UUID) (*domain.Generation, error)
	// MarkReady переводит попытку в ready, если её версия всё ещё актуальна.
	// Иначе возвращает domain.ErrGenerationSuperseded.
	MarkReady(ctx context.Context, gen *domain.Generation) error
	// MarkFailed фиксирует шаг и текст ошибки для актуальной версии
	MarkFailed(ctx context.Context, gen *domain.Generation) error
	GetByUserID(ctx context.Context, userID string) (*domain.Generation, error)
	DeleteByUserID(ctx context.Context, userID string) error
	// FailStalePending помечает failed все pending-попытки, начатые раньше olderThan
	FailStalePending(ctx context.Context, olderThan time.Time) (int64, error)
}
