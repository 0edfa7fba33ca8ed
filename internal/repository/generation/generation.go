package generationRepo

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/admin/astromood/chart-api/internal/domain"
	"github.com/admin/astromood/chart-api/internal/ports/persistence"
	ports "github.com/admin/astromood/chart-api/internal/ports/repository"
	"github.com/google/uuid"
)

const timeoutErrorMessage = "generation did not finish in time"

type generationColumns struct {
	TableName   string
	UserID      string
	Version     string
	AttemptID   string
	Status      string
	ChartURL    string
	StoragePath string
	FailedStep  string
	Error       string
	StartedAt   string
	UpdatedAt   string
}

type Repository struct {
	db      persistence.Persistence
	Log     *slog.Logger
	columns generationColumns
}

// New создаёт репозиторий журнала генераций
func New(db persistence.Persistence, log *slog.Logger) ports.IGenerationRepo {
	return &Repository{
		db:  db,
		Log: log,
		columns: generationColumns{
			TableName:   "chart_generations",
			UserID:      "user_id",
			Version:     "version",
			AttemptID:   "attempt_id",
			Status:      "status",
			ChartURL:    "chart_url",
			StoragePath: "storage_path",
			FailedStep:  "failed_step",
			Error:       "error",
			StartedAt:   "started_at",
			UpdatedAt:   "updated_at",
		},
	}
}

func (r *Repository) allColumns() string {
	c := r.columns
	return strings.Join([]string{
		c.UserID, c.Version, c.AttemptID, c.Status, c.ChartURL,
		c.StoragePath, c.FailedStep, c.Error, c.StartedAt, c.UpdatedAt,
	}, ", ")
}

// Begin атомарно увеличивает версию пользователя
func (r *Repository) Begin(ctx context.Context, userID string, attemptID uuid.UUID) (*domain.Generation, error) {
	c := r.columns
	query := fmt.Sprintf(`INSERT INTO %s (%s, %s, %s, %s, %s)
		VALUES ($1, 1, $2, $3, NOW())
		ON CONFLICT (%s) DO UPDATE SET
			%s = %s.%s + 1,
			%s = EXCLUDED.%s,
			%s = EXCLUDED.%s,
			%s = NULL,
			%s = NULL,
			%s = NOW(),
			%s = NOW()
		RETURNING %s`,
		c.TableName, c.UserID, c.Version, c.AttemptID, c.Status, c.StartedAt,
		c.UserID,
		c.Version, c.TableName, c.Version,
		c.AttemptID, c.AttemptID,
		c.Status, c.Status,
		c.FailedStep,
		c.Error,
		c.StartedAt,
		c.UpdatedAt,
		r.allColumns())

	var gen domain.Generation
	if err := r.db.Get(ctx, &gen, query, userID, attemptID, domain.GenerationStatusPending); err != nil {
		r.Log.Error("failed to begin generation", "error", err, "user_id", userID)
		return nil, fmt.Errorf("failed to begin generation: %w", err)
	}

	return &gen, nil
}

// MarkReady обновляет строку только если версия не сменилась
func (r *Repository) MarkReady(ctx context.Context, gen *domain.Generation) error {
	c := r.columns
	query := fmt.Sprintf(`UPDATE %s SET %s = $1, %s = $2, %s = $3, %s = NULL, %s = NULL, %s = NOW()
		WHERE %s = $4 AND %s = $5`,
		c.TableName, c.Status, c.ChartURL, c.StoragePath, c.FailedStep, c.Error, c.UpdatedAt,
		c.UserID, c.Version)

	rows, err := r.db.ExecWithResult(ctx, query,
		domain.GenerationStatusReady, gen.ChartURL, gen.StoragePath, gen.UserID, gen.Version)
	if err != nil {
		r.Log.Error("failed to mark generation ready", "error", err, "user_id", gen.UserID, "version", gen.Version)
		return fmt.Errorf("failed to mark generation ready: %w", err)
	}
	if rows == 0 {
		return domain.ErrGenerationSuperseded
	}

	gen.Status = domain.GenerationStatusReady
	return nil
}

// MarkFailed фиксирует сбой, если попытка всё ещё актуальна и в pending
func (r *Repository) MarkFailed(ctx context.Context, gen *domain.Generation) error {
	c := r.columns
	query := fmt.Sprintf(`UPDATE %s SET %s = $1, %s = $2, %s = $3, %s = NOW()
		WHERE %s = $4 AND %s = $5 AND %s = $6`,
		c.TableName, c.Status, c.FailedStep, c.Error, c.UpdatedAt,
		c.UserID, c.Version, c.Status)

	rows, err := r.db.ExecWithResult(ctx, query,
		domain.GenerationStatusFailed, gen.FailedStep, gen.Error, gen.UserID, gen.Version, domain.GenerationStatusPending)
	if err != nil {
		r.Log.Error("failed to mark generation failed", "error", err, "user_id", gen.UserID, "version", gen.Version)
		return fmt.Errorf("failed to mark generation failed: %w", err)
	}
	if rows == 0 {
		return domain.ErrGenerationSuperseded
	}

	gen.Status = domain.GenerationStatusFailed
	return nil
}

// GetByUserID возвращает последнюю попытку пользователя
func (r *Repository) GetByUserID(ctx context.Context, userID string) (*domain.Generation, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE %s = $1`,
		r.allColumns(), r.columns.TableName, r.columns.UserID)

	var gen domain.Generation
	if err := r.db.Get(ctx, &gen, query, userID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		r.Log.Error("failed to get generation", "error", err, "user_id", userID)
		return nil, fmt.Errorf("failed to get generation: %w", err)
	}

	return &gen, nil
}

// DeleteByUserID удаляет журнал пользователя, отсутствие строки не ошибка
func (r *Repository) DeleteByUserID(ctx context.Context, userID string) error {
	query := fmt.Sprintf(`DELETE FROM %s WHERE %s = $1`, r.columns.TableName, r.columns.UserID)
	if err := r.db.Exec(ctx, query, userID); err != nil {
		r.Log.Error("failed to delete generation", "error", err, "user_id", userID)
		return fmt.Errorf("failed to delete generation: %w", err)
	}
	return nil
}

// FailStalePending переводит зависшие попытки в failed с шагом timeout
func (r *Repository) FailStalePending(ctx context.Context, olderThan time.Time) (int64, error) {
	c := r.columns
	query := fmt.Sprintf(`UPDATE %s SET %s = $1, %s = $2, %s = $3, %s = NOW()
		WHERE %s = $4 AND %s < $5`,
		c.TableName, c.Status, c.FailedStep, c.Error, c.UpdatedAt,
		c.Status, c.StartedAt)

	rows, err := r.db.ExecWithResult(ctx, query,
		domain.GenerationStatusFailed, domain.StepTimeout, timeoutErrorMessage,
		domain.GenerationStatusPending, olderThan)
	if err != nil {
		r.Log.Error("failed to fail stale generations", "error", err)
		return 0, fmt.Errorf("failed to fail stale generations: %w", err)
	}

	return rows, nil
}
