package inmemory

import (
	"context"
	"sync"
	"time"

	"github.com/admin/astromood/chart-api/internal/domain"
	"github.com/google/uuid"
)

// GenerationRepo журнал генераций в памяти процесса, когда Postgres не настроен
type GenerationRepo struct {
	mu   sync.Mutex
	rows map[string]domain.Generation
	now  func() time.Time
}

func NewGenerationRepo() *GenerationRepo {
	return &GenerationRepo{
		rows: make(map[string]domain.Generation),
		now:  time.Now,
	}
}

func (r *GenerationRepo) Begin(_ context.Context, userID string, attemptID uuid.UUID) (*domain.Generation, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := r.now()
	gen := r.rows[userID]
	gen.UserID = userID
	gen.Version++
	gen.AttemptID = attemptID
	gen.Status = domain.GenerationStatusPending
	gen.FailedStep = nil
	gen.Error = nil
	gen.StartedAt = now
	gen.UpdatedAt = now
	r.rows[userID] = gen

	return &gen, nil
}

func (r *GenerationRepo) MarkReady(_ context.Context, gen *domain.Generation) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	row, ok := r.rows[gen.UserID]
	if !ok || row.Version != gen.Version {
		return domain.ErrGenerationSuperseded
	}

	row.Status = domain.GenerationStatusReady
	row.ChartURL = gen.ChartURL
	row.StoragePath = gen.StoragePath
	row.FailedStep = nil
	row.Error = nil
	row.UpdatedAt = r.now()
	r.rows[gen.UserID] = row

	gen.Status = domain.GenerationStatusReady
	return nil
}

func (r *GenerationRepo) MarkFailed(_ context.Context, gen *domain.Generation) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	row, ok := r.rows[gen.UserID]
	if !ok || row.Version != gen.Version || row.Status != domain.GenerationStatusPending {
		return domain.ErrGenerationSuperseded
	}

	row.Status = domain.GenerationStatusFailed
	row.FailedStep = gen.FailedStep
	row.Error = gen.Error
	row.UpdatedAt = r.now()
	r.rows[gen.UserID] = row

	gen.Status = domain.GenerationStatusFailed
	return nil
}

func (r *GenerationRepo) GetByUserID(_ context.Context, userID string) (*domain.Generation, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	row, ok := r.rows[userID]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &row, nil
}

func (r *GenerationRepo) DeleteByUserID(_ context.Context, userID string) error {
	r.mu.Lock()
	delete(r.rows, userID)
	r.mu.Unlock()
	return nil
}

func (r *GenerationRepo) FailStalePending(_ context.Context, olderThan time.Time) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	step := domain.StepTimeout.String()
	msg := "generation did not finish in time"

	var n int64
	for userID, row := range r.rows {
		if row.Status != domain.GenerationStatusPending || !row.StartedAt.Before(olderThan) {
			continue
		}
		row.Status = domain.GenerationStatusFailed
		row.FailedStep = &step
		row.Error = &msg
		row.UpdatedAt = r.now()
		r.rows[userID] = row
		n++
	}
	return n, nil
}
