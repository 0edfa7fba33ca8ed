package jobs

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/admin/astromood/chart-api/internal/pkg/metrics"
	"github.com/admin/astromood/chart-api/internal/ports/repository"
)

const (
	staleReaperName     = "stale-generation-reaper"
	staleReaperInterval = 10 * time.Minute
	staleAfter          = 15 * time.Minute
)

// StaleGenerationReaper помечает failed попытки, зависшие в pending.
// Такое остаётся, если процесс упал посреди генерации.
type StaleGenerationReaper struct {
	repo repository.IGenerationRepo
	log  *slog.Logger
	now  func() time.Time
}

func NewStaleGenerationReaper(repo repository.IGenerationRepo, log *slog.Logger) *StaleGenerationReaper {
	return &StaleGenerationReaper{
		repo: repo,
		log:  log,
		now:  time.Now,
	}
}

func (j *StaleGenerationReaper) Name() string {
	return staleReaperName
}

// NextRun следующая граница десятиминутки
func (j *StaleGenerationReaper) NextRun(now time.Time) time.Time {
	return now.Truncate(staleReaperInterval).Add(staleReaperInterval)
}

func (j *StaleGenerationReaper) Run(ctx context.Context) error {
	reaped, err := j.repo.FailStalePending(ctx, j.now().Add(-staleAfter))
	if err != nil {
		return fmt.Errorf("failed to reap stale generations: %w", err)
	}

	if reaped > 0 {
		metrics.StaleGenerationsReaped.Add(float64(reaped))
		j.log.WarnContext(ctx, "stale generations marked as failed", "count", reaped)
	}
	return nil
}
