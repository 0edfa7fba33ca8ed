package chart

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/admin/astromood/chart-api/internal/domain"
	"github.com/admin/astromood/chart-api/internal/pkg/metrics"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

const (
	outcomeReady    = "ready"
	outcomeFailed   = "failed"
	outcomeConflict = "conflict"
	outcomeInvalid  = "invalid"
)

// GenerateCompleteChart полный цикл генерации карты пользователя:
// валидация, блокировка, параллельный запрос картинки и планет,
// сохранение картинки, запись метаданных профиля.
//
// Ошибки валидации возвращаются как *domain.ValidationError до любых внешних вызовов.
// Если для пользователя уже идёт генерация, возвращается domain.ErrGenerationInProgress.
// Любой сбой шага оборачивается в domain.ErrChartGenerationFailed с *domain.UpstreamError внутри.
func (s *Service) GenerateCompleteChart(ctx context.Context, input *domain.BirthProfileInput) (*domain.GeneratedChartResult, error) {
	start := s.now()

	if input == nil || input.ID == "" {
		metrics.ObserveGeneration(outcomeInvalid, 0)
		return nil, domain.NewMissingFieldsError([]string{"id"})
	}
	userID := input.ID

	chartReq, err := input.ToChartRequest()
	if err != nil {
		metrics.ObserveGeneration(outcomeInvalid, 0)
		return nil, err
	}

	release, acquired, err := s.Locker.TryLock(ctx, lockKey(userID), s.lockTTL)
	if err != nil {
		s.Log.ErrorContext(ctx, "failed to acquire generation lock", "error", err, "user_id", userID)
		metrics.ObserveGeneration(outcomeFailed, s.now().Sub(start))
		return nil, fmt.Errorf("%w: %w", domain.ErrChartGenerationFailed, domain.NewUpstreamError(domain.StepLock, err))
	}
	if !acquired {
		s.Log.WarnContext(ctx, "chart generation already in progress", "user_id", userID)
		metrics.ObserveGeneration(outcomeConflict, 0)
		return nil, domain.ErrGenerationInProgress
	}
	defer func() {
		if err := release(context.WithoutCancel(ctx)); err != nil {
			s.Log.WarnContext(ctx, "failed to release generation lock", "error", err, "user_id", userID)
		}
	}()

	gen, err := s.GenerationRepo.Begin(ctx, userID, uuid.New())
	if err != nil {
		s.Log.ErrorContext(ctx, "failed to begin generation", "error", err, "user_id", userID)
		metrics.ObserveGeneration(outcomeFailed, s.now().Sub(start))
		return nil, fmt.Errorf("%w: %w", domain.ErrChartGenerationFailed, domain.NewUpstreamError(domain.StepBegin, err))
	}

	log := s.Log.With("user_id", userID, "version", gen.Version, "attempt_id", gen.AttemptID)
	log.InfoContext(ctx, "chart generation started")

	chartURL, positions, err := s.fetchChartData(ctx, chartReq)
	if err != nil {
		return nil, s.fail(ctx, gen, start, err)
	}

	planets, ascendant := Simplify(positions)

	storedPath, publicURL, err := s.FetchAndStore(ctx, chartURL, userID)
	if err != nil {
		return nil, s.fail(ctx, gen, start, err)
	}

	generatedAt := s.now().UTC()
	update := domain.ProfileMetadataUpdate{
		BirthChartURL:    publicURL,
		Planets:          planets,
		Ascendant:        ascendant,
		ChartVersion:     gen.Version,
		ChartGeneratedAt: &generatedAt,
	}
	if err := s.UpdateProfileMetadata(ctx, userID, update); err != nil {
		// картинка уже перезаписана, а метаданные остались старыми
		log.ErrorContext(ctx, "chart image stored but profile metadata update failed",
			"error", err,
			"storage_path", storedPath,
		)
		s.alert(ctx, fmt.Sprintf("chart generation partially completed: user=%s version=%d image=%s metadata update failed: %v",
			userID, gen.Version, storedPath, err))
		return nil, s.fail(ctx, gen, start, err)
	}

	gen.ChartURL = &publicURL
	gen.StoragePath = &storedPath
	if err := s.GenerationRepo.MarkReady(context.WithoutCancel(ctx), gen); err != nil {
		if errors.Is(err, domain.ErrGenerationSuperseded) {
			log.WarnContext(ctx, "generation superseded by a newer attempt")
		} else {
			log.ErrorContext(ctx, "failed to mark generation ready", "error", err)
		}
	}

	s.publish(ctx, domain.ChartGeneratedEvent{
		GenerationID: gen.AttemptID,
		UserID:       userID,
		Version:      gen.Version,
		ChartURL:     publicURL,
		Planets:      planets,
		Ascendant:    ascendant,
		GeneratedAt:  generatedAt,
	})

	duration := s.now().Sub(start)
	metrics.ObserveGeneration(outcomeReady, duration)
	log.InfoContext(ctx, "chart generation completed", "duration", duration, "planets", len(planets))

	return &domain.GeneratedChartResult{
		Success:      true,
		ChartURL:     publicURL,
		Planets:      planets,
		Ascendant:    ascendant,
		UploadPath:   storedPath,
		Version:      gen.Version,
		GenerationID: gen.AttemptID,
	}, nil
}

// fetchChartData параллельно запрашивает картинку и планеты.
// Первая ошибка отменяет второй запрос.
func (s *Service) fetchChartData(ctx context.Context, req domain.ChartComputationRequest) (string, []domain.PlanetPosition, error) {
	var (
		chartURL  string
		positions []domain.PlanetPosition
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		url, err := s.AstroAPI.GetChartImage(gctx, req)
		if err != nil {
			return domain.NewUpstreamError(domain.StepFetchChart, err)
		}
		chartURL = url
		return nil
	})
	g.Go(func() error {
		p, err := s.AstroAPI.GetPlanetPositions(gctx, req)
		if err != nil {
			return domain.NewUpstreamError(domain.StepFetchPlanets, err)
		}
		positions = p
		return nil
	})

	if err := g.Wait(); err != nil {
		return "", nil, err
	}
	return chartURL, positions, nil
}

// fail фиксирует сбой в журнале и отдаёт наружу общую ошибку генерации
func (s *Service) fail(ctx context.Context, gen *domain.Generation, start time.Time, cause error) error {
	step, _ := domain.FailedStep(cause)
	stepName := step.String()
	msg := cause.Error()

	s.Log.ErrorContext(ctx, "chart generation failed",
		"error", cause,
		"step", stepName,
		"user_id", gen.UserID,
		"version", gen.Version,
	)

	gen.FailedStep = &stepName
	gen.Error = &msg
	if err := s.GenerationRepo.MarkFailed(context.WithoutCancel(ctx), gen); err != nil && !errors.Is(err, domain.ErrGenerationSuperseded) {
		s.Log.ErrorContext(ctx, "failed to mark generation failed", "error", err, "user_id", gen.UserID)
	}

	if s.Reporter != nil {
		s.Reporter.CaptureException(ctx, cause, map[string]string{"step": stepName, "user_id": gen.UserID})
	}
	metrics.ObserveGeneration(outcomeFailed, s.now().Sub(start))

	return fmt.Errorf("%w: %w", domain.ErrChartGenerationFailed, cause)
}

func (s *Service) alert(ctx context.Context, message string) {
	if s.Alerter == nil {
		return
	}
	if err := s.Alerter.SendAlert(context.WithoutCancel(ctx), message); err != nil {
		s.Log.WarnContext(ctx, "failed to send alert", "error", err)
	}
}

func (s *Service) publish(ctx context.Context, event domain.ChartGeneratedEvent) {
	if s.Events == nil {
		return
	}
	if err := s.Events.PublishChartGenerated(context.WithoutCancel(ctx), event); err != nil {
		s.Log.WarnContext(ctx, "failed to publish chart generated event", "error", err, "user_id", event.UserID)
	}
}
