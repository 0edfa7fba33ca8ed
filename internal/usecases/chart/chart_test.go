package chart

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/admin/astromood/chart-api/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSimplify(t *testing.T) {
	t.Run("planets and ascendant", func(t *testing.T) {
		planets, asc := Simplify([]domain.PlanetPosition{
			position("Sun", "Aries"),
			position("Ascendant", "Leo"),
		})

		assert.Equal(t, "Aries", planets["Sun"])
		require.NotNil(t, asc)
		assert.Equal(t, "Leo", asc.Sign)
	})

	t.Run("incomplete entries are skipped", func(t *testing.T) {
		planets, asc := Simplify([]domain.PlanetPosition{
			position("Sun", "Aries"),
			position("Moon", ""),
			{ZodiacSign: &domain.ZodiacSign{Name: &domain.LocalizedName{En: str("Virgo")}}},
			{Planet: &domain.LocalizedName{}},
		})

		assert.Equal(t, domain.SimplifiedPlanets{"Sun": "Aries"}, planets)
		assert.Nil(t, asc)
	})

	t.Run("ascendant without sign", func(t *testing.T) {
		planets, asc := Simplify([]domain.PlanetPosition{position("Ascendant", "")})

		require.NotNil(t, asc)
		assert.Equal(t, "", asc.Sign)
		assert.Empty(t, planets)
	})

	t.Run("last duplicate wins", func(t *testing.T) {
		planets, _ := Simplify([]domain.PlanetPosition{
			position("Sun", "Aries"),
			position("Sun", "Taurus"),
		})
		assert.Equal(t, "Taurus", planets["Sun"])
	})

	t.Run("empty input", func(t *testing.T) {
		planets, asc := Simplify(nil)
		assert.NotNil(t, planets)
		assert.Empty(t, planets)
		assert.Nil(t, asc)
	})
}

func TestGenerateCompleteChart_Success(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	res, err := f.svc.GenerateCompleteChart(ctx, validInput("user-1"))
	require.NoError(t, err)

	path := domain.ChartStoragePath("user-1")
	assert.True(t, res.Success)
	assert.Equal(t, "https://cdn.example.com/"+path, res.ChartURL)
	assert.Equal(t, path, res.UploadPath)
	assert.Equal(t, int64(1), res.Version)
	assert.Equal(t, "Aries", res.Planets["Sun"])
	assert.Equal(t, "Leo", res.Ascendant.Sign)

	assert.Equal(t, []byte("<svg/>"), f.storage.objects[path])

	meta := f.identity.metadata["user-1"]
	assert.Equal(t, res.ChartURL, meta.BirthChartURL)
	assert.Equal(t, res.Planets, meta.Planets)
	assert.Equal(t, int64(1), meta.ChartVersion)
	assert.NotNil(t, meta.ChartGeneratedAt)

	gen, err := f.repo.GetByUserID(ctx, "user-1")
	require.NoError(t, err)
	assert.Equal(t, domain.GenerationStatusReady, gen.Status)
	assert.Equal(t, res.GenerationID, gen.AttemptID)

	require.Len(t, f.events.events, 1)
	assert.Equal(t, "user-1", f.events.events[0].UserID)
	assert.Empty(t, f.alerter.messages)
	assert.Empty(t, f.reporter.errs)

	// блокировка снята
	_, acquired, err := f.locker.TryLock(ctx, lockKey("user-1"), time.Minute)
	require.NoError(t, err)
	assert.True(t, acquired)
}

func TestGenerateCompleteChart_ValidationHasNoSideEffects(t *testing.T) {
	f := newFixture()
	in := validInput("user-1")
	in.Latitude = nil
	in.TimezoneOffset = nil

	res, err := f.svc.GenerateCompleteChart(context.Background(), in)
	require.Error(t, err)
	assert.Nil(t, res)
	assert.True(t, domain.IsValidationError(err))
	assert.Equal(t, "Missing required fields: latitude, timezoneOffset", err.Error())

	assert.Zero(t, f.astro.chartCalls.Load())
	assert.Zero(t, f.astro.planetsCalls.Load())
	assert.Zero(t, f.storage.uploads)
	assert.Zero(t, f.identity.updates)

	_, err = f.repo.GetByUserID(context.Background(), "user-1")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestGenerateCompleteChart_MissingID(t *testing.T) {
	f := newFixture()

	_, err := f.svc.GenerateCompleteChart(context.Background(), validInput(""))
	require.Error(t, err)
	assert.True(t, domain.IsValidationError(err))
	assert.Zero(t, f.astro.chartCalls.Load())
}

func TestGenerateCompleteChart_FailFast(t *testing.T) {
	f := newFixture()
	f.astro.planetsErr = errors.New("planets api is down")
	f.astro.chartGate = make(chan struct{})
	defer close(f.astro.chartGate)

	res, err := f.svc.GenerateCompleteChart(context.Background(), validInput("user-1"))
	require.Error(t, err)
	assert.Nil(t, res)
	assert.ErrorIs(t, err, domain.ErrChartGenerationFailed)

	step, ok := domain.FailedStep(err)
	require.True(t, ok)
	assert.Equal(t, domain.StepFetchPlanets, step)

	assert.Zero(t, f.downloader.calls.Load())
	assert.Zero(t, f.storage.uploads)
	assert.Zero(t, f.identity.updates)
	assert.Empty(t, f.events.events)

	gen, err := f.repo.GetByUserID(context.Background(), "user-1")
	require.NoError(t, err)
	assert.Equal(t, domain.GenerationStatusFailed, gen.Status)
	require.NotNil(t, gen.FailedStep)
	assert.Equal(t, domain.StepFetchPlanets.String(), *gen.FailedStep)

	require.Len(t, f.reporter.tags, 1)
	assert.Equal(t, domain.StepFetchPlanets.String(), f.reporter.tags[0]["step"])
}

func TestGenerateCompleteChart_UploadFailure(t *testing.T) {
	f := newFixture()
	f.storage.err = errors.New("bucket is gone")

	_, err := f.svc.GenerateCompleteChart(context.Background(), validInput("user-1"))
	require.Error(t, err)

	step, _ := domain.FailedStep(err)
	assert.Equal(t, domain.StepUploadImage, step)
	assert.Zero(t, f.identity.updates)
	assert.Empty(t, f.alerter.messages)
}

func TestGenerateCompleteChart_InProgress(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	release, acquired, err := f.locker.TryLock(ctx, lockKey("user-1"), time.Minute)
	require.NoError(t, err)
	require.True(t, acquired)

	_, err = f.svc.GenerateCompleteChart(ctx, validInput("user-1"))
	assert.ErrorIs(t, err, domain.ErrGenerationInProgress)
	assert.Zero(t, f.astro.chartCalls.Load())

	// другой пользователь не блокируется
	_, err = f.svc.GenerateCompleteChart(ctx, validInput("user-2"))
	assert.NoError(t, err)

	require.NoError(t, release(ctx))
	_, err = f.svc.GenerateCompleteChart(ctx, validInput("user-1"))
	assert.NoError(t, err)
}

func TestGenerateCompleteChart_LastWriterWins(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	_, err := f.svc.GenerateCompleteChart(ctx, validInput("user-1"))
	require.NoError(t, err)

	f.astro.positions = []domain.PlanetPosition{
		position("Sun", "Gemini"),
		position("Ascendant", "Scorpio"),
	}
	f.downloader.data = []byte("<svg>v2</svg>")

	res, err := f.svc.GenerateCompleteChart(ctx, validInput("user-1"))
	require.NoError(t, err)
	assert.Equal(t, int64(2), res.Version)

	path := domain.ChartStoragePath("user-1")
	assert.Len(t, f.storage.objects, 1)
	assert.Equal(t, []byte("<svg>v2</svg>"), f.storage.objects[path])

	meta := f.identity.metadata["user-1"]
	assert.Equal(t, "Gemini", meta.Planets["Sun"])
	assert.Equal(t, "Scorpio", meta.Ascendant.Sign)
	assert.Equal(t, int64(2), meta.ChartVersion)

	gen, err := f.repo.GetByUserID(ctx, "user-1")
	require.NoError(t, err)
	assert.Equal(t, int64(2), gen.Version)
	assert.Equal(t, domain.GenerationStatusReady, gen.Status)
}

func TestGenerateCompleteChart_PartialCompletionAlerts(t *testing.T) {
	f := newFixture()
	f.identity.err = errors.New("auth admin api returned 500")

	_, err := f.svc.GenerateCompleteChart(context.Background(), validInput("user-1"))
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrChartGenerationFailed)

	step, _ := domain.FailedStep(err)
	assert.Equal(t, domain.StepUpdateProfile, step)

	// картинка уже лежит в хранилище
	assert.Contains(t, f.storage.objects, domain.ChartStoragePath("user-1"))

	require.Len(t, f.alerter.messages, 1)
	assert.Contains(t, f.alerter.messages[0], "user-1")
	assert.Contains(t, f.alerter.messages[0], "partially completed")

	gen, err := f.repo.GetByUserID(context.Background(), "user-1")
	require.NoError(t, err)
	assert.Equal(t, domain.GenerationStatusFailed, gen.Status)
	assert.Empty(t, f.events.events)
}

func TestComputeChart_Proxy(t *testing.T) {
	f := newFixture()
	req, err := validInput("user-1").ToChartRequest()
	require.NoError(t, err)

	url, err := f.svc.ComputeChart(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, f.astro.chartURL, url)

	f.astro.planetsErr = errors.New("boom")
	_, err = f.svc.ComputePlanets(context.Background(), req)
	assert.Error(t, err)
	assert.Zero(t, f.storage.uploads)
}
