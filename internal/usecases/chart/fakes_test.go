package chart

import (
	"context"
	"io"
	"log/slog"
	"sync"
	"sync/atomic"

	"github.com/admin/astromood/chart-api/internal/adapters/secondary/storage/inmemory"
	"github.com/admin/astromood/chart-api/internal/domain"
)

func str(s string) *string { return &s }
func num(f float64) *float64 { return &f }

func position(planet, sign string) domain.PlanetPosition {
	p := domain.PlanetPosition{Planet: &domain.LocalizedName{En: str(planet)}}
	if sign != "" {
		p.ZodiacSign = &domain.ZodiacSign{Name: &domain.LocalizedName{En: str(sign)}}
	}
	return p
}

func validInput(id string) *domain.BirthProfileInput {
	return &domain.BirthProfileInput{
		ID:             id,
		DateOfBirth:    str("1990-05-15T00:00:00.000Z"),
		TimeOfBirth:    str("1970-01-01T14:30:00.000Z"),
		Latitude:       num(48.8566),
		Longitude:      num(2.3522),
		TimezoneOffset: num(2),
	}
}

type fakeAstro struct {
	chartURL     string
	positions    []domain.PlanetPosition
	chartErr     error
	planetsErr   error
	chartCalls   atomic.Int32
	planetsCalls atomic.Int32
	// если задан, GetChartImage ждёт его закрытия
	chartGate chan struct{}
}

func (f *fakeAstro) GetChartImage(ctx context.Context, _ domain.ChartComputationRequest) (string, error) {
	f.chartCalls.Add(1)
	if f.chartGate != nil {
		select {
		case <-f.chartGate:
		case <-ctx.Done():
			return "", ctx.Err()
		}
	}
	return f.chartURL, f.chartErr
}

func (f *fakeAstro) GetPlanetPositions(_ context.Context, _ domain.ChartComputationRequest) ([]domain.PlanetPosition, error) {
	f.planetsCalls.Add(1)
	return f.positions, f.planetsErr
}

type fakeDownloader struct {
	data  []byte
	err   error
	calls atomic.Int32
}

func (f *fakeDownloader) Download(_ context.Context, _ string) ([]byte, error) {
	f.calls.Add(1)
	return f.data, f.err
}

type fakeStorage struct {
	mu      sync.Mutex
	objects map[string][]byte
	uploads int
	deletes []string
	err     error
}

func newFakeStorage() *fakeStorage {
	return &fakeStorage{objects: map[string][]byte{}}
}

func (f *fakeStorage) Upload(_ context.Context, path string, data []byte, _ string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.uploads++
	if f.err != nil {
		return f.err
	}
	f.objects[path] = data
	return nil
}

func (f *fakeStorage) Delete(_ context.Context, path string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.deletes = append(f.deletes, path)
	delete(f.objects, path)
	return nil
}

func (f *fakeStorage) PublicURL(path string) string {
	return "https://cdn.example.com/" + path
}

type fakeIdentity struct {
	mu       sync.Mutex
	metadata map[string]domain.ProfileMetadataUpdate
	updates  int
	err      error
}

func newFakeIdentity() *fakeIdentity {
	return &fakeIdentity{metadata: map[string]domain.ProfileMetadataUpdate{}}
}

func (f *fakeIdentity) GetUser(_ context.Context, userID string) (*domain.IdentityUser, error) {
	return &domain.IdentityUser{ID: userID}, nil
}

func (f *fakeIdentity) UpdateUserMetadata(_ context.Context, userID string, update domain.ProfileMetadataUpdate) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.updates++
	if f.err != nil {
		return f.err
	}
	f.metadata[userID] = update
	return nil
}

func (f *fakeIdentity) DeleteUser(_ context.Context, _ string) error {
	return nil
}

type fakeAlerter struct {
	mu       sync.Mutex
	messages []string
}

func (f *fakeAlerter) SendAlert(_ context.Context, message string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.messages = append(f.messages, message)
	return nil
}

type fakeEvents struct {
	mu     sync.Mutex
	events []domain.ChartGeneratedEvent
}

func (f *fakeEvents) PublishChartGenerated(_ context.Context, event domain.ChartGeneratedEvent) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.events = append(f.events, event)
	return nil
}

func (f *fakeEvents) Close() error { return nil }

type fakeReporter struct {
	mu   sync.Mutex
	errs []error
	tags []map[string]string
}

func (f *fakeReporter) CaptureException(_ context.Context, err error, tags map[string]string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.errs = append(f.errs, err)
	f.tags = append(f.tags, tags)
}

type fixture struct {
	svc        *Service
	astro      *fakeAstro
	downloader *fakeDownloader
	storage    *fakeStorage
	identity   *fakeIdentity
	repo       *inmemory.GenerationRepo
	locker     *inmemory.Locker
	alerter    *fakeAlerter
	events     *fakeEvents
	reporter   *fakeReporter
}

func newFixture() *fixture {
	f := &fixture{
		astro: &fakeAstro{
			chartURL: "https://astro.example.com/chart.svg",
			positions: []domain.PlanetPosition{
				position("Sun", "Aries"),
				position("Moon", "Cancer"),
				position("Ascendant", "Leo"),
			},
		},
		downloader: &fakeDownloader{data: []byte("<svg/>")},
		storage:    newFakeStorage(),
		identity:   newFakeIdentity(),
		repo:       inmemory.NewGenerationRepo(),
		locker:     inmemory.NewLocker(),
		alerter:    &fakeAlerter{},
		events:     &fakeEvents{},
		reporter:   &fakeReporter{},
	}
	f.svc = New(Deps{
		AstroAPI:       f.astro,
		Downloader:     f.downloader,
		Storage:        f.storage,
		Identity:       f.identity,
		GenerationRepo: f.repo,
		Locker:         f.locker,
		Alerter:        f.alerter,
		Events:         f.events,
		Reporter:       f.reporter,
	}, slog.New(slog.NewTextHandler(io.Discard, nil)))
	return f
}
