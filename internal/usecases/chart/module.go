package chart

import (
	"log/slog"
	"time"

	"github.com/admin/astromood/chart-api/internal/ports/identity"
	"github.com/admin/astromood/chart-api/internal/ports/kafka"
	"github.com/admin/astromood/chart-api/internal/ports/lock"
	"github.com/admin/astromood/chart-api/internal/ports/repository"
	"github.com/admin/astromood/chart-api/internal/ports/service"
	"github.com/admin/astromood/chart-api/internal/ports/storage"
)

const defaultLockTTL = 2 * time.Minute

// Deps зависимости сервиса генерации карт. Events и Reporter опциональны.
type Deps struct {
	AstroAPI       service.IAstroAPIService
	Downloader     storage.IImageDownloader
	Storage        storage.IObjectStorage
	Identity       identity.IIdentityProvider
	GenerationRepo repository.IGenerationRepo
	Locker         lock.ILocker
	Alerter        service.IAlerterService
	Events         kafka.IEventPublisher
	Reporter       service.IErrorReporter
	LockTTL        time.Duration
}

// Service генерация натальной карты и связанные операции
type Service struct {
	AstroAPI       service.IAstroAPIService
	Downloader     storage.IImageDownloader
	Storage        storage.IObjectStorage
	Identity       identity.IIdentityProvider
	GenerationRepo repository.IGenerationRepo
	Locker         lock.ILocker
	Alerter        service.IAlerterService
	Events         kafka.IEventPublisher
	Reporter       service.IErrorReporter
	Log            *slog.Logger

	lockTTL time.Duration
	now     func() time.Time
}

// New создаёт сервис генерации карт
func New(deps Deps, log *slog.Logger) *Service {
	lockTTL := deps.LockTTL
	if lockTTL <= 0 {
		lockTTL = defaultLockTTL
	}

	return &Service{
		AstroAPI:       deps.AstroAPI,
		Downloader:     deps.Downloader,
		Storage:        deps.Storage,
		Identity:       deps.Identity,
		GenerationRepo: deps.GenerationRepo,
		Locker:         deps.Locker,
		Alerter:        deps.Alerter,
		Events:         deps.Events,
		Reporter:       deps.Reporter,
		Log:            log,
		lockTTL:        lockTTL,
		now:            time.Now,
	}
}

func lockKey(userID string) string {
	return "chart-generation:" + userID
}
