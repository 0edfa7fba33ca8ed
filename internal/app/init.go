package app

import (
	"context"
	"fmt"
	"net/http"

	server "github.com/admin/astromood/chart-api/internal/adapters/primary/http"
	accountController "github.com/admin/astromood/chart-api/internal/adapters/primary/http/controllers/account"
	chartController "github.com/admin/astromood/chart-api/internal/adapters/primary/http/controllers/chart"
	healthcheckController "github.com/admin/astromood/chart-api/internal/adapters/primary/http/controllers/healthcheck"
	horoscopeController "github.com/admin/astromood/chart-api/internal/adapters/primary/http/controllers/horoscope"
	metricsController "github.com/admin/astromood/chart-api/internal/adapters/primary/http/controllers/metrics"
	timezoneController "github.com/admin/astromood/chart-api/internal/adapters/primary/http/controllers/timezone"
	"github.com/admin/astromood/chart-api/internal/adapters/primary/http/middlewares"
	alerterAdapter "github.com/admin/astromood/chart-api/internal/adapters/secondary/alerter"
	astroApiAdapter "github.com/admin/astromood/chart-api/internal/adapters/secondary/astroApi"
	"github.com/admin/astromood/chart-api/internal/adapters/secondary/horoscopeApi"
	"github.com/admin/astromood/chart-api/internal/adapters/secondary/imagefetch"
	kafkaAdapter "github.com/admin/astromood/chart-api/internal/adapters/secondary/kafka"
	sentryAdapter "github.com/admin/astromood/chart-api/internal/adapters/secondary/sentry"
	"github.com/admin/astromood/chart-api/internal/adapters/secondary/storage/inmemory"
	"github.com/admin/astromood/chart-api/internal/adapters/secondary/storage/pg"
	redisAdapter "github.com/admin/astromood/chart-api/internal/adapters/secondary/storage/redis"
	s3Adapter "github.com/admin/astromood/chart-api/internal/adapters/secondary/storage/s3"
	"github.com/admin/astromood/chart-api/internal/adapters/secondary/supabase"
	timezoneAdapter "github.com/admin/astromood/chart-api/internal/adapters/secondary/timezone"
	"github.com/admin/astromood/chart-api/internal/pkg/metrics"
	"github.com/admin/astromood/chart-api/internal/ports/cache"
	"github.com/admin/astromood/chart-api/internal/ports/identity"
	"github.com/admin/astromood/chart-api/internal/ports/kafka"
	"github.com/admin/astromood/chart-api/internal/ports/lock"
	"github.com/admin/astromood/chart-api/internal/ports/repository"
	"github.com/admin/astromood/chart-api/internal/ports/service"
	"github.com/admin/astromood/chart-api/internal/ports/storage"
	generationRepo "github.com/admin/astromood/chart-api/internal/repository/generation"
	alerterService "github.com/admin/astromood/chart-api/internal/services/alerter"
	astroApiService "github.com/admin/astromood/chart-api/internal/services/astroApi"
	jobScheduler "github.com/admin/astromood/chart-api/internal/services/jobs"
	accountUsecase "github.com/admin/astromood/chart-api/internal/usecases/account"
	chartUsecase "github.com/admin/astromood/chart-api/internal/usecases/chart"
	horoscopeUsecase "github.com/admin/astromood/chart-api/internal/usecases/horoscope"
	timezoneUsecase "github.com/admin/astromood/chart-api/internal/usecases/timezone"
	"github.com/jmoiron/sqlx"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/redis/go-redis/v9"
)

type Dependencies struct {
	DB            *sqlx.DB
	Redis         *redis.Client
	HTTPServer    *http.Server
	EventProducer *kafkaAdapter.Producer
	Reporter      *sentryAdapter.Reporter
	JobScheduler  *jobScheduler.Scheduler
}

// initDependencies инициализирует все зависимости приложения
func (a *App) initDependencies(ctx context.Context) (*Dependencies, error) {
	deps := &Dependencies{}

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	metrics.MustRegister(registry)

	reporter, err := sentryAdapter.New(a.Cfg.Sentry, a.Log)
	if err != nil {
		return nil, fmt.Errorf("failed to init sentry: %w", err)
	}
	deps.Reporter = reporter

	stores, err := a.initStores(ctx, deps)
	if err != nil {
		return nil, err
	}

	external, err := a.initExternalServices(deps)
	if err != nil {
		return nil, err
	}

	chartService := chartUsecase.New(chartUsecase.Deps{
		AstroAPI:       external.AstroAPI,
		Downloader:     external.Downloader,
		Storage:        external.ObjectStorage,
		Identity:       external.Identity,
		GenerationRepo: stores.Generations,
		Locker:         stores.Locker,
		Alerter:        external.Alerter,
		Events:         external.Events,
		Reporter:       reporter,
		LockTTL:        a.Cfg.GenerationLockTTL,
	}, a.Log.With("component", "chart"))
	accountService := accountUsecase.New(external.ObjectStorage, stores.Generations, external.Identity, a.Log.With("component", "account"))
	timezoneService := timezoneUsecase.New(external.Timezones, stores.Cache, a.Log.With("component", "timezone"))
	horoscopeService := horoscopeUsecase.New(external.Horoscopes, stores.Cache, a.Log.With("component", "horoscope"))

	auth := middlewares.BearerAuth(external.TokenVerifier, a.Log)
	router := server.NewRouter(a.Cfg.Server, a.Log, reporter,
		healthcheckController.New(stores.ReadyChecks, a.Log),
		metricsController.New(registry),
		chartController.New(chartService, auth, a.Log),
		accountController.New(accountService, auth, a.Log),
		timezoneController.New(timezoneService, a.Log),
		horoscopeController.New(horoscopeService, a.Log),
	)
	deps.HTTPServer = server.NewHTTPServer(a.Cfg.Server, router)

	if a.Cfg.EnableJobs {
		scheduler := jobScheduler.NewScheduler(a.Log.With("component", "jobs"), external.Alerter)
		scheduler.Register(jobScheduler.NewStaleGenerationReaper(stores.Generations, a.Log))
		scheduler.Register(jobScheduler.NewHoroscopePrefetch(horoscopeService, a.Log))
		deps.JobScheduler = scheduler
	}

	return deps, nil
}

// stores хранилища состояния сервиса. Без Postgres и Redis всё живёт в памяти процесса.
type stores struct {
	Generations repository.IGenerationRepo
	Locker      lock.ILocker
	Cache       cache.Cache
	ReadyChecks map[string]healthcheckController.Pinger
}

func (a *App) initStores(ctx context.Context, deps *Dependencies) (*stores, error) {
	s := &stores{ReadyChecks: map[string]healthcheckController.Pinger{}}

	if a.Cfg.Postgres.Enabled() {
		db, err := a.initPostgres(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to init postgres: %w", err)
		}
		deps.DB = db

		persistenceLayer := pg.NewDB(db)
		s.Generations = generationRepo.New(persistenceLayer, a.Log)
		s.ReadyChecks["postgres"] = persistenceLayer
	} else {
		a.Log.Warn("postgres is not configured, generation history is kept in memory")
		s.Generations = inmemory.NewGenerationRepo()
	}

	if a.Cfg.Redis.Enabled() {
		rdb, err := a.Cfg.Redis.NewConnection()
		if err != nil {
			return nil, fmt.Errorf("failed to init redis: %w", err)
		}
		deps.Redis = rdb
		a.Log.Info("redis connected successfully")

		client := redisAdapter.NewClient(rdb)
		s.Cache = client
		s.Locker = redisAdapter.NewLocker(rdb)
		s.ReadyChecks["redis"] = client
	} else {
		a.Log.Warn("redis is not configured, cache and generation locks are in-process")
		s.Cache = inmemory.NewCache()
		s.Locker = inmemory.NewLocker()
	}

	return s, nil
}

func (a *App) initPostgres(ctx context.Context) (*sqlx.DB, error) {
	db, err := a.Cfg.Postgres.NewConnection()
	if err != nil {
		return nil, fmt.Errorf("failed to connect to postgres: %w", err)
	}

	a.Log.Info("postgres connected successfully")

	if a.Cfg.Postgres.RunMigrations {
		if err := pg.RunMigrations(ctx, db, a.Log); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("failed to run migrations: %w", err)
		}
	}

	return db, nil
}

// externalServices внешние сервисы, обязательные и опциональные
type externalServices struct {
	AstroAPI      service.IAstroAPIService
	Horoscopes    service.IHoroscopeService
	Timezones     service.ITimezoneResolver
	Alerter       service.IAlerterService
	Downloader    storage.IImageDownloader
	ObjectStorage storage.IObjectStorage
	Identity      identity.IIdentityProvider
	TokenVerifier identity.ITokenVerifier
	Events        kafka.IEventPublisher
}

func (a *App) initExternalServices(deps *Dependencies) (*externalServices, error) {
	services := &externalServices{}

	services.AstroAPI = astroApiService.New(astroApiAdapter.NewClient(a.Cfg.AstroAPI, a.Log))
	services.Horoscopes = horoscopeApi.NewClient(a.Cfg.Horoscope, a.Log)
	services.Downloader = imagefetch.NewClient(a.Cfg.ImageFetch, a.Log)

	// Alerter - опциональный, без Telegram алерты только логируются
	services.Alerter = alerterService.New(alerterAdapter.NewClient(a.Cfg.Alerter, a.Log), a.Log)

	resolver, err := timezoneAdapter.NewResolver()
	if err != nil {
		return nil, fmt.Errorf("failed to init timezone resolver: %w", err)
	}
	services.Timezones = resolver

	supabaseClient := supabase.NewClient(a.Cfg.Supabase, a.Log)
	services.Identity = supabase.NewAdminAPI(supabaseClient)
	services.TokenVerifier = supabase.NewTokenVerifier(a.Cfg.Supabase, supabaseClient)

	switch a.Cfg.StorageBackend {
	case StorageBackendS3:
		minioClient, err := a.Cfg.S3.NewClient()
		if err != nil {
			return nil, fmt.Errorf("failed to init s3: %w", err)
		}
		services.ObjectStorage = s3Adapter.NewClient(minioClient, a.Cfg.S3, a.Log)
	default:
		services.ObjectStorage = supabase.NewStorage(supabaseClient, a.Cfg.Supabase.Bucket)
	}

	// Kafka - опциональный
	if a.Cfg.Kafka.Enabled() {
		producer, err := kafkaAdapter.NewProducer(a.Cfg.Kafka, a.Log)
		if err != nil {
			return nil, fmt.Errorf("failed to init kafka producer: %w", err)
		}
		deps.EventProducer = producer
		services.Events = producer
	}

	return services, nil
}
