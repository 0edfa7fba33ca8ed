package app

import (
	"fmt"
	"strings"
	"time"

	server "github.com/admin/astromood/chart-api/internal/adapters/primary/http"
	alerterAdapter "github.com/admin/astromood/chart-api/internal/adapters/secondary/alerter"
	astroApi "github.com/admin/astromood/chart-api/internal/adapters/secondary/astroApi"
	"github.com/admin/astromood/chart-api/internal/adapters/secondary/horoscopeApi"
	"github.com/admin/astromood/chart-api/internal/adapters/secondary/imagefetch"
	kafkaAdapter "github.com/admin/astromood/chart-api/internal/adapters/secondary/kafka"
	sentryAdapter "github.com/admin/astromood/chart-api/internal/adapters/secondary/sentry"
	"github.com/admin/astromood/chart-api/internal/adapters/secondary/storage/pg"
	redisAdapter "github.com/admin/astromood/chart-api/internal/adapters/secondary/storage/redis"
	s3Adapter "github.com/admin/astromood/chart-api/internal/adapters/secondary/storage/s3"
	"github.com/admin/astromood/chart-api/internal/adapters/secondary/supabase"
	"github.com/admin/astromood/chart-api/internal/pkg/logger"
	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

const (
	StorageBackendSupabase = "supabase"
	StorageBackendS3       = "s3"
)

type Config struct {
	Log        *logger.Config         `envconfig:"LOG"`
	Server     *server.Config         `envconfig:"APISERVER"`
	Supabase   *supabase.Config       `envconfig:"SUPABASE"`
	AstroAPI   *astroApi.Config       `envconfig:"ASTRO_API"`
	Horoscope  *horoscopeApi.Config   `envconfig:"HOROSCOPE_API"`
	ImageFetch *imagefetch.Config     `envconfig:"IMAGE_FETCH"`
	Postgres   *pg.Config             `envconfig:"POSTGRES"`
	Redis      *redisAdapter.Config   `envconfig:"REDIS"`
	S3         *s3Adapter.Config      `envconfig:"S3"`
	Kafka      *kafkaAdapter.Config   `envconfig:"KAFKA"`
	Alerter    *alerterAdapter.Config `envconfig:"ALERTER"`
	Sentry     *sentryAdapter.Config  `envconfig:"SENTRY"`

	StorageBackend    string        `envconfig:"STORAGE_BACKEND" default:"supabase"` // supabase | s3
	GenerationLockTTL time.Duration `envconfig:"GENERATION_LOCK_TTL" default:"2m"`
	EnableJobs        bool          `envconfig:"ENABLE_JOBS" default:"true"`
}

func NewEnvConfig(envPrefix string) (*Config, error) {
	cfg := &Config{}

	_ = godotenv.Load("deployments/local/.env")

	if err := envconfig.Process(envPrefix, cfg); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate проверки, которые не выражаются тегами envconfig
func (c *Config) Validate() error {
	c.StorageBackend = strings.ToLower(strings.TrimSpace(c.StorageBackend))
	switch c.StorageBackend {
	case StorageBackendSupabase:
	case StorageBackendS3:
		if c.S3.Host == "" {
			return fmt.Errorf("storage backend %q requires S3_HOST", c.StorageBackend)
		}
	default:
		return fmt.Errorf("unknown storage backend %q", c.StorageBackend)
	}
	return nil
}
