package sentry

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/admin/astromood/chart-api/internal/pkg/logger"
	"github.com/getsentry/sentry-go"
)

type Config struct {
	DSN              string  `envconfig:"DSN"`
	Environment      string  `envconfig:"ENVIRONMENT" default:"development"`
	Release          string  `envconfig:"RELEASE"`
	TracesSampleRate float64 `envconfig:"TRACES_SAMPLE_RATE" default:"0"`
}

// Reporter отправка ошибок в Sentry. Без DSN все методы ничего не делают.
type Reporter struct {
	hub *sentry.Hub
	log *slog.Logger
}

// New инициализирует клиента Sentry
func New(cfg *Config, log *slog.Logger) (*Reporter, error) {
	if cfg.DSN == "" {
		log.Info("sentry dsn not set, error reporting disabled")
		return &Reporter{log: log}, nil
	}

	client, err := sentry.NewClient(sentry.ClientOptions{
		Dsn:              cfg.DSN,
		Environment:      cfg.Environment,
		Release:          cfg.Release,
		TracesSampleRate: cfg.TracesSampleRate,
		EnableTracing:    cfg.TracesSampleRate > 0,
	})
	if err != nil {
		return nil, fmt.Errorf("sentry initialization failed: %w", err)
	}

	hub := sentry.NewHub(client, sentry.NewScope())
	log.Info("sentry initialized", "environment", cfg.Environment)
	return &Reporter{hub: hub, log: log}, nil
}

// NewWithHub для тестов с собственным транспортом
func NewWithHub(hub *sentry.Hub, log *slog.Logger) *Reporter {
	return &Reporter{hub: hub, log: log}
}

func (r *Reporter) enabled() bool {
	return r != nil && r.hub != nil
}

// CaptureException отправляет ошибку с тегами
func (r *Reporter) CaptureException(ctx context.Context, err error, tags map[string]string) {
	if !r.enabled() || err == nil {
		return
	}

	hub := r.hub.Clone()
	hub.WithScope(func(scope *sentry.Scope) {
		for k, v := range tags {
			scope.SetTag(k, v)
		}
		if requestID, ok := logger.RequestIDFromContext(ctx); ok {
			scope.SetTag("request_id", requestID)
		}
		hub.CaptureException(err)
	})
}

// RecoverPanic отправляет panic в Sentry
func (r *Reporter) RecoverPanic(ctx context.Context, recovered any) {
	if !r.enabled() {
		return
	}
	r.hub.Clone().RecoverWithContext(ctx, recovered)
}

// Flush ждёт отправки событий
func (r *Reporter) Flush(timeout time.Duration) bool {
	if !r.enabled() {
		return true
	}
	return r.hub.Flush(timeout)
}

// Close сбрасывает буфер перед остановкой
func (r *Reporter) Close() {
	r.Flush(2 * time.Second)
}
