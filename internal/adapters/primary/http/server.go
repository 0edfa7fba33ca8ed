package server

import (
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/admin/astromood/chart-api/internal/adapters/primary/http/middlewares"
	"github.com/gin-gonic/gin"
)

type Config struct {
	Host                    string        `envconfig:"HOST"`
	Port                    string        `envconfig:"PORT" default:"8080"`
	WriteTimeout            time.Duration `envconfig:"WRITE_TIMEOUT" default:"90s"`
	ReadTimeout             time.Duration `envconfig:"READ_TIMEOUT" default:"10s"`
	ReadHeaderTimeout       time.Duration `envconfig:"READ_HEADER_TIMEOUT" default:"3s"`
	IdleTimeout             time.Duration `envconfig:"IDLE_TIMEOUT" default:"15s"`
	EnableLoggingMiddleware bool          `envconfig:"ENABLE_LOGGING_MIDDLEWARE" default:"true"`
}

type Controller interface {
	RegisterRoutes(router *gin.Engine)
}

// NewRouter собирает gin с общими middleware и маршрутами всех контроллеров.
// reporter может быть nil.
func NewRouter(
	cfg *Config,
	logger *slog.Logger,
	reporter middlewares.IPanicReporter,
	controllers ...Controller,
) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()

	router.Use(
		middlewares.RequestID(),
		middlewares.RecoveryLogger(logger, reporter),
		middlewares.Metrics(),
	)
	if cfg.EnableLoggingMiddleware {
		router.Use(middlewares.RequestLogger(logger))
	}

	// Регистрируем маршруты всех контроллеров
	for _, controller := range controllers {
		controller.RegisterRoutes(router)
	}

	return router
}

func NewHTTPServer(cfg *Config, handler http.Handler) *http.Server {
	return &http.Server{
		Handler:           handler,
		Addr:              net.JoinHostPort(cfg.Host, cfg.Port),
		ReadHeaderTimeout: cfg.ReadHeaderTimeout,
		ReadTimeout:       cfg.ReadTimeout,
		WriteTimeout:      cfg.WriteTimeout,
		IdleTimeout:       cfg.IdleTimeout,
	}
}
