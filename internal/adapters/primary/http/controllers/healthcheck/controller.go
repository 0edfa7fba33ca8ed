package healthcheckController

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

const readyTimeout = 2 * time.Second

// Pinger зависимость, которую проверяет /ready
type Pinger interface {
	Ping(ctx context.Context) error
}

type HealthCheckController struct {
	checks map[string]Pinger
	log    *slog.Logger
}

// New checks: имя зависимости -> пингер. Неподключенные зависимости не передаются.
func New(checks map[string]Pinger, log *slog.Logger) *HealthCheckController {
	return &HealthCheckController{
		checks: checks,
		log:    log,
	}
}

func (c *HealthCheckController) RegisterRoutes(r *gin.Engine) {
	r.GET("/health", c.health)
	r.GET("/ready", c.ready)
}

// health базовая проверка (всегда возвращает 200)
func (c *HealthCheckController) health(ctx *gin.Context) {
	ctx.JSON(http.StatusOK, gin.H{
		"status":  "ok",
		"service": "astromood-chart-api",
	})
}

// ready проверка готовности всех подключенных хранилищ
func (c *HealthCheckController) ready(ctx *gin.Context) {
	pingCtx, cancel := context.WithTimeout(ctx.Request.Context(), readyTimeout)
	defer cancel()

	for name, pinger := range c.checks {
		if err := pinger.Ping(pingCtx); err != nil {
			c.log.ErrorContext(ctx.Request.Context(), "dependency not ready", "dependency", name, "error", err)
			ctx.JSON(http.StatusServiceUnavailable, gin.H{
				"status": "not ready",
				"error":  name + " unavailable",
			})
			return
		}
	}

	ctx.JSON(http.StatusOK, gin.H{
		"status": "ready",
	})
}
