package middlewares

import (
	"context"
	"log/slog"
	"net/http"
	"runtime/debug"

	"github.com/gin-gonic/gin"
)

// IPanicReporter отправка паник во внешний трекер
type IPanicReporter interface {
	RecoverPanic(ctx context.Context, recovered any)
}

// RecoveryLogger ловит панику хендлера, логирует стек и отвечает 500.
// reporter может быть nil.
func RecoveryLogger(log *slog.Logger, reporter IPanicReporter) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if r := recover(); r != nil {
				ctx := c.Request.Context()
				log.ErrorContext(ctx, "PANIC CAUGHT",
					"panic", r,
					"method", c.Request.Method,
					"path", c.Request.URL.Path,
					"full_path", c.FullPath(),
					"client_ip", c.ClientIP(),
					"user_agent", c.Request.UserAgent(),
				)

				// Выводим стек трейс отдельно для читаемости
				log.ErrorContext(ctx, "Stack trace:",
					"stack", string(debug.Stack()),
				)

				if reporter != nil {
					reporter.RecoverPanic(ctx, r)
				}

				c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
					"error": "Internal server error",
				})
			}
		}()
		c.Next()
	}
}
