package middlewares

import (
	"github.com/admin/astromood/chart-api/internal/pkg/logger"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// RequestIDHeader заголовок, в котором приходит и возвращается id запроса
const RequestIDHeader = "X-Request-ID"

const maxRequestIDLength = 128

// RequestID берёт id запроса из заголовка или генерирует новый
// и кладёт его в контекст запроса для логгера
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(RequestIDHeader)
		if id == "" || len(id) > maxRequestIDLength {
			id = uuid.NewString()
		}

		c.Request = c.Request.WithContext(logger.WithRequestID(c.Request.Context(), id))
		c.Header(RequestIDHeader, id)
		c.Next()
	}
}
