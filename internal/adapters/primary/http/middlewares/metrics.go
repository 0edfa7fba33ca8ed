package middlewares

import (
	"github.com/admin/astromood/chart-api/internal/pkg/metrics"
	"github.com/gin-gonic/gin"
)

// Metrics считает запросы по шаблону маршрута, а не по сырому пути
func Metrics() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		metrics.IncHTTPRequest(c.Request.Method, route, c.Writer.Status())
	}
}
