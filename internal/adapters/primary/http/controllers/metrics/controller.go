package metricsController

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Controller отдаёт метрики Prometheus
type Controller struct {
	gatherer prometheus.Gatherer
}

func New(gatherer prometheus.Gatherer) *Controller {
	return &Controller{gatherer: gatherer}
}

func (c *Controller) RegisterRoutes(router *gin.Engine) {
	router.GET("/metrics", gin.WrapH(promhttp.HandlerFor(c.gatherer, promhttp.HandlerOpts{})))
}
