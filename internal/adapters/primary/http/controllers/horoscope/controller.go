package horoscopeController

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/admin/astromood/chart-api/internal/adapters/primary/http/middlewares"
	"github.com/admin/astromood/chart-api/internal/domain"
	"github.com/gin-gonic/gin"
)

type IHoroscopeService interface {
	GetHoroscope(ctx context.Context, sign, period, day string) (*domain.Horoscope, error)
}

type Controller struct {
	HoroscopeService IHoroscopeService
	Log              *slog.Logger
}

func New(horoscopeService IHoroscopeService, log *slog.Logger) *Controller {
	return &Controller{
		HoroscopeService: horoscopeService,
		Log:              log,
	}
}

func (c *Controller) RegisterRoutes(router *gin.Engine) {
	middlewares.Handle(router, http.MethodGet, "/api/horoscope", c.horoscope)
}

func (c *Controller) horoscope(ctx *gin.Context) {
	h, err := c.HoroscopeService.GetHoroscope(
		ctx.Request.Context(),
		ctx.Query("sign"),
		ctx.Query("period"),
		ctx.Query("day"),
	)
	if err != nil {
		if domain.IsValidationError(err) {
			ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		ctx.JSON(http.StatusBadGateway, gin.H{"error": "Horoscope service unavailable"})
		return
	}

	ctx.JSON(http.StatusOK, h)
}
