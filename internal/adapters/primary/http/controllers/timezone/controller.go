package timezoneController

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/admin/astromood/chart-api/internal/adapters/primary/http/middlewares"
	"github.com/admin/astromood/chart-api/internal/domain"
	"github.com/gin-gonic/gin"
)

type ITimezoneService interface {
	Resolve(ctx context.Context, lat, lon float64) (domain.TimezoneInfo, error)
}

type Controller struct {
	TimezoneService ITimezoneService
	Log             *slog.Logger
}

func New(timezoneService ITimezoneService, log *slog.Logger) *Controller {
	return &Controller{
		TimezoneService: timezoneService,
		Log:             log,
	}
}

func (c *Controller) RegisterRoutes(router *gin.Engine) {
	middlewares.Handle(router, http.MethodGet, "/api/timezone", c.timezone)
}

func (c *Controller) timezone(ctx *gin.Context) {
	latRaw, lonRaw := ctx.Query("lat"), ctx.Query("lon")
	if latRaw == "" || lonRaw == "" {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Missing lat/lon parameters"})
		return
	}

	lat, latErr := strconv.ParseFloat(latRaw, 64)
	lon, lonErr := strconv.ParseFloat(lonRaw, 64)
	if latErr != nil || lonErr != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid lat/lon parameters"})
		return
	}

	info, err := c.TimezoneService.Resolve(ctx.Request.Context(), lat, lon)
	if err != nil {
		if domain.IsValidationError(err) {
			ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		c.Log.ErrorContext(ctx.Request.Context(), "failed to resolve timezone", "error", err, "lat", lat, "lon", lon)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to resolve timezone"})
		return
	}

	ctx.JSON(http.StatusOK, info)
}
