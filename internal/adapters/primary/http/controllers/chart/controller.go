package chartController

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/admin/astromood/chart-api/internal/adapters/primary/http/middlewares"
	"github.com/admin/astromood/chart-api/internal/domain"
	"github.com/gin-gonic/gin"
)

// IChartService операции над картой, нужные контроллеру
type IChartService interface {
	ComputeChart(ctx context.Context, req domain.ChartComputationRequest) (string, error)
	ComputePlanets(ctx context.Context, req domain.ChartComputationRequest) ([]domain.PlanetPosition, error)
	GenerateCompleteChart(ctx context.Context, input *domain.BirthProfileInput) (*domain.GeneratedChartResult, error)
}

type Controller struct {
	ChartService IChartService
	Auth         gin.HandlerFunc
	Log          *slog.Logger
}

// New auth проверяет bearer-токен для /api/generate-complete
func New(chartService IChartService, auth gin.HandlerFunc, log *slog.Logger) *Controller {
	return &Controller{
		ChartService: chartService,
		Auth:         auth,
		Log:          log,
	}
}

func (c *Controller) RegisterRoutes(router *gin.Engine) {
	api := router.Group("/api")
	middlewares.Handle(api, http.MethodPost, "/chart", c.chart)
	middlewares.Handle(api, http.MethodPost, "/chart/planets", c.planets)
	middlewares.Handle(api, http.MethodPost, "/generate-complete", c.Auth, c.generateComplete)
}

// chart прокси к астро-API: svg-картинка карты
func (c *Controller) chart(ctx *gin.Context) {
	req, ok := c.bindChartRequest(ctx)
	if !ok {
		return
	}

	url, err := c.ChartService.ComputeChart(ctx.Request.Context(), req)
	if err != nil {
		c.writeProxyError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"output": url})
}

// planets прокси к астро-API: позиции планет
func (c *Controller) planets(ctx *gin.Context) {
	req, ok := c.bindChartRequest(ctx)
	if !ok {
		return
	}

	positions, err := c.ChartService.ComputePlanets(ctx.Request.Context(), req)
	if err != nil {
		c.writeProxyError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"output": positions})
}

// generateComplete полный цикл генерации карты для авторизованного пользователя
func (c *Controller) generateComplete(ctx *gin.Context) {
	var input domain.BirthProfileInput
	if err := ctx.ShouldBindJSON(&input); err != nil {
		c.Log.WarnContext(ctx.Request.Context(), "failed to bind generate-complete request", "error", err)
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	// пользователь может генерировать карту только для себя
	if input.ID != middlewares.AuthUserID(ctx) {
		c.Log.WarnContext(ctx.Request.Context(), "generate-complete for another user rejected",
			"auth_user_id", middlewares.AuthUserID(ctx),
			"body_id", input.ID,
		)
		ctx.JSON(http.StatusForbidden, gin.H{"error": "Forbidden"})
		return
	}

	if missing := input.MissingFields(); len(missing) > 0 {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": domain.NewMissingFieldsError(missing).Error()})
		return
	}

	result, err := c.ChartService.GenerateCompleteChart(ctx.Request.Context(), &input)
	switch {
	case err == nil:
		ctx.JSON(http.StatusOK, gin.H{
			"success": true,
			"message": "Birth chart generated successfully",
			"data":    result,
		})
	case domain.IsValidationError(err):
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, domain.ErrGenerationInProgress):
		ctx.JSON(http.StatusConflict, gin.H{"error": "Chart generation already in progress"})
	default:
		ctx.JSON(http.StatusInternalServerError, gin.H{
			"error":   "Failed to generate complete chart",
			"details": err.Error(),
		})
	}
}

func (c *Controller) bindChartRequest(ctx *gin.Context) (domain.ChartComputationRequest, bool) {
	var req domain.ChartComputationRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		c.Log.WarnContext(ctx.Request.Context(), "failed to bind chart request", "error", err)
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return req, false
	}
	req.Seconds = 0
	req.Config = domain.DefaultRenderConfig()
	return req, true
}

func (c *Controller) writeProxyError(ctx *gin.Context, err error) {
	if domain.IsValidationError(err) {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	ctx.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
}
