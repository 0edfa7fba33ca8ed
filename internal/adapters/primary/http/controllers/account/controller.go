package accountController

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/admin/astromood/chart-api/internal/adapters/primary/http/middlewares"
	"github.com/gin-gonic/gin"
)

type IAccountService interface {
	DeleteAccount(ctx context.Context, userID string) error
}

type Controller struct {
	AccountService IAccountService
	Auth           gin.HandlerFunc
	Log            *slog.Logger
}

func New(accountService IAccountService, auth gin.HandlerFunc, log *slog.Logger) *Controller {
	return &Controller{
		AccountService: accountService,
		Auth:           auth,
		Log:            log,
	}
}

func (c *Controller) RegisterRoutes(router *gin.Engine) {
	middlewares.Handle(router, http.MethodPost, "/api/delete-account", c.Auth, c.deleteAccount)
}

// DeleteAccountRequest тело запроса на удаление аккаунта
type DeleteAccountRequest struct {
	UserID string `json:"userId"`
}

func (c *Controller) deleteAccount(ctx *gin.Context) {
	var req DeleteAccountRequest
	if err := ctx.ShouldBindJSON(&req); err != nil || req.UserID == "" {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Missing required fields: userId"})
		return
	}

	if req.UserID != middlewares.AuthUserID(ctx) {
		c.Log.WarnContext(ctx.Request.Context(), "delete-account for another user rejected",
			"auth_user_id", middlewares.AuthUserID(ctx),
			"body_user_id", req.UserID,
		)
		ctx.JSON(http.StatusForbidden, gin.H{"error": "Forbidden"})
		return
	}

	if err := c.AccountService.DeleteAccount(ctx.Request.Context(), req.UserID); err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete account"})
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Account deleted successfully",
	})
}
