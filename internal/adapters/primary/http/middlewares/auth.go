package middlewares

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/admin/astromood/chart-api/internal/domain"
	"github.com/admin/astromood/chart-api/internal/ports/identity"
	"github.com/gin-gonic/gin"
)

const userIDKey = "auth_user_id"

// BearerAuth проверяет токен из Authorization и кладёт id пользователя в контекст gin
func BearerAuth(verifier identity.ITokenVerifier, log *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, ok := bearerToken(c.GetHeader("Authorization"))
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}

		userID, err := verifier.Verify(c.Request.Context(), token)
		if err != nil {
			if errors.Is(err, domain.ErrInvalidToken) || errors.Is(err, domain.ErrUnauthorized) {
				log.DebugContext(c.Request.Context(), "token rejected", "error", err)
			} else {
				log.WarnContext(c.Request.Context(), "token verification failed", "error", err)
			}
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "Invalid or expired token"})
			return
		}

		c.Set(userIDKey, userID)
		c.Next()
	}
}

// AuthUserID id пользователя, прошедшего BearerAuth
func AuthUserID(c *gin.Context) string {
	return c.GetString(userIDKey)
}

func bearerToken(header string) (string, bool) {
	const prefix = "Bearer "
	if len(header) < len(prefix) || !strings.EqualFold(header[:len(prefix)], prefix) {
		return "", false
	}
	token := strings.TrimSpace(header[len(prefix):])
	return token, token != ""
}
