package middlewares

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// CORS выставляет заголовки для одного метода эндпоинта и отвечает 204 на preflight
func CORS(method string) gin.HandlerFunc {
	allowMethods := method + ", OPTIONS"
	return func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Methods", allowMethods)
		c.Header("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	}
}

// Handle регистрирует эндпоинт вместе с его OPTIONS
func Handle(r gin.IRoutes, method, path string, handlers ...gin.HandlerFunc) {
	cors := CORS(method)
	r.OPTIONS(path, cors)
	r.Handle(method, path, append([]gin.HandlerFunc{cors}, handlers...)...)
}
