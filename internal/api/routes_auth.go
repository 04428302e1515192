package api

import (
	"github.com/gin-gonic/gin"

	"github.com/lironatar/TasksList/internal/handlers"
)

// Auth routes resolve the bearer token themselves: logout always succeeds and
// me answers 401 without going through the auth middleware.
func registerAuthRoutes(v1 *gin.RouterGroup, handler *handlers.AuthHandler) {
	auth := v1.Group("/auth")
	{
		auth.POST("/register", handler.Register)
		auth.POST("/login", handler.Login)
		auth.POST("/logout", handler.Logout)
		auth.GET("/me", handler.Me)
		auth.POST("/verify", handler.Verify)
		auth.POST("/send-code", handler.SendCode)
	}
}
