package api

import (
	"github.com/gin-gonic/gin"

	"github.com/lironatar/TasksList/internal/handlers"
)

func registerProfileRoutes(public, protected *gin.RouterGroup, handler *handlers.ProfileHandler) {
	// The icon catalogue is shown on the registration screen too.
	public.GET("/users/profile-icons", handler.Icons)

	users := protected.Group("/users")
	{
		users.GET("/profile", handler.Get)
		users.PUT("/profile", handler.Update)
		users.PUT("/profile-icon", handler.UpdateIcon)
	}
}
