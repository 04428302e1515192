package api

import (
	"github.com/gin-gonic/gin"

	"github.com/lironatar/TasksList/internal/handlers"
)

func registerTaskListRoutes(protected *gin.RouterGroup, lists *handlers.TaskListHandler, tasks *handlers.TaskHandler) {
	taskLists := protected.Group("/task-lists")
	{
		taskLists.GET("", lists.List)
		taskLists.POST("", lists.Create)
		taskLists.GET("/:id", lists.Get)
		taskLists.PUT("/:id", lists.Update)
		taskLists.DELETE("/:id", lists.Delete)
		taskLists.GET("/:id/tasks", tasks.List)
		taskLists.POST("/:id/tasks", tasks.Create)
		taskLists.PUT("/:id/tasks/status", lists.SetAllStatus)
	}

	items := protected.Group("/tasks")
	{
		items.GET("/:id", tasks.Get)
		items.PUT("/:id", tasks.Update)
		items.DELETE("/:id", tasks.Delete)
	}
}
