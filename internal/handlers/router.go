package handlers

import (
	"github.com/gin-gonic/gin"
)

// RegisterRoutes mounts the API surface on r. Task routes are guarded by
// authMW; auth routes are public.
func RegisterRoutes(r *gin.Engine, tasks *TaskHandler, auth *AuthHandler, authMW gin.HandlerFunc) {
	v1 := r.Group("/api/v1")

	authRoutes := v1.Group("/auth")
	{
		authRoutes.POST("/signup", auth.Signup)
		authRoutes.POST("/login", auth.Login)
		authRoutes.POST("/refresh", auth.Refresh)
		authRoutes.POST("/logout", auth.Logout)
	}

	taskRoutes := v1.Group("/tasks")
	taskRoutes.Use(authMW)
	{
		taskRoutes.POST("", tasks.CreateTask)
		taskRoutes.GET("", tasks.GetTasks)
		taskRoutes.GET("/:id", tasks.GetTaskByID)
		taskRoutes.PATCH("/:id", tasks.UpdateTask)
		taskRoutes.DELETE("/:id", tasks.DeleteTask)
	}

	r.NoRoute(NotFoundRoute())
}
