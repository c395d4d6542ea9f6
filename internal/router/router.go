package router

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/taskflow-dev/taskflow/internal/handlers"
	"github.com/taskflow-dev/taskflow/internal/middleware"
	"github.com/taskflow-dev/taskflow/internal/types"
)

func NewRouter() *gin.Engine {
	r := gin.Default()

	r.Use(cors.New(cors.Config{
		AllowOrigins:     types.AllowedOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "HEAD", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Length", "Content-Type", "Authorization", "Accept", "X-Requested-With"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	authenticated := middleware.AuthMiddleware()

	api := r.Group("/api")
	{
		api.GET("/health", handlers.HealthCheck)

		auth := api.Group("/auth")
		{
			auth.POST("/register", handlers.Register)
			auth.POST("/login", handlers.Login)
			auth.GET("/me", authenticated, handlers.Me)
		}

		projects := api.Group("/projects")
		{
			projects.GET("", authenticated, handlers.ListMyProjects)
			projects.GET("/all", handlers.ListAllProjects)
			projects.GET("/:id", handlers.GetProject)
			projects.POST("", authenticated, handlers.CreateProject)
			projects.PUT("/:id", authenticated, handlers.UpdateProject)
			projects.DELETE("/:id", authenticated, handlers.DeleteProject)
		}

		tasks := api.Group("/tasks")
		{
			tasks.GET("/project/:project_id", authenticated, handlers.ListTasksByProject)
			tasks.GET("/:id", handlers.GetTask)
			tasks.POST("", authenticated, handlers.CreateTask)
			tasks.PUT("/:id", authenticated, handlers.UpdateTask)
			tasks.DELETE("/:id", authenticated, handlers.DeleteTask)
		}

		users := api.Group("/users")
		{
			users.GET("", authenticated, handlers.ListUsers)
			users.GET("/:id", handlers.GetUser)
			users.PUT("/:id", authenticated, handlers.UpdateUser)
			users.DELETE("/:id", authenticated, handlers.DeleteUser)
		}
	}

	return r
}
