package router

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/kanwise-dev/kanwise/internal/handlers"
	"github.com/kanwise-dev/kanwise/internal/middleware"
	"github.com/kanwise-dev/kanwise/internal/types"
)

func NewRouter() *gin.Engine {
	r := gin.Default()

	r.Use(cors.New(cors.Config{
		AllowOrigins:     types.AllowedOrigins,
		AllowMethods:     []string{"GET", "POST", "PATCH", "DELETE", "HEAD", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Length", "Content-Type", "Authorization", "Accept", "X-Requested-With"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	api := r.Group("/api")
	{
		api.GET("/health", handlers.HealthCheck)

		auth := api.Group("/auth")
		{
			auth.POST("/registration", handlers.Registration)
			auth.POST("/login", handlers.Login)
			auth.GET("/email-check", middleware.AuthMiddleware(), handlers.EmailCheck)
		}

		boards := api.Group("/boards", middleware.AuthMiddleware())
		{
			boards.POST("", handlers.CreateBoard)
			boards.GET("", handlers.ListBoards)
			boards.GET("/:board_id", handlers.GetBoard)
			boards.PATCH("/:board_id", handlers.UpdateBoard)
			boards.DELETE("/:board_id", handlers.DeleteBoard)
		}

		tasks := api.Group("/tasks", middleware.AuthMiddleware())
		{
			tasks.POST("", handlers.CreateTask)

			// Unscoped task listing and detail are deliberately hidden.
			tasks.GET("", handlers.TaskNotFound)
			tasks.GET("/:task_id", handlers.TaskNotFound)

			tasks.GET("/assigned-to-me", handlers.AssignedToMe)
			tasks.GET("/reviewing", handlers.Reviewing)
			tasks.PATCH("/:task_id", handlers.UpdateTask)
			tasks.DELETE("/:task_id", handlers.DeleteTask)

			tasks.GET("/:task_id/comments", handlers.ListComments)
			tasks.POST("/:task_id/comments", handlers.CreateComment)
			tasks.DELETE("/:task_id/comments/:comment_id", handlers.DeleteComment)
		}
	}

	return r
}
