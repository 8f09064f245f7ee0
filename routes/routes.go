package routes

import (
	"net/http"

	"falaquiz/handlers"
	"falaquiz/middleware"

	"github.com/gin-gonic/gin"
)

func SetupRoutes(
	router *gin.Engine,
	authHandler *handlers.AuthHandler,
	quizHandler *handlers.QuizHandler,
	sessionHandler *handlers.SessionHandler,
	statsHandler *handlers.StatsHandler,
	jwtSecret string,
) {
	// API routes
	api := router.Group("/api")
	{
		// Auth routes (public)
		auth := api.Group("/auth")
		{
			auth.POST("/register", authHandler.Register)
			auth.POST("/login", authHandler.Login)
		}

		// Protected routes
		protected := api.Group("/")
		protected.Use(middleware.AuthMiddleware(jwtSecret))
		{
			// User profile
			protected.GET("/auth/profile", authHandler.GetProfile)

			// Quiz routes
			quizzes := protected.Group("/quizzes")
			{
				quizzes.GET("", quizHandler.GetActiveQuizzes)
				quizzes.GET("/:id", quizHandler.GetQuizByID)
			}

			// Admin-only quiz management and reporting
			admin := protected.Group("/")
			admin.Use(middleware.AdminOnly())
			{
				admin.POST("/quizzes", quizHandler.GenerateQuiz)
				admin.DELETE("/quizzes/:id", quizHandler.DeleteQuiz)
				admin.GET("/quizzes/:id/pending", statsHandler.GetPendingStudents)
				admin.POST("/quizzes/:id/remind", statsHandler.SendReminders)
				admin.GET("/rankings", statsHandler.GetRankings)
			}

			// Quiz session routes
			sessions := protected.Group("/sessions")
			{
				sessions.POST("", sessionHandler.StartSession)
				sessions.GET("/:token", sessionHandler.GetSession)
				sessions.POST("/:token/answer", sessionHandler.SelectAnswer)
				sessions.POST("/:token/advance", sessionHandler.Advance)
			}

			// Student results
			protected.GET("/results", statsHandler.GetMyResults)
		}
	}

	// Health check endpoint
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
}
