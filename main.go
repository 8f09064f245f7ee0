package main

import (
	"log"

	"falaquiz/config"
	"falaquiz/gemini"
	"falaquiz/handlers"
	"falaquiz/middleware"
	"falaquiz/models"
	"falaquiz/routes"
	"falaquiz/services"

	"github.com/gin-gonic/gin"
)

func main() {
	// Load configuration
	cfg := config.Load()

	// Initialize database
	db, err := config.InitDB(cfg)
	if err != nil {
		log.Fatal("Failed to connect to database:", err)
	}

	// Auto-migrate database models
	err = db.AutoMigrate(
		&models.User{},
		&models.Quiz{},
		&models.Question{},
		&models.Answer{},
		&models.Result{},
		&models.UserAnswer{},
	)
	if err != nil {
		log.Fatal("Failed to migrate database:", err)
	}

	// Initialize Redis
	redisClient := config.InitRedis(cfg)

	// Initialize Gemini client
	geminiClient := gemini.NewClient(cfg.GeminiAPIKey, cfg.GeminiModel)

	// Initialize services
	authService := services.NewAuthService(db, cfg.JWTSecret)
	quizService := services.NewQuizService(db, geminiClient)
	sessionService := services.NewSessionService(db, redisClient)
	statsService := services.NewStatsService(db)
	reminderService := services.NewReminderService(cfg.ResendAPIKey, cfg.ReminderSender)

	// Seed the admin account if configured
	if err := authService.EnsureAdmin(cfg.AdminEmail, cfg.AdminPassword); err != nil {
		log.Fatal("Failed to seed admin account:", err)
	}

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(authService)
	quizHandler := handlers.NewQuizHandler(quizService)
	sessionHandler := handlers.NewSessionHandler(sessionService)
	statsHandler := handlers.NewStatsHandler(statsService, quizService, reminderService)

	// Setup Gin router
	router := gin.Default()

	// Add CORS middleware
	router.Use(middleware.CORS())

	// Setup routes
	routes.SetupRoutes(router, authHandler, quizHandler, sessionHandler, statsHandler, cfg.JWTSecret)

	// Start server
	log.Printf("Server starting on port %s", cfg.Port)
	if err := router.Run(":" + cfg.Port); err != nil {
		log.Fatal("Failed to start server:", err)
	}
}
