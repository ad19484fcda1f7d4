package main

import (
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	log "github.com/sirupsen/logrus"

	"github.com/dastin52/bet-diary-app-sub000/internal/config"
	"github.com/dastin52/bet-diary-app-sub000/internal/handlers"
	"github.com/dastin52/bet-diary-app-sub000/internal/middleware"
	"github.com/dastin52/bet-diary-app-sub000/internal/services"
	"github.com/dastin52/bet-diary-app-sub000/internal/store"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Info("No .env file found, using environment variables")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	if level, err := log.ParseLevel(cfg.LogLevel); err == nil {
		log.SetLevel(level)
	}

	kv, err := store.NewRedisKV(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to Redis: %v", err)
	}
	defer kv.Close()

	aggregates := store.NewAggregateStore(kv)
	jwtService := services.NewJWTService(cfg)
	authService := services.NewAuthService(aggregates)
	syncService := services.NewSyncService(aggregates)
	journalService := services.NewJournalService(aggregates, syncService)

	authHandler := handlers.NewAuthHandler(authService, syncService, jwtService)
	journalHandler := handlers.NewJournalHandler(journalService)

	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.Default()

	router.Use(func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	})

	router.POST("/auth/register", authHandler.Register)
	router.POST("/auth/login", authHandler.Login)

	protected := router.Group("/api")
	protected.Use(middleware.AuthMiddleware(jwtService))
	{
		protected.GET("/journal", journalHandler.GetJournal)
		protected.GET("/stats", journalHandler.GetStats)

		protected.POST("/wagers", journalHandler.CreateWager)
		protected.PUT("/wagers/:id/status", journalHandler.SetWagerStatus)
		protected.DELETE("/wagers/:id", journalHandler.DeleteWager)

		protected.PUT("/balance", journalHandler.SetBalance)

		protected.POST("/goals", journalHandler.CreateGoal)
		protected.DELETE("/goals/:id", journalHandler.DeleteGoal)

		protected.POST("/link-code", authHandler.IssueLinkCode)
	}

	log.WithField("port", cfg.Port).Info("Server starting")
	if err := router.Run(":" + cfg.Port); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
