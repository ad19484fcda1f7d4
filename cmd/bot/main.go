package main

import (
	"context"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	log "github.com/sirupsen/logrus"

	"github.com/dastin52/bet-diary-app-sub000/internal/config"
	"github.com/dastin52/bet-diary-app-sub000/internal/dialog"
	"github.com/dastin52/bet-diary-app-sub000/internal/services"
	"github.com/dastin52/bet-diary-app-sub000/internal/store"
	"github.com/dastin52/bet-diary-app-sub000/internal/telegram"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Info("No .env file found, using environment variables")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	if cfg.BotToken == "" {
		log.Fatal("TELEGRAM_BOT_TOKEN is required")
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
	authService := services.NewAuthService(aggregates)
	syncService := services.NewSyncService(aggregates)
	journalService := services.NewJournalService(aggregates, syncService)
	engine := dialog.NewEngine(authService, syncService)

	bot, err := telegram.New(cfg, aggregates, engine, journalService, syncService)
	if err != nil {
		log.Fatalf("Failed to start bot: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	log.Info("Bot starting")
	if err := bot.Run(ctx); err != nil && err != context.Canceled {
		log.Fatalf("Bot stopped: %v", err)
	}
}
