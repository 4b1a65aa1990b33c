package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/Kerhoff/AptekaBot/internal/api"
	"github.com/Kerhoff/AptekaBot/internal/config"
	"github.com/Kerhoff/AptekaBot/internal/handlers"
	"github.com/Kerhoff/AptekaBot/internal/llm"
	"github.com/Kerhoff/AptekaBot/internal/repository/postgres"
	"github.com/Kerhoff/AptekaBot/internal/service"
	"github.com/Kerhoff/AptekaBot/internal/telegram"
	"github.com/Kerhoff/AptekaBot/pkg/logger"
)

func main() {
	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	l := logger.New(cfg.LogLevel)
	l.Info("Starting AptekaBot...")

	// Database
	db, err := config.NewDatabase(cfg.DatabaseURL, l)
	if err != nil {
		l.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	// Run migrations
	if err := db.Migrate("migrations"); err != nil {
		l.Fatalf("Failed to run migrations: %v", err)
	}

	// Repositories
	userRepo := postgres.NewUserRepository(db.DB)
	messageRepo := postgres.NewMessageRepository(db.DB)
	cabinetRepo := postgres.NewCabinetRepository(db.DB)
	inventoryRepo := postgres.NewInventoryRepository(db.DB)
	familyRepo := postgres.NewFamilyRepository(db.DB)
	reminderRepo := postgres.NewReminderRepository(db.DB)
	shareRepo := postgres.NewShareRepository(db.DB)

	// Service layer
	svc := service.New(db.DB, l,
		userRepo, messageRepo, cabinetRepo,
		inventoryRepo, familyRepo, reminderRepo, shareRepo,
	)

	// Context for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-sigChan
		l.Info("Received shutdown signal...")
		cancel()
	}()

	// Drop placeholder rows left over from previous sessions
	svc.PurgePlaceholders(ctx)

	// LLM client
	ai := llm.NewClient(cfg.OpenAIKey, cfg.OpenAIModel, l)

	// Telegram bot
	bot, err := telegram.NewBot(cfg.TelegramToken, l)
	if err != nil {
		l.Fatalf("Failed to create Telegram bot: %v", err)
	}

	// Register command handlers
	bot.RegisterCommand("start", handlers.NewStartHandler(l))
	bot.RegisterCommand("inventory", handlers.NewInventoryHandler(svc, l))
	bot.RegisterCommand("family", handlers.NewFamilyHandler(svc, l))
	bot.RegisterCommand("reminders", handlers.NewRemindersHandler(svc, l))
	bot.RegisterCommand("cabinets", handlers.NewCabinetsHandler(svc, l))

	// Everything that is not a command goes through the conversation
	// pipeline
	bot.SetChatHandler(handlers.NewChatHandler(svc, ai, l))

	// Start dose scheduler
	go svc.StartDoseScheduler(ctx, func(userID int64, text string) error {
		return bot.SendMessage(userID, text)
	})

	// Start HTTP server for the read API and metrics
	apiServer := api.NewServer(svc, l)
	httpServer := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: apiServer.Handler(),
	}

	go func() {
		l.Infof("HTTP server listening on :%s", cfg.Port)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			l.Errorf("HTTP server error: %v", err)
		}
	}()

	// Start Telegram bot polling
	go func() {
		if err := bot.Start(ctx); err != nil {
			l.Errorf("Bot error: %v", err)
		}
	}()

	l.Info("AptekaBot started successfully")

	<-ctx.Done()

	l.Info("Shutting down HTTP server...")
	httpServer.Close()

	l.Info("AptekaBot stopped")
}
