package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"

	"notekeeper/internal/ai"
	"notekeeper/internal/bot"
	"notekeeper/internal/categorizer"
	"notekeeper/internal/config"
	"notekeeper/internal/database"
	"notekeeper/internal/notes"
	"notekeeper/internal/ratelimit"
	"notekeeper/internal/repository"
	"notekeeper/internal/scheduler"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	if cfg.DatabaseURI == "" {
		log.Fatal("DATABASE_URI is required")
	}
	if cfg.TelegramToken == "" {
		log.Fatal("TELEGRAM_TOKEN is required")
	}

	zl, err := zap.NewProduction()
	if err != nil {
		log.Fatalf("Failed to create logger: %v", err)
	}
	defer zl.Sync()
	logger := zl.Sugar()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	db, err := database.New(ctx, cfg.DatabaseURI)
	if err != nil {
		logger.Fatalw("failed connecting to database", "err", err)
	}
	defer db.Close()
	logger.Infow("connected to database")

	if err := db.Migrate(ctx); err != nil {
		logger.Fatalw("failed running migrations", "err", err)
	}
	logger.Infow("database migrations completed")

	noteRepo := repository.NewNoteRepository(db)
	reminderRepo := repository.NewReminderRepository(db)

	var llm notes.LLMCategorizer
	if cfg.AIAPIKey != "" {
		llm = ai.New(cfg.AIAPIKey, cfg.AIBaseURL, cfg.AIModel)
		logger.Infow("AI categorization enabled", "model", cfg.AIModel)
	} else {
		logger.Infow("AI categorization not configured, using rule catalog only")
	}

	svc := notes.NewService(noteRepo, reminderRepo, categorizer.New(categorizer.DefaultCatalog()), llm, notes.Options{
		NotesPerPage:       cfg.NotesPerPage,
		MaxPageSize:        cfg.MaxPageSize,
		ReminderMaxPerUser: cfg.ReminderMaxPerUser,
		EvictOldest:        cfg.ReminderEvictOldest,
		Location:           cfg.Location(),
		AITimeout:          cfg.AITimeout,
	}, logger)

	limiter := ratelimit.New(cfg.RateLimitBucketSize, cfg.RateLimitWindow, cfg.RateLimitEnabled)

	// Separate API client for scheduler-originated messages.
	tgAPI, err := tgbotapi.NewBotAPI(cfg.TelegramToken)
	if err != nil {
		logger.Fatalw("failed creating Telegram API", "err", err)
	}

	sched := scheduler.New(tgAPI, noteRepo, reminderRepo, scheduler.Options{
		KeepDelivered:    cfg.ReminderKeepDelivered,
		MaxPreviewLength: cfg.MaxPreviewLength,
	}, logger)
	go sched.Start(ctx)

	b, err := bot.New(cfg.TelegramToken, svc, limiter, sched, cfg.MaxPreviewLength, logger)
	if err != nil {
		logger.Fatalw("failed creating bot", "err", err)
	}

	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh
		logger.Infow("shutting down")
		cancel()
	}()

	logger.Infow("starting bot")
	if err := b.Start(ctx); err != nil && err != context.Canceled {
		logger.Fatalw("bot error", "err", err)
	}
}
