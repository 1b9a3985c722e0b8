// Package bot runs the Telegram update loop and routes commands to the
// handlers. Free-form text is captured as a note, matching the original
// bot behavior of filing anything a user sends.
package bot

import (
	"context"
	"fmt"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"

	"notekeeper/internal/bot/handlers"
	"notekeeper/internal/notes"
	"notekeeper/internal/ratelimit"
	"notekeeper/internal/scheduler"
)

type Bot struct {
	api      *tgbotapi.BotAPI
	handlers *handlers.Handlers
	logger   *zap.SugaredLogger
}

func New(token string, svc *notes.Service, limiter *ratelimit.Limiter, sched *scheduler.Scheduler, previewLen int, logger *zap.SugaredLogger) (*Bot, error) {
	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("failed to create bot: %w", err)
	}

	return &Bot{
		api:      api,
		handlers: handlers.New(api, svc, limiter, sched, previewLen, logger),
		logger:   logger,
	}, nil
}

func (b *Bot) Start(ctx context.Context) error {
	b.logger.Infow("authorized", "account", b.api.Self.UserName)

	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60

	updates := b.api.GetUpdatesChan(u)

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case update := <-updates:
			go b.handleUpdate(ctx, update)
		}
	}
}

func (b *Bot) handleUpdate(ctx context.Context, update tgbotapi.Update) {
	if update.Message == nil || update.Message.From == nil {
		return
	}

	if update.Message.IsCommand() {
		b.handlers.HandleCommand(ctx, update.Message)
		return
	}

	if update.Message.Text != "" {
		b.handlers.HandleMessage(ctx, update.Message)
	}
}
