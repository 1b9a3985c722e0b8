package handlers

import (
	"context"
	"errors"
	"fmt"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"

	"notekeeper/internal/notes"
	"notekeeper/internal/ratelimit"
	"notekeeper/internal/scheduler"
)

type Handlers struct {
	api        *tgbotapi.BotAPI
	svc        *notes.Service
	limiter    *ratelimit.Limiter
	sched      *scheduler.Scheduler
	previewLen int
	logger     *zap.SugaredLogger
}

func New(api *tgbotapi.BotAPI, svc *notes.Service, limiter *ratelimit.Limiter, sched *scheduler.Scheduler, previewLen int, logger *zap.SugaredLogger) *Handlers {
	if previewLen <= 0 {
		previewLen = 50
	}
	return &Handlers{
		api:        api,
		svc:        svc,
		limiter:    limiter,
		sched:      sched,
		previewLen: previewLen,
		logger:     logger,
	}
}

func (h *Handlers) HandleCommand(ctx context.Context, msg *tgbotapi.Message) {
	command := msg.Command()

	if ok, retryAfter := h.limiter.AllowCommand(msg.From.ID, command); !ok {
		h.sendMessage(msg.Chat.ID, fmt.Sprintf("⏳ Slow down! Try again in %.0f seconds.", retryAfter.Seconds()))
		return
	}

	switch command {
	case "start":
		h.handleStart(msg)
	case "help":
		h.handleHelp(msg)
	case "add":
		h.handleAdd(ctx, msg)
	case "list":
		h.handleList(ctx, msg)
	case "search":
		h.handleSearch(ctx, msg)
	case "delete":
		h.handleDelete(ctx, msg)
	case "remind":
		h.handleRemind(ctx, msg)
	case "reminders":
		h.handleReminders(ctx, msg)
	case "cancel":
		h.handleCancel(ctx, msg)
	default:
		h.sendMessage(msg.Chat.ID, "Unknown command. Use /help to see what I can do.")
	}
}

// HandleMessage treats any non-command text as a note to capture.
func (h *Handlers) HandleMessage(ctx context.Context, msg *tgbotapi.Message) {
	if ok, retryAfter := h.limiter.AllowCommand(msg.From.ID, "add"); !ok {
		h.sendMessage(msg.Chat.ID, fmt.Sprintf("⏳ Slow down! Try again in %.0f seconds.", retryAfter.Seconds()))
		return
	}
	h.addNote(ctx, msg, msg.Text)
}

// respondError maps domain errors to user-visible messages. Storage
// failures get logged with context and a generic retryable reply; the
// not-found message never says whether the row exists for someone else.
func (h *Handlers) respondError(chatID int64, userID int64, err error) {
	var verr *notes.ValidationError
	if errors.As(err, &verr) {
		h.sendMessage(chatID, "⚠️ "+verr.Reason)
		return
	}

	var lerr *notes.LimitExceededError
	if errors.As(err, &lerr) {
		h.sendMessage(chatID, fmt.Sprintf("⚠️ You already have %d active reminders. Cancel one first with /cancel.", lerr.Limit))
		return
	}

	if errors.Is(err, notes.ErrNotFound) {
		h.sendMessage(chatID, "Not found.")
		return
	}

	h.logger.Errorw("storage failure", "user", userID, "err", err)
	h.sendMessage(chatID, "Something went wrong, please try again later.")
}

func (h *Handlers) sendMessage(chatID int64, text string) {
	msg := tgbotapi.NewMessage(chatID, text)
	if _, err := h.api.Send(msg); err != nil {
		h.logger.Errorw("failed sending message", "chat", chatID, "err", err)
	}
}

func (h *Handlers) handleStart(msg *tgbotapi.Message) {
	text := fmt.Sprintf(`👋 Hi %s!

I keep your notes and sort them into categories for you:
📋 task · 💡 idea · 💬 quote · 📝 other

Send me any text and I'll file it, or use /help to see all commands.`, msg.From.FirstName)
	h.sendMessage(msg.Chat.ID, text)
}

func (h *Handlers) handleHelp(msg *tgbotapi.Message) {
	text := `📖 Commands

/add <text> - save a note (or just send me text)
/list [category] [page] - list your notes
/search <keyword> [page] - search your notes
/delete <id> - delete a note
/remind <id> <time> - set a reminder for a note
/reminders - list active reminders
/cancel <id> - cancel a reminder

Reminder times: "in 2 hours", "14:30", "2:30pm", "2024-01-15", "tomorrow"`
	h.sendMessage(msg.Chat.ID, text)
}
