package handlers

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

func (h *Handlers) handleRemind(ctx context.Context, msg *tgbotapi.Message) {
	args := strings.Fields(msg.CommandArguments())
	if len(args) < 2 {
		h.sendMessage(msg.Chat.ID, "Usage: /remind <note id> <time>\nExample: /remind 3 in 2 hours")
		return
	}

	noteID, err := strconv.Atoi(args[0])
	if err != nil {
		h.sendMessage(msg.Chat.ID, "Usage: /remind <note id> <time>")
		return
	}
	timeStr := strings.Join(args[1:], " ")

	reminder, err := h.svc.Remind(ctx, msg.From.ID, noteID, timeStr)
	if err != nil {
		h.respondError(msg.Chat.ID, msg.From.ID, err)
		return
	}

	// Wake the scheduler so near-term reminders don't wait a full tick.
	h.sched.Notify()

	h.sendMessage(msg.Chat.ID, fmt.Sprintf("⏰ Reminder #%d set for note #%d at %s.",
		reminder.ReminderID, reminder.NoteID, reminder.DueAt.Format("2006-01-02 15:04")))
}

func (h *Handlers) handleReminders(ctx context.Context, msg *tgbotapi.Message) {
	reminders, err := h.svc.Reminders(ctx, msg.From.ID)
	if err != nil {
		h.respondError(msg.Chat.ID, msg.From.ID, err)
		return
	}

	if len(reminders) == 0 {
		h.sendMessage(msg.Chat.ID, "No active reminders.")
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("⏰ Active reminders (%d)\n\n", len(reminders)))
	for _, r := range reminders {
		sb.WriteString(fmt.Sprintf("#%d → note #%d at %s\n",
			r.ReminderID, r.NoteID, r.DueAt.Format("2006-01-02 15:04")))
	}
	h.sendMessage(msg.Chat.ID, sb.String())
}

func (h *Handlers) handleCancel(ctx context.Context, msg *tgbotapi.Message) {
	reminderID, err := strconv.Atoi(strings.TrimSpace(msg.CommandArguments()))
	if err != nil {
		h.sendMessage(msg.Chat.ID, "Usage: /cancel <reminder id>")
		return
	}

	cancelled, err := h.svc.CancelReminder(ctx, msg.From.ID, reminderID)
	if err != nil {
		h.respondError(msg.Chat.ID, msg.From.ID, err)
		return
	}
	if !cancelled {
		h.sendMessage(msg.Chat.ID, "Not found.")
		return
	}
	h.sendMessage(msg.Chat.ID, fmt.Sprintf("❌ Reminder #%d cancelled.", reminderID))
}
