package handlers

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"notekeeper/internal/models"
	"notekeeper/internal/pagination"
)

var categoryIcons = map[models.Category]string{
	models.CategoryTask:  "📋",
	models.CategoryIdea:  "💡",
	models.CategoryQuote: "💬",
	models.CategoryOther: "📝",
}

func (h *Handlers) handleAdd(ctx context.Context, msg *tgbotapi.Message) {
	h.addNote(ctx, msg, msg.CommandArguments())
}

func (h *Handlers) addNote(ctx context.Context, msg *tgbotapi.Message, text string) {
	note, confidence, err := h.svc.Add(ctx, msg.From.ID, text)
	if err != nil {
		h.respondError(msg.Chat.ID, msg.From.ID, err)
		return
	}

	reply := fmt.Sprintf("✅ Saved note #%d as %s %s (confidence %.0f%%)",
		note.NoteID, categoryIcons[note.Category], note.Category, confidence*100)
	h.sendMessage(msg.Chat.ID, reply)
}

// handleList accepts "/list", "/list <category>", "/list <page>" and
// "/list <category> <page>".
func (h *Handlers) handleList(ctx context.Context, msg *tgbotapi.Message) {
	args := strings.Fields(msg.CommandArguments())

	category := ""
	page := 1
	for _, arg := range args {
		if n, err := strconv.Atoi(arg); err == nil {
			page = n
			continue
		}
		category = strings.ToLower(arg)
	}

	result, err := h.svc.List(ctx, msg.From.ID, category, page, 0)
	if err != nil {
		h.respondError(msg.Chat.ID, msg.From.ID, err)
		return
	}

	if result.TotalCount == 0 {
		if category != "" {
			h.sendMessage(msg.Chat.ID, fmt.Sprintf("No notes in category '%s' yet.", category))
		} else {
			h.sendMessage(msg.Chat.ID, "No notes yet. Send me some text to get started!")
		}
		return
	}

	title := fmt.Sprintf("📝 Your notes (Page %d/%d, %d total)", result.Page, result.TotalPages, result.TotalCount)
	if category != "" {
		title = fmt.Sprintf("%s Your '%s' notes (Page %d/%d, %d total)",
			categoryIcons[models.Category(category)], category, result.Page, result.TotalPages, result.TotalCount)
	}
	h.sendMessage(msg.Chat.ID, h.renderPage(title, result))
}

func (h *Handlers) handleSearch(ctx context.Context, msg *tgbotapi.Message) {
	args := strings.Fields(msg.CommandArguments())
	if len(args) == 0 {
		h.sendMessage(msg.Chat.ID, "Usage: /search <keyword> [page]")
		return
	}

	page := 1
	if len(args) > 1 {
		if n, err := strconv.Atoi(args[len(args)-1]); err == nil {
			page = n
			args = args[:len(args)-1]
		}
	}
	keyword := strings.Join(args, " ")

	result, err := h.svc.Search(ctx, msg.From.ID, keyword, page, 0)
	if err != nil {
		h.respondError(msg.Chat.ID, msg.From.ID, err)
		return
	}

	if result.TotalCount == 0 {
		h.sendMessage(msg.Chat.ID, fmt.Sprintf("No notes matching '%s'.", keyword))
		return
	}

	title := fmt.Sprintf("🔍 Notes matching '%s' (Page %d/%d, %d total)",
		keyword, result.Page, result.TotalPages, result.TotalCount)
	h.sendMessage(msg.Chat.ID, h.renderPage(title, result))
}

func (h *Handlers) handleDelete(ctx context.Context, msg *tgbotapi.Message) {
	noteID, err := strconv.Atoi(strings.TrimSpace(msg.CommandArguments()))
	if err != nil {
		h.sendMessage(msg.Chat.ID, "Usage: /delete <note id>")
		return
	}

	deleted, err := h.svc.Delete(ctx, msg.From.ID, noteID)
	if err != nil {
		h.respondError(msg.Chat.ID, msg.From.ID, err)
		return
	}
	if !deleted {
		h.sendMessage(msg.Chat.ID, "Not found.")
		return
	}
	h.sendMessage(msg.Chat.ID, fmt.Sprintf("🗑 Note #%d deleted.", noteID))
}

func (h *Handlers) renderPage(title string, result pagination.PageResult[*models.Note]) string {
	var sb strings.Builder
	sb.WriteString(title)
	sb.WriteString("\n\n")

	for _, note := range result.Items {
		sb.WriteString(fmt.Sprintf("%s #%d %s\n", categoryIcons[note.Category], note.NoteID, h.preview(note.Text)))
		sb.WriteString(fmt.Sprintf("    %s\n", note.CreatedAt.Format("2006-01-02 15:04")))
	}

	if result.HasNext {
		sb.WriteString(fmt.Sprintf("\nUse page %d to see more.", result.Page+1))
	}
	return sb.String()
}

func (h *Handlers) preview(text string) string {
	runes := []rune(text)
	if len(runes) <= h.previewLen {
		return text
	}
	return string(runes[:h.previewLen]) + "..."
}
