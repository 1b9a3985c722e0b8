// Package scheduler polls for due reminders and dispatches them to
// Telegram. It is the only writer of the delivered flag, and delivery
// is at-least-once: after a crash between send and mark, the reminder
// fires again, which the idempotent flag absorbs.
package scheduler

import (
	"context"
	"errors"
	"fmt"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/jackc/pgx/v5"
	"github.com/jmhodges/clock"
	"go.uber.org/zap"

	"notekeeper/internal/models"
)

const defaultCheckInterval = 1 * time.Minute

// Sender is the slice of tgbotapi.BotAPI the scheduler needs.
type Sender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
}

type NoteGetter interface {
	GetByID(ctx context.Context, noteID int, ownerID int64) (*models.Note, error)
}

type ReminderQueue interface {
	GetDue(ctx context.Context, now time.Time) ([]*models.Reminder, error)
	MarkDelivered(ctx context.Context, reminderID int) error
	DeleteByID(ctx context.Context, reminderID int) error
}

type Options struct {
	CheckInterval time.Duration
	// KeepDelivered retains delivered rows instead of deleting them.
	KeepDelivered    bool
	MaxPreviewLength int
}

type Scheduler struct {
	api       Sender
	notes     NoteGetter
	reminders ReminderQueue
	opts      Options
	clk       clock.Clock
	logger    *zap.SugaredLogger
	notifyCh  chan struct{}
}

func New(api Sender, notes NoteGetter, reminders ReminderQueue, opts Options, logger *zap.SugaredLogger) *Scheduler {
	if opts.CheckInterval <= 0 {
		opts.CheckInterval = defaultCheckInterval
	}
	if opts.MaxPreviewLength <= 0 {
		opts.MaxPreviewLength = 50
	}
	return &Scheduler{
		api:       api,
		notes:     notes,
		reminders: reminders,
		opts:      opts,
		clk:       clock.New(),
		logger:    logger,
		notifyCh:  make(chan struct{}, 1),
	}
}

// WithClock substitutes the time source. Tests use a fake clock.
func (s *Scheduler) WithClock(clk clock.Clock) *Scheduler {
	s.clk = clk
	return s
}

// Notify triggers an immediate check. Non-blocking if a check is
// already pending.
func (s *Scheduler) Notify() {
	select {
	case s.notifyCh <- struct{}{}:
	default:
	}
}

func (s *Scheduler) Start(ctx context.Context) {
	s.logger.Infow("scheduler started", "interval", s.opts.CheckInterval)
	ticker := time.NewTicker(s.opts.CheckInterval)
	defer ticker.Stop()

	s.Check(ctx)

	for {
		select {
		case <-ctx.Done():
			s.logger.Infow("scheduler stopped")
			return
		case <-ticker.C:
			s.Check(ctx)
		case <-s.notifyCh:
			s.Check(ctx)
		}
	}
}

// Check dispatches every reminder due at the current time. Exported so
// tests can drive the scheduler without the polling loop.
func (s *Scheduler) Check(ctx context.Context) {
	now := s.clk.Now()
	due, err := s.reminders.GetDue(ctx, now)
	if err != nil {
		s.logger.Errorw("failed getting due reminders", "err", err)
		return
	}

	for _, reminder := range due {
		s.dispatch(ctx, reminder)
	}
}

func (s *Scheduler) dispatch(ctx context.Context, reminder *models.Reminder) {
	note, err := s.notes.GetByID(ctx, reminder.NoteID, reminder.OwnerID)
	if errors.Is(err, pgx.ErrNoRows) {
		// The note was deleted after scheduling. Soft-cancel instead of
		// failing the delivery.
		s.logger.Infow("discarding orphaned reminder",
			"reminder", reminder.ReminderID, "note", reminder.NoteID)
		if err := s.reminders.DeleteByID(ctx, reminder.ReminderID); err != nil {
			s.logger.Errorw("failed discarding orphaned reminder",
				"reminder", reminder.ReminderID, "err", err)
		}
		return
	}
	if err != nil {
		s.logger.Errorw("failed loading note for reminder",
			"reminder", reminder.ReminderID, "err", err)
		return
	}

	text := fmt.Sprintf("⏰ Reminder for note #%d [%s]:\n\n%s",
		note.NoteID, note.Category, preview(note.Text, s.opts.MaxPreviewLength))
	msg := tgbotapi.NewMessage(reminder.OwnerID, text)

	if _, err := s.api.Send(msg); err != nil {
		s.logger.Errorw("failed sending reminder",
			"reminder", reminder.ReminderID, "owner", reminder.OwnerID, "err", err)
		return
	}

	if err := s.reminders.MarkDelivered(ctx, reminder.ReminderID); err != nil {
		s.logger.Errorw("failed marking reminder delivered",
			"reminder", reminder.ReminderID, "err", err)
		return
	}

	if !s.opts.KeepDelivered {
		if err := s.reminders.DeleteByID(ctx, reminder.ReminderID); err != nil {
			s.logger.Errorw("failed deleting delivered reminder",
				"reminder", reminder.ReminderID, "err", err)
		}
	}

	s.logger.Infow("sent reminder", "reminder", reminder.ReminderID, "owner", reminder.OwnerID)
}

func preview(text string, max int) string {
	runes := []rune(text)
	if len(runes) <= max {
		return text
	}
	return string(runes[:max]) + "..."
}
