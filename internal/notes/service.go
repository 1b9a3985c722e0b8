// Package notes is the core of the bot: it validates input, assigns
// categories, persists notes and reminders, and pages through results.
// Storage is injected as interfaces so tests can substitute in-memory
// fakes; the Telegram transport and the scheduler are the only callers.
package notes

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jmhodges/clock"
	"go.uber.org/zap"

	"notekeeper/internal/categorizer"
	"notekeeper/internal/models"
	"notekeeper/internal/pagination"
	"notekeeper/internal/timeparse"
)

type NoteStore interface {
	Create(ctx context.Context, note *models.Note) error
	GetByID(ctx context.Context, noteID int, ownerID int64) (*models.Note, error)
	Delete(ctx context.Context, ownerID int64, noteID int) (bool, error)
	List(ctx context.Context, ownerID int64, category models.Category, limit, offset int) ([]*models.Note, int, error)
	Search(ctx context.Context, ownerID int64, keyword string, limit, offset int) ([]*models.Note, int, error)
}

type ReminderStore interface {
	Create(ctx context.Context, reminder *models.Reminder) error
	ListActive(ctx context.Context, ownerID int64) ([]*models.Reminder, error)
	CountActive(ctx context.Context, ownerID int64) (int, error)
	Delete(ctx context.Context, reminderID int, ownerID int64) (bool, error)
	DeleteOldestActive(ctx context.Context, ownerID int64) (bool, error)
}

// LLMCategorizer is the optional external categorization service. Its
// failures never reach the caller; the rule-based categorizer is the
// mandatory fallback.
type LLMCategorizer interface {
	CategorizeNote(ctx context.Context, text string) (models.Category, error)
}

type Options struct {
	NotesPerPage       int
	MaxPageSize        int
	ReminderMaxPerUser int
	// EvictOldest drops the owner's oldest active reminder instead of
	// rejecting when the cap is hit.
	EvictOldest bool
	Location    *time.Location
	AITimeout   time.Duration
}

type Service struct {
	notes     NoteStore
	reminders ReminderStore
	cat       *categorizer.Categorizer
	llm       LLMCategorizer // nil when not configured
	opts      Options
	clk       clock.Clock
	logger    *zap.SugaredLogger
}

func NewService(notes NoteStore, reminders ReminderStore, cat *categorizer.Categorizer, llm LLMCategorizer, opts Options, logger *zap.SugaredLogger) *Service {
	if opts.Location == nil {
		opts.Location = time.UTC
	}
	if opts.AITimeout <= 0 {
		opts.AITimeout = 10 * time.Second
	}
	return &Service{
		notes:     notes,
		reminders: reminders,
		cat:       cat,
		llm:       llm,
		opts:      opts,
		clk:       clock.New(),
		logger:    logger,
	}
}

// WithClock substitutes the time source. Tests use a fake clock.
func (s *Service) WithClock(clk clock.Clock) *Service {
	s.clk = clk
	return s
}

// Add categorizes text and persists it as a new note, returning the
// stored note and the categorization confidence.
func (s *Service) Add(ctx context.Context, ownerID int64, text string) (*models.Note, float64, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, 0, &ValidationError{Reason: "note text must not be empty"}
	}

	category, confidence := s.categorize(ctx, text)

	note := &models.Note{
		OwnerID:  ownerID,
		Text:     text,
		Category: category,
	}
	if err := s.notes.Create(ctx, note); err != nil {
		return nil, 0, err
	}
	return note, confidence, nil
}

// categorize runs the external categorizer when configured, under a
// bounded timeout, and falls back to the rule catalog on any failure.
// When the external label disagrees with the rules it still wins, but
// confidence drops to the low-certainty constant since the rules could
// not corroborate it.
func (s *Service) categorize(ctx context.Context, text string) (models.Category, float64) {
	ruleCat, ruleConf := s.cat.Categorize(text)
	if s.llm == nil {
		return ruleCat, ruleConf
	}

	llmCtx, cancel := context.WithTimeout(ctx, s.opts.AITimeout)
	defer cancel()

	llmCat, err := s.llm.CategorizeNote(llmCtx, text)
	if err != nil {
		s.logger.Warnw("external categorization failed, using rule catalog", "err", err)
		if ruleConf > categorizer.FallbackConfidence {
			return ruleCat, categorizer.FallbackConfidence
		}
		return ruleCat, ruleConf
	}

	if llmCat == ruleCat {
		return ruleCat, ruleConf
	}
	return llmCat, categorizer.FallbackConfidence
}

// List returns one page of the owner's notes, optionally filtered to a
// category label.
func (s *Service) List(ctx context.Context, ownerID int64, category string, page, pageSize int) (pagination.PageResult[*models.Note], error) {
	var empty pagination.PageResult[*models.Note]

	var cat models.Category
	if category != "" {
		if !models.ValidCategory(category) {
			return empty, &ValidationError{Reason: "unknown category: " + category}
		}
		cat = models.Category(category)
	}

	page, pageSize = pagination.Clamp(page, pageSize, s.opts.NotesPerPage, s.opts.MaxPageSize)
	items, total, err := s.notes.List(ctx, ownerID, cat, pageSize, pagination.Offset(page, pageSize))
	if err != nil {
		return empty, err
	}
	return pagination.New(items, page, pageSize, total), nil
}

// Search pages through the owner's notes whose text contains keyword.
// An empty keyword matches nothing, never everything.
func (s *Service) Search(ctx context.Context, ownerID int64, keyword string, page, pageSize int) (pagination.PageResult[*models.Note], error) {
	page, pageSize = pagination.Clamp(page, pageSize, s.opts.NotesPerPage, s.opts.MaxPageSize)

	if strings.TrimSpace(keyword) == "" {
		return pagination.New[*models.Note](nil, page, pageSize, 0), nil
	}

	items, total, err := s.notes.Search(ctx, ownerID, keyword, pageSize, pagination.Offset(page, pageSize))
	if err != nil {
		return pagination.PageResult[*models.Note]{}, err
	}
	return pagination.New(items, page, pageSize, total), nil
}

// Delete removes the owner's note. Dependent reminders stay behind as
// orphans; the scheduler discards them at fire time.
func (s *Service) Delete(ctx context.Context, ownerID int64, noteID int) (bool, error) {
	return s.notes.Delete(ctx, ownerID, noteID)
}

// Remind schedules a reminder for an existing note. timeStr accepts the
// formats of timeparse.Parse; the resolved time must be in the future.
func (s *Service) Remind(ctx context.Context, ownerID int64, noteID int, timeStr string) (*models.Reminder, error) {
	now := s.clk.Now()
	dueAt, err := timeparse.Parse(timeStr, now, s.opts.Location)
	if err != nil {
		return nil, &ValidationError{Reason: err.Error()}
	}
	if !dueAt.After(now) {
		return nil, &ValidationError{Reason: "reminder time must be in the future"}
	}

	if _, err := s.notes.GetByID(ctx, noteID, ownerID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	count, err := s.reminders.CountActive(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	if count >= s.opts.ReminderMaxPerUser {
		if !s.opts.EvictOldest {
			return nil, &LimitExceededError{Limit: s.opts.ReminderMaxPerUser}
		}
		evicted, err := s.reminders.DeleteOldestActive(ctx, ownerID)
		if err != nil {
			return nil, err
		}
		if evicted {
			s.logger.Infow("evicted oldest reminder", "owner", ownerID)
		}
	}

	reminder := &models.Reminder{
		NoteID:  noteID,
		OwnerID: ownerID,
		DueAt:   dueAt,
	}
	if err := s.reminders.Create(ctx, reminder); err != nil {
		return nil, err
	}
	return reminder, nil
}

// Reminders lists the owner's active reminders, soonest first.
func (s *Service) Reminders(ctx context.Context, ownerID int64) ([]*models.Reminder, error) {
	return s.reminders.ListActive(ctx, ownerID)
}

// CancelReminder removes an active reminder. Idempotent: cancelling a
// missing reminder reports false without error.
func (s *Service) CancelReminder(ctx context.Context, ownerID int64, reminderID int) (bool, error) {
	return s.reminders.Delete(ctx, reminderID, ownerID)
}
