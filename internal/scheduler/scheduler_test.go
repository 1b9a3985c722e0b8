package scheduler

import (
	"context"
	"testing"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/jackc/pgx/v5"
	"github.com/jmhodges/clock"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"notekeeper/internal/models"
)

type fakeSender struct {
	sent    []tgbotapi.MessageConfig
	sendErr error
}

func (f *fakeSender) Send(c tgbotapi.Chattable) (tgbotapi.Message, error) {
	if f.sendErr != nil {
		return tgbotapi.Message{}, f.sendErr
	}
	if msg, ok := c.(tgbotapi.MessageConfig); ok {
		f.sent = append(f.sent, msg)
	}
	return tgbotapi.Message{MessageID: len(f.sent)}, nil
}

type fakeNotes struct {
	notes map[int]*models.Note
}

func (f *fakeNotes) GetByID(_ context.Context, noteID int, ownerID int64) (*models.Note, error) {
	note, ok := f.notes[noteID]
	if !ok || note.OwnerID != ownerID {
		return nil, pgx.ErrNoRows
	}
	return note, nil
}

type fakeQueue struct {
	due       []*models.Reminder
	delivered []int
	deleted   []int
	dueErr    error
}

func (f *fakeQueue) GetDue(_ context.Context, now time.Time) ([]*models.Reminder, error) {
	if f.dueErr != nil {
		return nil, f.dueErr
	}
	var out []*models.Reminder
	for _, r := range f.due {
		if r.Due(now) {
			out = append(out, r)
		}
	}
	return out, nil
}

func (f *fakeQueue) MarkDelivered(_ context.Context, reminderID int) error {
	f.delivered = append(f.delivered, reminderID)
	for _, r := range f.due {
		if r.ReminderID == reminderID {
			r.Delivered = true
		}
	}
	return nil
}

func (f *fakeQueue) DeleteByID(_ context.Context, reminderID int) error {
	f.deleted = append(f.deleted, reminderID)
	return nil
}

var schedNow = time.Date(2024, 1, 15, 10, 30, 0, 0, time.UTC)

func newTestScheduler(t *testing.T, notes *fakeNotes, queue *fakeQueue, opts Options) (*Scheduler, *fakeSender) {
	t.Helper()
	clk := clock.NewFake()
	clk.Set(schedNow)
	sender := &fakeSender{}
	s := New(sender, notes, queue, opts, zap.NewNop().Sugar()).WithClock(clk)
	return s, sender
}

func TestCheckDeliversDueReminder(t *testing.T) {
	notes := &fakeNotes{notes: map[int]*models.Note{
		7: {NoteID: 7, OwnerID: 42, Text: "water the plants", Category: models.CategoryTask},
	}}
	queue := &fakeQueue{due: []*models.Reminder{
		{ReminderID: 1, NoteID: 7, OwnerID: 42, DueAt: schedNow.Add(-time.Minute)},
	}}
	s, sender := newTestScheduler(t, notes, queue, Options{})

	s.Check(context.Background())

	require.Len(t, sender.sent, 1)
	assert.Equal(t, int64(42), sender.sent[0].ChatID)
	assert.Contains(t, sender.sent[0].Text, "water the plants")
	assert.Contains(t, sender.sent[0].Text, "#7")
	assert.Equal(t, []int{1}, queue.delivered)
	// Delivered rows are deleted by default.
	assert.Equal(t, []int{1}, queue.deleted)
}

func TestCheckKeepsDeliveredWhenConfigured(t *testing.T) {
	notes := &fakeNotes{notes: map[int]*models.Note{
		7: {NoteID: 7, OwnerID: 42, Text: "keep me", Category: models.CategoryOther},
	}}
	queue := &fakeQueue{due: []*models.Reminder{
		{ReminderID: 1, NoteID: 7, OwnerID: 42, DueAt: schedNow.Add(-time.Minute)},
	}}
	s, _ := newTestScheduler(t, notes, queue, Options{KeepDelivered: true})

	s.Check(context.Background())

	assert.Equal(t, []int{1}, queue.delivered)
	assert.Empty(t, queue.deleted)
}

func TestCheckSkipsFutureReminders(t *testing.T) {
	queue := &fakeQueue{due: []*models.Reminder{
		{ReminderID: 1, NoteID: 7, OwnerID: 42, DueAt: schedNow.Add(time.Hour)},
	}}
	s, sender := newTestScheduler(t, &fakeNotes{notes: map[int]*models.Note{}}, queue, Options{})

	s.Check(context.Background())

	assert.Empty(t, sender.sent)
	assert.Empty(t, queue.delivered)
}

// A reminder whose note was deleted is discarded quietly, never a
// delivery failure.
func TestCheckDiscardsOrphanedReminder(t *testing.T) {
	queue := &fakeQueue{due: []*models.Reminder{
		{ReminderID: 1, NoteID: 404, OwnerID: 42, DueAt: schedNow.Add(-time.Minute)},
	}}
	s, sender := newTestScheduler(t, &fakeNotes{notes: map[int]*models.Note{}}, queue, Options{})

	s.Check(context.Background())

	assert.Empty(t, sender.sent)
	assert.Empty(t, queue.delivered)
	assert.Equal(t, []int{1}, queue.deleted)
}

// When sending fails, the reminder stays undelivered so the next tick
// retries it.
func TestCheckLeavesReminderOnSendFailure(t *testing.T) {
	notes := &fakeNotes{notes: map[int]*models.Note{
		7: {NoteID: 7, OwnerID: 42, Text: "flaky network", Category: models.CategoryOther},
	}}
	queue := &fakeQueue{due: []*models.Reminder{
		{ReminderID: 1, NoteID: 7, OwnerID: 42, DueAt: schedNow.Add(-time.Minute)},
	}}
	s, sender := newTestScheduler(t, notes, queue, Options{})
	sender.sendErr = errors.New("telegram unavailable")

	s.Check(context.Background())

	assert.Empty(t, queue.delivered)
	assert.Empty(t, queue.deleted)
}

func TestCheckTruncatesLongNoteText(t *testing.T) {
	long := ""
	for i := 0; i < 20; i++ {
		long += "0123456789"
	}
	notes := &fakeNotes{notes: map[int]*models.Note{
		7: {NoteID: 7, OwnerID: 42, Text: long, Category: models.CategoryOther},
	}}
	queue := &fakeQueue{due: []*models.Reminder{
		{ReminderID: 1, NoteID: 7, OwnerID: 42, DueAt: schedNow.Add(-time.Minute)},
	}}
	s, sender := newTestScheduler(t, notes, queue, Options{MaxPreviewLength: 50})

	s.Check(context.Background())

	require.Len(t, sender.sent, 1)
	assert.Contains(t, sender.sent[0].Text, "...")
	assert.NotContains(t, sender.sent[0].Text, long)
}
