package repository

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/pkg/errors"

	"notekeeper/internal/database"
	"notekeeper/internal/models"
)

type ReminderRepository struct {
	db *database.DB
}

func NewReminderRepository(db *database.DB) *ReminderRepository {
	return &ReminderRepository{db: db}
}

func (r *ReminderRepository) Create(ctx context.Context, reminder *models.Reminder) error {
	err := r.db.Pool.QueryRow(ctx,
		`INSERT INTO reminders (note_id, owner_id, due_at) VALUES ($1, $2, $3)
		 RETURNING reminder_id, created_at`,
		reminder.NoteID, reminder.OwnerID, reminder.DueAt,
	).Scan(&reminder.ReminderID, &reminder.CreatedAt)
	return errors.Wrap(err, "failed inserting reminder")
}

func (r *ReminderRepository) GetByID(ctx context.Context, reminderID int, ownerID int64) (*models.Reminder, error) {
	reminder := &models.Reminder{}
	err := r.db.Pool.QueryRow(ctx,
		`SELECT reminder_id, note_id, owner_id, due_at, delivered, created_at
		 FROM reminders WHERE reminder_id = $1 AND owner_id = $2`,
		reminderID, ownerID,
	).Scan(&reminder.ReminderID, &reminder.NoteID, &reminder.OwnerID,
		&reminder.DueAt, &reminder.Delivered, &reminder.CreatedAt)
	if err != nil {
		return nil, err
	}
	return reminder, nil
}

// ListActive returns the owner's undelivered reminders, soonest first.
func (r *ReminderRepository) ListActive(ctx context.Context, ownerID int64) ([]*models.Reminder, error) {
	rows, err := r.db.Pool.Query(ctx,
		`SELECT reminder_id, note_id, owner_id, due_at, delivered, created_at
		 FROM reminders WHERE owner_id = $1 AND delivered = FALSE
		 ORDER BY due_at ASC`,
		ownerID,
	)
	if err != nil {
		return nil, errors.Wrap(err, "failed querying reminders")
	}
	return scanReminders(rows)
}

func (r *ReminderRepository) CountActive(ctx context.Context, ownerID int64) (int, error) {
	var count int
	err := r.db.Pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM reminders WHERE owner_id = $1 AND delivered = FALSE`,
		ownerID,
	).Scan(&count)
	return count, errors.Wrap(err, "failed counting reminders")
}

// GetDue returns all undelivered reminders with due_at at or before now.
func (r *ReminderRepository) GetDue(ctx context.Context, now time.Time) ([]*models.Reminder, error) {
	rows, err := r.db.Pool.Query(ctx,
		`SELECT reminder_id, note_id, owner_id, due_at, delivered, created_at
		 FROM reminders WHERE delivered = FALSE AND due_at <= $1
		 ORDER BY due_at ASC`,
		now,
	)
	if err != nil {
		return nil, errors.Wrap(err, "failed querying due reminders")
	}
	return scanReminders(rows)
}

// MarkDelivered flips delivered to true. Calling it again for the same
// reminder is a no-op.
func (r *ReminderRepository) MarkDelivered(ctx context.Context, reminderID int) error {
	_, err := r.db.Pool.Exec(ctx,
		`UPDATE reminders SET delivered = TRUE WHERE reminder_id = $1`,
		reminderID,
	)
	return errors.Wrap(err, "failed marking reminder delivered")
}

func (r *ReminderRepository) Delete(ctx context.Context, reminderID int, ownerID int64) (bool, error) {
	tag, err := r.db.Pool.Exec(ctx,
		`DELETE FROM reminders WHERE reminder_id = $1 AND owner_id = $2`,
		reminderID, ownerID,
	)
	if err != nil {
		return false, errors.Wrap(err, "failed deleting reminder")
	}
	return tag.RowsAffected() > 0, nil
}

// DeleteByID removes a reminder regardless of owner. Used by the
// scheduler after delivery and for discarding orphans.
func (r *ReminderRepository) DeleteByID(ctx context.Context, reminderID int) error {
	_, err := r.db.Pool.Exec(ctx,
		`DELETE FROM reminders WHERE reminder_id = $1`,
		reminderID,
	)
	return errors.Wrap(err, "failed deleting reminder")
}

// DeleteOldestActive evicts the owner's longest-standing undelivered
// reminder. Returns false when the owner has none.
func (r *ReminderRepository) DeleteOldestActive(ctx context.Context, ownerID int64) (bool, error) {
	tag, err := r.db.Pool.Exec(ctx,
		`DELETE FROM reminders WHERE reminder_id = (
			SELECT reminder_id FROM reminders
			WHERE owner_id = $1 AND delivered = FALSE
			ORDER BY created_at ASC, reminder_id ASC LIMIT 1
		 )`,
		ownerID,
	)
	if err != nil {
		return false, errors.Wrap(err, "failed evicting oldest reminder")
	}
	return tag.RowsAffected() > 0, nil
}

func scanReminders(rows pgx.Rows) ([]*models.Reminder, error) {
	defer rows.Close()

	var reminders []*models.Reminder
	for rows.Next() {
		reminder := &models.Reminder{}
		if err := rows.Scan(&reminder.ReminderID, &reminder.NoteID, &reminder.OwnerID,
			&reminder.DueAt, &reminder.Delivered, &reminder.CreatedAt); err != nil {
			return nil, errors.Wrap(err, "failed scanning reminder")
		}
		reminders = append(reminders, reminder)
	}
	return reminders, errors.Wrap(rows.Err(), "failed reading reminders")
}
