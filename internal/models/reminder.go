package models

import "time"

type Reminder struct {
	ReminderID int       `json:"reminder_id"`
	NoteID     int       `json:"note_id"`
	OwnerID    int64     `json:"owner_id"`
	DueAt      time.Time `json:"due_at"`
	Delivered  bool      `json:"delivered"`
	CreatedAt  time.Time `json:"created_at"`
}

// Due reports whether the reminder should fire at time now.
func (r *Reminder) Due(now time.Time) bool {
	return !r.Delivered && !now.Before(r.DueAt)
}
