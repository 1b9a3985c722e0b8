package models

import "time"

// Category is the fixed set of labels a note can be filed under.
type Category string

const (
	CategoryTask  Category = "task"
	CategoryIdea  Category = "idea"
	CategoryQuote Category = "quote"
	CategoryOther Category = "other"
)

// Categories lists all valid categories in display order.
var Categories = []Category{CategoryTask, CategoryIdea, CategoryQuote, CategoryOther}

// ValidCategory reports whether s is one of the known category labels.
func ValidCategory(s string) bool {
	switch Category(s) {
	case CategoryTask, CategoryIdea, CategoryQuote, CategoryOther:
		return true
	}
	return false
}

type Note struct {
	NoteID    int       `json:"note_id"`
	OwnerID   int64     `json:"owner_id"`
	Text      string    `json:"text"`
	Category  Category  `json:"category"`
	CreatedAt time.Time `json:"created_at"`
}
