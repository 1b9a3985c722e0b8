package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/pkg/errors"

	"notekeeper/internal/database"
	"notekeeper/internal/models"
)

type NoteRepository struct {
	db *database.DB
}

func NewNoteRepository(db *database.DB) *NoteRepository {
	return &NoteRepository{db: db}
}

func (r *NoteRepository) Create(ctx context.Context, note *models.Note) error {
	err := r.db.Pool.QueryRow(ctx,
		`INSERT INTO notes (owner_id, text, category) VALUES ($1, $2, $3)
		 RETURNING note_id, created_at`,
		note.OwnerID, note.Text, note.Category,
	).Scan(&note.NoteID, &note.CreatedAt)
	return errors.Wrap(err, "failed inserting note")
}

func (r *NoteRepository) GetByID(ctx context.Context, noteID int, ownerID int64) (*models.Note, error) {
	note := &models.Note{}
	err := r.db.Pool.QueryRow(ctx,
		`SELECT note_id, owner_id, text, category, created_at
		 FROM notes WHERE note_id = $1 AND owner_id = $2`,
		noteID, ownerID,
	).Scan(&note.NoteID, &note.OwnerID, &note.Text, &note.Category, &note.CreatedAt)
	if err != nil {
		return nil, err
	}
	return note, nil
}

// Delete removes the note if it exists and belongs to ownerID. Deleting
// a missing note is not an error; the bool reports whether a row went.
func (r *NoteRepository) Delete(ctx context.Context, ownerID int64, noteID int) (bool, error) {
	tag, err := r.db.Pool.Exec(ctx,
		`DELETE FROM notes WHERE note_id = $1 AND owner_id = $2`,
		noteID, ownerID,
	)
	if err != nil {
		return false, errors.Wrap(err, "failed deleting note")
	}
	return tag.RowsAffected() > 0, nil
}

// List returns one page of the owner's notes, newest first with note_id
// as the tie-breaker, plus the total count for the same filter.
// category == "" means no category filter.
func (r *NoteRepository) List(ctx context.Context, ownerID int64, category models.Category, limit, offset int) ([]*models.Note, int, error) {
	var total int
	if category == "" {
		err := r.db.Pool.QueryRow(ctx,
			`SELECT COUNT(*) FROM notes WHERE owner_id = $1`,
			ownerID,
		).Scan(&total)
		if err != nil {
			return nil, 0, errors.Wrap(err, "failed counting notes")
		}

		rows, err := r.db.Pool.Query(ctx,
			`SELECT note_id, owner_id, text, category, created_at
			 FROM notes WHERE owner_id = $1
			 ORDER BY created_at DESC, note_id DESC LIMIT $2 OFFSET $3`,
			ownerID, limit, offset,
		)
		if err != nil {
			return nil, 0, errors.Wrap(err, "failed querying notes")
		}
		notes, err := scanNotes(rows)
		return notes, total, err
	}

	err := r.db.Pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM notes WHERE owner_id = $1 AND category = $2`,
		ownerID, category,
	).Scan(&total)
	if err != nil {
		return nil, 0, errors.Wrap(err, "failed counting notes")
	}

	rows, err := r.db.Pool.Query(ctx,
		`SELECT note_id, owner_id, text, category, created_at
		 FROM notes WHERE owner_id = $1 AND category = $2
		 ORDER BY created_at DESC, note_id DESC LIMIT $3 OFFSET $4`,
		ownerID, category, limit, offset,
	)
	if err != nil {
		return nil, 0, errors.Wrap(err, "failed querying notes")
	}
	notes, err := scanNotes(rows)
	return notes, total, err
}

// Search pages through notes whose text contains keyword,
// case-insensitively, with the same ordering contract as List.
func (r *NoteRepository) Search(ctx context.Context, ownerID int64, keyword string, limit, offset int) ([]*models.Note, int, error) {
	pattern := "%" + keyword + "%"

	var total int
	err := r.db.Pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM notes WHERE owner_id = $1 AND text ILIKE $2`,
		ownerID, pattern,
	).Scan(&total)
	if err != nil {
		return nil, 0, errors.Wrap(err, "failed counting search results")
	}

	rows, err := r.db.Pool.Query(ctx,
		`SELECT note_id, owner_id, text, category, created_at
		 FROM notes WHERE owner_id = $1 AND text ILIKE $2
		 ORDER BY created_at DESC, note_id DESC LIMIT $3 OFFSET $4`,
		ownerID, pattern, limit, offset,
	)
	if err != nil {
		return nil, 0, errors.Wrap(err, "failed searching notes")
	}
	notes, err := scanNotes(rows)
	return notes, total, err
}

func scanNotes(rows pgx.Rows) ([]*models.Note, error) {
	defer rows.Close()

	var notes []*models.Note
	for rows.Next() {
		note := &models.Note{}
		if err := rows.Scan(&note.NoteID, &note.OwnerID, &note.Text, &note.Category, &note.CreatedAt); err != nil {
			return nil, errors.Wrap(err, "failed scanning note")
		}
		notes = append(notes, note)
	}
	return notes, errors.Wrap(rows.Err(), "failed reading notes")
}
