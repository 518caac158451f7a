// Package notes defines the note model and the storage contract used by the API layer.
package notes

import (
	"context"
	"errors"
	"time"
)

// Common note errors
var (
	ErrNotFound   = errors.New("Note not found")
	ErrValidation = errors.New("Title and content are required")
)

// Note represents a single short text note
type Note struct {
	ID        int64      `json:"id"`
	Title     string     `json:"title"`
	Content   string     `json:"content"`
	CreatedAt time.Time  `json:"createdAt"`
	UpdatedAt *time.Time `json:"updatedAt,omitempty"`
}

// Store defines the interface for note storage operations.
// Implementations return copies; callers never share a stored note.
type Store interface {
	// List returns every note in insertion order
	List(ctx context.Context) ([]Note, error)

	// Create validates the input and appends a new note with the next id
	Create(ctx context.Context, in NoteInput) (Note, error)

	// Update replaces title and content of an existing note.
	// A missing id reports ErrNotFound before the input is validated.
	Update(ctx context.Context, id int64, in NoteInput) (Note, error)

	// Delete removes a note by id and returns the removed value
	Delete(ctx context.Context, id int64) (Note, error)

	// Len returns the number of stored notes
	Len() int
}

// DefaultSeed returns the notes present when the process starts.
func DefaultSeed(now time.Time) []Note {
	return []Note{
		{
			ID:        1,
			Title:     "Welcome Note",
			Content:   "This is your first note!",
			CreatedAt: now,
		},
		{
			ID:        2,
			Title:     "How to use",
			Content:   "Add new notes using the form above. Click delete to remove notes.",
			CreatedAt: now,
		},
	}
}
