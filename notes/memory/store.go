// Package memory provides an in-process implementation of notes.Store.
package memory

import (
	"context"
	"sync"
	"time"

	"github.com/ebogdum/notes-app/notes"
)

var _ notes.Store = (*Store)(nil)

// Store keeps notes in an ordered slice guarded by a mutex.
type Store struct {
	mu     sync.RWMutex
	notes  []notes.Note
	nextID int64
	now    func() time.Time
}

// Option configures a Store.
type Option func(*Store)

// WithClock overrides the time source used for createdAt and updatedAt.
func WithClock(now func() time.Time) Option {
	return func(s *Store) {
		s.now = now
	}
}

// NewStore creates a store pre-loaded with seed. The id counter starts
// above the highest seeded id.
func NewStore(seed []notes.Note, opts ...Option) *Store {
	s := &Store{
		notes:  make([]notes.Note, 0, len(seed)),
		nextID: 1,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}

	for _, n := range seed {
		s.notes = append(s.notes, cloneNote(n))
		if n.ID >= s.nextID {
			s.nextID = n.ID + 1
		}
	}

	return s
}

// List returns a copy of every note in insertion order.
func (s *Store) List(ctx context.Context) ([]notes.Note, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]notes.Note, len(s.notes))
	for i, n := range s.notes {
		out[i] = cloneNote(n)
	}
	return out, nil
}

// Create appends a new note.
func (s *Store) Create(ctx context.Context, in notes.NoteInput) (notes.Note, error) {
	if err := ctx.Err(); err != nil {
		return notes.Note{}, err
	}
	if err := in.Validate(); err != nil {
		return notes.Note{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	n := notes.Note{
		ID:        s.nextID,
		Title:     in.Title,
		Content:   in.Content,
		CreatedAt: s.now().UTC(),
	}
	s.nextID++
	s.notes = append(s.notes, n)

	return cloneNote(n), nil
}

// Update replaces title and content of the note with the given id.
func (s *Store) Update(ctx context.Context, id int64, in notes.NoteInput) (notes.Note, error) {
	if err := ctx.Err(); err != nil {
		return notes.Note{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.indexOf(id)
	if idx < 0 {
		return notes.Note{}, notes.ErrNotFound
	}
	if err := in.Validate(); err != nil {
		return notes.Note{}, err
	}

	updatedAt := s.now().UTC()
	n := s.notes[idx]
	n.Title = in.Title
	n.Content = in.Content
	n.UpdatedAt = &updatedAt
	s.notes[idx] = n

	return cloneNote(n), nil
}

// Delete removes the note with the given id.
func (s *Store) Delete(ctx context.Context, id int64) (notes.Note, error) {
	if err := ctx.Err(); err != nil {
		return notes.Note{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.indexOf(id)
	if idx < 0 {
		return notes.Note{}, notes.ErrNotFound
	}

	removed := s.notes[idx]
	s.notes = append(s.notes[:idx], s.notes[idx+1:]...)

	return removed, nil
}

// Len returns the number of stored notes.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.notes)
}

// indexOf does a linear scan; callers must hold the lock.
func (s *Store) indexOf(id int64) int {
	for i := range s.notes {
		if s.notes[i].ID == id {
			return i
		}
	}
	return -1
}

func cloneNote(n notes.Note) notes.Note {
	if n.UpdatedAt != nil {
		t := *n.UpdatedAt
		n.UpdatedAt = &t
	}
	return n
}
