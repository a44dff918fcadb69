// Package memory provides an in-memory collection store. It backs local
// development without a MongoDB instance and doubles as the test store;
// every mutation is appended to an operation log so tests can assert
// commit ordering.
package memory

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"voice-note-router-service/internal/models"
	"voice-note-router-service/internal/store"
)

// Store implements store.Store with mutex-guarded maps.
type Store struct {
	mu      sync.Mutex
	folders map[string]models.Folder
	todos   map[string]models.Todo
	notes   map[string]models.Note
	ops     []string
}

// New creates an empty in-memory store.
func New() *Store {
	return &Store{
		folders: make(map[string]models.Folder),
		todos:   make(map[string]models.Todo),
		notes:   make(map[string]models.Note),
	}
}

// ListFolders returns the full current folder set.
func (s *Store) ListFolders(ctx context.Context) ([]models.Folder, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.ops = append(s.ops, "folders.list")
	out := make([]models.Folder, 0, len(s.folders))
	for _, f := range s.folders {
		out = append(out, f)
	}
	return out, nil
}

// CreateFolder creates a folder preserving the caller's casing.
func (s *Store) CreateFolder(ctx context.Context, name string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.ops = append(s.ops, "folders.create")
	id := uuid.NewString()
	s.folders[id] = models.Folder{
		ID:        id,
		Name:      name,
		CreatedAt: time.Now().UTC(),
	}
	return id, nil
}

// CreateTodo creates an open todo.
func (s *Store) CreateTodo(ctx context.Context, text string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.ops = append(s.ops, "todos.create")
	id := uuid.NewString()
	s.todos[id] = models.Todo{
		ID:        id,
		Text:      text,
		Done:      false,
		CreatedAt: time.Now().UTC(),
	}
	return id, nil
}

// CreatePlaceholder creates a provisional note holding sentinel content.
func (s *Store) CreatePlaceholder(ctx context.Context) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.ops = append(s.ops, "notes.createPlaceholder")
	id := uuid.NewString()
	s.notes[id] = models.Note{
		ID:        id,
		Content:   models.PlaceholderContent,
		Pending:   true,
		CreatedAt: time.Now().UTC(),
	}
	return id, nil
}

// GetNote returns the note record for id.
func (s *Store) GetNote(ctx context.Context, id string) (models.Note, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.ops = append(s.ops, "notes.get")
	n, ok := s.notes[id]
	if !ok {
		return models.Note{}, &store.StoreError{Collection: "notes", Op: "get", Err: store.ErrNotFound}
	}
	return n, nil
}

// FinalizeNote transitions a placeholder out of its provisional state.
func (s *Store) FinalizeNote(ctx context.Context, id string, fin models.NoteFinalization) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.ops = append(s.ops, "notes.finalize")
	n, ok := s.notes[id]
	if !ok {
		return &store.StoreError{Collection: "notes", Op: "finalize", Err: store.ErrNotFound}
	}
	n.Content = fin.Content
	n.Type = fin.Type
	n.FolderID = fin.FolderID
	n.Pending = false
	s.notes[id] = n
	return nil
}

// DeleteNote removes a note record.
func (s *Store) DeleteNote(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.ops = append(s.ops, "notes.delete")
	if _, ok := s.notes[id]; !ok {
		return &store.StoreError{Collection: "notes", Op: "delete", Err: store.ErrNotFound}
	}
	delete(s.notes, id)
	return nil
}

// Note returns a note by id, if present.
func (s *Store) Note(id string) (models.Note, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	n, ok := s.notes[id]
	return n, ok
}

// Todos returns all todos.
func (s *Store) Todos() []models.Todo {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.Todo, 0, len(s.todos))
	for _, t := range s.todos {
		out = append(out, t)
	}
	return out
}

// FolderByName returns a folder by case-insensitive name, if present.
func (s *Store) FolderByName(name string) (models.Folder, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, f := range s.folders {
		if strings.EqualFold(f.Name, name) {
			return f, true
		}
	}
	return models.Folder{}, false
}

// FolderCount returns the number of folders.
func (s *Store) FolderCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.folders)
}

// Ops returns the mutation log in commit order.
func (s *Store) Ops() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]string, len(s.ops))
	copy(out, s.ops)
	return out
}
