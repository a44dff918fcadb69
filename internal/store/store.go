// Package store defines the collection store contract the pipeline routes
// into. All operations are atomic at the single-record level; no
// multi-record transaction is exposed, which drives the commit ordering in
// the routing engine.
package store

import (
	"context"
	"errors"
	"fmt"

	"voice-note-router-service/internal/models"
)

// ErrNotFound is wrapped by a StoreError when the target record does not
// exist (e.g. finalizing or deleting an unknown placeholder).
var ErrNotFound = errors.New("record not found")

// StoreError wraps a failed collection operation with enough context to
// diagnose it at the caller.
type StoreError struct {
	Collection string
	Op         string
	Err        error
}

func (e *StoreError) Error() string {
	return fmt.Sprintf("store: %s.%s: %v", e.Collection, e.Op, e.Err)
}

func (e *StoreError) Unwrap() error { return e.Err }

// FolderStore persists folders.
type FolderStore interface {
	// ListFolders returns the full current folder set.
	ListFolders(ctx context.Context) ([]models.Folder, error)

	// CreateFolder creates a folder with the given name (caller casing
	// preserved) and returns its id.
	CreateFolder(ctx context.Context, name string) (string, error)
}

// TodoStore persists todos.
type TodoStore interface {
	// CreateTodo creates an open todo with the given text and returns its id.
	CreateTodo(ctx context.Context, text string) (string, error)
}

// NoteStore persists notes and their placeholder precursors.
type NoteStore interface {
	// CreatePlaceholder creates a provisional note holding sentinel content
	// and returns its id.
	CreatePlaceholder(ctx context.Context) (string, error)

	// GetNote returns the note record for id, or a StoreError wrapping
	// ErrNotFound when no such record exists.
	GetNote(ctx context.Context, id string) (models.Note, error)

	// FinalizeNote transitions a placeholder out of its provisional state.
	FinalizeNote(ctx context.Context, id string, fin models.NoteFinalization) error

	// DeleteNote removes a note record.
	DeleteNote(ctx context.Context, id string) error
}

// Store is the full collection store consumed by the pipeline.
type Store interface {
	FolderStore
	TodoStore
	NoteStore
}
