package models

import "time"

// PlaceholderContent is the sentinel text a placeholder note carries until
// routing commits its terminal mutation.
const PlaceholderContent = "Processing…"

// NoteTypeNote is the type tag written when a placeholder is finalized.
const NoteTypeNote = "note"

// Folder groups notes. Name matching for resolution is case-insensitive;
// the stored Name preserves the caller's original casing.
type Folder struct {
	ID        string    `json:"id" bson:"_id"`
	Name      string    `json:"name" bson:"name"`
	CreatedAt time.Time `json:"createdAt" bson:"createdAt"`
}

// Note is a persisted note. While Pending is true the record is a
// placeholder holding sentinel content and no folder/type commitment.
type Note struct {
	ID        string    `json:"id" bson:"_id"`
	Content   string    `json:"content" bson:"content"`
	Type      string    `json:"type,omitempty" bson:"type,omitempty"`
	FolderID  string    `json:"folderId,omitempty" bson:"folderId,omitempty"`
	Pending   bool      `json:"pending" bson:"pending"`
	CreatedAt time.Time `json:"createdAt" bson:"createdAt"`
}

// Todo is a persisted task. Todos are created fresh from a decision, never
// derived from a placeholder.
type Todo struct {
	ID        string    `json:"id" bson:"_id"`
	Text      string    `json:"text" bson:"text"`
	Done      bool      `json:"done" bson:"done"`
	CreatedAt time.Time `json:"createdAt" bson:"createdAt"`
}

// NoteFinalization carries the fields written when a placeholder leaves its
// provisional state on the note path.
type NoteFinalization struct {
	Content  string
	Type     string
	FolderID string // empty when the note is unfoldered
}
