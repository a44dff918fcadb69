package models

// NoteRouted is emitted after a placeholder has been finalized as a note.
type NoteRouted struct {
	EventType string `json:"eventType"`
	NoteID    string `json:"noteId"`
	FolderID  string `json:"folderId,omitempty"`
	Content   string `json:"content"`
	Timestamp int64  `json:"timestamp"`
}

// TodoCreated is emitted after a todo has been created and its placeholder
// deleted.
type TodoCreated struct {
	EventType string `json:"eventType"`
	TodoID    string `json:"todoId"`
	Text      string `json:"text"`
	Timestamp int64  `json:"timestamp"`
}
