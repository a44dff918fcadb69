// Package models defines the domain types shared across the pipeline.
package models

import "fmt"

// Kind says whether a classified transcript is a note or a todo.
type Kind string

const (
	KindNote Kind = "note"
	KindTodo Kind = "todo"
)

// RoutingAction is the organizational target the classifier picked.
// It is only meaningful when Kind is note; todos are never foldered.
type RoutingAction string

const (
	// ActionCreateFolder - transcript explicitly asks for a new folder.
	ActionCreateFolder RoutingAction = "create_folder"
	// ActionCategorizeNote - transcript references an existing folder.
	ActionCategorizeNote RoutingAction = "categorize_note"
	// ActionNone - plain note, no folder involvement.
	ActionNone RoutingAction = "none"
)

// Decision is the structured output of classification. Content holds the
// cleaned canonical text (fillers removed, whitespace trimmed).
type Decision struct {
	Kind          Kind          `json:"kind"`
	RoutingAction RoutingAction `json:"routingAction"`
	FolderName    string        `json:"folderName,omitempty"`
	Content       string        `json:"content"`
}

// NeedsFolder reports whether routing this decision requires a folder id.
func (d Decision) NeedsFolder() bool {
	return d.Kind == KindNote &&
		(d.RoutingAction == ActionCreateFolder || d.RoutingAction == ActionCategorizeNote)
}

// Validate checks the Decision invariants. A decision that fails here must
// be rejected by the classifier, never defaulted into shape.
func (d Decision) Validate() error {
	switch d.Kind {
	case KindNote, KindTodo:
	default:
		return fmt.Errorf("invalid kind %q", d.Kind)
	}

	switch d.RoutingAction {
	case ActionCreateFolder, ActionCategorizeNote, ActionNone:
	default:
		return fmt.Errorf("invalid routingAction %q", d.RoutingAction)
	}

	if d.NeedsFolder() && d.FolderName == "" {
		return fmt.Errorf("routingAction %q requires a non-empty folderName", d.RoutingAction)
	}

	return nil
}
