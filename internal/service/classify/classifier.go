// Package classify defines the interface for transcript classifiers and the
// validation that turns an external structured payload into a Decision.
package classify

import (
	"context"
	"fmt"

	"voice-note-router-service/internal/models"
)

// ClassificationError wraps a failed classification. It is fatal for the
// current item; no partial decision is ever accepted.
type ClassificationError struct {
	Reason string
	Err    error
}

func (e *ClassificationError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("classification: %s: %v", e.Reason, e.Err)
	}
	return fmt.Sprintf("classification: %s", e.Reason)
}

func (e *ClassificationError) Unwrap() error { return e.Err }

// Classifier converts plain text into a structured Decision.
//
// Implementations must short-circuit empty input to
// {kind: note, routingAction: none, content: ""} without calling out, and
// must only return decisions that pass Validate.
type Classifier interface {
	Classify(ctx context.Context, text string) (models.Decision, error)
}

// EmptyDecision is the degenerate decision for an empty transcript.
func EmptyDecision() models.Decision {
	return models.Decision{
		Kind:          models.KindNote,
		RoutingAction: models.ActionNone,
		Content:       "",
	}
}

// ParseDecision converts a structured payload (the arguments of the model's
// function call) into a validated Decision. Malformed payloads are rejected
// with a ClassificationError, never defaulted: kind and content are
// required, content must be non-empty, enum values must match exactly.
// A missing routingAction is the one tolerated absence and means none.
func ParseDecision(args map[string]any) (models.Decision, error) {
	kind, err := stringField(args, "kind", true)
	if err != nil {
		return models.Decision{}, err
	}

	content, err := stringField(args, "content", true)
	if err != nil {
		return models.Decision{}, err
	}
	if content == "" {
		return models.Decision{}, &ClassificationError{Reason: "payload has empty content"}
	}

	action, err := stringField(args, "routingAction", false)
	if err != nil {
		return models.Decision{}, err
	}
	if action == "" {
		action = string(models.ActionNone)
	}

	folderName, err := stringField(args, "folderName", false)
	if err != nil {
		return models.Decision{}, err
	}

	d := models.Decision{
		Kind:          models.Kind(kind),
		RoutingAction: models.RoutingAction(action),
		FolderName:    folderName,
		Content:       content,
	}
	if err := d.Validate(); err != nil {
		return models.Decision{}, &ClassificationError{Reason: "payload failed validation", Err: err}
	}
	return d, nil
}

func stringField(args map[string]any, key string, required bool) (string, error) {
	v, ok := args[key]
	if !ok {
		if required {
			return "", &ClassificationError{Reason: fmt.Sprintf("payload missing %q", key)}
		}
		return "", nil
	}
	s, ok := v.(string)
	if !ok {
		return "", &ClassificationError{Reason: fmt.Sprintf("payload field %q is not a string", key)}
	}
	return s, nil
}
