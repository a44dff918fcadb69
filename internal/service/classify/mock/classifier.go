// Package mock provides a deterministic lexical classifier for running the
// pipeline without model credentials. It implements the same cue rules the
// model is prompted with, so dev-mode routing behaves like production on
// the documented phrasings.
package mock

import (
	"context"
	"regexp"
	"strings"

	"voice-note-router-service/internal/models"
	"voice-note-router-service/internal/service/classify"
)

var (
	fillerRe     = regexp.MustCompile(`(?i)\b(?:uh|um)\b[,.]?`)
	whitespaceRe = regexp.MustCompile(`\s+`)

	// Task cues that prefix the actual task text.
	todoPrefixRe = regexp.MustCompile(`(?i)^(?:please\s+)?(?:remind me to|remember to|don'?t let me forget(?: to)?|i need to|i have to|we should)\s+(.+)$`)
	// Task keywords anywhere in the text.
	todoKeywordRe = regexp.MustCompile(`(?i)\b(?:todo|to-do|to do|task)\b`)

	createFolderRe = regexp.MustCompile(`(?i)^(.*?)\b(?:create a(?: new)? folder called|new folder)\s+(.+)$`)
	categorizeRe   = regexp.MustCompile(`(?i)^(.*?)\b(?:put this in|save under)\s+(.+)$`)
)

// Adapter implements classify.Classifier with lexical rules.
type Adapter struct{}

// New creates a mock classifier.
func New() *Adapter {
	return &Adapter{}
}

// Classify applies the cue rules in precedence order: todo cues first (a
// todo never gets a routing action), then folder creation, then
// categorization, then plain note.
func (a *Adapter) Classify(ctx context.Context, text string) (models.Decision, error) {
	cleaned := clean(text)
	if cleaned == "" {
		return classify.EmptyDecision(), nil
	}

	if m := todoPrefixRe.FindStringSubmatch(cleaned); m != nil {
		return models.Decision{
			Kind:          models.KindTodo,
			RoutingAction: models.ActionNone,
			Content:       strings.TrimSpace(m[1]),
		}, nil
	}
	if todoKeywordRe.MatchString(cleaned) {
		return models.Decision{
			Kind:          models.KindTodo,
			RoutingAction: models.ActionNone,
			Content:       cleaned,
		}, nil
	}

	if m := createFolderRe.FindStringSubmatch(cleaned); m != nil {
		folder, content := splitFolderClause(m[1], m[2])
		return models.Decision{
			Kind:          models.KindNote,
			RoutingAction: models.ActionCreateFolder,
			FolderName:    folder,
			Content:       fallback(content, cleaned),
		}, nil
	}

	if m := categorizeRe.FindStringSubmatch(cleaned); m != nil {
		folder, content := splitFolderClause(m[1], m[2])
		return models.Decision{
			Kind:          models.KindNote,
			RoutingAction: models.ActionCategorizeNote,
			FolderName:    folder,
			Content:       fallback(content, cleaned),
		}, nil
	}

	return models.Decision{
		Kind:          models.KindNote,
		RoutingAction: models.ActionNone,
		Content:       cleaned,
	}, nil
}

// clean removes verbal fillers and normalizes whitespace.
func clean(text string) string {
	text = fillerRe.ReplaceAllString(text, " ")
	text = whitespaceRe.ReplaceAllString(text, " ")
	return strings.TrimSpace(text)
}

// splitFolderClause separates the folder name from the note content around
// a routing clause. prefix is the text before the clause, tail the text
// after the cue phrase: the folder name runs until a separator
// (":", ",", " and note ", " and "), the rest is content.
func splitFolderClause(prefix, tail string) (folder, content string) {
	tail = strings.TrimSpace(tail)
	prefix = strings.Trim(strings.TrimSpace(prefix), ",:;")

	for _, sep := range []string{" and note ", " and ", ":", ","} {
		if i := indexFold(tail, sep); i >= 0 {
			folder = strings.TrimSpace(tail[:i])
			content = strings.TrimSpace(tail[i+len(sep):])
			break
		}
	}
	if folder == "" {
		folder = tail
	}

	if prefix != "" {
		content = strings.TrimSpace(strings.Trim(prefix, ",.;") + " " + content)
	}
	return folder, content
}

func indexFold(s, sep string) int {
	return strings.Index(strings.ToLower(s), strings.ToLower(sep))
}

func fallback(content, cleaned string) string {
	if content == "" {
		return cleaned
	}
	return content
}
