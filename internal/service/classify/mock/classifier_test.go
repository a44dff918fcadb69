package mock

import (
	"context"
	"testing"

	"voice-note-router-service/internal/models"
)

func TestClassify_TodoCue(t *testing.T) {
	c := New()

	d, err := c.Classify(context.Background(), "remind me to buy milk")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if d.Kind != models.KindTodo {
		t.Errorf("expected todo, got %s", d.Kind)
	}
	if d.RoutingAction != models.ActionNone {
		t.Errorf("todos never get a routing action, got %s", d.RoutingAction)
	}
	if d.Content != "buy milk" {
		t.Errorf("expected cue stripped, got %q", d.Content)
	}
}

func TestClassify_TodoCuePrecedesFolderCue(t *testing.T) {
	// kind takes precedence: a todo drops any routing phrasing.
	c := New()

	d, err := c.Classify(context.Background(), "remind me to put this in Groceries")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if d.Kind != models.KindTodo {
		t.Errorf("expected todo, got %s", d.Kind)
	}
	if d.RoutingAction != models.ActionNone {
		t.Errorf("expected none, got %s", d.RoutingAction)
	}
	if d.FolderName != "" {
		t.Errorf("expected no folder name, got %q", d.FolderName)
	}
}

func TestClassify_CreateFolder(t *testing.T) {
	c := New()

	d, err := c.Classify(context.Background(), "create a folder called Groceries and note I need eggs")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if d.Kind != models.KindNote {
		t.Errorf("expected note, got %s", d.Kind)
	}
	if d.RoutingAction != models.ActionCreateFolder {
		t.Errorf("expected create_folder, got %s", d.RoutingAction)
	}
	if d.FolderName != "Groceries" {
		t.Errorf("expected folder Groceries, got %q", d.FolderName)
	}
	if d.Content != "I need eggs" {
		t.Errorf("expected content %q, got %q", "I need eggs", d.Content)
	}
}

func TestClassify_CategorizeNote(t *testing.T) {
	c := New()

	d, err := c.Classify(context.Background(), "put this in Groceries: buy spinach")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if d.RoutingAction != models.ActionCategorizeNote {
		t.Errorf("expected categorize_note, got %s", d.RoutingAction)
	}
	if d.FolderName != "Groceries" {
		t.Errorf("expected folder Groceries, got %q", d.FolderName)
	}
	if d.Content != "buy spinach" {
		t.Errorf("expected content %q, got %q", "buy spinach", d.Content)
	}
}

func TestClassify_PlainNote(t *testing.T) {
	c := New()

	d, err := c.Classify(context.Background(), "the sky is blue today")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if d.Kind != models.KindNote || d.RoutingAction != models.ActionNone {
		t.Errorf("expected plain note, got %+v", d)
	}
	if d.Content != "the sky is blue today" {
		t.Errorf("expected content preserved, got %q", d.Content)
	}
}

func TestClassify_FillerRemoval(t *testing.T) {
	c := New()

	d, err := c.Classify(context.Background(), "  um the sky is uh blue today  ")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if d.Content != "the sky is blue today" {
		t.Errorf("expected fillers removed, got %q", d.Content)
	}
}

func TestClassify_EmptyText(t *testing.T) {
	c := New()

	for _, text := range []string{"", "   ", "um uh"} {
		d, err := c.Classify(context.Background(), text)
		if err != nil {
			t.Fatalf("empty text must not error, got %v", err)
		}
		if d.Kind != models.KindNote || d.RoutingAction != models.ActionNone || d.Content != "" {
			t.Errorf("expected empty note decision for %q, got %+v", text, d)
		}
	}
}

func TestClassify_DecisionsValidate(t *testing.T) {
	c := New()

	for _, text := range []string{
		"remind me to buy milk",
		"don't let me forget to call the dentist",
		"I need to water the plants",
		"new folder Work",
		"save under Recipes, pasta with garlic",
		"nothing special happened today",
	} {
		d, err := c.Classify(context.Background(), text)
		if err != nil {
			t.Fatalf("Classify(%q) failed: %v", text, err)
		}
		if err := d.Validate(); err != nil {
			t.Errorf("Classify(%q) produced invalid decision %+v: %v", text, d, err)
		}
	}
}
