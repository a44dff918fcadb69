package pipeline

import (
	"context"
	"errors"
	"testing"

	"voice-note-router-service/internal/events"
	"voice-note-router-service/internal/models"
	"voice-note-router-service/internal/service/classify"
	classifymock "voice-note-router-service/internal/service/classify/mock"
	"voice-note-router-service/internal/service/folder"
	"voice-note-router-service/internal/service/route"
	"voice-note-router-service/internal/service/stt"
	sttmock "voice-note-router-service/internal/service/stt/mock"
	"voice-note-router-service/internal/store/memory"
)

// newPipeline wires a full pipeline over the in-memory store with a
// log-only publisher.
func newPipeline(transcriber stt.Transcriber, classifier classify.Classifier, st *memory.Store) *Pipeline {
	engine := route.NewEngine(st, folder.New(st))
	return New(transcriber, classifier, engine, events.New(nil))
}

func TestProcessRecording_TodoEndToEnd(t *testing.T) {
	st := memory.New()
	transcriber := sttmock.NewWithTranscripts([]string{"remind me to buy milk"})
	p := newPipeline(transcriber, classifymock.New(), st)

	ph, err := st.CreatePlaceholder(context.Background())
	if err != nil {
		t.Fatalf("CreatePlaceholder failed: %v", err)
	}

	if err := p.ProcessRecording(context.Background(), ph, []byte("audio"), "audio/wav"); err != nil {
		t.Fatalf("ProcessRecording failed: %v", err)
	}

	todos := st.Todos()
	if len(todos) != 1 {
		t.Fatalf("expected 1 todo, got %d", len(todos))
	}
	if todos[0].Text != "buy milk" {
		t.Errorf("expected todo text 'buy milk', got %q", todos[0].Text)
	}
	if _, ok := st.Note(ph); ok {
		t.Error("placeholder must be deleted on the todo branch")
	}
}

func TestProcessRecording_FolderedNoteEndToEnd(t *testing.T) {
	st := memory.New()
	transcriber := sttmock.NewWithTranscripts([]string{"create a folder called Groceries and note I need eggs"})
	p := newPipeline(transcriber, classifymock.New(), st)

	ph, err := st.CreatePlaceholder(context.Background())
	if err != nil {
		t.Fatalf("CreatePlaceholder failed: %v", err)
	}

	if err := p.ProcessRecording(context.Background(), ph, []byte("audio"), "audio/wav"); err != nil {
		t.Fatalf("ProcessRecording failed: %v", err)
	}

	f, ok := st.FolderByName("Groceries")
	if !ok {
		t.Fatal("folder Groceries was not created")
	}
	n, ok := st.Note(ph)
	if !ok {
		t.Fatal("finalized note is missing")
	}
	if n.Pending {
		t.Error("note must no longer be pending")
	}
	if n.FolderID != f.ID {
		t.Errorf("note must point at the new folder, got %q", n.FolderID)
	}
	if n.Content != "I need eggs" {
		t.Errorf("unexpected content %q", n.Content)
	}
}

func TestProcessRecording_EmptyTranscript(t *testing.T) {
	// Silence finalizes as an empty unfoldered note rather than failing.
	st := memory.New()
	transcriber := sttmock.NewWithTranscripts([]string{""})
	p := newPipeline(transcriber, classifymock.New(), st)

	ph, err := st.CreatePlaceholder(context.Background())
	if err != nil {
		t.Fatalf("CreatePlaceholder failed: %v", err)
	}

	if err := p.ProcessRecording(context.Background(), ph, []byte("audio"), "audio/wav"); err != nil {
		t.Fatalf("ProcessRecording failed: %v", err)
	}

	n, ok := st.Note(ph)
	if !ok {
		t.Fatal("note is missing")
	}
	if n.Pending || n.Content != "" || n.FolderID != "" {
		t.Errorf("expected empty finalized note, got %+v", n)
	}
	if len(st.Todos()) != 0 {
		t.Error("empty transcript must never create a todo")
	}
}

func TestProcessRecording_TranscriptionFailure(t *testing.T) {
	st := memory.New()
	transcriber := sttmock.New()
	transcriber.FailWith(errors.New("upstream unavailable"))
	p := newPipeline(transcriber, classifymock.New(), st)

	ph, err := st.CreatePlaceholder(context.Background())
	if err != nil {
		t.Fatalf("CreatePlaceholder failed: %v", err)
	}

	err = p.ProcessRecording(context.Background(), ph, []byte("audio"), "audio/wav")
	if err == nil {
		t.Fatal("expected pipeline failure")
	}
	var terr *stt.TranscriptionError
	if !errors.As(err, &terr) {
		t.Errorf("expected TranscriptionError, got %T: %v", err, err)
	}

	n, ok := st.Note(ph)
	if !ok {
		t.Fatal("placeholder must survive a transcription failure")
	}
	if !n.Pending || n.Content != models.PlaceholderContent {
		t.Errorf("placeholder must remain pending with sentinel content, got %+v", n)
	}
}

// failingClassifier returns a fixed classification error.
type failingClassifier struct {
	err *classify.ClassificationError
}

func (f *failingClassifier) Classify(ctx context.Context, text string) (models.Decision, error) {
	return models.Decision{}, f.err
}

func TestProcessRecording_ClassificationFailureLeavesPlaceholderPending(t *testing.T) {
	st := memory.New()
	transcriber := sttmock.NewWithTranscripts([]string{"the sky is blue today"})
	p := newPipeline(transcriber, &failingClassifier{
		err: &classify.ClassificationError{Reason: "no function call in response"},
	}, st)

	ph, err := st.CreatePlaceholder(context.Background())
	if err != nil {
		t.Fatalf("CreatePlaceholder failed: %v", err)
	}

	err = p.ProcessRecording(context.Background(), ph, []byte("audio"), "audio/wav")
	if err == nil {
		t.Fatal("expected pipeline failure")
	}
	var cerr *classify.ClassificationError
	if !errors.As(err, &cerr) {
		t.Errorf("expected ClassificationError, got %T: %v", err, err)
	}

	n, ok := st.Note(ph)
	if !ok {
		t.Fatal("placeholder must survive a classification failure")
	}
	if !n.Pending || n.Content != models.PlaceholderContent {
		t.Errorf("placeholder must remain pending with sentinel content, got %+v", n)
	}
	if len(st.Todos()) != 0 || st.FolderCount() != 0 {
		t.Error("a failed classification must not mutate any collection")
	}
}

func TestProcessRecording_RoutingFailureKeepsStageType(t *testing.T) {
	st := memory.New()
	transcriber := sttmock.NewWithTranscripts([]string{"the sky is blue today"})
	p := newPipeline(transcriber, classifymock.New(), st)

	// An unknown placeholder is rejected when routing claims it.
	err := p.ProcessRecording(context.Background(), "no-such-placeholder", []byte("audio"), "audio/wav")
	if err == nil {
		t.Fatal("expected pipeline failure")
	}
	var rerr *route.RoutingError
	if !errors.As(err, &rerr) {
		t.Errorf("expected RoutingError, got %T: %v", err, err)
	}
}
