package http

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"voice-note-router-service/internal/app"
	"voice-note-router-service/internal/config"
	"voice-note-router-service/internal/events"
	"voice-note-router-service/internal/models"
	"voice-note-router-service/internal/service/classify"
	classifymock "voice-note-router-service/internal/service/classify/mock"
	"voice-note-router-service/internal/service/folder"
	"voice-note-router-service/internal/service/pipeline"
	"voice-note-router-service/internal/service/route"
	"voice-note-router-service/internal/service/stt"
	sttmock "voice-note-router-service/internal/service/stt/mock"
	"voice-note-router-service/internal/store/memory"
)

func newTestRouter(t *testing.T, transcriber stt.Transcriber, classifier classify.Classifier, st *memory.Store) http.Handler {
	t.Helper()
	engine := route.NewEngine(st, folder.New(st))
	p := pipeline.New(transcriber, classifier, engine, events.New(nil))
	application := app.New(config.Load())
	return NewRouter(application, NewHandler(p, st))
}

func postRecording(router http.Handler, placeholderID string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/v1/recordings/"+placeholderID, bytes.NewReader([]byte("audio")))
	req.Header.Set("Content-Type", "audio/wav")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) map[string]string {
	t.Helper()
	var body map[string]string
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("error body is not JSON: %v", err)
	}
	return body
}

func TestCreatePlaceholder(t *testing.T) {
	st := memory.New()
	router := newTestRouter(t, sttmock.New(), classifymock.New(), st)

	req := httptest.NewRequest(http.MethodPost, "/v1/placeholders", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}
	var body map[string]string
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("response is not JSON: %v", err)
	}
	id := body["id"]
	if id == "" {
		t.Fatal("expected a placeholder id")
	}

	n, ok := st.Note(id)
	if !ok {
		t.Fatal("placeholder was not stored")
	}
	if !n.Pending || n.Content != models.PlaceholderContent {
		t.Errorf("expected pending placeholder with sentinel content, got %+v", n)
	}
}

func TestProcessRecording_HappyPath(t *testing.T) {
	st := memory.New()
	transcriber := sttmock.NewWithTranscripts([]string{"remind me to buy milk"})
	router := newTestRouter(t, transcriber, classifymock.New(), st)

	id, err := st.CreatePlaceholder(context.Background())
	if err != nil {
		t.Fatalf("CreatePlaceholder failed: %v", err)
	}

	rec := postRecording(router, id)
	if rec.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d: %s", rec.Code, rec.Body.String())
	}
	if len(st.Todos()) != 1 {
		t.Errorf("expected 1 todo, got %d", len(st.Todos()))
	}
}

func TestProcessRecording_TranscriptionFailure(t *testing.T) {
	st := memory.New()
	transcriber := sttmock.New()
	transcriber.FailWith(errors.New("upstream unavailable"))
	router := newTestRouter(t, transcriber, classifymock.New(), st)

	id, err := st.CreatePlaceholder(context.Background())
	if err != nil {
		t.Fatalf("CreatePlaceholder failed: %v", err)
	}

	rec := postRecording(router, id)
	if rec.Code != http.StatusBadGateway {
		t.Fatalf("expected 502, got %d", rec.Code)
	}
	if body := decodeError(t, rec); body["stage"] != pipeline.StageTranscription {
		t.Errorf("expected stage transcription, got %q", body["stage"])
	}
}

// failingClassifier returns a fixed classification error.
type failingClassifier struct{}

func (failingClassifier) Classify(ctx context.Context, text string) (models.Decision, error) {
	return models.Decision{}, &classify.ClassificationError{Reason: "no function call in response"}
}

func TestProcessRecording_ClassificationFailure(t *testing.T) {
	st := memory.New()
	router := newTestRouter(t, sttmock.New(), failingClassifier{}, st)

	id, err := st.CreatePlaceholder(context.Background())
	if err != nil {
		t.Fatalf("CreatePlaceholder failed: %v", err)
	}

	rec := postRecording(router, id)
	if rec.Code != http.StatusBadGateway {
		t.Fatalf("expected 502, got %d", rec.Code)
	}
	if body := decodeError(t, rec); body["stage"] != pipeline.StageClassification {
		t.Errorf("expected stage classification, got %q", body["stage"])
	}
}

func TestProcessRecording_ReplayConflicts(t *testing.T) {
	st := memory.New()
	transcriber := sttmock.NewWithTranscripts([]string{"the sky is blue today"})
	router := newTestRouter(t, transcriber, classifymock.New(), st)

	id, err := st.CreatePlaceholder(context.Background())
	if err != nil {
		t.Fatalf("CreatePlaceholder failed: %v", err)
	}

	if rec := postRecording(router, id); rec.Code != http.StatusNoContent {
		t.Fatalf("first request failed with %d: %s", rec.Code, rec.Body.String())
	}

	rec := postRecording(router, id)
	if rec.Code != http.StatusConflict {
		t.Fatalf("expected 409 on replay, got %d", rec.Code)
	}
	if body := decodeError(t, rec); body["stage"] != pipeline.StageRouting {
		t.Errorf("expected stage routing, got %q", body["stage"])
	}
}

func TestProcessRecording_UnknownPlaceholder(t *testing.T) {
	st := memory.New()
	transcriber := sttmock.NewWithTranscripts([]string{"the sky is blue today"})
	router := newTestRouter(t, transcriber, classifymock.New(), st)

	rec := postRecording(router, "no-such-placeholder")
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
	if body := decodeError(t, rec); body["stage"] != pipeline.StageRouting {
		t.Errorf("expected stage routing, got %q", body["stage"])
	}
}

func TestProcessRecording_RetryAfterFailure(t *testing.T) {
	st := memory.New()
	transcriber := sttmock.NewWithTranscripts([]string{"the sky is blue today"})
	transcriber.FailWith(errors.New("upstream unavailable"))
	router := newTestRouter(t, transcriber, classifymock.New(), st)

	id, err := st.CreatePlaceholder(context.Background())
	if err != nil {
		t.Fatalf("CreatePlaceholder failed: %v", err)
	}

	if rec := postRecording(router, id); rec.Code != http.StatusBadGateway {
		t.Fatalf("expected 502 while transcription is down, got %d", rec.Code)
	}

	// The placeholder stayed pending, so the caller's retry must succeed.
	transcriber.FailWith(nil)
	if rec := postRecording(router, id); rec.Code != http.StatusNoContent {
		t.Fatalf("retry must succeed, got %d: %s", rec.Code, rec.Body.String())
	}
}

func TestProcessRecording_BodyTooLarge(t *testing.T) {
	router := newTestRouter(t, sttmock.New(), classifymock.New(), memory.New())

	req := httptest.NewRequest(http.MethodPost, "/v1/recordings/ph-1", bytes.NewReader(make([]byte, maxRecordingBytes+1)))
	req.Header.Set("Content-Type", "audio/wav")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusRequestEntityTooLarge {
		t.Fatalf("expected 413, got %d", rec.Code)
	}
}

// brokenBody fails mid-read, like a client that went away.
type brokenBody struct{}

func (brokenBody) Read([]byte) (int, error) { return 0, errors.New("connection reset") }

func TestProcessRecording_BodyReadError(t *testing.T) {
	router := newTestRouter(t, sttmock.New(), classifymock.New(), memory.New())

	req := httptest.NewRequest(http.MethodPost, "/v1/recordings/ph-1", brokenBody{})
	req.Header.Set("Content-Type", "audio/wav")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("a read failure that is not a size overflow must map to 400, got %d", rec.Code)
	}
}

func TestHealthEndpoints(t *testing.T) {
	router := newTestRouter(t, sttmock.New(), classifymock.New(), memory.New())

	for _, path := range []string{"/v1/liveness", "/v1/readiness"} {
		req := httptest.NewRequest(http.MethodGet, path, nil)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		if rec.Code != http.StatusOK {
			t.Errorf("GET %s returned %d", path, rec.Code)
		}
	}
}
