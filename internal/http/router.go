// Package http exposes the service API: placeholder creation at
// recording-stop time and the pipeline entry point for a completed
// recording.
package http

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"

	"voice-note-router-service/internal/app"
	"voice-note-router-service/internal/observability/logging"
	"voice-note-router-service/internal/service/classify"
	"voice-note-router-service/internal/service/pipeline"
	"voice-note-router-service/internal/service/route"
	"voice-note-router-service/internal/service/stt"
	"voice-note-router-service/internal/store"
)

// Recordings come from short voice memos; anything bigger is rejected.
const maxRecordingBytes = 25 * 1024 * 1024

// Handler serves the API routes.
type Handler struct {
	pipeline *pipeline.Pipeline
	notes    store.NoteStore
	logger   zerolog.Logger
}

// NewHandler creates the API handler.
func NewHandler(p *pipeline.Pipeline, notes store.NoteStore) *Handler {
	return &Handler{
		pipeline: p,
		notes:    notes,
		logger:   logging.WithComponent("http"),
	}
}

// NewRouter constructs the HTTP router for the service.
func NewRouter(application *app.Application, h *Handler) http.Handler {
	r := chi.NewRouter()

	// Basic middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)

	// Health endpoints
	r.Get("/v1/liveness", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	r.Get("/v1/readiness", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ready"))
	})

	// API routes
	r.Route("/v1", func(r chi.Router) {
		r.Post("/placeholders", h.createPlaceholder)
		r.Post("/recordings/{placeholderID}", h.processRecording)
	})

	return r
}

// createPlaceholder creates a provisional note before classification
// starts; the surrounding app calls this at recording-stop time.
func (h *Handler) createPlaceholder(w http.ResponseWriter, r *http.Request) {
	id, err := h.notes.CreatePlaceholder(r.Context())
	if err != nil {
		h.logger.Error().Err(err).Msg("Placeholder creation failed")
		writeError(w, http.StatusInternalServerError, "store", err)
		return
	}

	writeJSON(w, http.StatusCreated, map[string]string{"id": id})
}

// processRecording runs the full pipeline for a completed recording. The
// request body is the raw audio payload; Content-Type is the mime hint.
func (h *Handler) processRecording(w http.ResponseWriter, r *http.Request) {
	placeholderID := chi.URLParam(r, "placeholderID")
	if placeholderID == "" {
		writeError(w, http.StatusBadRequest, "request", errors.New("missing placeholder id"))
		return
	}

	audio, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxRecordingBytes))
	if err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			writeError(w, http.StatusRequestEntityTooLarge, "request", err)
			return
		}
		writeError(w, http.StatusBadRequest, "request", err)
		return
	}

	if err := h.pipeline.ProcessRecording(r.Context(), placeholderID, audio, r.Header.Get("Content-Type")); err != nil {
		status, stage := classifyFailure(err)
		writeError(w, status, stage, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// classifyFailure maps the pipeline error taxonomy to an HTTP status and a
// stage name the caller can surface to the user.
func classifyFailure(err error) (int, string) {
	var (
		transcriptionErr  *stt.TranscriptionError
		classificationErr *classify.ClassificationError
		routingErr        *route.RoutingError
		storeErr          *store.StoreError
	)
	switch {
	case errors.As(err, &transcriptionErr):
		return http.StatusBadGateway, pipeline.StageTranscription
	case errors.As(err, &classificationErr):
		return http.StatusBadGateway, pipeline.StageClassification
	case errors.As(err, &routingErr):
		switch {
		case errors.Is(err, route.ErrAlreadyRouted), errors.Is(err, route.ErrRoutingStarted):
			return http.StatusConflict, pipeline.StageRouting
		case errors.Is(err, store.ErrNotFound):
			return http.StatusNotFound, pipeline.StageRouting
		}
		return http.StatusInternalServerError, pipeline.StageRouting
	case errors.As(err, &storeErr):
		return http.StatusInternalServerError, "store"
	default:
		return http.StatusInternalServerError, "internal"
	}
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, stage string, err error) {
	writeJSON(w, status, map[string]string{
		"error": err.Error(),
		"stage": stage,
	})
}
