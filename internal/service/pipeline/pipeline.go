// Package pipeline runs a completed recording end to end: transcription,
// classification, routing. One invocation per recording, stages strictly in
// sequence; concurrent invocations share nothing but the folder collection.
package pipeline

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"voice-note-router-service/internal/events"
	"voice-note-router-service/internal/models"
	"voice-note-router-service/internal/observability/logging"
	"voice-note-router-service/internal/observability/metrics"
	"voice-note-router-service/internal/service/classify"
	"voice-note-router-service/internal/service/route"
	"voice-note-router-service/internal/service/stt"
)

// Stage names used in logs and metrics.
const (
	StageTranscription  = "transcription"
	StageClassification = "classification"
	StageRouting        = "routing"
)

// Pipeline coordinates the transcription gateway, the classification engine
// and the routing engine for one recording at a time.
type Pipeline struct {
	transcriber stt.Transcriber
	classifier  classify.Classifier
	router      *route.Engine
	publisher   *events.Publisher
	metrics     *metrics.Metrics
	logger      zerolog.Logger
}

// New creates a pipeline over the given components.
func New(transcriber stt.Transcriber, classifier classify.Classifier, router *route.Engine, publisher *events.Publisher) *Pipeline {
	return &Pipeline{
		transcriber: transcriber,
		classifier:  classifier,
		router:      router,
		publisher:   publisher,
		metrics:     metrics.DefaultMetrics,
		logger:      logging.WithComponent("pipeline"),
	}
}

// ProcessRecording runs the full pipeline for a completed recording and
// returns once routing has committed or a stage failed. Errors keep their
// stage-specific type (TranscriptionError, ClassificationError,
// RoutingError) so the caller can report them; the placeholder is left in
// its last successfully-reached state on failure.
func (p *Pipeline) ProcessRecording(ctx context.Context, placeholderID string, audio []byte, mimeHint string) error {
	start := time.Now()
	p.metrics.RecordPipelineStart()
	p.metrics.RecordAudioReceived(len(audio))

	logger := p.logger.With().Str("placeholderId", placeholderID).Logger()

	success := false
	defer func() {
		p.metrics.RecordPipelineEnd(success, time.Since(start).Seconds())
	}()

	text, err := p.transcribe(ctx, logger, audio, mimeHint)
	if err != nil {
		return err
	}

	decision, err := p.classify(ctx, logger, text)
	if err != nil {
		return err
	}

	res, err := p.route(ctx, logger, placeholderID, decision)
	if err != nil {
		return err
	}

	p.publishResult(ctx, logger, decision, res)
	success = true
	return nil
}

func (p *Pipeline) transcribe(ctx context.Context, logger zerolog.Logger, audio []byte, mimeHint string) (string, error) {
	start := time.Now()
	text, err := p.transcriber.Transcribe(ctx, audio, mimeHint)
	p.metrics.RecordStage(StageTranscription, err, time.Since(start).Seconds())
	if err != nil {
		logger.Error().Err(err).Str("stage", StageTranscription).Msg("Transcription failed")
		return "", err
	}
	if text == "" {
		p.metrics.RecordEmptyTranscript()
	}
	logger.Debug().Str("stage", StageTranscription).Int("transcriptLen", len(text)).Msg("Transcription completed")
	return text, nil
}

func (p *Pipeline) classify(ctx context.Context, logger zerolog.Logger, text string) (models.Decision, error) {
	start := time.Now()
	decision, err := p.classifier.Classify(ctx, text)
	p.metrics.RecordStage(StageClassification, err, time.Since(start).Seconds())
	if err != nil {
		p.metrics.RecordDecisionRejected()
		logger.Error().Err(err).Str("stage", StageClassification).Msg("Classification failed")
		return models.Decision{}, err
	}
	logger.Debug().
		Str("stage", StageClassification).
		Str("kind", string(decision.Kind)).
		Str("routingAction", string(decision.RoutingAction)).
		Msg("Classification completed")
	return decision, nil
}

func (p *Pipeline) route(ctx context.Context, logger zerolog.Logger, placeholderID string, decision models.Decision) (route.Result, error) {
	start := time.Now()
	res, err := p.router.Route(ctx, placeholderID, decision)
	p.metrics.RecordStage(StageRouting, err, time.Since(start).Seconds())
	if err != nil {
		logger.Error().Err(err).Str("stage", StageRouting).Msg("Routing failed")
		return route.Result{}, err
	}
	return res, nil
}

// publishResult emits the routing outcome. Routing has already committed,
// so a publish failure is logged and counted, never surfaced as a pipeline
// failure.
func (p *Pipeline) publishResult(ctx context.Context, logger zerolog.Logger, decision models.Decision, res route.Result) {
	now := time.Now().UnixMilli()

	var err error
	if res.Kind == models.KindTodo {
		err = p.publisher.PublishTodoCreated(ctx, res.TodoID, models.TodoCreated{
			EventType: "todo.created",
			TodoID:    res.TodoID,
			Text:      decision.Content,
			Timestamp: now,
		})
	} else {
		err = p.publisher.PublishNoteRouted(ctx, res.NoteID, models.NoteRouted{
			EventType: "note.routed",
			NoteID:    res.NoteID,
			FolderID:  res.FolderID,
			Content:   decision.Content,
			Timestamp: now,
		})
	}
	if err != nil {
		logger.Warn().Err(err).Msg("Routing event publish failed after commit")
	}
}
