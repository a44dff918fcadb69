package route

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"voice-note-router-service/internal/models"
	"voice-note-router-service/internal/observability/logging"
	"voice-note-router-service/internal/observability/metrics"
	"voice-note-router-service/internal/service/folder"
	"voice-note-router-service/internal/store"
)

// RoutingError wraps a failure in a routing sub-step. The placeholder is
// left in its last successfully-reached state; nothing is retried or
// rolled back here.
type RoutingError struct {
	PlaceholderID string
	Step          string
	Err           error
}

func (e *RoutingError) Error() string {
	return fmt.Sprintf("routing %s: %s: %v", e.PlaceholderID, e.Step, e.Err)
}

func (e *RoutingError) Unwrap() error { return e.Err }

// Result reports what a committed routing branch produced.
type Result struct {
	Kind     models.Kind
	Action   models.RoutingAction
	NoteID   string // set on the note path (the finalized placeholder)
	TodoID   string // set on the todo path
	FolderID string // set when the note was foldered
}

// Engine routes decisions into the collection store. It is the sole writer
// that transitions a placeholder out of its provisional state: a lifecycle
// per placeholder serializes in-flight attempts, and the stored record's
// pending flag guards against re-routing an already committed one.
type Engine struct {
	store      store.Store
	folders    *folder.Resolver
	metrics    *metrics.Metrics
	logger     zerolog.Logger
	lifecycles lifecycleRegistry
}

// NewEngine creates a routing engine over the given store.
func NewEngine(s store.Store, folders *folder.Resolver) *Engine {
	return &Engine{
		store:   s,
		folders: folders,
		metrics: metrics.DefaultMetrics,
		logger:  logging.WithComponent("route"),
	}
}

// Route commits the decision's effect for the placeholder. Branches:
//
//	todo            → create todo, delete placeholder
//	note/none       → finalize placeholder without folder
//	note/folder     → resolve folder, finalize placeholder with folder id
//
// Side effects are ordered so that a crash mid-branch never loses user
// intent: the todo is durably created before its placeholder is deleted,
// and folders are resolved before finalization.
//
// A failed attempt releases the placeholder for retry; whether routing
// already committed is read off the stored record's pending flag, so
// replays are rejected even across process restarts.
func (e *Engine) Route(ctx context.Context, placeholderID string, d models.Decision) (Result, error) {
	lc := e.lifecycles.get(placeholderID)
	if err := lc.Begin(); err != nil {
		return Result{}, &RoutingError{PlaceholderID: placeholderID, Step: "begin", Err: err}
	}

	logger := e.logger.With().
		Str("placeholderId", placeholderID).
		Str("kind", string(d.Kind)).
		Str("routingAction", string(d.RoutingAction)).
		Logger()

	note, err := e.store.GetNote(ctx, placeholderID)
	if err != nil {
		lc.Fail()
		if errors.Is(err, store.ErrNotFound) {
			// The record is gone (todo-path replay or never created);
			// nothing left to route.
			e.lifecycles.evict(placeholderID)
		}
		rerr := &RoutingError{PlaceholderID: placeholderID, Step: "claim", Err: err}
		logger.Error().Err(rerr).Msg("Routing failed")
		return Result{}, rerr
	}
	if !note.Pending {
		lc.Fail()
		e.lifecycles.evict(placeholderID)
		return Result{}, &RoutingError{PlaceholderID: placeholderID, Step: "claim", Err: ErrAlreadyRouted}
	}

	res, err := e.routeBranch(ctx, logger, lc, placeholderID, d)
	if err != nil {
		lc.Fail()
		logger.Error().Err(err).Msg("Routing failed, placeholder released for retry")
		return Result{}, err
	}
	e.lifecycles.evict(placeholderID)

	e.metrics.RecordRoutingBranch(string(res.Kind), string(res.Action))
	logger.Info().Str("state", lc.State().String()).Msg("Routing committed")
	return res, nil
}

func (e *Engine) routeBranch(ctx context.Context, logger zerolog.Logger, lc *Lifecycle, placeholderID string, d models.Decision) (Result, error) {
	if d.Kind == models.KindTodo {
		return e.routeTodo(ctx, lc, placeholderID, d)
	}
	return e.routeNote(ctx, logger, lc, placeholderID, d)
}

// routeTodo creates the todo before deleting the placeholder: a crash
// between the two leaves a durable todo and an orphaned (inspectable)
// placeholder, never a lost intent. Todos are never foldered; any routing
// action on a todo decision is ignored.
func (e *Engine) routeTodo(ctx context.Context, lc *Lifecycle, placeholderID string, d models.Decision) (Result, error) {
	todoID, err := e.store.CreateTodo(ctx, d.Content)
	if err != nil {
		return Result{}, &RoutingError{PlaceholderID: placeholderID, Step: "create_todo", Err: err}
	}

	if err := e.store.DeleteNote(ctx, placeholderID); err != nil {
		return Result{}, &RoutingError{PlaceholderID: placeholderID, Step: "delete_placeholder", Err: err}
	}
	if err := lc.Deleted(); err != nil {
		return Result{}, &RoutingError{PlaceholderID: placeholderID, Step: "lifecycle", Err: err}
	}

	return Result{Kind: models.KindTodo, Action: models.ActionNone, TodoID: todoID}, nil
}

// routeNote resolves the folder (when the decision asks for one) before
// finalizing, so a failure leaves the placeholder pending and at worst an
// unused folder behind.
func (e *Engine) routeNote(ctx context.Context, logger zerolog.Logger, lc *Lifecycle, placeholderID string, d models.Decision) (Result, error) {
	var folderID string
	if d.NeedsFolder() {
		id, err := e.folders.Resolve(ctx, d.FolderName)
		if err != nil {
			return Result{}, &RoutingError{PlaceholderID: placeholderID, Step: "resolve_folder", Err: err}
		}
		folderID = id
		logger.Debug().Str("folderId", folderID).Str("folderName", d.FolderName).Msg("Folder resolved")
	}

	err := e.store.FinalizeNote(ctx, placeholderID, models.NoteFinalization{
		Content:  d.Content,
		Type:     models.NoteTypeNote,
		FolderID: folderID,
	})
	if err != nil {
		return Result{}, &RoutingError{PlaceholderID: placeholderID, Step: "finalize", Err: err}
	}
	if err := lc.Finalized(); err != nil {
		return Result{}, &RoutingError{PlaceholderID: placeholderID, Step: "lifecycle", Err: err}
	}

	return Result{
		Kind:     models.KindNote,
		Action:   d.RoutingAction,
		NoteID:   placeholderID,
		FolderID: folderID,
	}, nil
}
