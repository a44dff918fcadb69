// Package mock provides a mock transcriber for running the pipeline without
// cloud credentials. It cycles through canned transcripts regardless of the
// audio payload.
package mock

import (
	"context"
	"sync"

	"voice-note-router-service/internal/service/stt"
)

// DefaultTranscripts provides sample utterances covering every routing
// branch of the pipeline.
var DefaultTranscripts = []string{
	"remind me to buy milk",
	"the sky is blue today",
	"create a folder called Groceries and note I need eggs",
	"put this in Groceries: buy spinach",
	"um don't let me forget to call the dentist",
}

// Adapter implements stt.Transcriber with canned responses.
type Adapter struct {
	mu          sync.Mutex
	transcripts []string
	next        int
	err         error
}

// New creates a mock transcriber cycling through DefaultTranscripts.
func New() *Adapter {
	return NewWithTranscripts(DefaultTranscripts)
}

// NewWithTranscripts creates a mock transcriber with the given transcripts.
func NewWithTranscripts(transcripts []string) *Adapter {
	return &Adapter{transcripts: transcripts}
}

// FailWith makes every subsequent Transcribe call return err wrapped in a
// TranscriptionError. Pass nil to clear.
func (a *Adapter) FailWith(err error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.err = err
}

// Transcribe returns the next canned transcript.
func (a *Adapter) Transcribe(ctx context.Context, audio []byte, mimeHint string) (string, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.err != nil {
		return "", &stt.TranscriptionError{Provider: "mock", Err: a.err}
	}
	if len(a.transcripts) == 0 {
		return "", nil
	}
	text := a.transcripts[a.next%len(a.transcripts)]
	a.next++
	return text, nil
}
