// Package stt defines the interface for speech-to-text providers.
package stt

import (
	"context"
	"fmt"
)

// TranscriptionError wraps a failed transcription with the upstream message
// preserved for diagnostics. It is fatal for the current recording; retries
// are a caller policy.
type TranscriptionError struct {
	Provider string
	Err      error
}

func (e *TranscriptionError) Error() string {
	return fmt.Sprintf("transcription (%s): %v", e.Provider, e.Err)
}

func (e *TranscriptionError) Unwrap() error { return e.Err }

// Transcriber converts a complete recording into plain text.
type Transcriber interface {
	// Transcribe returns a best-effort transcript for the audio payload.
	// mimeHint names the container/codec of the recording (e.g. "audio/wav").
	// An empty transcript is a valid result, not an error.
	Transcribe(ctx context.Context, audio []byte, mimeHint string) (string, error)
}
