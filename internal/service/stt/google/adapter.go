// Package google provides a Google Cloud Speech-to-Text transcriber.
package google

import (
	"context"
	"strings"

	speech "cloud.google.com/go/speech/apiv1"
	"cloud.google.com/go/speech/apiv1/speechpb"

	"voice-note-router-service/internal/service/stt"
)

const providerName = "google"

// Config holds recognition settings for recordings produced upstream
// (mono, fixed sample rate).
type Config struct {
	LanguageCode string
	SampleRateHz int
	// DefaultEncoding is used when the mime hint is absent or unknown.
	DefaultEncoding string
}

// Adapter implements stt.Transcriber using the synchronous Recognize API.
// Recordings arrive complete, so there is no streaming session to manage.
type Adapter struct {
	client *speech.Client
	cfg    Config
}

// New creates a new Google STT adapter.
// Requires GOOGLE_APPLICATION_CREDENTIALS to be set in the environment.
func New(ctx context.Context, cfg Config) (*Adapter, error) {
	c, err := speech.NewClient(ctx)
	if err != nil {
		return nil, &stt.TranscriptionError{Provider: providerName, Err: err}
	}
	return &Adapter{client: c, cfg: cfg}, nil
}

// Transcribe runs one synchronous recognition over the whole recording and
// joins the top alternative of each result. No results means silence, which
// is a valid empty transcript.
func (a *Adapter) Transcribe(ctx context.Context, audio []byte, mimeHint string) (string, error) {
	resp, err := a.client.Recognize(ctx, &speechpb.RecognizeRequest{
		Config: &speechpb.RecognitionConfig{
			Encoding:        encodingFor(mimeHint, a.cfg.DefaultEncoding),
			SampleRateHertz: int32(a.cfg.SampleRateHz),
			LanguageCode:    a.cfg.LanguageCode,
		},
		Audio: &speechpb.RecognitionAudio{
			AudioSource: &speechpb.RecognitionAudio_Content{Content: audio},
		},
	})
	if err != nil {
		return "", &stt.TranscriptionError{Provider: providerName, Err: err}
	}

	var parts []string
	for _, r := range resp.Results {
		if len(r.Alternatives) == 0 {
			continue
		}
		parts = append(parts, r.Alternatives[0].Transcript)
	}
	return strings.TrimSpace(strings.Join(parts, " ")), nil
}

// Close releases the underlying client.
func (a *Adapter) Close() error {
	return a.client.Close()
}

// encodingFor maps a mime hint to a recognition encoding, falling back to
// the configured default.
func encodingFor(mimeHint, def string) speechpb.RecognitionConfig_AudioEncoding {
	mime := mimeHint
	if i := strings.Index(mime, ";"); i >= 0 {
		mime = mime[:i]
	}
	switch strings.ToLower(strings.TrimSpace(mime)) {
	case "audio/wav", "audio/x-wav", "audio/l16":
		return speechpb.RecognitionConfig_LINEAR16
	case "audio/flac":
		return speechpb.RecognitionConfig_FLAC
	case "audio/ogg", "audio/opus":
		return speechpb.RecognitionConfig_OGG_OPUS
	case "audio/webm":
		return speechpb.RecognitionConfig_WEBM_OPUS
	case "audio/mpeg", "audio/mp3":
		return speechpb.RecognitionConfig_MP3
	}

	if enc, ok := speechpb.RecognitionConfig_AudioEncoding_value[strings.ToUpper(def)]; ok {
		return speechpb.RecognitionConfig_AudioEncoding(enc)
	}
	return speechpb.RecognitionConfig_ENCODING_UNSPECIFIED
}
