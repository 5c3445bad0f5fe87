// Package tts defines the Provider interface for text-to-speech backends.
//
// A backend wraps a speech synthesis service (a local Coqui TTS server, the
// OpenAI speech API, ...) and exposes batch synthesis: one call per
// utterance returning a complete WAV payload. The emotional coloring of the
// voice is not the backend's job; it happens in the post-processing chain.
//
// Implementations must be safe for concurrent use.
package tts

import (
	"context"
	"errors"
)

// ErrSpeakerRequired is returned by Synthesize when the backend hosts a
// multi-speaker model and the request names no speaker. Callers decide
// whether to pick a default speaker and retry; backends never guess.
var ErrSpeakerRequired = errors.New("tts: backend requires a speaker id")

// Voice describes one selectable voice of a backend.
type Voice struct {
	// ID is the backend-specific voice or speaker identifier.
	ID string

	// Name is the human-readable voice name.
	Name string

	// Backend identifies which provider this voice belongs to.
	Backend string

	// Metadata holds backend-specific attributes (model name, voice type, ...).
	Metadata map[string]string
}

// VoiceParams selects the voice for one synthesis call.
type VoiceParams struct {
	// Speaker is the backend-specific speaker identifier. May be empty for
	// single-speaker backends; see [ErrSpeakerRequired].
	Speaker string
}

// Provider is the abstraction over any TTS backend.
type Provider interface {
	// Name identifies the backend in logs, metrics and error messages.
	Name() string

	// Synthesize renders text to speech and returns the complete WAV payload.
	// The sample rate and channel count are whatever the backend's model
	// produces; callers normalise afterwards.
	Synthesize(ctx context.Context, text string, voice VoiceParams) ([]byte, error)

	// ListVoices returns the voices this backend currently offers. Backends
	// for single-speaker models return exactly one entry.
	ListVoices(ctx context.Context) ([]Voice, error)
}
