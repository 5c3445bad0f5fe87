package config

import (
	"errors"
	"fmt"
	"sync"

	"github.com/emovox/emovox/pkg/provider/tts"
	"github.com/emovox/emovox/pkg/provider/tts/coqui"
	"github.com/emovox/emovox/pkg/provider/tts/openai"
)

// ErrBackendNotRegistered is returned by [Registry.Create] when no factory
// has been registered under the requested backend name.
var ErrBackendNotRegistered = errors.New("config: backend not registered")

// Registry maps backend names to TTS provider constructor functions.
// It is safe for concurrent use.
type Registry struct {
	mu        sync.RWMutex
	factories map[string]func(ModelConfig) (tts.Provider, error)
}

// NewRegistry returns an empty, ready-to-use [Registry].
func NewRegistry() *Registry {
	return &Registry{
		factories: make(map[string]func(ModelConfig) (tts.Provider, error)),
	}
}

// Register registers a provider factory under the given backend name.
// Subsequent calls with the same name overwrite the previous registration.
func (r *Registry) Register(backend string, factory func(ModelConfig) (tts.Provider, error)) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.factories[backend] = factory
}

// Create instantiates a TTS provider for the model using the factory
// registered under its backend name. Returns [ErrBackendNotRegistered] if no
// factory has been registered for that backend.
func (r *Registry) Create(m ModelConfig) (tts.Provider, error) {
	r.mu.RLock()
	factory, ok := r.factories[m.Backend]
	r.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrBackendNotRegistered, m.Backend)
	}
	return factory(m)
}

// DefaultRegistry returns a [Registry] with all built-in backends
// registered.
func DefaultRegistry() *Registry {
	r := NewRegistry()
	r.Register("coqui", func(m ModelConfig) (tts.Provider, error) {
		var opts []coqui.Option
		if m.Language != "" {
			opts = append(opts, coqui.WithLanguage(m.Language))
		}
		if m.Timeout > 0 {
			opts = append(opts, coqui.WithTimeout(m.Timeout))
		}
		return coqui.New(m.BaseURL, opts...)
	})
	r.Register("openai", func(m ModelConfig) (tts.Provider, error) {
		opts := []openai.Option{}
		if m.BaseURL != "" {
			opts = append(opts, openai.WithBaseURL(m.BaseURL))
		}
		if m.Model != "" {
			opts = append(opts, openai.WithModel(m.Model))
		}
		if m.Voice != "" {
			opts = append(opts, openai.WithDefaultVoice(m.Voice))
		}
		if m.Timeout > 0 {
			opts = append(opts, openai.WithTimeout(m.Timeout))
		}
		return openai.New(m.APIKey, opts...)
	})
	return r
}
