// Package mock provides a test double for the tts.Provider interface.
//
// Use Provider to feed controlled WAV payloads to consumers and to verify the
// text and VoiceParams passed to the backend.
//
// Example:
//
//	p := &mock.Provider{
//	    BackendName:   "mock-primary",
//	    SynthesizeWAV: testWAV,
//	}
//	wav, _ := p.Synthesize(ctx, "hello", tts.VoiceParams{Speaker: "p225"})
package mock

import (
	"context"
	"sync"

	"github.com/emovox/emovox/pkg/provider/tts"
)

// SynthesizeCall records a single invocation of Synthesize.
type SynthesizeCall struct {
	// Text is the text passed to Synthesize.
	Text string
	// Voice is the VoiceParams passed to Synthesize.
	Voice tts.VoiceParams
}

// Provider is a mock implementation of tts.Provider. It is safe for
// concurrent use.
type Provider struct {
	mu sync.Mutex

	// --- Configurable responses ---

	// BackendName is returned by Name. Defaults to "mock".
	BackendName string

	// SynthesizeWAV is the WAV payload returned by Synthesize.
	SynthesizeWAV []byte

	// SynthesizeErr, if non-nil, is returned by Synthesize instead of a payload.
	SynthesizeErr error

	// SynthesizeFn, if non-nil, overrides SynthesizeWAV/SynthesizeErr entirely.
	SynthesizeFn func(ctx context.Context, text string, voice tts.VoiceParams) ([]byte, error)

	// ListVoicesResult is returned by ListVoices.
	ListVoicesResult []tts.Voice

	// ListVoicesErr, if non-nil, is returned by ListVoices.
	ListVoicesErr error

	// --- Recorded calls ---

	synthesizeCalls []SynthesizeCall
	listVoicesCalls int
}

// Compile-time interface assertion.
var _ tts.Provider = (*Provider)(nil)

// Name implements tts.Provider.
func (p *Provider) Name() string {
	if p.BackendName == "" {
		return "mock"
	}
	return p.BackendName
}

// Synthesize implements tts.Provider, recording the call.
func (p *Provider) Synthesize(ctx context.Context, text string, voice tts.VoiceParams) ([]byte, error) {
	p.mu.Lock()
	p.synthesizeCalls = append(p.synthesizeCalls, SynthesizeCall{Text: text, Voice: voice})
	p.mu.Unlock()

	if p.SynthesizeFn != nil {
		return p.SynthesizeFn(ctx, text, voice)
	}
	if p.SynthesizeErr != nil {
		return nil, p.SynthesizeErr
	}
	return p.SynthesizeWAV, nil
}

// ListVoices implements tts.Provider, recording the call.
func (p *Provider) ListVoices(ctx context.Context) ([]tts.Voice, error) {
	p.mu.Lock()
	p.listVoicesCalls++
	p.mu.Unlock()

	if p.ListVoicesErr != nil {
		return nil, p.ListVoicesErr
	}
	return p.ListVoicesResult, nil
}

// SynthesizeCalls returns a copy of the recorded Synthesize invocations.
func (p *Provider) SynthesizeCalls() []SynthesizeCall {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]SynthesizeCall, len(p.synthesizeCalls))
	copy(out, p.synthesizeCalls)
	return out
}

// ListVoicesCalls returns how many times ListVoices was invoked.
func (p *Provider) ListVoicesCalls() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.listVoicesCalls
}
