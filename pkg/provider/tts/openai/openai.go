// Package openai provides a TTS provider backed by the OpenAI speech API.
// It implements the tts.Provider interface.
package openai

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	oai "github.com/openai/openai-go"
	"github.com/openai/openai-go/option"

	"github.com/emovox/emovox/pkg/provider/tts"
)

// Compile-time interface assertion.
var _ tts.Provider = (*Provider)(nil)

const defaultModel = "tts-1"

// voiceCatalogue lists the voices the speech API accepts. The API offers no
// listing endpoint, so the catalogue is static.
var voiceCatalogue = []string{
	"alloy", "ash", "coral", "echo", "fable", "nova", "onyx", "sage", "shimmer",
}

// config holds optional configuration for the provider.
type config struct {
	baseURL      string
	model        string
	defaultVoice string
	timeout      time.Duration
}

// Option is a functional option for Provider.
type Option func(*config)

// WithBaseURL overrides the default OpenAI API base URL. Useful for
// compatible proxies and for tests.
func WithBaseURL(url string) Option {
	return func(c *config) {
		c.baseURL = url
	}
}

// WithModel selects the speech model (e.g., "tts-1", "tts-1-hd",
// "gpt-4o-mini-tts"). Defaults to "tts-1".
func WithModel(model string) Option {
	return func(c *config) {
		c.model = model
	}
}

// WithDefaultVoice sets the voice used when a request names no speaker.
func WithDefaultVoice(voice string) Option {
	return func(c *config) {
		c.defaultVoice = voice
	}
}

// WithTimeout sets a per-request HTTP timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *config) {
		c.timeout = d
	}
}

// Provider implements tts.Provider using the OpenAI speech API.
type Provider struct {
	client       oai.Client
	model        string
	defaultVoice string
}

// New constructs a new OpenAI speech Provider. apiKey must be non-empty.
func New(apiKey string, opts ...Option) (*Provider, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("openai: apiKey must not be empty")
	}

	cfg := &config{model: defaultModel}
	for _, o := range opts {
		o(cfg)
	}

	reqOpts := []option.RequestOption{
		option.WithAPIKey(apiKey),
	}
	if cfg.baseURL != "" {
		reqOpts = append(reqOpts, option.WithBaseURL(cfg.baseURL))
	}
	if cfg.timeout > 0 {
		reqOpts = append(reqOpts, option.WithHTTPClient(&http.Client{
			Timeout: cfg.timeout,
		}))
	}

	return &Provider{
		client:       oai.NewClient(reqOpts...),
		model:        cfg.model,
		defaultVoice: cfg.defaultVoice,
	}, nil
}

// Name implements tts.Provider.
func (p *Provider) Name() string { return "openai" }

// Synthesize renders text via POST /audio/speech and returns the WAV payload.
// The speech API always needs a voice: when the request names no speaker and
// no default voice is configured, [tts.ErrSpeakerRequired] is returned.
func (p *Provider) Synthesize(ctx context.Context, text string, voice tts.VoiceParams) ([]byte, error) {
	speaker := voice.Speaker
	if speaker == "" {
		speaker = p.defaultVoice
	}
	if speaker == "" {
		return nil, fmt.Errorf("openai: %w", tts.ErrSpeakerRequired)
	}

	resp, err := p.client.Audio.Speech.New(ctx, oai.AudioSpeechNewParams{
		Model:          oai.SpeechModel(p.model),
		Input:          text,
		Voice:          oai.AudioSpeechNewParamsVoice(speaker),
		ResponseFormat: oai.AudioSpeechNewParamsResponseFormatWAV,
	})
	if err != nil {
		return nil, fmt.Errorf("openai: speech request: %w", err)
	}
	defer resp.Body.Close()

	wav, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("openai: read speech response: %w", err)
	}
	return wav, nil
}

// ListVoices returns the static voice catalogue of the speech API.
func (p *Provider) ListVoices(ctx context.Context) ([]tts.Voice, error) {
	voices := make([]tts.Voice, 0, len(voiceCatalogue))
	for _, name := range voiceCatalogue {
		voices = append(voices, tts.Voice{
			ID:      name,
			Name:    name,
			Backend: "openai",
			Metadata: map[string]string{
				"model": p.model,
			},
		})
	}
	return voices, nil
}
