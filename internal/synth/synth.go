// Package synth orchestrates one emovox generation: backend synthesis,
// emotion post-processing, and WAV file output.
//
// A [Synthesizer] resolves the requested model against the configuration,
// asks the backend for raw speech, runs the emotion DSP chain over it, and
// writes the final 16-bit mono WAV. When the requested model fails, the
// generation is retried exactly once against the configured fallback model
// with the child voice forced on, keeping the original emotion and controls.
package synth

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/emovox/emovox/internal/config"
	"github.com/emovox/emovox/internal/dsp"
	"github.com/emovox/emovox/internal/emotion"
	"github.com/emovox/emovox/internal/observe"
	"github.com/emovox/emovox/internal/wavio"
	"github.com/emovox/emovox/pkg/audio"
	"github.com/emovox/emovox/pkg/provider/tts"
)

// ErrEmptyText is returned by [Synthesizer.Generate] when the request text
// is empty or whitespace.
var ErrEmptyText = errors.New("synth: text must not be empty")

// ErrUnknownModel is returned when a request names a model that is not
// configured.
var ErrUnknownModel = errors.New("synth: unknown model")

// Request describes a single generation.
type Request struct {
	// Text is the text to speak. Must be non-empty.
	Text string

	// Emotion selects the emotion profile. Unknown or empty labels fall back
	// to the neutral profile.
	Emotion string

	// Speaker is the backend speaker/voice ID. Empty uses the model's
	// default voice.
	Speaker string

	// Model names the model configuration to synthesize with. Empty resolves
	// to the configured default model, or to the child model when the child
	// voice is on.
	Model string

	// OutputPath is where the WAV is written. A relative path lands in the
	// configured output directory. Empty generates a timestamped name from
	// the emotion label.
	OutputPath string

	// Controls are the fine-grained DSP overrides applied on top of the
	// emotion profile.
	Controls emotion.Controls
}

// Result reports a finished generation.
type Result struct {
	// Path is the absolute or output-dir-relative path of the written file.
	Path string

	// Model is the model that actually produced the speech.
	Model string

	// FellBack reports whether the fallback model had to be used.
	FellBack bool

	// Duration is the length of the generated audio.
	Duration time.Duration

	// Elapsed is the wall-clock time the generation took.
	Elapsed time.Duration
}

// Synthesizer runs generations against the configured models.
// It is safe for concurrent use; providers are created lazily and cached
// per model name.
type Synthesizer struct {
	cfg      *config.Config
	registry *config.Registry
	metrics  *observe.Metrics

	mu        sync.Mutex
	providers map[string]tts.Provider
}

// New creates a [Synthesizer] for the given configuration. The registry maps
// backend names to provider factories; pass [config.DefaultRegistry] outside
// of tests.
func New(cfg *config.Config, registry *config.Registry, metrics *observe.Metrics) *Synthesizer {
	return &Synthesizer{
		cfg:       cfg,
		registry:  registry,
		metrics:   metrics,
		providers: make(map[string]tts.Provider),
	}
}

// Generate synthesizes speech for the request and writes the post-processed
// WAV file. On backend failure the generation is retried exactly once with
// the fallback model and the child voice forced on; if that fails too, both
// errors are returned together.
func (s *Synthesizer) Generate(ctx context.Context, req Request) (Result, error) {
	if strings.TrimSpace(req.Text) == "" {
		return Result{}, ErrEmptyText
	}

	ctx, span := observe.StartSpan(ctx, "generate")
	defer span.End()
	log := observe.Logger(ctx)

	s.metrics.GenerationsInFlight.Add(ctx, 1)
	defer s.metrics.GenerationsInFlight.Add(ctx, -1)

	start := time.Now()
	primary := s.resolveModel(req)

	res, err := s.attempt(ctx, primary, req, false)
	if err != nil {
		log.Warn("synthesis failed, retrying with fallback model",
			"model", primary, "fallback", s.cfg.FallbackModel, "error", err)
		s.metrics.Fallbacks.Add(ctx, 1)

		fbRes, fbErr := s.attempt(ctx, s.cfg.FallbackModel, req, true)
		if fbErr != nil {
			return Result{}, fmt.Errorf("synth: generation failed: %w", errors.Join(err, fbErr))
		}
		res = fbRes
		res.FellBack = true
	}

	res.Elapsed = time.Since(start)
	s.metrics.GenerationDuration.Record(ctx, res.Elapsed.Seconds())
	log.Info("generation complete",
		"path", res.Path, "model", res.Model,
		"fallback", res.FellBack, "audio", res.Duration, "elapsed", res.Elapsed)
	return res, nil
}

// ListVoices returns the voices of the named model's backend. An empty name
// resolves to the default model.
func (s *Synthesizer) ListVoices(ctx context.Context, model string) ([]tts.Voice, error) {
	if model == "" {
		model = s.cfg.DefaultModel
	}
	p, _, err := s.provider(model)
	if err != nil {
		return nil, err
	}
	return p.ListVoices(ctx)
}

// Models returns the names of all configured models.
func (s *Synthesizer) Models() []string {
	names := make([]string, 0, len(s.cfg.Models))
	for _, m := range s.cfg.Models {
		names = append(names, m.Name)
	}
	return names
}

// resolveModel picks the model for a request: the explicitly named one, the
// child model when the child voice is on, the default otherwise.
func (s *Synthesizer) resolveModel(req Request) string {
	if req.Model != "" {
		return req.Model
	}
	if req.Controls.ChildVoice {
		return s.cfg.ChildModel
	}
	return s.cfg.DefaultModel
}

// attempt runs one full synthesis pass against the named model.
func (s *Synthesizer) attempt(ctx context.Context, model string, req Request, forceChild bool) (Result, error) {
	p, mc, err := s.provider(model)
	if err != nil {
		return Result{}, err
	}
	log := observe.Logger(ctx).With("model", model, "backend", mc.Backend)

	speaker := req.Speaker
	if speaker == "" {
		speaker = mc.Voice
	}

	t0 := time.Now()
	wav, err := p.Synthesize(ctx, req.Text, tts.VoiceParams{Speaker: speaker})
	s.metrics.SynthesisDuration.Record(ctx, time.Since(t0).Seconds())
	if err != nil {
		s.metrics.RecordProviderRequest(ctx, mc.Backend, model, "error")
		s.metrics.RecordProviderError(ctx, mc.Backend, model)
		return Result{}, fmt.Errorf("model %q: %w", model, err)
	}
	s.metrics.RecordProviderRequest(ctx, mc.Backend, model, "ok")

	clip, err := s.decodeViaTemp(wav)
	if err != nil {
		return Result{}, fmt.Errorf("model %q: %w", model, err)
	}

	ctl := req.Controls
	wantChild := ctl.ChildVoice || forceChild
	// A model that natively speaks as a child needs no DSP approximation.
	ctl.ChildVoice = wantChild && !mc.Child

	chain := dsp.Chain{
		Stages: s.timedStages(ctx, emotion.Chain(req.Emotion, ctl)),
		Log:    log,
	}
	out := chain.Apply(clip)

	path := s.outputPath(req, wantChild)
	if err := wavio.WriteFile(path, out); err != nil {
		return Result{}, fmt.Errorf("model %q: %w", model, err)
	}

	return Result{Path: path, Model: model, Duration: out.Duration()}, nil
}

// provider returns the cached provider for the model, creating it on first
// use.
func (s *Synthesizer) provider(model string) (tts.Provider, config.ModelConfig, error) {
	mc, ok := s.cfg.Model(model)
	if !ok {
		return nil, config.ModelConfig{}, fmt.Errorf("%w: %q", ErrUnknownModel, model)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if p, ok := s.providers[model]; ok {
		return p, mc, nil
	}
	p, err := s.registry.Create(mc)
	if err != nil {
		return nil, config.ModelConfig{}, fmt.Errorf("model %q: %w", model, err)
	}
	s.providers[model] = p
	return p, mc, nil
}

// decodeViaTemp spools the backend's WAV payload to a temporary file and
// decodes it from there, so oversized payloads never sit in memory twice.
// The temporary file is removed on every path.
func (s *Synthesizer) decodeViaTemp(wav []byte) (audio.Clip, error) {
	f, err := os.CreateTemp("", "emovox-*.wav")
	if err != nil {
		return audio.Clip{}, fmt.Errorf("create temp file: %w", err)
	}
	name := f.Name()
	defer os.Remove(name)

	if _, err := f.Write(wav); err != nil {
		f.Close()
		return audio.Clip{}, fmt.Errorf("write temp file: %w", err)
	}
	if err := f.Close(); err != nil {
		return audio.Clip{}, fmt.Errorf("close temp file: %w", err)
	}
	return wavio.ReadFile(name)
}

// outputPath resolves where the generated file should land.
func (s *Synthesizer) outputPath(req Request, child bool) string {
	p := req.OutputPath
	if p == "" {
		p = DefaultFilename(req.Emotion, child, time.Now())
	}
	if filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(s.cfg.OutputDir, p)
}

// DefaultFilename builds the timestamped output name used when a request
// does not specify one.
func DefaultFilename(label string, child bool, now time.Time) string {
	if child {
		return fmt.Sprintf("child_output_%d.wav", now.Unix())
	}
	label = strings.ToLower(strings.TrimSpace(label))
	if _, ok := emotion.Lookup(label); !ok {
		label = emotion.Neutral.Label
	}
	return fmt.Sprintf("my_%s_%d.wav", label, now.Unix())
}

// timedStage wraps a stage and reports its latency to the stage histogram.
type timedStage struct {
	inner   dsp.Stage
	ctx     context.Context
	metrics *observe.Metrics
}

func (t timedStage) Name() string { return t.inner.Name() }

func (t timedStage) Apply(c audio.Clip) (audio.Clip, error) {
	t0 := time.Now()
	out, err := t.inner.Apply(c)
	t.metrics.RecordStageDuration(t.ctx, t.inner.Name(), time.Since(t0).Seconds())
	return out, err
}

func (s *Synthesizer) timedStages(ctx context.Context, stages []dsp.Stage) []dsp.Stage {
	out := make([]dsp.Stage, len(stages))
	for i, st := range stages {
		out[i] = timedStage{inner: st, ctx: ctx, metrics: s.metrics}
	}
	return out
}
