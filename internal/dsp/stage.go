// Package dsp implements the audio post-processing chain applied to
// synthesised speech: pitch shift, time stretch, gain, tremolo, reverb and
// brightness, followed by hard clipping and a float32 cast.
//
// Effects are composed as an ordered list of stages. A stage either returns a
// transformed clip or a typed error; a failing stage is skipped and the chain
// continues with the unmodified buffer. This keeps a single misbehaving
// effect (e.g. a pitch shift on a clip too short to analyse) from discarding
// the whole request.
package dsp

import (
	"errors"
	"log/slog"

	"github.com/emovox/emovox/pkg/audio"
)

// ErrUnavailable is returned by a stage that cannot operate on the given
// input (for example, a pitch shift on a clip shorter than its analysis
// window). The chain treats it as a pass-through, not a failure.
var ErrUnavailable = errors.New("dsp: stage unavailable for this input")

// Stage transforms a clip. Implementations must not retain the input slice.
type Stage interface {
	// Name identifies the stage in logs and metrics.
	Name() string

	// Apply returns the transformed clip, or an error if the stage cannot be
	// applied. On error the caller keeps the original clip.
	Apply(c audio.Clip) (audio.Clip, error)
}

// Chain applies stages in order with per-stage failure isolation.
type Chain struct {
	Stages []Stage

	// Log receives per-stage skip diagnostics. Defaults to slog.Default().
	Log *slog.Logger

	// OnStage, when non-nil, is invoked after every stage attempt with the
	// stage name and whether it was applied. Used for metrics.
	OnStage func(name string, applied bool)
}

// Apply runs the clip through every stage. A stage returning an error leaves
// the buffer untouched for that stage; the rest of the chain still runs.
// The result is hard clipped to [-1, 1] and cast through float32, so the
// output is always finite and bounded.
func (ch Chain) Apply(c audio.Clip) audio.Clip {
	log := ch.Log
	if log == nil {
		log = slog.Default()
	}
	for _, st := range ch.Stages {
		out, err := st.Apply(c)
		if err != nil {
			if errors.Is(err, ErrUnavailable) {
				log.Debug("effect stage not applicable, passing through",
					"stage", st.Name(), "samples", len(c.Samples))
			} else {
				log.Warn("effect stage failed, continuing with unmodified audio",
					"stage", st.Name(), "err", err)
			}
			if ch.OnStage != nil {
				ch.OnStage(st.Name(), false)
			}
			continue
		}
		c = out
		if ch.OnStage != nil {
			ch.OnStage(st.Name(), true)
		}
	}
	return finalize(c)
}

// finalize clamps to [-1, 1] and rounds every sample through float32, the
// fixed-width representation handed to the PCM writer.
func finalize(c audio.Clip) audio.Clip {
	c = audio.Clamp(c)
	for i, s := range c.Samples {
		c.Samples[i] = float64(float32(s))
	}
	return c
}
