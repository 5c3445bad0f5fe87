package dsp

import (
	"math"

	"github.com/emovox/emovox/pkg/audio"
)

// Tremolo applies sinusoidal amplitude modulation. The gain envelope
// oscillates between 1-Depth and 1 at RateHz, so a depth of 0 is a no-op and
// a depth of 1 fully gates the signal at the trough.
type Tremolo struct {
	RateHz float64
	Depth  float64
}

func (t Tremolo) Name() string { return "tremolo" }

func (t Tremolo) Apply(c audio.Clip) (audio.Clip, error) {
	if t.Depth <= 0 || t.RateHz <= 0 {
		return c, nil
	}
	depth := math.Min(t.Depth, 1)

	out := make([]float64, len(c.Samples))
	step := 2 * math.Pi * t.RateHz / float64(c.SampleRate)
	for i, s := range c.Samples {
		env := 1 - depth*(1-math.Sin(step*float64(i)))/2
		out[i] = s * env
	}
	return audio.Clip{Samples: out, SampleRate: c.SampleRate}, nil
}
