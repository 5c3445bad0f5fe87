package dsp

import "github.com/emovox/emovox/pkg/audio"

// Gain scales every sample by a linear factor. Factors below zero are
// rejected; clipping protection happens once at the end of the chain.
type Gain struct {
	Factor float64
}

func (g Gain) Name() string { return "gain" }

func (g Gain) Apply(c audio.Clip) (audio.Clip, error) {
	if g.Factor < 0 {
		return audio.Clip{}, ErrUnavailable
	}
	if g.Factor == 1 {
		return c, nil
	}
	out := make([]float64, len(c.Samples))
	for i, s := range c.Samples {
		out[i] = s * g.Factor
	}
	return audio.Clip{Samples: out, SampleRate: c.SampleRate}, nil
}
