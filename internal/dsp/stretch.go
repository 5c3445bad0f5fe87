package dsp

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/dsp/window"

	"github.com/emovox/emovox/pkg/audio"
)

// olaWindowSize is the grain size for the overlap-add engine. Grains overlap
// by 75% (synthesis hop = window/4).
const olaWindowSize = 1024

// TimeStretch changes playback speed without changing pitch using a windowed
// overlap-add engine. Rate > 1 speeds up (shorter output), rate < 1 slows
// down. The sample rate is preserved.
//
// The stretch is applied only when the clip is longer than one second at its
// sample rate and the rate deviates from 1.0 by more than epsilon; otherwise
// the clip passes through unchanged. Non-positive rates always pass through.
type TimeStretch struct {
	Rate float64
}

// stretchEpsilon is the minimum deviation from 1.0 for a stretch to engage.
const stretchEpsilon = 0.01

func (s TimeStretch) Name() string { return "time_stretch" }

func (s TimeStretch) Apply(c audio.Clip) (audio.Clip, error) {
	if s.Rate <= 0 || math.Abs(s.Rate-1.0) <= stretchEpsilon {
		return c, nil
	}
	if len(c.Samples) <= c.SampleRate {
		// Shorter than one second: leave untouched.
		return c, nil
	}
	out, err := overlapAdd(c.Samples, s.Rate)
	if err != nil {
		return audio.Clip{}, err
	}
	return audio.Clip{Samples: out, SampleRate: c.SampleRate}, nil
}

// overlapAdd time-stretches samples by rate using Hann-windowed grains with a
// fixed synthesis hop and a rate-scaled analysis hop. The accumulated window
// energy is tracked so overlapping grains are renormalised.
func overlapAdd(in []float64, rate float64) ([]float64, error) {
	winSize := olaWindowSize
	if winSize > len(in) {
		winSize = len(in)
	}
	if winSize < 32 {
		return nil, fmt.Errorf("%w: %d samples", ErrUnavailable, len(in))
	}

	env := hann(winSize)
	synHop := winSize / 4
	anaHop := float64(synHop) * rate

	outLen := int(float64(len(in)) / rate)
	if outLen < 1 {
		outLen = 1
	}
	acc := make([]float64, outLen+winSize)
	norm := make([]float64, outLen+winSize)

	for frame := 0; ; frame++ {
		outPos := frame * synHop
		inPos := int(float64(frame) * anaHop)
		if inPos+winSize > len(in) || outPos+winSize > len(acc) {
			break
		}
		for i := range winSize {
			w := env[i]
			acc[outPos+i] += in[inPos+i] * w
			norm[outPos+i] += w
		}
	}

	out := acc[:outLen]
	for i := range out {
		if norm[i] > 1e-6 {
			out[i] /= norm[i]
		}
	}
	return out, nil
}

// hann returns the Hann window envelope of length n.
func hann(n int) []float64 {
	env := make([]float64, n)
	for i := range env {
		env[i] = 1
	}
	return window.Hann(env)
}
