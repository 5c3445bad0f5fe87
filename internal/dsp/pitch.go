package dsp

import (
	"fmt"
	"math"

	"github.com/emovox/emovox/pkg/audio"
)

// PitchShift shifts pitch by a number of semitones (positive = up) while
// preserving duration. Internally the clip is time-stretched by the inverse
// pitch factor and then resampled back to its original length, which raises
// or lowers the pitch without changing speed or sample rate.
type PitchShift struct {
	Semitones float64
}

func (p PitchShift) Name() string { return "pitch_shift" }

func (p PitchShift) Apply(c audio.Clip) (audio.Clip, error) {
	if p.Semitones == 0 {
		return c, nil
	}
	factor := math.Pow(2, p.Semitones/12.0)

	// Stretch so that reading the result back at `factor` speed restores the
	// original duration with shifted pitch.
	stretched, err := overlapAdd(c.Samples, 1/factor)
	if err != nil {
		return audio.Clip{}, fmt.Errorf("pitch shift %+.1f st: %w", p.Semitones, err)
	}

	out := resampleLinear(stretched, factor, len(c.Samples))
	return audio.Clip{Samples: out, SampleRate: c.SampleRate}, nil
}

// resampleLinear reads in at the given step using linear interpolation and
// produces exactly outLen samples. Reads past the end repeat the last sample.
func resampleLinear(in []float64, step float64, outLen int) []float64 {
	out := make([]float64, outLen)
	if len(in) == 0 {
		return out
	}
	for i := range out {
		pos := float64(i) * step
		idx := int(pos)
		if idx >= len(in)-1 {
			out[i] = in[len(in)-1]
			continue
		}
		frac := pos - float64(idx)
		out[i] = in[idx]*(1-frac) + in[idx+1]*frac
	}
	return out
}
