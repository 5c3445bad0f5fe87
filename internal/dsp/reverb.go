package dsp

import "github.com/emovox/emovox/pkg/audio"

// combDelaysMs are the parallel feedback-comb delay lines (Schroeder
// arrangement, mutually prime delay times to avoid metallic ringing).
var combDelaysMs = [4]float64{29.7, 37.1, 41.1, 43.7}

// combFeedback is the per-comb feedback coefficient controlling decay time.
const combFeedback = 0.72

// Reverb mixes the dry signal with a parallel feedback-comb wet path.
// Amount is the dry/wet balance in [0, 1]; 0 is a no-op. The output length
// equals the input length: the tail decays inside the clip rather than
// extending it, so only time-stretch ever changes duration.
type Reverb struct {
	Amount float64
}

func (r Reverb) Name() string { return "reverb" }

func (r Reverb) Apply(c audio.Clip) (audio.Clip, error) {
	if r.Amount <= 0 {
		return c, nil
	}
	amount := r.Amount
	if amount > 1 {
		amount = 1
	}

	wet := make([]float64, len(c.Samples))
	for _, delayMs := range combDelaysMs {
		delay := int(delayMs / 1000 * float64(c.SampleRate))
		if delay < 1 || delay >= len(c.Samples) {
			continue
		}
		line := make([]float64, len(c.Samples))
		for i, s := range c.Samples {
			v := s
			if i >= delay {
				v += line[i-delay] * combFeedback
			}
			line[i] = v
		}
		for i := range wet {
			wet[i] += line[i]
		}
	}
	for i := range wet {
		wet[i] /= float64(len(combDelaysMs))
	}

	out := make([]float64, len(c.Samples))
	for i, s := range c.Samples {
		out[i] = s*(1-amount) + wet[i]*amount
	}
	return audio.Clip{Samples: out, SampleRate: c.SampleRate}, nil
}
