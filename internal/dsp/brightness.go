package dsp

import (
	"math"

	"gonum.org/v1/gonum/dsp/fourier"

	"github.com/emovox/emovox/pkg/audio"
)

// tiltPivotHz is the frequency left unchanged by the tilt. Energy above the
// pivot is boosted (positive tilt) or cut (negative tilt), and vice versa
// below it.
const tiltPivotHz = 1000.0

// tiltMaxGainDB bounds the tilt gain at the spectrum edges.
const tiltMaxGainDB = 9.0

// Brightness applies a spectral tilt around 1 kHz: positive values brighten
// the voice by emphasising high frequencies, negative values darken it.
// Tilt is the slope control in [-1, 1]; 0 is a no-op.
//
// The clip is transformed with a real FFT (zero-padded to a power of two),
// the magnitude spectrum is scaled by a log-frequency ramp capped at ±9 dB,
// and the result is transformed back and truncated to the original length.
type Brightness struct {
	Tilt float64
}

func (b Brightness) Name() string { return "brightness" }

func (b Brightness) Apply(c audio.Clip) (audio.Clip, error) {
	if b.Tilt == 0 || len(c.Samples) == 0 {
		return c, nil
	}
	tilt := math.Max(-1, math.Min(1, b.Tilt))

	n := nextPow2(len(c.Samples))
	padded := make([]float64, n)
	copy(padded, c.Samples)

	fft := fourier.NewFFT(n)
	coeffs := fft.Coefficients(nil, padded)

	nyquist := float64(c.SampleRate) / 2
	for i := 1; i < len(coeffs); i++ {
		freq := float64(i) / float64(len(coeffs)-1) * nyquist
		if freq <= 0 {
			continue
		}
		octaves := math.Log2(freq / tiltPivotHz)
		gainDB := tilt * tiltMaxGainDB / 3 * octaves
		if gainDB > tiltMaxGainDB {
			gainDB = tiltMaxGainDB
		} else if gainDB < -tiltMaxGainDB {
			gainDB = -tiltMaxGainDB
		}
		coeffs[i] *= complex(math.Pow(10, gainDB/20), 0)
	}

	seq := fft.Sequence(nil, coeffs)
	out := make([]float64, len(c.Samples))
	scale := 1 / float64(n)
	for i := range out {
		out[i] = seq[i] * scale
	}
	return audio.Clip{Samples: out, SampleRate: c.SampleRate}, nil
}

func nextPow2(n int) int {
	p := 1
	for p < n {
		p <<= 1
	}
	return p
}
