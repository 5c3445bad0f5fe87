// Package audio provides the sample-domain primitives shared by the synthesis
// pipeline: the Clip buffer type, PCM16 conversion, multi-channel mixdown and
// hard clipping.
//
// A Clip always carries mono samples in [-1, 1]. Conversions from interleaved
// multi-channel PCM average the channels before any further processing.
package audio

import (
	"encoding/binary"
	"math"
	"time"
)

// Clip is a mono waveform buffer paired with its sample rate.
//
// Samples are float64 in [-1, 1]. The effect chain mutates clips freely; the
// sample rate is established by the synthesis backend and never changed by
// post-processing.
type Clip struct {
	Samples    []float64
	SampleRate int
}

// Duration returns the playback length of the clip.
func (c Clip) Duration() time.Duration {
	if c.SampleRate <= 0 {
		return 0
	}
	return time.Duration(float64(len(c.Samples)) / float64(c.SampleRate) * float64(time.Second))
}

// Clone returns a deep copy of the clip.
func (c Clip) Clone() Clip {
	out := Clip{
		Samples:    make([]float64, len(c.Samples)),
		SampleRate: c.SampleRate,
	}
	copy(out.Samples, c.Samples)
	return out
}

// FromPCM16 decodes little-endian int16 PCM into a mono Clip. Interleaved
// multi-channel input is averaged to mono frame by frame. A trailing odd byte
// is ignored.
func FromPCM16(pcm []byte, sampleRate, channels int) Clip {
	if channels < 1 {
		channels = 1
	}
	frameBytes := channels * 2
	frames := len(pcm) / frameBytes

	samples := make([]float64, frames)
	for i := range frames {
		var sum float64
		base := i * frameBytes
		for ch := range channels {
			s := int16(binary.LittleEndian.Uint16(pcm[base+ch*2 : base+ch*2+2]))
			sum += float64(s) / 32768.0
		}
		samples[i] = sum / float64(channels)
	}
	return Clip{Samples: samples, SampleRate: sampleRate}
}

// ToPCM16 encodes the clip as little-endian mono int16 PCM. Samples are hard
// clipped to [-1, 1] before quantisation so the output can never wrap.
func ToPCM16(c Clip) []byte {
	out := make([]byte, len(c.Samples)*2)
	for i, s := range c.Samples {
		v := int16(math.Round(clampSample(s) * 32767.0))
		binary.LittleEndian.PutUint16(out[i*2:], uint16(v))
	}
	return out
}

// MixdownMono averages interleaved multi-channel float samples to mono.
// If channels <= 1 the input is returned unchanged.
func MixdownMono(samples []float64, channels int) []float64 {
	if channels <= 1 {
		return samples
	}
	frames := len(samples) / channels
	out := make([]float64, frames)
	for i := range frames {
		var sum float64
		for ch := range channels {
			sum += samples[i*channels+ch]
		}
		out[i] = sum / float64(channels)
	}
	return out
}

// Clamp hard clips every sample to [-1, 1] in place and replaces non-finite
// values with 0. It returns the clip for chaining.
func Clamp(c Clip) Clip {
	for i, s := range c.Samples {
		c.Samples[i] = clampSample(s)
	}
	return c
}

// Peak returns the largest absolute sample value in the clip.
func Peak(c Clip) float64 {
	var peak float64
	for _, s := range c.Samples {
		if a := math.Abs(s); a > peak {
			peak = a
		}
	}
	return peak
}

func clampSample(s float64) float64 {
	switch {
	case math.IsNaN(s), math.IsInf(s, 0):
		return 0
	case s > 1:
		return 1
	case s < -1:
		return -1
	}
	return s
}
