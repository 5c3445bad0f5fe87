// Package wavio reads and writes RIFF/WAVE files for the synthesis pipeline.
// Decoding accepts whatever the TTS backend produced (any channel count and
// bit depth) and reduces it to a mono Clip; encoding always emits 16-bit PCM
// mono at the clip's sample rate.
package wavio

import (
	"bytes"
	"fmt"
	"os"

	gaudio "github.com/go-audio/audio"
	"github.com/go-audio/wav"

	"github.com/emovox/emovox/pkg/audio"
)

// Decode parses WAV bytes into a mono clip. Multi-channel audio is averaged
// to mono; integer samples are scaled to [-1, 1] by their bit depth.
func Decode(data []byte) (audio.Clip, error) {
	dec := wav.NewDecoder(bytes.NewReader(data))
	buf, err := dec.FullPCMBuffer()
	if err != nil {
		return audio.Clip{}, fmt.Errorf("wavio: decode: %w", err)
	}
	if buf == nil || buf.Format == nil || len(buf.Data) == 0 {
		return audio.Clip{}, fmt.Errorf("wavio: decode: empty PCM payload")
	}

	bitDepth := int(dec.BitDepth)
	if bitDepth == 0 {
		bitDepth = 16
	}
	scale := float64(int64(1) << (bitDepth - 1))

	samples := make([]float64, len(buf.Data))
	for i, v := range buf.Data {
		samples[i] = float64(v) / scale
	}
	samples = audio.MixdownMono(samples, buf.Format.NumChannels)

	return audio.Clip{Samples: samples, SampleRate: buf.Format.SampleRate}, nil
}

// ReadFile loads and decodes the WAV file at path.
func ReadFile(path string) (audio.Clip, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return audio.Clip{}, fmt.Errorf("wavio: read %q: %w", path, err)
	}
	return Decode(data)
}

// WriteFile writes the clip to path as mono 16-bit PCM WAV.
func WriteFile(path string, c audio.Clip) error {
	if c.SampleRate <= 0 {
		return fmt.Errorf("wavio: write %q: invalid sample rate %d", path, c.SampleRate)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("wavio: create %q: %w", path, err)
	}
	defer f.Close()

	enc := wav.NewEncoder(f, c.SampleRate, 16, 1, 1)

	data := make([]int, len(c.Samples))
	pcm := audio.ToPCM16(c)
	for i := range data {
		data[i] = int(int16(uint16(pcm[i*2]) | uint16(pcm[i*2+1])<<8))
	}
	buf := &gaudio.IntBuffer{
		Format:         &gaudio.Format{NumChannels: 1, SampleRate: c.SampleRate},
		Data:           data,
		SourceBitDepth: 16,
	}
	if err := enc.Write(buf); err != nil {
		return fmt.Errorf("wavio: write %q: %w", path, err)
	}
	if err := enc.Close(); err != nil {
		return fmt.Errorf("wavio: finalise %q: %w", path, err)
	}
	return nil
}
