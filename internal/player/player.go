// Package player plays generated WAV files through the default audio output
// device via PortAudio.
package player

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/gordonklaus/portaudio"

	"github.com/emovox/emovox/internal/wavio"
	"github.com/emovox/emovox/pkg/audio"
)

// ErrBusy is returned by Play calls while another playback is running.
var ErrBusy = errors.New("player: already playing")

const bufferFrames = 1024

// Player streams mono audio to the default output device. It is safe for
// concurrent use; only one playback runs at a time.
type Player struct {
	mu      sync.Mutex
	playing bool
}

// New returns a ready [Player].
func New() *Player {
	return &Player{}
}

// PlayFile decodes the WAV file at path and plays it. Blocks until playback
// finishes or ctx is cancelled.
func (p *Player) PlayFile(ctx context.Context, path string) error {
	clip, err := wavio.ReadFile(path)
	if err != nil {
		return fmt.Errorf("player: %w", err)
	}
	return p.Play(ctx, clip)
}

// Play streams the clip to the default output device.
func (p *Player) Play(ctx context.Context, clip audio.Clip) error {
	if len(clip.Samples) == 0 {
		return nil
	}

	p.mu.Lock()
	if p.playing {
		p.mu.Unlock()
		return ErrBusy
	}
	p.playing = true
	p.mu.Unlock()
	defer func() {
		p.mu.Lock()
		p.playing = false
		p.mu.Unlock()
	}()

	if err := portaudio.Initialize(); err != nil {
		return fmt.Errorf("player: initialize: %w", err)
	}
	defer portaudio.Terminate()

	buf := make([]float32, bufferFrames)
	stream, err := portaudio.OpenDefaultStream(0, 1, float64(clip.SampleRate), bufferFrames, &buf)
	if err != nil {
		return fmt.Errorf("player: open stream: %w", err)
	}
	defer stream.Close()

	if err := stream.Start(); err != nil {
		return fmt.Errorf("player: start stream: %w", err)
	}
	defer stream.Stop()

	samples := audio.Clamp(clip.Clone()).Samples
	for pos := 0; pos < len(samples); pos += bufferFrames {
		if err := ctx.Err(); err != nil {
			return err
		}
		for i := range buf {
			if pos+i < len(samples) {
				buf[i] = float32(samples[pos+i])
			} else {
				buf[i] = 0
			}
		}
		if err := stream.Write(); err != nil {
			return fmt.Errorf("player: write: %w", err)
		}
	}
	return nil
}

// IsPlaying reports whether a playback is currently running.
func (p *Player) IsPlaying() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.playing
}
