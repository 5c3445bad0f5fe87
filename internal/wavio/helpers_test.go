package wavio

import (
	"os"
	"testing"

	gaudio "github.com/go-audio/audio"
	"github.com/go-audio/wav"
)

func createFile(t *testing.T, path string) *os.File {
	t.Helper()
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("create %s: %v", path, err)
	}
	return f
}

func openDecoder(t *testing.T, path string) (*os.File, *wav.Decoder) {
	t.Helper()
	f, err := os.Open(path)
	if err != nil {
		t.Fatalf("open %s: %v", path, err)
	}
	return f, wav.NewDecoder(f)
}

// stereoBuffer interleaves the given samples as L,R pairs.
func stereoBuffer(sampleRate int, data []int) *gaudio.IntBuffer {
	return &gaudio.IntBuffer{
		Format:         &gaudio.Format{NumChannels: 2, SampleRate: sampleRate},
		Data:           data,
		SourceBitDepth: 16,
	}
}
