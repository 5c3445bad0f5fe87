package form

import (
	"github.com/emovox/emovox/internal/synth"
	"github.com/emovox/emovox/pkg/provider/tts"
)

// generationDoneMsg reports a finished (or failed) background generation.
type generationDoneMsg struct {
	res synth.Result
	err error
}

// voicesLoadedMsg carries the result of the asynchronous voice probe.
type voicesLoadedMsg struct {
	voices []tts.Voice
	err    error
}
