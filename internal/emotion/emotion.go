// Package emotion maps discrete emotion labels to the ordered DSP operations
// that color a synthesised voice: a pitch offset in semitones, a guarded
// time-stretch rate and a linear gain.
//
// The table is fixed at process start. Lookup is case-insensitive and
// unknown labels resolve to the neutral identity profile.
package emotion

import (
	"strings"

	"github.com/emovox/emovox/internal/dsp"
)

// Profile is the immutable effect triple for one emotion label.
//
// Rate is the time-stretch multiplier before the global speed factor is
// applied; zero means the emotion defines no stretch (whisper, neutral).
// Gain is the linear volume multiplier.
type Profile struct {
	Label          string
	PitchSemitones float64
	Rate           float64
	Gain           float64
}

// Neutral is the identity profile used for unknown labels.
var Neutral = Profile{Label: "neutral", Gain: 1}

// profiles holds the supported emotion table, keyed by lower-case label.
var profiles = map[string]Profile{
	"sad":     {Label: "sad", PitchSemitones: -3, Rate: 0.7, Gain: 0.8},
	"happy":   {Label: "happy", PitchSemitones: 2, Rate: 1.2, Gain: 1.1},
	"angry":   {Label: "angry", PitchSemitones: -2, Rate: 1.1, Gain: 1.2},
	"calm":    {Label: "calm", PitchSemitones: -1, Rate: 0.8, Gain: 0.9},
	"excited": {Label: "excited", PitchSemitones: 3, Rate: 1.3, Gain: 1.15},
	"whisper": {Label: "whisper", PitchSemitones: -1, Rate: 0, Gain: 0.5},
	"neutral": Neutral,
}

// Labels lists the supported emotion labels in menu order.
func Labels() []string {
	return []string{"sad", "happy", "angry", "calm", "excited", "whisper", "neutral"}
}

// Lookup returns the profile for label, matching case-insensitively.
// Unknown labels return the neutral profile; ok reports whether the label
// was recognised.
func Lookup(label string) (p Profile, ok bool) {
	p, ok = profiles[strings.ToLower(strings.TrimSpace(label))]
	if !ok {
		return Neutral, false
	}
	return p, true
}

// childPitchSemitones and childRate approximate a child voice on top of a
// generic adult model: raise the pitch and speak slightly faster.
const (
	childPitchSemitones = 4
	childRate           = 1.05
)

// Controls carries the continuous knobs that compose with an emotion profile.
//
// Composition rules: PitchOffset adds to the profile's semitones;
// Energy multiplies the profile's gain (zero means unset and is treated as
// 1); GlobalSpeed multiplies the profile's stretch rate where the profile
// defines one. Tremolo, reverb and brightness are independent stages that
// engage only when their parameters are non-default. ChildVoice adds the
// child approximation on top of whatever the profile prescribes.
type Controls struct {
	GlobalSpeed  float64
	PitchOffset  float64
	Energy       float64
	TremoloRate  float64
	TremoloDepth float64
	ReverbAmount float64
	Brightness   float64
	ChildVoice   bool
}

// Chain builds the ordered stage list for label under the given controls:
// pitch shift, guarded time stretch, gain, then the auxiliary modulation
// stages. Stages that would be identity operations are omitted.
func Chain(label string, ctl Controls) []dsp.Stage {
	profile, _ := Lookup(label)

	speed := ctl.GlobalSpeed
	if speed <= 0 {
		speed = 1
	}
	energy := ctl.Energy
	if energy <= 0 {
		energy = 1
	}

	pitch := profile.PitchSemitones + ctl.PitchOffset
	rate := 1.0
	hasRate := false
	if profile.Rate > 0 {
		rate = profile.Rate * speed
		hasRate = true
	}
	if ctl.ChildVoice {
		pitch += childPitchSemitones
		rate *= childRate
		hasRate = true
	}
	gain := profile.Gain
	if gain <= 0 {
		gain = 1
	}
	gain *= energy

	var stages []dsp.Stage
	if pitch != 0 {
		stages = append(stages, dsp.PitchShift{Semitones: pitch})
	}
	if hasRate {
		stages = append(stages, dsp.TimeStretch{Rate: rate})
	}
	if gain != 1 {
		stages = append(stages, dsp.Gain{Factor: gain})
	}
	if ctl.TremoloDepth > 0 {
		stages = append(stages, dsp.Tremolo{RateHz: ctl.TremoloRate, Depth: ctl.TremoloDepth})
	}
	if ctl.ReverbAmount > 0 {
		stages = append(stages, dsp.Reverb{Amount: ctl.ReverbAmount})
	}
	if ctl.Brightness != 0 {
		stages = append(stages, dsp.Brightness{Tilt: ctl.Brightness})
	}
	return stages
}
