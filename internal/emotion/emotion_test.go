package emotion

import (
	"testing"

	"github.com/emovox/emovox/internal/dsp"
)

func TestLookup_ExactTriples(t *testing.T) {
	tests := []struct {
		label string
		pitch float64
		rate  float64
		gain  float64
	}{
		{"sad", -3, 0.7, 0.8},
		{"happy", 2, 1.2, 1.1},
		{"angry", -2, 1.1, 1.2},
		{"calm", -1, 0.8, 0.9},
		{"excited", 3, 1.3, 1.15},
		{"whisper", -1, 0, 0.5},
		{"neutral", 0, 0, 1},
	}
	for _, tt := range tests {
		p, ok := Lookup(tt.label)
		if !ok {
			t.Fatalf("Lookup(%q) not recognised", tt.label)
		}
		if p.PitchSemitones != tt.pitch || p.Rate != tt.rate || p.Gain != tt.gain {
			t.Errorf("Lookup(%q) = {pitch %v, rate %v, gain %v}, want {%v, %v, %v}",
				tt.label, p.PitchSemitones, p.Rate, p.Gain, tt.pitch, tt.rate, tt.gain)
		}
	}
}

func TestLookup_CaseInsensitive(t *testing.T) {
	for _, label := range []string{"Happy", "HAPPY", "  happy ", "hApPy"} {
		p, ok := Lookup(label)
		if !ok || p.Label != "happy" {
			t.Errorf("Lookup(%q) = (%v, %v), want happy profile", label, p.Label, ok)
		}
	}
}

func TestLookup_UnknownFallsBackToNeutral(t *testing.T) {
	p, ok := Lookup("furious")
	if ok {
		t.Error("Lookup(furious) reported recognised")
	}
	if p != Neutral {
		t.Errorf("Lookup(furious) = %+v, want neutral identity", p)
	}
}

func TestChain_HappyDefaultControls(t *testing.T) {
	stages := Chain("happy", Controls{GlobalSpeed: 1})
	if len(stages) != 3 {
		t.Fatalf("len(stages) = %d, want 3 (pitch, stretch, gain)", len(stages))
	}
	ps, ok := stages[0].(dsp.PitchShift)
	if !ok || ps.Semitones != 2 {
		t.Errorf("stages[0] = %#v, want PitchShift{+2}", stages[0])
	}
	ts, ok := stages[1].(dsp.TimeStretch)
	if !ok || ts.Rate != 1.2 {
		t.Errorf("stages[1] = %#v, want TimeStretch{1.2}", stages[1])
	}
	g, ok := stages[2].(dsp.Gain)
	if !ok || g.Factor != 1.1 {
		t.Errorf("stages[2] = %#v, want Gain{1.1}", stages[2])
	}
}

func TestChain_WhisperHasNoStretch(t *testing.T) {
	stages := Chain("whisper", Controls{GlobalSpeed: 1})
	for _, st := range stages {
		if _, isStretch := st.(dsp.TimeStretch); isStretch {
			t.Fatal("whisper chain must not contain a time stretch")
		}
	}
	if len(stages) != 2 {
		t.Fatalf("len(stages) = %d, want 2 (pitch, gain)", len(stages))
	}
}

func TestChain_NeutralAndUnknownIdentity(t *testing.T) {
	for _, label := range []string{"neutral", "furious", ""} {
		if stages := Chain(label, Controls{GlobalSpeed: 1}); len(stages) != 0 {
			t.Errorf("Chain(%q) = %d stages, want 0", label, len(stages))
		}
	}
}

func TestChain_GlobalSpeedMultipliesRate(t *testing.T) {
	stages := Chain("sad", Controls{GlobalSpeed: 1.5})
	var found bool
	for _, st := range stages {
		if ts, ok := st.(dsp.TimeStretch); ok {
			found = true
			want := 0.7 * 1.5
			if ts.Rate < want-1e-9 || ts.Rate > want+1e-9 {
				t.Errorf("rate = %v, want %v", ts.Rate, want)
			}
		}
	}
	if !found {
		t.Fatal("sad chain missing time stretch")
	}
}

func TestChain_OverridesCompose(t *testing.T) {
	stages := Chain("happy", Controls{GlobalSpeed: 1, PitchOffset: -1, Energy: 2})

	ps := stages[0].(dsp.PitchShift)
	if ps.Semitones != 1 {
		t.Errorf("pitch = %v, want 1 (profile +2 plus offset -1)", ps.Semitones)
	}
	g := stages[2].(dsp.Gain)
	if g.Factor < 2.2-1e-9 || g.Factor > 2.2+1e-9 {
		t.Errorf("gain = %v, want 2.2 (profile 1.1 x energy 2)", g.Factor)
	}
}

func TestChain_ChildVoiceApproximation(t *testing.T) {
	stages := Chain("neutral", Controls{GlobalSpeed: 1, ChildVoice: true})
	if len(stages) != 2 {
		t.Fatalf("len(stages) = %d, want 2 (pitch, stretch)", len(stages))
	}
	ps := stages[0].(dsp.PitchShift)
	if ps.Semitones != childPitchSemitones {
		t.Errorf("pitch = %v, want %v", ps.Semitones, childPitchSemitones)
	}
	ts := stages[1].(dsp.TimeStretch)
	if ts.Rate != childRate {
		t.Errorf("rate = %v, want %v", ts.Rate, childRate)
	}
}

func TestChain_AuxiliaryStagesEngageOnDemand(t *testing.T) {
	stages := Chain("neutral", Controls{
		GlobalSpeed:  1,
		TremoloRate:  5,
		TremoloDepth: 0.4,
		ReverbAmount: 0.3,
		Brightness:   -0.5,
	})
	if len(stages) != 3 {
		t.Fatalf("len(stages) = %d, want 3", len(stages))
	}
	if _, ok := stages[0].(dsp.Tremolo); !ok {
		t.Errorf("stages[0] = %#v, want Tremolo", stages[0])
	}
	if _, ok := stages[1].(dsp.Reverb); !ok {
		t.Errorf("stages[1] = %#v, want Reverb", stages[1])
	}
	if _, ok := stages[2].(dsp.Brightness); !ok {
		t.Errorf("stages[2] = %#v, want Brightness", stages[2])
	}
}
