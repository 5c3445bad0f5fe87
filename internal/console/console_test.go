package console

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/emovox/emovox/internal/emotion"
	"github.com/emovox/emovox/internal/speakers"
	"github.com/emovox/emovox/internal/synth"
	"github.com/emovox/emovox/pkg/provider/tts"
)

// fakeGen records requests and replays canned results.
type fakeGen struct {
	calls []synth.Request
	res   synth.Result
	err   error
}

func (g *fakeGen) Generate(_ context.Context, req synth.Request) (synth.Result, error) {
	g.calls = append(g.calls, req)
	return g.res, g.err
}

func run(t *testing.T, input string, gen Generator) string {
	t.Helper()
	var out bytes.Buffer
	c := &Console{In: strings.NewReader(input), Out: &out, Gen: gen}
	if err := c.Run(context.Background()); err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	return out.String()
}

func testTable(t *testing.T) *speakers.Table {
	t.Helper()
	path := filepath.Join(t.TempDir(), "speaker_ids.txt")
	data := "id,gender\np225,female\np226,male\np227,male\n"
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}
	tbl, err := speakers.Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	return tbl
}

func TestRunGeneratesSelectedEmotion(t *testing.T) {
	gen := &fakeGen{res: synth.Result{Path: "my_happy_1700000000.wav", Duration: 1200 * time.Millisecond}}
	out := run(t, "2\nHello world\n\n0\n", gen)

	if len(gen.calls) != 1 {
		t.Fatalf("generations = %d, want 1", len(gen.calls))
	}
	// Menu order puts happy second.
	if gen.calls[0].Emotion != "happy" {
		t.Errorf("emotion = %q, want happy", gen.calls[0].Emotion)
	}
	if gen.calls[0].Text != "Hello world" {
		t.Errorf("text = %q, want Hello world", gen.calls[0].Text)
	}
	if gen.calls[0].Controls.GlobalSpeed != 1 {
		t.Errorf("default speed = %v, want 1", gen.calls[0].Controls.GlobalSpeed)
	}
	if !strings.Contains(out, "Saved my_happy_1700000000.wav") {
		t.Errorf("output missing saved line: %s", out)
	}
}

func TestRunMenuListsAllEmotions(t *testing.T) {
	out := run(t, "0\n", &fakeGen{})
	for _, label := range emotion.Labels() {
		if !strings.Contains(out, label) {
			t.Errorf("menu missing %q", label)
		}
	}
	if !strings.Contains(out, "0) quit") {
		t.Error("menu missing quit entry")
	}
}

func TestRunRejectsOutOfRangeChoice(t *testing.T) {
	gen := &fakeGen{}
	out := run(t, "99\n0\n", gen)
	if len(gen.calls) != 0 {
		t.Errorf("generations = %d, want 0", len(gen.calls))
	}
	if !strings.Contains(out, "Please enter a number") {
		t.Errorf("output missing guidance: %s", out)
	}
}

func TestRunAcceptsEmotionName(t *testing.T) {
	gen := &fakeGen{}
	run(t, "HAPPY\nHello\n\n0\n", gen)
	if len(gen.calls) != 1 {
		t.Fatalf("generations = %d, want 1", len(gen.calls))
	}
	if gen.calls[0].Emotion != "happy" {
		t.Errorf("emotion = %q, want happy", gen.calls[0].Emotion)
	}
}

func TestRunSuggestsMisspelledEmotion(t *testing.T) {
	gen := &fakeGen{}
	out := run(t, "hapy\nhello\n\n0\n", gen)
	if len(gen.calls) != 1 {
		t.Fatalf("generations = %d, want 1", len(gen.calls))
	}
	if gen.calls[0].Emotion != "neutral" {
		t.Errorf("emotion = %q, want neutral fallback", gen.calls[0].Emotion)
	}
	if !strings.Contains(out, "did you mean happy") {
		t.Errorf("output missing suggestion: %s", out)
	}
}

func TestRunUnknownEmotionFallsBackToNeutral(t *testing.T) {
	gen := &fakeGen{}
	out := run(t, "zzzzzz\nhello\n\n0\n", gen)
	if len(gen.calls) != 1 {
		t.Fatalf("generations = %d, want 1", len(gen.calls))
	}
	if gen.calls[0].Emotion != "neutral" {
		t.Errorf("emotion = %q, want neutral fallback", gen.calls[0].Emotion)
	}
	if strings.Contains(out, "did you mean") {
		t.Errorf("output suggests a label for gibberish: %s", out)
	}
}

func TestRunSkipsEmptyText(t *testing.T) {
	gen := &fakeGen{}
	out := run(t, "1\n   \n0\n", gen)
	if len(gen.calls) != 0 {
		t.Errorf("generations = %d, want 0", len(gen.calls))
	}
	if !strings.Contains(out, "Nothing to say") {
		t.Errorf("output missing empty-text notice: %s", out)
	}
}

func TestRunReadsSpeedMultiplier(t *testing.T) {
	gen := &fakeGen{}
	run(t, "1\nhello\n1.5\n0\n", gen)
	if len(gen.calls) != 1 {
		t.Fatalf("generations = %d, want 1", len(gen.calls))
	}
	if gen.calls[0].Controls.GlobalSpeed != 1.5 {
		t.Errorf("speed = %v, want 1.5", gen.calls[0].Controls.GlobalSpeed)
	}
}

func TestRunRejectsBadSpeed(t *testing.T) {
	gen := &fakeGen{}
	out := run(t, "1\nhello\nfast\n0\n", gen)
	if len(gen.calls) != 1 {
		t.Fatalf("generations = %d, want 1", len(gen.calls))
	}
	if gen.calls[0].Controls.GlobalSpeed != 1 {
		t.Errorf("speed = %v, want 1 after bad input", gen.calls[0].Controls.GlobalSpeed)
	}
	if !strings.Contains(out, "staying at 1.0") {
		t.Errorf("output missing speed notice: %s", out)
	}
}

func TestRunSpeakerMenu(t *testing.T) {
	gen := &fakeGen{}
	var out bytes.Buffer
	c := &Console{
		// No gender filter, pick the second speaker, default speed.
		In: strings.NewReader("1\nhello\n\n2\n\n0\n"), Out: &out, Gen: gen,
		Speakers: testTable(t),
	}
	if err := c.Run(context.Background()); err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if len(gen.calls) != 1 {
		t.Fatalf("generations = %d, want 1", len(gen.calls))
	}
	if gen.calls[0].Speaker != "P226" {
		t.Errorf("speaker = %q, want P226", gen.calls[0].Speaker)
	}
	if !strings.Contains(out.String(), "P225 (female)") {
		t.Errorf("menu missing speaker entry: %s", out.String())
	}
}

func TestRunSpeakerMenuGenderFilter(t *testing.T) {
	gen := &fakeGen{}
	var out bytes.Buffer
	c := &Console{
		// Filter to male speakers, pick the first one.
		In: strings.NewReader("1\nhello\nmale\n1\n\n0\n"), Out: &out, Gen: gen,
		Speakers: testTable(t),
	}
	if err := c.Run(context.Background()); err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if len(gen.calls) != 1 {
		t.Fatalf("generations = %d, want 1", len(gen.calls))
	}
	if gen.calls[0].Speaker != "P226" {
		t.Errorf("speaker = %q, want P226", gen.calls[0].Speaker)
	}
	if strings.Contains(out.String(), "P225 (female)") {
		t.Errorf("filtered menu still lists female speaker: %s", out.String())
	}
}

func TestRunSpeakerMenuFromBackendListing(t *testing.T) {
	gen := &fakeGen{}
	var out bytes.Buffer
	c := &Console{
		// No table means no gender prompt; pick the second listed voice.
		In: strings.NewReader("1\nhello\n2\n\n0\n"), Out: &out, Gen: gen,
		Voices: func(context.Context) ([]tts.Voice, error) {
			return []tts.Voice{{ID: "P300"}, {ID: "P301"}}, nil
		},
	}
	if err := c.Run(context.Background()); err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if len(gen.calls) != 1 {
		t.Fatalf("generations = %d, want 1", len(gen.calls))
	}
	if gen.calls[0].Speaker != "P301" {
		t.Errorf("speaker = %q, want P301", gen.calls[0].Speaker)
	}
	if !strings.Contains(out.String(), "P300 (unknown)") {
		t.Errorf("menu missing backend voice: %s", out.String())
	}
}

func TestRunSpeakerMenuAnnotatesBackendVoices(t *testing.T) {
	gen := &fakeGen{}
	var out bytes.Buffer
	c := &Console{
		// Table genders annotate the backend listing; empty filter, pick 1.
		In: strings.NewReader("1\nhello\n\n1\n\n0\n"), Out: &out, Gen: gen,
		Voices: func(context.Context) ([]tts.Voice, error) {
			return []tts.Voice{{ID: "p225"}, {ID: "p999"}}, nil
		},
		Speakers: testTable(t),
	}
	if err := c.Run(context.Background()); err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if len(gen.calls) != 1 {
		t.Fatalf("generations = %d, want 1", len(gen.calls))
	}
	if gen.calls[0].Speaker != "p225" {
		t.Errorf("speaker = %q, want p225", gen.calls[0].Speaker)
	}
	if !strings.Contains(out.String(), "p225 (female)") {
		t.Errorf("menu missing gender annotation: %s", out.String())
	}
	if !strings.Contains(out.String(), "p999 (unknown)") {
		t.Errorf("menu missing unknown-gender voice: %s", out.String())
	}
}

func TestRunSpeakerMenuFallsBackToTable(t *testing.T) {
	gen := &fakeGen{}
	var out bytes.Buffer
	c := &Console{
		// Listing fails; the table backs the menu. Empty filter, pick 1.
		In: strings.NewReader("1\nhello\n\n1\n\n0\n"), Out: &out, Gen: gen,
		Voices: func(context.Context) ([]tts.Voice, error) {
			return nil, errors.New("backend down")
		},
		Speakers: testTable(t),
	}
	if err := c.Run(context.Background()); err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if len(gen.calls) != 1 {
		t.Fatalf("generations = %d, want 1", len(gen.calls))
	}
	if gen.calls[0].Speaker != "P225" {
		t.Errorf("speaker = %q, want P225 from the table", gen.calls[0].Speaker)
	}
}

func TestRunSpeakerMenuDefault(t *testing.T) {
	gen := &fakeGen{}
	var out bytes.Buffer
	c := &Console{
		// Choose entry 0 to keep the model default speaker.
		In: strings.NewReader("1\nhello\n\n0\n\n0\n"), Out: &out, Gen: gen,
		Speakers: testTable(t),
	}
	if err := c.Run(context.Background()); err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if len(gen.calls) != 1 {
		t.Fatalf("generations = %d, want 1", len(gen.calls))
	}
	if gen.calls[0].Speaker != "" {
		t.Errorf("speaker = %q, want empty (model default)", gen.calls[0].Speaker)
	}
}

func TestRunReportsGenerationFailure(t *testing.T) {
	gen := &fakeGen{err: errors.New("backend down")}
	out := run(t, "1\nhello\n\n0\n", gen)
	if !strings.Contains(out, "Generation failed") || !strings.Contains(out, "backend down") {
		t.Errorf("output missing failure notice: %s", out)
	}
}

func TestRunNotesFallback(t *testing.T) {
	gen := &fakeGen{res: synth.Result{Path: "x.wav", Model: "backup", FellBack: true}}
	out := run(t, "1\nhello\n\n0\n", gen)
	if !strings.Contains(out, "fallback model backup") {
		t.Errorf("output missing fallback notice: %s", out)
	}
}

func TestRunPassesSpeakerAndChildVoice(t *testing.T) {
	gen := &fakeGen{}
	var out bytes.Buffer
	c := &Console{
		In: strings.NewReader("1\nhi\n\nq\n"), Out: &out, Gen: gen,
		Speaker: "p225", ChildVoice: true,
	}
	if err := c.Run(context.Background()); err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if len(gen.calls) != 1 {
		t.Fatalf("generations = %d, want 1", len(gen.calls))
	}
	if gen.calls[0].Speaker != "p225" {
		t.Errorf("speaker = %q, want p225", gen.calls[0].Speaker)
	}
	if !gen.calls[0].Controls.ChildVoice {
		t.Error("child voice not passed through")
	}
}

func TestRunEndsOnEOF(t *testing.T) {
	var out bytes.Buffer
	c := &Console{In: strings.NewReader("1\n"), Out: &out, Gen: &fakeGen{}}
	if err := c.Run(context.Background()); err != nil {
		t.Fatalf("Run() on EOF error = %v", err)
	}
}
