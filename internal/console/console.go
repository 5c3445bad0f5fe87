// Package console implements the interactive text console: numbered menus
// for emotion and speaker selection, free-text prompts for the text, an
// optional gender filter, a speed multiplier, and generation with
// timestamped output names.
package console

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/antzucaro/matchr"

	"github.com/emovox/emovox/internal/emotion"
	"github.com/emovox/emovox/internal/speakers"
	"github.com/emovox/emovox/internal/synth"
	"github.com/emovox/emovox/pkg/provider/tts"
)

// emotionSuggestThreshold is the minimum Jaro-Winkler similarity for a typed
// emotion to count as a plausible typo of a known label.
const emotionSuggestThreshold = 0.84

// Generator produces speech files from requests. *synth.Synthesizer
// satisfies it.
type Generator interface {
	Generate(ctx context.Context, req synth.Request) (synth.Result, error)
}

// Console runs the interactive loop against In/Out. Both are injected so
// tests can drive the session.
type Console struct {
	In  io.Reader
	Out io.Writer
	Gen Generator

	// Voices lists the active model's speakers. When set, the speaker menu
	// is built from the backend's own listing annotated with table genders;
	// the table alone backs the menu when the listing fails.
	Voices func(ctx context.Context) ([]tts.Voice, error)

	// Speakers is the optional gender table annotating the speaker menu and
	// backing it when no voice listing is available.
	Speakers *speakers.Table

	// Speaker pins the backend speaker ID for every generation, skipping the
	// speaker menu. Empty uses the menu (or the model default).
	Speaker string

	// ChildVoice engages the child voice for every generation.
	ChildVoice bool
}

// Run executes the menu loop until the user quits or In is exhausted.
// Generation errors are reported to the user and the loop continues; only
// I/O failures and context cancellation end the session with an error.
func (c *Console) Run(ctx context.Context) error {
	sc := bufio.NewScanner(c.In)
	labels := emotion.Labels()

	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		fmt.Fprintln(c.Out)
		fmt.Fprintln(c.Out, "Pick an emotion (number or name):")
		for i, label := range labels {
			fmt.Fprintf(c.Out, "  %d) %s\n", i+1, label)
		}
		fmt.Fprintln(c.Out, "  0) quit")
		fmt.Fprint(c.Out, "> ")

		choice, ok := readLine(sc)
		if !ok {
			return sc.Err()
		}
		if choice == "0" || strings.EqualFold(choice, "q") || strings.EqualFold(choice, "quit") {
			fmt.Fprintln(c.Out, "Bye.")
			return nil
		}
		label, ok := c.resolveEmotion(choice, labels)
		if !ok {
			continue
		}

		fmt.Fprint(c.Out, "Text to speak: ")
		text, ok := readLine(sc)
		if !ok {
			return sc.Err()
		}
		if strings.TrimSpace(text) == "" {
			fmt.Fprintln(c.Out, "Nothing to say, back to the menu.")
			continue
		}

		speaker, ok := c.pickSpeaker(ctx, sc)
		if !ok {
			return sc.Err()
		}

		speed, ok := c.readSpeed(sc)
		if !ok {
			return sc.Err()
		}

		res, err := c.Gen.Generate(ctx, synth.Request{
			Text:    text,
			Emotion: label,
			Speaker: speaker,
			Controls: emotion.Controls{
				GlobalSpeed: speed,
				ChildVoice:  c.ChildVoice,
			},
		})
		if err != nil {
			fmt.Fprintf(c.Out, "Generation failed: %v\n", err)
			continue
		}
		if res.FellBack {
			fmt.Fprintf(c.Out, "Note: used fallback model %s.\n", res.Model)
		}
		fmt.Fprintf(c.Out, "Saved %s (%s of audio)\n", res.Path, res.Duration.Round(10*time.Millisecond))
	}
}

// resolveEmotion maps a menu choice to an emotion label. It accepts either
// the menu number or the label itself, case-insensitively; an unrecognised
// name gets a "did you mean" hint against the closest label and falls back
// to neutral. Only an out-of-range number sends the user back to the menu.
func (c *Console) resolveEmotion(choice string, labels []string) (string, bool) {
	if n, err := strconv.Atoi(choice); err == nil {
		if n < 1 || n > len(labels) {
			fmt.Fprintf(c.Out, "Please enter a number between 0 and %d or an emotion name.\n", len(labels))
			return "", false
		}
		return labels[n-1], true
	}

	name := strings.ToLower(choice)
	best := ""
	bestScore := 0.0
	for _, label := range labels {
		if label == name {
			return label, true
		}
		if score := matchr.JaroWinkler(name, label, true); score > bestScore {
			best, bestScore = label, score
		}
	}
	if bestScore >= emotionSuggestThreshold {
		fmt.Fprintf(c.Out, "Unknown emotion %q — did you mean %s? Using neutral.\n", choice, best)
	} else {
		fmt.Fprintf(c.Out, "Unknown emotion %q, using neutral.\n", choice)
	}
	return emotion.Neutral.Label, true
}

// pickSpeaker runs the optional gender filter and numbered speaker menu.
// Returns the pinned speaker, the chosen ID, or "" for the model default.
func (c *Console) pickSpeaker(ctx context.Context, sc *bufio.Scanner) (string, bool) {
	if c.Speaker != "" {
		return c.Speaker, true
	}
	ids := c.speakerIDs(ctx)
	if len(ids) == 0 {
		return "", true
	}

	// A gender filter only makes sense with a table to consult.
	if c.Speakers != nil && c.Speakers.Len() > 0 {
		fmt.Fprint(c.Out, "Gender filter (empty for all): ")
		gender, ok := readLine(sc)
		if !ok {
			return "", false
		}
		if gender = strings.ToLower(gender); gender != "" {
			var filtered []string
			for _, id := range ids {
				if c.Speakers.Gender(id) == gender {
					filtered = append(filtered, id)
				}
			}
			if len(filtered) == 0 {
				fmt.Fprintln(c.Out, "No speakers match, using the model default.")
				return "", true
			}
			ids = filtered
		}
	}

	fmt.Fprintln(c.Out, "Pick a speaker:")
	for i, id := range ids {
		fmt.Fprintf(c.Out, "  %d) %s (%s)\n", i+1, id, c.gender(id))
	}
	fmt.Fprintln(c.Out, "  0) model default")
	fmt.Fprint(c.Out, "> ")

	choice, ok := readLine(sc)
	if !ok {
		return "", false
	}
	n, err := strconv.Atoi(choice)
	if err != nil || n < 0 || n > len(ids) {
		fmt.Fprintln(c.Out, "Unrecognised choice, using the model default.")
		return "", true
	}
	if n == 0 {
		return "", true
	}
	return ids[n-1], true
}

// speakerIDs sources the speaker menu: the backend's own listing when one is
// wired, the gender table otherwise.
func (c *Console) speakerIDs(ctx context.Context) []string {
	if c.Voices != nil {
		voices, err := c.Voices(ctx)
		if err == nil && len(voices) > 0 {
			ids := make([]string, 0, len(voices))
			for _, v := range voices {
				ids = append(ids, v.ID)
			}
			return ids
		}
	}
	if c.Speakers == nil {
		return nil
	}
	return c.Speakers.IDs()
}

func (c *Console) gender(id string) string {
	if c.Speakers == nil {
		return speakers.GenderUnknown
	}
	return c.Speakers.Gender(id)
}

// readSpeed prompts for the global speed multiplier. Empty or invalid input
// falls back to 1.
func (c *Console) readSpeed(sc *bufio.Scanner) (float64, bool) {
	fmt.Fprint(c.Out, "Speed multiplier [1.0]: ")
	raw, ok := readLine(sc)
	if !ok {
		return 0, false
	}
	if raw == "" {
		return 1, true
	}
	speed, err := strconv.ParseFloat(raw, 64)
	if err != nil || speed <= 0 {
		fmt.Fprintln(c.Out, "Not a usable speed, staying at 1.0.")
		return 1, true
	}
	return speed, true
}

// readLine reads one trimmed line; ok is false when input is exhausted.
func readLine(sc *bufio.Scanner) (string, bool) {
	if !sc.Scan() {
		return "", false
	}
	return strings.TrimSpace(sc.Text()), true
}
