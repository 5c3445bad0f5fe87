package cmd

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/emovox/emovox/internal/emotion"
	"github.com/emovox/emovox/internal/speakers"
	"github.com/emovox/emovox/internal/synth"
)

var (
	genEmotion    string
	genSpeaker    string
	genModel      string
	genOutput     string
	genChild      bool
	genSpeed      float64
	genPitch      float64
	genEnergy     float64
	genTremRate   float64
	genTremDepth  float64
	genReverb     float64
	genBrightness float64
)

var generateCmd = &cobra.Command{
	Use:     "generate [text]",
	Aliases: []string{"gen", "say"},
	Short:   "Generate one speech file from text",
	Args:    cobra.ExactArgs(1),
	RunE:    runGenerate,
}

func init() {
	rootCmd.AddCommand(generateCmd)

	generateCmd.Flags().StringVarP(&genEmotion, "emotion", "e", "neutral",
		"emotion profile (sad, happy, angry, calm, excited, whisper, neutral)")
	generateCmd.Flags().StringVarP(&genSpeaker, "speaker", "s", "",
		"backend speaker/voice ID")
	generateCmd.Flags().StringVarP(&genModel, "model", "m", "",
		"model name from the configuration (default: configured default model)")
	generateCmd.Flags().StringVarP(&genOutput, "output", "o", "",
		"output WAV path (default: timestamped name in the output directory)")
	generateCmd.Flags().BoolVar(&genChild, "child", false,
		"engage the child voice")
	generateCmd.Flags().Float64Var(&genSpeed, "speed", 1,
		"global speed multiplier applied to the emotion's stretch rate")
	generateCmd.Flags().Float64Var(&genPitch, "pitch", 0,
		"additional pitch offset in semitones (-7..7)")
	generateCmd.Flags().Float64Var(&genEnergy, "energy", 1,
		"energy multiplier applied to the emotion's gain (0.2..2)")
	generateCmd.Flags().Float64Var(&genTremRate, "tremolo-rate", 0,
		"tremolo LFO rate in Hz")
	generateCmd.Flags().Float64Var(&genTremDepth, "tremolo-depth", 0,
		"tremolo depth (0..1)")
	generateCmd.Flags().Float64Var(&genReverb, "reverb", 0,
		"reverb wet mix (0..1)")
	generateCmd.Flags().Float64Var(&genBrightness, "brightness", 0,
		"spectral tilt (-1 darker .. 1 brighter)")
}

func runGenerate(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, s, cleanup, err := setup(ctx)
	if err != nil {
		return err
	}
	defer cleanup()

	if genSpeaker != "" {
		warnUnknownSpeaker(cmd, loadSpeakers(cfg), genSpeaker)
	}

	res, err := s.Generate(ctx, synth.Request{
		Text:       args[0],
		Emotion:    genEmotion,
		Speaker:    genSpeaker,
		Model:      genModel,
		OutputPath: genOutput,
		Controls: emotion.Controls{
			GlobalSpeed:  genSpeed,
			PitchOffset:  genPitch,
			Energy:       genEnergy,
			TremoloRate:  genTremRate,
			TremoloDepth: genTremDepth,
			ReverbAmount: genReverb,
			Brightness:   genBrightness,
			ChildVoice:   genChild,
		},
	})
	if err != nil {
		return err
	}

	if res.FellBack {
		cmd.Printf("note: fell back to model %s\n", res.Model)
	}
	cmd.Printf("%s\n", res.Path)
	return nil
}

// warnUnknownSpeaker prints a "did you mean" hint when the speaker ID is not
// in the gender table. Unknown IDs are still sent to the backend, which may
// know voices the table does not.
func warnUnknownSpeaker(cmd *cobra.Command, tbl *speakers.Table, id string) {
	if tbl.Len() == 0 || tbl.Known(id) {
		return
	}
	msg := fmt.Sprintf("warning: speaker %q not in the speaker table", id)
	if suggestion, ok := tbl.Suggest(id); ok {
		msg += fmt.Sprintf(" — did you mean %q?", suggestion)
	}
	cmd.PrintErrln(msg)
}
