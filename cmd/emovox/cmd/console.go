package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/emovox/emovox/internal/console"
	"github.com/emovox/emovox/pkg/provider/tts"
)

var (
	consoleSpeaker string
	consoleChild   bool
)

var consoleCmd = &cobra.Command{
	Use:     "console",
	Aliases: []string{"repl"},
	Short:   "Interactive console with a numbered emotion menu",
	RunE:    runConsole,
}

func init() {
	rootCmd.AddCommand(consoleCmd)

	consoleCmd.Flags().StringVarP(&consoleSpeaker, "speaker", "s", "",
		"backend speaker/voice ID used for every generation")
	consoleCmd.Flags().BoolVar(&consoleChild, "child", false,
		"engage the child voice for every generation")
}

func runConsole(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, s, cleanup, err := setup(ctx)
	if err != nil {
		return err
	}
	defer cleanup()

	c := &console.Console{
		In:  os.Stdin,
		Out: cmd.OutOrStdout(),
		Gen: s,
		Voices: func(ctx context.Context) ([]tts.Voice, error) {
			return s.ListVoices(ctx, "")
		},
		Speakers:   loadSpeakers(cfg),
		Speaker:    consoleSpeaker,
		ChildVoice: consoleChild,
	}
	return c.Run(ctx)
}
