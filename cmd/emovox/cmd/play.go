package cmd

import (
	"context"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/emovox/emovox/internal/player"
)

var playCmd = &cobra.Command{
	Use:   "play <file.wav>",
	Short: "Play a generated WAV file on the default audio device",
	Args:  cobra.ExactArgs(1),
	RunE:  runPlay,
}

func init() {
	rootCmd.AddCommand(playCmd)
}

func runPlay(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	return player.New().PlayFile(ctx, args[0])
}
