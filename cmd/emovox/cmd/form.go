package cmd

import (
	"context"
	"os/signal"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/emovox/emovox/internal/form"
)

var formCmd = &cobra.Command{
	Use:     "form",
	Aliases: []string{"ui", "tui"},
	Short:   "Full-screen generation form with sliders and selectors",
	Long: `Opens the interactive generation form.

Key bindings:
  tab / shift+tab   move between fields
  left / right      adjust the focused slider, selector, or toggle
  ctrl+g            generate (disabled while a generation is running)
  ctrl+l            list the selected model's voices
  esc / ctrl+c      quit`,
	RunE: runForm,
}

func init() {
	rootCmd.AddCommand(formCmd)
}

func runForm(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	_, s, cleanup, err := setup(ctx)
	if err != nil {
		return err
	}
	defer cleanup()

	p := tea.NewProgram(form.New(s), tea.WithAltScreen(), tea.WithContext(ctx))
	_, err = p.Run()
	return err
}
