package cmd

import (
	"context"
	"fmt"
	"os/signal"
	"sort"
	"sync"
	"syscall"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/emovox/emovox/internal/speakers"
	"github.com/emovox/emovox/pkg/provider/tts"
)

var voicesModel string

var voicesCmd = &cobra.Command{
	Use:   "voices",
	Short: "List the voices of the configured models",
	RunE:  runVoices,
}

func init() {
	rootCmd.AddCommand(voicesCmd)

	voicesCmd.Flags().StringVarP(&voicesModel, "model", "m", "",
		"only query this model (default: all configured models)")
}

func runVoices(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, s, cleanup, err := setup(ctx)
	if err != nil {
		return err
	}
	defer cleanup()

	models := s.Models()
	if voicesModel != "" {
		models = []string{voicesModel}
	}

	// Query the backends concurrently; one unreachable server should not
	// block the rest of the listing.
	type listing struct {
		model  string
		voices []tts.Voice
		err    error
	}
	var (
		mu   sync.Mutex
		rows []listing
	)
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(4)
	for _, model := range models {
		g.Go(func() error {
			voices, err := s.ListVoices(gctx, model)
			mu.Lock()
			rows = append(rows, listing{model: model, voices: voices, err: err})
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].model < rows[j].model })

	tbl := loadSpeakers(cfg)
	w := tabwriter.NewWriter(cmd.OutOrStdout(), 2, 4, 2, ' ', 0)
	defer w.Flush()

	for _, row := range rows {
		if row.err != nil {
			cmd.PrintErrf("model %s: %v\n", row.model, row.err)
			continue
		}
		for _, v := range row.voices {
			gender := tbl.Gender(v.ID)
			if gender == speakers.GenderUnknown && tbl.Len() == 0 {
				gender = "-"
			}
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", row.model, v.ID, v.Name, gender)
		}
	}
	return nil
}
