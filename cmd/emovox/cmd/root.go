package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"

	"github.com/spf13/cobra"

	"github.com/emovox/emovox/internal/config"
	"github.com/emovox/emovox/internal/health"
	"github.com/emovox/emovox/internal/observe"
	"github.com/emovox/emovox/internal/speakers"
	"github.com/emovox/emovox/internal/synth"
)

var (
	cfgFile  string
	logLevel string
)

var rootCmd = &cobra.Command{
	Use:   "emovox",
	Short: "Emotional text-to-speech with DSP post-processing",
	Long: `emovox turns text into emotionally flavoured speech.

A neural TTS backend (Coqui server or OpenAI speech API) renders the raw
voice, then a DSP chain shapes it: pitch shift, time stretch, gain,
tremolo, reverb, and brightness, composed from an emotion profile
(sad, happy, angry, calm, excited, whisper, neutral) plus fine-grained
overrides. If the requested model fails, the generation retries once
against the configured fallback model with the child voice engaged.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the root command.
func Execute() error {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "emovox: %v\n", err)
		return err
	}
	return nil
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "emovox.yaml",
		"path to the YAML configuration file")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "",
		"override the configured log level (debug, info, warn, error)")
}

// setup loads configuration, installs the logger, initialises telemetry and
// builds the synthesizer. The returned cleanup must run before exit.
func setup(ctx context.Context) (*config.Config, *synth.Synthesizer, func(), error) {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return nil, nil, nil, err
	}
	if logLevel != "" {
		lvl := config.LogLevel(logLevel)
		if !lvl.IsValid() {
			return nil, nil, nil, fmt.Errorf("invalid log level %q", logLevel)
		}
		cfg.LogLevel = lvl
	}

	slog.SetDefault(newLogger(cfg.LogLevel))

	shutdown, err := observe.InitProvider(ctx, observe.ProviderConfig{
		ServiceName:    "emovox",
		ServiceVersion: version,
	})
	if err != nil {
		return nil, nil, nil, fmt.Errorf("init telemetry: %w", err)
	}

	s := synth.New(cfg, config.DefaultRegistry(), observe.DefaultMetrics())

	metricsCtx, cancelMetrics := context.WithCancel(ctx)
	if cfg.MetricsAddr != "" {
		mux := http.NewServeMux()
		probe := func(ctx context.Context, model string) error {
			_, err := s.ListVoices(ctx, model)
			return err
		}
		health.New(
			health.BackendChecker("default", cfg.DefaultModel, probe),
			health.BackendChecker("fallback", cfg.FallbackModel, probe),
		).Register(mux)
		go observe.ServeMetrics(metricsCtx, cfg.MetricsAddr, slog.Default(), mux)
	}
	cleanup := func() {
		cancelMetrics()
		if err := shutdown(context.Background()); err != nil {
			slog.Warn("telemetry shutdown", "error", err)
		}
	}
	return cfg, s, cleanup, nil
}

// loadSpeakers reads the configured gender table. Failures are reported but
// not fatal since the table only enriches voice listings.
func loadSpeakers(cfg *config.Config) *speakers.Table {
	tbl, err := speakers.Load(cfg.GenderTable)
	if err != nil {
		slog.Warn("speaker table unavailable", "path", cfg.GenderTable, "error", err)
		return speakers.Empty()
	}
	return tbl
}

func newLogger(level config.LogLevel) *slog.Logger {
	var lvl slog.Level
	switch level {
	case config.LogDebug:
		lvl = slog.LevelDebug
	case config.LogWarn:
		lvl = slog.LevelWarn
	case config.LogError:
		lvl = slog.LevelError
	default:
		lvl = slog.LevelInfo
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: lvl}))
}
