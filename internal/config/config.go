// Package config provides the configuration schema, loader, and backend
// registry for the emovox synthesis pipeline.
package config

import "time"

// LogLevel controls log verbosity.
type LogLevel string

const (
	LogDebug LogLevel = "debug"
	LogInfo  LogLevel = "info"
	LogWarn  LogLevel = "warn"
	LogError LogLevel = "error"
)

// IsValid reports whether l is a recognised log level.
func (l LogLevel) IsValid() bool {
	switch l {
	case LogDebug, LogInfo, LogWarn, LogError:
		return true
	}
	return false
}

// Config is the root configuration structure for emovox.
// It is typically loaded from a YAML file using [Load] or [LoadFromReader].
type Config struct {
	// LogLevel controls verbosity. Defaults to info.
	LogLevel LogLevel `yaml:"log_level"`

	// OutputDir is where generated files land when a request gives a bare
	// filename. Defaults to the working directory.
	OutputDir string `yaml:"output_dir"`

	// GenderTable is the path to the delimited speaker-gender resource.
	// A missing file yields an empty table, not an error.
	GenderTable string `yaml:"gender_table"`

	// MetricsAddr, when non-empty, enables the Prometheus /metrics listener
	// on that address (e.g., ":9090").
	MetricsAddr string `yaml:"metrics_addr"`

	// DefaultModel names the model used when a request names none and child
	// mode is off.
	DefaultModel string `yaml:"default_model"`

	// ChildModel names the model used when child mode is on. May equal
	// DefaultModel, in which case the child voice is approximated by
	// post-processing.
	ChildModel string `yaml:"child_model"`

	// FallbackModel names the known-good model retried once when the
	// requested model fails. Should point at a general-purpose multi-speaker
	// model.
	FallbackModel string `yaml:"fallback_model"`

	// Models declares the available model configurations.
	Models []ModelConfig `yaml:"models"`
}

// ModelConfig describes one synthesis model: which backend implementation
// serves it and how to reach it.
type ModelConfig struct {
	// Name is the identifier requests and the Default/Child/Fallback fields
	// refer to.
	Name string `yaml:"name"`

	// Backend selects the registered backend implementation ("coqui",
	// "openai").
	Backend string `yaml:"backend"`

	// BaseURL overrides the backend's default endpoint. Required for coqui.
	BaseURL string `yaml:"base_url"`

	// APIKey is the authentication key for hosted backends.
	APIKey string `yaml:"api_key"`

	// Model selects a specific model within the backend (e.g., "tts-1-hd").
	Model string `yaml:"model"`

	// Language is the language code sent to backends that accept one.
	Language string `yaml:"language"`

	// Voice is the default speaker/voice used when a request names none.
	Voice string `yaml:"voice"`

	// Child marks a model that natively produces a child voice; child mode
	// then skips the DSP approximation.
	Child bool `yaml:"child"`

	// Timeout is the per-request timeout for this backend. Zero keeps the
	// backend's default.
	Timeout time.Duration `yaml:"timeout"`
}

// Model returns the model configuration with the given name.
func (c *Config) Model(name string) (ModelConfig, bool) {
	for _, m := range c.Models {
		if m.Name == name {
			return m, true
		}
	}
	return ModelConfig{}, false
}

// Default returns the built-in configuration used when no config file
// exists: a local Coqui server hosting the VCTK multi-speaker model, which
// doubles as the fallback, and child voices approximated in post-processing.
func Default() *Config {
	return &Config{
		LogLevel:      LogInfo,
		OutputDir:     ".",
		GenderTable:   "speaker_ids.txt",
		DefaultModel:  "vctk",
		ChildModel:    "vctk",
		FallbackModel: "vctk",
		Models: []ModelConfig{
			{
				Name:    "vctk",
				Backend: "coqui",
				BaseURL: "http://localhost:5002",
			},
		},
	}
}
