package config

import (
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"
)

// Load reads and validates the configuration file at path. When the file
// does not exist, the built-in [Default] configuration is returned.
func Load(path string) (*Config, error) {
	f, err := os.Open(path)
	if errors.Is(err, os.ErrNotExist) {
		return Default(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("open config %q: %w", path, err)
	}
	defer f.Close()

	cfg, err := LoadFromReader(f)
	if err != nil {
		return nil, fmt.Errorf("config %q: %w", path, err)
	}
	return cfg, nil
}

// LoadFromReader decodes and validates YAML configuration from r.
// Unknown fields are rejected so typos surface at startup.
func LoadFromReader(r io.Reader) (*Config, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)

	cfg := Default()
	if err := dec.Decode(cfg); err != nil {
		return nil, fmt.Errorf("decode: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the configuration for internal consistency. All problems
// found are reported together.
func (c *Config) Validate() error {
	var errs []error

	if !c.LogLevel.IsValid() {
		errs = append(errs, fmt.Errorf("log_level %q is not one of debug, info, warn, error", c.LogLevel))
	}
	if len(c.Models) == 0 {
		errs = append(errs, errors.New("at least one model must be configured"))
	}

	names := make(map[string]bool, len(c.Models))
	for i, m := range c.Models {
		if m.Name == "" {
			errs = append(errs, fmt.Errorf("models[%d]: name must not be empty", i))
			continue
		}
		if names[m.Name] {
			errs = append(errs, fmt.Errorf("models[%d]: duplicate name %q", i, m.Name))
		}
		names[m.Name] = true
		switch m.Backend {
		case "coqui":
			if m.BaseURL == "" {
				errs = append(errs, fmt.Errorf("model %q: coqui backend requires base_url", m.Name))
			}
		case "openai":
			if m.APIKey == "" {
				errs = append(errs, fmt.Errorf("model %q: openai backend requires api_key", m.Name))
			}
		case "":
			errs = append(errs, fmt.Errorf("model %q: backend must not be empty", m.Name))
		default:
			errs = append(errs, fmt.Errorf("model %q: unknown backend %q", m.Name, m.Backend))
		}
		if m.Timeout < 0 {
			errs = append(errs, fmt.Errorf("model %q: timeout must not be negative", m.Name))
		}
	}

	for _, ref := range []struct{ field, name string }{
		{"default_model", c.DefaultModel},
		{"child_model", c.ChildModel},
		{"fallback_model", c.FallbackModel},
	} {
		if ref.name == "" {
			errs = append(errs, fmt.Errorf("%s must not be empty", ref.field))
			continue
		}
		if len(names) > 0 && !names[ref.name] {
			errs = append(errs, fmt.Errorf("%s %q does not match any configured model", ref.field, ref.name))
		}
	}

	return errors.Join(errs...)
}
