package config

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/emovox/emovox/pkg/provider/tts"
	ttsmock "github.com/emovox/emovox/pkg/provider/tts/mock"
)

func TestLoadFromReaderValid(t *testing.T) {
	in := `
log_level: debug
output_dir: /tmp/out
gender_table: speakers.txt
metrics_addr: ":9090"
default_model: vctk
child_model: jenny
fallback_model: vctk
models:
  - name: vctk
    backend: coqui
    base_url: http://localhost:5002
    timeout: 30s
  - name: jenny
    backend: coqui
    base_url: http://localhost:5003
    child: true
  - name: cloud
    backend: openai
    api_key: sk-test
    model: tts-1-hd
    voice: nova
`
	cfg, err := LoadFromReader(strings.NewReader(in))
	if err != nil {
		t.Fatalf("LoadFromReader() error = %v", err)
	}
	if cfg.LogLevel != LogDebug {
		t.Errorf("LogLevel = %q, want %q", cfg.LogLevel, LogDebug)
	}
	if cfg.MetricsAddr != ":9090" {
		t.Errorf("MetricsAddr = %q, want :9090", cfg.MetricsAddr)
	}
	if len(cfg.Models) != 3 {
		t.Fatalf("len(Models) = %d, want 3", len(cfg.Models))
	}
	m, ok := cfg.Model("vctk")
	if !ok {
		t.Fatal("Model(vctk) not found")
	}
	if m.Timeout != 30*time.Second {
		t.Errorf("vctk timeout = %v, want 30s", m.Timeout)
	}
	jenny, _ := cfg.Model("jenny")
	if !jenny.Child {
		t.Error("jenny should be marked as a child model")
	}
}

func TestLoadFromReaderUnknownField(t *testing.T) {
	in := `
default_model: vctk
child_model: vctk
fallback_model: vctk
modles:
  - name: vctk
`
	if _, err := LoadFromReader(strings.NewReader(in)); err == nil {
		t.Fatal("LoadFromReader() with misspelled key should fail")
	}
}

func TestValidateReportsAllErrors(t *testing.T) {
	cfg := &Config{
		LogLevel:      LogLevel("loud"),
		DefaultModel:  "missing",
		ChildModel:    "",
		FallbackModel: "vctk",
		Models: []ModelConfig{
			{Name: "vctk", Backend: "coqui"}, // no base_url
			{Name: "vctk", Backend: "hal9000"},
		},
	}
	err := cfg.Validate()
	if err == nil {
		t.Fatal("Validate() should fail")
	}
	for _, want := range []string{
		"log_level",
		"requires base_url",
		"duplicate name",
		"unknown backend",
		"default_model",
		"child_model",
	} {
		if !strings.Contains(err.Error(), want) {
			t.Errorf("Validate() error missing %q: %v", want, err)
		}
	}
}

func TestValidateRequiresModels(t *testing.T) {
	cfg := &Config{LogLevel: LogInfo}
	err := cfg.Validate()
	if err == nil || !strings.Contains(err.Error(), "at least one model") {
		t.Fatalf("Validate() = %v, want missing-models error", err)
	}
}

func TestDefaultIsValid(t *testing.T) {
	if err := Default().Validate(); err != nil {
		t.Fatalf("Default().Validate() error = %v", err)
	}
}

func TestLoadMissingFileReturnsDefault(t *testing.T) {
	cfg, err := Load(t.TempDir() + "/does-not-exist.yaml")
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.DefaultModel != "vctk" {
		t.Errorf("DefaultModel = %q, want vctk", cfg.DefaultModel)
	}
}

func TestRegistryCreate(t *testing.T) {
	r := NewRegistry()
	r.Register("mock", func(m ModelConfig) (tts.Provider, error) {
		return &ttsmock.Provider{BackendName: m.Name}, nil
	})

	p, err := r.Create(ModelConfig{Name: "test", Backend: "mock"})
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if p.Name() != "test" {
		t.Errorf("provider name = %q, want test", p.Name())
	}

	_, err = r.Create(ModelConfig{Name: "x", Backend: "nope"})
	if !errors.Is(err, ErrBackendNotRegistered) {
		t.Errorf("Create(unregistered) error = %v, want ErrBackendNotRegistered", err)
	}
}

func TestDefaultRegistryBackends(t *testing.T) {
	r := DefaultRegistry()

	p, err := r.Create(ModelConfig{Name: "vctk", Backend: "coqui", BaseURL: "http://localhost:5002"})
	if err != nil {
		t.Fatalf("Create(coqui) error = %v", err)
	}
	if p.Name() == "" {
		t.Error("coqui provider name should not be empty")
	}

	if _, err := r.Create(ModelConfig{Name: "cloud", Backend: "openai", APIKey: "sk-test"}); err != nil {
		t.Fatalf("Create(openai) error = %v", err)
	}
}
