package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Folders.Input != "inbox" {
		t.Errorf("Input = %q, want default", cfg.Folders.Input)
	}
	if cfg.Summarizer.MaxRetries != 3 {
		t.Errorf("MaxRetries = %d, want 3", cfg.Summarizer.MaxRetries)
	}
	if cfg.OCR.Binary != "tesseract" {
		t.Errorf("OCR binary = %q, want tesseract", cfg.OCR.Binary)
	}
}

func TestLoadFileOverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	body := `
folders:
  input: drop
summarizer:
  model: gpt-4
  baseRetryDelay: 500ms
enrichment:
  enabled: true
`
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Folders.Input != "drop" {
		t.Errorf("Input = %q, want drop", cfg.Folders.Input)
	}
	if cfg.Folders.Output != "assets" {
		t.Errorf("Output = %q, unset fields must keep defaults", cfg.Folders.Output)
	}
	if cfg.Summarizer.Model != "gpt-4" {
		t.Errorf("Model = %q", cfg.Summarizer.Model)
	}
	if got := cfg.Summarizer.RetryDelay(); got != 500*time.Millisecond {
		t.Errorf("RetryDelay() = %v, want 500ms", got)
	}
	if !cfg.Enrichment.Enabled {
		t.Error("enrichment not enabled")
	}
}

func TestLoadMalformedFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("folders: ["), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	if _, err := Load(path); err == nil {
		t.Error("Load() accepted malformed YAML")
	}
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "sk-env")
	t.Setenv("KG_INPUT_FOLDER", "envbox")
	t.Setenv("KG_DEBUG", "true")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Summarizer.APIKey != "sk-env" {
		t.Errorf("APIKey = %q, want env value", cfg.Summarizer.APIKey)
	}
	if cfg.Folders.Input != "envbox" {
		t.Errorf("Input = %q, want env value", cfg.Folders.Input)
	}
	if !cfg.Debug {
		t.Error("debug env override ignored")
	}
}

func TestRetryDelayFallback(t *testing.T) {
	s := SummarizerConfig{BaseRetryDelay: "garbage"}
	if got := s.RetryDelay(); got != 2*time.Second {
		t.Errorf("RetryDelay() = %v, want 2s fallback", got)
	}
}

func TestFetchTimeoutFallback(t *testing.T) {
	e := EnrichmentConfig{}
	if got := e.FetchTimeout(); got != 10*time.Second {
		t.Errorf("FetchTimeout() = %v, want 10s fallback", got)
	}
}
