package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	apiKeyEnv         = "OPENAI_API_KEY"
	modelEnv          = "OPENAI_MODEL"
	inputFolderEnv    = "KG_INPUT_FOLDER"
	outputFolderEnv   = "KG_OUTPUT_FOLDER"
	metadataFolderEnv = "KG_METADATA_FOLDER"
	debugEnv          = "KG_DEBUG"
)

// FoldersConfig names the directories the pipeline works against.
type FoldersConfig struct {
	Input    string   `yaml:"input"`    // incoming files waiting to be organized
	Output   string   `yaml:"output"`   // organized files, one subdirectory per file type
	Metadata string   `yaml:"metadata"` // frontmatter records, one per processed file
	Ignore   []string `yaml:"ignore"`   // glob patterns skipped during the inbox walk
}

// SummarizerConfig configures the summarization service client.
type SummarizerConfig struct {
	APIKey         string `yaml:"apiKey"`         // falls back to OPENAI_API_KEY
	Model          string `yaml:"model"`          // nominal model tag; length tiers override per call
	MaxRetries     int    `yaml:"maxRetries"`     // attempts before giving up on a file
	BaseRetryDelay string `yaml:"baseRetryDelay"` // e.g. "2s"; doubled on each retry
}

// RetryDelay resolves the configured base delay, defaulting to two seconds.
func (s SummarizerConfig) RetryDelay() time.Duration {
	d, err := time.ParseDuration(s.BaseRetryDelay)
	if err != nil || d <= 0 {
		return 2 * time.Second
	}
	return d
}

// EnrichmentConfig controls reference enrichment of URLs discovered in
// extracted text before summarization.
type EnrichmentConfig struct {
	Enabled bool   `yaml:"enabled"`
	Timeout string `yaml:"timeout"` // per-URL fetch timeout, e.g. "10s"
}

// FetchTimeout resolves the configured timeout, defaulting to ten seconds.
func (e EnrichmentConfig) FetchTimeout() time.Duration {
	d, err := time.ParseDuration(e.Timeout)
	if err != nil || d <= 0 {
		return 10 * time.Second
	}
	return d
}

// OCRConfig configures the external OCR engine used for image files.
type OCRConfig struct {
	Binary    string   `yaml:"binary"`    // tesseract executable name or path
	Languages []string `yaml:"languages"` // language identifiers tried in order
}

// LoggerConfig configures the log output.
type LoggerConfig struct {
	Level string `yaml:"level"` // "info", "debug", "warn", "error"
}

// AppConfig is the root of the YAML configuration file.
type AppConfig struct {
	Folders    FoldersConfig    `yaml:"folders"`
	Summarizer SummarizerConfig `yaml:"summarizer"`
	Enrichment EnrichmentConfig `yaml:"enrichment"`
	OCR        OCRConfig        `yaml:"ocr"`
	Logger     LoggerConfig     `yaml:"logger"`
	Debug      bool             `yaml:"debug"` // verbose per-file progress logging
}

// Default returns the configuration used when no file is present.
func Default() *AppConfig {
	return &AppConfig{
		Folders: FoldersConfig{
			Input:    "inbox",
			Output:   "assets",
			Metadata: "metadata",
			Ignore:   []string{".*", "*.tmp"},
		},
		Summarizer: SummarizerConfig{
			Model:          "gpt-3.5-turbo",
			MaxRetries:     3,
			BaseRetryDelay: "2s",
		},
		Enrichment: EnrichmentConfig{
			Enabled: false,
			Timeout: "10s",
		},
		OCR: OCRConfig{
			Binary:    "tesseract",
			Languages: []string{"eng", "dan", "dan+eng"},
		},
		Logger: LoggerConfig{Level: "info"},
	}
}

// Load reads the YAML configuration from path (if it exists) on top of the
// defaults, then applies environment overrides. A missing file is not an
// error; a malformed one is.
func Load(path string) (*AppConfig, error) {
	cfg := Default()

	if path != "" {
		raw, err := os.ReadFile(path)
		switch {
		case os.IsNotExist(err):
			// Defaults plus environment are enough to run.
		case err != nil:
			return nil, fmt.Errorf("read config %s: %w", path, err)
		default:
			if err := yaml.Unmarshal(raw, cfg); err != nil {
				return nil, fmt.Errorf("parse config %s: %w", path, err)
			}
		}
	}

	cfg.applyEnvOverrides()
	return cfg, nil
}

func (c *AppConfig) applyEnvOverrides() {
	if v := os.Getenv(apiKeyEnv); v != "" && c.Summarizer.APIKey == "" {
		c.Summarizer.APIKey = v
	}
	if v := os.Getenv(modelEnv); v != "" {
		c.Summarizer.Model = v
	}
	if v := os.Getenv(inputFolderEnv); v != "" {
		c.Folders.Input = v
	}
	if v := os.Getenv(outputFolderEnv); v != "" {
		c.Folders.Output = v
	}
	if v := os.Getenv(metadataFolderEnv); v != "" {
		c.Folders.Metadata = v
	}
	if v := os.Getenv(debugEnv); v != "" {
		c.Debug = strings.EqualFold(v, "true") || v == "1"
	}
}
