package config

import (
	"fmt"
	"os"
	"regexp"

	"github.com/pelletier/go-toml/v2"
)

type LLMConfig struct {
	Provider string `toml:"provider"`
	Model    string `toml:"model"`
	APIKey   string `toml:"api_key"`
	BaseURL  string `toml:"base_url"`
}

// SourceConfig describes one council document source. Nothing in the
// extraction logic hardcodes any of this.
type SourceConfig struct {
	Name            string   `toml:"name"`
	BaseURL         string   `toml:"base_url"`
	URLTemplate     string   `toml:"url_template"` // must contain %d for the document ID
	DocumentsDir    string   `toml:"documents_dir"`
	FilenamePattern string   `toml:"filename_pattern"` // named groups: date, id, tag
	DateFormat      string   `toml:"date_format"`      // Go reference layout
	StartID         int      `toml:"start_id"`         // first ID tried when nothing exists yet
	StartBatch      int      `toml:"start_batch"`      // IDs tried from start_id on an empty corpus
	ExtendBatch     int      `toml:"extend_batch"`     // max IDs probed past the highest known
	MaxCandidates   int      `toml:"max_candidates"`   // hard cap per acquisition run
	Concurrency     int      `toml:"concurrency"`      // simultaneous downloads
	PaceMillis      int      `toml:"pace_millis"`      // delay between dispatches
	MinFileBytes    int      `toml:"min_file_bytes"`
	Fields          []string `toml:"fields"` // portal labels to extract; empty = all
}

type ExtractionConfig struct {
	// FallbackThreshold is the pattern-record count at or below which the
	// generative fallback runs for a known format.
	FallbackThreshold int `toml:"fallback_threshold"`
	MaxPromptChars    int `toml:"max_prompt_chars"`
	Workers           int `toml:"workers"`
}

type ServerConfig struct {
	Port string `toml:"port"`
}

type Config struct {
	LLM         LLMConfig        `toml:"llm"`
	FallbackLLM LLMConfig        `toml:"fallback_llm"`
	Source      SourceConfig     `toml:"source"`
	Extraction  ExtractionConfig `toml:"extraction"`
	Server      ServerConfig     `toml:"server"`
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file '%s': %w", path, err)
	}

	var cfg Config
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse TOML: %w", err)
	}

	cfg.applyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) applyDefaults() {
	if c.Source.DocumentsDir == "" {
		c.Source.DocumentsDir = "documents"
	}
	if c.Source.DateFormat == "" {
		c.Source.DateFormat = "01-02-2006"
	}
	if c.Source.StartBatch == 0 {
		c.Source.StartBatch = 10
	}
	if c.Source.ExtendBatch == 0 {
		c.Source.ExtendBatch = 20
	}
	if c.Source.MaxCandidates == 0 {
		c.Source.MaxCandidates = 50
	}
	if c.Source.Concurrency == 0 {
		c.Source.Concurrency = 3
	}
	if c.Source.PaceMillis == 0 {
		c.Source.PaceMillis = 500
	}
	if c.Source.MinFileBytes == 0 {
		c.Source.MinFileBytes = 1024
	}
	if c.Extraction.MaxPromptChars == 0 {
		c.Extraction.MaxPromptChars = 12000
	}
	if c.Extraction.Workers == 0 {
		c.Extraction.Workers = 4
	}
	if c.Server.Port == "" {
		c.Server.Port = "8080"
	}
}

// Validate reports configuration mistakes. Unlike data-quality noise these
// are raised: they are operator errors, not expected document weirdness.
func (c *Config) Validate() error {
	if c.Source.FilenamePattern != "" {
		if _, err := regexp.Compile(c.Source.FilenamePattern); err != nil {
			return fmt.Errorf("invalid filename_pattern: %w", err)
		}
	}
	if c.Source.StartID < 0 {
		return fmt.Errorf("start_id must not be negative, got %d", c.Source.StartID)
	}
	if c.Source.ExtendBatch < 0 || c.Source.MaxCandidates < 1 {
		return fmt.Errorf("bad ID range limits: extend_batch=%d max_candidates=%d",
			c.Source.ExtendBatch, c.Source.MaxCandidates)
	}
	if c.Extraction.FallbackThreshold < 0 {
		return fmt.Errorf("fallback_threshold must not be negative, got %d", c.Extraction.FallbackThreshold)
	}
	return nil
}

// ApplyEnv overrides settings from environment variables, mirroring the
// server bootstrap convention.
func (c *Config) ApplyEnv() {
	if v := os.Getenv("LLM_PROVIDER"); v != "" {
		c.LLM.Provider = v
	}
	if v := os.Getenv("LLM_MODEL"); v != "" {
		c.LLM.Model = v
	}
	if v := os.Getenv("LLM_API_KEY"); v != "" {
		c.LLM.APIKey = v
	}
	if v := os.Getenv("LLM_BASE_URL"); v != "" {
		c.LLM.BaseURL = v
	}
	if v := os.Getenv("FALLBACK_LLM_PROVIDER"); v != "" {
		c.FallbackLLM.Provider = v
	}
	if v := os.Getenv("FALLBACK_LLM_API_KEY"); v != "" {
		c.FallbackLLM.APIKey = v
	}
	if v := os.Getenv("DOCUMENTS_DIR"); v != "" {
		c.Source.DocumentsDir = v
	}
	if v := os.Getenv("PORT"); v != "" {
		c.Server.Port = v
	}
}
