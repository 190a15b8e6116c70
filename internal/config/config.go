// Package config holds process-wide defaults loaded once at startup,
// distinct from pkg/conform.Configuration's per-request option record:
// a JSON file with a Default() constructor, LoadFromFile()/SaveToFile(),
// and Validate().
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// Config holds application-wide defaults for the conform pipeline.
type Config struct {
	Photo     WidthBandConfig `json:"photo"`
	Thumb     WidthBandConfig `json:"thumb"`
	Video     WidthBandConfig `json:"video"`
	Output    OutputConfig    `json:"output"`
	Autofocus AutofocusConfig `json:"autofocus"`
}

// WidthBandConfig is a resizer's default width band and quality.
type WidthBandConfig struct {
	MinWidth int `json:"min_width"`
	MaxWidth int `json:"max_width"`
	Quality  int `json:"quality"`
}

// OutputConfig holds defaults for where and how rendered output is
// written.
type OutputConfig struct {
	TempDir       string `json:"temp_dir"`
	DefaultFormat string `json:"default_format"`
	Suffix        string `json:"suffix"`
}

// AutofocusConfig selects and tunes the optional vision-assisted
// crop-focus resolver.
type AutofocusConfig struct {
	Enabled bool   `json:"enabled"`
	Backend string `json:"backend"` // "ollama" or "llamacpp"; Validate rejects any other value when Enabled
	URL     string `json:"url"`
	Model   string `json:"model"`
}

// Default returns a Config with this module's standard width bands:
// photo [320,1080], thumbnail [150,320], video [480,720].
func Default() *Config {
	return &Config{
		Photo: WidthBandConfig{MinWidth: 320, MaxWidth: 1080, Quality: 85},
		Thumb: WidthBandConfig{MinWidth: 150, MaxWidth: 320, Quality: 80},
		Video: WidthBandConfig{MinWidth: 480, MaxWidth: 720, Quality: 0},
		Output: OutputConfig{
			TempDir:       os.TempDir(),
			DefaultFormat: "jpg",
			Suffix:        "_conformed",
		},
		Autofocus: AutofocusConfig{Enabled: false},
	}
}

// LoadFromFile reads and parses a JSON config file, starting from
// Default() so an omitted section keeps its default values.
func LoadFromFile(filename string) (*Config, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("config: failed to read %s: %w", filename, err)
	}

	cfg := Default()
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("config: failed to parse %s: %w", filename, err)
	}
	return cfg, nil
}

// SaveToFile writes c as indented JSON to filename, creating its parent
// directory if needed.
func (c *Config) SaveToFile(filename string) error {
	if err := os.MkdirAll(filepath.Dir(filename), 0o755); err != nil {
		return fmt.Errorf("config: failed to create directory: %w", err)
	}

	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return fmt.Errorf("config: failed to marshal: %w", err)
	}
	if err := os.WriteFile(filename, data, 0o644); err != nil {
		return fmt.Errorf("config: failed to write %s: %w", filename, err)
	}
	return nil
}

// Validate checks that every band and quality setting is internally
// consistent.
func (c *Config) Validate() error {
	for _, band := range []struct {
		name string
		cfg  WidthBandConfig
	}{{"photo", c.Photo}, {"thumb", c.Thumb}, {"video", c.Video}} {
		if band.cfg.MinWidth < 1 {
			return fmt.Errorf("config: %s.min_width must be positive", band.name)
		}
		if band.cfg.MaxWidth < band.cfg.MinWidth {
			return fmt.Errorf("config: %s.max_width must be >= min_width", band.name)
		}
		if band.cfg.Quality < 0 || band.cfg.Quality > 100 {
			return fmt.Errorf("config: %s.quality must be between 0 and 100", band.name)
		}
	}

	if c.Autofocus.Enabled {
		if c.Autofocus.Backend != "ollama" && c.Autofocus.Backend != "llamacpp" {
			return fmt.Errorf("config: autofocus.backend must be \"ollama\" or \"llamacpp\" when enabled")
		}
		if c.Autofocus.Model == "" {
			return fmt.Errorf("config: autofocus.model is required when autofocus is enabled")
		}
	}

	return nil
}

// GetConfigPath returns the default configuration file path, under the
// user's config directory.
func GetConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "./frameconform.json"
	}
	return filepath.Join(home, ".config", "frameconform", "config.json")
}
