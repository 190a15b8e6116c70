package config

import (
	"path/filepath"
	"testing"
)

func TestDefaultIsValid(t *testing.T) {
	if err := Default().Validate(); err != nil {
		t.Fatalf("Default() config failed validation: %v", err)
	}
}

func TestValidateRejectsInvertedBand(t *testing.T) {
	cfg := Default()
	cfg.Photo.MaxWidth = cfg.Photo.MinWidth - 1
	if err := cfg.Validate(); err == nil {
		t.Error("expected an error for max_width < min_width")
	}
}

func TestValidateRejectsBadQuality(t *testing.T) {
	cfg := Default()
	cfg.Thumb.Quality = 150
	if err := cfg.Validate(); err == nil {
		t.Error("expected an error for out-of-range quality")
	}
}

func TestValidateRequiresBackendAndModelWhenAutofocusEnabled(t *testing.T) {
	cfg := Default()
	cfg.Autofocus.Enabled = true
	if err := cfg.Validate(); err == nil {
		t.Error("expected an error for an enabled autofocus config missing backend/model")
	}

	cfg.Autofocus.Backend = "ollama"
	cfg.Autofocus.Model = "minicpm-v"
	if err := cfg.Validate(); err != nil {
		t.Errorf("expected a fully-specified autofocus config to validate, got: %v", err)
	}
}

func TestSaveAndLoadRoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "frameconform.json")

	cfg := Default()
	cfg.Photo.Quality = 77

	if err := cfg.SaveToFile(path); err != nil {
		t.Fatalf("SaveToFile: %v", err)
	}

	loaded, err := LoadFromFile(path)
	if err != nil {
		t.Fatalf("LoadFromFile: %v", err)
	}
	if loaded.Photo.Quality != 77 {
		t.Errorf("Photo.Quality = %d, want 77", loaded.Photo.Quality)
	}
}

func TestLoadFromFileMissingFileErrors(t *testing.T) {
	if _, err := LoadFromFile("/nonexistent/path/frameconform.json"); err == nil {
		t.Error("expected an error for a missing config file")
	}
}
