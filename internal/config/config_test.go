package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadMissingFileReturnsDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.ReportFormat != "json" || cfg.SearchMode != "fixed" {
		t.Errorf("unexpected defaults: %+v", cfg)
	}
}

func TestSaveAndLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "conf", "config.yaml")
	want := &Config{
		CalcWorkers:   4,
		SearchWorkers: 8,
		ReportFormat:  "yaml",
		SearchMode:    "regex",
		LastRoot:      "/data",
	}
	if err := Save(want, path); err != nil {
		t.Fatalf("Save: %v", err)
	}

	got, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if *got != *want {
		t.Errorf("round trip = %+v, want %+v", got, want)
	}
}

func TestLoadRejectsInvalid(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"negative workers", "calc_workers: -1\n"},
		{"bad format", "report_format: xml\n"},
		{"bad mode", "search_mode: fuzzy\n"},
		{"not yaml", "{{{{\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "config.yaml")
			if err := os.WriteFile(path, []byte(tt.body), 0o644); err != nil {
				t.Fatal(err)
			}
			if _, err := Load(path); err == nil {
				t.Error("Load accepted invalid config")
			}
		})
	}
}

func TestValidateAcceptsEmptyFields(t *testing.T) {
	if err := (&Config{}).Validate(); err != nil {
		t.Errorf("zero config invalid: %v", err)
	}
}
