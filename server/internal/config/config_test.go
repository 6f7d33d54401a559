package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultIsNormalized(t *testing.T) {
	cfg := Default()
	if cfg.World.Width != WorldWidth || cfg.World.Height != WorldHeight {
		t.Fatalf("unexpected default world bounds: %+v", cfg.World)
	}
	if _, ok := cfg.ShipClasses["fighter"]; !ok {
		t.Fatal("expected default ship classes to include fighter")
	}
	if _, ok := cfg.NPCClasses["Scouter"]; !ok {
		t.Fatal("expected default npc classes to include Scouter")
	}
}

func TestLoadFillsMissingSections(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	yamlBody := "world:\n  width: 5000\n  height: 5000\n"
	if err := os.WriteFile(path, []byte(yamlBody), 0o644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.World.Width != 5000 || cfg.World.Height != 5000 {
		t.Fatalf("expected overridden world bounds, got %+v", cfg.World)
	}
	if _, ok := cfg.ShipClasses["scout"]; !ok {
		t.Fatal("expected ship classes to fall back to defaults")
	}
}

func TestLoadMissingFileErrors(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Fatal("expected error for missing config file")
	}
}

func TestLoadReadsObservabilityToggle(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	yamlBody := "observability:\n  enablePprofTrace: true\n"
	if err := os.WriteFile(path, []byte(yamlBody), 0o644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if !cfg.Observability.EnablePprofTrace {
		t.Fatal("expected EnablePprofTrace to be read from the fixture")
	}
}
