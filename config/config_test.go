package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load defaults: %v", err)
	}

	if cfg.Field.PointCount != 40000 {
		t.Errorf("expected 40000 points, got %d", cfg.Field.PointCount)
	}
	if cfg.Field.MixRate != 0.05 {
		t.Errorf("expected mix rate 0.05, got %v", cfg.Field.MixRate)
	}
	if cfg.Gesture.ExpansionDeadzone != 0.2 || cfg.Gesture.ClosedDeadzone != 0.3 {
		t.Errorf("unexpected dead zones: %+v", cfg.Gesture)
	}
	if cfg.Derived.BaseScale != 1.0 {
		t.Errorf("expected desktop base scale 1.0, got %v", cfg.Derived.BaseScale)
	}
}

func TestLoadMergesUserFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	data := []byte("field:\n  point_count: 500\nscreen:\n  width: 480\n")
	if err := os.WriteFile(path, data, 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.Field.PointCount != 500 {
		t.Errorf("expected overridden point count 500, got %d", cfg.Field.PointCount)
	}
	// Untouched fields keep their defaults
	if cfg.Gesture.ShrinkFactor != 0.5 {
		t.Errorf("expected default shrink factor, got %v", cfg.Gesture.ShrinkFactor)
	}
	if cfg.Derived.BaseScale != 0.5 {
		t.Errorf("expected mobile base scale for narrow screen, got %v", cfg.Derived.BaseScale)
	}
}

func TestLoadEnvOverride(t *testing.T) {
	t.Setenv("MORPH_FIELD_POINT_COUNT", "1234")
	t.Setenv("MORPH_GESTURE_MIRROR_X", "false")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Field.PointCount != 1234 {
		t.Errorf("expected env point count 1234, got %d", cfg.Field.PointCount)
	}
	if cfg.Gesture.MirrorX {
		t.Error("expected env to disable mirror_x")
	}
}

func TestLoadRejectsInvalid(t *testing.T) {
	tests := []struct {
		name string
		yaml string
	}{
		{"zero points", "field:\n  point_count: 0\n"},
		{"mix rate above one", "field:\n  mix_rate: 1.5\n"},
		{"unknown source", "detector:\n  source: webcam\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "config.yaml")
			if err := os.WriteFile(path, []byte(tt.yaml), 0644); err != nil {
				t.Fatal(err)
			}
			if _, err := Load(path); err == nil {
				t.Error("expected error")
			}
		})
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestWriteYAMLRoundTrip(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatal(err)
	}
	cfg.Gesture.ClosedDeadzone = 0.42

	path := filepath.Join(t.TempDir(), "out.yaml")
	if err := cfg.WriteYAML(path); err != nil {
		t.Fatalf("WriteYAML: %v", err)
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load written config: %v", err)
	}
	if loaded.Gesture.ClosedDeadzone != 0.42 {
		t.Errorf("expected 0.42 after round trip, got %v", loaded.Gesture.ClosedDeadzone)
	}
}
