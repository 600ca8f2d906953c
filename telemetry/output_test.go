package telemetry

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gocarina/gocsv"
	"github.com/pthm-cable/morph/config"
)

func TestOutputManager_Disabled(t *testing.T) {
	om, err := NewOutputManager("")
	if err != nil || om != nil {
		t.Fatalf("expected nil manager for empty dir, got %v, %v", om, err)
	}
	// Nil receiver is a no-op
	if err := om.WriteSignal(SignalRecord{}); err != nil {
		t.Error(err)
	}
	if err := om.WriteEvent(Event{}); err != nil {
		t.Error(err)
	}
	if err := om.Close(); err != nil {
		t.Error(err)
	}
	if om.Dir() != "" {
		t.Error("expected empty dir")
	}
}

func TestOutputManager_WritesCSV(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "run")
	om, err := NewOutputManager(dir)
	if err != nil {
		t.Fatalf("NewOutputManager: %v", err)
	}
	if om.Dir() != dir {
		t.Errorf("Dir = %q, want %q", om.Dir(), dir)
	}

	for i := 0; i < 3; i++ {
		rec := SignalRecord{Time: float64(i) * 0.1, Tick: i, Hands: 1, Openness: 0.5, Status: "Tension"}
		if err := om.WriteSignal(rec); err != nil {
			t.Fatal(err)
		}
	}
	if err := om.WriteEvent(NewShapeEvent(1.5, 90, "heart")); err != nil {
		t.Fatal(err)
	}
	if err := om.WritePerf(PerfStats{}, 120); err != nil {
		t.Fatal(err)
	}
	cfg, err := config.Load("")
	if err != nil {
		t.Fatal(err)
	}
	if err := om.WriteConfig(cfg); err != nil {
		t.Fatal(err)
	}
	if err := om.Close(); err != nil {
		t.Fatal(err)
	}

	f, err := os.Open(filepath.Join(dir, "signals.csv"))
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	var got []SignalRecord
	if err := gocsv.UnmarshalFile(f, &got); err != nil {
		t.Fatalf("reading signals.csv: %v", err)
	}
	if len(got) != 3 || got[2].Tick != 2 || got[1].Status != "Tension" {
		t.Errorf("unexpected signal rows %+v", got)
	}

	events, err := os.ReadFile(filepath.Join(dir, "events.csv"))
	if err != nil {
		t.Fatal(err)
	}
	lines := strings.Split(strings.TrimSpace(string(events)), "\n")
	if len(lines) != 2 || !strings.Contains(lines[1], "shape_changed") {
		t.Errorf("unexpected events.csv:\n%s", events)
	}

	if _, err := config.Load(filepath.Join(dir, "config.yaml")); err != nil {
		t.Errorf("config snapshot does not load: %v", err)
	}
}

func TestSignalSampler(t *testing.T) {
	s := NewSignalSampler(0.1)
	times := []float64{0, 0.05, 0.1, 0.12, 0.21}
	want := []bool{true, false, true, false, true}
	for i, tm := range times {
		if got := s.Due(tm); got != want[i] {
			t.Errorf("Due(%v) = %v, want %v", tm, got, want[i])
		}
	}

	every := NewSignalSampler(0)
	if !every.Due(1) || !every.Due(1) {
		t.Error("zero interval should sample every call")
	}
}
