// Package telemetry records frame timing, gesture signals and interaction
// events, and writes them as CSV.
package telemetry

import (
	"log/slog"
	"math"
	"time"

	"gonum.org/v1/gonum/floats"
)

// Phase identifies a timed part of a frame.
type Phase uint8

const (
	PhaseAdvance Phase = iota // Field blend
	PhaseDetect               // Landmark detection and gesture interpretation
	PhaseRender               // Position evaluation and drawing
	numPhases
)

var phaseNames = [numPhases]string{
	PhaseAdvance: "advance",
	PhaseDetect:  "detect",
	PhaseRender:  "render",
}

func (p Phase) String() string {
	if p < numPhases {
		return phaseNames[p]
	}
	return "unknown"
}

// Phases returns all phases in frame order.
func Phases() []Phase {
	return []Phase{PhaseAdvance, PhaseDetect, PhaseRender}
}

// PerfCollector tracks frame timing over a rolling window. Samples are kept
// in fixed ring buffers so recording does not allocate.
type PerfCollector struct {
	windowSize  int
	ticks       []float64 // Seconds per tick
	phases      [numPhases][]float64
	writeIndex  int
	sampleCount int

	current    [numPhases]time.Duration
	tickStart  time.Time
	phaseStart time.Time
	lastPhase  Phase
	inPhase    bool

	lastFrameTime time.Time
	frameDuration time.Duration

	now func() time.Time
}

// NewPerfCollector creates a collector averaging over windowSize ticks.
func NewPerfCollector(windowSize int) *PerfCollector {
	if windowSize < 1 {
		windowSize = 60
	}
	p := &PerfCollector{
		windowSize: windowSize,
		ticks:      make([]float64, windowSize),
		now:        time.Now,
	}
	for i := range p.phases {
		p.phases[i] = make([]float64, windowSize)
	}
	return p
}

// StartTick begins timing a frame.
func (p *PerfCollector) StartTick() {
	p.tickStart = p.now()
	p.current = [numPhases]time.Duration{}
	p.inPhase = false
}

// StartPhase ends the running phase, if any, and starts timing phase.
func (p *PerfCollector) StartPhase(phase Phase) {
	now := p.now()
	if p.inPhase {
		p.current[p.lastPhase] += now.Sub(p.phaseStart)
	}
	p.phaseStart = now
	p.lastPhase = phase
	p.inPhase = phase < numPhases
}

// EndTick finishes the frame and records the sample.
func (p *PerfCollector) EndTick() {
	now := p.now()
	if p.inPhase {
		p.current[p.lastPhase] += now.Sub(p.phaseStart)
		p.inPhase = false
	}

	p.ticks[p.writeIndex] = now.Sub(p.tickStart).Seconds()
	for i := range p.phases {
		p.phases[i][p.writeIndex] = p.current[i].Seconds()
	}
	p.writeIndex = (p.writeIndex + 1) % p.windowSize
	if p.sampleCount < p.windowSize {
		p.sampleCount++
	}
}

// RecordFrame records the interval since the previous presented frame.
func (p *PerfCollector) RecordFrame() {
	now := p.now()
	if !p.lastFrameTime.IsZero() {
		p.frameDuration = now.Sub(p.lastFrameTime)
	}
	p.lastFrameTime = now
}

// PerfStats holds aggregated performance statistics.
type PerfStats struct {
	AvgTickDuration time.Duration
	MinTickDuration time.Duration
	MaxTickDuration time.Duration

	PhaseAvg [numPhases]time.Duration
	PhasePct [numPhases]float64 // Percent of the average tick

	TicksPerSecond float64

	FrameDuration time.Duration
	FPS           float64
}

func seconds(s float64) time.Duration {
	return time.Duration(math.Round(s * float64(time.Second)))
}

// Stats computes aggregated statistics over the current window.
func (p *PerfCollector) Stats() PerfStats {
	var st PerfStats
	st.FrameDuration = p.frameDuration
	if p.frameDuration > 0 {
		st.FPS = float64(time.Second) / float64(p.frameDuration)
	}
	if p.sampleCount == 0 {
		return st
	}

	n := float64(p.sampleCount)
	ticks := p.ticks[:p.sampleCount]
	avg := floats.Sum(ticks) / n
	st.AvgTickDuration = seconds(avg)
	st.MinTickDuration = seconds(floats.Min(ticks))
	st.MaxTickDuration = seconds(floats.Max(ticks))

	for i := range p.phases {
		phaseAvg := floats.Sum(p.phases[i][:p.sampleCount]) / n
		st.PhaseAvg[i] = seconds(phaseAvg)
		if avg > 0 {
			st.PhasePct[i] = phaseAvg / avg * 100
		}
	}
	if avg > 0 {
		st.TicksPerSecond = 1 / avg
	}
	return st
}

// LogValue implements slog.LogValuer for structured logging.
func (s PerfStats) LogValue() slog.Value {
	attrs := []slog.Attr{
		slog.Int64("avg_tick_us", s.AvgTickDuration.Microseconds()),
		slog.Int64("min_tick_us", s.MinTickDuration.Microseconds()),
		slog.Int64("max_tick_us", s.MaxTickDuration.Microseconds()),
		slog.Float64("ticks_per_sec", s.TicksPerSecond),
	}
	if s.FPS > 0 {
		attrs = append(attrs, slog.Float64("fps", s.FPS))
	}
	for _, ph := range Phases() {
		if s.PhasePct[ph] > 0.1 {
			attrs = append(attrs, slog.Float64(ph.String()+"_pct", s.PhasePct[ph]))
		}
	}
	return slog.GroupValue(attrs...)
}

// PerfStatsCSV is a flat struct for CSV export of performance stats.
type PerfStatsCSV struct {
	Tick        int     `csv:"tick"`
	AvgTickUS   int64   `csv:"avg_tick_us"`
	MinTickUS   int64   `csv:"min_tick_us"`
	MaxTickUS   int64   `csv:"max_tick_us"`
	TicksPerSec float64 `csv:"ticks_per_sec"`
	FPS         float64 `csv:"fps"`
	AdvancePct  float64 `csv:"advance_pct"`
	DetectPct   float64 `csv:"detect_pct"`
	RenderPct   float64 `csv:"render_pct"`
}

// ToCSV converts PerfStats to a flat CSV-friendly struct.
func (s PerfStats) ToCSV(tick int) PerfStatsCSV {
	return PerfStatsCSV{
		Tick:        tick,
		AvgTickUS:   s.AvgTickDuration.Microseconds(),
		MinTickUS:   s.MinTickDuration.Microseconds(),
		MaxTickUS:   s.MaxTickDuration.Microseconds(),
		TicksPerSec: s.TicksPerSecond,
		FPS:         s.FPS,
		AdvancePct:  s.PhasePct[PhaseAdvance],
		DetectPct:   s.PhasePct[PhaseDetect],
		RenderPct:   s.PhasePct[PhaseRender],
	}
}
