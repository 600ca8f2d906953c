// Package session wires the particle field, gesture pipeline, landmark
// tracker and telemetry into one object driven by the main loop.
package session

import (
	"context"
	"errors"
	"fmt"
	"image/color"
	"log/slog"
	"math/rand"
	"time"

	"github.com/pthm-cable/morph/camera"
	"github.com/pthm-cable/morph/config"
	"github.com/pthm-cable/morph/field"
	"github.com/pthm-cable/morph/gesture"
	"github.com/pthm-cable/morph/landmark"
	"github.com/pthm-cable/morph/shapes"
	"github.com/pthm-cable/morph/telemetry"
)

// Options configures a Session.
type Options struct {
	Config *config.Config

	// Seed for shapes and point seeds; 0 uses Config.Field.Seed, then the clock.
	Seed int64

	// Initial viewport size; zero uses Config.Screen.
	Width, Height int

	// Source of hand landmarks; nil runs with panel control only.
	Source landmark.Source

	// Rasterizer for text shapes; nil makes text fall back to random fill.
	Raster shapes.Rasterizer

	// Output receives CSV telemetry; nil disables it.
	Output *telemetry.OutputManager
}

// Session holds the complete interactive state.
type Session struct {
	cfg     *config.Config
	field   *field.Field
	ctrl    *Controller
	tracker *landmark.Tracker
	cam     *camera.Camera

	perf        *telemetry.PerfCollector
	output      *telemetry.OutputManager
	sampler     *telemetry.SignalSampler
	lastPerfLog float64

	tick         int
	time         float64
	trackerState landmark.State
}

// New creates a session. The field is built once at the viewport's base
// scale and keeps that scale for its lifetime.
func New(opts Options) (*Session, error) {
	cfg := opts.Config
	if cfg == nil {
		return nil, errors.New("session: nil config")
	}

	width, height := opts.Width, opts.Height
	if width <= 0 || height <= 0 {
		width, height = cfg.Screen.Width, cfg.Screen.Height
	}

	kind, err := shapes.ParseKind(cfg.Field.InitialShape)
	if err != nil {
		return nil, fmt.Errorf("field.initial_shape: %w", err)
	}
	pointColor, err := field.ParseHexColor(cfg.Render.Color)
	if err != nil {
		return nil, fmt.Errorf("render.color: %w", err)
	}

	seed := opts.Seed
	if seed == 0 {
		seed = cfg.Field.Seed
	}
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	rng := rand.New(rand.NewSource(seed))

	baseScale := cfg.BaseScaleFor(width)
	gen := shapes.NewGenerator(rng, opts.Raster)
	f := field.New(cfg.Field.PointCount, baseScale, field.TuningFromConfig(cfg), gen, rng)
	f.SetDeform(field.DeformFromConfig(cfg.Render))
	f.SetPointSize(float32(cfg.Field.PointSize))
	f.SetColor(pointColor)
	f.SetShape(shapes.Spec{Kind: kind})

	interp := gesture.NewInterpreter(gesture.ParamsFromConfig(cfg.Gesture))
	s := &Session{
		cfg:     cfg,
		field:   f,
		ctrl:    NewController(f, interp, gesture.ThresholdsFromConfig(cfg.Status)),
		cam:     camera.New(float32(width), float32(height), float32(cfg.Render.FOV), float32(cfg.Render.CameraDistance)),
		perf:    telemetry.NewPerfCollector(cfg.Telemetry.PerfWindow),
		output:  opts.Output,
		sampler: telemetry.NewSignalSampler(cfg.Telemetry.SignalInterval),
	}
	if opts.Source != nil {
		s.tracker = landmark.NewTracker(opts.Source)
	}

	slog.Info("session_created",
		"points", f.Count(),
		"base_scale", baseScale,
		"shape", kind.String(),
		"seed", seed,
		"detector", opts.Source != nil,
	)
	return s, nil
}

// Start begins asynchronous detector setup, if there is a detector.
func (s *Session) Start(ctx context.Context) {
	if s.tracker == nil {
		return
	}
	s.tracker.Start(ctx)
	s.trackerState = s.tracker.State()
}

// Step advances the field by one display frame and runs a detection poll.
// The frame's render phase starts when Step returns and ends at EndFrame.
func (s *Session) Step(dt float64) {
	s.perf.StartTick()
	s.tick++
	s.time += dt

	s.perf.StartPhase(telemetry.PhaseAdvance)
	s.field.Advance(s.time)

	s.perf.StartPhase(telemetry.PhaseDetect)
	s.Detect()

	s.perf.StartPhase(telemetry.PhaseRender)
}

// Detect polls the tracker and applies a new frame's gesture signal.
// Nothing happens when the frame has not changed since the last poll.
func (s *Session) Detect() {
	if s.tracker == nil {
		return
	}

	hands, ok, err := s.tracker.Detect()
	s.noteTrackerState()
	switch {
	case errors.Is(err, landmark.ErrNotReady):
		return
	case err != nil:
		slog.Debug("detect_failed", "error", err)
		return
	case !ok:
		return
	}

	_, changed := s.ctrl.OnHands(hands)
	if changed {
		s.writeEvent(telemetry.NewStatusEvent(s.time, s.tick, s.ctrl.Status()))
	}
}

// noteTrackerState records tracker transitions once.
func (s *Session) noteTrackerState() {
	st := s.tracker.State()
	if st == s.trackerState {
		return
	}
	s.trackerState = st
	switch st {
	case landmark.Ready:
		s.writeEvent(telemetry.Event{Time: s.time, Tick: s.tick, Type: telemetry.EventTrackerReady})
	case landmark.Failed:
		s.writeEvent(telemetry.Event{Time: s.time, Tick: s.tick, Type: telemetry.EventTrackerFailed, Detail: s.tracker.Err().Error()})
	}
}

// EndFrame closes the frame timing and writes due telemetry.
func (s *Session) EndFrame() {
	s.perf.EndTick()
	s.perf.RecordFrame()

	if s.output != nil && s.sampler.Due(s.time) {
		if err := s.output.WriteSignal(s.signalRecord()); err != nil {
			slog.Error("failed to write signal", "error", err)
		}
	}

	interval := s.cfg.Telemetry.LogInterval
	if interval > 0 && s.time-s.lastPerfLog >= interval {
		s.lastPerfLog = s.time
		stats := s.perf.Stats()
		slog.Info("perf", "tick", s.tick, "stats", stats)
		if err := s.output.WritePerf(stats, s.tick); err != nil {
			slog.Error("failed to write perf", "error", err)
		}
	}
}

func (s *Session) signalRecord() telemetry.SignalRecord {
	sig := s.ctrl.Signal()
	p := s.field.Params()
	return telemetry.SignalRecord{
		Time:       s.time,
		Tick:       s.tick,
		Hands:      sig.Hands,
		Openness:   sig.Openness,
		Closedness: sig.Closedness,
		Pointing:   sig.PointingActive,
		PointingX:  sig.PointingX,
		PointingY:  sig.PointingY,
		Status:     s.ctrl.Status(),
		Expansion:  p.Expansion,
		Scale:      p.Scale,
		OffsetX:    p.OffsetX,
		OffsetY:    p.OffsetY,
	}
}

// SelectShape retargets the field to a template shape.
func (s *Session) SelectShape(kind shapes.Kind) {
	spec := s.ctrl.SelectShape(kind)
	s.writeEvent(telemetry.NewShapeEvent(s.time, s.tick, spec.String()))
}

// SubmitText retargets the field to rendered text.
func (s *Session) SubmitText(text string) {
	spec := s.ctrl.SubmitText(text)
	s.writeEvent(telemetry.NewShapeEvent(s.time, s.tick, spec.String()))
}

// SetColor changes the point color.
func (s *Session) SetColor(c color.RGBA) {
	if s.ctrl.SetColor(c) {
		s.writeEvent(telemetry.NewColorEvent(s.time, s.tick, field.HexColor(c)))
	}
}

// Resize updates the viewport. The field keeps its construction-time base
// scale; only the projection changes.
func (s *Session) Resize(width, height int) {
	if width <= 0 || height <= 0 {
		return
	}
	if !s.cam.Resize(float32(width), float32(height)) {
		return
	}
	s.writeEvent(telemetry.Event{
		Time:   s.time,
		Tick:   s.tick,
		Type:   telemetry.EventResized,
		Detail: fmt.Sprintf("%dx%d", width, height),
	})
}

// writeEvent logs e and appends it to events.csv.
func (s *Session) writeEvent(e telemetry.Event) {
	e.LogEvent()
	if err := s.output.WriteEvent(e); err != nil {
		slog.Error("failed to write event", "error", err)
	}
}

// Close cancels detector setup and closes the landmark source and outputs.
func (s *Session) Close() error {
	var errs []error
	if s.tracker != nil {
		errs = append(errs, s.tracker.Close())
	}
	errs = append(errs, s.output.Close())
	return errors.Join(errs...)
}

// Field returns the particle field.
func (s *Session) Field() *field.Field { return s.field }

// Camera returns the viewport camera.
func (s *Session) Camera() *camera.Camera { return s.cam }

// Controller returns the interaction controller.
func (s *Session) Controller() *Controller { return s.ctrl }

// Perf returns the frame timing collector.
func (s *Session) Perf() *telemetry.PerfCollector { return s.perf }

// Time returns seconds since the session started.
func (s *Session) Time() float64 { return s.time }

// Tick returns the number of frames stepped.
func (s *Session) Tick() int { return s.tick }
