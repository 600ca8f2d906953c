// Package config provides configuration loading and access for the particle morph.
package config

import (
	_ "embed"
	"fmt"
	"os"

	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"
)

//go:embed defaults.yaml
var defaultsYAML []byte

// Config holds all configuration parameters.
type Config struct {
	Screen    ScreenConfig    `yaml:"screen" envPrefix:"SCREEN_"`
	Field     FieldConfig     `yaml:"field" envPrefix:"FIELD_"`
	Gesture   GestureConfig   `yaml:"gesture" envPrefix:"GESTURE_"`
	Status    StatusConfig    `yaml:"status" envPrefix:"STATUS_"`
	Render    RenderConfig    `yaml:"render" envPrefix:"RENDER_"`
	Detector  DetectorConfig  `yaml:"detector" envPrefix:"DETECTOR_"`
	Telemetry TelemetryConfig `yaml:"telemetry" envPrefix:"TELEMETRY_"`

	// Derived values computed after loading
	Derived DerivedConfig `yaml:"-"`
}

// ScreenConfig holds display settings.
type ScreenConfig struct {
	Width     int    `yaml:"width" env:"WIDTH"`
	Height    int    `yaml:"height" env:"HEIGHT"`
	TargetFPS int    `yaml:"target_fps" env:"TARGET_FPS"`
	Title     string `yaml:"title" env:"TITLE"`
}

// FieldConfig holds particle field parameters.
type FieldConfig struct {
	PointCount   int     `yaml:"point_count" env:"POINT_COUNT"`
	InitialShape string  `yaml:"initial_shape" env:"INITIAL_SHAPE"`
	MixRate      float64 `yaml:"mix_rate" env:"MIX_RATE"`           // Fraction of remaining distance closed per Advance
	PointSize    float64 `yaml:"point_size" env:"POINT_SIZE"`       // Base point size uniform
	MobileWidth  int     `yaml:"mobile_width" env:"MOBILE_WIDTH"`   // Viewports narrower than this use MobileScale
	MobileScale  float64 `yaml:"mobile_scale" env:"MOBILE_SCALE"`   // Base scale on narrow viewports
	DesktopScale float64 `yaml:"desktop_scale" env:"DESKTOP_SCALE"` // Base scale otherwise
	Seed         int64   `yaml:"seed" env:"SEED"`                   // 0 = time-based
}

// GestureConfig holds gesture interpretation and smoothing parameters.
// All values are empirically tuned.
type GestureConfig struct {
	ExpansionDeadzone float64 `yaml:"expansion_deadzone" env:"EXPANSION_DEADZONE"` // Openness below this = no expansion
	ExpansionRescale  float64 `yaml:"expansion_rescale" env:"EXPANSION_RESCALE"`   // Stretch of the remaining openness range
	ClosedDeadzone    float64 `yaml:"closed_deadzone" env:"CLOSED_DEADZONE"`       // Closedness below this = no shrink
	ShrinkFactor      float64 `yaml:"shrink_factor" env:"SHRINK_FACTOR"`           // Scale lost per unit of effective closedness
	Smoothing         float64 `yaml:"smoothing" env:"SMOOTHING"`                   // Expansion/scale approach factor per signal
	OffsetFollow      float64 `yaml:"offset_follow" env:"OFFSET_FOLLOW"`           // Offset approach factor while pointing
	OffsetReturn      float64 `yaml:"offset_return" env:"OFFSET_RETURN"`           // Offset approach factor when recentering
	OffsetSpanX       float64 `yaml:"offset_span_x" env:"OFFSET_SPAN_X"`           // World width covered by pointing x in [0,1]
	OffsetSpanY       float64 `yaml:"offset_span_y" env:"OFFSET_SPAN_Y"`           // World height covered by pointing y in [0,1]
	ClosedOffset      float64 `yaml:"closed_offset" env:"CLOSED_OFFSET"`           // Normalized tip distance mapped to closedness 1
	ClosedSpan        float64 `yaml:"closed_span" env:"CLOSED_SPAN"`               // Tip distance range from closed to open
	SpreadPalms       float64 `yaml:"spread_palms" env:"SPREAD_PALMS"`             // Index-pinky spread (in palm sizes) for openness 1
	MirrorX           bool    `yaml:"mirror_x" env:"MIRROR_X"`                     // Mirror pointing x for a front-facing camera
}

// StatusConfig holds thresholds for the debug status label.
type StatusConfig struct {
	ClosedThreshold  float64 `yaml:"closed_threshold" env:"CLOSED_THRESHOLD"`
	TensionThreshold float64 `yaml:"tension_threshold" env:"TENSION_THRESHOLD"`
}

// RenderConfig holds render backend parameters.
type RenderConfig struct {
	Color           string  `yaml:"color" env:"COLOR"` // Initial point color, #rrggbb
	FOV             float64 `yaml:"fov" env:"FOV"`
	CameraDistance  float64 `yaml:"camera_distance" env:"CAMERA_DISTANCE"`
	ExpansionBase   float64 `yaml:"expansion_base" env:"EXPANSION_BASE"`     // Per-point expansion factor at seed 0
	ExpansionRandom float64 `yaml:"expansion_random" env:"EXPANSION_RANDOM"` // Added expansion factor at seed 1
	Jitter          float64 `yaml:"jitter" env:"JITTER"`                     // Amplitude of the time-based wobble
	SizeReference   float64 `yaml:"size_reference" env:"SIZE_REFERENCE"`     // Point size numerator for depth attenuation
}

// DetectorConfig holds landmark source settings.
type DetectorConfig struct {
	Source     string `yaml:"source" env:"SOURCE"`           // "none" or "replay"
	ReplayPath string `yaml:"replay_path" env:"REPLAY_PATH"` // CSV file for the replay source
	Loop       bool   `yaml:"loop" env:"LOOP"`               // Restart the replay when it ends
}

// TelemetryConfig holds telemetry parameters.
type TelemetryConfig struct {
	PerfWindow     int     `yaml:"perf_window" env:"PERF_WINDOW"`         // Ticks averaged by the perf collector
	LogInterval    float64 `yaml:"log_interval" env:"LOG_INTERVAL"`       // Seconds between perf log lines (0 = off)
	SignalInterval float64 `yaml:"signal_interval" env:"SIGNAL_INTERVAL"` // Seconds between signal CSV rows
}

// DerivedConfig holds computed values derived from the loaded config.
type DerivedConfig struct {
	BaseScale float32 // Field base scale for the configured screen width
	MixRate32 float32 // Field.MixRate as float32
}

// global holds the loaded configuration.
var global *Config

// Init loads configuration from the given path, or uses embedded defaults if path is empty.
// Must be called before Cfg().
func Init(path string) error {
	cfg, err := Load(path)
	if err != nil {
		return err
	}
	global = cfg
	return nil
}

// Cfg returns the global configuration. Panics if Init was not called.
func Cfg() *Config {
	if global == nil {
		panic("config: Cfg() called before Init()")
	}
	return global
}

// Load loads configuration from a YAML file, merging with embedded defaults.
// If path is empty, only embedded defaults are used. MORPH_* environment
// variables override both.
func Load(path string) (*Config, error) {
	cfg := &Config{}
	if err := yaml.Unmarshal(defaultsYAML, cfg); err != nil {
		return nil, fmt.Errorf("parsing embedded defaults: %w", err)
	}

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
		// Unmarshal into same struct - only overwrites fields present in file
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
	}

	if err := env.ParseWithOptions(cfg, env.Options{Prefix: "MORPH_"}); err != nil {
		return nil, fmt.Errorf("parsing environment: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	cfg.computeDerived()

	return cfg, nil
}

// validate rejects values the field cannot run with.
func (c *Config) validate() error {
	if c.Field.PointCount < 1 {
		return fmt.Errorf("field.point_count must be positive, got %d", c.Field.PointCount)
	}
	if c.Field.MixRate <= 0 || c.Field.MixRate > 1 {
		return fmt.Errorf("field.mix_rate must be in (0,1], got %g", c.Field.MixRate)
	}
	switch c.Detector.Source {
	case "", "none", "replay":
	default:
		return fmt.Errorf("detector.source %q: want none or replay", c.Detector.Source)
	}
	return nil
}

// computeDerived calculates values derived from loaded config.
func (c *Config) computeDerived() {
	c.Derived.BaseScale = c.BaseScaleFor(c.Screen.Width)
	c.Derived.MixRate32 = float32(c.Field.MixRate)
}

// BaseScaleFor returns the field base scale for a viewport width.
func (c *Config) BaseScaleFor(width int) float32 {
	if width < c.Field.MobileWidth {
		return float32(c.Field.MobileScale)
	}
	return float32(c.Field.DesktopScale)
}

// WriteYAML writes the configuration to a YAML file.
func (c *Config) WriteYAML(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}
	return nil
}
