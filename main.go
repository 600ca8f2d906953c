package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"os/signal"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/morph/config"
	"github.com/pthm-cable/morph/landmark"
	"github.com/pthm-cable/morph/renderer"
	"github.com/pthm-cable/morph/session"
	"github.com/pthm-cable/morph/shapes"
	"github.com/pthm-cable/morph/telemetry"
	"github.com/pthm-cable/morph/ui"
)

const headlessDT = 1.0 / 60

func main() {
	// CLI flags
	configPath := flag.String("config", "", "Path to config.yaml (empty = use defaults)")
	headless := flag.Bool("headless", false, "Run without graphics")
	outputDir := flag.String("output-dir", "", "Output directory for CSV logs and config snapshot")
	replayPath := flag.String("replay", "", "Landmark recording to play (overrides detector config)")
	seed := flag.Int64("seed", 0, "RNG seed (0 = config, then time-based)")
	maxTicks := flag.Int("max-ticks", 0, "Stop after N ticks (0 = unlimited)")
	debug := flag.Bool("debug", false, "Enable debug logging")

	flag.Parse()

	// Set up slog (JSON to stdout for structured logging)
	level := slog.LevelInfo
	if *debug {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: level})))

	if err := config.Init(*configPath); err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	cfg := config.Cfg()
	if *replayPath != "" {
		cfg.Detector.Source = "replay"
		cfg.Detector.ReplayPath = *replayPath
	}

	output, err := telemetry.NewOutputManager(*outputDir)
	if err != nil {
		slog.Error("failed to create output dir", "error", err)
		os.Exit(1)
	}
	if err := output.WriteConfig(cfg); err != nil {
		slog.Error("failed to write config snapshot", "error", err)
	}
	if dir := output.Dir(); dir != "" {
		slog.Info("writing telemetry", "dir", dir)
	}

	raster, err := shapes.NewGlyphRasterizer()
	if err != nil {
		// Text shapes fall back to a random cloud
		slog.Warn("text rasterizer unavailable", "error", err)
	}

	opts := session.Options{
		Config: cfg,
		Seed:   *seed,
		Source: landmarkSource(cfg),
		Output: output,
	}
	if raster != nil {
		opts.Raster = raster
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if *headless {
		runHeadless(ctx, opts, *maxTicks)
		return
	}
	runWindow(ctx, opts, *maxTicks)
}

// landmarkSource returns the configured detector, or nil for panel-only control.
func landmarkSource(cfg *config.Config) landmark.Source {
	switch cfg.Detector.Source {
	case "replay":
		return landmark.NewReplay(cfg.Detector.ReplayPath, cfg.Detector.Loop)
	case "", "none":
		return nil
	default:
		slog.Warn("unknown detector source, running without one", "source", cfg.Detector.Source)
		return nil
	}
}

// runHeadless steps the session at a fixed rate without a window.
func runHeadless(ctx context.Context, opts session.Options, maxTicks int) {
	s, err := session.New(opts)
	if err != nil {
		slog.Error("failed to create session", "error", err)
		os.Exit(1)
	}
	defer closeSession(s)
	s.Start(ctx)

	slog.Info("starting headless run", "max_ticks", maxTicks)
	for ctx.Err() == nil {
		s.Step(headlessDT)
		s.EndFrame()

		if maxTicks > 0 && s.Tick() >= maxTicks {
			slog.Info("max ticks reached", "tick", s.Tick())
			return
		}
	}
}

// runWindow opens the raylib window and runs the interactive loop.
func runWindow(ctx context.Context, opts session.Options, maxTicks int) {
	cfg := opts.Config
	rl.SetConfigFlags(rl.FlagWindowResizable | rl.FlagMsaa4xHint)
	rl.InitWindow(int32(cfg.Screen.Width), int32(cfg.Screen.Height), cfg.Screen.Title)
	defer rl.CloseWindow()
	rl.SetTargetFPS(int32(cfg.Screen.TargetFPS))

	opts.Width, opts.Height = rl.GetScreenWidth(), rl.GetScreenHeight()
	s, err := session.New(opts)
	if err != nil {
		slog.Error("failed to create session", "error", err)
		return
	}
	defer closeSession(s)
	s.Start(ctx)

	cloud := renderer.NewPointCloud(s.Field().Count())
	cloud.Init()
	defer cloud.Unload()
	cloud.PixelRatio = rl.GetWindowScaleDPI().X

	panel := ui.NewControlPanel(int32(opts.Width)-230, 10, 220)
	perf := ui.NewPerfPanel(10, 10)
	hud := ui.NewHUD()

	for !rl.WindowShouldClose() && ctx.Err() == nil {
		if rl.IsWindowResized() {
			w, h := rl.GetScreenWidth(), rl.GetScreenHeight()
			s.Resize(w, h)
			panel.SetPosition(int32(w)-230, 10)
		}
		if !panel.Editing() {
			if rl.IsKeyPressed(rl.KeyTab) {
				panel.Toggle()
			}
			if rl.IsKeyPressed(rl.KeyF3) {
				perf.Toggle()
			}
		}

		s.Step(float64(rl.GetFrameTime()))

		rl.BeginDrawing()
		rl.ClearBackground(rl.Black)
		cloud.Draw(s.Field(), s.Camera())

		screenH := int32(rl.GetScreenHeight())
		hud.Draw(ui.HUDData{
			Title:        cfg.Screen.Title,
			Points:       s.Field().Count(),
			Drawn:        cloud.Drawn(),
			Tick:         s.Tick(),
			FPS:          s.Perf().Stats().FPS,
			ScreenHeight: screenH,
		})
		hud.DrawControls(screenH, "[Tab] panel  [F3] perf")
		perf.Draw(s.Perf().Stats())

		for _, a := range panel.Draw(s.Readout().Lines(), s.Field().Params().Color) {
			switch a.Kind {
			case ui.ActionShape:
				s.SelectShape(a.Shape)
			case ui.ActionText:
				s.SubmitText(a.Text)
			case ui.ActionColor:
				s.SetColor(a.Color)
			}
		}
		rl.EndDrawing()
		s.EndFrame()

		if maxTicks > 0 && s.Tick() >= maxTicks {
			break
		}
	}
}

func closeSession(s *session.Session) {
	if err := s.Close(); err != nil {
		slog.Error("failed to close session", "error", err)
	}
}
