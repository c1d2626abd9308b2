package main

import (
	"flag"
	"log/slog"
	"os"
	"time"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/commons/config"
	"github.com/pthm-cable/commons/game"
	"github.com/pthm-cable/commons/ui"
)

func main() {
	// CLI flags
	configPath := flag.String("config", "", "Path to config.yaml (empty = use defaults)")
	headless := flag.Bool("headless", false, "Run without graphics")
	logStats := flag.Bool("log-stats", false, "Output window stats via slog")
	outputDir := flag.String("output-dir", "", "Output directory for CSV logs and config snapshot")
	historyDB := flag.String("history-db", "", "SQLite file for population history (empty = disabled)")
	seed := flag.Uint64("seed", 0, "RNG seed (0 = time-based)")
	maxDays := flag.Int("max-days", 0, "Stop after N simulated days (0 = unlimited, headless requires > 0)")
	spawn := flag.Int("spawn", 0, "Predators to spawn at start in addition to the config")

	flag.Parse()

	// Set up slog (JSON to stdout for structured logging)
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	cfg, err := config.Load(*configPath)
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	rngSeed := *seed
	if rngSeed == 0 {
		rngSeed = uint64(time.Now().UnixNano())
	}

	opts := game.Options{
		Seed:      rngSeed,
		LogStats:  *logStats,
		OutputDir: *outputDir,
		HistoryDB: *historyDB,
	}

	g, err := game.New(cfg, opts)
	if err != nil {
		slog.Error("failed to create simulation", "error", err)
		os.Exit(1)
	}
	defer g.Close()

	for i := 0; i < *spawn; i++ {
		g.SpawnPredator()
	}

	if *headless {
		runHeadless(g, *maxDays)
		return
	}
	runWindow(g, cfg, *maxDays)
}

// runHeadless advances the simulation in one-day ticks without raylib.
func runHeadless(g *game.Game, maxDays int) {
	if maxDays <= 0 {
		slog.Error("headless mode requires -max-days")
		return
	}

	slog.Info("starting headless simulation",
		"seed", g.Seed(),
		"max_days", maxDays,
	)

	start := time.Now()
	snap := g.RunDays(maxDays)

	slog.Info("simulation finished",
		"day", snap.Day,
		"rabbits", snap.Rabbits,
		"predators", snap.Predators,
		"ticks", g.Ticks(),
		"elapsed", time.Since(start).String(),
	)
}

// runWindow drives the simulation from the raylib frame loop, one Tick per frame.
func runWindow(g *game.Game, cfg *config.Config, maxDays int) {
	rl.InitWindow(int32(cfg.Screen.Width), int32(cfg.Screen.Height), "Tragedy of the Commons")
	defer rl.CloseWindow()

	rl.SetTargetFPS(int32(cfg.Screen.TargetFPS))

	hud := ui.NewHUD(10, 10, 340)
	perfPanel := ui.NewPerfPanel(int32(cfg.Screen.Width)-300, 10)
	controls := ui.NewControls(10, 0)
	showPerf := false

	for !rl.WindowShouldClose() {
		g.RecordFrame()
		snap := g.Tick(float64(rl.GetFrameTime()))

		if maxDays > 0 && snap.Day >= int64(maxDays) {
			slog.Info("max days reached", "day", snap.Day)
			break
		}

		rl.BeginDrawing()
		rl.ClearBackground(rl.Color{R: 15, G: 20, B: 25, A: 255})

		feeding := g.LastFeeding()
		perf := g.Perf()
		bottom := hud.Draw(ui.HUDData{
			Title:           "Tragedy of the Commons",
			Rabbits:         snap.Rabbits,
			Predators:       snap.Predators,
			Day:             snap.Day,
			DaysPerSecond:   cfg.Clock.DaysPerSecond,
			MeanNourishment: g.MeanNourishment(),
			MaxNourishment:  cfg.Predator.MaxNourishment,
			LastPool:        feeding.Pool,
			LastShare:       feeding.Share,
			FPS:             int32(perf.FPS),
			Paused:          snap.Paused,
		})

		controls.SetPosition(10, float32(bottom+10))
		actions := controls.Poll(snap.Paused)
		if actions.Has(ui.ActionTogglePause) {
			g.TogglePause()
		}
		if actions.Has(ui.ActionSpawnPredator) {
			g.SpawnPredator()
		}
		if actions.Has(ui.ActionTogglePerf) {
			showPerf = !showPerf
		}

		if showPerf {
			perfPanel.Draw(ui.PerfPanelData{
				PhaseAvg:    perf.PhaseAvg,
				Total:       perf.AvgTickDuration,
				DaysPerTick: perf.DaysPerTick,
				Registry:    g.Phases(),
			})
		}

		hud.DrawControls(int32(cfg.Screen.Height), ui.ControlsLegend)
		rl.EndDrawing()
	}
}
