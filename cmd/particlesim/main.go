// Command particlesim runs the Barnes-Hut particle simulation, either
// in a raylib window with a live parameter panel or headlessly with
// periodic progress logging, matching the reference application's
// windowed/headless split.
package main

import (
	"flag"
	"fmt"
	"log/slog"
	"math"
	"math/rand"
	"os"
	"time"

	gui "github.com/gen2brain/raylib-go/raygui"
	rl "github.com/gen2brain/raylib-go/raylib"

	"gonum.org/v1/gonum/spatial/r2"

	"github.com/titouanl/particlesim/areas"
	"github.com/titouanl/particlesim/camera"
	"github.com/titouanl/particlesim/config"
	"github.com/titouanl/particlesim/events"
	"github.com/titouanl/particlesim/generators"
	"github.com/titouanl/particlesim/integrator"
	"github.com/titouanl/particlesim/particles"
	"github.com/titouanl/particlesim/quadtree"
	"github.com/titouanl/particlesim/sim"
	"github.com/titouanl/particlesim/systems"
	"github.com/titouanl/particlesim/telemetry"
	"github.com/titouanl/particlesim/worker"
)

var (
	configPath = flag.String("config", "", "Path to a YAML config file overlaying the embedded defaults")
	seed       = flag.Int64("seed", 1, "Seed for the initial particle generator's RNG")
	speed      = flag.Int("speed", 1, "Substeps run per frame (1-10)")
	logFile    = flag.String("logfile", "", "Write structured logs to file instead of stderr")
	headless   = flag.Bool("headless", false, "Run without a window, logging periodic snapshots")
	maxSteps   = flag.Int("max-steps", 0, "Stop after N simulation steps (0 = run forever, useful with -headless)")

	screenWidth  int32 = 1280
	screenHeight int32 = 800
)

func main() {
	flag.Parse()

	var logWriter *os.File
	if *logFile != "" {
		var err error
		logWriter, err = os.Create(*logFile)
		if err != nil {
			fmt.Fprintf(os.Stderr, "failed to create log file: %v\n", err)
			os.Exit(1)
		}
		defer logWriter.Close()
	}
	logDest := os.Stderr
	if logWriter != nil {
		logDest = logWriter
	}
	logger := slog.New(slog.NewTextHandler(logDest, nil))

	cfg := config.MustLoad(*configPath)
	s, tree := buildSimulation(cfg, logger)

	if *headless {
		runHeadless(s, cfg, logger)
		return
	}
	runWindowed(s, tree, cfg, logger)
}

// buildSimulation wires config into a particle population, a forces/
// boundary/population pipeline, and an empty event scheduler. It also
// returns the quadtree driving the Barnes-Hut forces, so a live demo
// can retune its parameters from the running config.
func buildSimulation(cfg *config.Config, logger *slog.Logger) (*sim.Simulation, *quadtree.QuadTree) {
	store := particles.New()
	rng := rand.New(rand.NewSource(*seed))
	world := cfg.WorldRect()

	initial := generators.ComposedFactory{
		Position: generators.RectUniform{Rect: world, Rng: rng},
		Velocity: generators.Vector2Polar{
			R:     mustUniformFloat(0, 5, rng),
			Theta: mustUniformFloat(0, 2*math.Pi, rng),
		},
		Mass:  mustUniformFloat(1, 4, rng),
		Color: generators.Constant[particles.Color]{Value: particles.Color{R: 0.6, G: 0.8, B: 1, A: 1}},
	}
	initial.Create(cfg.Population.Initial, store)

	tree := quadtree.New(cfg.QuadtreeOptions(world))

	boundary := boundarySystem(cfg, world)

	pipeline := systems.NewPipeline(
		systems.NewPhysics(integrator.Gaussian{}, tree),
		systems.VelocityIntegrator{Integrator: integrator.Gaussian{}},
		boundary,
	)

	if cfg.Population.EmitRate > 0 {
		emitterFactory := generators.ComposedFactory{
			Position: generators.RectUniform{Rect: world, Rng: rng},
			Velocity: generators.Vector2Polar{
				R:     mustUniformFloat(0, 5, rng),
				Theta: mustUniformFloat(0, 2*math.Pi, rng),
			},
			Mass:  mustUniformFloat(1, 4, rng),
			Color: generators.Constant[particles.Color]{Value: particles.Color{R: 1, G: 0.8, B: 0.4, A: 1}},
		}
		pipeline.Systems = append(pipeline.Systems, systems.NewEmitter(emitterFactory, cfg.Population.EmitRate))
	}
	if cfg.Population.ConsumeRate > 0 {
		center := areas.NewDisk(r2.Vec{X: world.Size.X / 2, Y: world.Size.Y / 2}, math.Min(world.Size.X, world.Size.Y)*0.05)
		pipeline.Systems = append(pipeline.Systems, systems.NewConsumer(center, cfg.Population.ConsumeRate))
	}

	s := sim.New(store, pipeline, events.NewScheduler())
	s.Perf = telemetry.NewPerfStats(120)

	logger.Info("simulation initialized",
		slog.Int("particles", store.Len()),
		slog.Float64("world_width", cfg.World.Width),
		slog.Float64("world_height", cfg.World.Height),
		slog.String("boundary_mode", cfg.Boundary.Mode),
	)
	return s, tree
}

// mustUniformFloat builds a UniformFloat from a fixed, compile-time
// range: such a range is never expected to be degenerate, so a
// construction failure here indicates a coding error, not bad input,
// hence panicking rather than threading an error through every caller.
func mustUniformFloat(min, max float64, rng *rand.Rand) generators.UniformFloat {
	u, err := generators.NewUniformFloat(min, max, rng)
	if err != nil {
		panic(fmt.Sprintf("particlesim: %v", err))
	}
	return u
}

func boundarySystem(cfg *config.Config, world areas.Rect) systems.System {
	xMax := world.Position.X + world.Size.X
	yMax := world.Position.Y + world.Size.Y
	switch cfg.Boundary.Mode {
	case "loop":
		return systems.Loop{XMin: world.Position.X, YMin: world.Position.Y, XMax: xMax, YMax: yMax}
	default:
		return systems.Wall{XMin: world.Position.X, YMin: world.Position.Y, XMax: xMax, YMax: yMax, Restitution: cfg.Boundary.Restitution}
	}
}

// runHeadless steps the simulation as fast as possible, logging periodic
// progress and snapshotting to CSV, with no window.
func runHeadless(s *sim.Simulation, cfg *config.Config, logger *slog.Logger) {
	csv, err := telemetry.NewCSVWriter(cfg.Telemetry.CSVPath)
	if err != nil {
		logger.Error("failed to open telemetry csv", slog.Any("err", err))
		os.Exit(1)
	}
	defer csv.Close()

	reporter := telemetry.NewReporter(logger, cfg.Telemetry.ReportIntervalSeconds)

	logger.Info("starting headless run", slog.Int("speed", *speed), slog.Int("max_steps", *maxSteps))

	startTime := time.Now()
	lastProgress := startTime
	reportInterval := 10 * time.Second
	steps := 0

	for {
		if *maxSteps > 0 && steps >= *maxSteps {
			logger.Info("reached max steps, stopping", slog.Int("steps", steps))
			break
		}

		for i := 0; i < *speed; i++ {
			s.Step(cfg.Physics.DT)
			steps++
		}
		reporter.Tick(s.Store, s.Perf, s.Time, cfg.Physics.DT)
		if err := csv.Write(telemetry.Summarize(s.Store, s.Time)); err != nil {
			logger.Error("failed to write telemetry row", slog.Any("err", err))
		}

		if time.Since(lastProgress) >= reportInterval {
			elapsed := time.Since(startTime)
			logger.Info("progress",
				slog.Int("steps", steps),
				slog.Float64("steps_per_sec", float64(steps)/elapsed.Seconds()),
				slog.Duration("elapsed", elapsed.Round(time.Second)),
			)
			lastProgress = time.Now()
		}
	}

	elapsed := time.Since(startTime)
	logger.Info("headless run complete",
		slog.Int("steps", steps),
		slog.Duration("elapsed", elapsed.Round(time.Millisecond)),
	)
}

// renderState is the windowed demo's mutable state, owned entirely by
// the worker goroutine that runs the raylib window loop: raylib's GLFW
// backend requires every call to originate from the same OS thread for
// the lifetime of the window.
type renderState struct {
	sim           *sim.Simulation
	tree          *quadtree.QuadTree
	cfg           *config.Config
	view          *sim.VertexView
	cam           *camera.Camera
	reporter      *telemetry.Reporter
	csv           *telemetry.CSVWriter
	paused        bool
	stepsPerFrame int
}

// runWindowed opens a raylib window on a dedicated worker thread and
// drives it with a single recurring command that ticks the simulation
// and redraws the scene, with a raygui panel exposing the live force
// parameters.
func runWindowed(s *sim.Simulation, tree *quadtree.QuadTree, cfg *config.Config, logger *slog.Logger) {
	csv, err := telemetry.NewCSVWriter(cfg.Telemetry.CSVPath)
	if err != nil {
		logger.Error("failed to open telemetry csv", slog.Any("err", err))
		os.Exit(1)
	}

	th := worker.Spawn(func() *renderState {
		rl.InitWindow(screenWidth, screenHeight, "particlesim")
		rl.SetTargetFPS(60)

		stepsPerFrame := *speed
		if stepsPerFrame < 1 || stepsPerFrame > 10 {
			stepsPerFrame = 1
		}

		return &renderState{
			sim:           s,
			tree:          tree,
			cfg:           cfg,
			view:          sim.NewVertexView(),
			cam:           camera.New(float32(screenWidth), float32(screenHeight), float32(cfg.World.Width), float32(cfg.World.Height)),
			reporter:      telemetry.NewReporter(logger, cfg.Telemetry.ReportIntervalSeconds),
			csv:           csv,
			stepsPerFrame: stepsPerFrame,
		}
	})

	for !windowShouldClose(th) {
		th.Send(func(rs *renderState, stop *bool) {
			frame(rs)
		})
	}

	th.Send(func(rs *renderState, stop *bool) {
		rs.csv.Close()
		rl.CloseWindow()
	})
	th.Close()
}

// windowShouldClose round-trips through the worker thread to read
// rl.WindowShouldClose, since only that thread may call into raylib.
func windowShouldClose(th *worker.Thread[renderState]) bool {
	result := make(chan bool, 1)
	th.Send(func(rs *renderState, stop *bool) {
		result <- rl.WindowShouldClose()
	})
	return <-result
}

func frame(rs *renderState) {
	rs.tree.Theta = rs.cfg.Quadtree.Theta
	rs.tree.Gravity.G = rs.cfg.Gravity.G
	rs.tree.Repulsion.K = rs.cfg.Repulsion.K
	rs.tree.Drag.C = rs.cfg.Drag.C

	if !rs.paused {
		for i := 0; i < rs.stepsPerFrame; i++ {
			rs.sim.Step(rs.cfg.Physics.DT)
		}
	}
	rs.view.Publish(rs.sim.Store)
	rs.reporter.Tick(rs.sim.Store, rs.sim.Perf, rs.sim.Time, rs.cfg.Physics.DT)
	rs.csv.Write(telemetry.Summarize(rs.sim.Store, rs.sim.Time))

	rl.BeginDrawing()
	rl.ClearBackground(rl.Black)

	drawParticles(rs)
	drawPanel(rs)

	rl.DrawText(fmt.Sprintf("particles: %d  t=%.1f", rs.sim.Store.Len(), rs.sim.Time), 10, 10, 16, rl.RayWhite)
	rl.EndDrawing()
}

func drawParticles(rs *renderState) {
	for _, v := range rs.view.Snapshot() {
		sx, sy := rs.cam.WorldToScreen(float32(v.Position.X), float32(v.Position.Y))
		if sx < 0 || sy < 0 || sx > float32(screenWidth) || sy > float32(screenHeight) {
			continue
		}
		col := rl.Color{
			R: uint8(clamp01(v.Color.R) * 255),
			G: uint8(clamp01(v.Color.G) * 255),
			B: uint8(clamp01(v.Color.B) * 255),
			A: uint8(clamp01(v.Color.A) * 255),
		}
		rl.DrawCircle(int32(sx), int32(sy), 2, col)
	}
}

func clamp01(x float64) float64 {
	if x < 0 {
		return 0
	}
	if x > 1 {
		return 1
	}
	return x
}

const panelWidth = 260

// drawPanel renders a raygui control panel letting the force parameters
// and run state be adjusted live, in the style of the potential-field
// preview tool's slider panel.
func drawPanel(rs *renderState) {
	panelX := float32(screenWidth) - panelWidth - 10
	panelY := float32(20)

	rl.DrawRectangle(int32(panelX)-10, int32(panelY)-10, panelWidth+20, 330, rl.Fade(rl.Black, 0.6))
	rl.DrawText("Forces", int32(panelX), int32(panelY), 18, rl.RayWhite)
	panelY += 28

	// Theta must stay strictly positive (config.Validate rejects 0);
	// floor the slider above zero so dragging it to the minimum can
	// never hand the quadtree an invalid opening angle.
	panelY = slider(panelX, panelY, "Theta", &rs.cfg.Quadtree.Theta, 0.01, 2)
	panelY = slider(panelX, panelY, "Gravity G", &rs.cfg.Gravity.G, 0, 10)
	panelY = slider(panelX, panelY, "Repulsion K", &rs.cfg.Repulsion.K, 0, 10)
	panelY = slider(panelX, panelY, "Drag C", &rs.cfg.Drag.C, 0, 2)
	panelY += 10

	if gui.Button(rl.Rectangle{X: panelX, Y: panelY, Width: 120, Height: 28}, toggleText(rs.paused, "Resume", "Pause")) {
		rs.paused = !rs.paused
	}
	if gui.Button(rl.Rectangle{X: panelX + 130, Y: panelY, Width: 120, Height: 28}, "Reset View") {
		rs.cam.Reset()
	}
}

func slider(x, y float32, label string, value *float64, lo, hi float32) float32 {
	rl.DrawText(label, int32(x), int32(y), 14, rl.LightGray)
	y += 18
	newValue := gui.SliderBar(
		rl.Rectangle{X: x, Y: y, Width: panelWidth - 60, Height: 20},
		fmt.Sprintf("%.1f", lo), fmt.Sprintf("%.1f", hi),
		float32(*value), lo, hi,
	)
	rl.DrawText(fmt.Sprintf("%.2f", *value), int32(x+panelWidth-50), int32(y+2), 14, rl.RayWhite)
	*value = float64(newValue)
	return y + 32
}

func toggleText(cond bool, whenTrue, whenFalse string) string {
	if cond {
		return whenTrue
	}
	return whenFalse
}
