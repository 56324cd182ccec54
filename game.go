package main

import (
	"context"
	"fmt"
	"log"
	"path/filepath"
	"time"

	"github.com/ebitenui/ebitenui"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/milk9111/webswing/assets"
	"github.com/milk9111/webswing/common"
	"github.com/milk9111/webswing/input"
	"github.com/milk9111/webswing/input/keyboard"
	"github.com/milk9111/webswing/prefabs"
	"github.com/milk9111/webswing/replay"
	"github.com/milk9111/webswing/scene/render"
	"github.com/milk9111/webswing/script"
	"github.com/milk9111/webswing/sim"
	"github.com/milk9111/webswing/telemetry"
	"golang.design/x/clipboard"
)

type Options struct {
	City          string
	Script        string
	Record        string
	TelemetryAddr string
	Watch         bool
	Ground        bool
}

type Game struct {
	opts   Options
	config prefabs.GameConfig

	sim       *sim.Context
	poller    *keyboard.Poller
	loader    *assets.Loader
	autopilot *script.Autopilot
	recorder  *replay.Recorder
	hub       *telemetry.Hub
	watcher   *prefabs.Watcher

	renderer *render.Renderer
	// held collects release edges seen while paused.
	held []input.KeyEvent

	pauseUI   *ebitenui.UI
	paused    bool
	quit      bool
	clipboard bool

	start  time.Time
	width  int
	height int
	status string

	ctx        context.Context
	cancel     context.CancelFunc
	loadCancel context.CancelFunc
}

func NewGame(opts Options) (*Game, error) {
	cfg, err := prefabs.BuildConfig()
	if err != nil {
		return nil, err
	}
	if opts.City != "" {
		cfg.CityModel = opts.City
	}
	if opts.Ground {
		cfg.Sim.Ground.Enabled = true
	}

	ctx, cancel := context.WithCancel(context.Background())
	g := &Game{
		opts:     opts,
		config:   cfg,
		poller:   keyboard.NewPoller(),
		loader:   assets.NewLoader(assets.WithScale(cfg.Sim.CityScale)),
		width:    cfg.Sim.Width,
		height:   cfg.Sim.Height,
		renderer: render.NewRenderer(cfg.Sim.Width, cfg.Sim.Height),
		ctx:      ctx,
		cancel:   cancel,
	}

	if err := g.reset(); err != nil {
		cancel()
		return nil, err
	}

	if opts.Script != "" {
		a, err := script.Load(opts.Script)
		if err != nil {
			cancel()
			return nil, err
		}
		g.autopilot = a
	}
	if opts.Record != "" {
		rec, err := replay.Create(opts.Record)
		if err != nil {
			cancel()
			return nil, fmt.Errorf("record %s: %w", opts.Record, err)
		}
		g.recorder = rec
	}
	if opts.TelemetryAddr != "" {
		g.hub = telemetry.NewHub()
		go func() {
			if err := telemetry.Serve(ctx, opts.TelemetryAddr, g.hub); err != nil {
				log.Printf("telemetry: %v", err)
			}
		}()
	}
	if opts.Watch {
		w, err := prefabs.NewWatcher("prefabs", filepath.Join("prefabs", "scripts"))
		if err != nil {
			log.Printf("prefab hot reload disabled: %v", err)
		} else {
			g.watcher = w
		}
	}
	if err := clipboard.Init(); err != nil {
		log.Printf("clipboard unavailable: %v", err)
	} else {
		g.clipboard = true
	}

	g.pauseUI = NewPauseUI(g)
	return g, nil
}

// reset builds a fresh simulation and starts loading the city into it.
// Any load still running for the previous simulation is canceled.
func (g *Game) reset() error {
	cfg := g.config.Sim
	cfg.Width, cfg.Height = g.width, g.height
	s, err := sim.New(cfg)
	if err != nil {
		return err
	}
	g.sim = s
	g.start = time.Time{}
	g.status = "loading " + g.config.CityModel

	if g.loadCancel != nil {
		g.loadCancel()
	}
	ctx, cancel := context.WithCancel(g.ctx)
	g.loadCancel = cancel

	source := g.config.CityModel
	g.loader.Load(ctx, source, func(m *assets.Model, err error) {
		s.Post(sim.ModelLoaded{Source: source, Model: m, Err: err})
	})
	return nil
}

func (g *Game) Close() {
	if g.cancel != nil {
		g.cancel()
	}
	if g.watcher != nil {
		_ = g.watcher.Close()
	}
	if g.recorder != nil {
		if err := g.recorder.Close(); err != nil {
			log.Printf("close recording: %v", err)
		}
	}
	if g.hub != nil {
		g.hub.Close()
	}
}

// now is the frame timestamp in milliseconds since the first update.
func (g *Game) now() float64 {
	if g.start.IsZero() {
		g.start = time.Now()
	}
	return float64(time.Since(g.start)) / float64(time.Millisecond)
}

func (g *Game) Update() error {
	if g.quit {
		return ebiten.Termination
	}

	keys := g.poller.Poll()

	if inpututil.IsKeyJustPressed(ebiten.KeyEscape) {
		g.setPaused(!g.paused)
	}
	if g.paused {
		// Keys let go during the pause must still reach the tracker, or
		// movement and the web stay engaged after resuming.
		g.held = append(g.held, input.Releases(keys)...)
		g.pauseUI.Update()
		return nil
	}
	if len(g.held) > 0 {
		keys = append(g.held, keys...)
		g.held = nil
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyF2) {
		g.copySnapshot()
	}
	g.pollWatcher()

	g.sim.PostKeys(keys)
	if g.autopilot != nil {
		scripted, err := g.autopilot.Update(g.sim)
		if err != nil {
			log.Printf("autopilot disabled: %v", err)
			g.autopilot = nil
		}
		keys = append(keys, scripted...)
	}

	t := g.now()
	if g.recorder != nil {
		entry := replay.Entry{Frame: g.sim.Frames(), Timestamp: t, Keys: keys}
		if err := g.recorder.Record(entry); err != nil {
			log.Printf("recording stopped: %v", err)
			_ = g.recorder.Close()
			g.recorder = nil
		}
	}
	g.sim.Frame(t)

	if g.sim.CityReady() {
		g.status = fmt.Sprintf("%d buildings", len(g.sim.Buildings()))
	} else if err := g.sim.CityErr(); err != nil {
		g.status = "city failed to load"
	}
	if g.hub != nil {
		g.hub.Publish(g.sim.Snapshot())
	}
	return nil
}

func (g *Game) setPaused(paused bool) {
	if g.paused == paused {
		return
	}
	g.paused = paused
	if !paused {
		g.sim.ResetClock(g.now())
	}
}

func (g *Game) restart() {
	if err := g.reset(); err != nil {
		log.Printf("restart: %v", err)
		return
	}
	g.paused = false
}

func (g *Game) copySnapshot() {
	if !g.clipboard {
		return
	}
	clipboard.Write(clipboard.FmtText, g.sim.Snapshot().JSON())
	log.Printf("copied frame %d snapshot to clipboard", g.sim.Frames())
}

func (g *Game) pollWatcher() {
	if g.watcher == nil {
		return
	}
	for {
		select {
		case change, ok := <-g.watcher.Events:
			if !ok {
				g.watcher = nil
				return
			}
			g.applyChange(change)
		case err, ok := <-g.watcher.Errors:
			if !ok {
				g.watcher = nil
				return
			}
			log.Printf("prefab watcher: %v", err)
		default:
			return
		}
	}
}

func (g *Game) applyChange(change prefabs.Change) {
	switch change.Kind {
	case prefabs.SpecChanged:
		tuning, ok, err := prefabs.TuningFor(change.Path, g.sim.Config())
		if err != nil {
			log.Printf("reload %s: %v", change.Path, err)
			return
		}
		if ok {
			g.sim.Post(tuning)
			log.Printf("reloaded %s", filepath.Base(change.Path))
		}
	case prefabs.ScriptChanged:
		if g.autopilot == nil || filepath.Base(change.Path) != filepath.Base(g.autopilot.Name()) {
			return
		}
		a, err := script.Load(g.autopilot.Name())
		if err != nil {
			log.Printf("reload %s: %v", change.Path, err)
			return
		}
		g.autopilot = a
		log.Printf("reloaded %s", filepath.Base(change.Path))
	}
}

func (g *Game) Draw(screen *ebiten.Image) {
	g.renderer.Render(screen, g.sim.Scene(), g.sim.Camera())
	drawHUD(screen, g)
	if g.paused {
		g.pauseUI.Draw(screen)
	}
}

func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	if outsideWidth <= 0 || outsideHeight <= 0 {
		return common.BaseWidth, common.BaseHeight
	}
	if outsideWidth != g.width || outsideHeight != g.height {
		g.width, g.height = outsideWidth, outsideHeight
		g.renderer.SetSize(outsideWidth, outsideHeight)
		g.sim.Post(sim.Resize{Width: outsideWidth, Height: outsideHeight})
	}
	return outsideWidth, outsideHeight
}
