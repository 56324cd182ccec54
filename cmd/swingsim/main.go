// Command swingsim runs the city simulation without a window, driven by an
// autopilot script or a recorded replay.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"time"

	"github.com/milk9111/webswing/assets"
	"github.com/milk9111/webswing/common"
	"github.com/milk9111/webswing/input"
	"github.com/milk9111/webswing/prefabs"
	"github.com/milk9111/webswing/replay"
	"github.com/milk9111/webswing/script"
	"github.com/milk9111/webswing/sim"
	"github.com/milk9111/webswing/telemetry"
	"golang.org/x/term"
)

func main() {
	frames := flag.Int("frames", 600, "number of frames to simulate (ignored with -replay)")
	scriptName := flag.String("script", "autopilot.tengo", "tengo autopilot in prefabs/scripts")
	replayPath := flag.String("replay", "", "play back a .jsonl.zst recording instead of a script")
	record := flag.String("record", "", "write the driven key input to this .jsonl.zst recording")
	telemetryAddr := flag.String("telemetry", "", "serve frame snapshots over websocket at this address")
	city := flag.String("city", "", "city model: embedded asset name or path to a .gltf/.glb")
	ground := flag.Bool("ground", false, "add a ground slab under the city")
	realtime := flag.Bool("realtime", false, "pace frames at wall clock speed")
	flag.Parse()

	cfg, err := prefabs.BuildConfig()
	if err != nil {
		log.Fatal(err)
	}
	if *city != "" {
		cfg.CityModel = *city
	}
	if *ground {
		cfg.Sim.Ground.Enabled = true
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	c, err := sim.New(cfg.Sim)
	if err != nil {
		log.Fatal(err)
	}

	loader := assets.NewLoader(assets.WithScale(cfg.Sim.CityScale))
	loader.Load(ctx, cfg.CityModel, func(m *assets.Model, err error) {
		c.Post(sim.ModelLoaded{Source: cfg.CityModel, Model: m, Err: err})
	})
	loader.Wait()

	var hub *telemetry.Hub
	if *telemetryAddr != "" {
		hub = telemetry.NewHub()
		defer hub.Close()
		go func() {
			if err := telemetry.Serve(ctx, *telemetryAddr, hub); err != nil {
				log.Printf("telemetry: %v", err)
			}
		}()
	}

	rec := &recording{}
	if *record != "" {
		r, err := replay.Create(*record)
		if err != nil {
			log.Fatal(err)
		}
		rec.rec = r
	}
	defer rec.close()

	interactive := term.IsTerminal(int(os.Stdout.Fd()))
	st := newStats()
	step := cfg.Sim.FixedStep * common.MillisPerSecond
	total := *frames

	afterFrame := func(n int, keys []input.KeyEvent, t float64) {
		rec.record(replay.Entry{Frame: uint64(n), Timestamp: t, Keys: keys})
		snap := c.Snapshot()
		st.observe(snap)
		if hub != nil {
			hub.Publish(snap)
		}
		if interactive && n%30 == 0 {
			fmt.Printf("\rframe %5d/%d  pos %7.2f %7.2f %7.2f  %-24s", n, total, snap.Position.X(), snap.Position.Y(), snap.Position.Z(), c.Swing().State())
		}
		if *realtime {
			time.Sleep(time.Duration(step * float64(time.Millisecond)))
		}
	}

	if *replayPath != "" {
		entries, err := replay.Load(*replayPath)
		if err != nil {
			log.Fatal(err)
		}
		total = len(entries)
		n := 0
		replay.Play(c, entries, func(e replay.Entry) {
			n++
			afterFrame(n, e.Keys, e.Timestamp)
		})
	} else {
		var autopilot *script.Autopilot
		if *scriptName != "" {
			autopilot, err = script.Load(*scriptName)
			if err != nil {
				log.Fatal(err)
			}
		}
		for n := 1; n <= total; n++ {
			if ctx.Err() != nil {
				break
			}
			var keys []input.KeyEvent
			if autopilot != nil {
				keys, err = autopilot.Update(c)
				if err != nil {
					log.Printf("autopilot stopped: %v", err)
					autopilot = nil
				}
			}
			t := float64(n-1) * step
			c.Frame(t)
			afterFrame(n, keys, t)
		}
	}
	if interactive {
		fmt.Println()
	}

	if err := c.CityErr(); err != nil {
		log.Printf("city: %v", err)
	}
	final := c.Snapshot()
	fmt.Printf("frames=%d buildings=%d attaches=%d max_speed=%.2f min_y=%.2f\n",
		final.Frame, final.Buildings, st.attaches, st.maxSpeed, st.lowestY(final.Position.Y()))
	fmt.Println(string(final.JSON()))
}
