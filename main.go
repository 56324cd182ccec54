package main

import (
	"flag"
	"log"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/milk9111/webswing/common"
)

func main() {
	baseMonitor := flag.Bool("m", false, "use base monitor instead of primary (for multi-monitor setups)")
	city := flag.String("city", "", "city model: embedded asset name or path to a .gltf/.glb (default from prefabs/world.yaml)")
	scriptName := flag.String("script", "", "tengo autopilot in prefabs/scripts to drive the player")
	record := flag.String("record", "", "write key input to this .jsonl.zst recording")
	telemetryAddr := flag.String("telemetry", "", "serve frame snapshots over websocket at this address (e.g. :8090)")
	watch := flag.Bool("watch", true, "hot reload prefab specs and scripts from ./prefabs")
	ground := flag.Bool("ground", false, "add a ground slab under the city")
	flag.Parse()

	if *baseMonitor {
		ebiten.SetMonitor(ebiten.AppendMonitors(nil)[0])
	}

	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	ebiten.SetWindowSize(common.BaseWidth, common.BaseHeight)
	ebiten.SetWindowTitle(common.WindowTitle)

	game, err := NewGame(Options{
		City:          *city,
		Script:        *scriptName,
		Record:        *record,
		TelemetryAddr: *telemetryAddr,
		Watch:         *watch,
		Ground:        *ground,
	})
	if err != nil {
		log.Fatal(err)
	}
	defer game.Close()

	if err := ebiten.RunGame(game); err != nil && err != ebiten.Termination {
		log.Fatal(err)
	}
}
