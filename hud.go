package main

import (
	"fmt"
	"strings"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
)

func drawHUD(screen *ebiten.Image, g *Game) {
	s := g.sim.Snapshot()

	web := "web: free"
	if s.Attached {
		web = fmt.Sprintf("web: %s (%.1f)", s.Anchor, s.WebLength)
	}
	pressed := make([]string, 0, len(s.Pressed))
	for _, k := range s.Pressed {
		if k == " " {
			k = "space"
		}
		pressed = append(pressed, k)
	}
	keys := "-"
	if len(pressed) > 0 {
		keys = strings.Join(pressed, " ")
	}

	lines := []string{
		fmt.Sprintf("FPS %.0f  TPS %.0f  frame %d", ebiten.ActualFPS(), ebiten.ActualTPS(), s.Frame),
		fmt.Sprintf("pos %.1f %.1f %.1f", s.Position.X(), s.Position.Y(), s.Position.Z()),
		fmt.Sprintf("vel %.1f %.1f %.1f", s.Velocity.X(), s.Velocity.Y(), s.Velocity.Z()),
		web,
		"keys: " + keys,
		"city: " + g.status,
	}
	if g.autopilot != nil {
		lines = append(lines, "autopilot: "+g.autopilot.Name())
	}
	if g.recorder != nil {
		lines = append(lines, fmt.Sprintf("recording: %d frames", g.recorder.Len()))
	}
	if g.hub != nil {
		lines = append(lines, fmt.Sprintf("telemetry: %d clients", g.hub.Clients()))
	}
	lines = append(lines, "WASD move  E web  Esc pause  F2 copy")
	ebitenutil.DebugPrint(screen, strings.Join(lines, "\n"))
}
