// Package keyboard reads key edges from ebiten.
package keyboard

import (
	"strings"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/milk9111/webswing/input"
)

// Poller turns ebiten key edges into input.KeyEvents. It never touches a
// Tracker; the caller forwards events to wherever they are applied.
type Poller struct {
	pressed  []ebiten.Key
	released []ebiten.Key
	// down counts the physical keys held per name, so ArrowUp and W act as
	// one logical key.
	down map[string]int
}

func NewPoller() *Poller {
	return &Poller{down: make(map[string]int)}
}

// Poll returns the edges since the previous tick, releases first so a key
// tapped within one tick ends up down.
func (p *Poller) Poll() []input.KeyEvent {
	p.released = inpututil.AppendJustReleasedKeys(p.released[:0])
	p.pressed = inpututil.AppendJustPressedKeys(p.pressed[:0])
	return p.edges(p.released, p.pressed)
}

// edges folds physical key edges into logical ones. A name goes up only
// when the last physical key mapped to it is released.
func (p *Poller) edges(released, pressed []ebiten.Key) []input.KeyEvent {
	if len(released) == 0 && len(pressed) == 0 {
		return nil
	}
	if p.down == nil {
		p.down = make(map[string]int)
	}
	var events []input.KeyEvent
	for _, k := range released {
		name := KeyName(k)
		if n := p.down[name]; n > 1 {
			p.down[name] = n - 1
			continue
		}
		delete(p.down, name)
		events = append(events, input.KeyEvent{Key: name, Pressed: false})
	}
	for _, k := range pressed {
		name := KeyName(k)
		p.down[name]++
		if p.down[name] == 1 {
			events = append(events, input.KeyEvent{Key: name, Pressed: true})
		}
	}
	return events
}

// KeyName maps an ebiten key to the id used by the Tracker. Arrow keys
// mirror w/a/s/d.
func KeyName(k ebiten.Key) string {
	switch k {
	case ebiten.KeyArrowUp:
		return "w"
	case ebiten.KeyArrowDown:
		return "s"
	case ebiten.KeyArrowLeft:
		return "a"
	case ebiten.KeyArrowRight:
		return "d"
	case ebiten.KeySpace:
		return " "
	}
	return strings.ToLower(k.String())
}
