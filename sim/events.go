package sim

import (
	"github.com/go-gl/mathgl/mgl64"
	"github.com/milk9111/webswing/assets"
	"github.com/milk9111/webswing/ecs"
	"github.com/milk9111/webswing/input"
	"github.com/milk9111/webswing/swing"
)

const (
	EventKey           = "key"
	EventModelLoaded   = "model_loaded"
	EventResize        = "resize"
	EventTuningChanged = "tuning_changed"
)

// Event is anything that can be posted to a Context's mailbox.
type Event interface {
	Kind() string
}

// KeyEvent is a key edge.
type KeyEvent input.KeyEvent

func (KeyEvent) Kind() string { return EventKey }

// ModelLoaded carries the result of an asynchronous city load.
type ModelLoaded struct {
	Source string
	Model  *assets.Model
	Err    error
}

func (ModelLoaded) Kind() string { return EventModelLoaded }

// Resize reports a new viewport size in pixels.
type Resize struct {
	Width, Height int
}

func (Resize) Kind() string { return EventResize }

// TuningChanged replaces the parts of the configuration that are set.
type TuningChanged struct {
	Swing     *swing.Config
	MoveSpeed *float64
	Gravity   *mgl64.Vec3
}

func (TuningChanged) Kind() string { return EventTuningChanged }

// Post queues ev for the next frame. It is safe to call from any goroutine.
func (c *Context) Post(ev Event) {
	if c == nil || ev == nil {
		return
	}
	c.entities.Events().Push(ecs.Event{Type: ev.Kind(), Data: ev})
}

// PostKeys queues a batch of key edges in order.
func (c *Context) PostKeys(events []input.KeyEvent) {
	for _, ev := range events {
		c.Post(KeyEvent(ev))
	}
}

// Pending returns the number of queued events.
func (c *Context) Pending() int {
	return c.entities.Events().Len()
}

func (c *Context) drain() {
	for _, raw := range c.entities.Events().Drain() {
		ev, ok := raw.Data.(Event)
		if !ok {
			continue
		}
		c.handle(ev)
	}
}

func (c *Context) handle(ev Event) {
	switch e := ev.(type) {
	case KeyEvent:
		c.applyKey(e.Key, e.Pressed)
	case ModelLoaded:
		c.onModelLoaded(e)
	case Resize:
		c.resize(e.Width, e.Height)
	case TuningChanged:
		c.applyTuning(e)
	}
}
