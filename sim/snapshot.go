package sim

import (
	"encoding/json"

	"github.com/go-gl/mathgl/mgl64"
)

// Snapshot is a read-only view of one frame, shared by the HUD, telemetry,
// scripts and the clipboard export.
type Snapshot struct {
	Frame     uint64     `json:"frame"`
	Time      float64    `json:"time"`
	Delta     float64    `json:"delta"`
	Position  mgl64.Vec3 `json:"position"`
	Velocity  mgl64.Vec3 `json:"velocity"`
	Attached  bool       `json:"attached"`
	Anchor    string     `json:"anchor,omitempty"`
	WebLength float64    `json:"web_length,omitempty"`
	Pressed   []string   `json:"pressed,omitempty"`
	Buildings int        `json:"buildings"`
}

func (c *Context) Snapshot() Snapshot {
	s := Snapshot{
		Frame:     c.frames,
		Time:      c.physics.Time(),
		Delta:     c.delta,
		Position:  c.PlayerPosition(),
		Pressed:   c.tracker.Pressed(),
		Buildings: len(c.buildings),
	}
	if c.body != nil {
		s.Velocity = c.body.Velocity
	}
	if b, ok := c.swing.State().Building(); ok {
		s.Attached = true
		s.Anchor = b.Name
		if s.Anchor == "" {
			s.Anchor = b.ID.String()
		}
		if con := c.swing.Constraint(); con != nil {
			s.WebLength = con.Distance
		}
	}
	return s
}

// JSON encodes the snapshot on a single line.
func (s Snapshot) JSON() []byte {
	b, err := json.Marshal(s)
	if err != nil {
		return nil
	}
	return b
}
