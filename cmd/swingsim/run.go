package main

import (
	"log"
	"math"

	"github.com/milk9111/webswing/replay"
	"github.com/milk9111/webswing/sim"
)

type stats struct {
	frames   int
	attaches int
	attached bool
	maxSpeed float64
	minY     float64
}

func newStats() *stats {
	return &stats{minY: math.Inf(1)}
}

func (s *stats) observe(snap sim.Snapshot) {
	s.frames++
	if snap.Attached && !s.attached {
		s.attaches++
	}
	s.attached = snap.Attached
	if v := snap.Velocity.Len(); v > s.maxSpeed {
		s.maxSpeed = v
	}
	if y := snap.Position.Y(); y < s.minY {
		s.minY = y
	}
}

// lowestY is the lowest observed player height, or start when nothing was
// observed.
func (s *stats) lowestY(start float64) float64 {
	if s.frames == 0 {
		return start
	}
	return s.minY
}

// recording writes entries until the first failure, after which the file is
// closed and further entries are dropped.
type recording struct {
	rec *replay.Recorder
}

func (r *recording) record(e replay.Entry) {
	if r.rec == nil {
		return
	}
	if err := r.rec.Record(e); err != nil {
		log.Printf("recording stopped: %v", err)
		r.close()
	}
}

func (r *recording) close() {
	if r.rec == nil {
		return
	}
	if err := r.rec.Close(); err != nil {
		log.Printf("close recording: %v", err)
	}
	r.rec = nil
}
