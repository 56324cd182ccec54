package input

// KeyEvent is a single key edge.
type KeyEvent struct {
	Key     string `json:"key"`
	Pressed bool   `json:"pressed"`
}

// Releases keeps only the release edges of events. Releases must still be
// delivered while presses are being ignored, or a key let go in that window
// stays down.
func Releases(events []KeyEvent) []KeyEvent {
	var out []KeyEvent
	for _, e := range events {
		if !e.Pressed {
			out = append(out, e)
		}
	}
	return out
}
