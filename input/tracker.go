package input

import (
	"sort"
	"strings"
)

// Tracker remembers the latest up/down level of every key it has seen.
// Released keys stay recorded as false. It is owned by the frame loop and
// is not safe for concurrent use.
type Tracker struct {
	keys map[string]bool
}

func NewTracker() *Tracker {
	return &Tracker{keys: make(map[string]bool)}
}

// SetKey records the level for id. The last write before a read wins.
func (t *Tracker) SetKey(id string, pressed bool) {
	if t == nil {
		return
	}
	if t.keys == nil {
		t.keys = make(map[string]bool)
	}
	t.keys[normalize(id)] = pressed
}

// IsPressed returns the last recorded level; keys never seen are up.
func (t *Tracker) IsPressed(id string) bool {
	if t == nil {
		return false
	}
	return t.keys[normalize(id)]
}

// Pressed lists the keys currently down, sorted.
func (t *Tracker) Pressed() []string {
	if t == nil {
		return nil
	}
	var out []string
	for k, down := range t.keys {
		if down {
			out = append(out, k)
		}
	}
	sort.Strings(out)
	return out
}

// Known reports whether id has ever been recorded.
func (t *Tracker) Known(id string) bool {
	if t == nil {
		return false
	}
	_, ok := t.keys[normalize(id)]
	return ok
}

// Reset releases every key without forgetting it.
func (t *Tracker) Reset() {
	if t == nil {
		return
	}
	for k := range t.keys {
		t.keys[k] = false
	}
}

func normalize(id string) string {
	return strings.ToLower(id)
}
