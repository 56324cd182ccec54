package prefabs

import (
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// DefaultDebounce is how long a file must stay quiet before its change is
// reported.
const DefaultDebounce = 100 * time.Millisecond

type ChangeKind int

const (
	SpecChanged ChangeKind = iota
	ScriptChanged
)

// Change is one debounced edit to a spec or script.
type Change struct {
	Path string
	Kind ChangeKind
}

// Watcher reports edits to prefab specs and scripts on disk.
type Watcher struct {
	debounce time.Duration

	watcher *fsnotify.Watcher
	Events  chan Change
	Errors  chan error
	closeCh chan struct{}
	done    chan struct{}
	once    sync.Once
}

// NewWatcher watches dirs; missing directories are an error.
func NewWatcher(dirs ...string) (*Watcher, error) {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	for _, dir := range dirs {
		if err := w.Add(dir); err != nil {
			_ = w.Close()
			return nil, err
		}
	}

	watcher := &Watcher{
		debounce: DefaultDebounce,
		watcher:  w,
		Events:   make(chan Change, 16),
		Errors:   make(chan error, 1),
		closeCh:  make(chan struct{}),
		done:     make(chan struct{}),
	}
	go watcher.run()
	return watcher, nil
}

func (w *Watcher) Close() error {
	var err error
	w.once.Do(func() {
		close(w.closeCh)
		err = w.watcher.Close()
		<-w.done
		close(w.Events)
		close(w.Errors)
	})
	return err
}

// run reports a change once its file has been quiet for the debounce interval, so a
// truncate followed by a write yields one change after the write.
func (w *Watcher) run() {
	defer close(w.done)
	pending := make(map[string]Change)
	timer := time.NewTimer(w.debounce)
	timer.Stop()
	defer timer.Stop()
	var fire <-chan time.Time
	for {
		select {
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			change, ok := classify(event)
			if !ok {
				continue
			}
			pending[change.Path] = change
			timer.Reset(w.debounce)
			fire = timer.C
		case <-fire:
			fire = nil
			paths := make([]string, 0, len(pending))
			for p := range pending {
				paths = append(paths, p)
			}
			sort.Strings(paths)
			for _, p := range paths {
				select {
				case w.Events <- pending[p]:
				case <-w.closeCh:
					return
				}
				delete(pending, p)
			}
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			select {
			case w.Errors <- err:
			default:
			}
		case <-w.closeCh:
			return
		}
	}
}

func classify(event fsnotify.Event) (Change, bool) {
	if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename|fsnotify.Remove) == 0 {
		return Change{}, false
	}
	switch {
	case isSpecFile(event.Name):
		return Change{Path: event.Name, Kind: SpecChanged}, true
	case isScriptFile(event.Name):
		return Change{Path: event.Name, Kind: ScriptChanged}, true
	}
	return Change{}, false
}

func isSpecFile(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	return ext == ".yaml" || ext == ".yml"
}

func isScriptFile(path string) bool {
	return strings.ToLower(filepath.Ext(path)) == ".tengo"
}
