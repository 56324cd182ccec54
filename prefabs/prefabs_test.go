package prefabs

import (
	"image/color"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/go-gl/mathgl/mgl64"
	"github.com/milk9111/webswing/sim"
	"github.com/milk9111/webswing/swing"
)

func TestEmbeddedSpecsValidate(t *testing.T) {
	for _, name := range []string{WorldSpecFile, PlayerSpecFile, WebSpecFile, CameraSpecFile} {
		t.Run(name, func(t *testing.T) {
			data, err := PrefabsFS.ReadFile(name)
			if err != nil {
				t.Fatalf("read %s: %v", name, err)
			}
			if err := Validate(name, data); err != nil {
				t.Fatalf("validate %s: %v", name, err)
			}
		})
	}
}

func TestDecodeSpecRejectsInvalid(t *testing.T) {
	tests := []struct {
		name string
		file string
		data string
	}{
		{"missing required", WebSpecFile, "name: web\nkey: e\n"},
		{"negative length", WebSpecFile, "name: web\nkey: e\nmax_length: -1\nstiffness: 20\n"},
		{"short gravity", WorldSpecFile, "name: world\ngravity: [0, -9.82]\n"},
		{"unknown broadphase", WorldSpecFile, "name: world\ngravity: [0, -9.82, 0]\nbroadphase: octree\n"},
		{"bad color", WebSpecFile, "name: web\nkey: e\nmax_length: 15\nstiffness: 20\nline_color: white\n"},
		{"not yaml", WebSpecFile, "name: [web\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := DecodeSpec[WebSpec](tt.file, []byte(tt.data)); err == nil {
				t.Fatalf("expected %q to be rejected", tt.data)
			}
		})
	}
}

func TestDecodeSpecWithoutSchema(t *testing.T) {
	spec, err := DecodeSpec[WebSpec]("scratch.yaml", []byte("name: scratch\nmax_length: 3\n"))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if spec.MaxLength != 3 {
		t.Fatalf("expected max_length 3, got %v", spec.MaxLength)
	}
}

func TestWebSpecColor(t *testing.T) {
	spec, err := DecodeSpec[WebSpec](WebSpecFile, []byte("name: web\nkey: q\nmax_length: 20\nstiffness: 5\nline_color: \"#ff000080\"\n"))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	got := WebTuning(&spec, swing.DefaultConfig())
	if got.MaxLength != 20 || got.Stiffness != 5 {
		t.Fatalf("unexpected tuning %+v", got)
	}
	want := color.NRGBA{R: 0xff, A: 0x80}
	if got.LineColor != want {
		t.Fatalf("expected line color %v, got %v", want, got.LineColor)
	}
}

func TestBuildConfigMatchesDefaults(t *testing.T) {
	cfg, err := BuildConfig()
	if err != nil {
		t.Fatalf("build config: %v", err)
	}
	if cfg.CityModel != "city.gltf" {
		t.Fatalf("expected city.gltf, got %q", cfg.CityModel)
	}
	s := cfg.Sim
	if s.MoveSpeed != 5 || s.WebKey != "e" || s.CityScale != 0.5 {
		t.Fatalf("unexpected sim config %+v", s)
	}
	if s.Swing.MaxLength != 15 || s.Swing.Stiffness != 20 {
		t.Fatalf("unexpected web tuning %+v", s.Swing)
	}
	if !s.Gravity.ApproxEqual(mgl64.Vec3{0, -9.82, 0}) {
		t.Fatalf("unexpected gravity %v", s.Gravity)
	}
	if s.Broadphase != sim.BroadphaseNaive {
		t.Fatalf("unexpected broadphase %q", s.Broadphase)
	}
	if !s.Player.Start.ApproxEqual(mgl64.Vec3{0, 10, 0}) {
		t.Fatalf("unexpected player start %v", s.Player.Start)
	}
	if !s.Camera.Offset.ApproxEqual(mgl64.Vec3{0, 5, 10}) {
		t.Fatalf("unexpected camera offset %v", s.Camera.Offset)
	}
	if s.Ground.Enabled {
		t.Fatalf("ground should be off by default")
	}
}

func TestTuningFor(t *testing.T) {
	current := sim.DefaultConfig()
	current.Swing.MaxLength = 3

	tests := []struct {
		path  string
		ok    bool
		check func(t *testing.T, tc sim.TuningChanged)
	}{
		{
			path: "prefabs/web.yaml",
			ok:   true,
			check: func(t *testing.T, tc sim.TuningChanged) {
				if tc.Swing == nil || tc.Swing.MaxLength != 15 {
					t.Fatalf("expected web tuning from spec, got %+v", tc.Swing)
				}
			},
		},
		{
			path: "prefabs/player.yaml",
			ok:   true,
			check: func(t *testing.T, tc sim.TuningChanged) {
				if tc.MoveSpeed == nil || *tc.MoveSpeed != 5 {
					t.Fatalf("expected move speed 5, got %v", tc.MoveSpeed)
				}
			},
		},
		{
			path: "prefabs/world.yaml",
			ok:   true,
			check: func(t *testing.T, tc sim.TuningChanged) {
				if tc.Gravity == nil || tc.Gravity.Y() != -9.82 {
					t.Fatalf("expected gravity from spec, got %v", tc.Gravity)
				}
			},
		},
		{path: "prefabs/camera.yaml", ok: false},
		{path: "prefabs/other.yaml", ok: false},
	}
	for _, tt := range tests {
		t.Run(filepath.Base(tt.path), func(t *testing.T) {
			tc, ok, err := TuningFor(tt.path, current)
			if err != nil {
				t.Fatalf("tuning: %v", err)
			}
			if ok != tt.ok {
				t.Fatalf("expected ok=%v, got %v", tt.ok, ok)
			}
			if tt.check != nil {
				tt.check(t, tc)
			}
		})
	}
}

func TestCleanScriptPath(t *testing.T) {
	tests := map[string]string{
		"autopilot.tengo":                       "scripts/autopilot.tengo",
		"scripts/autopilot.tengo":               "scripts/autopilot.tengo",
		"prefabs/scripts/autopilot.tengo":       "scripts/autopilot.tengo",
		"/home/me/repo/prefabs/scripts/x.tengo": "scripts/x.tengo",
	}
	for in, want := range tests {
		if got := cleanScriptPath(in); got != want {
			t.Fatalf("cleanScriptPath(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestSchemaPath(t *testing.T) {
	tests := map[string]string{
		"web.yaml":                  "schemas/web.schema.json",
		"prefabs/world.yaml":        "schemas/world.schema.json",
		"/tmp/x/prefabs/camera.yml": "schemas/camera.schema.json",
	}
	for in, want := range tests {
		if got := schemaPath(in); got != want {
			t.Fatalf("schemaPath(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestLoadScriptEmbedded(t *testing.T) {
	for _, name := range []string{"autopilot.tengo", "idle.tengo"} {
		data, err := LoadScript(name)
		if err != nil {
			t.Fatalf("load %s: %v", name, err)
		}
		if len(data) == 0 {
			t.Fatalf("%s is empty", name)
		}
	}
	if _, err := LoadScript("missing.tengo"); err == nil {
		t.Fatalf("expected missing script to fail")
	}
}

func TestClassify(t *testing.T) {
	tests := []struct {
		name string
		ev   fsnotify.Event
		kind ChangeKind
		ok   bool
	}{
		{"spec write", fsnotify.Event{Name: "prefabs/web.yaml", Op: fsnotify.Write}, SpecChanged, true},
		{"yml create", fsnotify.Event{Name: "prefabs/x.YML", Op: fsnotify.Create}, SpecChanged, true},
		{"script rename", fsnotify.Event{Name: "prefabs/scripts/a.tengo", Op: fsnotify.Rename}, ScriptChanged, true},
		{"chmod ignored", fsnotify.Event{Name: "prefabs/web.yaml", Op: fsnotify.Chmod}, 0, false},
		{"other file", fsnotify.Event{Name: "prefabs/notes.txt", Op: fsnotify.Write}, 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			change, ok := classify(tt.ev)
			if ok != tt.ok {
				t.Fatalf("expected ok=%v, got %v", tt.ok, ok)
			}
			if ok && change.Kind != tt.kind {
				t.Fatalf("expected kind %v, got %v", tt.kind, change.Kind)
			}
		})
	}
}

func TestWatcherReportsSpecEdit(t *testing.T) {
	dir := t.TempDir()
	w, err := NewWatcher(dir)
	if err != nil {
		t.Fatalf("watch: %v", err)
	}
	defer w.Close()

	path := filepath.Join(dir, "web.yaml")
	if err := os.WriteFile(path, []byte("name: web\n"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	select {
	case change := <-w.Events:
		if change.Kind != SpecChanged || filepath.Base(change.Path) != "web.yaml" {
			t.Fatalf("unexpected change %+v", change)
		}
	case <-time.After(5 * time.Second):
		t.Fatalf("no change reported")
	}
}

func TestWatcherWaitsForWritesToSettle(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "web.yaml")
	if err := os.WriteFile(path, []byte("name: web\n"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	w, err := NewWatcher(dir)
	if err != nil {
		t.Fatalf("watch: %v", err)
	}
	defer w.Close()

	full := "name: web\nkey: e\nmax_length: 15\nstiffness: 20\n"
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		t.Fatalf("truncate: %v", err)
	}
	time.Sleep(DefaultDebounce / 4)
	if _, err := f.WriteString(full); err != nil {
		t.Fatalf("write: %v", err)
	}
	if err := f.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	select {
	case change := <-w.Events:
		if filepath.Base(change.Path) != "web.yaml" {
			t.Fatalf("unexpected change %+v", change)
		}
		data, err := os.ReadFile(change.Path)
		if err != nil {
			t.Fatalf("read: %v", err)
		}
		if string(data) != full {
			t.Fatalf("change reported before the write finished: %q", data)
		}
	case <-time.After(5 * time.Second):
		t.Fatalf("no change reported")
	}

	select {
	case change := <-w.Events:
		t.Fatalf("burst reported twice: %+v", change)
	case <-time.After(3 * DefaultDebounce):
	}
}

func TestWatcherMissingDir(t *testing.T) {
	if _, err := NewWatcher(filepath.Join(t.TempDir(), "missing")); err == nil {
		t.Fatalf("expected error for missing directory")
	}
}

func TestWatcherCloseTwice(t *testing.T) {
	w, err := NewWatcher(t.TempDir())
	if err != nil {
		t.Fatalf("watch: %v", err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("second close: %v", err)
	}
	if _, ok := <-w.Events; ok {
		t.Fatalf("events channel should be closed")
	}
}
