package replay

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/klauspost/compress/zstd"
	"github.com/milk9111/webswing/input"
	"github.com/milk9111/webswing/sim"
)

// Entry is one recorded frame: the timestamp handed to Frame and the key
// edges posted just before it.
type Entry struct {
	Frame     uint64           `json:"frame"`
	Timestamp float64          `json:"t"`
	Keys      []input.KeyEvent `json:"keys,omitempty"`
}

// Recorder writes entries as zstd-compressed JSON lines.
type Recorder struct {
	mu  sync.Mutex
	f   *os.File
	enc *zstd.Encoder
	w   *bufio.Writer
	n   int
}

// Create starts a recording file at path.
func Create(path string) (*Recorder, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, err
	}
	r, err := NewRecorder(f)
	if err != nil {
		_ = f.Close()
		return nil, err
	}
	r.f = f
	return r, nil
}

// NewRecorder compresses into w. Closing the recorder does not close w.
func NewRecorder(w io.Writer) (*Recorder, error) {
	enc, err := zstd.NewWriter(w, zstd.WithEncoderLevel(zstd.SpeedFastest))
	if err != nil {
		return nil, err
	}
	return &Recorder{enc: enc, w: bufio.NewWriterSize(enc, 64*1024)}, nil
}

var ErrRecorderClosed = errors.New("replay: recorder closed")

func (r *Recorder) Record(e Entry) error {
	if r == nil {
		return ErrRecorderClosed
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.w == nil {
		return ErrRecorderClosed
	}
	b, err := json.Marshal(e)
	if err != nil {
		return err
	}
	if _, err := r.w.Write(b); err != nil {
		return err
	}
	if err := r.w.WriteByte('\n'); err != nil {
		return err
	}
	r.n++
	return nil
}

// Len is the number of entries recorded.
func (r *Recorder) Len() int {
	if r == nil {
		return 0
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.n
}

// Close flushes and closes the recording. Closing twice, or closing a nil
// recorder, is a no-op.
func (r *Recorder) Close() error {
	if r == nil {
		return nil
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	var err error
	if r.w != nil {
		err = r.w.Flush()
		r.w = nil
	}
	if r.enc != nil {
		if cerr := r.enc.Close(); err == nil {
			err = cerr
		}
		r.enc = nil
	}
	if r.f != nil {
		if cerr := r.f.Close(); err == nil {
			err = cerr
		}
		r.f = nil
	}
	return err
}

// Read decodes every entry from a compressed stream.
func Read(r io.Reader) ([]Entry, error) {
	dec, err := zstd.NewReader(r)
	if err != nil {
		return nil, err
	}
	defer dec.Close()

	sc := bufio.NewScanner(dec)
	sc.Buffer(make([]byte, 64*1024), 8*1024*1024)

	var out []Entry
	line := 0
	for sc.Scan() {
		line++
		if len(sc.Bytes()) == 0 {
			continue
		}
		var e Entry
		if err := json.Unmarshal(sc.Bytes(), &e); err != nil {
			return out, fmt.Errorf("replay: line %d: %w", line, err)
		}
		out = append(out, e)
	}
	if err := sc.Err(); err != nil {
		return out, fmt.Errorf("replay: %w", err)
	}
	return out, nil
}

// Load reads a recording file.
func Load(path string) ([]Entry, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return Read(f)
}

// Play feeds entries into c in order: each entry's keys are posted and the
// frame is run at the recorded timestamp. onFrame, when set, runs after
// every frame.
func Play(c *sim.Context, entries []Entry, onFrame func(Entry)) {
	for _, e := range entries {
		c.PostKeys(e.Keys)
		c.Frame(e.Timestamp)
		if onFrame != nil {
			onFrame(e)
		}
	}
}
