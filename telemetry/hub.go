package telemetry

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"
	"github.com/milk9111/webswing/sim"
)

const (
	Version = 1

	TypeHello = "HELLO"
	TypeFrame = "FRAME"
)

// Message is what viewers receive, one JSON text frame each.
type Message struct {
	Type     string        `json:"type"`
	Version  int           `json:"version,omitempty"`
	Snapshot *sim.Snapshot `json:"snapshot,omitempty"`
}

// Hub fans frame snapshots out to websocket viewers. Slow viewers miss
// frames rather than stalling the game loop.
type Hub struct {
	upgrader websocket.Upgrader

	mu      sync.Mutex
	clients map[uint64]chan []byte
	closed  bool

	nextID  atomic.Uint64
	dropped atomic.Uint64
}

func NewHub() *Hub {
	return &Hub{
		upgrader: websocket.Upgrader{
			ReadBufferSize:  4 * 1024,
			WriteBufferSize: 16 * 1024,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
		clients: make(map[uint64]chan []byte),
	}
}

// Clients is the number of connected viewers.
func (h *Hub) Clients() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}

// Dropped counts frames skipped because a viewer's buffer was full.
func (h *Hub) Dropped() uint64 {
	return h.dropped.Load()
}

// Publish sends s to every viewer without blocking.
func (h *Hub) Publish(s sim.Snapshot) {
	b, err := json.Marshal(Message{Type: TypeFrame, Snapshot: &s})
	if err != nil {
		log.Printf("telemetry: encode frame %d: %v", s.Frame, err)
		return
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	for _, ch := range h.clients {
		select {
		case ch <- b:
		default:
			h.dropped.Add(1)
		}
	}
}

// Close disconnects every viewer and refuses new ones.
func (h *Hub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.closed = true
	for id, ch := range h.clients {
		close(ch)
		delete(h.clients, id)
	}
}

func (h *Hub) join() (uint64, chan []byte, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return 0, nil, false
	}
	id := h.nextID.Add(1)
	ch := make(chan []byte, 64)
	h.clients[id] = ch
	return id, ch, true
}

func (h *Hub) leave(id uint64) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if ch, ok := h.clients[id]; ok {
		close(ch)
		delete(h.clients, id)
	}
}

// Handler upgrades the request and streams frames until the viewer goes
// away or the hub closes.
func (h *Hub) Handler() http.HandlerFunc {
	return func(rw http.ResponseWriter, r *http.Request) {
		conn, err := h.upgrader.Upgrade(rw, r, nil)
		if err != nil {
			return
		}
		defer conn.Close()

		id, out, ok := h.join()
		if !ok {
			_ = conn.WriteControl(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseGoingAway, "closed"), time.Now().Add(time.Second))
			return
		}
		defer h.leave(id)

		hello, _ := json.Marshal(Message{Type: TypeHello, Version: Version})
		_ = conn.SetWriteDeadline(time.Now().Add(5 * time.Second))
		if err := conn.WriteMessage(websocket.TextMessage, hello); err != nil {
			return
		}

		// Viewers send nothing we need; reading only notices the close.
		readDone := make(chan struct{})
		go func() {
			defer close(readDone)
			for {
				if _, _, err := conn.ReadMessage(); err != nil {
					return
				}
			}
		}()

		for {
			select {
			case <-readDone:
				return
			case b, ok := <-out:
				if !ok {
					_ = conn.WriteControl(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, "bye"), time.Now().Add(time.Second))
					return
				}
				_ = conn.SetWriteDeadline(time.Now().Add(5 * time.Second))
				if err := conn.WriteMessage(websocket.TextMessage, b); err != nil {
					return
				}
			}
		}
	}
}

// Serve runs an HTTP server exposing the hub at /ws until ctx is done.
func Serve(ctx context.Context, addr string, h *Hub) error {
	mux := http.NewServeMux()
	mux.Handle("/ws", h.Handler())
	mux.HandleFunc("/healthz", func(rw http.ResponseWriter, r *http.Request) {
		rw.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(rw).Encode(map[string]any{"ok": true, "viewers": h.Clients()})
	})
	srv := &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()
	select {
	case <-ctx.Done():
		h.Close()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
		return nil
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}
