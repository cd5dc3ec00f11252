package gateway

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"sniper-telemetry/internal/stats"

	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	CheckOrigin:       func(r *http.Request) bool { return true },
	EnableCompression: true,
}

// Hub pushes the stats summary to connected dashboards on a fixed
// interval. Delivery is best-effort: slow clients get dropped frames and
// a dead store skips a push. The polling endpoints remain the source of
// truth; this only saves the dashboard a refresh timer.
type Hub struct {
	g *Gateway

	mu      sync.RWMutex
	clients map[*websocket.Conn]chan []byte
}

// statsEnvelope is the frame pushed to /ws clients.
type statsEnvelope struct {
	Channel string        `json:"channel"`
	Data    stats.Summary `json:"data"`
	TS      string        `json:"ts"`
}

// NewHub creates the live-stats hub.
func NewHub(g *Gateway) *Hub {
	return &Hub{
		g:       g,
		clients: make(map[*websocket.Conn]chan []byte),
	}
}

// Run pushes stats until ctx is cancelled.
func (h *Hub) Run(ctx context.Context) {
	interval := time.Duration(h.g.cfg.PushIntervalSecs) * time.Second
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			h.closeAll()
			return
		case <-ticker.C:
			h.push(ctx)
		}
	}
}

func (h *Hub) push(ctx context.Context) {
	h.mu.RLock()
	n := len(h.clients)
	h.mu.RUnlock()
	if n == 0 {
		return
	}

	reader, err := h.g.openStore()
	if err != nil {
		h.g.storeError(ctx, "ws_push", err)
		return
	}
	defer reader.Close()

	row, err := reader.Stats(ctx)
	if err != nil {
		h.g.storeError(ctx, "ws_push", err)
		return
	}

	msg, err := json.Marshal(statsEnvelope{
		Channel: "stats",
		Data:    stats.Summarize(row),
		TS:      time.Now().UTC().Format(time.RFC3339Nano),
	})
	if err != nil {
		return
	}
	h.broadcast(msg)
}

func (h *Hub) broadcast(msg []byte) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	for _, ch := range h.clients {
		select {
		case ch <- msg:
		default: // slow client — drop frame
		}
	}
}

func (h *Hub) register(conn *websocket.Conn) chan []byte {
	ch := make(chan []byte, 16)
	h.mu.Lock()
	h.clients[conn] = ch
	n := len(h.clients)
	h.mu.Unlock()
	h.g.met.WSClients.Set(float64(n))
	return ch
}

func (h *Hub) unregister(conn *websocket.Conn) {
	h.mu.Lock()
	if ch, ok := h.clients[conn]; ok {
		close(ch)
		delete(h.clients, conn)
	}
	n := len(h.clients)
	h.mu.Unlock()
	h.g.met.WSClients.Set(float64(n))
}

func (h *Hub) closeAll() {
	h.mu.Lock()
	for conn, ch := range h.clients {
		close(ch)
		delete(h.clients, conn)
		conn.Close()
	}
	h.mu.Unlock()
	h.g.met.WSClients.Set(0)
}

// HandleWS upgrades the connection and runs the client's write pump.
func (h *Hub) HandleWS(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.g.log.Error("ws upgrade failed", slog.String("error", err.Error()))
		return
	}
	h.g.log.Info("ws client connected", slog.String("remote", r.RemoteAddr))

	ch := h.register(conn)
	defer func() {
		h.unregister(conn)
		conn.Close()
		h.g.log.Info("ws client disconnected", slog.String("remote", r.RemoteAddr))
	}()

	for msg := range ch {
		conn.SetWriteDeadline(time.Now().Add(5 * time.Second))
		if err := conn.WriteMessage(websocket.TextMessage, msg); err != nil {
			return
		}
	}
}
