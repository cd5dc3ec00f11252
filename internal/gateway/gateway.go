// Package gateway is the dashboard-facing HTTP surface: JSON telemetry
// endpoints computed fresh from the bot's store on every request, control
// stubs relayed to the bot over Redis pub/sub, and a best-effort WebSocket
// stats push. Handlers are stateless; the store is the sole source of
// truth and a failing request never affects the next one.
package gateway

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"sniper-telemetry/config"
	"sniper-telemetry/internal/control"
	"sniper-telemetry/internal/logger"
	"sniper-telemetry/internal/metrics"
	"sniper-telemetry/internal/notification"
	"sniper-telemetry/internal/store/sqlite"
)

// Gateway wires the telemetry handlers to their collaborators.
type Gateway struct {
	cfg      *config.Config
	log      *slog.Logger
	met      *metrics.Metrics
	ctrl     *control.Publisher // nil when no control plane is configured
	notifier notification.Notifier
	hub      *Hub
	started  time.Time

	// openStore is swappable so tests can point one handler at a broken
	// store without touching the filesystem.
	openStore func() (*sqlite.Reader, error)
}

// New creates a Gateway. ctrl may be nil; notifier must not be.
func New(cfg *config.Config, log *slog.Logger, met *metrics.Metrics, ctrl *control.Publisher, notifier notification.Notifier) *Gateway {
	g := &Gateway{
		cfg:      cfg,
		log:      log,
		met:      met,
		ctrl:     ctrl,
		notifier: notifier,
		started:  time.Now(),
	}
	g.openStore = func() (*sqlite.Reader, error) {
		return sqlite.Open(cfg.StorePath)
	}
	g.hub = NewHub(g)
	return g
}

// Hub exposes the live-stats hub so the main can run it.
func (g *Gateway) Hub() *Hub { return g.hub }

// RegisterRoutes registers all HTTP routes on the provided mux.
func (g *Gateway) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("/api/stats", g.handleStats)
	mux.HandleFunc("/api/positions", g.handlePositions)
	mux.HandleFunc("/api/positions/active", g.handleActivePositions)
	mux.HandleFunc("/api/recent-trades", g.handleRecentTrades)
	mux.HandleFunc("/api/ai-stream", g.handleAIStream)
	mux.HandleFunc("/api/system", g.handleSystem)
	mux.HandleFunc("/api/control/start", g.controlHandler("start", "Bot started"))
	mux.HandleFunc("/api/control/pause", g.controlHandler("pause", "Bot paused"))
	mux.HandleFunc("/api/control/sell-all", g.controlHandler("sell-all", "Emergency sell initiated"))
	mux.HandleFunc("/ws", g.hub.HandleWS)
}

// setCORS sets permissive CORS headers; the dashboard is served from a
// different origin/port than the API.
func setCORS(w http.ResponseWriter) {
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
	w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	setCORS(w)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// writeError emits the structured error document. Used by the endpoints
// whose policy is error visibility over availability.
func writeError(w http.ResponseWriter, err error) {
	writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
}

// observe times a request and counts it, returning a done func for defer.
func (g *Gateway) observe(endpoint string) func() {
	start := time.Now()
	g.met.RequestsTotal.WithLabelValues(endpoint).Inc()
	return func() {
		g.met.RequestDur.Observe(time.Since(start).Seconds())
	}
}

func (g *Gateway) storeError(ctx context.Context, endpoint string, err error) {
	g.met.StoreErrorsTotal.Inc()
	attrs := []any{
		slog.String("endpoint", endpoint),
		slog.String("error", err.Error()),
	}
	attrs = append(attrs, logger.WithRequest(ctx)...)
	g.log.Error("store query failed", attrs...)
}
