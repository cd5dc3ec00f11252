package gateway

import (
	"net/http"
	"runtime"
	"time"

	"sniper-telemetry/internal/display"
	"sniper-telemetry/internal/logger"
	"sniper-telemetry/internal/stats"
)

// Error policy per endpoint: stats, positions and recent-trades surface
// store failures as a 500 error document (the research dashboard wants to
// see them); ai-stream and positions/active degrade to an empty payload
// with 200 so the live panels keep rendering through transient store
// contention. One policy per endpoint, applied consistently.

func (g *Gateway) handleStats(w http.ResponseWriter, r *http.Request) {
	defer g.observe("stats")()
	ctx := logger.WithRequestID(r.Context(), logger.GenerateRequestID("stats", time.Now()))

	reader, err := g.openStore()
	if err != nil {
		g.storeError(ctx, "stats", err)
		writeError(w, err)
		return
	}
	defer reader.Close()

	row, err := reader.Stats(ctx)
	if err != nil {
		g.storeError(ctx, "stats", err)
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, stats.Summarize(row))
}

func (g *Gateway) handlePositions(w http.ResponseWriter, r *http.Request) {
	defer g.observe("positions")()
	ctx := logger.WithRequestID(r.Context(), logger.GenerateRequestID("positions", time.Now()))

	reader, err := g.openStore()
	if err != nil {
		g.storeError(ctx, "positions", err)
		writeError(w, err)
		return
	}
	defer reader.Close()

	rows, err := reader.ClosedPositions(ctx, g.cfg.Limits.Positions)
	if err != nil {
		g.storeError(ctx, "positions", err)
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, display.ClosedPositions(rows))
}

func (g *Gateway) handleActivePositions(w http.ResponseWriter, r *http.Request) {
	defer g.observe("positions_active")()
	ctx := logger.WithRequestID(r.Context(), logger.GenerateRequestID("positions_active", time.Now()))

	reader, err := g.openStore()
	if err != nil {
		g.storeError(ctx, "positions_active", err)
		writeJSON(w, http.StatusOK, []display.ActivePositionOut{})
		return
	}
	defer reader.Close()

	rows, err := reader.ActivePositions(ctx, g.cfg.Limits.ActivePositions)
	if err != nil {
		g.storeError(ctx, "positions_active", err)
		writeJSON(w, http.StatusOK, []display.ActivePositionOut{})
		return
	}
	writeJSON(w, http.StatusOK, display.ActivePositions(rows))
}

func (g *Gateway) handleRecentTrades(w http.ResponseWriter, r *http.Request) {
	defer g.observe("recent_trades")()
	ctx := logger.WithRequestID(r.Context(), logger.GenerateRequestID("recent_trades", time.Now()))

	reader, err := g.openStore()
	if err != nil {
		g.storeError(ctx, "recent_trades", err)
		writeError(w, err)
		return
	}
	defer reader.Close()

	rows, err := reader.RecentTrades(ctx, g.cfg.Limits.Trades)
	if err != nil {
		g.storeError(ctx, "recent_trades", err)
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, display.Trades(rows))
}

func (g *Gateway) handleAIStream(w http.ResponseWriter, r *http.Request) {
	defer g.observe("ai_stream")()
	ctx := logger.WithRequestID(r.Context(), logger.GenerateRequestID("ai_stream", time.Now()))

	reader, err := g.openStore()
	if err != nil {
		g.storeError(ctx, "ai_stream", err)
		writeJSON(w, http.StatusOK, []display.DecisionOut{})
		return
	}
	defer reader.Close()

	rows, err := reader.RecentDecisions(ctx, g.cfg.Limits.Decisions)
	if err != nil {
		g.storeError(ctx, "ai_stream", err)
		writeJSON(w, http.StatusOK, []display.DecisionOut{})
		return
	}
	writeJSON(w, http.StatusOK, display.Decisions(rows))
}

// SystemInfo is the /api/system response body: a cheap runtime snapshot
// the dashboard shows in its footer.
type SystemInfo struct {
	UptimeSec   int64   `json:"uptime_sec"`
	Goroutines  int     `json:"goroutines"`
	HeapAllocMB float64 `json:"heap_alloc_mb"`
	GCRuns      uint32  `json:"gc_runs"`
	TS          string  `json:"ts"`
}

func (g *Gateway) handleSystem(w http.ResponseWriter, r *http.Request) {
	defer g.observe("system")()

	var ms runtime.MemStats
	runtime.ReadMemStats(&ms)

	writeJSON(w, http.StatusOK, SystemInfo{
		UptimeSec:   int64(time.Since(g.started).Seconds()),
		Goroutines:  runtime.NumGoroutine(),
		HeapAllocMB: float64(ms.HeapAlloc) / 1024 / 1024,
		GCRuns:      ms.NumGC,
		TS:          time.Now().UTC().Format(time.RFC3339Nano),
	})
}
