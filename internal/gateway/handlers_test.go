package gateway

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"sniper-telemetry/config"
	"sniper-telemetry/internal/metrics"
	"sniper-telemetry/internal/notification"
	"sniper-telemetry/internal/store/sqlite"

	"github.com/prometheus/client_golang/prometheus"
)

func testConfig(storePath string) *config.Config {
	return &config.Config{
		StorePath:        storePath,
		ListenAddr:       ":0",
		ControlChannel:   "control:bot",
		PushIntervalSecs: 5,
		Limits: config.SliceLimits{
			Positions:       50,
			Trades:          20,
			Decisions:       20,
			ActivePositions: 3,
		},
	}
}

func newTestServer(t *testing.T, storePath string) (*Gateway, *httptest.Server) {
	t.Helper()
	g := New(
		testConfig(storePath),
		slog.New(slog.NewTextHandler(io.Discard, nil)),
		metrics.NewWith(prometheus.NewRegistry()),
		nil,
		notification.NewLogNotifier(),
	)
	mux := http.NewServeMux()
	g.RegisterRoutes(mux)
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return g, srv
}

func seedStore(t *testing.T) (string, *sql.DB) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "sniper_bot.db")
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		t.Fatalf("open fixture store: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	if _, err := db.Exec(sqlite.Schema); err != nil {
		t.Fatalf("create schema: %v", err)
	}
	return path, db
}

func getJSON(t *testing.T, url string, out interface{}) (*http.Response, []byte) {
	t.Helper()
	resp, err := http.Get(url)
	if err != nil {
		t.Fatalf("GET %s: %v", url, err)
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("read body: %v", err)
	}
	if out != nil {
		if err := json.Unmarshal(body, out); err != nil {
			t.Fatalf("decode %s: %v (body: %s)", url, err, body)
		}
	}
	return resp, body
}

func TestStatsEndpoint_Scenario(t *testing.T) {
	path, db := seedStore(t)
	for i := 0; i < 4; i++ {
		db.Exec(`INSERT INTO trades (trade_type, mint, sol_amount, timestamp_micros) VALUES ('buy', 'mintA', 0.1, ?)`,
			1705314605000000+int64(i))
	}
	db.Exec(`INSERT INTO positions (mint, entry_time, entry_sol, status) VALUES ('mintOpen', 1705314000, 0.5, 'active')`)
	db.Exec(`INSERT INTO positions (mint, entry_time, entry_sol, exit_time, pnl_sol, status)
	         VALUES ('mintWin', 1705314000, 0.5, 1705314605, 2.0, 'closed')`)

	_, srv := newTestServer(t, path)

	var got map[string]float64
	resp, _ := getJSON(t, srv.URL+"/api/stats", &got)

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status=%d", resp.StatusCode)
	}
	if resp.Header.Get("Access-Control-Allow-Origin") != "*" {
		t.Error("missing CORS header")
	}
	if resp.Header.Get("Content-Type") != "application/json" {
		t.Errorf("content-type=%q", resp.Header.Get("Content-Type"))
	}

	want := map[string]float64{
		"total_trades":     4,
		"open_positions":   1,
		"closed_positions": 1,
		"wins":             1,
		"losses":           0,
		"win_rate_pct":     100,
		"total_pnl_sol":    2.0,
	}
	for k, v := range want {
		if got[k] != v {
			t.Errorf("%s=%v, want %v", k, got[k], v)
		}
	}
}

func TestRecentTrades_ErrorThenRecovery(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "nope.db")
	g, srv := newTestServer(t, missing)

	var errBody map[string]string
	resp, _ := getJSON(t, srv.URL+"/api/recent-trades", &errBody)
	if resp.StatusCode != http.StatusInternalServerError {
		t.Fatalf("status=%d, want 500", resp.StatusCode)
	}
	if errBody["error"] == "" {
		t.Fatal("expected error message in body")
	}

	// a failed request must not poison the server: repoint at a healthy
	// store and the next request succeeds
	path, db := seedStore(t)
	db.Exec(`INSERT INTO trades (trade_type, mint, sol_amount, timestamp_micros) VALUES ('sell', 'mintB', 0.2, 1705314605000000)`)
	g.cfg.StorePath = path

	var trades []map[string]interface{}
	resp, _ = getJSON(t, srv.URL+"/api/recent-trades", &trades)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status after recovery=%d", resp.StatusCode)
	}
	if len(trades) != 1 {
		t.Fatalf("got %d trades, want 1", len(trades))
	}
}

func TestRecentTrades_Bound(t *testing.T) {
	path, db := seedStore(t)
	for i := 0; i < 2000; i++ {
		db.Exec(`INSERT INTO trades (trade_type, mint, sol_amount, timestamp_micros) VALUES ('buy', 'mintA', 0.1, ?)`,
			1705314605000000+int64(i))
	}

	_, srv := newTestServer(t, path)

	var trades []map[string]interface{}
	getJSON(t, srv.URL+"/api/recent-trades", &trades)
	if len(trades) > 20 {
		t.Fatalf("got %d trades, bound is 20", len(trades))
	}
}

func TestAIStream_DegradesToEmpty(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "nope.db")
	_, srv := newTestServer(t, missing)

	var decisions []map[string]interface{}
	resp, body := getJSON(t, srv.URL+"/api/ai-stream", &decisions)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status=%d, want 200 (degrade policy)", resp.StatusCode)
	}
	if len(decisions) != 0 {
		t.Fatalf("expected empty payload, got %s", body)
	}
}

func TestActivePositions_LiveView(t *testing.T) {
	path, db := seedStore(t)
	for i := 0; i < 5; i++ {
		db.Exec(`INSERT INTO positions (mint, entry_time, entry_sol, tokens, pnl_sol, pnl_percent, status)
		         VALUES (?, ?, 0.5, 100000, 0.125, 25.0, 'active')`,
			fmt.Sprintf("Mint%02dxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxpump", i), 1705314000+int64(i))
	}

	_, srv := newTestServer(t, path)

	var positions []map[string]interface{}
	resp, _ := getJSON(t, srv.URL+"/api/positions/active", &positions)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status=%d", resp.StatusCode)
	}
	if len(positions) != 3 {
		t.Fatalf("got %d positions, want 3 (live snapshot bound)", len(positions))
	}
	p := positions[0]
	if p["full_mint"] == "" || len(p["full_mint"].(string)) < 16 {
		t.Errorf("full_mint missing: %v", p["full_mint"])
	}
	if p["current_value"].(float64) != 0.625 {
		t.Errorf("current_value=%v, want 0.625", p["current_value"])
	}
}

func TestClosedPositions_Endpoint(t *testing.T) {
	path, db := seedStore(t)
	for i := 0; i < 60; i++ {
		db.Exec(`INSERT INTO positions (mint, entry_time, entry_sol, exit_time, pnl_sol, status)
		         VALUES (?, ?, 0.5, ?, 0.1, 'closed')`,
			fmt.Sprintf("mint%02d", i), 1705300000+int64(i), 1705310000+int64(i))
	}

	_, srv := newTestServer(t, path)

	var positions []map[string]interface{}
	getJSON(t, srv.URL+"/api/positions", &positions)
	if len(positions) != 50 {
		t.Fatalf("got %d positions, want exactly 50", len(positions))
	}
	// the 10 oldest fell off the end
	if positions[0]["mint"] != "mint59" {
		t.Errorf("newest=%v, want mint59", positions[0]["mint"])
	}
	if positions[49]["mint"] != "mint10" {
		t.Errorf("oldest kept=%v, want mint10", positions[49]["mint"])
	}
}

func TestControl_AckAndMethodGuard(t *testing.T) {
	path, _ := seedStore(t)
	_, srv := newTestServer(t, path)

	resp, err := http.Post(srv.URL+"/api/control/sell-all", "application/json", nil)
	if err != nil {
		t.Fatalf("POST control: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status=%d", resp.StatusCode)
	}
	var ack map[string]string
	if err := json.NewDecoder(resp.Body).Decode(&ack); err != nil {
		t.Fatalf("decode ack: %v", err)
	}
	if ack["status"] != "ok" || ack["message"] == "" {
		t.Fatalf("unexpected ack: %v", ack)
	}

	// control endpoints are POST-only
	getResp, err := http.Get(srv.URL + "/api/control/start")
	if err != nil {
		t.Fatalf("GET control: %v", err)
	}
	getResp.Body.Close()
	if getResp.StatusCode != http.StatusMethodNotAllowed {
		t.Fatalf("GET status=%d, want 405", getResp.StatusCode)
	}
}

func TestSystemEndpoint(t *testing.T) {
	path, _ := seedStore(t)
	_, srv := newTestServer(t, path)

	var info map[string]interface{}
	resp, _ := getJSON(t, srv.URL+"/api/system", &info)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status=%d", resp.StatusCode)
	}
	if _, ok := info["goroutines"]; !ok {
		t.Error("missing goroutines field")
	}
}
